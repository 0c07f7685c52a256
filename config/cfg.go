package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	MarginsConfig struct {
		Top    float64 `yaml:"top" validate:"gte=0"`
		Right  float64 `yaml:"right" validate:"gte=0"`
		Bottom float64 `yaml:"bottom" validate:"gte=0"`
		Left   float64 `yaml:"left" validate:"gte=0"`
	}

	// PageConfig describes page in device units, with DPI 72 one unit is
	// one point.
	PageConfig struct {
		Width   float64       `yaml:"width" validate:"gt=0"`
		Height  float64       `yaml:"height" validate:"gt=0"`
		DPI     float64       `yaml:"dpi" validate:"gt=0"`
		Margins MarginsConfig `yaml:"margins"`
	}

	FontConfig struct {
		Family string `yaml:"family" validate:"required"`
		Path   string `yaml:"path" sanitize:"path_clean,assure_file_access" validate:"required"`
		Bold   bool   `yaml:"bold"`
		Italic bool   `yaml:"italic"`
	}

	LayoutConfig struct {
		FontFamily string       `yaml:"font_family"`
		FontSize   float64      `yaml:"font_size" validate:"gte=0"`
		Strict     bool         `yaml:"strict"`
		MaxPasses  int          `yaml:"max_passes" validate:"min=1"`
		DebugLines bool         `yaml:"debug_lines"`
		Fonts      []FontConfig `yaml:"fonts" validate:"dive"`
	}

	PreviewConfig struct {
		Enable  bool    `yaml:"enable"`
		Format  string  `yaml:"format" validate:"oneof=png jpeg"`
		Scale   float64 `yaml:"scale" validate:"gt=0,lte=8"`
		Quality int     `yaml:"jpeg_quality" validate:"min=40,max=100"`
	}

	OutputConfig struct {
		FileNameTransliterate bool          `yaml:"file_name_transliterate"`
		Extension             string        `yaml:"extension" validate:"required,startswith=."`
		Preview               PreviewConfig `yaml:"preview"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Page      PageConfig     `yaml:"page"`
		Layout    LayoutConfig   `yaml:"layout"`
		Output    OutputConfig   `yaml:"output"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
