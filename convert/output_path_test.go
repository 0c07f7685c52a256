package convert

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"reflow/config"
	"reflow/state"
)

func setupTestEnvForOutputPath(t *testing.T, noDirs bool, transliterate bool) *state.LocalEnv {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Output.FileNameTransliterate = transliterate

	env := &state.LocalEnv{
		Log:    logger,
		Cfg:    cfg,
		NoDirs: noDirs,
	}
	return env
}

func TestBuildOutputPath(t *testing.T) {
	dst := filepath.FromSlash("/out")

	tests := []struct {
		name          string
		src           string
		noDirs        bool
		transliterate bool
		ext           string
		want          string
	}{
		{"single file", "page.html", false, false, ".ops", "/out/page.ops"},
		{"keeps sub-directories", "book/part 1/ch1.xhtml", false, false, ".ops", "/out/book/part 1/ch1.ops"},
		{"no dirs", "book/part 1/ch1.xhtml", true, false, ".ops", "/out/ch1.ops"},
		{"no extension", "README", false, false, ".txt", "/out/README.txt"},
		{"double extension", "a.tar.html", false, false, ".ops", "/out/a.tar.ops"},
		{"transliterate", "Книга/Глава.html", false, true, ".ops", "/out/kniga/glava.ops"},
		{"hidden name", ".hidden.html", false, false, ".ops", "/out/hidden.ops"},
		{"dot segments", "./a/./b.html", false, false, ".ops", "/out/a/b.ops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, tt.noDirs, tt.transliterate)
			got := buildOutputPath(filepath.FromSlash(tt.src), dst, tt.ext, env)
			if want := filepath.FromSlash(tt.want); got != want {
				t.Errorf("buildOutputPath() = %q, want %q", got, want)
			}
		})
	}
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected []string
	}{
		{"simple path", "author/book", []string{"author", "book"}},
		{"single segment", "book", []string{"book"}},
		{"with trailing slash", "author/book/", []string{"author", "book"}},
		{"three levels", "genre/author/book", []string{"genre", "author", "book"}},
		{"current dir", ".", []string{}},
		{"empty path", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitPath(filepath.FromSlash(tt.path))
			if len(result) != len(tt.expected) {
				t.Errorf("splitPath() length = %d, want %d", len(result), len(tt.expected))
				return
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitPath()[%d] = %q, want %q", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestCleanPathSegment(t *testing.T) {
	tests := []struct {
		name          string
		segment       string
		transliterate bool
		expected      string
	}{
		{"simple segment", "author", false, "author"},
		{"with spaces", "My Book", false, "My Book"},
		{"transliterate cyrillic", "Автор", true, "avtor"},
		{"transliterate spaces", "My Book", true, "my-book"},
		{"only dots", "...", false, "_bad_file_name_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, true, tt.transliterate)

			result := cleanPathSegment(tt.segment, env)
			if result != tt.expected {
				t.Errorf("cleanPathSegment() = %q, want %q", result, tt.expected)
			}
		})
	}
}
