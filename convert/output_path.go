package convert

import (
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	"reflow/config"
	"reflow/state"
)

// buildOutputPath returns output file path for source document. "src" is
// path of the document relative to the processed directory or archive,
// unless NoDirs is requested the same sub-directories are created under
// "dst". Every path segment is cleaned up and transliterated if configured.
func buildOutputPath(src, dst, ext string, env *state.LocalEnv) string {
	parts := []string{dst}
	if !env.NoDirs {
		for _, dir := range splitPath(filepath.Dir(src)) {
			parts = append(parts, cleanPathSegment(dir, env))
		}
	}
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	parts = append(parts, cleanPathSegment(base, env)+ext)
	return filepath.Join(parts...)
}

// splitPath returns non-empty segments of relative path.
func splitPath(path string) []string {
	var segments []string
	for _, s := range strings.Split(filepath.ToSlash(path), "/") {
		if s != "" && s != "." {
			segments = append(segments, s)
		}
	}
	return segments
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Output.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
