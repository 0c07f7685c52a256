// Package archive walks documents stored in zip archives.
package archive

import (
	"fmt"
	"path"
	"slices"
	"strings"

	fixzip "github.com/hidez8891/zip"
	"github.com/maruel/natural"
)

// File is single archive entry passed to WalkFunc.
type File = fixzip.File

// WalkFunc is called for every file under requested prefix. The archive
// argument is path to archive passed to Walk. If an error is returned,
// processing stops.
type WalkFunc func(archive string, file *File) error

// Walk visits all files in the archive whose names start with prefix in
// natural name order, so "ch2.html" comes before "ch10.html". Directories
// are skipped. Archives with absolute entry names or ".." components are
// rejected.
func Walk(archive, prefix string, walkFn WalkFunc) error {
	r, err := fixzip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	files := make([]*File, 0, len(r.File))
	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if !f.FileInfo().IsDir() && strings.HasPrefix(name, prefix) {
			files = append(files, f)
		}
	}
	slices.SortStableFunc(files, func(a, b *File) int {
		switch {
		case natural.Less(a.FileHeader.Name, b.FileHeader.Name):
			return -1
		case natural.Less(b.FileHeader.Name, a.FileHeader.Name):
			return 1
		}
		return 0
	})

	for _, f := range files {
		if err := walkFn(archive, f); err != nil {
			return err
		}
	}
	return nil
}

func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	return !slices.Contains(strings.Split(strings.ReplaceAll(name, `\`, "/"), "/"), "..")
}
