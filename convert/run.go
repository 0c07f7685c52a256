// Package convert lays out HTML and XHTML documents found in files,
// directories and zip archives and writes their drawing instructions.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/ianaindex"

	"reflow/archive"
	"reflow/dom"
	"reflow/font"
	"reflow/layout"
	"reflow/state"
	"reflow/utils/images"
)

// stdoutDestination makes results go to standard output instead of files.
const stdoutDestination = "-"

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("layout")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst != stdoutDestination {
		if dst, err = filepath.Abs(dst); err != nil {
			return err
		}
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.NoDirs, env.Overwrite, env.DumpTree = cmd.Bool("nodirs"), cmd.Bool("overwrite"), cmd.Bool("dump")
	if cmd.Bool("strict") {
		env.Cfg.Layout.Strict = true
	}
	if cmd.Bool("debug-lines") {
		env.Cfg.Layout.DebugLines = true
	}
	if cmd.Bool("preview") {
		env.Cfg.Output.Preview.Enable = true
	}

	// Neither zip nor html without meta define encoding, we may need to
	// force archaic code page for old files
	if cp := cmd.String("force-cp"); len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil || env.CodePage == nil {
			log.Warn("Unknown character set name. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully converting archive names and html documents", zap.String("charset", n))
		}
	}

	if env.Engine, err = prepareEngine(env, log); err != nil {
		return err
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, log)
}

// prepareEngine creates layout engine shared by all documents: configured
// fonts are loaded once and cached by resolver.
func prepareEngine(env *state.LocalEnv, log *zap.Logger) (*layout.Engine, error) {
	fonts := font.NewResolver(log)
	for _, f := range env.Cfg.Layout.Fonts {
		if err := fonts.RegisterFile(f.Family, f.Bold, f.Italic, f.Path); err != nil {
			return nil, fmt.Errorf("unable to load font %q: %w", f.Family, err)
		}
	}
	return layout.NewEngine(env.PageFromConfig(), layout.Options{
		Fonts:      fonts,
		FontFamily: env.Cfg.Layout.FontFamily,
		FontSize:   env.Cfg.Layout.FontSize,
		Strict:     env.Cfg.Layout.Strict,
		MaxPasses:  env.Cfg.Layout.MaxPasses,
		DebugLines: env.Cfg.Layout.DebugLines,
	}, env.Log), nil
}

// process determines the input type (directory, archive, file or path
// inside archive) and processes it accordingly.
func process(ctx context.Context, src, dst string, log *zap.Logger) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := processDir(ctx, head, dst, log); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if err := processArchive(ctx, head, filepath.ToSlash(tail), "", dst, log); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		kind, enc, err := isDocumentFile(head)
		if err != nil {
			return fmt.Errorf("unable to check file type: %w", err)
		}
		if kind != docNone && len(tail) == 0 {
			if err := processFile(ctx, head, filepath.Base(head), kind, enc, dst, log); err != nil {
				log.Error("Unable to process file", zap.String("file", head), zap.Error(err))
			}
			break
		}
		return fmt.Errorf("input was not recognized as html or xhtml document (%s)", head)
	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	return nil
}

func processFile(ctx context.Context, path, src string, kind docKind, enc srcEncoding, dst string, log *zap.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return processDocument(ctx, f, src, kind, enc, dst, log)
}

// processDir finds documents and archives in directory tree and processes
// them in natural name order.
func processDir(ctx context.Context, dir, dst string, log *zap.Logger) error {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	slices.SortFunc(paths, naturalOrder)

	count := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))

		isArchive, err := isArchiveFile(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if isArchive {
			// archive content goes to directory named after archive
			if err := processArchive(ctx, path, "", strings.TrimSuffix(rel, filepath.Ext(rel)), dst, log); err != nil {
				log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
			}
			continue
		}

		kind, enc, err := isDocumentFile(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if kind == docNone {
			log.Debug("Skipping file, not recognized as document or archive", zap.String("file", path))
			continue
		}

		count++
		if err := processFile(ctx, path, rel, kind, enc, dst, log); err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		}
	}
	if count == 0 {
		log.Debug("Nothing to process", zap.String("dir", dir))
	}
	return nil
}

func naturalOrder(a, b string) int {
	switch {
	case natural.Less(a, b):
		return -1
	case natural.Less(b, a):
		return 1
	}
	return 0
}

// processArchive lays out all documents inside archive under "pathIn".
// "pathOut" is archive location relative to processed directory.
func processArchive(ctx context.Context, path, pathIn, pathOut, dst string, log *zap.Logger) error {
	count := 0
	cp := state.EnvFromContext(ctx).CodePage

	err := archive.Walk(path, pathIn, func(arc string, f *archive.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		kind, enc, err := isDocumentInArchive(f)
		if err != nil {
			log.Warn("Skipping file in archive", zap.String("archive", arc), zap.String("path", f.FileHeader.Name), zap.Error(err))
			return nil
		}
		if kind == docNone {
			log.Debug("Skipping file, not recognized as document", zap.String("archive", arc), zap.String("file", f.FileHeader.Name))
			return nil
		}

		count++

		r, err := f.Open()
		if err != nil {
			log.Error("Unable to process file in archive", zap.String("archive", arc), zap.String("file", f.FileHeader.Name), zap.Error(err))
			return nil
		}
		defer r.Close()

		name := f.FileHeader.Name
		if cp != nil && f.FileHeader.NonUTF8 {
			if n, err := cp.NewDecoder().String(name); err == nil {
				name = n
			} else {
				n, _ = ianaindex.IANA.Name(cp)
				log.Warn("Unable to convert archive name from specified encoding", zap.String("charset", n), zap.String("path", name), zap.Error(err))
			}
		}
		if err := processDocument(ctx, r, filepath.Join(pathOut, filepath.FromSlash(name)), kind, enc, dst, log); err != nil {
			log.Error("Unable to process file in archive", zap.String("archive", arc), zap.String("file", f.FileHeader.Name), zap.Error(err))
		}
		return nil
	})
	if err == nil && count == 0 {
		log.Debug("Nothing to process", zap.String("archive", path))
	}
	return err
}

// documentReader returns UTF-8 reader for document content. Documents with
// byte order mark are decoded accordingly, html without it uses forced code
// page or charset from meta tags, xhtml declares its own encoding.
func documentReader(r io.Reader, kind docKind, enc srcEncoding, env *state.LocalEnv) (io.Reader, error) {
	if enc != encUnknown {
		return selectReader(r, enc), nil
	}
	if kind != docHTML {
		return r, nil
	}
	if env.CodePage != nil {
		return env.CodePage.NewDecoder().Reader(r), nil
	}
	return charset.NewReader(r, "text/html")
}

func parseDocument(data []byte, kind docKind) (*dom.Node, error) {
	switch kind {
	case docHTML:
		return dom.ParseHTML(bytes.NewReader(data))
	case docXHTML:
		return dom.ParseXHTML(bytes.NewReader(data))
	}
	return nil, fmt.Errorf("unsupported document kind %s", kind)
}

// processDocument lays out single document. "src" is path of the document
// relative to the processed directory or archive (base name when single file
// was requested), "dst" is the destination directory.
func processDocument(ctx context.Context, r io.Reader, src string, kind docKind, enc srcEncoding, dst string, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var docID uuid.UUID
	outputName := dst

	log.Info("Layout starting", zap.String("from", src), zap.Stringer("kind", kind))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Layout ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("layout panic: %v", r)
		} else if rerr == nil {
			log.Info("Layout completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.Stringer("id", docID))
		}
	}(time.Now())

	dr, err := documentReader(r, kind, enc, env)
	if err != nil {
		return fmt.Errorf("unable to decode document (%s): %w", src, err)
	}
	data, err := io.ReadAll(dr)
	if err != nil {
		return fmt.Errorf("unable to read document (%s): %w", src, err)
	}
	docID = uuid.NewSHA1(uuid.NameSpaceURL, data)

	root, err := parseDocument(data, kind)
	if err != nil {
		return fmt.Errorf("unable to parse document (%s): %w", src, err)
	}
	tree, err := env.Engine.Layout(root)
	if err != nil {
		return fmt.Errorf("unable to lay out document (%s): %w", src, err)
	}

	if env.Rpt != nil || env.DumpTree {
		dump := []byte(tree.Dump())
		env.Rpt.StoreData(fmt.Sprintf("tree/%s-%s.txt", filepath.ToSlash(src), docID), dump)
		if env.DumpTree {
			log.Debug("Box tree", zap.String("from", src), zap.ByteString("tree", dump))
		}
	}

	write := func(w io.Writer) error {
		if err := writeHeader(w, docID, src, tree.Page()); err != nil {
			return err
		}
		return tree.Render(w)
	}

	if dst == stdoutDestination {
		outputName = "STDOUT"
		if env.Cfg.Output.Preview.Enable {
			log.Warn("Preview is not available when writing to standard output", zap.String("from", src))
		}
		return write(os.Stdout)
	}

	outputName = buildOutputPath(src, dst, env.Cfg.Output.Extension, env)
	if err := writeOutput(outputName, env.Overwrite, write, log); err != nil {
		return err
	}
	env.Rpt.Store("result/"+filepath.ToSlash(src)+filepath.Ext(outputName), outputName)

	if env.Cfg.Output.Preview.Enable {
		name, err := writePreview(tree, strings.TrimSuffix(outputName, filepath.Ext(outputName)), env, log)
		if err != nil {
			return fmt.Errorf("unable to prepare preview: %w", err)
		}
		env.Rpt.Store("preview/"+filepath.ToSlash(src)+filepath.Ext(name), name)
	}
	return nil
}

func writeHeader(w io.Writer, id uuid.UUID, src string, page *layout.Page) error {
	_, err := fmt.Fprintf(w, "%% document %s\n%% source %s\n%% page %g %g\n\n", id, filepath.ToSlash(src), page.Width, page.Height)
	return err
}

// writeOutput creates output file refusing to replace existing one unless
// overwrite was requested.
func writeOutput(name string, overwrite bool, write func(io.Writer) error, log *zap.Logger) (err error) {
	if _, err := os.Stat(name); err == nil {
		if !overwrite {
			return fmt.Errorf("output file already exists: %s", name)
		}
		log.Warn("Overwriting existing file", zap.String("file", name))
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}

// writePreview rasterizes laid out page next to the output, its resolution
// is page DPI multiplied by configured scale.
func writePreview(tree *layout.Tree, base string, env *state.LocalEnv, log *zap.Logger) (string, error) {
	cfg := env.Cfg.Output.Preview

	svg, err := tree.SVG()
	if err != nil {
		return "", err
	}
	img, err := images.RasterizeSVG(svg, cfg.Scale)
	if err != nil {
		return "", err
	}
	data, err := images.Encode(img, cfg.Format, cfg.Quality, tree.Page().DPI*cfg.Scale)
	if err != nil {
		return "", err
	}

	ext := ".png"
	if cfg.Format == "jpeg" {
		ext = ".jpg"
	}
	name := base + ext
	err = writeOutput(name, env.Overwrite, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}, log)
	return name, err
}
