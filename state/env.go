// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"reflow/config"
	"reflow/layout"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// used by layout subcommand
	NoDirs    bool
	Overwrite bool
	DumpTree  bool
	// CodePage decodes non UTF-8 names of archive entries and documents
	// without detectable encoding.
	CodePage encoding.Encoding
	// Engine is prepared once from configuration and shared by all
	// documents of a run.
	Engine *layout.Engine

	start         time.Time
	restoreStdLog func()
}

func newLocalEnv() *LocalEnv {
	return &LocalEnv{start: time.Now()}
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// PageFromConfig converts configured page geometry, nil configuration
// gives layout.DefaultPage.
func (e *LocalEnv) PageFromConfig() *layout.Page {
	if e.Cfg == nil {
		return layout.DefaultPage()
	}
	p := e.Cfg.Page
	return &layout.Page{
		Width:        p.Width,
		Height:       p.Height,
		MarginTop:    p.Margins.Top,
		MarginRight:  p.Margins.Right,
		MarginBottom: p.Margins.Bottom,
		MarginLeft:   p.Margins.Left,
		DPI:          p.DPI,
	}
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
