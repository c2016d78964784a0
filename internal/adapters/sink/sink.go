// Package sink persists output artifacts atomically.
//
// Every artifact is first rendered to a temp file next to its target, with
// the same extension. Targets are replaced by rename only once every
// artifact has been staged, so a failed run leaves earlier outputs intact.
package sink

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Default sink configuration constants.
const (
	defaultFileMode    = 0o644
	defaultConcurrency = 4
)

// Artifact is one output file rendered by Render.
type Artifact struct {
	Name   string
	Render func(w io.Writer) error
}

// Sink writes artifacts into a directory.
type Sink struct {
	dir         string
	mode        fs.FileMode
	concurrency int
}

// Option applies a configuration option to the Sink.
type Option func(*Sink)

// WithFileMode sets the permissions of written files.
func WithFileMode(mode fs.FileMode) Option {
	return func(s *Sink) {
		if mode != 0 {
			s.mode = mode
		}
	}
}

// WithConcurrency bounds how many artifacts are rendered at once.
func WithConcurrency(n int) Option {
	return func(s *Sink) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// New creates a sink rooted at dir.
func New(dir string, opts ...Option) *Sink {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	s := &Sink{dir: dir, mode: defaultFileMode, concurrency: defaultConcurrency}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the output directory.
func (s *Sink) Dir() string { return s.dir }

// Path returns the target path for an artifact name.
func (s *Sink) Path(name string) string { return filepath.Join(s.dir, name) }

type staged struct {
	tmp    string
	target string
}

// WriteAll renders every artifact and then commits them. It returns the
// committed paths in input order, or the first failure as a *PersistError.
func (s *Sink) WriteAll(ctx context.Context, artifacts []Artifact) ([]string, error) {
	stages := make([]staged, len(artifacts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, a := range artifacts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			st, err := s.stage(a)
			if err != nil {
				return err
			}
			stages[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		discard(stages)
		return nil, err
	}

	paths := make([]string, 0, len(stages))
	for i, st := range stages {
		if err := os.Rename(st.tmp, st.target); err != nil {
			discard(stages[i:])
			return paths, persistError(st.target, err)
		}
		paths = append(paths, st.target)
	}
	return paths, nil
}

func (s *Sink) stage(a Artifact) (staged, error) {
	target := s.Path(a.Name)
	f, err := os.CreateTemp(filepath.Dir(target), "."+strings.TrimSuffix(filepath.Base(target), filepath.Ext(target))+"-*"+filepath.Ext(target))
	if err != nil {
		return staged{}, persistError(target, err)
	}
	tmp := f.Name()

	if err := a.Render(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return staged{}, persistError(target, err)
	}
	if err := f.Chmod(s.mode); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return staged{}, persistError(target, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return staged{}, persistError(target, err)
	}
	return staged{tmp: tmp, target: target}, nil
}

func discard(stages []staged) {
	for _, st := range stages {
		if st.tmp != "" {
			_ = os.Remove(st.tmp)
		}
	}
}

func persistError(path string, err error) *PersistError {
	hint := HintRetry
	if errors.Is(err, fs.ErrPermission) {
		hint = HintFileLocked
	}
	return &PersistError{Path: path, Hint: hint, Err: err}
}
