// Package checkinlog reads the time-clock export into raw records.
//
// The export is one record per line with fields separated by runs of TAB
// characters. Names and timestamps contain spaces, so only tabs delimit.
package checkinlog

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/okian/mealrecon/internal/domain/model"
)

// Default reader configuration constants.
const (
	defaultMaxLineBytes = 1 << 20
)

// Reader splits a check-in log into records.
type Reader struct {
	header       bool
	maxLineBytes int
}

// Option applies a configuration option to the Reader.
type Option func(*Reader)

// WithHeader controls whether the first non-blank line is a header.
func WithHeader(header bool) Option {
	return func(r *Reader) {
		r.header = header
	}
}

// WithMaxLineBytes caps the length of a single line.
func WithMaxLineBytes(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.maxLineBytes = n
		}
	}
}

// NewReader creates a Reader. A header line is expected by default.
func NewReader(opts ...Option) *Reader {
	r := &Reader{header: true, maxLineBytes: defaultMaxLineBytes}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadFile reads the log at path.
func (r *Reader) ReadFile(ctx context.Context, path string) ([]model.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer f.Close()
	return r.Read(ctx, f)
}

// Read splits every non-blank line into fields. Lines keep their 1-based
// position in the source for diagnostics.
func (r *Reader) Read(ctx context.Context, src io.Reader) ([]model.RawRecord, error) {
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, min(64*1024, r.maxLineBytes)), r.maxLineBytes)

	var out []model.RawRecord
	skipHeader := r.header
	line := 0
	for sc.Scan() {
		line++
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		text := strings.TrimRight(sc.Text(), "\r")
		if line == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		if skipHeader {
			skipHeader = false
			continue
		}
		out = append(out, model.RawRecord{Line: line, Fields: SplitFields(text)})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: line %d: %w", ErrRead, line+1, err)
	}
	return out, nil
}

var tabRun = regexp.MustCompile(`\t+`)

// SplitFields splits on runs of tabs and trims leading spaces of each field.
// A line starting with a tab has an empty first field. Trailing tabs and
// spaces carry no field.
func SplitFields(line string) []string {
	parts := tabRun.Split(strings.TrimRight(line, "\t "), -1)
	for i, p := range parts {
		parts[i] = strings.TrimLeft(p, " ")
	}
	return parts
}
