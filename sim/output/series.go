// Package output writes the observable streams of a run to append-only text
// files, one value per line, plus the final configuration snapshot.
package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// Series is an append-only file of float64 values, one per line.
type Series struct {
	path string
	f    *os.File
	w    *bufio.Writer
	n    int
}

// CreateSeries creates (or truncates) path, making parent directories.
func CreateSeries(path string) (*Series, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("opening output file: %w", err)
	}
	return &Series{path: path, f: f, w: bufio.NewWriter(f)}, nil
}

// Append writes v on its own line.
func (s *Series) Append(v float64) error {
	buf := strconv.AppendFloat(make([]byte, 0, 24), v, 'g', -1, 64)
	buf = append(buf, '\n')
	if _, err := s.w.Write(buf); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	s.n++
	return nil
}

// Len returns the number of values appended so far.
func (s *Series) Len() int { return s.n }

// Path returns the file path.
func (s *Series) Path() string { return s.path }

// Close flushes buffered values and closes the file. Safe to call twice.
func (s *Series) Close() error {
	if s.f == nil {
		return nil
	}
	flushErr := s.w.Flush()
	closeErr := s.f.Close()
	s.f = nil
	if flushErr != nil {
		return fmt.Errorf("flushing %s: %w", s.path, flushErr)
	}
	return closeErr
}

// WriteLabels writes one integer label per line.
func WriteLabels(w io.Writer, labels []int) error {
	bw := bufio.NewWriter(w)
	for _, l := range labels {
		if _, err := bw.WriteString(strconv.Itoa(l)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteGrid writes one space-separated row per line.
func WriteGrid(w io.Writer, rows [][]int) error {
	bw := bufio.NewWriter(w)
	for _, row := range rows {
		for c, l := range row {
			if c > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(strconv.Itoa(l)); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteLabelsFile writes labels to path, creating parent directories.
func WriteLabelsFile(path string, labels []int) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("opening output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteLabels(f, labels)
}
