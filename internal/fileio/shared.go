package fileio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupported — extension is none of .csv, .xlsx, .xls.
var ErrUnsupported = errors.New("unsupported file type")

// Reader yields rows one by one and io.EOF after the last one.
// Close releases whatever the parser holds; it is safe to call twice.
type Reader interface {
	Read() ([]string, error)
	io.Closer
}

// NewReader выберет парсер по расширению имени файла.
func NewReader(r io.Reader, filename string) (Reader, error) {
	var (
		rd  Reader
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv", ".txt":
		rd, err = newCSVReader(r)
	case ".xlsx":
		rd, err = readXLSX(r)
	case ".xls":
		rd, err = readXLS(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filename)
	}
	if err != nil {
		return nil, err
	}
	return rd, nil
}

// File — a table opened from disk.
type File struct {
	Reader
	f *os.File
}

// Close releases the parser first, then the file under it.
func (f *File) Close() error {
	return errors.Join(f.Reader.Close(), f.f.Close())
}

// Open opens path and picks a parser by its extension.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f, path)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &File{Reader: r, f: f}, nil
}

// sliceReader replays rows that were loaded in full (xls).
type sliceReader struct {
	rows [][]string
	pos  int
}

func (s *sliceReader) Read() ([]string, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

func (s *sliceReader) Close() error {
	s.rows, s.pos = nil, 0
	return nil
}
