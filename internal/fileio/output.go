package fileio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Output writes rows to a temporary file beside the target path. Commit
// renames it into place; Abort removes it. A failed run leaves no output.
type Output struct {
	path string
	tmp  *os.File
	csv  *csv.Writer
	xlsx *xlsxWriter
}

// Create prepares an output table; the format follows the extension
// (.xlsx, otherwise CSV).
func Create(path string, bom bool) (*Output, error) {
	if !IsWritableFormat(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, err
	}
	o := &Output{path: path, tmp: tmp}
	if isXLSX(path) {
		o.xlsx, err = newXLSXWriter()
	} else {
		o.csv, err = NewCSVWriter(tmp, bom)
	}
	if err != nil {
		o.Abort()
		return nil, err
	}
	return o, nil
}

// IsWritableFormat reports whether Create can produce path.
func IsWritableFormat(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt", ".xlsx":
		return true
	}
	return false
}

func isXLSX(path string) bool { return strings.EqualFold(filepath.Ext(path), ".xlsx") }

func (o *Output) Write(row []string) error {
	if o.xlsx != nil {
		return o.xlsx.Write(row)
	}
	return o.csv.Write(row)
}

func (o *Output) Commit() error {
	var err error
	if o.xlsx != nil {
		err = o.xlsx.saveTo(o.tmp)
	} else {
		o.csv.Flush()
		err = o.csv.Error()
	}
	if err != nil {
		o.Abort()
		return err
	}
	if err := o.tmp.Close(); err != nil {
		_ = os.Remove(o.tmp.Name())
		return err
	}
	if err := os.Rename(o.tmp.Name(), o.path); err != nil {
		_ = os.Remove(o.tmp.Name())
		return err
	}
	return nil
}

// Abort discards everything written so far.
func (o *Output) Abort() {
	if o.xlsx != nil {
		_ = o.xlsx.f.Close()
	}
	_ = o.tmp.Close()
	_ = os.Remove(o.tmp.Name())
}
