package fileio

import (
	"errors"
	"fmt"
	"io"

	excelize "github.com/xuri/excelize/v2"
)

// xlsxReader streams the first sheet row by row.
type xlsxReader struct {
	f    *excelize.File
	rows *excelize.Rows
}

func readXLSX(r io.Reader) (*xlsxReader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	sheet := f.GetSheetName(0)
	rows, err := f.Rows(sheet)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &xlsxReader{f: f, rows: rows}, nil
}

func (x *xlsxReader) Read() ([]string, error) {
	if x.rows == nil {
		return nil, io.EOF
	}
	if !x.rows.Next() {
		err := x.rows.Error()
		_ = x.Close()
		if err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	cols, err := x.rows.Columns()
	if err != nil {
		_ = x.Close()
		return nil, err
	}
	return cols, nil
}

// Close drops the row iterator and the workbook's temp files. Read returns
// io.EOF afterwards.
func (x *xlsxReader) Close() error {
	if x.rows == nil {
		return nil
	}
	err := errors.Join(x.rows.Close(), x.f.Close())
	x.rows = nil
	return err
}

// xlsxWriter пишет строки в первый лист через stream writer.
type xlsxWriter struct {
	f   *excelize.File
	sw  *excelize.StreamWriter
	row int
}

func newXLSXWriter() (*xlsxWriter, error) {
	f := excelize.NewFile()
	sw, err := f.NewStreamWriter(f.GetSheetName(0))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &xlsxWriter{f: f, sw: sw}, nil
}

func (x *xlsxWriter) Write(row []string) error {
	x.row++
	cell, err := excelize.CoordinatesToCellName(1, x.row)
	if err != nil {
		return err
	}
	vals := make([]interface{}, len(row))
	for i, v := range row {
		vals[i] = v
	}
	return x.sw.SetRow(cell, vals)
}

// saveTo flushes the stream and writes the workbook.
func (x *xlsxWriter) saveTo(w io.Writer) error {
	defer x.f.Close()
	if err := x.sw.Flush(); err != nil {
		return fmt.Errorf("xlsx flush: %w", err)
	}
	return x.f.Write(w)
}
