// Надёжный парсер .xls: фиксируем ширину таблицы сами и читаем все ячейки до неё.
package fileio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	xls "github.com/extrame/xls"
)

// sheetRow returns nil for a row the sheet has no record of: WorkSheet.Row
// dereferences the missing map entry and panics.
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

// вычисляем "реальную" ширину: пробегаем разумное число колонок и ищем непустые
func computeMaxCols(sheet *xls.WorkSheet) int {
	const scanMax = 512
	maxCols := 0
	for i := 0; i <= int(sheet.MaxRow); i++ {
		r := sheetRow(sheet, i)
		if r == nil {
			continue
		}
		for j := maxCols; j < scanMax; j++ {
			if strings.TrimSpace(normalizeCell(r.Col(j))) != "" {
				maxCols = j + 1
			}
		}
	}
	if maxCols == 0 {
		maxCols = 1
	}
	return maxCols
}

// normalizeCell drops the NUL padding some writers leave in string cells.
func normalizeCell(s string) string {
	return strings.TrimRight(s, "\x00")
}

// readXLS loads the first sheet. BIFF8 keeps strings as UTF-16 or Latin-1,
// so the charset argument of OpenReader is never consulted.
// Rows the sheet has no record of are skipped, as blank CSV lines are.
func readXLS(r io.Reader) (*sliceReader, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	wb, err := xls.OpenReader(bytes.NewReader(b), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("xls: %w", err)
	}
	if wb == nil {
		return nil, errors.New("xls: failed to open workbook")
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return &sliceReader{}, nil
	}

	// фиксируем ширину и читаем все строки до неё (НЕ полагаемся на Row.LastCol())
	maxCols := computeMaxCols(sheet)
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheetRow(sheet, i)
		if row == nil {
			continue
		}
		cols := make([]string, maxCols)
		for j := 0; j < maxCols; j++ {
			cols[j] = normalizeCell(row.Col(j))
		}
		rows = append(rows, cols)
	}
	return &sliceReader{rows: rows}, nil
}
