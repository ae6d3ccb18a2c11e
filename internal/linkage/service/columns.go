package service

import (
	"strings"

	"name-linker/internal/linkage/model"
)

// ResolveColumns maps every trimmed header cell to its position.
// A duplicated header resolves to its last occurrence.
func ResolveColumns(header []string) model.ColumnMap {
	cm := make(model.ColumnMap, len(header))
	for i, h := range header {
		cm[strings.TrimSpace(h)] = i
	}
	return cm
}

// requireColumns returns the position of each wanted column in order,
// or a *MissingColumnError for the first one that is absent.
func requireColumns(cm model.ColumnMap, table string, want ...string) ([]int, error) {
	out := make([]int, len(want))
	for i, w := range want {
		pos, ok := cm[w]
		if !ok {
			return nil, &MissingColumnError{Table: table, Column: w}
		}
		out[i] = pos
	}
	return out, nil
}

// cell tolerates ragged rows: a missing cell reads as "".
func cell(row []string, pos int) string {
	if pos < 0 || pos >= len(row) {
		return ""
	}
	return row[pos]
}
