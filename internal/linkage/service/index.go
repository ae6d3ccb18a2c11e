package service

import (
	"errors"
	"fmt"
	"io"

	"name-linker/internal/linkage/model"
)

// Index holds every lookup record in the order it was read.
// Built once per run, read-only afterwards.
type Index struct {
	records   []model.LookupRecord
	lowercase bool
}

func NewIndex(lowercase bool) *Index {
	return &Index{lowercase: lowercase}
}

// Add normalizes name and appends a record.
func (idx *Index) Add(id, name string) {
	idx.records = append(idx.records, model.LookupRecord{
		ID:       id,
		Name:     name,
		NameNorm: normalizeFor(name, idx.lowercase),
	})
}

func (idx *Index) Len() int { return len(idx.records) }

// Records — read-only view, callers must not modify it.
func (idx *Index) Records() []model.LookupRecord { return idx.records }

// Normalize normalizes a query the same way records were normalized.
func (idx *Index) Normalize(s string) string { return normalizeFor(s, idx.lowercase) }

// LoadIndex reads the lookup header and all lookup rows from r.
// An empty table (not even a header) is a missing-column error.
func LoadIndex(r RowReader, s model.Settings) (*Index, error) {
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, &MissingColumnError{Table: "lookup", Column: s.LookupIdentifierColumn}
	}
	if err != nil {
		return nil, fmt.Errorf("read lookup header: %w", err)
	}
	pos, err := requireColumns(ResolveColumns(header), "lookup", s.LookupIdentifierColumn, s.LookupNameColumn)
	if err != nil {
		return nil, err
	}
	idPos, namePos := pos[0], pos[1]

	idx := NewIndex(s.Lowercase)
	for line := 2; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read lookup row %d: %w", line, err)
		}
		idx.Add(cell(row, idPos), cell(row, namePos))
	}
	return idx, nil
}
