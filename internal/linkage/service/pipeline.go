package service

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"name-linker/internal/linkage/model"
)

// RowReader yields one row per call and io.EOF after the last one.
// *csv.Reader satisfies it.
type RowReader interface {
	Read() ([]string, error)
}

// RowWriter receives output rows in order. *csv.Writer satisfies it.
type RowWriter interface {
	Write(row []string) error
}

// Pipeline links a source table against a lookup table.
type Pipeline struct {
	settings model.Settings
	scorer   Scorer
	log      zerolog.Logger
}

func NewPipeline(s model.Settings, logger zerolog.Logger) (*Pipeline, error) {
	scorer, err := NewScorer(s.Scorer)
	if err != nil {
		return nil, &ConfigurationError{Field: "scorer", Err: err}
	}
	if s.MinScore < 0 || s.MinScore > 100 {
		return nil, &ConfigurationError{Field: "min_score", Err: fmt.Errorf("%d is outside 0..100", s.MinScore)}
	}
	if s.ProgressEvery <= 0 {
		s.ProgressEvery = model.DefaultSettings().ProgressEvery
	}
	return &Pipeline{settings: s, scorer: scorer, log: logger}, nil
}

// Run — основной прогон: индекс по lookup, затем каждая строка source.
// Nothing is written to out until both headers have been resolved.
func (p *Pipeline) Run(lookup, source RowReader, out RowWriter) (model.Stats, error) {
	start := time.Now()
	var st model.Stats

	// 1) lookup → индекс
	idx, err := LoadIndex(lookup, p.settings)
	if err != nil {
		return st, err
	}
	st.Lookup = idx.Len()
	p.log.Info().Int("records", st.Lookup).Msg("lookup loaded")

	// 2) шапка source
	header, err := source.Read()
	if errors.Is(err, io.EOF) {
		return st, &MissingColumnError{Table: "source", Column: p.settings.SourceNameColumn}
	}
	if err != nil {
		return st, fmt.Errorf("read source header: %w", err)
	}
	pos, err := requireColumns(ResolveColumns(header), "source", p.settings.SourceNameColumn)
	if err != nil {
		return st, err
	}
	namePos := pos[0]

	if err := out.Write(appendRow(header, p.settings.MatchHeaders()...)); err != nil {
		return st, fmt.Errorf("write header: %w", err)
	}

	// 3) строки
	engine := NewEngine(idx, p.scorer, p.settings.MinScore)
	for {
		row, err := source.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return st, fmt.Errorf("read source row %d: %w", st.Rows+2, err)
		}
		st.Rows++
		if st.Rows%p.settings.ProgressEvery == 0 {
			p.log.Info().Int("line", st.Rows).Msg("processing")
		}

		res := engine.Match(cell(row, namePos))
		if res.Matched() {
			st.Matched++
		} else {
			st.Unmatched++
		}
		if err := out.Write(appendRow(row, p.matchFields(res)...)); err != nil {
			return st, fmt.Errorf("write row %d: %w", st.Rows+1, err)
		}
	}

	p.log.Info().
		Int("rows", st.Rows).
		Int("matched", st.Matched).
		Int("unmatched", st.Unmatched).
		Dur("elapsed", time.Since(start)).
		Msg("linkage done")
	return st, nil
}

func (p *Pipeline) matchFields(m model.MatchResult) []string {
	if !p.settings.Verbose {
		return []string{m.ID}
	}
	return []string{m.ID, m.Name, strconv.Itoa(m.Score)}
}

// appendRow copies row and appends extra; the result never aliases row.
func appendRow(row []string, extra ...string) []string {
	out := make([]string, 0, len(row)+len(extra))
	out = append(out, row...)
	return append(out, extra...)
}
