package model

// ColumnMap: trimmed header -> zero-based position.
type ColumnMap map[string]int

// Scorer kinds
const (
	ScorerRatio     = "ratio"
	ScorerTokenSort = "token_sort"
	ScorerDamerau   = "damerau"
)

// Settings — everything a single linkage run needs to know.
type Settings struct {
	SourceNameColumn       string `yaml:"source_name_column"`       // name column of the source table
	LookupIdentifierColumn string `yaml:"lookup_identifier_column"` // identifier column of the lookup table
	LookupNameColumn       string `yaml:"lookup_name_column"`       // name column of the lookup table
	Verbose                bool   `yaml:"verbose"`                  // also emit matched name and score
	Scorer                 string `yaml:"scorer"`                   // ratio | token_sort | damerau
	Lowercase              bool   `yaml:"lowercase"`                // case-insensitive comparison
	MinScore               int    `yaml:"min_score"`                // below this the row is left unmatched (0 = off)
	ProgressEvery          int    `yaml:"progress_every"`           // log every N source rows
}

func DefaultSettings() Settings {
	return Settings{
		SourceNameColumn:       "product_name",
		LookupIdentifierColumn: "upc",
		LookupNameColumn:       "product_name",
		Scorer:                 ScorerRatio,
		ProgressEvery:          1000,
	}
}

// MatchHeaders returns the column headers appended to the source header.
func (s Settings) MatchHeaders() []string {
	h := []string{"matching_" + s.LookupIdentifierColumn}
	if s.Verbose {
		h = append(h, "matching_"+s.LookupNameColumn, "match_score")
	}
	return h
}

type LookupRecord struct {
	ID       string // canonical identifier
	Name     string // name as read from the lookup table
	NameNorm string // normalized name used for scoring
}

type MatchResult struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"` // 0..100
}

// NoMatch is returned when no lookup record scores above zero.
var NoMatch = MatchResult{}

func (m MatchResult) Matched() bool { return m.ID != "" || m.Name != "" || m.Score > 0 }

type Stats struct {
	Lookup    int `json:"lookup"`
	Rows      int `json:"rows"`
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`
}
