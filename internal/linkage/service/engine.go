package service

import "name-linker/internal/linkage/model"

// Engine finds the best lookup record for a normalized name by scoring it
// against every record of the index.
type Engine struct {
	idx      *Index
	score    Scorer
	minScore int
}

func NewEngine(idx *Index, score Scorer, minScore int) *Engine {
	if score == nil {
		score = Ratio
	}
	return &Engine{idx: idx, score: score, minScore: minScore}
}

// Best returns the highest scoring record. Only a strictly greater score
// replaces the running best, so the first record reaching the maximum wins.
// Nothing scoring above 0 (or above minScore) gives model.NoMatch.
func (e *Engine) Best(nameNorm string) model.MatchResult {
	if e.idx == nil {
		return model.NoMatch
	}
	best := model.NoMatch
	var found bool
	for _, rec := range e.idx.records {
		s := e.score(nameNorm, rec.NameNorm)
		if s > best.Score {
			best = model.MatchResult{ID: rec.ID, Name: rec.Name, Score: s}
			found = true
			if s == 100 {
				break // ничего лучше уже не будет
			}
		}
	}
	if !found || best.Score < e.minScore {
		return model.NoMatch
	}
	return best
}

// Match normalizes a raw source name and returns its best match.
func (e *Engine) Match(rawName string) model.MatchResult {
	if e.idx == nil {
		return model.NoMatch
	}
	return e.Best(e.idx.Normalize(rawName))
}
