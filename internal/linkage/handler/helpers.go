package handler

import (
	"strconv"
	"strings"

	"name-linker/internal/linkage/model"
)

// formValues — the subset of *http.Request used for option parsing.
type formValues interface {
	FormValue(key string) string
}

// settingsFromForm overlays per-request options over the configured defaults.
// Empty fields keep the default.
func settingsFromForm(r formValues, def model.Settings) model.Settings {
	s := def
	s.SourceNameColumn = pick(r.FormValue("source_name"), s.SourceNameColumn)
	s.LookupIdentifierColumn = pick(r.FormValue("lookup_id"), s.LookupIdentifierColumn)
	s.LookupNameColumn = pick(r.FormValue("lookup_name"), s.LookupNameColumn)
	s.Scorer = pick(r.FormValue("scorer"), s.Scorer)
	s.Verbose = toBool(r.FormValue("verbose"), s.Verbose)
	s.Lowercase = toBool(r.FormValue("lowercase"), s.Lowercase)
	s.MinScore = atoi(r.FormValue("min_score"), s.MinScore)
	return s
}

func pick(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return i
}

func toBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
