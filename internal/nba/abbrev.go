package nba

import "strings"

// canonicalAbbrevs is the set of NBA team codes every other component keys on.
var canonicalAbbrevs = map[string]bool{
	"ATL": true, "BOS": true, "BKN": true, "CHA": true, "CHI": true, "CLE": true,
	"DAL": true, "DEN": true, "DET": true, "GSW": true, "HOU": true, "IND": true,
	"LAC": true, "LAL": true, "MEM": true, "MIA": true, "MIL": true, "MIN": true,
	"NOP": true, "NYK": true, "OKC": true, "ORL": true, "PHI": true, "PHX": true,
	"POR": true, "SAC": true, "SAS": true, "TOR": true, "UTA": true, "WAS": true,
}

// abbrevAliases maps historical/alternate codes seen in upstream feeds to
// their canonical form.
var abbrevAliases = map[string]string{
	"GS":  "GSW",
	"NO":  "NOP",
	"SA":  "SAS",
	"PHO": "PHX",
	"BK":  "BKN",
	"NY":  "NYK",
	"WSH": "WAS",
}

// Normalize maps a raw team code to its canonical abbreviation. It trims
// whitespace, upper-cases, resolves aliases, and rejects anything outside
// the canonical vocabulary.
func Normalize(abbrev string) (string, bool) {
	a := strings.ToUpper(strings.TrimSpace(abbrev))
	if a == "" {
		return "", false
	}
	if canonical, ok := abbrevAliases[a]; ok {
		a = canonical
	}
	if !canonicalAbbrevs[a] {
		return "", false
	}
	return a, true
}

// Abbrevs returns the canonical vocabulary as a slice. Order is not defined.
func Abbrevs() []string {
	out := make([]string, 0, len(canonicalAbbrevs))
	for a := range canonicalAbbrevs {
		out = append(out, a)
	}
	return out
}
