package roster

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Team struct {
	ID      int
	Name    string
	Abbr    string
	Aliases []string
}

// Teams is every MLB club keyed by its Stats API id.
var Teams = map[int]Team{
	108: {108, "Los Angeles Angels", "LAA", []string{"Angels", "LA Angels", "Anaheim Angels", "Halos"}},
	109: {109, "Arizona Diamondbacks", "ARI", []string{"Diamondbacks", "D-backs", "DBacks", "Arizona"}},
	110: {110, "Baltimore Orioles", "BAL", []string{"Orioles", "O's", "Baltimore"}},
	111: {111, "Boston Red Sox", "BOS", []string{"Red Sox", "BoSox", "Boston"}},
	112: {112, "Chicago Cubs", "CHC", []string{"Cubs", "Cubbies"}},
	113: {113, "Cincinnati Reds", "CIN", []string{"Reds", "Cincinnati", "Cincy"}},
	114: {114, "Cleveland Guardians", "CLE", []string{"Guardians", "Cleveland", "Guards"}},
	115: {115, "Colorado Rockies", "COL", []string{"Rockies", "Colorado", "Rox"}},
	116: {116, "Detroit Tigers", "DET", []string{"Tigers", "Detroit"}},
	117: {117, "Houston Astros", "HOU", []string{"Astros", "Houston", "Stros"}},
	118: {118, "Kansas City Royals", "KC", []string{"Royals", "Kansas City"}},
	119: {119, "Los Angeles Dodgers", "LAD", []string{"Dodgers", "LA Dodgers", "Los Angeles"}},
	120: {120, "Washington Nationals", "WSH", []string{"Nationals", "Nats", "Washington"}},
	121: {121, "New York Mets", "NYM", []string{"Mets", "NY Mets"}},
	133: {133, "Oakland Athletics", "OAK", []string{"Athletics", "A's", "Oakland", "As"}},
	134: {134, "Pittsburgh Pirates", "PIT", []string{"Pirates", "Pittsburgh", "Bucs", "Buccos"}},
	135: {135, "San Diego Padres", "SD", []string{"Padres", "San Diego", "Friars"}},
	136: {136, "Seattle Mariners", "SEA", []string{"Mariners", "Seattle", "M's"}},
	137: {137, "San Francisco Giants", "SF", []string{"Giants", "San Francisco", "SF Giants"}},
	138: {138, "St. Louis Cardinals", "STL", []string{"Cardinals", "Cards", "St. Louis", "St Louis"}},
	139: {139, "Tampa Bay Rays", "TB", []string{"Rays", "Tampa Bay", "Tampa"}},
	140: {140, "Texas Rangers", "TEX", []string{"Rangers", "Texas"}},
	141: {141, "Toronto Blue Jays", "TOR", []string{"Blue Jays", "Toronto", "Jays"}},
	142: {142, "Minnesota Twins", "MIN", []string{"Twins", "Minnesota"}},
	143: {143, "Philadelphia Phillies", "PHI", []string{"Phillies", "Philadelphia", "Phils"}},
	144: {144, "Atlanta Braves", "ATL", []string{"Braves", "Atlanta"}},
	145: {145, "Chicago White Sox", "CWS", []string{"White Sox", "ChiSox", "Sox"}},
	146: {146, "Miami Marlins", "MIA", []string{"Marlins", "Miami", "Fish"}},
	147: {147, "New York Yankees", "NYY", []string{"Yankees", "NY Yankees", "Yanks", "Bombers"}},
	158: {158, "Milwaukee Brewers", "MIL", []string{"Brewers", "Milwaukee", "Brew Crew"}},
}

var teamLookup = buildLookup()

func buildLookup() map[string]int {
	m := map[string]int{}
	for id, t := range Teams {
		m[Fold(t.Name)] = id
		m[Fold(t.Abbr)] = id
		for _, a := range t.Aliases {
			m[Fold(a)] = id
		}
	}
	return m
}

// TeamIDs returns the team ids in ascending order.
func TeamIDs() []int {
	ids := make([]int, 0, len(Teams))
	for id := range Teams {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ResolveTeam maps a name, abbreviation or alias to a team id. Close
// misspellings of longer references (one edit) resolve when unambiguous.
func ResolveTeam(ref string) (int, bool) {
	key := Fold(ref)
	if key == "" {
		return 0, false
	}
	if id, ok := teamLookup[key]; ok {
		return id, true
	}
	if len(key) < 5 {
		return 0, false
	}
	match, found := 0, false
	for alias, id := range teamLookup {
		if len(alias) < 5 || levenshtein.ComputeDistance(key, alias) > 1 {
			continue
		}
		if found && match != id {
			return 0, false
		}
		match, found = id, true
	}
	return match, found
}

// Fold lower-cases s, strips diacritics and trims surrounding space, so
// "Julio Rodríguez" and "julio rodriguez" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.TrimSpace(cases.Fold().String(out))
}
