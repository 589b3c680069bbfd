package validate

import (
	"sort"

	"golang.org/x/crypto/blake2b"

	"github.com/betlegend/sitetools/internal/roster"
	"github.com/betlegend/sitetools/internal/rules"
)

// minFingerprintText keeps stub pages (redirects, empty archives) out of
// duplicate-content detection.
const minFingerprintText = 200

type fingerprint struct {
	index int
	rel   string
	text  string
}

// duplicateContent groups pages whose folded main text hashes the same and
// returns a warning per copy, keyed by report file index.
func duplicateContent(prints []fingerprint) map[int][]rules.Issue {
	groups := map[[32]byte][]fingerprint{}
	for _, p := range prints {
		folded := roster.Fold(p.text)
		if len(folded) < minFingerprintText {
			continue
		}
		sum := blake2b.Sum256([]byte(folded))
		groups[sum] = append(groups[sum], p)
	}

	out := map[int][]rules.Issue{}
	for _, g := range groups {
		if len(g) < 2 {
			continue
		}
		sort.Slice(g, func(i, j int) bool { return g[i].rel < g[j].rel })
		for _, p := range g {
			for _, other := range g {
				if other.rel == p.rel {
					continue
				}
				out[p.index] = append(out[p.index], rules.Issue{
					Severity: rules.Warning,
					Check:    "duplicate-content",
					Message:  "DUPLICATE CONTENT: same main text as " + other.rel,
				})
			}
		}
	}
	return out
}
