package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/betlegend/sitetools/internal/roster"
	"github.com/betlegend/sitetools/internal/rules"
	"github.com/betlegend/sitetools/internal/site"
)

const properName = `[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+`

type playerTeamPattern struct {
	re *regexp.Regexp
	// teamFirst is set when the team is the first capture group.
	teamFirst bool
}

var playerTeamPatterns = []playerTeamPattern{
	// Aaron Judge (NYY)
	{re: regexp.MustCompile(`(` + properName + `)\s*\(([A-Z]{2,3})\)`)},
	// Yankees' Aaron Judge
	{re: regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)'s?\s+(` + properName + `)`), teamFirst: true},
	// Aaron Judge of the Yankees
	{re: regexp.MustCompile(`(` + properName + `)\s+of\s+the\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)},
	// Gerrit Cole, Yankees starter
	{re: regexp.MustCompile(`(` + properName + `),\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\s+(?:pitcher|starter|closer|reliever|outfielder|infielder|catcher|shortstop|first baseman|second baseman|third baseman)`)},
}

var (
	dateRe         = regexp.MustCompile(`(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2}),?\s+(\d{4})`)
	currentWords   = []string{"today", "tonight", "this week", "upcoming"}
	futureSlack    = 48 * time.Hour
	staleThreshold = 365 * 24 * time.Hour
)

func (v *Validator) checkRoster(c *collector, text string) {
	if v.Roster == nil {
		return
	}
	for _, p := range playerTeamPatterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			player, team := group(text, m, 1), group(text, m, 2)
			if p.teamFirst {
				player, team = team, player
			}
			verdict := v.Roster.Verify(player, team)
			ctx := window(text, m[0], m[1], 30, 30)
			switch verdict.Status {
			case roster.NotFound:
				c.add(rules.Warning, "roster", fmt.Sprintf("Player '%s' not found on any active MLB roster (referenced with %s)", player, team), ctx)
			case roster.WrongTeam:
				names := make([]string, 0, len(verdict.Actual))
				for _, t := range verdict.Actual {
					names = append(names, t.Name)
				}
				c.add(rules.Error, "roster", fmt.Sprintf("ROSTER ERROR: '%s' referenced with %s but is actually on: %s",
					player, team, strings.Join(names, ", ")), ctx)
			}
		}
	}
}

func (v *Validator) checkDates(c *collector, text string) {
	now := v.now()
	for _, m := range dateRe.FindAllStringSubmatchIndex(text, -1) {
		ref, ok := parseMonthDate(group(text, m, 1), group(text, m, 2), group(text, m, 3), now.Location())
		if !ok {
			continue
		}
		raw := text[m[0]:m[1]]
		if ref.After(now.Add(futureSlack)) {
			c.add(rules.Warning, "dates", fmt.Sprintf("Future date reference: %s (today is %s)", raw, now.Format("January 02, 2006")),
				window(text, m[0], m[1], 30, 30))
		}
		if ref.Before(now.Add(-staleThreshold)) {
			near := strings.ToLower(window(text, m[0], m[1], 50, 50))
			if containsAny(near, currentWords) {
				c.add(rules.Error, "dates", "Stale date with current language: "+raw, window(text, m[0], m[1], 40, 40))
			}
		}
	}
}

// parseMonthDate builds a date from "March", "5", "2026" and rejects
// impossible days such as February 30.
func parseMonthDate(month, day, year string, loc *time.Location) (time.Time, bool) {
	mt, err := time.Parse("January", month)
	if err != nil {
		return time.Time{}, false
	}
	d, err1 := strconv.Atoi(day)
	y, err2 := strconv.Atoi(year)
	if err1 != nil || err2 != nil || d < 1 {
		return time.Time{}, false
	}
	t := time.Date(y, mt.Month(), d, 0, 0, 0, 0, loc)
	if t.Day() != d || t.Month() != mt.Month() {
		return time.Time{}, false
	}
	return t, true
}

// checkKnownFacts compares the page against the rulebook's stale
// associations and injuries. Matching runs on folded text so accents and
// case do not hide a hit.
func (v *Validator) checkKnownFacts(c *collector, text string) {
	folded := roster.Fold(text)
	for _, a := range v.Book.WrongAssociations {
		for _, m := range a.Player.FindAllStringIndex(folded, -1) {
			sentence := sentenceAround(folded, m[0])
			if !matchesAny(sentence, a.Teams) || containsAny(sentence, v.Book.TradeContext) {
				continue
			}
			c.add(rules.Error, "known-facts", "FALSE INFO: "+a.Message, window(folded, m[0], m[0], 50, 100))
		}
	}
	for _, inj := range v.Book.WrongInjuries {
		for _, m := range inj.Player.FindAllStringIndex(folded, -1) {
			near := window(folded, m[0], m[0], 100, 100)
			if inj.Wrong.MatchString(near) && !inj.Correct.MatchString(near) {
				c.add(rules.Error, "known-facts", "WRONG INJURY: "+inj.Message, near)
			}
		}
	}
}

// sentenceAround returns the text between the nearest '.' or newline on
// either side of pos.
func sentenceAround(text string, pos int) string {
	start := max(strings.LastIndexAny(text[:pos], ".\n")+1, 0)
	end := len(text)
	if i := strings.IndexAny(text[pos:], ".\n"); i >= 0 {
		end = pos + i
	}
	return text[start:end]
}

func (v *Validator) checkPatterns(c *collector, path, text string) {
	for _, r := range v.Book.Placeholders {
		for _, m := range r.Re.FindAllStringIndex(text, -1) {
			c.add(rules.Error, "placeholder", "PLACEHOLDER: "+r.Message, window(text, m[0], m[0], 30, 50))
		}
	}
	for _, r := range v.Book.Banned {
		for _, m := range r.Re.FindAllStringIndex(text, -1) {
			c.add(rules.Error, "banned", "BANNED CONTENT: "+r.Message, window(text, m[0], m[1], 30, 50))
		}
	}
	if !site.IsEducational(path, v.Book.LineMovementFiles) {
		for _, r := range v.Book.LineMovement {
			for _, m := range r.Re.FindAllStringIndex(text, -1) {
				c.add(rules.Error, "line-movement", "BANNED CONTENT: "+r.Message, window(text, m[0], m[1], 30, 50))
			}
		}
	}
	for _, r := range v.Book.UnsignedClaims {
		for _, m := range r.Re.FindAllStringIndex(text, -1) {
			c.add(rules.Error, "unsigned", "STALE INFO: "+r.Message, window(text, m[0], m[1], 30, 50))
		}
	}
}

func matchesAny(s string, res []*regexp.Regexp) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
