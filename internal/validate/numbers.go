package validate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/betlegend/sitetools/internal/rules"
)

var (
	moneylineRe  = regexp.MustCompile(`(?i)(?:\bML|moneyline|money\s*line|odds|to\s*win|favorite|underdog|juice)[:\s]*([+-]\d{3,4})|([+-]\d{3,4})\s*(?:ML|moneyline|odds)`)
	overUnderRe  = regexp.MustCompile(`(?i)(?:O/U|over/under|\btotal)[:\s]*(\d+\.?\d?)`)
	spreadRe     = regexp.MustCompile(`(?i)\b(?:spread|line)[:\s]*([+-]?\d+(?:\.\d+)?)`)
	spreadOnlyRe = regexp.MustCompile(`(?i)\bspread[:\s]*([+-]\d+(?:\.\d+)?)`)
	percentRe    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
	playerPPGRe  = regexp.MustCompile(`(?i)(?:he\s+is\s+averaging|(?:is\s+)?averaging\s+(?:a\s+)?career|player\s+averaging)\s+(\d+(?:\.\d+)?)\s*(?:PPG|points)`)
	battingRe    = regexp.MustCompile(`(?i)\b(?:batting average|avg|BA)[:\s]+\.?([5-9]\d{2}|\d{4,})`)

	yearWords = []string{"season", "year", "january", "february", "march", "april", "may", "june",
		"july", "august", "september", "october", "november", "december"}
)

func (v *Validator) checkStats(c *collector, text string) {
	for _, s := range v.Book.StatRanges {
		for _, m := range s.Re.FindAllStringSubmatchIndex(text, -1) {
			if m[2] < 0 {
				continue
			}
			value, err := strconv.ParseFloat(text[m[2]:m[3]], 64)
			if err != nil {
				continue
			}
			ctx := window(text, m[0], m[1], 40, 40)
			switch {
			case value < s.Min || value > s.Max:
				c.add(rules.Error, "stats", fmt.Sprintf("IMPOSSIBLE %s: %s (valid range: %s-%s)",
					s.Name, num(value), num(s.Min), num(s.Max)), ctx)
			case value < s.TypicalMin || value > s.TypicalMax:
				c.add(rules.Warning, "stats", fmt.Sprintf("UNUSUAL %s: %s (typical range: %s-%s)",
					s.Name, num(value), num(s.TypicalMin), num(s.TypicalMax)), ctx)
			}
		}
	}
}

func (v *Validator) checkBettingLines(c *collector, text string) {
	b := v.Book.Betting
	for _, m := range moneylineRe.FindAllStringSubmatchIndex(text, -1) {
		raw := group(text, m, 1)
		if raw == "" {
			raw = group(text, m, 2)
		}
		ml, err := strconv.Atoi(raw)
		if err != nil || (ml > -100 && ml < 100) {
			continue
		}
		ctx := window(text, m[0], m[1], 30, 30)
		if looksLikeYear(ml, ctx) {
			continue
		}
		if b.MoneylineMax > 0 && math.Abs(float64(ml)) > b.MoneylineMax {
			c.add(rules.Warning, "betting", fmt.Sprintf("Extreme moneyline: %d (typical range: -%s to +%s)",
				ml, num(b.MoneylineMax), num(b.MoneylineMax)), ctx)
		}
	}

	if len(v.Book.OverUnder) > 0 {
		for _, m := range overUnderRe.FindAllStringSubmatchIndex(text, -1) {
			ou, err := strconv.ParseFloat(group(text, m, 1), 64)
			if err != nil {
				continue
			}
			if !v.plausibleTotal(ou) {
				c.add(rules.Warning, "betting", fmt.Sprintf("Unusual over/under: %s (doesn't match typical ranges for any sport)", num(ou)),
					window(text, m[0], m[1], 30, 30))
			}
		}
	}

	if widest := maxSpread(b.Spreads); widest > 0 {
		for _, m := range spreadOnlyRe.FindAllStringSubmatchIndex(text, -1) {
			raw := group(text, m, 1)
			s, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			if math.Abs(s) > widest {
				c.add(rules.Warning, "betting", fmt.Sprintf("Unusual spread: %s (widest typical spread is %s)", raw, num(widest)),
					window(text, m[0], m[1], 30, 30))
			}
		}
	}
}

func (v *Validator) plausibleTotal(ou float64) bool {
	margin := v.Book.Betting.OverUnderMargin
	for _, r := range v.Book.OverUnder {
		if ou >= r.Min-margin && ou <= r.Max+margin {
			return true
		}
	}
	return false
}

// looksLikeYear reports whether a four-digit "moneyline" is really a year
// such as the -2025 in "2024-2025".
func looksLikeYear(ml int, ctx string) bool {
	abs := ml
	if abs < 0 {
		abs = -abs
	}
	if abs < 1900 || abs > 2100 {
		return false
	}
	if abs >= 2000 && abs < 2100 {
		return true
	}
	lower := strings.ToLower(ctx)
	for _, w := range yearWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func (v *Validator) checkImpossibleStats(c *collector, text string) {
	b := v.Book.Betting
	for _, m := range percentRe.FindAllStringSubmatchIndex(text, -1) {
		value, err := strconv.ParseFloat(group(text, m, 1), 64)
		if err != nil || value <= 100 {
			continue
		}
		ctx := window(text, m[0], m[1], 50, 50)
		if containsAny(strings.ToLower(ctx), b.MarketingWords) {
			continue
		}
		c.add(rules.Error, "impossible-stats", fmt.Sprintf("IMPOSSIBLE STAT: %s%% - percentages cannot exceed 100%%", num(value)), ctx)
	}

	if b.MaxPlayerPPG > 0 {
		for _, m := range playerPPGRe.FindAllStringSubmatchIndex(text, -1) {
			value, err := strconv.ParseFloat(group(text, m, 1), 64)
			if err != nil || value <= b.MaxPlayerPPG {
				continue
			}
			c.add(rules.Error, "impossible-stats", fmt.Sprintf("IMPOSSIBLE STAT: %s PPG - no NBA player has averaged over %s PPG",
				num(value), num(b.MaxPlayerPPG)), window(text, m[0], m[1], 30, 30))
		}
	}

	for _, m := range battingRe.FindAllStringSubmatchIndex(text, -1) {
		c.add(rules.Error, "impossible-stats", fmt.Sprintf("IMPOSSIBLE STAT: Batting average .%s is impossible", group(text, m, 1)),
			window(text, m[0], m[1], 30, 30))
	}
}

// checkRoundSpreads flags whole-number spreads; real spreads almost always
// carry a half point.
func (v *Validator) checkRoundSpreads(c *collector, text string) {
	limit := v.Book.Betting.RoundSpreadMax
	if limit <= 0 {
		return
	}
	for _, m := range spreadRe.FindAllStringSubmatchIndex(text, -1) {
		raw := group(text, m, 1)
		whole, frac, _ := strings.Cut(raw, ".")
		if strings.Trim(frac, "0") != "" {
			continue
		}
		spread, err := strconv.Atoi(whole)
		if err != nil || spread == 0 || spread > limit || spread < -limit {
			continue
		}
		c.add(rules.Warning, "round-spread", fmt.Sprintf("SUSPICIOUS LINE: Spread %d is a round number - most spreads end in .5", spread),
			window(text, m[0], m[1], 30, 50))
	}
}

func group(text string, m []int, i int) string {
	if 2*i+1 >= len(m) || m[2*i] < 0 {
		return ""
	}
	return text[m[2*i]:m[2*i+1]]
}

func maxSpread(spreads map[string]float64) float64 {
	widest := 0.0
	for _, s := range spreads {
		widest = math.Max(widest, math.Abs(s))
	}
	return widest
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if w != "" && strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
