package license

import (
	"regexp"
	"strconv"
	"strings"
)

// countPatterns are tried in order against the full checker output. Each
// captures exactly two integers: (total issued, in use). License checkers
// have no standardized output format, so these cover the phrasings seen in
// the wild; the order matters, first match wins.
var countPatterns = []*regexp.Regexp{
	// FlexLM-like: "Total of 25 licenses issued; Total of 5 licenses in use"
	regexp.MustCompile(`(?is)Total\s+of\s+(\d+)\s+licenses\s+issued;?\s*Total\s+of\s+(\d+)\s+licenses\s+in\s+use`),
	// "Total licenses: 25 ... In use: 5"
	regexp.MustCompile(`(?is)Total\s+licenses\s*:\s*(\d+).*?In\s+use\s*:\s*(\d+)`),
	// "Issued=25 ... Used=5"
	regexp.MustCompile(`(?is)Issued\s*=\s*(\d+).*?Used\s*=\s*(\d+)`),
}

// inUsePhrase matches a line that mentions a checkout, used as a last-resort
// estimate of the in-use count when no pattern matches.
var inUsePhrase = regexp.MustCompile(`(?i)\bin\s*use\b`)

// ParseUsage extracts (total, used) from raw checker output. Either value is
// nil when it cannot be determined. If no pattern matches but N lines contain
// the phrase "in use", the result is (nil, N) — a rough estimate is better
// than nothing, and callers must treat nil as a first-class value either way.
func ParseUsage(output string) (total, used *int) {
	for _, pat := range countPatterns {
		m := pat.FindStringSubmatch(output)
		if m == nil {
			continue
		}
		t, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		u, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		return &t, &u
	}

	// Fallback: count lines that look like individual checkouts.
	guess := 0
	for _, line := range strings.Split(output, "\n") {
		if inUsePhrase.MatchString(line) {
			guess++
		}
	}
	if guess > 0 {
		return nil, &guess
	}
	return nil, nil
}
