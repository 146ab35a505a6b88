package usecase

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	feetInchesRe  = regexp.MustCompile(`^\s*(\d+)\s*['-]\s*(\d+)`)
	firstNumberRe = regexp.MustCompile(`\d+`)
)

// normalizePersonName lowers, strips periods/apostrophes and collapses
// whitespace so "C.J. McCollum" and "cj mccollum" compare equal.
func normalizePersonName(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "’", "")
	return whitespaceRe.ReplaceAllString(s, " ")
}

// personNamesLikelyMatch accepts either exact normalized equality or
// containment of both the first token and the remaining tokens, which covers
// shortened display forms like "L. James" for "LeBron James".
func personNamesLikelyMatch(target, candidate string) bool {
	t := normalizePersonName(target)
	c := normalizePersonName(candidate)
	if t == "" || c == "" {
		return false
	}
	if t == c {
		return true
	}
	return nameTokensContained(t, c) || nameTokensContained(c, t)
}

// nameTokensContained reports whether haystack contains both the first token
// of needle and its remaining tokens.
func nameTokensContained(needle, haystack string) bool {
	first, rest, ok := strings.Cut(needle, " ")
	if !ok || rest == "" {
		return false
	}
	return strings.Contains(haystack, first) && strings.Contains(haystack, rest)
}

// canonicalizeTeamName folds the St./St/State spelling variants into one
// token, then lowercases and collapses whitespace.
func canonicalizeTeamName(raw string) string {
	fields := strings.Fields(raw)
	for i, f := range fields {
		switch strings.ToLower(strings.TrimSuffix(f, ".")) {
		case "st", "state":
			fields[i] = "state"
		default:
			fields[i] = strings.ToLower(f)
		}
	}
	return strings.Join(fields, " ")
}

// teamNamesLikelyMatch tests canonical equality, containment in either
// direction, or containment of the candidate's location field.
func teamNamesLikelyMatch(target, candidate, candidateLocation string) bool {
	t := canonicalizeTeamName(target)
	c := canonicalizeTeamName(candidate)
	if t == "" || c == "" {
		return false
	}
	if t == c || strings.Contains(t, c) || strings.Contains(c, t) {
		return true
	}
	if loc := canonicalizeTeamName(candidateLocation); loc != "" {
		return strings.Contains(t, loc) || strings.Contains(loc, t)
	}
	return false
}

// parseHeight parses a free-form height string. Feet-inches forms like
// "6' 8\"" or "6-8" yield total inches; a decimal meters value like "1.98"
// yields centimeters; any other text falls back to its first integer token.
func parseHeight(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	if m := feetInchesRe.FindStringSubmatch(s); m != nil {
		feet, _ := strconv.Atoi(m[1])
		inches, _ := strconv.Atoi(m[2])
		return feet*12 + inches, true
	}

	if strings.Contains(s, ".") {
		if meters, err := strconv.ParseFloat(strings.Fields(s)[0], 64); err == nil && meters > 0 {
			return int(meters*100 + 0.5), true
		}
	}

	if m := firstNumberRe.FindString(s); m != "" {
		v, err := strconv.Atoi(m)
		if err == nil {
			return v, true
		}
	}

	return 0, false
}

// parseWeight extracts the first integer token from strings like "75 kg"
// or "165 lbs".
func parseWeight(raw string) (int, bool) {
	m := firstNumberRe.FindString(raw)
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return v, true
}

// deriveTeamCode builds an abbreviation for teams without one: single-word
// names keep their first three letters, multi-word names take one letter per
// word up to four.
func deriveTeamCode(name string) string {
	words := strings.Fields(strings.TrimSpace(name))
	if len(words) == 0 {
		return ""
	}
	if len(words) == 1 {
		runes := []rune(words[0])
		if len(runes) > 3 {
			runes = runes[:3]
		}
		return strings.ToUpper(string(runes))
	}

	var b strings.Builder
	for _, w := range words {
		if b.Len() >= 4 {
			break
		}
		b.WriteRune([]rune(w)[0])
	}
	return strings.ToUpper(b.String())
}

// slugify turns a display name into a url-safe token: lowercase alphanumeric
// runs joined by single hyphens.
func slugify(raw string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
