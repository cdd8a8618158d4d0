package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Field extractors parse free-text chat input into typed values. Each is
// total over all string inputs: no panics, a sentinel absence value on no
// match.

var (
	airportCodeRe  = regexp.MustCompile(`\b[A-Z]{3}\b`)
	airportTokenRe = regexp.MustCompile(`\b[A-Za-z]{3}\b`)

	numericDateRe   = regexp.MustCompile(`(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})`)
	dayMonthYearRe  = regexp.MustCompile(`(?i)(\d{1,2})\s+(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{4})`)
	dayMonthRe      = regexp.MustCompile(`(?i)(\d{1,2})(?:st|nd|rd|th)?\s+(january|february|march|april|may|june|july|august|september|october|november|december)`)
	digitsRe        = regexp.MustCompile(`\d+`)
	adultsPhraseRe  = regexp.MustCompile(`(?i)(\d+)\s*adult`)
	childPhraseRe   = regexp.MustCompile(`(?i)(\d+)\s*child`)
	infantPhraseRe  = regexp.MustCompile(`(?i)(\d+)\s*infant`)
)

var monthNumbers = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// airportStopwords are common English 3-letter words that must not be read
// as IATA codes when scanning lowercase text. A real code typed in lowercase
// ("lhr") passes; filler words around it ("fly", "you") do not.
var airportStopwords = map[string]bool{
	"all": true, "and": true, "any": true, "are": true, "but": true,
	"can": true, "day": true, "did": true, "end": true, "fly": true,
	"for": true, "get": true, "had": true, "has": true, "her": true,
	"him": true, "his": true, "how": true, "its": true, "jet": true,
	"let": true, "may": true, "new": true, "not": true, "now": true,
	"off": true, "one": true, "our": true, "out": true, "say": true,
	"see": true, "she": true, "six": true, "ten": true, "the": true,
	"too": true, "two": true, "use": true, "via": true, "was": true,
	"way": true, "who": true, "yes": true, "you": true,
}

// ExtractAirportCode finds an IATA-style 3-letter token and returns it
// uppercased, or "" when no token qualifies. A token that is already
// uppercase in the raw text wins outright; otherwise the first 3-letter
// token that is not a common English word is taken, so lowercase input like
// "fly from lhr" yields LHR rather than FLY.
func ExtractAirportCode(text string) string {
	if code := airportCodeRe.FindString(text); code != "" {
		return code
	}
	for _, token := range airportTokenRe.FindAllString(text, -1) {
		if airportStopwords[strings.ToLower(token)] {
			continue
		}
		return strings.ToUpper(token)
	}
	return ""
}

// ExtractDate parses a free-text date and returns it in YYYY-MM-DD form, or
// "" when nothing usable is found. Only dates strictly in the future are
// accepted; today and earlier are treated as no-match so free text cannot
// book travel in the past.
func ExtractDate(text string) string {
	return extractDateAt(text, time.Now())
}

// extractDateAt tries, in order: numeric D/M/YYYY, "5 June 2026", and
// "5th June" (year defaulting to now's year). The first pattern that matches
// wins; a match that parses to an invalid or non-future date yields "" with
// no further patterns tried.
//
// Known limitation, preserved from the reference behavior: the numeric form
// always reads the first number as the day and the second as the month
// (DD/MM), so US-style MM/DD input such as 12/25/2030 will not parse.
func extractDateAt(text string, now time.Time) string {
	var day, year int
	var month time.Month

	if m := numericDateRe.FindStringSubmatch(text); m != nil {
		day, _ = strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		month = time.Month(mo)
		year, _ = strconv.Atoi(m[3])
	} else if m := dayMonthYearRe.FindStringSubmatch(text); m != nil {
		day, _ = strconv.Atoi(m[1])
		month = monthNumbers[strings.ToLower(m[2])]
		year, _ = strconv.Atoi(m[3])
	} else if m := dayMonthRe.FindStringSubmatch(text); m != nil {
		day, _ = strconv.Atoi(m[1])
		month = monthNumbers[strings.ToLower(m[2])]
		year = now.Year()
	} else {
		return ""
	}

	if month < time.January || month > time.December {
		return ""
	}
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range days (32 Jan -> 1 Feb); reject those.
	if date.Day() != day || date.Month() != month {
		return ""
	}
	if !date.After(now) {
		return ""
	}
	return date.Format("2006-01-02")
}

// ExtractNumber returns the first contiguous run of digits as a non-negative
// integer. The second return is false when the text has no digits.
func ExtractNumber(text string) (int, bool) {
	s := digitsRe.FindString(text)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Digit run too long for int; treat as no match.
		return 0, false
	}
	return n, true
}

// PassengerCounts is the parsed result of a passenger phrase.
type PassengerCounts struct {
	Adults   int
	Children int
	Infants  int
}

// ExtractPassengers scans free text for "<N> adult", "<N> child(ren)" and
// "<N> infant(s)" phrases. Absent groups default to 0, except adults: when
// no group phrase matched at all, a bare number counts as adults, and
// failing that adults defaults to 1. Infants are clamped to the adult count.
func ExtractPassengers(text string) PassengerCounts {
	var c PassengerCounts

	adultsMatch := adultsPhraseRe.FindStringSubmatch(text)
	childMatch := childPhraseRe.FindStringSubmatch(text)
	infantMatch := infantPhraseRe.FindStringSubmatch(text)

	if childMatch != nil {
		c.Children, _ = strconv.Atoi(childMatch[1])
	}
	if infantMatch != nil {
		c.Infants, _ = strconv.Atoi(infantMatch[1])
	}

	switch {
	case adultsMatch != nil:
		c.Adults, _ = strconv.Atoi(adultsMatch[1])
	case childMatch == nil && infantMatch == nil:
		// A bare number only stands in for adults when it cannot belong to
		// another group's phrase.
		if n, ok := ExtractNumber(text); ok {
			c.Adults = n
		} else {
			c.Adults = 1
		}
	default:
		c.Adults = 1
	}

	if c.Infants > c.Adults {
		c.Infants = c.Adults
	}
	return c
}
