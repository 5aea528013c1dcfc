// Package normalize canonicalizes dates, phone numbers, URLs, and bullet text
// extracted from resumes. Every function is pure and never fails: input that
// cannot be normalized is returned as-is.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// Present is the canonical token for an ongoing date range.
const Present = "Present"

var monthAbbrev = map[string]string{
	"january": "Jan", "jan": "Jan",
	"february": "Feb", "feb": "Feb",
	"march": "Mar", "mar": "Mar",
	"april": "Apr", "apr": "Apr",
	"may":  "May",
	"june": "Jun", "jun": "Jun",
	"july": "Jul", "jul": "Jul",
	"august": "Aug", "aug": "Aug",
	"september": "Sep", "sept": "Sep", "sep": "Sep",
	"october": "Oct", "oct": "Oct",
	"november": "Nov", "nov": "Nov",
	"december": "Dec", "dec": "Dec",
}

var monthByNumber = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var (
	presentPattern   = regexp.MustCompile(`(?i)^(present|current|now)$`)
	monthYearPattern = regexp.MustCompile(`^([A-Za-z]+)\.?[\s,]+(\d{4})$`)
	monthFirstNumber = regexp.MustCompile(`^(\d{1,2})[/-](\d{4})$`)
	yearFirstNumber  = regexp.MustCompile(`^(\d{4})[/-](\d{1,2})$`)
	yearPattern      = regexp.MustCompile(`\d{4}`)
)

// NormalizeDate converts a date token into "Mon YYYY" form or "Present".
// Recognized inputs: present/current/now, "January 2020", "Jan. 2020",
// "01/2020", "2020-01". Anything else ("Spring 2020", "Q1 2021") is
// returned unchanged apart from surrounding whitespace.
func NormalizeDate(date string) string {
	d := strings.TrimSpace(date)
	if d == "" {
		return ""
	}
	if presentPattern.MatchString(d) {
		return Present
	}

	if m := monthYearPattern.FindStringSubmatch(d); m != nil {
		if abbrev, ok := monthAbbrev[strings.ToLower(m[1])]; ok {
			return abbrev + " " + m[2]
		}
		return d
	}

	if m := monthFirstNumber.FindStringSubmatch(d); m != nil {
		if month, ok := monthName(m[1]); ok {
			return month + " " + m[2]
		}
		return d
	}

	if m := yearFirstNumber.FindStringSubmatch(d); m != nil {
		if month, ok := monthName(m[2]); ok {
			return month + " " + m[1]
		}
	}

	return d
}

func monthName(num string) (string, bool) {
	n, err := strconv.Atoi(num)
	if err != nil || n < 1 || n > 12 {
		return "", false
	}
	return monthByNumber[n-1], true
}

// ValidateDateRange normalizes both ends of a range and swaps them when the
// end year is earlier than the start year.
func ValidateDateRange(start, end string) (string, string) {
	start = NormalizeDate(start)
	end = NormalizeDate(end)
	if end == Present {
		return start, end
	}

	startYear, endYear := yearOf(start), yearOf(end)
	if startYear > 0 && endYear > 0 && endYear < startYear {
		return end, start
	}
	return start, end
}

// yearOf returns the first four-digit year in s, or 0.
func yearOf(s string) int {
	y, err := strconv.Atoi(yearPattern.FindString(s))
	if err != nil {
		return 0
	}
	return y
}

var (
	phoneDecoration = regexp.MustCompile(`[^\d\-\s]`)
	phoneSpaces     = regexp.MustCompile(`\s+`)
	phoneHyphenRun  = regexp.MustCompile(`\s*-[\s-]*`)
)

// NormalizePhoneNumber strips decoration (parentheses, dots, slashes, extra
// spaces) while keeping a leading "+" and every digit group. No digit count
// is assumed, so international numbers pass through intact.
func NormalizePhoneNumber(phone string) string {
	p := strings.TrimSpace(phone)
	if p == "" {
		return ""
	}

	plus := strings.HasPrefix(p, "+")
	p = strings.TrimPrefix(p, "+")

	p = phoneDecoration.ReplaceAllString(p, " ")
	p = phoneHyphenRun.ReplaceAllString(p, "-")
	p = phoneSpaces.ReplaceAllString(p, " ")
	p = strings.Trim(p, " -")

	if !strings.ContainsAny(p, "0123456789") {
		return ""
	}
	if plus {
		return "+" + p
	}
	return p
}

var (
	protocolPrefix = regexp.MustCompile(`(?i)^https?://`)
	wwwPrefix      = regexp.MustCompile(`(?i)^www\.`)
)

// NormalizeURL strips the protocol, then a leading "www.", then exactly one
// trailing slash.
func NormalizeURL(url string) string {
	u := strings.TrimSpace(url)
	u = protocolPrefix.ReplaceAllString(u, "")
	u = wwwPrefix.ReplaceAllString(u, "")
	return strings.TrimSuffix(u, "/")
}
