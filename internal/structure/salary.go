package structure

import (
	"regexp"
	"strings"
)

const (
	currencySym  = `[$€£¥₹]`
	currencyCode = `(?:USD|EUR|GBP|CAD|AUD|NZD|CHF|SEK|NOK|DKK|PLN|JPY|INR|SGD)`
	amount       = `(?:\d{1,3}(?:[,.]\d{3})+|\d+)(?:\.\d{1,2})?`
	thousands    = `(?:\s?[kK]\b)?`
	// money is a currency symbol or code next to an amount, in either order.
	money = `(?:(?:` + currencySym + `|\b` + currencyCode + `)\s?` + amount + thousands +
		`|` + amount + thousands + `\s?(?:` + currencySym + `|` + currencyCode + `\b))`
	// bound is the upper end of a range; the currency may be left implicit.
	bound  = `(?:` + money + `|` + amount + thousands + `)`
	period = `(?:\s?/\s?(?:yr|year|annum|hr|hour|mo|month)\b|\s(?:per|a|an)\s(?:year|annum|hour|month)\b|\sannually\b|\s?p\.a\.)`
)

var (
	salaryRe   = regexp.MustCompile(money + `(?P<range>\s?(?:-|–|—|to)\s?` + bound + `)?(?P<period>` + period + `)?`)
	rangeIdx   = salaryRe.SubexpIndex("range")
	periodIdx  = salaryRe.SubexpIndex("period")
	fractionRe = regexp.MustCompile(`\.\d{1,2}$`)
)

// HasSalary reports whether s contains a salary figure: a currency amount
// that is part of a range, has a pay period, uses a "k" suffix or has at
// least four integer digits. Small bare prices such as "$5" do not count.
func HasSalary(s string) bool {
	if !strings.ContainsAny(s, "0123456789") {
		return false
	}
	for _, m := range salaryRe.FindAllStringSubmatchIndex(s, -1) {
		if m[2*rangeIdx] >= 0 || m[2*periodIdx] >= 0 {
			return true
		}
		figure := s[m[0]:m[1]]
		if strings.ContainsAny(figure, "kK") || integerDigits(figure) >= 4 {
			return true
		}
	}
	return false
}

func integerDigits(figure string) int {
	n := 0
	for _, part := range strings.Fields(figure) {
		part = fractionRe.ReplaceAllString(part, "")
		for _, r := range part {
			if r >= '0' && r <= '9' {
				n++
			}
		}
	}
	return n
}
