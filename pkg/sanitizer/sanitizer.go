package sanitizer

import (
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var reWhitespace = regexp.MustCompile(`\s+`)

func trim(s string) string {
	return strings.TrimSpace(s)
}

func lower(s string) string {
	return strings.ToLower(s)
}

func upper(s string) string {
	return strings.ToUpper(s)
}

func stripWhitespace(s string) string {
	return reWhitespace.ReplaceAllString(s, "")
}

func NormalizeEmail(email string) string {
	return Pipeline{trim, lower}.Apply(email)
}

// NormalizeAccessCode accepts codes typed on a keypad or copied from an email,
// e.g. " ab12 cd34 ef56 " becomes "AB12CD34EF56".
func NormalizeAccessCode(code string) string {
	return Pipeline{trim, stripWhitespace, upper}.Apply(code)
}
