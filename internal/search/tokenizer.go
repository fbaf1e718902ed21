// Package search compiles the note-search mini-language into
// predicate trees and orchestrates query execution.
package search

import (
	"strconv"
	"strings"
	"time"

	"github.com/corvidae/magpie/internal/dates"
)

// Parsed holds the typed filters extracted from a raw query string.
// It is built once per request and discarded after predicates are
// assembled. Absent filters are nil/empty.
type Parsed struct {
	// FreeText is what remains after directive tokens are consumed,
	// rejoined with single spaces and trimmed.
	FreeText string

	// Author is the raw from: value; empty means no author filter.
	Author string

	// HomeTarget is the raw home: value; empty means no home filter.
	HomeTarget string

	// Since/Until are the parsed start:/end: dates. Malformed or
	// empty values leave them nil (filter dropped, matching the
	// treatment of unresolvable from:/home: names).
	Since *time.Time
	Until *time.Time

	// MinScore is the parsed reactions: value. Non-numeric values
	// leave it nil. A parsed zero is kept here; the predicate
	// builder deliberately skips it.
	MinScore *int
}

// Directive prefixes, tested in this fixed order. First match wins
// within a token; across tokens the last occurrence of a directive
// overwrites earlier ones.
var directivePrefixes = []string{"start:", "end:", "from:", "reactions:", "home:"}

// Tokenize splits a raw query on single spaces and classifies each
// token as a directive or free text. Consecutive spaces produce empty
// tokens, which contribute nothing.
func Tokenize(raw string) Parsed {
	var p Parsed
	var freeText []string

	for _, token := range strings.Split(raw, " ") {
		if token == "" {
			continue
		}

		directive, value, ok := matchDirective(token)
		if !ok {
			freeText = append(freeText, token)
			continue
		}

		switch directive {
		case "start:":
			p.Since = parseDirectiveDate(value)
		case "end:":
			p.Until = parseDirectiveDate(value)
		case "from:":
			p.Author = value
		case "reactions:":
			p.MinScore = parseDirectiveInt(value)
		case "home:":
			p.HomeTarget = value
		}
	}

	p.FreeText = strings.TrimSpace(strings.Join(freeText, " "))
	return p
}

func matchDirective(token string) (directive, value string, ok bool) {
	for _, prefix := range directivePrefixes {
		if rest, found := strings.CutPrefix(token, prefix); found {
			return prefix, rest, true
		}
	}
	return "", "", false
}

func parseDirectiveDate(value string) *time.Time {
	t, err := dates.ParseDate(value)
	if err != nil {
		return nil
	}
	return &t
}

func parseDirectiveInt(value string) *int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &n
}
