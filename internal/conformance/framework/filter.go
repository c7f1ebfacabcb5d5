package framework

import (
	"fmt"
	"regexp"
	"strings"
)

// Filter decides whether to run a specific scenario
type Filter func(TestID) bool

type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

// AsFilter selects a scenario when it matches MustMatch, or when it is an ancestor of the literal
// prefix of a MustMatch pattern, and it does not match MustNotMatch
func (r RegexFilters) AsFilter(id TestID) bool {
	name := id.String()
	return (!r.MustMatch.IsDefined() || r.MustMatch.AnyMatch(name) || r.MustMatch.AnyAncestor(name)) &&
		!r.MustNotMatch.AnyMatch(name)
}

func (r RegexFilters) IsDefined() bool {
	return r.MustMatch.IsDefined() || r.MustNotMatch.IsDefined()
}

// RegexList is a repeatable command line flag
type RegexList struct {
	patterns []*regexp.Regexp
	prefixes []string
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser
func (r *RegexList) Set(value string) error {
	rx, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	r.patterns = append(r.patterns, rx)
	r.prefixes = append(r.prefixes, literalPrefix(value))
	return nil
}

func (r *RegexList) Type() string {
	return "regex"
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

func (r RegexList) AnyMatch(s string) bool {
	for _, p := range r.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// AnyAncestor reports whether name is a parent path of the literal prefix of any pattern
func (r RegexList) AnyAncestor(name string) bool {
	for _, prefix := range r.prefixes {
		if strings.HasPrefix(prefix, name+"/") {
			return true
		}
	}
	return false
}

// literalPrefix is the literal text every match must begin with.  regexp reports no prefix for a
// pattern anchored with ^, so the anchor is dropped first.
func literalPrefix(pattern string) string {
	rx, err := regexp.Compile(strings.TrimPrefix(pattern, "^"))
	if err != nil {
		return ""
	}
	prefix, _ := rx.LiteralPrefix()
	return prefix
}
