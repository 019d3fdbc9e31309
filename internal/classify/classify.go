package classify

import (
	"fmt"
	"regexp"
	"strings"
)

type Category int

const (
	Course Category = iota
	OJT
	Appraisal
)

func (c Category) String() string {
	switch c {
	case OJT:
		return "ojt"
	case Appraisal:
		return "appraisal"
	default:
		return "course"
	}
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// DefaultOJTKeywords match practicum-style titles that carry units without a room.
var DefaultOJTKeywords = []string{
	`ojt`,
	`practicum`,
	`internship`,
	`on[\s-]*the[\s-]*job`,
	`work\s*integrated`,
	`\bwil\b`,
	`immersion`,
	`capstone`,
	`legal\s*medical`,
	`oac\s*14`,
	`aoc\s*15`,
}

var DefaultAppraisalKeywords = []string{
	`competency\s*appraisal`,
	`cpale\s*review`,
	`cpa\s*board`,
	`board\s*review`,
}

type rule struct {
	category Category
	patterns []*regexp.Regexp
}

// Classifier assigns exactly one category per title. Rules are checked in
// order and the first matching rule wins.
type Classifier struct {
	rules []rule
}

func Default() *Classifier {
	classifier, err := New(nil, nil)
	if err != nil {
		panic(err)
	}
	return classifier
}

// New builds a classifier from the default tables extended with extra
// case-insensitive regular expression fragments.
func New(extraOJT, extraAppraisal []string) (*Classifier, error) {
	ojt, err := compileAll(append(append([]string(nil), DefaultOJTKeywords...), extraOJT...))
	if err != nil {
		return nil, fmt.Errorf("compile ojt keywords: %w", err)
	}
	appraisal, err := compileAll(append(append([]string(nil), DefaultAppraisalKeywords...), extraAppraisal...))
	if err != nil {
		return nil, fmt.Errorf("compile appraisal keywords: %w", err)
	}

	return &Classifier{rules: []rule{
		{category: OJT, patterns: ojt},
		{category: Appraisal, patterns: appraisal},
	}}, nil
}

func (c *Classifier) Classify(title string) Category {
	for _, r := range c.rules {
		for _, pattern := range r.patterns {
			if pattern.MatchString(title) {
				return r.category
			}
		}
	}
	return Course
}

// RoomExempt reports whether a category may be scheduled without a room.
func RoomExempt(category Category) bool {
	return category == OJT || category == Appraisal
}

func compileAll(fragments []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(fragments))
	for _, fragment := range fragments {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}
		pattern, err := regexp.Compile(`(?i)` + fragment)
		if err != nil {
			return nil, fmt.Errorf("keyword %q: %w", fragment, err)
		}
		out = append(out, pattern)
	}
	return out, nil
}
