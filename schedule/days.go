package schedule

import (
	"strings"
	"time"
	"unicode"
)

type dayToken struct {
	code string
	days []time.Weekday
}

// dayTokens is scanned longest-first at every position.
var dayTokens = []dayToken{
	{code: "SAT", days: []time.Weekday{time.Saturday}},
	{code: "SUN", days: []time.Weekday{time.Sunday}},
	{code: "TH", days: []time.Weekday{time.Thursday}},
	{code: "SS", days: []time.Weekday{time.Saturday, time.Sunday}},
	{code: "M", days: []time.Weekday{time.Monday}},
	{code: "T", days: []time.Weekday{time.Tuesday}},
	{code: "W", days: []time.Weekday{time.Wednesday}},
	{code: "F", days: []time.Weekday{time.Friday}},
	{code: "S", days: []time.Weekday{time.Saturday}},
}

// ExpandDays expands a compact day code such as "MWF", "TTH" or "SS".
// Unknown characters are skipped.
func ExpandDays(raw string) WeekdaySet {
	input := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, raw)

	var set WeekdaySet
	for i := 0; i < len(input); {
		matched := false
		for _, token := range dayTokens {
			if strings.HasPrefix(input[i:], token.code) {
				for _, day := range token.days {
					set = set.With(day)
				}
				i += len(token.code)
				matched = true
				break
			}
		}
		if !matched {
			i++
		}
	}
	return set
}
