package calendar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

// knownExpressions is the vocabulary used for "did you mean" suggestions
// when an expression fails to parse.
var knownExpressions = []string{
	"today", "yesterday",
	"this week", "last week",
	"this month", "last month",
	"this year", "last year",
	"past N days", "past N weeks", "past N months", "past N years",
	"last N days", "last N weeks", "last N months", "last N years",
}

// ParseRelativeExpression resolves a natural-language date expression to the
// day it denotes, anchored at asOf. Range-like expressions ("this month",
// "past 30 days") resolve to the start of the range. Unrecognized input is an
// error, never a silent default, and the message names the offending input.
//
// Month and year arithmetic clamps the day of month to 1 before moving, so
// "past 1 month" from Jan 31 is Dec 1, not an overflowed date.
func ParseRelativeExpression(input string, asOf LocalDay) (LocalDay, error) {
	expr := strings.ToLower(strings.TrimSpace(input))

	switch expr {
	case "today":
		return asOf, nil
	case "yesterday":
		return asOf.AddDays(-1), nil
	case "this week":
		return startOfWeek(asOf), nil
	case "last week":
		return startOfWeek(asOf).AddDays(-7), nil
	case "this month":
		return asOf.FirstOfMonth(), nil
	case "last month":
		return asOf.addMonthsClamped(-1), nil
	case "this year":
		return NewLocalDay(asOf.Year(), 1, 1), nil
	case "last year":
		return NewLocalDay(asOf.Year()-1, 1, 1), nil
	}

	if d, ok, err := parsePastN(expr, asOf); ok {
		return d, err
	}

	return LocalDay{}, unrecognizedErr(input)
}

// parsePastN handles "past N days" and "last N days" forms, for all four
// units. The second return value reports whether the expression had that
// shape at all; malformed counts still fail with a descriptive error.
func parsePastN(expr string, asOf LocalDay) (LocalDay, bool, error) {
	fields := strings.Fields(expr)
	if len(fields) != 3 || (fields[0] != "past" && fields[0] != "last") {
		return LocalDay{}, false, nil
	}

	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 1 {
		return LocalDay{}, true, fmt.Errorf("invalid count %q in date expression %q", fields[1], expr)
	}

	switch strings.TrimSuffix(fields[2], "s") {
	case "day":
		return asOf.AddDays(-n), true, nil
	case "week":
		return asOf.AddDays(-7 * n), true, nil
	case "month":
		return asOf.addMonthsClamped(-n), true, nil
	case "year":
		return asOf.addYearsClamped(-n), true, nil
	}
	return LocalDay{}, true, fmt.Errorf("unknown unit %q in date expression %q", fields[2], expr)
}

// startOfWeek returns the most recent Sunday on or before d.
func startOfWeek(d LocalDay) LocalDay {
	return d.AddDays(-int(d.Weekday()))
}

// unrecognizedErr builds the parse error, attaching the closest known
// expression when one is near enough to look like a typo.
func unrecognizedErr(input string) error {
	expr := strings.ToLower(strings.TrimSpace(input))
	best := ""
	bestDist := 4 // more than 3 edits away is not a typo worth suggesting
	for _, known := range knownExpressions {
		if dist := levenshtein.ComputeDistance(expr, known); dist < bestDist {
			best, bestDist = known, dist
		}
	}
	if best != "" {
		return fmt.Errorf("unrecognized date expression %q (did you mean %q?)", input, best)
	}
	return fmt.Errorf("unrecognized date expression %q: expected today, yesterday, this/last week|month|year, or past N days|weeks|months|years", input)
}
