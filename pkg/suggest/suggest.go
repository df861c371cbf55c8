// Package suggest computes input suggestions for the lift editor from the
// full history of lifts. All functions are pure: they read the caller's
// snapshot and never touch persistence.
package suggest

import (
	"sort"
	"strings"

	"tableflip.dev/liftlog/pkg/lift"
)

// Context classifies what kind of autocomplete applies to the active field.
type Context int

const (
	ContextNone Context = iota
	ContextTitle
	ContextMovement
	ContextWeight
)

// Max is the display cap for suggestion chips.
const Max = 3

// DefaultTitles seed the title suggestions when history runs short. Kept
// alphabetical; Titles relies on that order.
var DefaultTitles = []string{
	"Arms",
	"Back and Biceps",
	"Chest and Triceps",
	"Core",
	"Full Body",
	"Leg Day",
	"Lower Body",
	"Pull Day",
	"Push Day",
	"Shoulders",
	"Upper Body",
}

// DefaultMovements seed the movement suggestions. Alphabetical.
var DefaultMovements = []string{
	"Barbell Row",
	"Bench Press",
	"Bicep Curl",
	"Calf Raise",
	"Deadlift",
	"Dip",
	"Hip Thrust",
	"Incline Bench Press",
	"Lat Pulldown",
	"Leg Press",
	"Lunge",
	"Overhead Press",
	"Pull Up",
	"Romanian Deadlift",
	"Squat",
	"Tricep Extension",
}

// Matches reports whether any word token of candidate starts with the query.
// Tokens split on whitespace and -/:(). An empty query matches everything.
func Matches(candidate, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	tokens := strings.FieldsFunc(strings.ToLower(candidate), func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '-', '/', ':', '(', ')':
			return true
		}
		return false
	})
	for _, tok := range tokens {
		if strings.HasPrefix(tok, query) {
			return true
		}
	}
	return false
}

// Arrange orders a best-first ranking for center-weighted chip display:
// [second, best, third] with three entries, [second, best] with two.
func Arrange(ranked []string) []string {
	switch len(ranked) {
	case 0, 1:
		return ranked
	case 2:
		return []string{ranked[1], ranked[0]}
	default:
		return []string{ranked[1], ranked[0], ranked[2]}
	}
}

// Titles returns up to Max title suggestions, best-first. Historical titles
// rank by the recency of their most recent use and always outrank the
// built-in defaults, which fill remaining slots alphabetically.
func Titles(query string, all map[string]lift.Lift) []string {
	type scored struct {
		title   string
		recency int64
	}
	byLower := make(map[string]scored)
	for _, l := range all {
		title := strings.TrimSpace(l.Title)
		if title == "" {
			continue
		}
		key := strings.ToLower(title)
		r := l.Recency()
		if prev, ok := byLower[key]; !ok || r > prev.recency {
			byLower[key] = scored{title: title, recency: r}
		}
	}

	history := make([]scored, 0, len(byLower))
	for _, s := range byLower {
		if Matches(s.title, query) {
			history = append(history, s)
		}
	}
	sort.Slice(history, func(i, j int) bool {
		if history[i].recency != history[j].recency {
			return history[i].recency > history[j].recency
		}
		return history[i].title < history[j].title
	})

	out := make([]string, 0, Max)
	seen := make(map[string]bool)
	for _, s := range history {
		if len(out) == Max {
			return out
		}
		out = append(out, s.title)
		seen[strings.ToLower(s.title)] = true
	}
	for _, d := range DefaultTitles {
		if len(out) == Max {
			break
		}
		if seen[strings.ToLower(d)] || !Matches(d, query) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Movements returns up to Max movement-name suggestions, best-first, from
// four priority buckets: names used by other lifts sharing the current
// lift's exact title, names from any other lift, built-in defaults, and
// finally names already present on the current lift (offered last in case
// the user wants a repeat). Buckets are alphabetical internally.
func Movements(query string, current lift.Lift, all map[string]lift.Lift) []string {
	sameTitle := make(map[string]string)
	anyLift := make(map[string]string)
	for _, l := range all {
		if l.ID == current.ID {
			continue
		}
		for _, m := range l.Movements {
			name := strings.TrimSpace(m.Name)
			if name == "" {
				continue
			}
			key := strings.ToLower(name)
			if _, ok := anyLift[key]; !ok {
				anyLift[key] = name
			}
			if l.Title == current.Title {
				if _, ok := sameTitle[key]; !ok {
					sameTitle[key] = name
				}
			}
		}
	}

	present := make(map[string]string)
	for _, m := range current.Movements {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			continue
		}
		present[strings.ToLower(name)] = name
	}

	buckets := [][]string{
		bucketValues(sameTitle, query, present),
		bucketValues(anyLift, query, present),
		bucketSlice(DefaultMovements, query, present),
		bucketValues(present, query, nil),
	}

	out := make([]string, 0, Max)
	seen := make(map[string]bool)
	for _, bucket := range buckets {
		for _, name := range bucket {
			if len(out) == Max {
				return out
			}
			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, name)
		}
	}
	return out
}

// For dispatches on the suggestion context; weight suggestions need the
// movement currently being edited.
func For(ctx Context, query, movementName string, current lift.Lift, all map[string]lift.Lift) []string {
	switch ctx {
	case ContextTitle:
		return Arrange(Titles(query, all))
	case ContextMovement:
		return Arrange(Movements(query, current, all))
	case ContextWeight:
		if w, ok := Weight(movementName, current, all); ok {
			return []string{w}
		}
	}
	return nil
}

func bucketValues(src map[string]string, query string, exclude map[string]string) []string {
	out := make([]string, 0, len(src))
	for key, name := range src {
		if exclude != nil {
			if _, dup := exclude[key]; dup {
				continue
			}
		}
		if Matches(name, query) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func bucketSlice(src []string, query string, exclude map[string]string) []string {
	out := make([]string, 0, len(src))
	for _, name := range src {
		if exclude != nil {
			if _, dup := exclude[strings.ToLower(name)]; dup {
				continue
			}
		}
		if Matches(name, query) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
