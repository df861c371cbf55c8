package lift

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const layoutISO = "2006-01-02"

// Set is one weight×reps data point. Weight and reps stay string-encoded to
// preserve the exact formatting the user typed; numeric parsing happens only
// when suggestions are ranked.
type Set struct {
	Weight string `json:"weight"`
	Reps   string `json:"reps"`
}

// Movement is a named exercise holding an ordered list of sets. A persisted
// movement always has at least one set; zero-set movements exist only in
// memory while the first set is being entered.
type Movement struct {
	Name string `json:"name"`
	Sets []Set  `json:"sets"`
}

// Lift is one logged workout session. Identity is by ID, not date; multiple
// lifts may share a date.
type Lift struct {
	ID        string     `json:"id"`
	Date      string     `json:"date"`
	Title     string     `json:"title"`
	Movements []Movement `json:"movements,omitempty"`
}

// New creates an in-memory lift stamped with the current time. The ID doubles
// as the creation timestamp in milliseconds.
func New(title string) Lift {
	now := time.Now()
	return Lift{
		ID:    fmt.Sprintf("%d", now.UnixMilli()),
		Date:  now.Format(layoutISO),
		Title: title,
	}
}

// ResolveDate returns the lift's calendar date, repairing a missing or
// malformed date field: the ID is used when it is itself a date string,
// otherwise the current date.
func (l Lift) ResolveDate() string {
	if _, err := time.ParseInLocation(layoutISO, l.Date, time.Local); err == nil {
		return l.Date
	}
	if _, err := time.ParseInLocation(layoutISO, l.ID, time.Local); err == nil {
		return l.ID
	}
	return time.Now().Format(layoutISO)
}

// Recency ranks lifts for suggestion ordering. It is the larger of the date
// parsed as local-midnight epoch milliseconds and the ID parsed as a raw
// number, so both date-keyed and timestamp-keyed lifts sort correctly.
// Unparseable components contribute 0.
func (l Lift) Recency() int64 {
	var score int64
	if t, err := time.ParseInLocation(layoutISO, l.Date, time.Local); err == nil {
		score = t.UnixMilli()
	}
	if id, err := strconv.ParseInt(strings.TrimSpace(l.ID), 10, 64); err == nil && id > score {
		score = id
	}
	return score
}

// HasMovement reports whether a movement with the given name already exists
// on the lift. Names compare case-insensitively.
func (l Lift) HasMovement(name string) bool {
	for _, m := range l.Movements {
		if strings.EqualFold(m.Name, name) {
			return true
		}
	}
	return false
}

// ValidNumber reports whether s is a positive decimal suitable for a weight
// or reps value: digits with at most one decimal point, parsing to > 0.
func ValidNumber(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	dot := false
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	if digits == 0 || strings.HasSuffix(s, ".") {
		return false
	}
	v, err := strconv.ParseFloat(s, 64)
	return err == nil && v > 0
}
