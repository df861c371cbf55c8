package app

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"tableflip.dev/liftlog/pkg/lift"
	"tableflip.dev/liftlog/pkg/store"
	"tableflip.dev/liftlog/pkg/suggest"
)

// Service provides high-level operations over the lift log. It wraps
// persistence and document transformations so the CLI, TUI, and MCP server
// can share logic.
type Service struct {
	Persistence store.Persistence
}

var ErrNotFound = errors.New("app: lift not found")

func (s *Service) persistence() (store.Persistence, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	return s.Persistence, nil
}

// Lifts returns all stored lifts, most recent first.
func (s *Service) Lifts(ctx context.Context) ([]lift.Lift, error) {
	p, err := s.persistence()
	if err != nil {
		return nil, err
	}
	all := p.All(ctx)
	out := make([]lift.Lift, 0, len(all))
	for _, l := range all {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := out[i].Recency(), out[j].Recency()
		if ri != rj {
			return ri > rj
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// LiftsSince filters the log to lifts whose recency falls on or after the
// cutoff.
func (s *Service) LiftsSince(ctx context.Context, since time.Time) ([]lift.Lift, error) {
	all, err := s.Lifts(ctx)
	if err != nil {
		return nil, err
	}
	cutoff := since.UnixMilli()
	out := make([]lift.Lift, 0, len(all))
	for _, l := range all {
		if l.Recency() >= cutoff {
			out = append(out, l)
		}
	}
	return out, nil
}

// Get fetches one lift by id or by date.
func (s *Service) Get(ctx context.Context, id string) (lift.Lift, error) {
	p, err := s.persistence()
	if err != nil {
		return lift.Lift{}, err
	}
	l, ok := p.Get(ctx, id)
	if !ok {
		return lift.Lift{}, ErrNotFound
	}
	return l, nil
}

// Create stores a new lift with the given title. An empty date defaults to
// today.
func (s *Service) Create(ctx context.Context, title, date string) (lift.Lift, error) {
	p, err := s.persistence()
	if err != nil {
		return lift.Lift{}, err
	}
	if strings.TrimSpace(title) == "" {
		return lift.Lift{}, errors.New("app: a title is required")
	}
	l := lift.New(strings.TrimSpace(title))
	if strings.TrimSpace(date) != "" {
		l.Date = strings.TrimSpace(date)
	}
	return p.Save(l)
}

// LogSet records one weight and rep count under the named movement of the
// lift, creating the movement when it does not exist yet. The movement match
// is case-insensitive and keeps the stored casing.
func (s *Service) LogSet(ctx context.Context, id, movement, weight, reps string) (lift.Lift, error) {
	p, err := s.persistence()
	if err != nil {
		return lift.Lift{}, err
	}
	movement = strings.TrimSpace(movement)
	if movement == "" {
		return lift.Lift{}, errors.New("app: a movement name is required")
	}
	if !lift.ValidNumber(weight) || !lift.ValidNumber(reps) {
		return lift.Lift{}, errors.New("app: weight and reps must be positive numbers")
	}

	l, ok := p.Get(ctx, id)
	if !ok {
		return lift.Lift{}, ErrNotFound
	}

	mi := -1
	for i, m := range l.Movements {
		if strings.EqualFold(m.Name, movement) {
			mi = i
			break
		}
	}
	if mi == -1 {
		l = lift.AppendMovement(l, movement)
		mi = len(l.Movements) - 1
	}
	l = lift.UpsertSet(l, mi, len(l.Movements[mi].Sets), weight, reps)
	return p.Save(l)
}

// Retitle updates a lift's title.
func (s *Service) Retitle(ctx context.Context, id, title string) (lift.Lift, error) {
	p, err := s.persistence()
	if err != nil {
		return lift.Lift{}, err
	}
	if strings.TrimSpace(title) == "" {
		return lift.Lift{}, errors.New("app: a title is required")
	}
	l, ok := p.Get(ctx, id)
	if !ok {
		return lift.Lift{}, ErrNotFound
	}
	return p.Save(lift.SetTitle(l, strings.TrimSpace(title)))
}

// Delete removes a lift permanently. The id may be a date.
func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.persistence()
	if err != nil {
		return err
	}
	l, ok := p.Get(ctx, id)
	if !ok {
		return ErrNotFound
	}
	return p.Delete(l.ID)
}

// MovementNames returns the full movement vocabulary, sorted.
func (s *Service) MovementNames(ctx context.Context) ([]string, error) {
	p, err := s.persistence()
	if err != nil {
		return nil, err
	}
	return p.MovementNames(ctx), nil
}

// SuggestWeight proposes the next working weight for a movement from the
// stored history.
func (s *Service) SuggestWeight(ctx context.Context, movement string) (string, bool, error) {
	p, err := s.persistence()
	if err != nil {
		return "", false, err
	}
	// An empty current lift makes every stored lift a prior one.
	current := lift.New("")
	w, ok := suggest.Weight(movement, current, p.All(ctx))
	return w, ok, nil
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	p, err := s.persistence()
	if err != nil {
		return nil, err
	}
	return p.Watch(ctx)
}
