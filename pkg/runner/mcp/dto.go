// Package mcp provides the Model Context Protocol server integration for
// liftlog.
package mcp

import (
	"time"

	"tableflip.dev/liftlog/pkg/lift"
)

// SetDTO is a transport-friendly projection of one set.
type SetDTO struct {
	Weight string `json:"weight"`
	Reps   string `json:"reps"`
}

// MovementDTO projects a movement and its sets.
type MovementDTO struct {
	Name string   `json:"name"`
	Sets []SetDTO `json:"sets"`
}

// LiftDTO projects a lift for MCP clients.
type LiftDTO struct {
	ID          string        `json:"id"`
	Date        string        `json:"date"`
	Title       string        `json:"title"`
	Movements   []MovementDTO `json:"movements"`
	SetCount    int           `json:"setCount"`
	RecencyUnix int64         `json:"recencyUnix"`
	RecencyISO  string        `json:"recency"`
}

func toDTO(l lift.Lift) LiftDTO {
	movements := make([]MovementDTO, 0, len(l.Movements))
	sets := 0
	for _, m := range l.Movements {
		md := MovementDTO{Name: m.Name, Sets: make([]SetDTO, 0, len(m.Sets))}
		for _, s := range m.Sets {
			md.Sets = append(md.Sets, SetDTO{Weight: s.Weight, Reps: s.Reps})
		}
		sets += len(m.Sets)
		movements = append(movements, md)
	}
	recency := l.Recency()
	return LiftDTO{
		ID:          l.ID,
		Date:        l.Date,
		Title:       l.Title,
		Movements:   movements,
		SetCount:    sets,
		RecencyUnix: recency,
		RecencyISO:  time.UnixMilli(recency).UTC().Format(time.RFC3339),
	}
}

func toDTOs(lifts []lift.Lift) []LiftDTO {
	out := make([]LiftDTO, 0, len(lifts))
	for _, l := range lifts {
		out = append(out, toDTO(l))
	}
	return out
}
