package mcp

import (
	"testing"

	"tableflip.dev/liftlog/pkg/lift"
)

func TestToDTOCountsSets(t *testing.T) {
	l := lift.Lift{
		ID:    "1709312400000",
		Date:  "2024-03-01",
		Title: "Push Day",
		Movements: []lift.Movement{
			{Name: "Bench Press", Sets: []lift.Set{{Weight: "135", Reps: "5"}, {Weight: "140", Reps: "5"}}},
			{Name: "Dip", Sets: []lift.Set{{Weight: "45", Reps: "8"}}},
		},
	}

	dto := toDTO(l)
	if dto.SetCount != 3 {
		t.Fatalf("expected 3 sets, got %d", dto.SetCount)
	}
	if len(dto.Movements) != 2 || dto.Movements[0].Name != "Bench Press" {
		t.Fatalf("movements not projected: %+v", dto.Movements)
	}
	if dto.RecencyUnix != l.Recency() {
		t.Fatalf("recency mismatch")
	}
	if dto.RecencyISO == "" {
		t.Fatalf("missing recency timestamp")
	}
}

func TestToDTOEmptyLift(t *testing.T) {
	dto := toDTO(lift.Lift{ID: "7", Title: "Legs"})
	if dto.SetCount != 0 || len(dto.Movements) != 0 {
		t.Fatalf("empty lift should project empty movements: %+v", dto)
	}
	if dto.Movements == nil {
		t.Fatalf("movements should encode as [] not null")
	}
}
