package suggest

import (
	"testing"

	"tableflip.dev/liftlog/pkg/lift"
)

func benchLift(id, date string, weights ...string) lift.Lift {
	sets := make([]lift.Set, len(weights))
	for i, w := range weights {
		sets[i] = lift.Set{Weight: w, Reps: "5"}
	}
	return lift.Lift{
		ID:    id,
		Date:  date,
		Title: "Push Day",
		Movements: []lift.Movement{
			{Name: "Bench Press", Sets: sets},
		},
	}
}

func TestWeightPicksLatestInTightestCluster(t *testing.T) {
	current := lift.Lift{ID: "now", Date: "2024-03-10", Title: "Push Day"}
	all := history(current, benchLift("1", "2024-03-01", "135", "140", "95"))

	got, ok := Weight("Bench Press", current, all)
	if !ok {
		t.Fatalf("expected a suggestion")
	}
	// [135,140] has ratio 2.5 against 20 for [95,135]; 140 is the later set.
	if got != "140" {
		t.Fatalf("expected 140, got %s", got)
	}
}

func TestWeightUsesMostRecentPriorLiftOnly(t *testing.T) {
	current := lift.Lift{ID: "now", Date: "2024-03-10", Title: "Push Day"}
	all := history(
		current,
		benchLift("1", "2024-02-01", "225", "225"),
		benchLift("2", "2024-03-05", "135", "135"),
	)
	got, ok := Weight("Bench Press", current, all)
	if !ok || got != "135" {
		t.Fatalf("expected 135 from the latest prior lift, got %q ok=%v", got, ok)
	}
}

func TestWeightIgnoresLaterLifts(t *testing.T) {
	current := lift.Lift{ID: "now", Date: "2024-03-10", Title: "Push Day"}
	all := history(
		current,
		benchLift("future", "2024-03-20", "315"),
	)
	if _, ok := Weight("Bench Press", current, all); ok {
		t.Fatalf("lifts after the current one must not contribute")
	}
}

func TestWeightSkipsInvalidWeights(t *testing.T) {
	current := lift.Lift{ID: "now", Date: "2024-03-10", Title: "Push Day"}
	all := history(current, benchLift("1", "2024-03-01", "0", "-5", "abc"))
	if _, ok := Weight("Bench Press", current, all); ok {
		t.Fatalf("non-positive and non-numeric weights must not suggest")
	}
}

func TestWeightSingleSetSuggestsItself(t *testing.T) {
	current := lift.Lift{ID: "now", Date: "2024-03-10", Title: "Push Day"}
	all := history(current, benchLift("1", "2024-03-01", "132.5"))
	got, ok := Weight("Bench Press", current, all)
	if !ok || got != "132.5" {
		t.Fatalf("expected the single prior weight verbatim, got %q ok=%v", got, ok)
	}
}

func TestWeightNameMatchIsCaseInsensitive(t *testing.T) {
	current := lift.Lift{ID: "now", Date: "2024-03-10", Title: "Push Day"}
	all := history(current, benchLift("1", "2024-03-01", "135"))
	if _, ok := Weight("bench press", current, all); !ok {
		t.Fatalf("expected case-insensitive movement match")
	}
	if _, ok := Weight("Benched Press", current, all); ok {
		t.Fatalf("expected exact name match only")
	}
}

func TestWeightNoHistory(t *testing.T) {
	current := lift.Lift{ID: "now", Date: "2024-03-10", Title: "Push Day"}
	if _, ok := Weight("Bench Press", current, history(current)); ok {
		t.Fatalf("no prior lifts should mean no suggestion")
	}
}

func TestTightestClusterTieFavorsLargerRange(t *testing.T) {
	sets := []weightedSet{{weight: 100}, {weight: 110}, {weight: 120}}
	lo, hi := tightestCluster(sets)
	// Every pair has ratio 5 and the triple has ratio 20/3 ≈ 6.67, so the
	// first minimal pair found would win; equal-ratio ties prefer the wider
	// sub-range, which here is still a pair.
	if hi-lo != 10 {
		t.Fatalf("expected a 10-wide cluster, got [%v,%v]", lo, hi)
	}
}
