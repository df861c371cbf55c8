package suggest

import (
	"sort"
	"strconv"
	"strings"

	"tableflip.dev/liftlog/pkg/lift"
)

// weightBufferFloor keeps the cluster buffer useful for tight clusters: the
// symmetric allowance around [min,max] is 10% of the cluster range or 2.5
// weight units, whichever is larger.
const weightBufferFloor = 2.5

type weightedSet struct {
	weight   float64
	raw      string
	position int
	score    int64
}

// Weight suggests a starting weight for the named movement: the sets of the
// most recent strictly-earlier lift that performed the same movement are
// reduced to their tightest contiguous cluster, and the latest set inside
// the buffered cluster range wins. Returns false when history offers nothing.
func Weight(movementName string, current lift.Lift, all map[string]lift.Lift) (string, bool) {
	movementName = strings.TrimSpace(movementName)
	if movementName == "" {
		return "", false
	}

	prior, ok := priorLift(movementName, current, all)
	if !ok {
		return "", false
	}

	sets := matchingSets(prior, movementName)
	if len(sets) == 0 {
		return "", false
	}

	lo, hi := tightestCluster(sets)
	buffer := (hi - lo) * 0.1
	if buffer < weightBufferFloor {
		buffer = weightBufferFloor
	}

	var best *weightedSet
	for i := range sets {
		s := &sets[i]
		if s.weight < lo-buffer || s.weight > hi+buffer {
			continue
		}
		if best == nil || s.score > best.score {
			best = s
		}
	}
	if best == nil {
		return "", false
	}
	return best.raw, true
}

// priorLift finds the most recent lift strictly earlier than current (by
// recency score) that contains the movement. Name matching is
// case-insensitive exact.
func priorLift(movementName string, current lift.Lift, all map[string]lift.Lift) (lift.Lift, bool) {
	currentScore := current.Recency()
	var found lift.Lift
	var foundScore int64 = -1
	for _, l := range all {
		if l.ID == current.ID {
			continue
		}
		score := l.Recency()
		if score >= currentScore {
			continue
		}
		if !l.HasMovement(movementName) {
			continue
		}
		if score > foundScore {
			found = l
			foundScore = score
		}
	}
	return found, foundScore >= 0
}

// matchingSets collects the valid positive-weight sets of every same-named
// movement in the prior lift, scored so later sets win ties.
func matchingSets(prior lift.Lift, movementName string) []weightedSet {
	recency := prior.Recency()
	out := make([]weightedSet, 0, 8)
	position := 0
	for _, m := range prior.Movements {
		if !strings.EqualFold(strings.TrimSpace(m.Name), movementName) {
			continue
		}
		for _, s := range m.Sets {
			w, err := strconv.ParseFloat(strings.TrimSpace(s.Weight), 64)
			if err != nil || w <= 0 {
				continue
			}
			out = append(out, weightedSet{
				weight:   w,
				raw:      s.Weight,
				position: position,
				score:    recency*1000 + int64(position),
			})
			position++
		}
	}
	return out
}

// tightestCluster returns the [min,max] bounds of the contiguous sorted
// sub-range with the smallest range-per-member ratio. Ties break toward the
// larger sub-range. A single weight clusters with itself.
func tightestCluster(sets []weightedSet) (float64, float64) {
	weights := make([]float64, len(sets))
	for i, s := range sets {
		weights[i] = s.weight
	}
	sort.Float64s(weights)

	if len(weights) == 1 {
		return weights[0], weights[0]
	}

	bestLo, bestHi := weights[0], weights[len(weights)-1]
	bestRatio := (bestHi - bestLo) / float64(len(weights))
	bestLen := len(weights)
	for i := 0; i < len(weights); i++ {
		for j := i + 1; j < len(weights); j++ {
			length := j - i + 1
			ratio := (weights[j] - weights[i]) / float64(length)
			if ratio < bestRatio || (ratio == bestRatio && length > bestLen) {
				bestRatio = ratio
				bestLo, bestHi = weights[i], weights[j]
				bestLen = length
			}
		}
	}
	return bestLo, bestHi
}
