package lift

// Mutators return a new Lift value and never modify their input. Index
// arguments are a caller contract: the editing session only derives them from
// the current in-bounds state, so the mutators do not range-check or error.

// SetTitle returns a copy of the lift with the title replaced.
func SetTitle(l Lift, title string) Lift {
	out := clone(l)
	out.Title = title
	return out
}

// RenameMovement returns a copy with the named movement's name replaced.
func RenameMovement(l Lift, index int, name string) Lift {
	out := clone(l)
	out.Movements[index].Name = name
	return out
}

// AppendMovement returns a copy with a new zero-set movement appended. The
// empty set list is legitimate in memory; NormalizeForSave prunes it if the
// user never logs a set.
func AppendMovement(l Lift, name string) Lift {
	out := clone(l)
	out.Movements = append(out.Movements, Movement{Name: name, Sets: []Set{}})
	return out
}

// UpsertSet replaces the set at setIndex when it exists, and appends
// otherwise. The state machine passes the current sets length to append.
func UpsertSet(l Lift, movementIndex, setIndex int, weight, reps string) Lift {
	out := clone(l)
	sets := out.Movements[movementIndex].Sets
	if setIndex < len(sets) {
		sets[setIndex] = Set{Weight: weight, Reps: reps}
	} else {
		out.Movements[movementIndex].Sets = append(sets, Set{Weight: weight, Reps: reps})
	}
	return out
}

// RemoveMovement returns a copy with the movement at index filtered out.
func RemoveMovement(l Lift, index int) Lift {
	out := clone(l)
	out.Movements = append(out.Movements[:index], out.Movements[index+1:]...)
	return out
}

// RemoveSet returns a copy with one set filtered out of a movement.
func RemoveSet(l Lift, movementIndex, setIndex int) Lift {
	out := clone(l)
	sets := out.Movements[movementIndex].Sets
	out.Movements[movementIndex].Sets = append(sets[:setIndex], sets[setIndex+1:]...)
	return out
}

// NormalizeForSave repairs the date and drops movements without sets. It runs
// immediately before every persistence write and is the only place emptied
// movements are pruned.
func NormalizeForSave(l Lift) Lift {
	out := clone(l)
	out.Date = out.ResolveDate()
	kept := make([]Movement, 0, len(out.Movements))
	for _, m := range out.Movements {
		if len(m.Sets) == 0 {
			continue
		}
		kept = append(kept, m)
	}
	out.Movements = kept
	return out
}

func clone(l Lift) Lift {
	out := l
	out.Movements = make([]Movement, len(l.Movements))
	for i, m := range l.Movements {
		out.Movements[i] = m
		out.Movements[i].Sets = append([]Set(nil), m.Sets...)
	}
	return out
}
