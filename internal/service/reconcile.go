package service

import "fmt"

// Matched pairs a persisted entity with the requested entry that references it.
type Matched[E, R any] struct {
	Existing  E
	Requested R
	Position  int
}

// Unmatched is a requested entry that references no persisted entity.
type Unmatched[R any] struct {
	Requested R
	Position  int
}

// Diff is the outcome of reconciling a persisted collection against a requested list.
type Diff[E, R any] struct {
	Delete []E
	Update []Matched[E, R]
	Insert []Unmatched[R]
}

// DuplicateKeyError reports a requested list referencing the same persisted key twice.
type DuplicateKeyError struct {
	Key uint
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("id %d appears more than once", e.Key)
}

// Reconcile splits requested into updates of existing entities (matched by key) and inserts,
// and returns the existing entities no requested entry references. Requested entries with key 0
// or with a key unknown to existing are inserts. Positions follow the requested order.
func Reconcile[E, R any](existing []E, requested []R, existingKey func(E) uint, requestedKey func(R) uint) (Diff[E, R], error) {
	var diff Diff[E, R]

	byKey := make(map[uint]E, len(existing))
	for _, e := range existing {
		byKey[existingKey(e)] = e
	}

	referenced := make(map[uint]bool, len(requested))
	for i, r := range requested {
		key := requestedKey(r)
		e, ok := byKey[key]
		if key == 0 || !ok {
			diff.Insert = append(diff.Insert, Unmatched[R]{Requested: r, Position: i})
			continue
		}
		if referenced[key] {
			return Diff[E, R]{}, &DuplicateKeyError{Key: key}
		}
		referenced[key] = true
		diff.Update = append(diff.Update, Matched[E, R]{Existing: e, Requested: r, Position: i})
	}

	for _, e := range existing {
		if !referenced[existingKey(e)] {
			diff.Delete = append(diff.Delete, e)
		}
	}
	return diff, nil
}
