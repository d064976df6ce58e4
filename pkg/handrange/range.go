// Package handrange materializes a player's private-hand prior into the
// dense, board-filtered hand list and reach vector the rest of the solver
// consumes. Parsing range shorthand (e.g. "AKs", "22+") is left to the
// external range-parser collaborator named in spec §1; this package accepts
// already-expanded per-combo priors.
package handrange

import (
	"sort"

	"github.com/riverbend/postflop-solver/pkg/cardset"
)

// PrivateHand is an ordered pair of hole cards with Card1 < Card2.
type PrivateHand struct {
	Card1 cardset.Card
	Card2 cardset.Card
}

// NewPrivateHand builds a PrivateHand with its cards in canonical order.
func NewPrivateHand(a, b cardset.Card) PrivateHand {
	if a > b {
		a, b = b, a
	}
	return PrivateHand{Card1: a, Card2: b}
}

// Mask returns the bitmask of this hand's two cards.
func (h PrivateHand) Mask() cardset.Mask {
	return cardset.NewMask(h.Card1, h.Card2)
}

// Range is a prior probability over private hands; zero/absent entries are
// treated as excluded from play.
type Range map[PrivateHand]float64

// Materialized is the dense, lexicographically sorted projection of a Range
// against a board: only hands with nonzero prior and no board conflict
// survive, in the same relative order for every player so hand-strength
// tables can be built once and indexed consistently.
type Materialized struct {
	Hands []PrivateHand
	Reach []float64
}

// Materialize enumerates all (c1, c2) with 0 <= c1 < c2 < 52 in
// lexicographic order, keeping entries with positive prior that do not
// collide with boardMask.
func Materialize(r Range, boardMask cardset.Mask) Materialized {
	type entry struct {
		hand  PrivateHand
		reach float64
	}
	var entries []entry
	for c1 := cardset.Card(0); int(c1) < cardset.NumCards; c1++ {
		for c2 := c1 + 1; int(c2) < cardset.NumCards; c2++ {
			hand := PrivateHand{Card1: c1, Card2: c2}
			prior := r[hand]
			if prior <= 0 {
				continue
			}
			if boardMask.Conflicts(c1, c2) {
				continue
			}
			entries = append(entries, entry{hand: hand, reach: prior})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].hand.Card1 != entries[j].hand.Card1 {
			return entries[i].hand.Card1 < entries[j].hand.Card1
		}
		return entries[i].hand.Card2 < entries[j].hand.Card2
	})

	m := Materialized{
		Hands: make([]PrivateHand, len(entries)),
		Reach: make([]float64, len(entries)),
	}
	for i, e := range entries {
		m.Hands[i] = e.hand
		m.Reach[i] = e.reach
	}
	return m
}

// Len returns the number of hands in the materialized range.
func (m Materialized) Len() int { return len(m.Hands) }

// IndexOf returns the index of hand within m (binary search), or -1 if
// absent. Exposed for isomorphism-swap computation in pkg/tree, which
// needs to locate a single suit-relabeled hand rather than a whole
// cross-reference table.
func IndexOf(m Materialized, hand PrivateHand) int {
	return searchHand(m.Hands, hand)
}

// SameHandIndex returns, for each of m's hands, the index of the identical
// hand in opp (or -1 if absent), found by binary search since both lists
// are sorted in the same lexicographic order.
func SameHandIndex(m, opp Materialized) []int {
	idx := make([]int, len(m.Hands))
	for i, h := range m.Hands {
		idx[i] = searchHand(opp.Hands, h)
	}
	return idx
}

func searchHand(hands []PrivateHand, target PrivateHand) int {
	lo, hi := 0, len(hands)
	for lo < hi {
		mid := (lo + hi) / 2
		h := hands[mid]
		switch {
		case h.Card1 < target.Card1 || (h.Card1 == target.Card1 && h.Card2 < target.Card2):
			lo = mid + 1
		case h.Card1 > target.Card1 || (h.Card1 == target.Card1 && h.Card2 > target.Card2):
			hi = mid
		default:
			return mid
		}
	}
	return -1
}
