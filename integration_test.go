package postflopsolver_test

import (
	"testing"

	"github.com/riverbend/postflop-solver/pkg/cardset"
	"github.com/riverbend/postflop-solver/pkg/handrange"
)

// fullRange enumerates every two-card combo that does not collide with
// boardMask, each with prior weight 1. This is the literal "full range"
// (22+, A2+, ..., every starting hand) from spec.md's end-to-end
// scenarios, built directly rather than through range-notation shorthand
// parsing (an external collaborator's job, spec §1).
func fullRange(t *testing.T, boardMask cardset.Mask) handrange.Range {
	t.Helper()
	r := handrange.Range{}
	for c1 := cardset.Card(0); int(c1) < cardset.NumCards; c1++ {
		for c2 := c1 + 1; int(c2) < cardset.NumCards; c2++ {
			if boardMask.Conflicts(c1, c2) {
				continue
			}
			r[handrange.NewPrivateHand(c1, c2)] = 1
		}
	}
	return r
}

func mustParseFlop(t *testing.T, s string) [3]cardset.Card {
	t.Helper()
	flop, err := cardset.ParseFlop(s)
	if err != nil {
		t.Fatalf("ParseFlop(%q): %v", s, err)
	}
	return flop
}

func mustParseCard(t *testing.T, s string) cardset.Card {
	t.Helper()
	c, err := cardset.ParseCard(s)
	if err != nil {
		t.Fatalf("ParseCard(%q): %v", s, err)
	}
	return c
}
