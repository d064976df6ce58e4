// Package handrank adapts this repository's 0-51 card encoding to the
// external 7-card hand evaluator. The evaluator itself is a non-goal of the
// solver (spec §1): this package exists only to translate between card
// encodings and to invert the evaluator's rank convention into the one the
// rest of the solver expects ("higher score is stronger, 0 is a board
// conflict sentinel").
package handrank

import (
	"github.com/cardrank/cardrank"

	"github.com/riverbend/postflop-solver/pkg/cardset"
)

// maxRank is comfortably above the worst possible Texas Hold'em 5-card
// evaluator rank (7462 under the standard Cactus Kev ordering), so
// inverting never underflows for any hand this solver builds.
const maxRank = 1 << 16

// Evaluate scores a 7-card hand (two private cards plus a 5-card board)
// using the external evaluator, returning a positive integer where higher
// is stronger. Callers must ensure none of the cards conflict; conflicts
// are the caller's responsibility to detect via cardset.Mask (the 0
// sentinel in HandStrength tables is reserved for that case and is never
// produced by this function).
func Evaluate(hole1, hole2 cardset.Card, board [5]cardset.Card) int {
	pocket := []cardrank.Card{toCardrank(hole1), toCardrank(hole2)}
	b := make([]cardrank.Card, 5)
	for i, c := range board {
		b[i] = toCardrank(c)
	}

	ev := cardrank.Holdem.Eval(pocket, b)
	score := maxRank - int(ev.HiRank)
	if score <= 0 {
		// Defensive floor: the contract requires a strictly positive
		// score for any non-conflicting hand.
		score = 1
	}
	return score
}

// toCardrank converts a cardset.Card into the evaluator's own Card type by
// round-tripping through standard two-character notation, avoiding any
// assumption about the evaluator's internal bit layout.
func toCardrank(c cardset.Card) cardrank.Card {
	return cardrank.Must(c.String())[0]
}
