package postflopsolver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riverbend/postflop-solver/pkg/cardset"
	"github.com/riverbend/postflop-solver/pkg/config"
	"github.com/riverbend/postflop-solver/pkg/eval"
	"github.com/riverbend/postflop-solver/pkg/handrange"
	"github.com/riverbend/postflop-solver/pkg/strength"
	"github.com/riverbend/postflop-solver/pkg/tree"
)

// swapSuit toggles between clubs (suit 0) and spades (suit 3), leaving
// diamonds and hearts untouched.
func swapSuit(c cardset.Card) cardset.Card {
	switch c.Suit() {
	case 0:
		return cardset.NewCard(c.Rank(), 3)
	case 3:
		return cardset.NewCard(c.Rank(), 0)
	default:
		return c
	}
}

func swapHand(h handrange.PrivateHand) handrange.PrivateHand {
	return handrange.NewPrivateHand(swapSuit(h.Card1), swapSuit(h.Card2))
}

// TestIntegration_IsomorphicChanceReplay covers spec.md §8's round-trip
// law: on a board and with ranges that don't distinguish clubs from
// spades (neither appears on the flop, and both full ranges are suit
// symmetric), dealing the same rank on the river in clubs versus spades
// must produce counterfactual-value vectors that agree once permuted by
// the clubs<->spades index swap — exactly the relabeling the tree
// builder performs instead of materializing both chance branches.
func TestIntegration_IsomorphicChanceReplay(t *testing.T) {
	flop := mustParseFlop(t, "Td9d6h")
	boardMask := cardset.NewMask(flop[0], flop[1], flop[2])
	turn := mustParseCard(t, "5h")

	cfg := config.Config{
		Flop:         flop,
		InitialPot:   80,
		InitialStack: 960,
		Range:        [2]handrange.Range{fullRange(t, boardMask), fullRange(t, boardMask)},
	}
	v, err := config.Validate(cfg)
	require.NoError(t, err)
	tbl, err := strength.Precompute(v)
	require.NoError(t, err)

	river0 := mustParseCard(t, "2c")
	river1 := mustParseCard(t, "2s")

	evaluate := func(river cardset.Card, player int) []float32 {
		opp := 1 - player
		n := &tree.Node{Kind: tree.TerminalShowdown, Turn: turn, River: river}
		cfreach := make([]float64, v.Hands[opp].Len())
		copy(cfreach, v.Hands[opp].Reach)
		result := make([]float32, v.Hands[player].Len())
		eval.Evaluate(result, n, player, cfreach, v, tbl)
		return result
	}

	for player := 0; player < 2; player++ {
		resultClubs := evaluate(river0, player)
		resultSpades := evaluate(river1, player)

		for i, h := range v.Hands[player].Hands {
			swapped := swapHand(h)
			j := handrange.IndexOf(v.Hands[player], swapped)
			if j < 0 {
				// swapped hand collides with the board under this river;
				// its counterpart has no index to compare against.
				continue
			}
			require.InDeltaf(t, resultClubs[i], resultSpades[j], 1e-4,
				"player %d hand %s%s: dealing 2c gave %v, dealing 2s gave %v for the suit-swapped hand",
				player, h.Card1, h.Card2, resultClubs[i], resultSpades[j])
		}
	}
}
