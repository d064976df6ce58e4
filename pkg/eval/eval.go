// Package eval implements the terminal-node counterfactual-value
// operation: given a fold or showdown terminal, a player perspective,
// and the opponent's counterfactual reach, it fills a per-hand cfv
// vector using inclusion-exclusion over conflicting board cards instead
// of enumerating every opponent combo per hand.
package eval

import (
	"github.com/riverbend/postflop-solver/pkg/cardset"
	"github.com/riverbend/postflop-solver/pkg/config"
	"github.com/riverbend/postflop-solver/pkg/strength"
	"github.com/riverbend/postflop-solver/pkg/tree"
)

// Evaluate fills result[i] with player's counterfactual value for
// holding hand i of v.Hands[player], normalized by
// v.NumCombinationsInv, given the terminal node n and the opponent's
// counterfactual reach vector cfreach (spec §4.5). result[i] is left at
// 0 for hands that conflict with the board.
func Evaluate(result []float32, n *tree.Node, player int, cfreach []float64, v *config.Validated, strengthTable *strength.Table) {
	switch n.Kind {
	case tree.TerminalFold:
		evaluateFold(result, n, player, cfreach, v)
	case tree.TerminalShowdown:
		evaluateShowdown(result, n, player, cfreach, v, strengthTable)
	}
}

func boardMaskOf(n *tree.Node, v *config.Validated) cardset.Mask {
	m := v.BoardMask
	if n.Turn != cardset.NotDealt {
		m = m.With(n.Turn)
	}
	if n.River != cardset.NotDealt {
		m = m.With(n.River)
	}
	return m
}

// evaluateFold implements spec §4.5.1.
func evaluateFold(result []float32, n *tree.Node, player int, cfreach []float64, v *config.Validated) {
	opp := 1 - player
	boardMask := boardMaskOf(n, v)

	var payoff float64
	if n.FoldedPlayer == player {
		payoff = -float64(n.Amount)
	} else {
		payoff = float64(v.Config.InitialPot + n.Amount)
	}
	payoffNorm := payoff * v.NumCombinationsInv

	oppHands := v.Hands[opp]
	cfreachSum := 0.0
	var cfreachMinus [cardset.NumCards]float64
	for j, h := range oppHands.Hands {
		if boardMask.Conflicts(h.Card1, h.Card2) {
			continue
		}
		r := cfreach[j]
		cfreachSum += r
		cfreachMinus[h.Card1] += r
		cfreachMinus[h.Card2] += r
	}

	playerHands := v.Hands[player]
	sameHandIndex := v.SameHandIndex[player]
	for i, h := range playerHands.Hands {
		if boardMask.Conflicts(h.Card1, h.Card2) {
			continue
		}
		sum := cfreachSum - cfreachMinus[h.Card1] - cfreachMinus[h.Card2]
		if j := sameHandIndex[i]; j >= 0 {
			sum += cfreach[j]
		}
		result[i] = float32(payoffNorm * sum)
	}
}

// evaluateShowdown implements spec §4.5.2.
func evaluateShowdown(result []float32, n *tree.Node, player int, cfreach []float64, v *config.Validated, strengthTable *strength.Table) {
	hs, ok := strengthTable.Get(n.Turn, n.River, player)
	if !ok {
		return
	}
	opp := 1 - player
	oppHands := v.Hands[opp]

	numOpp := len(hs.OppIncreasingIndex)
	cfreachSum := make([]float64, numOpp+1)
	cfreachMinus := make([][cardset.NumCards]float64, numOpp+1)
	for k, idx := range hs.OppIncreasingIndex {
		h := oppHands.Hands[idx]
		cfreachSum[k+1] = cfreachSum[k] + cfreach[idx]
		cfreachMinus[k+1] = cfreachMinus[k]
		cfreachMinus[k+1][h.Card1] += cfreach[idx]
		cfreachMinus[k+1][h.Card2] += cfreach[idx]
	}

	winPayoff := float64(v.Config.InitialPot + n.Amount)
	tiePayoff := float64(v.Config.InitialPot) / 2
	losePayoff := -float64(n.Amount)
	norm := v.NumCombinationsInv

	boardMask := boardMaskOf(n, v)
	playerHands := v.Hands[player]
	sameHandIndex := v.SameHandIndex[player]

	for i, h := range playerHands.Hands {
		if boardMask.Conflicts(h.Card1, h.Card2) {
			continue
		}
		x := hs.ExcludeThreshold
		w := hs.WinThreshold[i]
		t := hs.TieThreshold[i]
		l := numOpp

		win := band(cfreachSum, cfreachMinus, x, w, h.Card1, h.Card2)
		tie := band(cfreachSum, cfreachMinus, w, t, h.Card1, h.Card2)
		lose := band(cfreachSum, cfreachMinus, t, l, h.Card1, h.Card2)
		if j := sameHandIndex[i]; j >= 0 {
			tie += cfreach[j]
		}

		result[i] = float32((winPayoff*win + tiePayoff*tie + losePayoff*lose) * norm)
	}
}

// band returns the sum of opponent reach over the strength-sorted
// positions [lo, hi), excluding hands sharing card c1 or c2, via the
// prefix-sum range-subtraction from spec §4.5.2.
func band(cfreachSum []float64, cfreachMinus [][cardset.NumCards]float64, lo, hi int, c1, c2 cardset.Card) float64 {
	return (cfreachSum[hi] - cfreachSum[lo]) -
		(cfreachMinus[hi][c1] - cfreachMinus[lo][c1]) -
		(cfreachMinus[hi][c2] - cfreachMinus[lo][c2])
}
