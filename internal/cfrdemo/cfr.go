// Package cfrdemo implements a minimal vanilla, range-vectorized
// counterfactual regret minimization loop over a game.Game's tree. It
// exists to give this repository's own scenario tests a trained
// strategy to assert expected values against; it deliberately skips the
// pruning, discounting, and sampling a production trainer would have.
package cfrdemo

import (
	"github.com/riverbend/postflop-solver/pkg/game"
	"github.com/riverbend/postflop-solver/pkg/tree"
)

// Trainer runs CFR over a Game's tree, mutating every player node's
// CumRegret/Strategy arrays in place.
type Trainer struct {
	g *game.Game
}

// New builds a Trainer for g.
func New(g *game.Game) *Trainer {
	return &Trainer{g: g}
}

// EV returns player's expected value at the root of g's tree under the
// strategy currently stored on its nodes, weighting the root
// counterfactual value vector by player's own prior reach.
func EV(g *game.Game, player int) float64 {
	t := &Trainer{g: g}
	cfv := t.cfr(g.Root(), player, g.InitialReach(0), g.InitialReach(1))
	own := g.InitialReach(player)
	var sum float64
	for i, v := range cfv {
		sum += v * own[i]
	}
	return sum
}

// Train runs iterations full range-vs-range passes, alternating which
// player's regrets are updated each pass (both players' reach vectors
// are always threaded through so every node's value can be computed,
// but a pass only accumulates regret for the traverser).
func (t *Trainer) Train(iterations int) {
	for i := 0; i < iterations; i++ {
		for traverser := 0; traverser < 2; traverser++ {
			t.cfr(t.g.Root(), traverser, t.g.InitialReach(0), t.g.InitialReach(1))
		}
	}
}

// cfr returns the counterfactual value vector for traverser's own hands
// at n, given the two players' current reach vectors (each already
// scaled by priors and by every ancestor's chance/strategy weighting).
func (t *Trainer) cfr(n *tree.Node, traverser int, reach0, reach1 []float64) []float64 {
	switch {
	case n.IsTerminal():
		return t.terminal(n, traverser, reach0, reach1)
	case n.IsChance():
		return t.chance(n, traverser, reach0, reach1)
	default:
		return t.decision(n, traverser, reach0, reach1)
	}
}

func (t *Trainer) terminal(n *tree.Node, traverser int, reach0, reach1 []float64) []float64 {
	oppReach := reach1
	if traverser == 1 {
		oppReach = reach0
	}
	numHands := t.g.NumPrivateHands(traverser)
	result := make([]float32, numHands)
	t.g.Evaluate(result, n, traverser, oppReach)
	out := make([]float64, numHands)
	for i, r := range result {
		out[i] = float64(r)
	}
	return out
}

// chance sums the traverser's cfv over every undealt card, weighted by
// n.ChanceFactor(): directly for materialized children, and via a
// permuted reach vector replayed through the canonical child for
// isomorphic ones (spec §9).
func (t *Trainer) chance(n *tree.Node, traverser int, reach0, reach1 []float64) []float64 {
	numHands := t.g.NumPrivateHands(traverser)
	total := make([]float64, numHands)
	count := len(n.Children) + len(n.IsoChances)
	if count == 0 {
		return total
	}

	for _, edge := range n.Children {
		cfv := t.cfr(edge.Child, traverser, reach0, reach1)
		addInto(total, cfv)
	}

	for _, ic := range n.IsoChances {
		child := n.Children[ic.Index].Child
		pr0 := transpose(reach0, ic.SwapList[0])
		pr1 := transpose(reach1, ic.SwapList[1])
		cfv := t.cfr(child, traverser, pr0, pr1)
		addInto(total, transpose(cfv, ic.SwapList[traverser]))
	}

	weight := n.ChanceFactor()
	for i := range total {
		total[i] *= weight
	}
	return total
}

// decision computes the current regret-matching strategy at n, recurses
// into every action, updates n's regrets and strategy sum when n
// belongs to traverser, and returns traverser's cfv vector.
func (t *Trainer) decision(n *tree.Node, traverser int, reach0, reach1 []float64) []float64 {
	n.Lock()
	strat := currentStrategy(n)
	n.Unlock()

	numActions := len(n.Children)
	actionCFV := make([][]float64, numActions)

	actingReach := reach0
	if n.Player == 1 {
		actingReach = reach1
	}

	for a, edge := range n.Children {
		childReach0, childReach1 := reach0, reach1
		scaled := scaleByStrategy(actingReach, strat[a])
		if n.Player == 0 {
			childReach0 = scaled
		} else {
			childReach1 = scaled
		}
		actionCFV[a] = t.cfr(edge.Child, traverser, childReach0, childReach1)
	}

	numOwnHands := t.g.NumPrivateHands(n.Player)
	nodeCFV := make([]float64, t.g.NumPrivateHands(traverser))
	if n.Player == traverser {
		for a := 0; a < numActions; a++ {
			for i := 0; i < numOwnHands; i++ {
				nodeCFV[i] += strat[a][i] * actionCFV[a][i]
			}
		}
	} else {
		for a := 0; a < numActions; a++ {
			addInto(nodeCFV, actionCFV[a])
		}
	}

	if n.Player == traverser {
		oppReach := reach1
		if traverser == 1 {
			oppReach = reach0
		}
		var oppMass float64
		for _, r := range oppReach {
			oppMass += r
		}
		t.updateRegrets(n, strat, actionCFV, nodeCFV, actingReach, oppMass)
	}

	return nodeCFV
}

func (t *Trainer) updateRegrets(n *tree.Node, strat [][]float64, actionCFV [][]float64, nodeCFV []float64, ownReach []float64, oppMass float64) {
	n.Lock()
	defer n.Unlock()
	numActions := len(n.Children)
	for a := 0; a < numActions; a++ {
		for i, cfv := range actionCFV[a] {
			n.CumRegret[a][i] += float32(oppMass * (cfv - nodeCFV[i]))
			n.Strategy[a][i] += float32(ownReach[i] * strat[a][i])
		}
	}
}

// currentStrategy computes the regret-matching strategy from n's
// CumRegret arrays: positive regrets normalized to a distribution,
// falling back to a uniform draw over actions when all regrets for a
// hand are non-positive.
func currentStrategy(n *tree.Node) [][]float64 {
	numActions := len(n.Children)
	numHands := len(n.CumRegret[0])
	strat := make([][]float64, numActions)
	for a := range strat {
		strat[a] = make([]float64, numHands)
	}

	for i := 0; i < numHands; i++ {
		var sum float64
		for a := 0; a < numActions; a++ {
			if n.CumRegret[a][i] > 0 {
				sum += float64(n.CumRegret[a][i])
			}
		}
		if sum <= 0 {
			for a := 0; a < numActions; a++ {
				strat[a][i] = 1.0 / float64(numActions)
			}
			continue
		}
		for a := 0; a < numActions; a++ {
			if n.CumRegret[a][i] > 0 {
				strat[a][i] = float64(n.CumRegret[a][i]) / sum
			}
		}
	}
	return strat
}

func scaleByStrategy(reach []float64, strat []float64) []float64 {
	out := make([]float64, len(reach))
	for i, r := range reach {
		out[i] = r * strat[i]
	}
	return out
}

func addInto(dst, src []float64) {
	for i, v := range src {
		dst[i] += v
	}
}

// transpose returns a copy of v with each (i, j) pair in swaps swapped;
// transpositions are involutions, so applying the same swap list twice
// recovers the original vector.
func transpose(v []float64, swaps [][2]int) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	for _, p := range swaps {
		out[p[0]], out[p[1]] = out[p[1]], out[p[0]]
	}
	return out
}
