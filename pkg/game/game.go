// Package game wires validation, hand-strength precomputation, and tree
// construction into the single entry point the rest of the solver (and
// any CFR implementation built on top of it) uses to play a hand.
package game

import (
	"github.com/riverbend/postflop-solver/pkg/config"
	"github.com/riverbend/postflop-solver/pkg/eval"
	"github.com/riverbend/postflop-solver/pkg/strength"
	"github.com/riverbend/postflop-solver/pkg/tree"
)

// Game bundles a validated configuration, its precomputed showdown
// strength table, and the resulting game tree. It is the unit a CFR
// loop traverses.
type Game struct {
	v     *config.Validated
	table *strength.Table
	root  *tree.Node
}

// New runs check_config, precomputes showdown strength, and builds the
// game tree, in that order (spec §4).
func New(cfg config.Config) (*Game, error) {
	v, err := config.Validate(cfg)
	if err != nil {
		return nil, err
	}
	table, err := strength.Precompute(v)
	if err != nil {
		return nil, err
	}
	root, err := tree.Build(v)
	if err != nil {
		return nil, err
	}
	return &Game{v: v, table: table, root: root}, nil
}

// Root returns the tree's root node.
func (g *Game) Root() *tree.Node { return g.root }

// Validated exposes the validated configuration backing this game.
func (g *Game) Validated() *config.Validated { return g.v }

// NumPrivateHands returns the number of non-board-conflicting hands in
// player's range.
func (g *Game) NumPrivateHands(player int) int {
	return g.v.Hands[player].Len()
}

// InitialReach returns a fresh copy of player's prior reach vector,
// indexed the same way as NumPrivateHands.
func (g *Game) InitialReach(player int) []float64 {
	src := g.v.Hands[player].Reach
	out := make([]float64, len(src))
	copy(out, src)
	return out
}

// Evaluate fills result with player's counterfactual value at terminal
// node n given the opponent's counterfactual reach vector cfreach (spec
// §4.5). n must be a terminal node.
func (g *Game) Evaluate(result []float32, n *tree.Node, player int, cfreach []float64) {
	eval.Evaluate(result, n, player, cfreach, g.v, g.table)
}
