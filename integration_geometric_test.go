package postflopsolver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riverbend/postflop-solver/pkg/cardset"
	"github.com/riverbend/postflop-solver/pkg/config"
	"github.com/riverbend/postflop-solver/pkg/game"
	"github.com/riverbend/postflop-solver/pkg/handrange"
	"github.com/riverbend/postflop-solver/pkg/tree"
)

// TestIntegration_GeometricSizing exercises GeometricBetSizes end-to-end
// through game.New and the tree builder: a target of 3x the current pot
// over a single remaining street produces one pot-relative bet candidate
// at a 1.0 ratio, which the builder turns into a pot-sized bet alongside
// the ever-present check.
func TestIntegration_GeometricSizing(t *testing.T) {
	flop := mustParseFlop(t, "Td9d6h")
	boardMask := cardset.NewMask(flop[0], flop[1], flop[2])

	cfg := config.Config{
		Flop:         flop,
		InitialPot:   80,
		InitialStack: 960,
		Range:        [2]handrange.Range{fullRange(t, boardMask), fullRange(t, boardMask)},
		MaxNumBet:    1,
	}
	cfg.FlopBetSizes[0] = config.GeometricBetSizes(80, 240, 1, 1)
	require.Len(t, cfg.FlopBetSizes[0], 1)
	require.InDelta(t, 1.0, cfg.FlopBetSizes[0][0].Ratio, 1e-9)

	g, err := game.New(cfg)
	require.NoError(t, err)

	require.Equal(t, 2, len(g.Root().Children))
	require.Equal(t, tree.Check, g.Root().Children[0].Action.Kind)
	require.Equal(t, tree.Bet, g.Root().Children[1].Action.Kind)
	require.Equal(t, 80, g.Root().Children[1].Action.Size)
}

// TestIntegration_GeometricSizingMultipleSizes verifies numSizes spreads
// ratios around the geometric mean in ascending order.
func TestIntegration_GeometricSizingMultipleSizes(t *testing.T) {
	sizes := config.GeometricBetSizes(80, 240, 1, 3)
	require.Len(t, sizes, 3)
	for i := 1; i < len(sizes); i++ {
		require.Greater(t, sizes[i].Ratio, sizes[i-1].Ratio)
	}
}

// TestIntegration_GeometricSizingDegenerateInputs verifies the
// convenience helper returns nil rather than panicking on inputs that
// can't express a positive growth target.
func TestIntegration_GeometricSizingDegenerateInputs(t *testing.T) {
	require.Nil(t, config.GeometricBetSizes(80, 240, 0, 1))
	require.Nil(t, config.GeometricBetSizes(0, 240, 1, 1))
	require.Nil(t, config.GeometricBetSizes(80, 80, 1, 1))
}
