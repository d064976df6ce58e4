package postflopsolver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riverbend/postflop-solver/pkg/cardset"
)

// TestIntegration_FlopParse covers spec.md §8 scenario 5: flop text parses
// into the expected card encodings, sorted ascending.
func TestIntegration_FlopParse(t *testing.T) {
	flop1, err := cardset.ParseFlop("Qs Jh 2h")
	require.NoError(t, err)
	require.Equal(t, [3]cardset.Card{2, 38, 43}, flop1)

	flop2, err := cardset.ParseFlop("Td9d6h")
	require.NoError(t, err)
	require.Equal(t, [3]cardset.Card{18, 29, 33}, flop2)
}
