package cfrdemo

import (
	"math"
	"testing"

	"github.com/riverbend/postflop-solver/pkg/cardset"
	"github.com/riverbend/postflop-solver/pkg/config"
	"github.com/riverbend/postflop-solver/pkg/game"
	"github.com/riverbend/postflop-solver/pkg/handrange"
)

func smallRange(t *testing.T, boardMask cardset.Mask, hands ...string) handrange.Range {
	t.Helper()
	r := handrange.Range{}
	for _, h := range hands {
		c1, err := cardset.ParseCard(h[:2])
		if err != nil {
			t.Fatalf("ParseCard: %v", err)
		}
		c2, err := cardset.ParseCard(h[2:])
		if err != nil {
			t.Fatalf("ParseCard: %v", err)
		}
		if boardMask.Conflicts(c1, c2) {
			t.Fatalf("hand %s conflicts with board", h)
		}
		r[handrange.NewPrivateHand(c1, c2)] = 1
	}
	return r
}

func TestTrainAllCheckIsZeroSum(t *testing.T) {
	flop, err := cardset.ParseFlop("Td9d6h")
	if err != nil {
		t.Fatalf("ParseFlop: %v", err)
	}
	boardMask := cardset.NewMask(flop[0], flop[1], flop[2])

	cfg := config.Config{
		Flop:         flop,
		InitialPot:   80,
		InitialStack: 960,
		Range: [2]handrange.Range{
			smallRange(t, boardMask, "AsAh", "KsKh"),
			smallRange(t, boardMask, "QsQh", "JsJh"),
		},
	}

	g, err := game.New(cfg)
	if err != nil {
		t.Fatalf("game.New: %v", err)
	}

	trainer := New(g)
	trainer.Train(2)

	reach0 := g.InitialReach(0)
	reach1 := g.InitialReach(1)
	result0 := trainer.cfr(g.Root(), 0, reach0, reach1)
	result1 := trainer.cfr(g.Root(), 1, reach0, reach1)

	var ev0, ev1 float64
	for i, v := range result0 {
		ev0 += v * reach0[i]
	}
	for i, v := range result1 {
		ev1 += v * reach1[i]
	}
	if math.Abs(ev0+ev1) > 1e-6 {
		t.Errorf("expected zero-sum EVs at a single showdown-only node, got ev0=%v ev1=%v", ev0, ev1)
	}
}
