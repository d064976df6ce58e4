package tree

import (
	"math"
	"sort"

	"github.com/riverbend/postflop-solver/pkg/cardset"
	"github.com/riverbend/postflop-solver/pkg/config"
)

// street identifies which betting round a node belongs to, derived from
// which board cards have been dealt so far.
type street uint8

const (
	streetFlop street = iota
	streetTurn
	streetRiver
)

func streetOf(n *Node) street {
	switch {
	case n.Turn == cardset.NotDealt:
		return streetFlop
	case n.River == cardset.NotDealt:
		return streetTurn
	default:
		return streetRiver
	}
}

func betSizesForStreet(cfg config.Config, s street, player int) []config.BetCandidate {
	switch s {
	case streetFlop:
		return cfg.FlopBetSizes[player]
	case streetTurn:
		return cfg.TurnBetSizes[player]
	default:
		return cfg.RiverBetSizes[player]
	}
}

// roundInt rounds to the nearest integer chip amount (spec §4.4.2's
// "round(pot*r)").
func roundInt(v float64) int {
	return int(math.Round(v))
}

// clampSize clamps a candidate bet/raise size into [minBet, maxBet] and
// reclassifies it as AllIn when the clamp lands on maxBet (spec §4.4.2
// "Bet/raise clamping").
func clampSize(kind ActionKind, size, minBet, maxBet int) Action {
	if size > maxBet {
		size = maxBet
	}
	if size < minBet {
		size = minBet
	}
	if size >= maxBet {
		return Action{Kind: AllIn}
	}
	return Action{Kind: kind, Size: size}
}

// dedupeActions sorts actions under the total order and drops
// consecutive duplicates (spec §4.4.2 "Deduplication").
func dedupeActions(actions []Action) []Action {
	sort.SliceStable(actions, func(i, j int) bool { return actions[i].Less(actions[j]) })
	out := actions[:0:0]
	for i, a := range actions {
		if i > 0 && a.Equal(actions[i-1]) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// legalActions computes the deduplicated, clamped action list for a
// player node (spec §4.4.2).
func legalActions(cfg config.Config, s street, player int, nodeAmount int, info recurseInfo) []Action {
	opp := 1 - player
	betDiff := info.lastBet[opp] - info.lastBet[player]
	pot := cfg.InitialPot + 2*(nodeAmount+betDiff)
	maxBet := cfg.InitialStack - nodeAmount + info.lastBet[player]
	minBet := min(maxBet, info.lastBet[opp]+betDiff)

	candidates := betSizesForStreet(cfg, s, player)
	facingBet := info.lastAction.Kind == Bet || info.lastAction.Kind == Raise || info.lastAction.Kind == AllIn

	var actions []Action
	if !facingBet {
		actions = append(actions, Action{Kind: Check})
		if info.numBet < cfg.MaxNumBet {
			for _, cand := range candidates {
				if cand.Kind == config.LastBetRelative {
					// Only legal as a raise against an outstanding bet.
					continue
				}
				size := roundInt(float64(pot) * cand.Ratio)
				actions = append(actions, clampSize(Bet, size, minBet, maxBet))
			}
		}
		return dedupeActions(actions)
	}

	actions = append(actions, Action{Kind: Fold}, Action{Kind: Call})
	if !info.allinFlag && info.numBet < cfg.MaxNumBet {
		oppBet := info.lastBet[opp]
		for _, cand := range candidates {
			var size int
			switch cand.Kind {
			case config.PotRelative:
				size = oppBet + roundInt(float64(pot)*cand.Ratio)
			case config.LastBetRelative:
				size = roundInt(float64(oppBet) * cand.Ratio)
			}
			actions = append(actions, clampSize(Raise, size, minBet, maxBet))
		}
	}
	return dedupeActions(actions)
}
