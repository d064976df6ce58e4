// Package config validates solver configuration and materializes the
// per-player hand lists and reach vectors the rest of the solver consumes.
package config

import (
	"fmt"

	"github.com/riverbend/postflop-solver/pkg/cardset"
	"github.com/riverbend/postflop-solver/pkg/handrange"
)

// Kind identifies one of the solver's validation/construction error
// categories (spec §7).
type Kind uint8

const (
	InvalidFlop Kind = iota
	NonPositiveStake
	EmptyRange
	NoViableAssignment
	MemoryExceeded
	BetSizeShape
	CardParse
)

func (k Kind) String() string {
	switch k {
	case InvalidFlop:
		return "InvalidFlop"
	case NonPositiveStake:
		return "NonPositiveStake"
	case EmptyRange:
		return "EmptyRange"
	case NoViableAssignment:
		return "NoViableAssignment"
	case MemoryExceeded:
		return "MemoryExceeded"
	case BetSizeShape:
		return "BetSizeShape"
	case CardParse:
		return "CardParse"
	default:
		return "Unknown"
	}
}

// Error is a human-readable, typed configuration/construction failure.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func newErr(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// BetSizeKind distinguishes the two candidate-sizing shapes in spec §4.4.2.
type BetSizeKind uint8

const (
	// PotRelative sizes relative to the pot after the acting player calls.
	PotRelative BetSizeKind = iota
	// LastBetRelative sizes relative to the opponent's current bet; only
	// legal when the player is facing a bet (i.e. as a raise).
	LastBetRelative
)

// BetCandidate is one configured bet/raise size, before clamping.
type BetCandidate struct {
	Kind  BetSizeKind
	Ratio float64
}

// Config is the full solver configuration (spec §6 "Configuration
// options").
type Config struct {
	Flop         [3]cardset.Card
	InitialPot   int
	InitialStack int
	Range        [2]handrange.Range

	FlopBetSizes  [2][]BetCandidate
	TurnBetSizes  [2][]BetCandidate
	RiverBetSizes [2][]BetCandidate

	MaxNumBet int

	// MaxMemoryMB caps total structural + allocated array memory (§6).
	// Zero means no cap.
	MaxMemoryMB int
}

// Validated is the output of Validate: the materialized hand lists for both
// players plus the combination-count normalizer for evaluate().
type Validated struct {
	Config             Config
	BoardMask          cardset.Mask
	Hands              [2]handrange.Materialized
	SameHandIndex      [2][]int
	NumCombinationsInv float64
}

// Validate implements check_config (spec §4.1): it rejects malformed flops,
// non-positive stakes/pots, empty ranges, and board/range combinations with
// no viable joint assignment, then materializes both players' hand lists
// and the normalizer 1/Σ priors.
func Validate(cfg Config) (*Validated, error) {
	for _, c := range cfg.Flop {
		if c == cardset.NotDealt {
			return nil, newErr(InvalidFlop, "flop card is not dealt")
		}
		if !c.Valid() {
			return nil, newErr(InvalidFlop, "flop card %d out of range", c)
		}
	}
	if cfg.Flop[0] == cfg.Flop[1] || cfg.Flop[0] == cfg.Flop[2] || cfg.Flop[1] == cfg.Flop[2] {
		return nil, newErr(InvalidFlop, "flop cards collide")
	}
	boardMask := cardset.NewMask(cfg.Flop[0], cfg.Flop[1], cfg.Flop[2])

	if cfg.InitialPot <= 0 {
		return nil, newErr(NonPositiveStake, "initial pot must be > 0, got %d", cfg.InitialPot)
	}
	if cfg.InitialStack <= 0 {
		return nil, newErr(NonPositiveStake, "initial stack must be > 0, got %d", cfg.InitialStack)
	}

	if len(cfg.Range[0]) == 0 || len(cfg.Range[1]) == 0 {
		return nil, newErr(EmptyRange, "both players must have a non-empty range")
	}

	hands := [2]handrange.Materialized{
		handrange.Materialize(cfg.Range[0], boardMask),
		handrange.Materialize(cfg.Range[1], boardMask),
	}
	if hands[0].Len() == 0 || hands[1].Len() == 0 {
		return nil, newErr(EmptyRange, "both players must have at least one non-colliding hand")
	}

	sum := 0.0
	for i, h0 := range hands[0].Hands {
		for j, h1 := range hands[1].Hands {
			if h0.Mask().Conflicts(h1.Card1, h1.Card2) {
				continue
			}
			sum += hands[0].Reach[i] * hands[1].Reach[j]
		}
	}
	if sum <= 0 {
		return nil, newErr(NoViableAssignment, "no combination of the two ranges and board has nonzero joint prior")
	}

	sameHandIndex := [2][]int{
		handrange.SameHandIndex(hands[0], hands[1]),
		handrange.SameHandIndex(hands[1], hands[0]),
	}

	return &Validated{
		Config:             cfg,
		BoardMask:          boardMask,
		Hands:              hands,
		SameHandIndex:      sameHandIndex,
		NumCombinationsInv: 1 / sum,
	}, nil
}
