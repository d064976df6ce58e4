package tree

import (
	"fmt"

	"github.com/riverbend/postflop-solver/pkg/cardset"
)

// ActionKind is the tagged variant discriminant for an Action.
type ActionKind uint8

const (
	None ActionKind = iota
	Fold
	Check
	Call
	Bet
	Raise
	AllIn
	Chance
)

// Action is a single edge label in the tree: {None, Fold, Check, Call,
// Bet(size), Raise(size), AllIn, Chance(card)} (spec §3).
type Action struct {
	Kind ActionKind
	Size int          // chips, for Bet/Raise only
	Card cardset.Card // dealt card, for Chance only
}

func (a Action) String() string {
	switch a.Kind {
	case None:
		return "none"
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Bet:
		return fmt.Sprintf("bet%d", a.Size)
	case Raise:
		return fmt.Sprintf("raise%d", a.Size)
	case AllIn:
		return "allin"
	case Chance:
		return "deal" + a.Card.String()
	default:
		return "?"
	}
}

// Less implements the total order over actions used to sort and dedupe
// an action list after size clamping (spec §4.4.2): None < Fold < Check <
// Call < Bet(n) by n < Raise(n) by n < AllIn < Chance.
func (a Action) Less(b Action) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	switch a.Kind {
	case Bet, Raise:
		return a.Size < b.Size
	case Chance:
		return a.Card < b.Card
	default:
		return false
	}
}

// Equal reports whether two actions are identical under the total order
// (used for post-clamp deduplication).
func (a Action) Equal(b Action) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Bet, Raise:
		return a.Size == b.Size
	case Chance:
		return a.Card == b.Card
	default:
		return true
	}
}
