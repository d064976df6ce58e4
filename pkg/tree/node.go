// Package tree builds the post-flop game tree: alternating player and
// chance nodes, isomorphism-deduplicated chance branches, and the
// per-node strategy/regret storage the external CFR loop mutates.
package tree

import (
	"sync"

	"github.com/riverbend/postflop-solver/pkg/cardset"
)

// NodeKind discriminates the four node shapes described in spec §3. A
// tagged variant is used in place of a bit-packed player field, per the
// explicit allowance in the design notes ("implementers may substitute a
// tagged variant with no semantic impact").
type NodeKind uint8

const (
	PlayerNode NodeKind = iota
	ChanceNode
	TerminalShowdown
	TerminalFold
)

// OOP and IP are the two fixed player role indices.
const (
	OOP = 0
	IP  = 1
)

// Edge is one (action, child) pair in a node's ordered children list.
type Edge struct {
	Action Action
	Child  *Node
}

// IsomorphicChance records a chance branch that was folded into an
// earlier sibling via suit relabeling instead of being materialized.
type IsomorphicChance struct {
	// Index is the position in Children of the canonical sibling this
	// isomorphism reuses.
	Index int
	// SwapList[p] is the set of (i, j) index transpositions applied to
	// player p's reach/cfv vectors to reinterpret the canonical child's
	// computation under this card's suit substitution.
	SwapList [2][][2]int
}

// Node is one node of the game tree.
type Node struct {
	Kind NodeKind

	// Player is the acting player index; valid only when Kind ==
	// PlayerNode.
	Player int
	// FoldedPlayer is the index of the player who folded; valid only
	// when Kind == TerminalFold.
	FoldedPlayer int

	Turn  cardset.Card
	River cardset.Card

	// Amount is chips committed by each player so far in the hand (across
	// all streets), beyond the initial pot; commitments are symmetric at
	// every decision-enter point after a call.
	Amount int

	Children   []Edge
	IsoChances []IsomorphicChance

	// CumRegret and Strategy have shape (num_actions, num_private_hands
	// (player)); nil on terminal and chance nodes. Mutated only by the
	// external training loop, guarded by mu so one goroutine at a time
	// may hold a node's arrays while siblings are visited concurrently.
	CumRegret [][]float32
	Strategy  [][]float32

	mu sync.Mutex
}

// Lock/Unlock expose the per-node mutual exclusion the training loop
// must take before mutating CumRegret/Strategy.
func (n *Node) Lock()   { n.mu.Lock() }
func (n *Node) Unlock() { n.mu.Unlock() }

func (n *Node) IsTerminal() bool {
	return n.Kind == TerminalShowdown || n.Kind == TerminalFold
}

func (n *Node) IsChance() bool { return n.Kind == ChanceNode }

// NumActions returns len(Children) for non-terminal nodes, 0 for
// terminals.
func (n *Node) NumActions() int {
	if n.IsTerminal() {
		return 0
	}
	return len(n.Children)
}

// IsShowdown reports whether this is a terminal reached by reaching the
// river without a fold.
func (n *Node) IsShowdown() bool { return n.Kind == TerminalShowdown }

// ChanceFactor returns the per-deal probability weight a CFR loop must
// apply when traversing a chance node: 1/45 when the turn has not yet
// been dealt, 1/44 once it has.
func (n *Node) ChanceFactor() float64 {
	if n.Turn == cardset.NotDealt {
		return 1.0 / 45.0
	}
	return 1.0 / 44.0
}

// Play returns the child reached by taking the action at actionIndex.
func (n *Node) Play(actionIndex int) *Node {
	return n.Children[actionIndex].Child
}
