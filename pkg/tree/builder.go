package tree

import (
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/riverbend/postflop-solver/pkg/cardset"
	"github.com/riverbend/postflop-solver/pkg/config"
	"github.com/riverbend/postflop-solver/pkg/handrange"
)

const (
	bytesPerFloat32    = 4
	nodeBaseBytes      = 64
	isoChanceBaseBytes = 24
	isoSwapPairBytes   = 16
)

// Builder constructs the game tree from a validated configuration,
// tracking structural and projected strategy-array memory with two
// atomic counters as it goes (spec §4.4, §5, §9 "Node memory
// discipline").
type Builder struct {
	v *config.Validated

	currentMemory    atomic.Int64
	additionalMemory atomic.Int64
}

// recurseInfo carries the transient construction state that is not
// itself stored on a Node: the action that produced the node, each
// player's total bet so far this street (measured from the street's start),
// the number of raises so far this street, and whether anyone is
// already all-in (spec §4.4).
type recurseInfo struct {
	lastAction Action
	lastBet    [2]int
	numBet     int
	allinFlag  bool
}

// Build constructs the full tree for v and, if it fits within the
// configured memory cap, allocates the per-node strategy/regret arrays
// (spec §4.4.3). The tree starts at the flop decision: the flop itself
// is already fixed by configuration, so the root is a player node, not
// a chance node.
func Build(v *config.Validated) (*Node, error) {
	b := &Builder{v: v}

	root := &Node{
		Kind:   PlayerNode,
		Player: OOP,
		Turn:   cardset.NotDealt,
		River:  cardset.NotDealt,
	}
	info := recurseInfo{lastAction: Action{Kind: None}}

	if err := b.buildNode(root, info); err != nil {
		return nil, err
	}

	current := b.currentMemory.Load()
	additional := b.additionalMemory.Load()
	if v.Config.MaxMemoryMB > 0 {
		capBytes := int64(v.Config.MaxMemoryMB) * 1024 * 1024
		if current+additional > capBytes {
			return nil, &config.Error{Kind: config.MemoryExceeded, Msg: fmt.Sprintf(
				"projected memory %d bytes (structural %d + arrays %d) exceeds cap %d bytes",
				current+additional, current, additional, capBytes)}
		}
	}

	allocateArrays(root, v)
	return root, nil
}

func (b *Builder) buildNode(n *Node, info recurseInfo) error {
	switch n.Kind {
	case TerminalShowdown, TerminalFold:
		return nil
	case ChanceNode:
		return b.buildChance(n, info)
	case PlayerNode:
		return b.buildPlayer(n, info)
	default:
		return fmt.Errorf("tree: node with unknown kind %d", n.Kind)
	}
}

// buildChance implements push_chances (spec §4.4.1): it materializes
// this node's Children and IsoChances in a single deterministic pass
// over all 52 cards, then recursively builds the materialized children
// in parallel.
func (b *Builder) buildChance(n *Node, info recurseInfo) error {
	dealingTurn := n.Turn == cardset.NotDealt
	boardMask := b.v.BoardMask
	if !dealingTurn {
		boardMask = boardMask.With(n.Turn)
	}
	canon := canonicalSuits(b.v.Config.Flop, n.Turn, dealingTurn)

	var children []Edge
	childIndexOfCard := make(map[cardset.Card]int)

	for c := cardset.Card(0); int(c) < cardset.NumCards; c++ {
		if boardMask.Has(c) {
			continue
		}
		suit, rank := c.Suit(), c.Rank()
		if canon[suit] == suit {
			child := newChildForChanceCard(n, c, dealingTurn, info.allinFlag)
			idx := len(children)
			children = append(children, Edge{Action: Action{Kind: Chance, Card: c}, Child: child})
			childIndexOfCard[c] = idx
			b.currentMemory.Add(nodeBaseBytes)
			continue
		}
		canonicalCard := cardset.NewCard(rank, canon[suit])
		idx, ok := childIndexOfCard[canonicalCard]
		if !ok {
			// Canonical representative conflicts with the board; this
			// card cannot be folded into an isomorphism and is simply
			// unreachable (both cards would collide identically).
			continue
		}
		swapList := b.computeSwapList(c, canonicalCard)
		n.IsoChances = append(n.IsoChances, IsomorphicChance{Index: idx, SwapList: swapList})
		b.currentMemory.Add(isoChanceSize(swapList))
	}
	n.Children = children

	g := new(errgroup.Group)
	for _, edge := range n.Children {
		child := edge.Child
		g.Go(func() error {
			return b.buildNode(child, recurseInfo{
				lastAction: Action{Kind: Chance},
				allinFlag:  info.allinFlag,
			})
		})
	}
	return g.Wait()
}

func isoChanceSize(swapList [2][][2]int) int64 {
	total := int64(isoChanceBaseBytes)
	for _, sl := range swapList {
		total += int64(len(sl)) * isoSwapPairBytes
	}
	return total
}

// canonicalSuits computes, for each of the 4 suits, the lowest-indexed
// suit it is isomorphic to given the board dealt so far (spec §4.4.1
// "Suit isomorphism").
func canonicalSuits(flop [3]cardset.Card, turn cardset.Card, dealingTurn bool) [4]int {
	var rankSet [4]uint16
	for _, c := range flop {
		rankSet[c.Suit()] |= 1 << uint(c.Rank())
	}
	if !dealingTurn {
		rankSet[turn.Suit()] |= 1 << uint(turn.Rank())
	}

	var canon [4]int
	for s := 0; s < 4; s++ {
		canon[s] = s
		for s1 := 0; s1 < s; s1++ {
			if rankSet[s1] == rankSet[s] {
				canon[s] = s1
				break
			}
		}
	}
	return canon
}

// computeSwapList finds, for each player, every hand containing
// nonCanon and the index of its suit-relabeled image (nonCanon replaced
// by canon), recording the (i, j) transposition (spec §4.4.1).
func (b *Builder) computeSwapList(nonCanon, canon cardset.Card) [2][][2]int {
	var out [2][][2]int
	for p := 0; p < 2; p++ {
		hands := b.v.Hands[p]
		for i, h := range hands.Hands {
			if h.Card1 != nonCanon && h.Card2 != nonCanon {
				continue
			}
			image := handrange.NewPrivateHand(replaceCard(h.Card1, nonCanon, canon), replaceCard(h.Card2, nonCanon, canon))
			j := handrange.IndexOf(hands, image)
			if j < 0 || j == i {
				continue
			}
			out[p] = append(out[p], [2]int{i, j})
		}
	}
	return out
}

func replaceCard(c, from, to cardset.Card) cardset.Card {
	if c == from {
		return to
	}
	return c
}

// newChildForChanceCard builds the shell for one canonical chance
// child: the next node is another chance deal if all-in forces a
// skip-ahead, a terminal showdown once the river lands all-in, or the
// OOP player node otherwise (spec §4.4.1).
func newChildForChanceCard(parent *Node, c cardset.Card, dealingTurn bool, allinFlag bool) *Node {
	child := &Node{Amount: parent.Amount}
	if dealingTurn {
		child.Turn = c
		child.River = cardset.NotDealt
	} else {
		child.Turn = parent.Turn
		child.River = c
	}

	switch {
	case allinFlag && dealingTurn:
		child.Kind = ChanceNode
	case allinFlag && !dealingTurn:
		child.Kind = TerminalShowdown
	default:
		child.Kind = PlayerNode
		child.Player = OOP
	}
	return child
}

// buildPlayer implements push_actions (spec §4.4.2): it computes the
// deduplicated, clamped legal action list, charges the projected
// strategy/regret array memory, materializes children, then recurses
// in parallel.
func (b *Builder) buildPlayer(n *Node, info recurseInfo) error {
	cfg := b.v.Config
	player := n.Player
	opp := 1 - player
	s := streetOf(n)

	actions := legalActions(cfg, s, player, n.Amount, info)

	numHands := b.v.Hands[player].Len()
	b.additionalMemory.Add(2 * int64(len(actions)) * int64(numHands) * bytesPerFloat32)

	betDiff := info.lastBet[opp] - info.lastBet[player]

	children := make([]Edge, 0, len(actions))
	childInfos := make([]recurseInfo, 0, len(actions))

	for _, act := range actions {
		child, childInfo := b.nextForAction(n, info, act, player, opp, betDiff, s)
		children = append(children, Edge{Action: act, Child: child})
		childInfos = append(childInfos, childInfo)
		b.currentMemory.Add(nodeBaseBytes)
	}
	n.Children = children

	g := new(errgroup.Group)
	for i, edge := range n.Children {
		child := edge.Child
		childInfo := childInfos[i]
		g.Go(func() error {
			return b.buildNode(child, childInfo)
		})
	}
	return g.Wait()
}

// nextForAction builds the child shell and recursion info for one
// surviving action (spec §4.4.2 "Child construction").
func (b *Builder) nextForAction(n *Node, info recurseInfo, act Action, player, opp int, betDiff int, s street) (*Node, recurseInfo) {
	switch act.Kind {
	case Fold:
		return &Node{
			Kind:         TerminalFold,
			FoldedPlayer: player,
			Turn:         n.Turn,
			River:        n.River,
			Amount:       n.Amount,
		}, recurseInfo{}

	case Check:
		if player == OOP {
			child := &Node{Kind: PlayerNode, Player: opp, Turn: n.Turn, River: n.River, Amount: n.Amount}
			childInfo := recurseInfo{lastAction: act, lastBet: info.lastBet, numBet: info.numBet, allinFlag: info.allinFlag}
			return child, childInfo
		}
		return b.closeStreet(n, info, act, betDiff, s)

	case Call:
		return b.closeStreet(n, info, act, betDiff, s)

	default: // Bet, Raise, AllIn
		newAmount := n.Amount + betDiff
		var lastBet [2]int
		lastBet[opp] = info.lastBet[opp]
		if act.Kind == AllIn {
			maxBet := b.v.Config.InitialStack - n.Amount + info.lastBet[player]
			lastBet[player] = maxBet
		} else {
			lastBet[player] = act.Size
		}
		allinFlag := info.allinFlag || act.Kind == AllIn
		child := &Node{Kind: PlayerNode, Player: opp, Turn: n.Turn, River: n.River, Amount: newAmount}
		childInfo := recurseInfo{lastAction: act, lastBet: lastBet, numBet: info.numBet + 1, allinFlag: allinFlag}
		return child, childInfo
	}
}

// closeStreet builds the node reached after a Call or a closing Check:
// a terminal showdown on the river, otherwise a chance node dealing the
// next street.
func (b *Builder) closeStreet(n *Node, info recurseInfo, act Action, betDiff int, s street) (*Node, recurseInfo) {
	newAmount := n.Amount + betDiff
	if s == streetRiver {
		return &Node{Kind: TerminalShowdown, Turn: n.Turn, River: n.River, Amount: newAmount}, recurseInfo{}
	}
	child := &Node{Kind: ChanceNode, Turn: n.Turn, River: n.River, Amount: newAmount}
	childInfo := recurseInfo{lastAction: act, allinFlag: info.allinFlag}
	return child, childInfo
}

// allocateArrays walks the approved tree in parallel and allocates
// zero-initialized CumRegret/Strategy arrays on every player node (spec
// §4.4.3).
func allocateArrays(n *Node, v *config.Validated) {
	if n.IsTerminal() || n.IsChance() {
		var wg sync.WaitGroup
		for _, edge := range n.Children {
			child := edge.Child
			wg.Add(1)
			go func() {
				defer wg.Done()
				allocateArrays(child, v)
			}()
		}
		wg.Wait()
		return
	}

	numActions := len(n.Children)
	numHands := v.Hands[n.Player].Len()
	n.CumRegret = make([][]float32, numActions)
	n.Strategy = make([][]float32, numActions)
	for a := 0; a < numActions; a++ {
		n.CumRegret[a] = make([]float32, numHands)
		n.Strategy[a] = make([]float32, numHands)
	}

	var wg sync.WaitGroup
	for _, edge := range n.Children {
		child := edge.Child
		wg.Add(1)
		go func() {
			defer wg.Done()
			allocateArrays(child, v)
		}()
	}
	wg.Wait()
}
