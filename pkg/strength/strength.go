// Package strength precomputes, for every reachable (turn, river) board,
// per-player hand-strength tables that let terminal evaluation compare a
// hand's score against an opponent's sorted-strength permutation in O(1)
// per band instead of re-scoring every combo.
package strength

import (
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/riverbend/postflop-solver/pkg/cardset"
	"github.com/riverbend/postflop-solver/pkg/config"
	"github.com/riverbend/postflop-solver/pkg/handrank"
)

// NumBoardSlots is the size of the flat board-index table (spec §4.3's
// "52*51/2" slots): one per turn < river pair, which BoardIndex maps onto
// exactly 0..NumBoardSlots-1.
const NumBoardSlots = 52 * 51 / 2

// BoardIndex maps a normalized (turn < river) pair to a unique slot in
// [0, NumBoardSlots), using the exact formula from spec §4.3/§9 so
// implementations stay bit-for-bit compatible.
func BoardIndex(turn, river cardset.Card) int {
	if turn > river {
		turn, river = river, turn
	}
	t := int(turn)
	r := int(river)
	return t*(101-t)/2 + r - 1
}

// HandStrength holds, for one player on one (turn, river) board, the
// opponent-sorted permutation and per-hand win/tie/exclude thresholds
// described in spec §3/§4.3.
type HandStrength struct {
	// OppIncreasingIndex permutes the opponent's hand indices by ascending
	// 7-card score; position 0 holds the weakest (or board-conflicting)
	// hand.
	OppIncreasingIndex []int
	// ExcludeThreshold is the number of leading permutation entries that
	// conflict with the board (score 0).
	ExcludeThreshold int
	// WinThreshold[i] / TieThreshold[i] are, for this player's hand i,
	// the partition points in OppIncreasingIndex where opponent score
	// transitions from < v to >= v, and from <= v to > v, respectively.
	WinThreshold []int
	TieThreshold []int
}

// Table is the full per-board, per-player hand-strength precompute.
type Table struct {
	Boards [NumBoardSlots][2]HandStrength
	// Present marks which board slots were actually computed (both turn
	// and river off the flop); all other slots hold the zero value and
	// must never be consulted.
	Present [NumBoardSlots]bool
}

// Precompute builds the hand-strength table for every non-conflicting
// (turn, river) pair in parallel: the boards are split into about
// runtime.GOMAXPROCS(0) contiguous chunks, one goroutine per chunk, each
// writing only to its own boards' slots of the preallocated table
// (spec §4.3, §5).
func Precompute(v *config.Validated) (*Table, error) {
	flopMask := v.BoardMask
	tbl := &Table{}

	type boardJob struct {
		turn, river cardset.Card
	}
	var jobs []boardJob
	for t := cardset.Card(0); int(t) < cardset.NumCards; t++ {
		if flopMask.Has(t) {
			continue
		}
		for r := t + 1; int(r) < cardset.NumCards; r++ {
			if flopMask.Has(r) {
				continue
			}
			jobs = append(jobs, boardJob{turn: t, river: r})
		}
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(jobs) {
		workers = len(jobs)
	}
	if workers < 1 {
		workers = 1
	}

	var g errgroup.Group
	chunk := (len(jobs) + workers - 1) / max1(workers)
	for start := 0; start < len(jobs); start += chunk {
		end := start + chunk
		if end > len(jobs) {
			end = len(jobs)
		}
		batch := jobs[start:end]
		g.Go(func() error {
			for _, job := range batch {
				slot := BoardIndex(job.turn, job.river)
				tbl.Boards[slot] = computeBoard(v, job.turn, job.river)
				tbl.Present[slot] = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tbl, nil
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func computeBoard(v *config.Validated, turn, river cardset.Card) [2]HandStrength {
	cfg := v.Config
	var board [5]cardset.Card
	board[0], board[1], board[2] = cfg.Flop[0], cfg.Flop[1], cfg.Flop[2]
	board[3], board[4] = turn, river
	boardMask := v.BoardMask.With(turn).With(river)

	var scores [2][]int
	for p := 0; p < 2; p++ {
		hands := v.Hands[p]
		s := make([]int, hands.Len())
		for i, h := range hands.Hands {
			if boardMask.Conflicts(h.Card1, h.Card2) {
				s[i] = 0
				continue
			}
			s[i] = handrank.Evaluate(h.Card1, h.Card2, board)
		}
		scores[p] = s
	}

	var out [2]HandStrength
	for p := 0; p < 2; p++ {
		opp := 1 - p
		out[p] = buildHandStrength(scores[p], scores[opp])
	}
	return out
}

// buildHandStrength builds the permutation/threshold structure for one
// player given both players' per-hand scores on this board.
func buildHandStrength(playerScores, oppScores []int) HandStrength {
	perm := make([]int, len(oppScores))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return oppScores[perm[a]] < oppScores[perm[b]]
	})

	sortedOppScores := make([]int, len(perm))
	for i, idx := range perm {
		sortedOppScores[i] = oppScores[idx]
	}

	excludeThreshold := sort.Search(len(sortedOppScores), func(i int) bool {
		return sortedOppScores[i] > 0
	})

	win := make([]int, len(playerScores))
	tie := make([]int, len(playerScores))
	for i, v := range playerScores {
		// win[i]: first position where opp score >= v
		win[i] = sort.Search(len(sortedOppScores), func(k int) bool {
			return sortedOppScores[k] >= v
		})
		// tie[i]: first position where opp score > v
		tie[i] = sort.Search(len(sortedOppScores), func(k int) bool {
			return sortedOppScores[k] > v
		})
	}

	return HandStrength{
		OppIncreasingIndex: perm,
		ExcludeThreshold:   excludeThreshold,
		WinThreshold:       win,
		TieThreshold:       tie,
	}
}

// Get returns the hand strength table for the given (turn, river) board
// from this player's perspective, and whether that board is present (not
// conflicting with the flop).
func (t *Table) Get(turn, river cardset.Card, player int) (HandStrength, bool) {
	slot := BoardIndex(turn, river)
	if slot < 0 || slot >= NumBoardSlots || !t.Present[slot] {
		return HandStrength{}, false
	}
	return t.Boards[slot][player], true
}
