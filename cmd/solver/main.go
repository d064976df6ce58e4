// Command solver is an operator CLI over the game-tree kernel: it builds
// a tree from a configuration and reports its size, or evaluates a
// terminal node in isolation for debugging.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/riverbend/postflop-solver/pkg/cardset"
	"github.com/riverbend/postflop-solver/pkg/config"
	"github.com/riverbend/postflop-solver/pkg/eval"
	"github.com/riverbend/postflop-solver/pkg/game"
	"github.com/riverbend/postflop-solver/pkg/handrange"
	"github.com/riverbend/postflop-solver/pkg/strength"
	"github.com/riverbend/postflop-solver/pkg/tree"
)

var cli struct {
	Debug bool `help:"enable debug logging"`

	Build BuildCmd `cmd:"" help:"build a game tree and report its size"`
	Eval  EvalCmd  `cmd:"" help:"evaluate a terminal node in isolation"`
}

type BuildCmd struct {
	Flop        string `help:"flop, e.g. \"AhKsQd\"" required:""`
	Pot         int    `help:"initial pot size" required:""`
	Stack       int    `help:"initial effective stack" required:""`
	Range0      string `help:"OOP range as combo:weight pairs, e.g. \"AsAh:1,KsKh:0.5\"" required:""`
	Range1      string `help:"IP range, same shorthand as --range0" required:""`
	MaxBets     int    `help:"maximum number of bets/raises per street" default:"4"`
	MaxMemoryMB int    `help:"memory cap in MB (0 disables the cap)"`
}

type EvalCmd struct {
	Flop   string `help:"flop, e.g. \"AhKsQd\"" required:""`
	Turn   string `help:"turn card, e.g. \"2c\""`
	River  string `help:"river card, e.g. \"3c\""`
	Pot    int    `help:"initial pot size" required:""`
	Stack  int    `help:"initial effective stack" required:""`
	Range0 string `help:"OOP range as combo:weight pairs" required:""`
	Range1 string `help:"IP range as combo:weight pairs" required:""`
	Player int    `help:"perspective player (0=OOP, 1=IP)" default:"0"`
	Folded int    `help:"if set, treat this as a fold terminal folded by this player (-1 for a showdown)" default:"-1"`
	Amount int    `help:"amount already committed to the pot beyond the initial pot at this terminal"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("solver"),
		kong.Description("postflop-solver game-tree tooling"),
		kong.UsageOnError(),
	)

	setupLogger(cli.Debug)

	var err error
	switch ctx.Command() {
	case "build":
		err = cli.Build.Run()
	case "eval":
		err = cli.Eval.Run()
	default:
		log.Fatal().Msgf("unknown command: %s", ctx.Command())
	}
	if err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func setupLogger(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
}

// parseRange parses "AsAh:1, KsKh:0.5"-style shorthand: comma-separated
// four-character combos with an optional ":weight" suffix (default 1).
// Full range-notation parsing ("AKs", "22+") is an external collaborator's
// job (spec §1); this only expands already-explicit per-combo priors.
func parseRange(s string) (handrange.Range, error) {
	r := handrange.Range{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		combo, weightStr, hasWeight := strings.Cut(part, ":")
		combo = strings.TrimSpace(combo)
		if len(combo) != 4 {
			return nil, fmt.Errorf("invalid combo %q: expected 4 characters (e.g. AsAh)", combo)
		}
		c1, err := cardset.ParseCard(combo[:2])
		if err != nil {
			return nil, fmt.Errorf("invalid combo %q: %w", combo, err)
		}
		c2, err := cardset.ParseCard(combo[2:])
		if err != nil {
			return nil, fmt.Errorf("invalid combo %q: %w", combo, err)
		}
		weight := 1.0
		if hasWeight {
			weight, err = strconv.ParseFloat(strings.TrimSpace(weightStr), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid weight in %q: %w", part, err)
			}
		}
		r[handrange.NewPrivateHand(c1, c2)] = weight
	}
	return r, nil
}

func buildConfig(flopStr string, pot, stack int, range0, range1 string, maxBets, maxMemoryMB int) (config.Config, error) {
	flop, err := cardset.ParseFlop(flopStr)
	if err != nil {
		return config.Config{}, fmt.Errorf("parse flop: %w", err)
	}
	r0, err := parseRange(range0)
	if err != nil {
		return config.Config{}, fmt.Errorf("parse range0: %w", err)
	}
	r1, err := parseRange(range1)
	if err != nil {
		return config.Config{}, fmt.Errorf("parse range1: %w", err)
	}
	return config.Config{
		Flop:         flop,
		InitialPot:   pot,
		InitialStack: stack,
		Range:        [2]handrange.Range{r0, r1},
		MaxNumBet:    maxBets,
		MaxMemoryMB:  maxMemoryMB,
	}, nil
}

func (cmd *BuildCmd) Run() error {
	cfg, err := buildConfig(cmd.Flop, cmd.Pot, cmd.Stack, cmd.Range0, cmd.Range1, cmd.MaxBets, cmd.MaxMemoryMB)
	if err != nil {
		return err
	}

	start := time.Now()
	g, err := game.New(cfg)
	if err != nil {
		return fmt.Errorf("build game: %w", err)
	}
	elapsed := time.Since(start)

	numNodes, numChances := countNodes(g.Root())
	log.Info().
		Dur("elapsed", elapsed).
		Int("nodes", numNodes).
		Int("chance_nodes", numChances).
		Int("oop_hands", g.NumPrivateHands(0)).
		Int("ip_hands", g.NumPrivateHands(1)).
		Msg("tree built")
	return nil
}

func countNodes(n *tree.Node) (nodes, chances int) {
	nodes = 1
	if n.IsChance() {
		chances = 1
	}
	for _, edge := range n.Children {
		childNodes, childChances := countNodes(edge.Child)
		nodes += childNodes
		chances += childChances
	}
	return nodes, chances
}

func (cmd *EvalCmd) Run() error {
	if cmd.Player != 0 && cmd.Player != 1 {
		return fmt.Errorf("player must be 0 or 1, got %d", cmd.Player)
	}

	flop, err := cardset.ParseFlop(cmd.Flop)
	if err != nil {
		return fmt.Errorf("parse flop: %w", err)
	}
	r0, err := parseRange(cmd.Range0)
	if err != nil {
		return fmt.Errorf("parse range0: %w", err)
	}
	r1, err := parseRange(cmd.Range1)
	if err != nil {
		return fmt.Errorf("parse range1: %w", err)
	}
	cfg := config.Config{
		Flop:         flop,
		InitialPot:   cmd.Pot,
		InitialStack: cmd.Stack,
		Range:        [2]handrange.Range{r0, r1},
	}
	v, err := config.Validate(cfg)
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	turn := cardset.NotDealt
	if cmd.Turn != "" {
		if turn, err = cardset.ParseCard(cmd.Turn); err != nil {
			return fmt.Errorf("parse turn: %w", err)
		}
	}
	river := cardset.NotDealt
	if cmd.River != "" {
		if river, err = cardset.ParseCard(cmd.River); err != nil {
			return fmt.Errorf("parse river: %w", err)
		}
	}

	var n *tree.Node
	var strengthTable *strength.Table
	if cmd.Folded == 0 || cmd.Folded == 1 {
		n = &tree.Node{Kind: tree.TerminalFold, FoldedPlayer: cmd.Folded, Turn: turn, River: river, Amount: cmd.Amount}
	} else {
		if turn == cardset.NotDealt || river == cardset.NotDealt {
			return fmt.Errorf("showdown evaluation requires both --turn and --river")
		}
		tbl, err := strength.Precompute(v)
		if err != nil {
			return fmt.Errorf("precompute strength: %w", err)
		}
		strengthTable = tbl
		n = &tree.Node{Kind: tree.TerminalShowdown, Turn: turn, River: river, Amount: cmd.Amount}
	}

	opp := 1 - cmd.Player
	numOppHands := v.Hands[opp].Len()
	cfreach := make([]float64, numOppHands)
	copy(cfreach, v.Hands[opp].Reach)

	result := make([]float32, v.Hands[cmd.Player].Len())
	eval.Evaluate(result, n, cmd.Player, cfreach, v, strengthTable)

	for i, h := range v.Hands[cmd.Player].Hands {
		fmt.Printf("%s%s: %.4f\n", h.Card1, h.Card2, result[i])
	}
	return nil
}
