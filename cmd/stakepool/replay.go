// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/clock"
	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/logdb"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/pool"
)

// Scenario is a scripted sequence of pool operations.
type Scenario struct {
	// Genesis defaults to the built-in dev genesis.
	Genesis *genesis.Genesis `yaml:"genesis"`
	Start   uint64           `yaml:"start"`
	Steps   []Step           `yaml:"steps"`
}

// Step is one operation of a scenario.
//
// At moves the clock to an absolute time, Advance moves it forward.
// Expect is a substring of the error the step must fail with; empty means it must succeed.
// The check op compares Staked and Earned of From with the pool.
type Step struct {
	At       *uint64               `yaml:"at"`
	Advance  uint64                `yaml:"advance"`
	Op       string                `yaml:"op"`
	From     core.Address          `yaml:"from"`
	To       core.Address          `yaml:"to"`
	Token    string                `yaml:"token"`
	Amount   *math.HexOrDecimal256 `yaml:"amount"`
	Duration uint64                `yaml:"duration"`
	Expect   string                `yaml:"expect"`
	Staked   *math.HexOrDecimal256 `yaml:"staked"`
	Earned   *math.HexOrDecimal256 `yaml:"earned"`
}

func loadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scenario")
	}
	return parseScenario(data)
}

func parseScenario(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(err, "decode scenario")
	}
	if s.Genesis == nil {
		s.Genesis = genesis.Dev()
	} else if err := s.Genesis.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func replayAction(ctx *cli.Context) error {
	if _, err := initLogger(ctx); err != nil {
		return err
	}
	if ctx.NArg() != 1 {
		return errors.New("scenario file required")
	}
	s, err := loadScenario(ctx.Args().First())
	if err != nil {
		return err
	}

	var bar *pb.ProgressBar
	if isatty.IsTerminal(os.Stdout.Fd()) {
		bar = pb.New(len(s.Steps)).SetMaxWidth(90).Start()
	}
	var out bytes.Buffer
	runErr := runScenario(s, &out, func() {
		if bar != nil {
			bar.Increment()
		}
	})
	if bar != nil {
		bar.Finish()
	}
	fmt.Print(out.String())
	return runErr
}

// runScenario replays s on a fresh in-memory pool, writing one line per step to out.
func runScenario(s *Scenario, out io.Writer, onStep func()) error {
	db, err := lvldb.NewMem()
	if err != nil {
		return err
	}
	defer db.Close()
	logDB, err := logdb.NewMem()
	if err != nil {
		return err
	}
	defer logDB.Close()

	clk := clock.NewManual(s.Start)
	p := pool.New(db, logDB, clk, pool.Options{})
	defer p.Close()
	if _, err := p.Initialize(s.Genesis); err != nil {
		return err
	}

	for i, step := range s.Steps {
		if step.At != nil {
			if err := clk.Set(*step.At); err != nil {
				return errors.WithMessagef(err, "step %d", i)
			}
		}
		clk.Advance(step.Advance)

		desc, err := runStep(p, s.Genesis, &step)
		if onStep != nil {
			onStep()
		}
		switch {
		case step.Expect == "" && err != nil:
			fmt.Fprintf(out, "#%-3d t=%-8d %-30s FAILED %v\n", i, clk.Now(), desc, err)
			return errors.WithMessagef(err, "step %d (%s)", i, step.Op)
		case step.Expect != "" && err == nil:
			fmt.Fprintf(out, "#%-3d t=%-8d %-30s UNEXPECTED SUCCESS\n", i, clk.Now(), desc)
			return errors.Errorf("step %d (%s): expected error %q", i, step.Op, step.Expect)
		case step.Expect != "" && !strings.Contains(err.Error(), step.Expect):
			fmt.Fprintf(out, "#%-3d t=%-8d %-30s WRONG ERROR %v\n", i, clk.Now(), desc, err)
			return errors.Errorf("step %d (%s): expected error %q, got %q", i, step.Op, step.Expect, err)
		case err != nil:
			fmt.Fprintf(out, "#%-3d t=%-8d %-30s reverted as expected: %v\n", i, clk.Now(), desc, err)
		default:
			fmt.Fprintf(out, "#%-3d t=%-8d %-30s ok\n", i, clk.Now(), desc)
		}
	}
	return nil
}

func runStep(p *pool.Pool, gen *genesis.Genesis, step *Step) (string, error) {
	ctx := context.Background()
	desc := fmt.Sprintf("%s %s", step.Op, abbrev(step.From))

	amount := func() (*uint256.Int, error) {
		x, err := utils.ParseAmount(step.Amount)
		if err != nil {
			return nil, errors.WithMessage(err, "amount")
		}
		desc += " " + x.Dec()
		return x, nil
	}
	tokenAddr := func() (core.Address, error) {
		switch step.Token {
		case "staking":
			return gen.StakingToken, nil
		case "rewards":
			return gen.RewardsToken, nil
		}
		return core.ParseAddress(step.Token)
	}

	var err error
	switch step.Op {
	case "stake":
		var x *uint256.Int
		if x, err = amount(); err == nil {
			_, err = p.Stake(ctx, step.From, x)
		}
	case "withdraw":
		var x *uint256.Int
		if x, err = amount(); err == nil {
			_, err = p.Withdraw(ctx, step.From, x)
		}
	case "reward":
		_, err = p.GetReward(ctx, step.From)
	case "exit":
		_, err = p.Exit(ctx, step.From)
	case "duration":
		desc += fmt.Sprintf(" %d", step.Duration)
		_, err = p.SetRewardsDuration(ctx, step.From, step.Duration)
	case "notify":
		var x *uint256.Int
		if x, err = amount(); err == nil {
			_, err = p.NotifyRewardAmount(ctx, step.From, x)
		}
	case "approve", "transfer":
		var (
			tok core.Address
			x   *uint256.Int
		)
		if tok, err = tokenAddr(); err != nil {
			break
		}
		if x, err = amount(); err != nil {
			break
		}
		if step.Op == "approve" {
			_, err = p.Approve(ctx, tok, step.From, step.To, x)
		} else {
			_, err = p.Transfer(ctx, tok, step.From, step.To, x)
		}
	case "check":
		err = check(p, step)
	default:
		err = errors.Errorf("unknown op %q", step.Op)
	}
	return desc, err
}

func check(p *pool.Pool, step *Step) error {
	acc, err := p.Account(step.From)
	if err != nil {
		return err
	}
	if step.Staked != nil {
		want, err := utils.ParseAmount(step.Staked)
		if err != nil {
			return errors.WithMessage(err, "staked")
		}
		if acc.Staked.Cmp(want) != 0 {
			return errors.Errorf("staked: want %v, got %v", want.Dec(), acc.Staked.Dec())
		}
	}
	if step.Earned != nil {
		want, err := utils.ParseAmount(step.Earned)
		if err != nil {
			return errors.WithMessage(err, "earned")
		}
		if acc.Earned.Cmp(want) != 0 {
			return errors.Errorf("earned: want %v, got %v", want.Dec(), acc.Earned.Dec())
		}
	}
	return nil
}

func abbrev(addr core.Address) string {
	s := addr.String()
	return s[:6] + "…" + s[len(s)-4:]
}
