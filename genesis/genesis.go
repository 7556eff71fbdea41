// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/staking"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/token"
)

// Genesis describes the initial pool.
type Genesis struct {
	Owner           core.Address `yaml:"owner"`
	StakingToken    core.Address `yaml:"stakingToken"`
	RewardsToken    core.Address `yaml:"rewardsToken"`
	RewardsDuration uint64       `yaml:"rewardsDuration"`
	Allocations     []Allocation `yaml:"allocations"`
}

// Allocation mints Amount of Token to Account.
type Allocation struct {
	Token   core.Address           `yaml:"token"`
	Account core.Address           `yaml:"account"`
	Amount  *math.HexOrDecimal256 `yaml:"amount"`
}

// Load reads a YAML genesis file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	return Parse(data)
}

// Parse decodes and validates a YAML genesis.
func Parse(data []byte) (*Genesis, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var gen Genesis
	if err := dec.Decode(&gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return &gen, nil
}

// Validate checks the genesis is usable.
func (g *Genesis) Validate() error {
	if g.Owner.IsZero() {
		return errors.New("owner must be set")
	}
	if g.StakingToken.IsZero() || g.RewardsToken.IsZero() {
		return errors.New("staking and rewards token must be set")
	}
	if g.StakingToken == g.RewardsToken {
		return errors.New("staking token and rewards token must differ")
	}
	if g.StakingToken == core.PoolAddress || g.RewardsToken == core.PoolAddress {
		return errors.New("token address collides with the pool")
	}
	for i, a := range g.Allocations {
		if a.Token != g.StakingToken && a.Token != g.RewardsToken {
			return fmt.Errorf("allocation %d: unknown token %v", i, a.Token)
		}
		if a.Amount == nil || toBig(a.Amount).Sign() <= 0 {
			return fmt.Errorf("allocation %d: amount must be a positive integer", i)
		}
		if _, overflow := uint256.FromBig(toBig(a.Amount)); overflow {
			return fmt.Errorf("allocation %d: amount exceeds 256 bits", i)
		}
	}
	return nil
}

// Builder returns the builder of the initial pool state.
func (g *Genesis) Builder() *Builder {
	return new(Builder).
		State(func(st *state.State) error {
			return staking.New(core.PoolAddress, st).
				Initialize(g.Owner, g.StakingToken, g.RewardsToken, g.RewardsDuration)
		}).
		State(func(st *state.State) error {
			for _, a := range g.Allocations {
				amount, _ := uint256.FromBig(toBig(a.Amount))
				if err := token.New(a.Token, st).Mint(a.Account, amount); err != nil {
					return errors.WithMessagef(err, "mint %v to %v", a.Token, a.Account)
				}
			}
			return nil
		})
}

// ID computes the genesis id, which is the digest of the initial state.
func (g *Genesis) ID() (core.Bytes32, error) {
	return g.Builder().ComputeID()
}

func toBig(v *math.HexOrDecimal256) *big.Int {
	return (*big.Int)(v)
}
