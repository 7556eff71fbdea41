// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package storage provides typed accessors over contract storage slots,
// similar to state variables of a solidity contract.
package storage

import (
	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/state"
)

// Context binds a contract address to the state it reads and writes.
type Context struct {
	address core.Address
	state   *state.State
}

func NewContext(address core.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() core.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

// Slot derives a slot from a human readable name.
func Slot(name string) core.Bytes32 {
	return core.BytesToBytes32([]byte(name))
}
