// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/fixed"
)

// Uint256 is a wrapper for storage and retrieval of an uint256. Similar to storing an uint256 in a smart contract.
type Uint256 struct {
	context *Context
	pos     core.Bytes32
}

func NewUint256(context *Context, pos core.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

func (u *Uint256) Get() (*uint256.Int, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes32(storage[:]), nil
}

func (u *Uint256) Set(value *uint256.Int) {
	var storage core.Bytes32
	if value != nil {
		storage = value.Bytes32()
	}
	u.context.state.SetStorage(u.context.address, u.pos, storage)
}

// Add adds value and returns the new total.
func (u *Uint256) Add(value *uint256.Int) (*uint256.Int, error) {
	current, err := u.Get()
	if err != nil {
		return nil, err
	}
	sum, err := fixed.Add(current, value)
	if err != nil {
		return nil, err
	}
	u.Set(sum)
	return sum, nil
}

// Sub subtracts value and returns the new total.
func (u *Uint256) Sub(value *uint256.Int) (*uint256.Int, error) {
	current, err := u.Get()
	if err != nil {
		return nil, err
	}
	diff, err := fixed.Sub(current, value)
	if err != nil {
		return nil, err
	}
	u.Set(diff)
	return diff, nil
}
