// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/state"
)

// Builder helper to build the initial pool state.
type Builder struct {
	stateProcs []func(state *state.State) error
}

// State add a state process
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// ComputeID computes the digest of the initial state.
func (b *Builder) ComputeID() (core.Bytes32, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return core.Bytes32{}, err
	}
	defer db.Close()

	stage, err := b.stage(state.NewStater(db, 0))
	if err != nil {
		return core.Bytes32{}, err
	}
	return stage.Hash(), nil
}

// Build runs all state processes and commits the result.
// It returns the digest of the initial state.
func (b *Builder) Build(stater *state.Stater) (core.Bytes32, error) {
	stage, err := b.stage(stater)
	if err != nil {
		return core.Bytes32{}, err
	}
	if err := stage.Commit(); err != nil {
		return core.Bytes32{}, errors.Wrap(err, "commit genesis")
	}
	return stage.Hash(), nil
}

func (b *Builder) stage(stater *state.Stater) (*state.Stage, error) {
	st := stater.NewState()
	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return nil, errors.Wrap(err, "state process")
		}
	}
	return st.Stage(), nil
}
