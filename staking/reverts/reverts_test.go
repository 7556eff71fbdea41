// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Reverts(t *testing.T) {
	revert := New(ErrZeroAmount, "Cannot stake 0")
	assert.Equal(t, "Cannot stake 0", revert.Error())
	assert.Equal(t, ErrZeroAmount, revert.Kind())

	assert.True(t, IsRevertErr(revert))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))
}

func Test_RevertsKind(t *testing.T) {
	revert := Newf(ErrScheduling, "duration %d", 5)
	assert.Equal(t, "duration 5", revert.Error())
	assert.True(t, errors.Is(revert, ErrScheduling))
	assert.False(t, errors.Is(revert, ErrZeroAmount))

	wrapped := pkgerrors.WithMessage(revert, "notify")
	assert.True(t, IsRevertErr(wrapped))
	assert.Equal(t, ErrScheduling, KindOf(wrapped))
	assert.Nil(t, KindOf(errors.New("plain")))
}
