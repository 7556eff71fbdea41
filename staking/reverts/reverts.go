// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kinds of rejected operations.
var (
	ErrZeroAmount                = errors.New("zero amount")
	ErrInsufficientBalance       = errors.New("insufficient balance")
	ErrScheduling                = errors.New("scheduling error")
	ErrInsufficientRewardBalance = errors.New("insufficient reward balance")
	ErrTransferFailed            = errors.New("transfer failed")
	ErrUnauthorized              = errors.New("unauthorized")
	ErrOverflow                  = errors.New("overflow")
)

// ErrRevert is a rejected operation. Nothing it touched gets committed.
type ErrRevert struct {
	kind    error
	message string
}

func New(kind error, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func Newf(kind error, format string, args ...any) *ErrRevert {
	return New(kind, fmt.Sprintf(format, args...))
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Unwrap() error {
	return e.kind
}

// Kind returns the kind sentinel of the revert.
func (e *ErrRevert) Kind() error {
	return e.kind
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of a revert error, or nil if err is not a revert.
func KindOf(err error) error {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return nil
}

// Arithmetic turns a checked arithmetic failure into an overflow revert.
func Arithmetic(err error) error {
	if err == nil {
		return nil
	}
	return New(ErrOverflow, err.Error())
}
