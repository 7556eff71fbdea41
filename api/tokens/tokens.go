// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/pool"
)

// Balance for marshal a token balance or allowance.
type Balance struct {
	Token  core.Address          `json:"token"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// ApproveBody lets Spender move up to Amount of Owner's tokens.
type ApproveBody struct {
	Owner   core.Address          `json:"owner"`
	Spender core.Address          `json:"spender"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
}

// TransferBody moves Amount from From to To.
type TransferBody struct {
	From   core.Address          `json:"from"`
	To     core.Address          `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type Tokens struct {
	pool *pool.Pool
}

func New(p *pool.Pool) *Tokens {
	return &Tokens{p}
}

func parseAddressVar(req *http.Request, name string) (core.Address, error) {
	addr, err := core.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return core.Address{}, utils.BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

func (t *Tokens) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	token, err := parseAddressVar(req, "token")
	if err != nil {
		return err
	}
	holder, err := parseAddressVar(req, "holder")
	if err != nil {
		return err
	}
	balance, err := t.pool.TokenBalance(token, holder)
	if err != nil {
		return utils.PoolError(err)
	}
	return utils.WriteJSON(w, &Balance{token, utils.Amount(balance)})
}

func (t *Tokens) handleGetAllowance(w http.ResponseWriter, req *http.Request) error {
	token, err := parseAddressVar(req, "token")
	if err != nil {
		return err
	}
	owner, err := parseAddressVar(req, "holder")
	if err != nil {
		return err
	}
	spender, err := parseAddressVar(req, "spender")
	if err != nil {
		return err
	}
	allowance, err := t.pool.Allowance(token, owner, spender)
	if err != nil {
		return utils.PoolError(err)
	}
	return utils.WriteJSON(w, &Balance{token, utils.Amount(allowance)})
}

func (t *Tokens) handleApprove(w http.ResponseWriter, req *http.Request) error {
	token, err := parseAddressVar(req, "token")
	if err != nil {
		return err
	}
	var body ApproveBody
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.ParseAmount(body.Amount)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "amount"))
	}
	receipt, err := t.pool.Approve(req.Context(), token, body.Owner, body.Spender, amount)
	if err != nil {
		return utils.PoolError(err)
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (t *Tokens) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	token, err := parseAddressVar(req, "token")
	if err != nil {
		return err
	}
	var body TransferBody
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.ParseAmount(body.Amount)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "amount"))
	}
	receipt, err := t.pool.Transfer(req.Context(), token, body.From, body.To, amount)
	if err != nil {
		return utils.PoolError(err)
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{token}/approve").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(t.handleApprove))
	sub.Path("/{token}/transfer").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(t.handleTransfer))
	sub.Path("/{token}/{holder}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(t.handleGetBalance))
	sub.Path("/{token}/{holder}/allowance/{spender}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(t.handleGetAllowance))
}
