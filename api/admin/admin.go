// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/pool"
)

// DurationBody sets the duration of the next emission period.
type DurationBody struct {
	Caller   core.Address `json:"caller"`
	Duration uint64       `json:"duration"`
}

// NotifyBody starts an emission period of Amount reward tokens.
type NotifyBody struct {
	Caller core.Address          `json:"caller"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type Admin struct {
	pool *pool.Pool
}

func New(p *pool.Pool) *Admin {
	return &Admin{p}
}

func (a *Admin) handleSetDuration(w http.ResponseWriter, req *http.Request) error {
	var body DurationBody
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, err := a.pool.SetRewardsDuration(req.Context(), body.Caller, body.Duration)
	if err != nil {
		return utils.PoolError(err)
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (a *Admin) handleNotify(w http.ResponseWriter, req *http.Request) error {
	var body NotifyBody
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.ParseAmount(body.Amount)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "amount"))
	}
	receipt, err := a.pool.NotifyRewardAmount(req.Context(), body.Caller, amount)
	if err != nil {
		return utils.PoolError(err)
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (a *Admin) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/duration").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(a.handleSetDuration))
	sub.Path("/notify").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(a.handleNotify))
}
