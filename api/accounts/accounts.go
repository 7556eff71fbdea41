// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/pool"
)

// Account for marshal account.
type Account struct {
	Now           uint64                `json:"now"`
	BalanceOf     *math.HexOrDecimal256 `json:"balanceOf"`
	Earned        *math.HexOrDecimal256 `json:"earned"`
	StakingTokens *math.HexOrDecimal256 `json:"stakingTokens"`
	RewardTokens  *math.HexOrDecimal256 `json:"rewardTokens"`
}

// AmountBody is the body of stake and withdraw.
type AmountBody struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type Accounts struct {
	pool *pool.Pool
}

func New(p *pool.Pool) *Accounts {
	return &Accounts{p}
}

func parseAddress(req *http.Request) (core.Address, error) {
	addr, err := core.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return core.Address{}, utils.BadRequest(errors.WithMessage(err, "address"))
	}
	return addr, nil
}

func parseAmountBody(req *http.Request) (*AmountBody, error) {
	var body AmountBody
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return &body, nil
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	acc, err := a.pool.Account(addr)
	if err != nil {
		return utils.PoolError(err)
	}
	return utils.WriteJSON(w, &Account{
		Now:           acc.Now,
		BalanceOf:     utils.Amount(acc.Staked),
		Earned:        utils.Amount(acc.Earned),
		StakingTokens: utils.Amount(acc.StakingTokens),
		RewardTokens:  utils.Amount(acc.RewardTokens),
	})
}

func (a *Accounts) handleStake(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	body, err := parseAmountBody(req)
	if err != nil {
		return err
	}
	amount, err := utils.ParseAmount(body.Amount)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "amount"))
	}
	receipt, err := a.pool.Stake(req.Context(), addr, amount)
	if err != nil {
		return utils.PoolError(err)
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (a *Accounts) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	body, err := parseAmountBody(req)
	if err != nil {
		return err
	}
	amount, err := utils.ParseAmount(body.Amount)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "amount"))
	}
	receipt, err := a.pool.Withdraw(req.Context(), addr, amount)
	if err != nil {
		return utils.PoolError(err)
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (a *Accounts) handleGetReward(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	receipt, err := a.pool.GetReward(req.Context(), addr)
	if err != nil {
		return utils.PoolError(err)
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (a *Accounts) handleExit(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	receipt, err := a.pool.Exit(req.Context(), addr)
	if err != nil {
		return utils.PoolError(err)
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/stake").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(a.handleStake))
	sub.Path("/{address}/withdraw").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(a.handleWithdraw))
	sub.Path("/{address}/reward").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(a.handleGetReward))
	sub.Path("/{address}/exit").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(a.handleExit))
}
