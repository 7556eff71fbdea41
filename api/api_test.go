// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/api"
	"github.com/vechain/stakepool/api/accounts"
	"github.com/vechain/stakepool/api/poolinfo"
	"github.com/vechain/stakepool/api/tokens"
	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/clock"
	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/logdb"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/pool"
)

var (
	owner = genesis.DevOwner
	alice = genesis.DevAccounts()[0]
)

type testServer struct {
	*httptest.Server
	clock *clock.Manual
	pool  *pool.Pool
}

func newTestServer(t *testing.T) *testServer {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	logDB, err := logdb.NewMem()
	require.NoError(t, err)

	clk := clock.NewManual(1000)
	p := pool.New(db, logDB, clk, pool.Options{CacheSize: 64})
	_, err = p.Initialize(genesis.Dev())
	require.NoError(t, err)

	handler, closeSubs := api.New(p, api.Options{
		AllowedOrigins:  "*",
		EnableReqLogger: true,
		EnableMetrics:   true,
		LogsLimit:       100,
	})
	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		ts.Close()
		closeSubs()
		p.Close()
		logDB.Close()
		db.Close()
	})
	return &testServer{ts, clk, p}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) (int, []byte) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, data
}

func (ts *testServer) post(t *testing.T, path string, body any) *utils.Receipt {
	code, data := ts.do(t, http.MethodPost, path, body)
	require.Equal(t, http.StatusOK, code, string(data))
	var receipt utils.Receipt
	require.NoError(t, json.Unmarshal(data, &receipt))
	return &receipt
}

func TestPoolLifecycle(t *testing.T) {
	ts := newTestServer(t)

	ts.post(t, "/tokens/"+genesis.DevRewardsToken.String()+"/transfer", utils.M{
		"from": owner, "to": core.PoolAddress, "amount": "700",
	})
	ts.post(t, "/admin/duration", utils.M{"caller": owner, "duration": 70})
	receipt := ts.post(t, "/admin/notify", utils.M{"caller": owner, "amount": "700"})
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, "RewardAdded", receipt.Events[0].Kind)

	ts.post(t, "/tokens/"+genesis.DevStakingToken.String()+"/approve", utils.M{
		"owner": alice, "spender": core.PoolAddress, "amount": "0x64",
	})
	receipt = ts.post(t, "/accounts/"+alice.String()+"/stake", utils.M{"amount": "100"})
	assert.Equal(t, uint64(1000), receipt.Time)

	ts.clock.Advance(7)

	code, data := ts.do(t, http.MethodGet, "/pool", nil)
	require.Equal(t, http.StatusOK, code)
	var info poolinfo.Info
	require.NoError(t, json.Unmarshal(data, &info))
	assert.Equal(t, uint64(1007), info.Now)
	assert.Equal(t, "0x64", info.TotalSupply.String())
	assert.Equal(t, "0xa", info.RewardRate.String())
	assert.Equal(t, uint64(1070), info.PeriodFinish)
	assert.Equal(t, owner, info.Owner)
	assert.Equal(t, ts.pool.GenesisID(), info.GenesisID)

	code, data = ts.do(t, http.MethodGet, "/accounts/"+alice.String(), nil)
	require.Equal(t, http.StatusOK, code)
	var acc accounts.Account
	require.NoError(t, json.Unmarshal(data, &acc))
	assert.Equal(t, "0x46", acc.Earned.String())

	receipt = ts.post(t, "/accounts/"+alice.String()+"/exit", nil)
	require.Len(t, receipt.Events, 2)
	assert.Equal(t, "0x46", receipt.Events[1].Amount.String())

	code, data = ts.do(t, http.MethodGet, "/events?account="+alice.String(), nil)
	require.Equal(t, http.StatusOK, code)
	var events []*utils.Event
	require.NoError(t, json.Unmarshal(data, &events))
	kinds := make([]string, 0, len(events))
	for _, ev := range events {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []string{"Staked", "Withdrawn", "RewardPaid"}, kinds)

	code, data = ts.do(t, http.MethodGet, "/events/count?kind=Staked", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"count":1}`, string(data))
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"bad address", http.MethodGet, "/accounts/0x123", nil, http.StatusBadRequest},
		{"zero stake", http.MethodPost, "/accounts/" + alice.String() + "/stake", utils.M{"amount": "0"}, http.StatusBadRequest},
		{"missing amount", http.MethodPost, "/accounts/" + alice.String() + "/withdraw", utils.M{}, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/accounts/" + alice.String() + "/withdraw", utils.M{"amt": "1"}, http.StatusBadRequest},
		{"withdraw too much", http.MethodPost, "/accounts/" + alice.String() + "/withdraw", utils.M{"amount": "1"}, http.StatusBadRequest},
		{"not owner", http.MethodPost, "/admin/notify", utils.M{"caller": alice, "amount": "1"}, http.StatusForbidden},
		{"duration zero", http.MethodPost, "/admin/duration", utils.M{"caller": owner, "duration": 0}, http.StatusBadRequest},
		{"unknown token", http.MethodGet, "/tokens/" + alice.String() + "/" + alice.String(), nil, http.StatusNotFound},
		{"limit too large", http.MethodGet, "/events?limit=1000", nil, http.StatusForbidden},
		{"bad order", http.MethodGet, "/events?order=up", nil, http.StatusBadRequest},
		{"reversed range", http.MethodGet, "/events?from=10&to=5", nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, data := ts.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, code, string(data))
		})
	}
}

func TestTokenQueries(t *testing.T) {
	ts := newTestServer(t)
	stakingToken := genesis.DevStakingToken.String()

	ts.post(t, "/tokens/"+stakingToken+"/approve", utils.M{
		"owner": alice, "spender": core.PoolAddress, "amount": "5",
	})

	code, data := ts.do(t, http.MethodGet, "/tokens/"+stakingToken+"/"+alice.String()+"/allowance/"+core.PoolAddress.String(), nil)
	require.Equal(t, http.StatusOK, code)
	var allowance tokens.Balance
	require.NoError(t, json.Unmarshal(data, &allowance))
	assert.Equal(t, "0x5", allowance.Amount.String())

	code, data = ts.do(t, http.MethodGet, "/tokens/"+stakingToken+"/"+alice.String(), nil)
	require.Equal(t, http.StatusOK, code)
	var balance tokens.Balance
	require.NoError(t, json.Unmarshal(data, &balance))
	assert.Equal(t, genesis.DevStakingToken, balance.Token)
	assert.Equal(t, "0xd3c21bcecceda1000000", balance.Amount.String())
}

func TestGenesisHeader(t *testing.T) {
	ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/pool")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, ts.pool.GenesisID().String(), res.Header.Get("x-genesis-id"))
	assert.NotEmpty(t, res.Header.Get("x-request-id"))
}

func TestSubscribeEvents(t *testing.T) {
	ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/subscriptions/events?account=" + alice.String()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	ts.post(t, "/tokens/"+genesis.DevStakingToken.String()+"/approve", utils.M{
		"owner": alice, "spender": core.PoolAddress, "amount": "10",
	})
	ts.post(t, "/accounts/"+alice.String()+"/stake", utils.M{"amount": "10"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ev utils.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "Staked", ev.Kind)
	assert.Equal(t, alice, ev.Account)
	assert.Equal(t, "0xa", ev.Amount.String())
	assert.NotZero(t, ev.Seq)
}
