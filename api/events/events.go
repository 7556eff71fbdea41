// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/logdb"
)

type Events struct {
	db    *logdb.LogDB
	limit uint64
}

func New(db *logdb.LogDB, logsLimit uint64) *Events {
	return &Events{
		db,
		logsLimit,
	}
}

func parseUint(query map[string][]string, name string) (*uint64, error) {
	values := query[name]
	if len(values) == 0 || values[0] == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(values[0], 0, 64)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, name))
	}
	return &v, nil
}

func (e *Events) parseFilter(req *http.Request) (*logdb.EventFilter, error) {
	query := req.URL.Query()
	filter := &logdb.EventFilter{
		Kind:  query.Get("kind"),
		Order: logdb.ASC,
	}

	if s := query.Get("account"); s != "" {
		addr, err := core.ParseAddress(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "account"))
		}
		filter.Account = &addr
	}

	switch order := query.Get("order"); order {
	case "", string(logdb.ASC):
	case string(logdb.DESC):
		filter.Order = logdb.DESC
	default:
		return nil, utils.BadRequest(fmt.Errorf("order: unsupported %q", order))
	}

	from, err := parseUint(query, "from")
	if err != nil {
		return nil, err
	}
	to, err := parseUint(query, "to")
	if err != nil {
		return nil, err
	}
	if from != nil || to != nil {
		filter.Range = &logdb.Range{}
		if from != nil {
			filter.Range.From = *from
		}
		if to != nil {
			if *to < filter.Range.From {
				return nil, utils.BadRequest(errors.New("to: less than from"))
			}
			filter.Range.To = *to
		} else if filter.Range.From > 0 {
			// unbounded
			filter.Range.To = filter.Range.From - 1
		} else {
			filter.Range = nil
		}
	}

	offset, err := parseUint(query, "offset")
	if err != nil {
		return nil, err
	}
	limit, err := parseUint(query, "limit")
	if err != nil {
		return nil, err
	}
	filter.Options = &logdb.Options{Limit: e.limit}
	if offset != nil {
		filter.Options.Offset = *offset
	}
	if limit != nil {
		if *limit > e.limit {
			return nil, utils.Forbidden(fmt.Errorf("limit: exceeds maximum of %d", e.limit))
		}
		filter.Options.Limit = *limit
	}
	return filter, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	filter, err := e.parseFilter(req)
	if err != nil {
		return err
	}
	events, err := e.db.FilterEvents(req.Context(), filter)
	if err != nil {
		return err
	}
	result := make([]*utils.Event, 0, len(events))
	for _, ev := range events {
		result = append(result, utils.ConvertEvent(ev))
	}
	return utils.WriteJSON(w, result)
}

func (e *Events) handleCount(w http.ResponseWriter, req *http.Request) error {
	filter, err := e.parseFilter(req)
	if err != nil {
		return err
	}
	n, err := e.db.CountEvents(req.Context(), filter)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"count": n})
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
	sub.Path("/count").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(e.handleCount))
}
