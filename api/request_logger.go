// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/pborman/uuid"

	"github.com/vechain/stakepool/log"
)

// bodies longer than this are cut in the request log
const maxLoggedBody = 1024

// RequestLoggerHandler logs every request once it is served. Each response
// carries the generated request id in the x-request-id header.
func RequestLoggerHandler(handler http.Handler, logger log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			var err error
			if body, err = io.ReadAll(r.Body); err != nil {
				logger.Warn("unexpected body read error", "err", err)
				http.Error(w, "unable to read body", http.StatusBadRequest)
				return
			}
			// handlers downstream read the body again
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		reqID := uuid.New()
		w.Header().Set("x-request-id", reqID)

		start := time.Now()
		rec := newStatusRecorder(w)
		handler.ServeHTTP(rec, r)

		if len(body) > maxLoggedBody {
			body = append(body[:maxLoggedBody:maxLoggedBody], "..."...)
		}
		logger.Info("API Request",
			"id", reqID,
			"method", r.Method,
			"uri", r.URL.String(),
			"status", rec.statusCode,
			"body", string(body),
			"elapsed", time.Since(start),
		)
	})
}
