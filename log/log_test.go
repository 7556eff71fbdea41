// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendInt(t *testing.T) {
	assert.Equal(t, "99999", string(appendUint64(nil, 99999, false)))
	assert.Equal(t, "123,456", string(appendUint64(nil, 123456, false)))
	assert.Equal(t, "-1,000,000", string(appendInt64(nil, -1000000)))
	assert.Equal(t, "-12", string(appendInt64(nil, -12)))
}

func TestTerminalHandler(t *testing.T) {
	var buf bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(slog.LevelInfo)

	l := NewLogger(NewTerminalHandlerWithLevel(&buf, &lvl, false))
	l.Debug("hidden")
	assert.Empty(t, buf.String())

	l.Info("staked", "amount", uint256.NewInt(1000), "account", "a b")
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "INFO ["))
	assert.Contains(t, out, "staked")
	assert.Contains(t, out, "amount=1000")
	assert.Contains(t, out, `account="a b"`)

	buf.Reset()
	l.With("pkg", "pool").Warn("odd", "k")
	assert.Contains(t, buf.String(), "pkg=pool")
	assert.Contains(t, buf.String(), errorKey)
}

func TestJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(LevelTrace)

	l := NewLogger(JSONHandlerWithLevel(&buf, &lvl))
	l.Trace("reward paid", "amount", uint256.NewInt(42))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "trace", rec["lvl"])
	assert.Equal(t, "42", rec["amount"])
	assert.Equal(t, "reward paid", rec["msg"])
}

func TestWithContextFollowsRoot(t *testing.T) {
	pkgLogger := WithContext("pkg", "test")

	old := Root()
	defer SetDefault(old)

	var buf bytes.Buffer
	SetDefault(NewLogger(NewTerminalHandler(&buf, false)))
	pkgLogger.Info("hello", "n", 1)

	assert.Contains(t, buf.String(), "pkg=test")
	assert.Contains(t, buf.String(), "n=1")
}

func TestLevels(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, FromLegacyLevel(LegacyLevelInfo))
	assert.Equal(t, LevelTrace, FromLegacyLevel(9))
	assert.Equal(t, LevelCrit, FromLegacyLevel(-1))
	assert.Equal(t, "warn", LevelString(slog.LevelWarn))
	assert.Equal(t, "ERROR", LevelAlignedString(slog.LevelError))

	lvl, err := ParseLevel("Debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestLogfmtHandler(t *testing.T) {
	var buf bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(slog.LevelWarn)

	l := NewLogger(LogfmtHandlerWithLevel(&buf, &lvl))
	l.Info("dropped")
	assert.Empty(t, buf.String())

	var missing *uint256.Int
	l.Warn("rate changed", "rate", uint256.NewInt(7), "prev", missing)
	out := buf.String()
	assert.Contains(t, out, "lvl=warn")
	assert.Contains(t, out, "rate=7")
	assert.Contains(t, out, "prev=<nil>")
	assert.Contains(t, out, "t=")
}

func TestDiscardHandler(t *testing.T) {
	h := DiscardHandler()
	assert.False(t, h.Enabled(context.Background(), LevelCrit))
	assert.NotPanics(t, func() {
		NewLogger(h.WithGroup("g").WithAttrs(nil)).Error("nothing")
	})
}
