// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/api"
	"github.com/vechain/stakepool/clock"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/metrics"
	"github.com/vechain/stakepool/pool"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "stakepool",
		Usage:     "Staking reward pool service",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiLogsLimitFlag,
			enableAPILogsFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			ntpServerFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:      "replay",
				Usage:     "run a YAML scenario against an in-memory pool",
				ArgsUsage: "<scenario.yaml>",
				Flags: []cli.Flag{
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: replayAction,
			},
			{
				Name:      "export",
				Usage:     "export the pool store to a snapshot file",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					dataDirFlag,
					genesisFlag,
					cacheFlag,
					verbosityFlag,
				},
				Action: exportAction,
			},
			{
				Name:      "import",
				Usage:     "import a snapshot file into the pool store",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					dataDirFlag,
					genesisFlag,
					cacheFlag,
					verbosityFlag,
				},
				Action: importAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	started := time.Now()
	exitCtx := handleExitSignal()

	defer func() { log.Info("exited") }()

	if _, err := initLogger(ctx); err != nil {
		return err
	}
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gen, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	id, err := gen.ID()
	if err != nil {
		return err
	}
	instanceDir, err := makeInstanceDir(ctx, id)
	if err != nil {
		return err
	}

	mainDB, err := openMainDB(ctx, instanceDir)
	if err != nil {
		return err
	}
	defer func() { log.Info("closing main database..."); mainDB.Close() }()

	logDB, err := openLogDB(instanceDir)
	if err != nil {
		return err
	}
	defer func() { log.Info("closing log database..."); logDB.Close() }()

	p := pool.New(mainDB, logDB, clock.NewSystem(), pool.Options{
		CacheSize: stateCacheEntries(ctx),
	})
	defer func() { log.Info("closing pool..."); p.Close() }()

	if _, err := p.Initialize(gen); err != nil {
		return err
	}

	handler, closeSubs := api.New(p, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		LogsLimit:       ctx.Uint64(apiLogsLimitFlag.Name),
	})
	defer closeSubs()

	apiListener, apiURL, err := listen(ctx.String(apiAddrFlag.Name))
	if err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(exitCtx)
	group.Go(func() error {
		return serve(groupCtx, newAPIServer(handler), apiListener)
	})

	metricsURL := "Disabled"
	if ctx.Bool(enableMetricsFlag.Name) {
		metricsListener, url, err := listen(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			apiListener.Close()
			return err
		}
		metricsURL = url + "/metrics"
		group.Go(func() error {
			return serve(groupCtx, newMetricsServer(), metricsListener)
		})
	}

	if server := strings.TrimSpace(ctx.String(ntpServerFlag.Name)); server != "" {
		group.Go(func() error {
			return watchClockDrift(groupCtx, server, time.Hour)
		})
	}

	printStartupMessage(gen, id, instanceDir, apiURL, metricsURL, started)

	return group.Wait()
}
