// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/snapshot"
)

func openInstanceDB(ctx *cli.Context) (*lvldb.LevelDB, error) {
	if _, err := initLogger(ctx); err != nil {
		return nil, err
	}
	if ctx.NArg() != 1 {
		return nil, errors.New("snapshot file required")
	}
	gen, err := selectGenesis(ctx)
	if err != nil {
		return nil, err
	}
	id, err := gen.ID()
	if err != nil {
		return nil, err
	}
	instanceDir, err := makeInstanceDir(ctx, id)
	if err != nil {
		return nil, err
	}
	return openMainDB(ctx, instanceDir)
}

// countPairs walks the store once to size the progress bar.
func countPairs(store kv.Store) (int64, error) {
	it := store.Iterate(kv.Range{})
	defer it.Release()

	var n int64
	for it.Next() {
		n++
	}
	return n, it.Error()
}

func exportAction(ctx *cli.Context) error {
	db, err := openInstanceDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	total, err := countPairs(db)
	if err != nil {
		return err
	}

	f, err := os.Create(ctx.Args().First())
	if err != nil {
		return errors.Wrap(err, "create snapshot file")
	}
	defer f.Close()

	fmt.Println(">> Exporting pool store <<")
	bar := pb.New64(total).SetMaxWidth(90).Start()
	n, err := snapshot.Export(db, f, func(n uint64) { bar.Set64(int64(n)) })
	bar.Finish()
	if err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	log.Info("snapshot exported", "pairs", n, "file", f.Name())
	return nil
}

func importAction(ctx *cli.Context) error {
	db, err := openInstanceDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	f, err := os.Open(ctx.Args().First())
	if err != nil {
		return errors.Wrap(err, "open snapshot file")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	fmt.Println(">> Importing pool store <<")
	bar := pb.New64(info.Size()).SetUnits(pb.U_BYTES).SetMaxWidth(90).Start()
	n, err := snapshot.Import(db, bar.NewProxyReader(f), nil)
	bar.Finish()
	if err != nil {
		return err
	}
	log.Info("snapshot imported", "pairs", n)
	return nil
}
