// Command csindexd serves the Context & Index Store over HTTP: it loads a
// TOML config (optionally overridden by flags, the layering
// standardbeagle-lci's cmd/lci demonstrates with loadConfigWithOverrides),
// builds a store.Context, and hands it to httpapi.Server.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/gopherindex/csindex/httpapi"
	"github.com/gopherindex/csindex/store"
)

func main() {
	app := &cli.App{
		Name:  "csindexd",
		Usage: "serve the trigram index store over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to a TOML config file"},
			&cli.StringFlag{Name: "store-dir", Usage: "directory holding index files"},
			&cli.StringFlag{Name: "addr", Usage: "HTTP bind address"},
			&cli.StringFlag{Name: "indexer", Usage: "path to the indexer binary"},
			&cli.StringFlag{Name: "searcher", Usage: "path to the searcher binary"},
			&cli.IntFlag{Name: "max-results", Usage: "default max search results"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}
	applyFlagOverrides(&cfg, c)

	if cfg.StoreDir == "" {
		dir, err := store.DefaultStoreDir()
		if err != nil {
			return err
		}
		cfg.StoreDir = dir
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	storeCtx, err := store.New(cfg.StoreDir, nil, cfg.IndexerPath, cfg.SearcherPath)
	if err != nil {
		return err
	}
	storeCtx.Logger = logger

	srv := httpapi.New(storeCtx, cfg.BindAddr, cfg.DefaultMaxResults, logger)
	return srv.ListenAndServe()
}

func applyFlagOverrides(cfg *Config, c *cli.Context) {
	if v := c.String("store-dir"); v != "" {
		cfg.StoreDir = v
	}
	if v := c.String("addr"); v != "" {
		cfg.BindAddr = v
	}
	if v := c.String("indexer"); v != "" {
		cfg.IndexerPath = v
	}
	if v := c.String("searcher"); v != "" {
		cfg.SearcherPath = v
	}
	if v := c.Int("max-results"); v != 0 {
		cfg.DefaultMaxResults = v
	}
}
