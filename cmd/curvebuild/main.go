// Command curvebuild bootstraps discount and forwarding curves from a JSON
// instrument file and writes the calibrated nodes as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/meenmo/fwdcurve/bootstrap"
	"github.com/meenmo/fwdcurve/cmd/curvebuild/internal/build"
	"github.com/meenmo/fwdcurve/config"
	"github.com/meenmo/fwdcurve/logging"
	"github.com/meenmo/fwdcurve/marketdata"
	"github.com/meenmo/fwdcurve/metrics"
	"github.com/meenmo/fwdcurve/utils"
)

const appName = "curvebuild"

func main() {
	if err := newApp(os.Stdin, os.Stdout).Run(os.Args); err != nil {
		logrus.WithError(err).Error("curvebuild failed")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newApp wires the commands to the given streams.
func newApp(stdin io.Reader, stdout io.Writer) *cli.App {
	var (
		cfg    config.Config
		logOut io.Closer
	)

	inputFlag := &cli.StringFlag{
		Name:    "input",
		Aliases: []string{"i"},
		Usage:   "instrument file (default: stdin)",
	}

	return &cli.App{
		Name:      appName,
		Usage:     "bootstrap yield curves from rate helpers",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: io.Discard,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				EnvVars: []string{config.EnvPrefix + "_CONFIG"},
				Usage:   "YAML config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "overrides logging.level",
			},
			&cli.StringFlag{
				Name:  "driver",
				Usage: "overrides store.driver (postgres or duckdb)",
			},
			&cli.StringFlag{
				Name:  "dsn",
				Usage: "overrides store.dsn; empty disables the market data store",
			},
		},
		Before: func(cctx *cli.Context) error {
			var err error
			if cfg, err = config.Load(cctx.String("config")); err != nil {
				return err
			}
			if cctx.IsSet("log-level") {
				cfg.Logging.Level = cctx.String("log-level")
			}
			if cctx.IsSet("driver") {
				cfg.Store.Driver = cctx.String("driver")
			}
			if cctx.IsSet("dsn") {
				cfg.Store.DSN = cctx.String("dsn")
			}
			config.SetConfig(cfg)
			logOut, err = logging.Setup(cfg.Logging, appName)
			return err
		},
		After: func(*cli.Context) error {
			if logOut == nil {
				return nil
			}
			return logOut.Close()
		},
		Commands: []*cli.Command{
			{
				Name:  "bootstrap",
				Usage: "calibrate every curve in the instrument file",
				Flags: []cli.Flag{
					inputFlag,
					&cli.StringFlag{
						Name:  "metrics-out",
						Usage: "write run metrics in Prometheus text format to this file",
					},
				},
				Action: func(cctx *cli.Context) error {
					return runBootstrap(cctx, cfg)
				},
			},
			{
				Name:  "pillars",
				Usage: "print helper dates without calibrating",
				Flags: []cli.Flag{inputFlag},
				Action: func(cctx *cli.Context) error {
					plan, closeStore, err := newPlan(cctx, cfg)
					if err != nil {
						return err
					}
					defer closeStore()
					return writeJSON(cctx.App.Writer, plan.Pillars())
				},
			},
			{
				Name:  "quotes",
				Usage: "print the stored quotes of a curve date as decimals",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "date",
						Aliases:  []string{"d"},
						Usage:    "curve date (YYYY-MM-DD)",
						Required: true,
					},
				},
				Action: func(cctx *cli.Context) error {
					return runQuotes(cctx, cfg)
				},
			},
			{
				Name:  "migrate",
				Usage: "create the market data tables",
				Action: func(cctx *cli.Context) error {
					store, err := openStore(cctx, cfg)
					if err != nil {
						return err
					}
					defer store.Close()
					return store.Migrate(cctx.Context)
				},
			},
			{
				Name:      "load",
				Usage:     "store quotes and fixings from a JSON file",
				ArgsUsage: "[file]",
				Action: func(cctx *cli.Context) error {
					return runLoad(cctx, cfg)
				},
			},
		},
	}
}

func runBootstrap(cctx *cli.Context, cfg config.Config) error {
	plan, closeStore, err := newPlan(cctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	solver := cfg.Solver
	out, err := plan.Run(cctx.Context, bootstrap.Options{
		Solver:  &solver,
		Metrics: metrics.New(reg),
		Logger:  logrus.StandardLogger(),
	})
	if path := cctx.String("metrics-out"); path != "" {
		if werr := prometheus.WriteToTextfile(path, reg); werr != nil && err == nil {
			err = fmt.Errorf("write metrics: %w", werr)
		}
	}
	if err != nil {
		return err
	}
	return writeJSON(cctx.App.Writer, out)
}

// newPlan reads the instrument file and builds the plan, backed by the
// market data store when one is configured.
func newPlan(cctx *cli.Context, cfg config.Config) (*build.Plan, func(), error) {
	in, err := readInput(cctx)
	if err != nil {
		return nil, nil, err
	}
	var opts build.Options
	closeStore := func() {}
	if cfg.Store.DSN != "" {
		store, err := openStore(cctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		opts = build.Options{Quotes: store, Fixings: store}
		closeStore = func() { store.Close() }
	}
	plan, err := build.NewPlan(cctx.Context, in, opts)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return plan, closeStore, nil
}

func runQuotes(cctx *cli.Context, cfg config.Config) error {
	curveDate, err := utils.ParseDate(cctx.String("date"))
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	store, err := openStore(cctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	quotes, err := store.Quotes(cctx.Context, curveDate)
	if err != nil {
		return err
	}
	return writeJSON(cctx.App.Writer, quotes)
}

func readInput(cctx *cli.Context) (build.Input, error) {
	path := cctx.String("input")
	if path == "" {
		return build.ReadInput(cctx.App.Reader)
	}
	f, err := os.Open(path)
	if err != nil {
		return build.Input{}, err
	}
	defer f.Close()
	return build.ReadInput(f)
}

func openStore(cctx *cli.Context, cfg config.Config) (*marketdata.SQLStore, error) {
	if cfg.Store.DSN == "" {
		return nil, fmt.Errorf("no market data store configured (set --dsn or store.dsn)")
	}
	return marketdata.Open(cctx.Context, cfg.Store.Driver, cfg.Store.DSN)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
