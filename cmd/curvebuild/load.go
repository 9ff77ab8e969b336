package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/meenmo/fwdcurve/config"
	"github.com/meenmo/fwdcurve/quote"
	"github.com/meenmo/fwdcurve/utils"
)

// marketFile is the input of the load command. Values are kept as text so
// they reach the store without float rounding.
type marketFile struct {
	CurveDate string `json:"curve_date"`
	Quotes    []struct {
		Instrument string `json:"instrument"`
		Value      string `json:"value"`
		Unit       string `json:"unit"`
	} `json:"quotes"`
	Fixings []struct {
		Index string `json:"index"`
		Date  string `json:"date"`
		Value string `json:"value"`
		Unit  string `json:"unit"`
	} `json:"fixings"`
}

func runLoad(cctx *cli.Context, cfg config.Config) error {
	var r io.Reader = cctx.App.Reader
	if path := cctx.Args().First(); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	var mf marketFile
	if err := json.NewDecoder(r).Decode(&mf); err != nil {
		return fmt.Errorf("parse market file: %w", err)
	}

	store, err := openStore(cctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Migrate(cctx.Context); err != nil {
		return err
	}

	var errs error
	if len(mf.Quotes) > 0 {
		curveDate, err := utils.ParseDate(mf.CurveDate)
		if err != nil {
			return fmt.Errorf("curve_date: %w", err)
		}
		for _, q := range mf.Quotes {
			errs = multierr.Append(errs, store.PutQuote(cctx.Context, curveDate, q.Instrument, q.Value, quote.Unit(q.Unit)))
		}
	}
	for _, f := range mf.Fixings {
		d, err := utils.ParseDate(f.Date)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("fixing %s: %w", f.Index, err))
			continue
		}
		errs = multierr.Append(errs, store.PutFixing(cctx.Context, f.Index, d, f.Value, quote.Unit(f.Unit)))
	}
	logrus.WithFields(logrus.Fields{
		"quotes":  len(mf.Quotes),
		"fixings": len(mf.Fixings),
		"failed":  len(multierr.Errors(errs)),
	}).Info("market data loaded")
	return errs
}
