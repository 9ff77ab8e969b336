package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/fwdcurve/cmd/curvebuild/internal/build"
)

const euribor = `{
  "curve_date": "2025-01-15",
  "curves": [{
    "name": "EUR6M",
    "instruments": [
      {"id": "EUR6M_DEPO", "type": "deposit", "quote": "2.60", "index": "EURIBOR6M"},
      {"id": "EUR6M_FRA", "type": "fra", "quote": "2.55", "index": "EURIBOR6M", "months_to_start": 6},
      {"id": "EUR6M_5Y", "type": "swap", "quote": "2.50", "swap_index": "EURSwapIsdaFixA", "tenor": "5Y"}
    ]
  }]
}`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp(strings.NewReader(stdin), &out)
	err := app.Run(append([]string{appName, "--log-level", "panic"}, args...))
	return out.String(), err
}

func TestBootstrapCommand(t *testing.T) {
	metricsPath := filepath.Join(t.TempDir(), "curvebuild.prom")
	stdout, err := run(t, euribor, "bootstrap", "--metrics-out", metricsPath)
	require.NoError(t, err)

	var out build.Output
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out.Curves, 1)
	c := out.Curves[0]
	assert.Equal(t, "EUR6M", c.Name)
	require.Len(t, c.Nodes, 3)
	for _, inst := range c.Instruments {
		assert.InDelta(t, 0, inst.Error, 1e-9, inst.ID)
	}
	assert.Nil(t, c.Instruments[0].NPV)
	require.NotNil(t, c.Instruments[2].NPV)
	assert.InDelta(t, 0, *c.Instruments[2].NPV, 1e-9)

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `fwdcurve_bootstrap_runs_total{curve="EUR6M",outcome="ok"} 1`)
}

func TestPillarsCommandReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instruments.json")
	require.NoError(t, os.WriteFile(path, []byte(euribor), 0o644))

	stdout, err := run(t, "", "pillars", "--input", path)
	require.NoError(t, err)

	var pillars []build.PillarOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &pillars))
	require.Len(t, pillars, 3)
	assert.Equal(t, "2025-07-17", pillars[0].Pillar)
	assert.Equal(t, "fra", pillars[1].Type)
	assert.Equal(t, "2025-07-17", pillars[1].Earliest)
}

func TestLoadThenBootstrapFromStore(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "market.duckdb")
	store := []string{"--driver", "duckdb", "--dsn", dsn}

	_, err := run(t, `{
	  "curve_date": "2025-01-15",
	  "quotes": [
	    {"instrument": "EUR3M_DEPO", "value": "2.50", "unit": "percent"},
	    {"instrument": "EUR3M_FRA", "value": "260", "unit": "bp"}
	  ],
	  "fixings": [{"index": "EURIBOR3M", "date": "2025-01-14", "value": "2.71", "unit": "percent"}]
	}`, append(store, "load")...)
	require.NoError(t, err)

	stdout, err := run(t, `{
	  "curve_date": "2025-01-15",
	  "curves": [{"name": "EUR3M", "instruments": [
	    {"id": "EUR3M_DEPO", "type": "deposit", "index": "EURIBOR3M"},
	    {"id": "EUR3M_FRA", "type": "fra", "index": "EURIBOR3M", "months_to_start": 3}
	  ]}]
	}`, append(store, "bootstrap")...)
	require.NoError(t, err)

	var out build.Output
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	insts := out.Curves[0].Instruments
	require.Len(t, insts, 2)
	assert.InDelta(t, 0.025, insts[0].Quote, 1e-15)
	assert.InDelta(t, 0.026, insts[1].Quote, 1e-15)

	stdout, err = run(t, "", append(store, "quotes", "--date", "2025-01-15")...)
	require.NoError(t, err)
	var quotes map[string]float64
	require.NoError(t, json.Unmarshal([]byte(stdout), &quotes))
	assert.Len(t, quotes, 2)
	assert.InDelta(t, 0.026, quotes["EUR3M_FRA"], 1e-15)

	stdout, err = run(t, "", append(store, "quotes", "--date", "2025-01-16")...)
	require.NoError(t, err)
	assert.JSONEq(t, "{}", stdout)
}

func TestCommandErrors(t *testing.T) {
	_, err := run(t, "", "bootstrap")
	require.Error(t, err)

	_, err = run(t, `{"curve_date": "2025-01-15", "curves": [{"name": "A", "instruments": [{"type": "swap", "quote": "2", "tenor": "5Y"}]}]}`, "bootstrap")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fixed frequency")

	_, err = run(t, "", "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no market data store")

	_, err = run(t, "", "--dsn", "unused", "quotes", "--date", "15/01/2025")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date")
}
