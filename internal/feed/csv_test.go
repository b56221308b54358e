package feed

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/scalpbot/internal/domain"
)

func writeCSV(t *testing.T, rows string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, os.WriteFile(path, []byte(rows), 0o644))
	return path
}

func TestCSVRoundTrip(t *testing.T) {
	cfg := testGeneratorConfig()
	want := NewGenerator(cfg).GenerateDays(1)

	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, SaveCSV(path, want))

	got, err := LoadCSV(path, want.Symbol, want.Timeframe)
	require.NoError(t, err)
	require.Equal(t, want.Len(), got.Len())

	// Generator prices already carry two decimals, so the trip is lossless.
	for i := range want.Bars {
		assert.True(t, want.Bars[i].Timestamp.Equal(got.Bars[i].Timestamp), "bar %d timestamp", i)
		assert.Equal(t, want.Bars[i].Open, got.Bars[i].Open, "bar %d open", i)
		assert.Equal(t, want.Bars[i].High, got.Bars[i].High, "bar %d high", i)
		assert.Equal(t, want.Bars[i].Low, got.Bars[i].Low, "bar %d low", i)
		assert.Equal(t, want.Bars[i].Close, got.Bars[i].Close, "bar %d close", i)
		assert.Equal(t, want.Bars[i].Volume, got.Bars[i].Volume, "bar %d volume", i)
		assert.Equal(t, want.Bars[i].VWAP, got.Bars[i].VWAP, "bar %d vwap", i)
	}
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "absent.csv"), "NIFTY", "1m")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadCSVHeaderOnly(t *testing.T) {
	path := writeCSV(t, "timestamp,open,high,low,close,volume,vwap\n")
	_, err := LoadCSV(path, "NIFTY", "1m")
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestLoadCSVBadRow(t *testing.T) {
	path := writeCSV(t, "timestamp,open,high,low,close,volume,vwap\n"+
		"2024-01-05 09:15:00,22000.00,not-a-price,21990.00,22005.00,15000,22000.00\n")
	_, err := LoadCSV(path, "NIFTY", "1m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column high")
}

func TestLoadCSVOutOfOrderRows(t *testing.T) {
	path := writeCSV(t, "timestamp,open,high,low,close,volume,vwap\n"+
		"2024-01-05 09:16:00,22000.00,22010.00,21990.00,22005.00,15000,22001.67\n"+
		"2024-01-05 09:15:00,22005.00,22015.00,21995.00,22010.00,16000,22006.67\n")
	_, err := LoadCSV(path, "NIFTY", "1m")
	assert.ErrorIs(t, err, domain.ErrOutOfOrder)
}

func TestLoadCSVWithoutVWAPColumn(t *testing.T) {
	path := writeCSV(t, "timestamp,open,high,low,close,volume\n"+
		"2024-01-05 09:15:00,22000.00,22010.00,21990.00,22005.00,15000\n")
	series, err := LoadCSV(path, "NIFTY", "1m")
	require.NoError(t, err)
	require.Equal(t, 1, series.Len())
	assert.Zero(t, series.Bars[0].VWAP)
	assert.Equal(t, time.Date(2024, 1, 5, 9, 15, 0, 0, time.UTC), series.Bars[0].Timestamp)
}
