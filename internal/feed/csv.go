package feed

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alanyoungcy/scalpbot/internal/domain"
)

// csvTimeLayout is the timestamp format used in bar CSV files.
const csvTimeLayout = "2006-01-02 15:04:05"

var csvHeader = []string{"timestamp", "open", "high", "low", "close", "volume", "vwap"}

// LoadCSV reads an OHLCV series from a CSV file with the header
// timestamp,open,high,low,close,volume[,vwap] and validates bar ordering and
// OHLC invariants before returning.
func LoadCSV(path, symbol, timeframe string) (*domain.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("feed: open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("feed: read csv %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("feed: csv %s has no data rows: %w", path, domain.ErrInsufficientData)
	}
	if len(rows[0]) < 6 {
		return nil, fmt.Errorf("feed: csv %s: expected at least 6 columns, got %d", path, len(rows[0]))
	}

	series := &domain.Series{Symbol: symbol, Timeframe: timeframe, Bars: make([]domain.Bar, 0, len(rows)-1)}
	for i, row := range rows[1:] {
		bar, err := parseBarRow(row)
		if err != nil {
			return nil, fmt.Errorf("feed: csv %s row %d: %w", path, i+2, err)
		}
		series.Bars = append(series.Bars, bar)
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("feed: csv %s: %w", path, err)
	}
	return series, nil
}

func parseBarRow(row []string) (domain.Bar, error) {
	if len(row) < 6 {
		return domain.Bar{}, fmt.Errorf("expected at least 6 fields, got %d", len(row))
	}
	ts, err := time.Parse(csvTimeLayout, row[0])
	if err != nil {
		return domain.Bar{}, fmt.Errorf("timestamp: %w", err)
	}

	vals := make([]float64, 4)
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(row[i+1], 64)
		if err != nil {
			return domain.Bar{}, fmt.Errorf("column %s: %w", csvHeader[i+1], err)
		}
		vals[i] = v
	}
	volume, err := strconv.ParseInt(row[5], 10, 64)
	if err != nil {
		return domain.Bar{}, fmt.Errorf("volume: %w", err)
	}

	bar := domain.Bar{
		Timestamp: ts,
		Open:      vals[0],
		High:      vals[1],
		Low:       vals[2],
		Close:     vals[3],
		Volume:    volume,
	}
	if len(row) > 6 && row[6] != "" {
		vwap, err := strconv.ParseFloat(row[6], 64)
		if err != nil {
			return domain.Bar{}, fmt.Errorf("vwap: %w", err)
		}
		bar.VWAP = vwap
	}
	return bar, nil
}

// SaveCSV writes a series to path in the same format LoadCSV reads.
func SaveCSV(path string, series *domain.Series) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("feed: create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("feed: write csv header: %w", err)
	}
	for _, b := range series.Bars {
		row := []string{
			b.Timestamp.Format(csvTimeLayout),
			strconv.FormatFloat(b.Open, 'f', 2, 64),
			strconv.FormatFloat(b.High, 'f', 2, 64),
			strconv.FormatFloat(b.Low, 'f', 2, 64),
			strconv.FormatFloat(b.Close, 'f', 2, 64),
			strconv.FormatInt(b.Volume, 10),
			strconv.FormatFloat(b.VWAP, 'f', 2, 64),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("feed: write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("feed: flush csv: %w", err)
	}
	return nil
}
