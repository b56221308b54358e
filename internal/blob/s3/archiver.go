package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alanyoungcy/scalpbot/internal/domain"
)

// Archiver uploads serialized backtest results to object storage so runs can
// be compared after the process exits. Deleting superseded results is left to
// bucket lifecycle rules.
type Archiver struct {
	writer domain.BlobWriter
}

// NewArchiver creates an Archiver that writes through the given BlobWriter.
func NewArchiver(writer domain.BlobWriter) *Archiver {
	return &Archiver{writer: writer}
}

// ArchiveResult serializes the result to indented JSON and uploads it to
// results/{symbol}/{finished-at}.json. It returns the object path.
func (a *Archiver) ArchiveResult(ctx context.Context, result domain.BacktestResult) (string, error) {
	buf, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("s3blob: marshal result: %w", err)
	}

	stamp := result.FinishedAt
	if stamp.IsZero() {
		stamp = time.Now().UTC()
	}
	path := fmt.Sprintf("results/%s/%s.json", result.Symbol, stamp.UTC().Format("2006-01-02T15-04-05"))

	if err := a.writer.Put(ctx, path, bytes.NewReader(buf), "application/json"); err != nil {
		return "", fmt.Errorf("s3blob: archive result: %w", err)
	}
	return path, nil
}
