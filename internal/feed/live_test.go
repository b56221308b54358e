package feed

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/scalpbot/internal/domain"
	"github.com/alanyoungcy/scalpbot/internal/strategy"
)

type recordingBus struct {
	published map[string][][]byte
}

func (b *recordingBus) Publish(_ context.Context, channel string, payload []byte) error {
	if b.published == nil {
		b.published = make(map[string][][]byte)
	}
	b.published[channel] = append(b.published[channel], payload)
	return nil
}

func (b *recordingBus) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, nil
}

func newTestSimulator(t *testing.T, bus domain.SignalBus) *Simulator {
	t.Helper()
	scalper, err := strategy.New(strategy.DefaultConfig())
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSimulator(NewGenerator(testGeneratorConfig()), scalper, 60, bus, nil, logger)
}

func TestSimulatorStepBeforeLookback(t *testing.T) {
	sim := newTestSimulator(t, nil)

	bar, sig, err := sim.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.SignalNone, sig.Type)
	assert.Equal(t, bar.Close, sig.Price)
	assert.True(t, sig.Timestamp.Equal(bar.Timestamp))
}

func TestSimulatorPrimeEnablesSignalPass(t *testing.T) {
	sim := newTestSimulator(t, nil)
	sim.Prime(50)

	for i := 0; i < 5; i++ {
		_, _, err := sim.Step(context.Background())
		require.NoError(t, err)
	}
	bars, _ := sim.Snapshot(0)
	assert.Len(t, bars, 55)
}

func TestSimulatorSnapshotLimitsAndCopies(t *testing.T) {
	sim := newTestSimulator(t, nil)
	sim.Prime(10)

	bars, _ := sim.Snapshot(3)
	require.Len(t, bars, 3)

	all, _ := sim.Snapshot(0)
	require.Len(t, all, 10)
	assert.Equal(t, all[7:], bars)

	// Mutating the snapshot must not touch the internal buffer.
	bars[0].Close = -1
	again, _ := sim.Snapshot(3)
	assert.NotEqual(t, bars[0].Close, again[0].Close)
}

func TestSimulatorPublishesBarEvents(t *testing.T) {
	bus := &recordingBus{}
	sim := newTestSimulator(t, bus)
	sim.Prime(30)

	bar, _, err := sim.Step(context.Background())
	require.NoError(t, err)

	require.Len(t, bus.published[ChannelBars], 1)
	var evt BarEvent
	require.NoError(t, json.Unmarshal(bus.published[ChannelBars][0], &evt))
	assert.Equal(t, "NIFTY", evt.Symbol)
	assert.Equal(t, bar.Close, evt.Close)
	assert.Equal(t, bar.Volume, evt.Volume)
}

func TestSimulatorWindowFloorsAtLookback(t *testing.T) {
	scalper, err := strategy.New(strategy.DefaultConfig())
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sim := NewSimulator(NewGenerator(testGeneratorConfig()), scalper, 1, nil, nil, logger)
	assert.Equal(t, scalper.Config().MinBars(), sim.window)
}
