package stream

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/rotblauer/catdrift/common"
)

// TickMeter counts units (lines, samples) and a secondary quantity (bytes,
// anomalies) and logs their totals and rates every interval until stopped.
type TickMeter struct {
	name     string
	unit     string
	extra    string
	interval time.Duration
	started  time.Time
	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once

	mu    sync.Mutex
	label string // any value, eg the series last seen

	reg        metrics.Registry
	countMeter metrics.Meter
	extraMeter metrics.Meter
}

// NewTickMeter starts a meter logging as name, counting unit and extra.
func NewTickMeter(name, unit, extra string, interval time.Duration) *TickMeter {
	// Enable metrics package.
	// Won't work without this global setting.
	metrics.Enabled = true

	reg := metrics.NewRegistry()
	m := &TickMeter{
		name:       name,
		unit:       unit,
		extra:      extra,
		interval:   interval,
		started:    time.Now(),
		done:       make(chan struct{}),
		reg:        reg,
		countMeter: metrics.NewMeter(),
		extraMeter: metrics.NewMeter(),
	}
	if err := reg.Register(unit+".meter", m.countMeter); err != nil {
		panic(err)
	}
	if err := reg.Register(extra+".meter", m.extraMeter); err != nil {
		panic(err)
	}
	m.ticker = time.NewTicker(interval)
	go m.run()
	return m
}

// Mark records n units and x of the extra quantity, labelled.
func (m *TickMeter) Mark(label string, n, x int64) {
	m.mu.Lock()
	m.label = label
	m.mu.Unlock()
	m.countMeter.Mark(n)
	m.extraMeter.Mark(x)
}

// Count is the number of units marked so far.
func (m *TickMeter) Count() int64 {
	return m.countMeter.Snapshot().Count()
}

// Extra is the total extra quantity marked so far.
func (m *TickMeter) Extra() int64 {
	return m.extraMeter.Snapshot().Count()
}

func (m *TickMeter) Running() time.Duration {
	return time.Since(m.started)
}

func (m *TickMeter) run() {
	for {
		select {
		case <-m.done:
			return
		case <-m.ticker.C:
			m.log()
		}
	}
}

func (m *TickMeter) log() {
	countSnap := m.countMeter.Snapshot()
	extraSnap := m.extraMeter.Snapshot()

	m.mu.Lock()
	label := m.label
	m.mu.Unlock()

	slog.Info(m.name, m.unit, humanize.Comma(countSnap.Count()),
		m.extra, humanize.Comma(extraSnap.Count()),
		"last", label,
		"rate", common.DecimalToFixed(countSnap.Rate1(), 0),
		"running", m.Running().Round(time.Second))
}

// Stop stops the ticker and logs a final line. It is safe to call more than once.
func (m *TickMeter) Stop() {
	if m == nil {
		return
	}
	m.stopOnce.Do(func() {
		m.ticker.Stop()
		close(m.done)
		m.log()
		m.countMeter.Stop()
		m.extraMeter.Stop()
	})
}
