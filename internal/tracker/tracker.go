// Package tracker drives the reconciliation engine: a ticker loop
// that selects active trips, rebuilds each train's output from the
// live feed plus the static schedule, and publishes the result as an
// atomic snapshot. A slower probe pre-fetches statuses for trains not
// yet in their window so cancellations show up ahead of time.
package tracker

import (
	"context"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/livetagus/fertagus-go/internal/memory"
	"github.com/livetagus/fertagus-go/internal/metrics"
	"github.com/livetagus/fertagus-go/internal/models"
	"github.com/livetagus/fertagus-go/internal/schedule"
	"github.com/livetagus/fertagus-go/internal/store"
	"github.com/livetagus/fertagus-go/internal/timeutil"
)

const (
	DefaultUpdateInterval = 30 * time.Second
	DefaultFutureInterval = 15 * time.Minute

	// Pause between upstream requests within one cycle.
	defaultPacing = 100 * time.Millisecond

	// Active window around a trip's scheduled run.
	windowBefore = 45 * time.Minute
	windowAfter  = 120 * time.Minute

	// After a fresh passage the next stop is minutes away, so the
	// trip can sit out a couple of cycles.
	wakeUpHold = 2 * time.Minute

	futureProbeConcurrency = 5

	defaultOperator = "FERTAGUS"
	serviceType     = "URB|SUBUR"

	statusNoData     = "Sem dados"
	statusNoInfo     = "Sem Informação"
	statusTurnaround = "Atraso Previsto (Turnaround)"
)

// Tunables of uncertain provenance, kept overridable rather than
// folded into the logic.
var (
	// FeedLatency compensates the feed's own reporting lag when
	// computing a station's actual delay.
	FeedLatency = 15 * time.Second

	// BridgeCorrection is added to predictions at the two stations
	// flanking the bridge approach on the return direction.
	BridgeCorrection = 90 * time.Second

	bridgeStations = map[string]bool{
		"PRAGAL":      true,
		"CAMPOLIDE-A": true,
	}
)

// DetailsFetcher is the upstream client surface the tracker needs.
type DetailsFetcher interface {
	Details(ctx context.Context, tripID, date string) *models.LiveDetails
}

// Manager owns the mutable engine state. All cycle work runs on a
// single goroutine; the output store swap is the only publication
// point visible to readers.
type Manager struct {
	index   *schedule.Index
	client  DetailsFetcher
	mem     *memory.Store
	out     *store.Store
	metrics *metrics.Collector

	updateInterval time.Duration
	futureInterval time.Duration
	pacing         time.Duration

	probing atomic.Bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

func NewManager(index *schedule.Index, client DetailsFetcher, mem *memory.Store, out *store.Store, collector *metrics.Collector, updateInterval, futureInterval time.Duration) *Manager {
	if updateInterval <= 0 {
		updateInterval = DefaultUpdateInterval
	}
	if futureInterval <= 0 {
		futureInterval = DefaultFutureInterval
	}
	return &Manager{
		index:          index,
		client:         client,
		mem:            mem,
		out:            out,
		metrics:        collector,
		updateInterval: updateInterval,
		futureInterval: futureInterval,
		pacing:         defaultPacing,
		stopCh:         make(chan struct{}),
	}
}

// Start begins the update loop.
func (m *Manager) Start() {
	m.wg.Add(1)
	go m.loop()
}

// Stop shuts the loop down and waits for it.
func (m *Manager) Stop() {
	close(m.stopCh)
	m.wg.Wait()
}

func (m *Manager) loop() {
	defer m.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-m.stopCh
		cancel()
	}()

	m.spawnProbe(ctx)
	m.RunCycle(ctx, time.Now())

	ticker := time.NewTicker(m.updateInterval)
	defer ticker.Stop()
	future := time.NewTicker(m.futureInterval)
	defer future.Stop()

	for {
		select {
		case <-ticker.C:
			m.RunCycle(ctx, time.Now())
		case <-future.C:
			m.spawnProbe(ctx)
		case <-m.stopCh:
			return
		}
	}
}

// spawnProbe runs the future-status probe in the background, tracked
// by the wait group so Stop does not return mid-probe.
func (m *Manager) spawnProbe(ctx context.Context) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.probeFuture(ctx, time.Now())
	}()
}

// candidate pairs a trip with its resolved window for this cycle.
type candidate struct {
	trip       models.Trip
	start, end time.Time
	originDate string
}

// candidates selects the trips to process: those matching today's day
// type and inside their active window, plus anything still held in
// memory so a trip can finish gracefully past its window.
func (m *Manager) candidates(now time.Time) []candidate {
	day := m.index.DayTypeFor(timeutil.OperationalDate(now))

	var out []candidate
	for _, t := range m.index.Arrivals() {
		if !t.RunsOn(day) {
			continue
		}
		startStr, endStr := tripEndpoints(&t)
		start, okS := timeutil.ParseSmart(startStr, now)
		end, okE := timeutil.ParseSmart(endStr, now)
		if !okS || !okE {
			continue
		}
		inWindow := !now.Before(start.Add(-windowBefore)) && !now.After(end.Add(windowAfter))
		if !inWindow && !m.mem.Has(t.ID) {
			continue
		}
		out = append(out, candidate{
			trip:       t,
			start:      start,
			end:        end,
			originDate: timeutil.FormatDate(start),
		})
	}
	return out
}

// RunCycle processes every candidate trip sequentially, with pacing
// between upstream requests, and swaps the finished map into the
// output store.
func (m *Manager) RunCycle(ctx context.Context, now time.Time) {
	started := time.Now()
	day := m.index.DayTypeFor(timeutil.OperationalDate(now))

	cands := m.candidates(now)
	trains := make(map[string]models.TrainOutput, len(cands))
	for i := range cands {
		if ctx.Err() != nil {
			return
		}
		if out := m.buildTrain(ctx, &cands[i], now); out != nil {
			trains[out.ID] = *out
		}
		if m.pacing > 0 {
			time.Sleep(m.pacing)
		}
	}

	m.out.ReplaceTrains(trains, day)

	if m.metrics != nil {
		m.metrics.ActiveTrains.Set(float64(len(trains)))
		m.metrics.CycleDuration.Observe(time.Since(started).Seconds())
	}
	log.Printf("[cycle] %d trains updated", len(trains))
}

// probeFuture fetches a coarse status for every trip not currently
// tracked, five requests at a time, so states like "Suprimido" are
// known before a trip enters its active window.
func (m *Manager) probeFuture(ctx context.Context, now time.Time) {
	if !m.probing.CompareAndSwap(false, true) {
		return
	}
	defer m.probing.Store(false)

	started := time.Now()
	day := m.index.DayTypeFor(timeutil.OperationalDate(now))

	var cands []models.Trip
	for _, t := range m.index.Arrivals() {
		if !t.RunsOn(day) || m.out.Has(t.ID) {
			continue
		}
		cands = append(cands, t)
	}
	log.Printf("[future] probing %d candidate trips", len(cands))

	results := make(map[string]string, len(cands))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(futureProbeConcurrency)
	for _, t := range cands {
		t := t
		g.Go(func() error {
			startStr, _ := tripEndpoints(&t)
			start, ok := timeutil.ParseSmart(startStr, now)
			if !ok {
				return nil
			}
			details := m.client.Details(gctx, t.ID, timeutil.FormatDate(start))
			if details == nil || details.Status == "" {
				return nil
			}
			status := strings.TrimSpace(details.Status)
			if status == "" {
				status = statusNoInfo
			}
			mu.Lock()
			results[t.ID] = status
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	m.out.ReplaceFuture(results)
	if m.metrics != nil {
		m.metrics.FutureStatuses.Set(float64(len(results)))
		m.metrics.FutureProbeDuration.Observe(time.Since(started).Seconds())
	}
	log.Printf("[future] %d statuses collected", len(results))
}

// tripEndpoints returns the scheduled start and end time strings for
// a trip. Short-turn services have no Setúbal time and start or end
// at Coina.
func tripEndpoints(t *models.Trip) (string, string) {
	south := t.Time("setubal")
	if south == "" {
		south = t.Time("coina")
	}
	north := t.Time("roma_areeiro")
	if t.Direction == models.DirectionLisboa {
		return south, north
	}
	return north, south
}
