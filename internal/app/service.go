// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/natal/internal/adapters/geocode"
	"github.com/okian/natal/internal/adapters/idempotency"
	"github.com/okian/natal/internal/adapters/repository"
	"github.com/okian/natal/internal/domain/astro"
	"github.com/okian/natal/internal/domain/brief"
	"github.com/okian/natal/internal/domain/chart"
	"github.com/okian/natal/internal/domain/model"
	"github.com/okian/natal/internal/domain/scoring"
	"github.com/okian/natal/internal/domain/vocation"
	"github.com/okian/natal/pkg/logger"
	"github.com/okian/natal/pkg/metrics"
)

// Geocoder resolves a free-text place name.
type Geocoder interface {
	Search(ctx context.Context, q string) (geocode.Place, error)
}

// Service implements the API dependencies for the chart service.
type Service struct {
	mu sync.RWMutex

	// Core components
	eph      chart.Ephemeris
	calc     *chart.Calculator
	store    repository.Store
	keeper   idempotency.Keeper
	geocoder Geocoder

	// Configuration
	houseSystem     astro.HouseSystem
	batchWorkers    int
	maxBatchSize    int
	idempotencySize int
	topRoles        int
	topTags         int
	statsInterval   time.Duration

	// State
	started     bool
	ownStore    bool
	storeClosed bool
	stopCh      chan struct{}
	wg      sync.WaitGroup

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the snapshot store. The service closes it on Stop, after
// which it can no longer be started.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithKeeper sets the Idempotency-Key tracker.
func WithKeeper(k idempotency.Keeper) Option {
	return func(s *Service) {
		if k != nil {
			s.keeper = k
		}
	}
}

// WithGeocoder enables place lookups.
func WithGeocoder(g Geocoder) Option {
	return func(s *Service) {
		if g != nil {
			s.geocoder = g
		}
	}
}

// WithHouseSystem selects the house system used for every chart.
func WithHouseSystem(system astro.HouseSystem) Option {
	return func(s *Service) {
		if system.Valid() {
			s.houseSystem = system
		}
	}
}

// WithBatchWorkers bounds how many charts of one batch are computed at once.
func WithBatchWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchWorkers = n
		}
	}
}

// WithMaxBatchSize sets the largest accepted batch.
func WithMaxBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBatchSize = n
		}
	}
}

// WithIdempotencySize sets the size of the default keeper.
func WithIdempotencySize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.idempotencySize = n
		}
	}
}

// WithTopRoles sets how many roles a profile highlights.
func WithTopRoles(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topRoles = n
		}
	}
}

// WithTopTags sets how many tags a profile highlights.
func WithTopTags(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topTags = n
		}
	}
}

// WithStatsInterval sets how often system metrics are refreshed.
func WithStatsInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.statsInterval = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service computing charts through eph.
func New(eph chart.Ephemeris, opts ...Option) *Service {
	s := &Service{
		eph:             eph,
		houseSystem:     astro.Koch,
		batchWorkers:    runtime.NumCPU(),
		maxBatchSize:    50,
		idempotencySize: 10_000,
		topRoles:        5,
		topTags:         6,
		statsInterval:   15 * time.Second,
		stopCh:          make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.storeClosed {
		return ErrStoreClosed
	}

	s.logger.Info(ctx, "starting chart service...")

	s.calc = chart.NewCalculator(s.eph, chart.WithHouseSystem(s.houseSystem))
	if s.store == nil {
		s.store = repository.NewMemoryStore(ctx)
		s.ownStore = true
		s.logger.Info(ctx, "using in-memory snapshot store")
	}
	if s.keeper == nil {
		k, err := idempotency.NewLRUKeeper(idempotency.WithMaxSize(s.idempotencySize))
		if err != nil {
			return fmt.Errorf("idempotency keeper: %w", err)
		}
		s.keeper = k
	}

	s.stopCh = make(chan struct{})
	s.wg.Add(1)
	go s.statsLoop()

	s.started = true
	s.logger.Info(ctx, "chart service started",
		logger.String("houseSystem", string(s.houseSystem)),
		logger.Int("batchWorkers", s.batchWorkers),
		logger.Int("maxBatchSize", s.maxBatchSize),
		logger.Bool("geocoder", s.geocoder != nil),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping chart service...")

	close(s.stopCh)
	s.wg.Wait()

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing snapshot store", logger.Error(err))
		}
		if s.ownStore {
			s.store = nil
			s.ownStore = false
		} else {
			s.storeClosed = true
		}
	}

	s.started = false
	s.logger.Info(context.Background(), "chart service stopped")
}

func (s *Service) statsLoop() {
	defer s.wg.Done()
	t := time.NewTicker(s.statsInterval)
	defer t.Stop()

	for {
		updateSystemMetrics()
		select {
		case <-s.stopCh:
			return
		case <-t.C:
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}

// ready returns the components a request needs, or ErrNotStarted.
func (s *Service) ready() (*chart.Calculator, repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.calc, s.store, nil
}

// ComputeChart computes the chart for in, derives the profile, career
// domains and narrative brief, and stores the result as a new snapshot.
func (s *Service) ComputeChart(ctx context.Context, in astro.BirthInput) (model.Snapshot, error) {
	calc, store, err := s.ready()
	if err != nil {
		return model.Snapshot{}, err
	}

	start := time.Now()
	ch, err := calc.Compute(ctx, in)
	if err != nil {
		var ee *chart.EphemerisError
		if errors.As(err, &ee) {
			metrics.RecordEphemerisError()
			metrics.RecordErrorByComponent("ephemeris", ee.Op)
			s.logger.Error(ctx, "ephemeris failure", logger.String("op", ee.Op), logger.Error(err))
		}
		return model.Snapshot{}, err
	}
	metrics.RecordChartComputed()
	metrics.RecordChartLatency(float64(time.Since(start).Microseconds()) / 1000)
	for _, w := range ch.Warnings {
		metrics.RecordEphemerisWarning(string(w.Code))
		s.logger.Warn(ctx, "chart degraded",
			logger.String("code", string(w.Code)),
			logger.String("body", string(w.Body)),
			logger.String("detail", w.Message),
		)
	}

	snap := s.assemble(ch)
	if err := store.Save(ctx, snap); err != nil {
		s.logger.Error(ctx, "failed to store snapshot", logger.String("id", snap.ID), logger.Error(err))
		return model.Snapshot{}, fmt.Errorf("save snapshot: %w", err)
	}
	if n, err := store.Count(ctx); err == nil {
		metrics.UpdateSnapshotsStored(n)
	}

	s.logger.Debug(ctx, "chart computed",
		logger.String("id", snap.ID),
		logger.Duration("elapsed", time.Since(start)),
		logger.Bool("degraded", ch.Degraded()),
	)
	return snap, nil
}

func (s *Service) assemble(ch *chart.Chart) model.Snapshot {
	profile := s.profile(ch.Placements)
	voc := vocation.Infer(ch.Placements)
	b := brief.Build(ch, &profile)

	snap := model.NewSnapshot(ch)
	snap.Profile = &profile
	snap.Vocation = &voc
	snap.Brief = &b
	return snap
}

func (s *Service) profileOptions() []scoring.Option {
	return []scoring.Option{scoring.WithTopRoles(s.topRoles), scoring.WithTopTags(s.topTags)}
}

func (s *Service) profile(placements []astro.Placement) scoring.Profile {
	p := scoring.ComputeProfile(placements, s.profileOptions()...)
	recordProfile(p)
	return p
}

func recordProfile(p scoring.Profile) {
	metrics.RecordProfileComputed()
	for _, pf := range p.Pitfalls {
		metrics.RecordPitfall(string(pf.Key))
	}
}

// ComputeChartOnce is ComputeChart guarded by an Idempotency-Key. A key
// that already produced a snapshot replays it; replayed reports that case.
// An empty key disables the guard.
func (s *Service) ComputeChartOnce(ctx context.Context, key, fingerprint string, in astro.BirthInput) (snap model.Snapshot, replayed bool, err error) {
	if key == "" {
		snap, err = s.ComputeChart(ctx, in)
		return snap, false, err
	}
	s.mu.RLock()
	keeper, started := s.keeper, s.started
	s.mu.RUnlock()
	if !started {
		return model.Snapshot{}, false, ErrNotStarted
	}

	entry, state := keeper.Reserve(ctx, key, fingerprint)
	switch state {
	case idempotency.Replay:
		metrics.RecordIdempotencyHit()
		snap, err = s.GetChart(ctx, entry.SnapshotID)
		return snap, err == nil, err
	case idempotency.InFlight:
		return model.Snapshot{}, false, ErrRequestInFlight
	case idempotency.Mismatch:
		return model.Snapshot{}, false, ErrKeyReused
	}

	snap, err = s.ComputeChart(ctx, in)
	if err != nil {
		keeper.Release(ctx, key)
		return model.Snapshot{}, false, err
	}
	keeper.Complete(ctx, key, snap.ID)
	return snap, false, nil
}

// GetChart returns the stored snapshot with the given ID.
func (s *Service) GetChart(ctx context.Context, id string) (model.Snapshot, error) {
	_, store, err := s.ready()
	if err != nil {
		return model.Snapshot{}, err
	}
	return store.Get(ctx, id)
}

// ComputeProfile scores placements directly. When trace is set the
// intermediate bucket values are returned too.
func (s *Service) ComputeProfile(ctx context.Context, placements []astro.Placement, trace bool) (scoring.Profile, *scoring.Trace) {
	if !trace {
		return s.profile(placements), nil
	}
	p, t := scoring.ComputeProfileWithTrace(placements, s.profileOptions()...)
	recordProfile(p)
	s.logger.Debug(ctx, "profile traced", logger.Int("placements", len(placements)))
	return p, &t
}

// BatchItem is the outcome of one batch entry.
type BatchItem struct {
	Index    int
	Snapshot model.Snapshot
	Err      error
}

// ComputeBatch runs ComputeChart for every input with bounded concurrency.
// Items come back in input order and fail independently.
func (s *Service) ComputeBatch(ctx context.Context, inputs []astro.BirthInput) ([]BatchItem, error) {
	if _, _, err := s.ready(); err != nil {
		return nil, err
	}
	switch {
	case len(inputs) == 0:
		return nil, ErrEmptyBatch
	case len(inputs) > s.maxBatchSize:
		return nil, fmt.Errorf("%w: %d inputs, limit %d", ErrBatchTooLarge, len(inputs), s.maxBatchSize)
	}
	metrics.RecordBatchSize(len(inputs))

	items := make([]BatchItem, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchWorkers)
	for i, in := range inputs {
		g.Go(func() error {
			snap, err := s.ComputeChart(gctx, in)
			items[i] = BatchItem{Index: i, Snapshot: snap, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Geocode resolves q through the configured geocoder.
func (s *Service) Geocode(ctx context.Context, q string) (geocode.Place, error) {
	if s.geocoder == nil {
		return geocode.Place{}, ErrGeocoderDisabled
	}
	return s.geocoder.Search(ctx, q)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":      s.started,
		"houseSystem":  string(s.houseSystem),
		"batchWorkers": s.batchWorkers,
		"maxBatchSize": s.maxBatchSize,
		"geocoder":     s.geocoder != nil,
	}
	if m, ok := s.eph.(interface{ Mode() string }); ok {
		stats["ephemerisMode"] = m.Mode()
	}
	if b, ok := s.geocoder.(interface{ State() string }); ok {
		stats["geocoderBreaker"] = b.State()
	}

	if s.started {
		if n, err := s.store.Count(ctx); err == nil {
			stats["snapshots"] = n
			metrics.UpdateSnapshotsStored(n)
		} else {
			stats["snapshotsError"] = err.Error()
		}
		stats["idempotencyKeys"] = s.keeper.Size()
	}

	return stats
}
