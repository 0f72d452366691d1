package session

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/edp1096/toy-tonestack/pkg/series"
	"github.com/edp1096/toy-tonestack/pkg/sweep"
	"github.com/edp1096/toy-tonestack/pkg/transfer"
)

var ErrNoSource = errors.New("no response source")

// solver is implemented by sources that can fail mid-sweep, such as MNA
// netlists.
type solver interface {
	Err() error
	Reset()
}

// Session owns one sweep: its axis, the magnitude and phase tables and the
// response feeding them. All methods are safe for concurrent use.
type Session struct {
	mu     sync.Mutex
	cfg    sweep.Config
	axis   []float64
	mag    *series.Table
	phase  *series.Table
	source transfer.Response
	extent transfer.Extent
	logger *zap.Logger
}

func New(cfg sweep.Config, source transfer.Response, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Session{source: source, logger: logger}
	if err := s.setSweep(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) setSweep(cfg sweep.Config) error {
	axis, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("building axis: %w", err)
	}

	s.cfg = cfg
	s.axis = axis
	s.mag = series.NewAmplitude(axis)
	s.phase = series.NewPhase(axis)
	s.extent = transfer.Extent{}

	s.logger.Debug("sweep configured",
		zap.Float64("deviation", cfg.Deviation),
		zap.Float64("start", cfg.StartFreq),
		zap.Float64("stop", cfg.StopFreq),
		zap.String("mode", string(cfg.Mode)),
		zap.Int("points", len(axis)))
	return nil
}

// SetSweep rebuilds the axis and both tables. Snapshots are dropped since
// they belong to the old axis. On error the session is unchanged.
func (s *Session) SetSweep(cfg sweep.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setSweep(cfg)
}

// SetSource swaps the response. Tables and snapshots are kept.
func (s *Session) SetSource(source transfer.Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = source
}

// Recompute overwrites the live column of both tables.
func (s *Session) Recompute() (transfer.Extent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recompute()
}

func (s *Session) recompute() (transfer.Extent, error) {
	if s.source == nil {
		return transfer.Extent{}, ErrNoSource
	}

	sv, ok := s.source.(solver)
	if ok {
		sv.Reset()
	}

	ext := transfer.RunResponse(s.source, s.axis, s.mag.Live(), s.mag, s.phase)
	s.extent = ext

	if ok && sv.Err() != nil {
		s.logger.Warn("response source failed during sweep", zap.Error(sv.Err()))
		return ext, fmt.Errorf("recompute: %w", sv.Err())
	}

	s.logger.Debug("recomputed",
		zap.Int("series", s.mag.Series),
		zap.Float64("dbMin", ext.DBMin),
		zap.Float64("dbMax", ext.DBMax),
		zap.Float64("degMin", ext.DegMin),
		zap.Float64("degMax", ext.DegMax))
	return ext, nil
}

// AddSeries freezes the current curves as snapshots and recomputes into a
// new live column.
func (s *Session) AddSeries() (transfer.Extent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mag.AddSeries()
	s.phase.AddSeries()
	return s.recompute()
}

// ClearSnapshots drops every snapshot and recomputes the live curve.
func (s *Session) ClearSnapshots() (transfer.Extent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mag.ClearSnapshots()
	s.phase.ClearSnapshots()
	return s.recompute()
}

func (s *Session) Magnitude() series.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mag.Snapshot()
}

func (s *Session) Phase() series.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase.Snapshot()
}

// Extent is the range of the last recompute.
func (s *Session) Extent() transfer.Extent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.extent
}

func (s *Session) Axis() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]float64(nil), s.axis...)
}

func (s *Session) Config() sweep.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}
