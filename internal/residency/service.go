package residency

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fiducia/internal/audit"
	"fiducia/internal/rates"
	"fiducia/internal/residency/metrics"
	"fiducia/pkg/domain"
)

// Service runs residency determinations against the loaded rate tables and
// records every verdict to the audit trail.
type Service struct {
	registry *rates.Registry
	logger   *slog.Logger
	recorder *audit.Recorder
	metrics  *metrics.Metrics
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithRecorder attaches an audit recorder.
func WithRecorder(r *audit.Recorder) ServiceOption {
	return func(s *Service) { s.recorder = r }
}

// WithMetrics attaches module metrics.
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// NewService constructs a residency service.
func NewService(registry *rates.Registry, logger *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{registry: registry, logger: logger}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// EvaluateUK runs the Statutory Residence Test for the given tax year.
func (s *Service) EvaluateUK(ctx context.Context, year domain.TaxYear, in SRTInput) (*Result, error) {
	start := time.Now()

	table, err := s.registry.UK(year)
	if err != nil {
		return nil, err
	}
	res, err := EvaluateSRT(in, table.SRT)
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementVerdict(string(domain.JurisdictionUK), string(res.Verdict))
	s.metrics.ObserveEvaluateLatency(time.Since(start))
	s.record(ctx, audit.KindSRTEvaluation, year, res)
	return res, nil
}

// EvaluateSA runs the physical presence test for the given year of assessment.
func (s *Service) EvaluateSA(ctx context.Context, year domain.TaxYear, in SAPresenceInput) (*Result, error) {
	start := time.Now()

	table, err := s.registry.SA(year)
	if err != nil {
		return nil, err
	}
	res, err := EvaluateSAPresence(in, table.Presence)
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementVerdict(string(domain.JurisdictionSA), string(res.Verdict))
	s.metrics.ObserveEvaluateLatency(time.Since(start))
	s.record(ctx, audit.KindSAPresence, year, res)
	return res, nil
}

func (s *Service) record(ctx context.Context, kind audit.Kind, year domain.TaxYear, res *Result) {
	summary := fmt.Sprintf("%s via %s", res.Verdict, res.DeterminingTest)
	event, err := audit.NewEvent(kind, domain.UserID{}, year, summary, res)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to build audit event", "kind", kind, "error", err)
		return
	}
	s.recorder.Record(ctx, event)
}
