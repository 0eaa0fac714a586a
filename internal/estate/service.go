package estate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"fiducia/internal/audit"
	estatemetrics "fiducia/internal/estate/metrics"
	"fiducia/internal/rates"
	"fiducia/pkg/domain"
	"fiducia/pkg/requestcontext"
)

// Service runs estate calculations against the loaded rate tables.
type Service struct {
	registry *rates.Registry
	logger   *slog.Logger
	recorder *audit.Recorder
	metrics  *estatemetrics.Metrics
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithRecorder attaches an audit recorder.
func WithRecorder(r *audit.Recorder) ServiceOption {
	return func(s *Service) { s.recorder = r }
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *estatemetrics.Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// NewService constructs an estate service.
func NewService(registry *rates.Registry, logger *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{registry: registry, logger: logger}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// IHTRequest carries an estate and an optional lifetime-gift history for a
// combined inheritance tax calculation.
type IHTRequest struct {
	Assets              []Asset
	Liabilities         []Liability
	RNRBEligible        bool
	TransferableBandPct decimal.Decimal

	// Gifts, when present, are analyzed as at DeathDate and their chargeable
	// total consumes the nil-rate band before the estate itself.
	Gifts     []Gift
	DeathDate time.Time
}

// IHTCalculation is the combined estate and gift picture for one tax year.
type IHTCalculation struct {
	TaxYear domain.TaxYear `json:"tax_year"`
	Gifts   *GiftAnalysis  `json:"gift_analysis,omitempty"`
	Result  *IHTResult     `json:"result"`
}

// CalculateIHT values the estate, folds in any lifetime gifts and computes
// the inheritance tax due. An empty DeathDate defaults to the request time.
func (s *Service) CalculateIHT(ctx context.Context, year domain.TaxYear, req IHTRequest) (*IHTCalculation, error) {
	start := time.Now()
	table, err := s.registry.UK(year)
	if err != nil {
		return nil, err
	}

	in := IHTInput{
		Assets:              req.Assets,
		Liabilities:         req.Liabilities,
		RNRBEligible:        req.RNRBEligible,
		TransferableBandPct: req.TransferableBandPct,
	}

	calc := &IHTCalculation{TaxYear: year}
	if len(req.Gifts) > 0 {
		deathDate := req.DeathDate
		if deathDate.IsZero() {
			deathDate = requestcontext.Now(ctx)
		}
		analysis, err := AnalyzeGifts(req.Gifts, deathDate, table.IHT)
		if err != nil {
			return nil, err
		}
		calc.Gifts = analysis
		in.ChargeableGifts = analysis.TotalChargeable
	}

	result, err := CalculateIHT(in, table.IHT)
	if err != nil {
		return nil, err
	}
	calc.Result = result

	s.metrics.ObserveCalculation("iht", time.Since(start))
	s.record(ctx, audit.KindIHTCalculation, year, fmt.Sprintf("tax due %s", result.TaxDue), calc)
	return calc, nil
}

// GiftReport is one lifetime-gift analysis for a tax year.
type GiftReport struct {
	TaxYear   domain.TaxYear `json:"tax_year"`
	DeathDate time.Time      `json:"death_date"`
	*GiftAnalysis
}

// AnalyzeGifts classifies lifetime gifts against exemptions and the seven
// year window. An empty deathDate defaults to the request time.
func (s *Service) AnalyzeGifts(ctx context.Context, year domain.TaxYear, gifts []Gift, deathDate time.Time) (*GiftReport, error) {
	start := time.Now()
	table, err := s.registry.UK(year)
	if err != nil {
		return nil, err
	}
	if deathDate.IsZero() {
		deathDate = requestcontext.Now(ctx)
	}

	analysis, err := AnalyzeGifts(gifts, deathDate, table.IHT)
	if err != nil {
		return nil, err
	}

	report := &GiftReport{TaxYear: year, DeathDate: deathDate, GiftAnalysis: analysis}
	s.metrics.ObserveCalculation("gift_analysis", time.Since(start))
	s.record(ctx, audit.KindGiftAnalysis, year, fmt.Sprintf("chargeable %s, tax due %s", analysis.TotalChargeable, analysis.TotalTaxDue), report)
	return report, nil
}

// SADutyCalculation is one SA estate duty calculation for a year of assessment.
type SADutyCalculation struct {
	TaxYear domain.TaxYear `json:"tax_year"`
	Result  *SADutyResult  `json:"result"`
}

// CalculateSADuty computes SA estate duty on the net estate.
func (s *Service) CalculateSADuty(ctx context.Context, year domain.TaxYear, assets []Asset, liabilities []Liability) (*SADutyCalculation, error) {
	start := time.Now()
	table, err := s.registry.SA(year)
	if err != nil {
		return nil, err
	}

	result, err := CalculateSADuty(assets, liabilities, table.EstateDuty)
	if err != nil {
		return nil, err
	}

	calc := &SADutyCalculation{TaxYear: year, Result: result}
	s.metrics.ObserveCalculation("sa_duty", time.Since(start))
	s.record(ctx, audit.KindSADutyCalculation, year, fmt.Sprintf("duty due %s", result.DutyDue), calc)
	return calc, nil
}

func (s *Service) record(ctx context.Context, kind audit.Kind, year domain.TaxYear, summary string, payload any) {
	event, err := audit.NewEvent(kind, domain.UserID{}, year, summary, payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to build audit event", "kind", kind, "error", err)
		return
	}
	s.recorder.Record(ctx, event)
}
