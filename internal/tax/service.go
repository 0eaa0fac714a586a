package tax

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"fiducia/internal/audit"
	"fiducia/internal/rates"
	"fiducia/pkg/domain"
)

// Service runs tax estimates against the loaded rate tables.
type Service struct {
	registry *rates.Registry
	logger   *slog.Logger
	recorder *audit.Recorder
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithRecorder attaches an audit recorder.
func WithRecorder(r *audit.Recorder) ServiceOption {
	return func(s *Service) { s.recorder = r }
}

// NewService constructs a tax service.
func NewService(registry *rates.Registry, logger *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{registry: registry, logger: logger}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// UKEstimateInput carries the amounts for a full UK personal tax estimate.
type UKEstimateInput struct {
	Income       decimal.Decimal
	Dividends    decimal.Decimal
	CapitalGains decimal.Decimal
}

// UKEstimate aggregates the individual UK calculators into one picture.
type UKEstimate struct {
	TaxYear domain.TaxYear `json:"tax_year"`

	IncomeTax *UKIncomeTaxResult `json:"income_tax"`
	NI        *NIResult          `json:"national_insurance"`
	Dividend  *DividendTaxResult `json:"dividend_tax"`
	CGT       *CGTResult         `json:"capital_gains_tax"`

	TotalDue decimal.Decimal `json:"total_due"`
}

// EstimateUK computes income tax, National Insurance, dividend tax and CGT
// for one tax year. Dividends and gains stack on taxable non-dividend income.
func (s *Service) EstimateUK(ctx context.Context, year domain.TaxYear, in UKEstimateInput) (*UKEstimate, error) {
	table, err := s.registry.UK(year)
	if err != nil {
		return nil, err
	}

	incomeTax, err := UKIncomeTax(in.Income, table)
	if err != nil {
		return nil, err
	}
	ni, err := UKNationalInsurance(in.Income, table)
	if err != nil {
		return nil, err
	}
	dividend, err := UKDividendTax(in.Dividends, incomeTax.TaxableIncome, table)
	if err != nil {
		return nil, err
	}
	cgt, err := UKCapitalGains(in.CapitalGains, incomeTax.TaxableIncome, table)
	if err != nil {
		return nil, err
	}

	est := &UKEstimate{
		TaxYear:   year,
		IncomeTax: incomeTax,
		NI:        ni,
		Dividend:  dividend,
		CGT:       cgt,
		TotalDue:  incomeTax.TaxDue.Add(ni.Due).Add(dividend.TaxDue).Add(cgt.TaxDue),
	}
	s.record(ctx, audit.KindUKTaxEstimate, year, fmt.Sprintf("total due %s", est.TotalDue), est)
	return est, nil
}

// SAEstimate is one SA income tax estimate.
type SAEstimate struct {
	TaxYear domain.TaxYear     `json:"tax_year"`
	Result  *SAIncomeTaxResult `json:"income_tax"`
}

// EstimateSA computes SA income tax for one year of assessment.
func (s *Service) EstimateSA(ctx context.Context, year domain.TaxYear, taxableIncome decimal.Decimal, age int) (*SAEstimate, error) {
	table, err := s.registry.SA(year)
	if err != nil {
		return nil, err
	}
	res, err := SAIncomeTax(taxableIncome, age, table)
	if err != nil {
		return nil, err
	}

	est := &SAEstimate{TaxYear: year, Result: res}
	s.record(ctx, audit.KindSATaxEstimate, year, fmt.Sprintf("tax due %s", res.TaxDue), est)
	return est, nil
}

func (s *Service) record(ctx context.Context, kind audit.Kind, year domain.TaxYear, summary string, payload any) {
	event, err := audit.NewEvent(kind, domain.UserID{}, year, summary, payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to build audit event", "kind", kind, "error", err)
		return
	}
	s.recorder.Record(ctx, event)
}
