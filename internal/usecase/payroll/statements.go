package payroll

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/barber-pos/internal/domain/payroll"
)

// SettingsSource supplies runtime overrides for the commission policy.
type SettingsSource interface {
	Values(ctx context.Context) (map[string]string, error)
}

type Totals struct {
	TotalGenerated decimal.Decimal `json:"total_generated"`
	TotalPayments  decimal.Decimal `json:"total_payments"`
	TotalNet       decimal.Decimal `json:"total_net_payment"`
}

type PolicyView struct {
	Variant   domain.Variant  `json:"variant"`
	Rate      decimal.Decimal `json:"rate"`
	FixedBase decimal.Decimal `json:"fixed_base"`
	Threshold decimal.Decimal `json:"threshold"`
}

type Report struct {
	StartDate  string             `json:"start_date"`
	EndDate    string             `json:"end_date"`
	Policy     PolicyView         `json:"policy"`
	Statements []domain.Statement `json:"barbers"`
	Totals     Totals             `json:"totals"`
}

// ======================================================
// USE CASE
// ======================================================

type ComputePayroll struct {
	repo     domain.Repository
	settings SettingsSource
	policy   domain.Policy
}

func NewComputePayroll(
	repo domain.Repository,
	settings SettingsSource,
	policy domain.Policy,
) *ComputePayroll {
	return &ComputePayroll{
		repo:     repo,
		settings: settings,
		policy:   policy,
	}
}

// EffectivePolicy is the configured policy with valid settings applied.
func (uc *ComputePayroll) EffectivePolicy(ctx context.Context) domain.Policy {
	values, err := uc.settings.Values(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("settings unavailable, using configured commission policy")
		return uc.policy
	}

	p, skipped := uc.policy.WithOverrides(values)
	if len(skipped) > 0 {
		log.Warn().Strs("settings", skipped).Msg("ignoring invalid commission settings")
	}
	if err := p.Validate(); err != nil {
		log.Warn().Err(err).Msg("commission settings rejected, using configured policy")
		return uc.policy
	}
	return p
}

// Execute computes one statement per barber for [from, to). The dates in
// the report are the inclusive calendar days.
func (uc *ComputePayroll) Execute(ctx context.Context, from, to time.Time) (*Report, error) {
	periods, err := uc.repo.BarberPeriods(ctx, from, to)
	if err != nil {
		return nil, err
	}

	p := uc.EffectivePolicy(ctx)
	statements := domain.Calculate(p, periods)
	generated, payments, net := domain.Totals(statements)

	return &Report{
		StartDate: from.Format("2006-01-02"),
		EndDate:   to.AddDate(0, 0, -1).Format("2006-01-02"),
		Policy: PolicyView{
			Variant:   p.Variant,
			Rate:      p.Rate,
			FixedBase: p.FixedBase,
			Threshold: p.Threshold,
		},
		Statements: statements,
		Totals: Totals{
			TotalGenerated: generated,
			TotalPayments:  payments,
			TotalNet:       net,
		},
	}, nil
}
