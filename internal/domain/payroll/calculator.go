package payroll

import (
	"github.com/shopspring/decimal"
)

// BarberPeriod is the aggregate a statement is computed from.
type BarberPeriod struct {
	BarberID       uint
	BarberName     string
	BaseSalary     decimal.Decimal
	TotalGenerated decimal.Decimal
	Advances       decimal.Decimal
}

type Statement struct {
	BarberID       uint            `json:"barber_id"`
	BarberName     string          `json:"barber_name"`
	BaseSalary     decimal.Decimal `json:"base_salary"`
	TotalGenerated decimal.Decimal `json:"total_generated"`
	Payment        decimal.Decimal `json:"payment"`
	Advances       decimal.Decimal `json:"advances"`
	NetPayment     decimal.Decimal `json:"net_payment"`
}

// Calculate is pure: same input, same statements, in input order.
func Calculate(p Policy, periods []BarberPeriod) []Statement {
	out := make([]Statement, 0, len(periods))
	for _, bp := range periods {
		payment := p.Payment(bp.BaseSalary, bp.TotalGenerated)

		net := payment.Sub(bp.Advances)
		if net.IsNegative() {
			net = decimal.Zero
		}

		out = append(out, Statement{
			BarberID:       bp.BarberID,
			BarberName:     bp.BarberName,
			BaseSalary:     bp.BaseSalary,
			TotalGenerated: bp.TotalGenerated.Round(2),
			Payment:        payment,
			Advances:       bp.Advances.Round(2),
			NetPayment:     net.Round(2),
		})
	}
	return out
}

// Totals sums the money columns of a period's statements.
func Totals(statements []Statement) (generated, payments, net decimal.Decimal) {
	for _, s := range statements {
		generated = generated.Add(s.TotalGenerated)
		payments = payments.Add(s.Payment)
		net = net.Add(s.NetPayment)
	}
	return generated, payments, net
}
