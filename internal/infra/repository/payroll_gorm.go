package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-pos/internal/domain/payroll"
	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/models"
)

type PayrollGormRepository struct {
	db *gorm.DB
}

func NewPayrollGormRepository(db *gorm.DB) *PayrollGormRepository {
	return &PayrollGormRepository{db: db}
}

const barberPeriodsSQL = `
SELECT
    b.id   AS barber_id,
    b.name AS barber_name,
    b.base_salary,
    COALESCE((
        SELECT SUM(s.total_amount) FROM sales s
        WHERE s.barber_id = b.id AND s.sale_date >= @from AND s.sale_date < @to
    ), 0) AS total_generated,
    COALESCE((
        SELECT SUM(a.amount) FROM barber_advances a
        WHERE a.barber_id = b.id AND a.advance_date >= @from AND a.advance_date < @to
    ), 0) AS advances
FROM barbers b
ORDER BY b.name ASC, b.id ASC`

func (r *PayrollGormRepository) BarberPeriods(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]domain.BarberPeriod, error) {

	var rows []domain.BarberPeriod
	err := r.db.WithContext(ctx).
		Raw(barberPeriodsSQL, map[string]any{"from": from, "to": to}).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	return rows, nil
}

func (r *PayrollGormRepository) CreateAdvance(
	ctx context.Context,
	a *models.BarberAdvance,
) error {

	err := r.db.WithContext(ctx).Create(a).Error
	if IsForeignKeyViolation(err) {
		return httperr.NotFound("barber_not_found", "barber not found")
	}
	return translate(err, nil)
}

func (r *PayrollGormRepository) ListAdvances(
	ctx context.Context,
	barberID uint,
	from *time.Time,
	to *time.Time,
) ([]models.BarberAdvance, error) {

	q := r.db.WithContext(ctx).Where("barber_id = ?", barberID)
	if from != nil {
		q = q.Where("advance_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("advance_date < ?", *to)
	}

	var list []models.BarberAdvance
	if err := q.Order("advance_date DESC, id DESC").Find(&list).Error; err != nil {
		return nil, translate(err, nil)
	}
	return list, nil
}

// Compile-time check
var _ domain.Repository = (*PayrollGormRepository)(nil)
