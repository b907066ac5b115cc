package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-pos/internal/domain/report"
	"github.com/BruksfildServices01/barber-pos/internal/models"
)

type ReportGormRepository struct {
	db *gorm.DB
}

func NewReportGormRepository(db *gorm.DB) *ReportGormRepository {
	return &ReportGormRepository{db: db}
}

// --------------------------------------------------
// Sales
// --------------------------------------------------

func (r *ReportGormRepository) ComprehensiveSales(
	ctx context.Context,
	f domain.SalesFilter,
) ([]domain.SaleRow, error) {

	q := r.db.WithContext(ctx).
		Table("sales AS s").
		Select(`s.id AS sale_id,
			to_char(s.sale_date, 'YYYY-MM-DD') AS sale_date,
			s.total_amount,
			s.customer_name,
			s.payment_method,
			COALESCE(b.name, '') AS barber_name,
			COALESCE(st.name, '') AS station_name,
			string_agg(si.item_name || ' x' || si.quantity || ' (' || si.price_at_sale::text || ')', ', ' ORDER BY si.id) AS services_sold`).
		Joins("LEFT JOIN barbers b ON b.id = s.barber_id").
		Joins("LEFT JOIN stations st ON st.id = s.station_id").
		Joins("JOIN sale_items si ON si.sale_id = s.id")

	if f.Range != nil {
		q = q.Where("s.sale_date >= ? AND s.sale_date < ?", f.Range.From, f.Range.To)
	}
	if f.BarberID != 0 {
		q = q.Where("s.barber_id = ?", f.BarberID)
	}
	if f.ServiceID != 0 {
		q = q.Where("EXISTS (SELECT 1 FROM sale_items x WHERE x.sale_id = s.id AND x.service_id = ?)", f.ServiceID)
	}
	if f.PaymentMethod != "" {
		q = q.Where("s.payment_method = ?", f.PaymentMethod)
	}

	var rows []domain.SaleRow
	err := q.
		Group("s.id, b.name, st.name").
		Order("s.sale_date DESC, s.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	return rows, nil
}

func (r *ReportGormRepository) TotalsByItemType(
	ctx context.Context,
	rg domain.Range,
) ([]domain.TypeTotal, error) {

	var rows []domain.TypeTotal
	err := r.db.WithContext(ctx).
		Table("sale_items AS si").
		Select("si.item_type AS type, SUM(si.price_at_sale * si.quantity) AS total_sales").
		Joins("JOIN sales s ON s.id = si.sale_id").
		Where("s.sale_date >= ? AND s.sale_date < ?", rg.From, rg.To).
		Group("si.item_type").
		Order("si.item_type ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	return rows, nil
}

func (r *ReportGormRepository) BarberServiceSales(
	ctx context.Context,
	barberID uint,
	rg domain.Range,
) ([]domain.BarberServiceRow, error) {

	q := r.db.WithContext(ctx).
		Table("sale_items AS si").
		Select(`b.id AS barber_id, b.name AS barber_name,
			si.item_name, si.item_type,
			SUM(si.quantity) AS quantity,
			SUM(si.price_at_sale * si.quantity) AS total_sales`).
		Joins("JOIN sales s ON s.id = si.sale_id").
		Joins("JOIN barbers b ON b.id = s.barber_id").
		Where("s.sale_date >= ? AND s.sale_date < ?", rg.From, rg.To)

	if barberID != 0 {
		q = q.Where("b.id = ?", barberID)
	}

	var rows []domain.BarberServiceRow
	err := q.
		Group("b.id, b.name, si.item_name, si.item_type").
		Order("b.name ASC, total_sales DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	return rows, nil
}

// --------------------------------------------------
// Floor usage
// --------------------------------------------------

const stationUsageSQL = `
SELECT
    st.id   AS station_id,
    st.name AS station_name,
    COUNT(r.id) AS reservation_count,
    COUNT(r.id) FILTER (WHERE r.status = 'completed') AS completed_count,
    COALESCE(SUM(EXTRACT(EPOCH FROM (r.end_time - r.start_time)) / 60)
        FILTER (WHERE r.status <> 'cancelled'), 0)::bigint AS booked_minutes,
    COALESCE((
        SELECT SUM(s.total_amount) FROM sales s
        WHERE s.station_id = st.id AND s.sale_date >= @from AND s.sale_date < @to
    ), 0) AS revenue
FROM stations st
LEFT JOIN reservations r
    ON r.station_id = st.id AND r.start_time >= @from AND r.start_time < @to
GROUP BY st.id, st.name
ORDER BY reservation_count DESC, st.name ASC`

func (r *ReportGormRepository) StationUsage(
	ctx context.Context,
	rg domain.Range,
) ([]domain.StationUsage, error) {

	var rows []domain.StationUsage
	err := r.db.WithContext(ctx).
		Raw(stationUsageSQL, map[string]any{"from": rg.From, "to": rg.To}).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	return rows, nil
}

func (r *ReportGormRepository) CustomerFrequency(
	ctx context.Context,
	rg domain.Range,
) ([]domain.CustomerFrequency, error) {

	var rows []domain.CustomerFrequency
	err := r.db.WithContext(ctx).
		Table("sales AS s").
		Select(`s.customer_name,
			COALESCE(MAX(res.client_phone), '') AS customer_phone,
			COUNT(*) AS visits,
			SUM(s.total_amount) AS total_spent,
			to_char(MAX(s.sale_date), 'YYYY-MM-DD') AS last_visit`).
		Joins("LEFT JOIN reservations res ON res.id = s.reservation_id").
		Where("s.sale_date >= ? AND s.sale_date < ?", rg.From, rg.To).
		Where("s.customer_name <> '' AND s.customer_name <> ?", models.DefaultCustomerName).
		Group("s.customer_name").
		Order("visits DESC, total_spent DESC").
		Limit(100).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	return rows, nil
}

func (r *ReportGormRepository) PeakHours(
	ctx context.Context,
	rg domain.Range,
	timezone string,
) ([]domain.PeakHour, error) {

	var rows []domain.PeakHour
	err := r.db.WithContext(ctx).
		Table("reservations AS r").
		Select("EXTRACT(HOUR FROM r.start_time AT TIME ZONE ?)::int AS hour, COUNT(*) AS reservation_count", timezone).
		Where("r.start_time >= ? AND r.start_time < ?", rg.From, rg.To).
		Where("r.status <> ?", "cancelled").
		Group("1").
		Order("1 ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	return rows, nil
}

// --------------------------------------------------
// Inventory
// --------------------------------------------------

func (r *ReportGormRepository) InventorySummary(ctx context.Context) (domain.InventorySummary, error) {
	var out domain.InventorySummary
	err := r.db.WithContext(ctx).
		Model(&models.CatalogItem{}).
		Select(`COUNT(*) AS total_products,
			COUNT(*) FILTER (WHERE stock_quantity <= min_stock_level) AS low_stock_count,
			COALESCE(SUM(stock_quantity * price), 0) AS total_inventory_value`).
		Where("type = ?", models.ItemTypeProduct).
		Scan(&out).Error
	if err != nil {
		return out, translate(err, nil)
	}
	return out, nil
}

// Compile-time check
var _ domain.Repository = (*ReportGormRepository)(nil)
