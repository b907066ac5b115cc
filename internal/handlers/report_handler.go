package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barber-pos/internal/domain/report"
	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/httpresp"
	payrollUC "github.com/BruksfildServices01/barber-pos/internal/usecase/payroll"
	reportUC "github.com/BruksfildServices01/barber-pos/internal/usecase/report"
)

type ReportHandler struct {
	reports *reportUC.Reports
	archive *payrollUC.ArchivePayroll
	loc     *time.Location
}

func NewReportHandler(reports *reportUC.Reports, archive *payrollUC.ArchivePayroll, loc *time.Location) *ReportHandler {
	return &ReportHandler{reports: reports, archive: archive, loc: loc}
}

func (h *ReportHandler) requiredRange(c *gin.Context) (domain.Range, bool) {
	from, to, _, err := dateRange(c, h.loc, true)
	if err != nil {
		httperr.Respond(c, err)
		return domain.Range{}, false
	}
	return domain.Range{From: from, To: to}, true
}

// Monthly answers the calendar view; year and month default to the
// current month in the shop timezone.
func (h *ReportHandler) Monthly(c *gin.Context) {
	now := time.Now().In(h.loc)
	year, month := now.Year(), now.Month()

	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 2000 || y > 9999 {
			httperr.BadRequest(c, "invalid_year", "year must be a four digit number")
			return
		}
		year = y
	}
	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			httperr.BadRequest(c, "invalid_month", "month must be between 1 and 12")
			return
		}
		month = time.Month(m)
	}

	out, err := h.reports.Monthly(c.Request.Context(), year, month)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, out)
}

func (h *ReportHandler) BarberPayments(c *gin.Context) {
	r, ok := h.requiredRange(c)
	if !ok {
		return
	}
	out, err := h.reports.BarberPayments(c.Request.Context(), r)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, out)
}

func (h *ReportHandler) ArchiveBarberPayments(c *gin.Context) {
	r, ok := h.requiredRange(c)
	if !ok {
		return
	}
	out, err := h.archive.Execute(c.Request.Context(), r.From, r.To)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, out)
}

func (h *ReportHandler) ComprehensiveSales(c *gin.Context) {
	from, to, hasRange, err := dateRange(c, h.loc, false)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	barberID, err := queryUint(c, "barberId")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	serviceID, err := queryUint(c, "serviceId")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	f := domain.SalesFilter{
		BarberID:      barberID,
		ServiceID:     serviceID,
		PaymentMethod: strings.ToLower(strings.TrimSpace(c.Query("paymentMethod"))),
	}
	if hasRange {
		f.Range = &domain.Range{From: from, To: to}
	}

	out, err := h.reports.ComprehensiveSales(c.Request.Context(), f)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, out)
}

func (h *ReportHandler) ServicesProductsSales(c *gin.Context) {
	r, ok := h.requiredRange(c)
	if !ok {
		return
	}
	out, err := h.reports.ServicesProductsSales(c.Request.Context(), r)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, out)
}

func (h *ReportHandler) StationUsage(c *gin.Context) {
	r, ok := h.requiredRange(c)
	if !ok {
		return
	}
	out, err := h.reports.StationUsage(c.Request.Context(), r)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, out)
}

func (h *ReportHandler) CustomerFrequency(c *gin.Context) {
	r, ok := h.requiredRange(c)
	if !ok {
		return
	}
	out, err := h.reports.CustomerFrequency(c.Request.Context(), r)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, out)
}

func (h *ReportHandler) PeakHours(c *gin.Context) {
	r, ok := h.requiredRange(c)
	if !ok {
		return
	}
	out, err := h.reports.PeakHours(c.Request.Context(), r)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, out)
}

func (h *ReportHandler) BarberServiceSales(c *gin.Context) {
	r, ok := h.requiredRange(c)
	if !ok {
		return
	}
	barberID, err := queryUint(c, "barberId")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	out, err := h.reports.BarberServiceSales(c.Request.Context(), barberID, r)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, out)
}
