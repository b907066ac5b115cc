package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-pos/internal/audit"
	"github.com/BruksfildServices01/barber-pos/internal/config"
	payroll "github.com/BruksfildServices01/barber-pos/internal/domain/payroll"
	"github.com/BruksfildServices01/barber-pos/internal/handlers"
	"github.com/BruksfildServices01/barber-pos/internal/infra/cache"
	"github.com/BruksfildServices01/barber-pos/internal/infra/events"
	infraRepo "github.com/BruksfildServices01/barber-pos/internal/infra/repository"
	"github.com/BruksfildServices01/barber-pos/internal/infra/storage"
	"github.com/BruksfildServices01/barber-pos/internal/middleware"
	"github.com/BruksfildServices01/barber-pos/internal/models"
	"github.com/BruksfildServices01/barber-pos/internal/timezone"
	ucPayroll "github.com/BruksfildServices01/barber-pos/internal/usecase/payroll"
	ucReport "github.com/BruksfildServices01/barber-pos/internal/usecase/report"
	ucReservation "github.com/BruksfildServices01/barber-pos/internal/usecase/reservation"
	ucSale "github.com/BruksfildServices01/barber-pos/internal/usecase/sale"
)

// Deps are the process-wide singletons built in main.
type Deps struct {
	DB        *gorm.DB
	Config    *config.Config
	Cache     *cache.ReportCache
	Publisher events.Publisher
	Storage   *storage.S3Store
	Auditor   audit.Auditor
	Policy    payroll.Policy
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	db, cfg := d.DB, d.Config
	tz := cfg.ShopTimezone
	loc := timezone.Location(tz)

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	reservationRepo := infraRepo.NewReservationGormRepository(db)
	saleRepo := infraRepo.NewSaleGormRepository(db)
	draftRepo := infraRepo.NewDraftSaleGormRepository(db)
	payrollRepo := infraRepo.NewPayrollGormRepository(db)
	reportRepo := infraRepo.NewReportGormRepository(db)
	settingRepo := infraRepo.NewSettingGormRepository(db)

	// ======================================================
	// 🧠 USE CASES — RESERVATIONS
	// ======================================================
	reservationUC := handlers.ReservationUseCases{
		Create:   ucReservation.NewCreateReservation(reservationRepo, d.Cache, d.Publisher, d.Auditor),
		Get:      ucReservation.NewGetReservation(reservationRepo),
		List:     ucReservation.NewListReservations(reservationRepo),
		Count:    ucReservation.NewCountReservations(reservationRepo),
		Update:   ucReservation.NewUpdateReservation(reservationRepo, d.Cache, d.Publisher, d.Auditor),
		Delete:   ucReservation.NewDeleteReservation(reservationRepo, d.Cache, d.Auditor),
		Complete: ucReservation.NewCompleteReservation(saleRepo, d.Cache, d.Publisher, d.Auditor, tz),
	}

	// ======================================================
	// 🧠 USE CASES — SALES
	// ======================================================
	recordSaleUC := ucSale.NewRecordSale(saleRepo, d.Cache, d.Publisher, d.Auditor, tz)
	listSalesUC := ucSale.NewListSales(saleRepo, tz)
	summariesUC := ucSale.NewSummaries(saleRepo)
	draftsUC := ucSale.NewDrafts(draftRepo)

	// ======================================================
	// 🧠 USE CASES — PAYROLL & REPORTS
	// ======================================================
	computePayrollUC := ucPayroll.NewComputePayroll(payrollRepo, settingRepo, d.Policy)
	advancesUC := ucPayroll.NewAdvances(payrollRepo, d.Cache)
	archivePayrollUC := ucPayroll.NewArchivePayroll(computePayrollUC, d.Storage)
	reportsUC := ucReport.NewReports(reportRepo, saleRepo, computePayrollUC, d.Cache, tz)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(db, d.Cache)
	authHandler := handlers.NewAuthHandler(db, cfg, d.Auditor)
	reservationHandler := handlers.NewReservationHandler(reservationUC, loc)
	saleHandler := handlers.NewSaleHandler(recordSaleUC, listSalesUC, summariesUC, loc)
	draftSaleHandler := handlers.NewDraftSaleHandler(draftsUC)
	barberHandler := handlers.NewBarberHandler(db, advancesUC, d.Storage, d.Cache, loc)
	stationHandler := handlers.NewStationHandler(db)
	catalogHandler := handlers.NewCatalogHandler(db, reportsUC, d.Cache)
	reportHandler := handlers.NewReportHandler(reportsUC, archivePayrollUC, loc)
	settingHandler := handlers.NewSettingHandler(settingRepo, d.Cache, d.Auditor)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, loc)

	r.GET("/health", healthHandler.Health)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)

		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg.JWTSecret))

		adminOnly := middleware.RequireRoles(models.RoleAdmin)

		auth := secured.Group("/auth")
		{
			auth.GET("/me", authHandler.Me)
			auth.PUT("/change-password", authHandler.ChangePassword)

			users := auth.Group("/users", adminOnly)
			users.GET("", authHandler.ListUsers)
			users.POST("", authHandler.CreateUser)
			users.PUT("/:id", authHandler.UpdateUser)
			users.DELETE("/:id", authHandler.DeleteUser)
		}

		// ------------------------------
		// RESERVATIONS
		// ------------------------------
		reservations := secured.Group("/reservations")
		{
			reservations.GET("", reservationHandler.List)
			reservations.POST("", reservationHandler.Create)
			reservations.GET("/count", reservationHandler.Count)
			reservations.GET("/count-completed", reservationHandler.CountCompleted)
			reservations.GET("/completed", reservationHandler.ListCompleted)
			reservations.GET("/:id", reservationHandler.Get)
			reservations.PUT("/:id", reservationHandler.Update)
			reservations.DELETE("/:id", reservationHandler.Delete)
			reservations.POST("/:id/complete", reservationHandler.Complete)
		}

		// ------------------------------
		// SALES
		// ------------------------------
		sales := secured.Group("/sales")
		{
			sales.GET("", saleHandler.List)
			sales.POST("", saleHandler.Create)
			sales.GET("/filtered", saleHandler.Filtered)
			sales.GET("/by-reservation/:id", saleHandler.ByReservation)
			sales.GET("/summary", saleHandler.Summary)
			sales.GET("/summary-by-service", saleHandler.SummaryByService)
			sales.GET("/summary-by-payment-method", saleHandler.SummaryByPaymentMethod)
		}

		drafts := secured.Group("/draft-sales")
		{
			drafts.POST("", draftSaleHandler.Save)
			drafts.GET("/:reservationId", draftSaleHandler.Get)
			drafts.DELETE("/:reservationId", draftSaleHandler.Delete)
		}

		// ------------------------------
		// BARBERS, STATIONS, CATALOG
		// ------------------------------
		barbers := secured.Group("/barbers")
		{
			barbers.GET("", barberHandler.List)
			barbers.POST("", adminOnly, barberHandler.Create)
			barbers.PUT("/:id", adminOnly, barberHandler.Update)
			barbers.DELETE("/:id", adminOnly, barberHandler.Delete)
			barbers.PUT("/:id/photo", adminOnly, barberHandler.UploadPhoto)
			barbers.GET("/:id/advances", adminOnly, barberHandler.ListAdvances)
			barbers.POST("/:id/advances", adminOnly, barberHandler.CreateAdvance)
		}

		stations := secured.Group("/stations")
		{
			stations.GET("", stationHandler.List)
			stations.POST("", adminOnly, stationHandler.Create)
			stations.PUT("/:id", adminOnly, stationHandler.Update)
			stations.DELETE("/:id", adminOnly, stationHandler.Delete)
		}

		services := secured.Group("/services")
		{
			services.GET("", catalogHandler.List)
			services.POST("", adminOnly, catalogHandler.Create)
			services.GET("/products", catalogHandler.ListProducts)
			services.GET("/products/low-stock", catalogHandler.LowStock)
			services.GET("/products/report/summary", catalogHandler.InventorySummary)
			services.PUT("/products/:id/stock", catalogHandler.UpdateStock)
			services.PUT("/:id", adminOnly, catalogHandler.Update)
			services.DELETE("/:id", adminOnly, catalogHandler.Delete)
		}

		// ------------------------------
		// REPORTS
		// ------------------------------
		reports := secured.Group("/reports")
		{
			reports.GET("", reportHandler.Monthly)
			reports.GET("/barber-payments", reportHandler.BarberPayments)
			reports.POST("/barber-payments/archive", adminOnly, reportHandler.ArchiveBarberPayments)
			reports.GET("/comprehensive-sales", reportHandler.ComprehensiveSales)
			reports.GET("/services-products-sales", reportHandler.ServicesProductsSales)
			reports.GET("/station-usage", reportHandler.StationUsage)
			reports.GET("/customer-frequency", reportHandler.CustomerFrequency)
			reports.GET("/peak-hours", reportHandler.PeakHours)
			reports.GET("/detailed-barber-service-sales", reportHandler.BarberServiceSales)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		settings := secured.Group("/settings", adminOnly)
		{
			settings.GET("", settingHandler.List)
			settings.GET("/:key", settingHandler.Get)
			settings.PUT("/:key", settingHandler.Update)
		}

		secured.GET("/audit-logs", adminOnly, auditLogsHandler.List)
	}
}
