package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/cancel_appointment"
	createBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_booking"
	getAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_available_slots"
	getCustomerAppointmentsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_customer_appointments"
	getDailyCalendarHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_daily_calendar"
	getGroupSlotsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_group_slots"
	getSettingsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_settings"
	updateSettingsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_settings"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/config"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	settingsRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/settings"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	appointmentsService "github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
	settingsService "github.com/m04kA/SMC-SalonBooking/internal/service/settings"
	createBookingUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
	getGroupSlotsUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_group_slots"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-SalonBooking...")
	log.Info("Configuration loaded from config.toml")

	// Часовой пояс салона: все даты и слоты считаются в нем
	location, err := cfg.Scheduling.Location()
	if err != nil {
		log.Fatal("Failed to load salon timezone: %v", err)
	}
	log.Info("Salon timezone: %s", location)

	// Инициализируем метрики (если включены).
	// nil *metrics.Metrics безопасен: все методы проверяют получатель
	var metricsCollector *metrics.Metrics
	var recorder dbmetrics.Recorder
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		recorder = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Обёртка замеряет запросы, если метрики включены, и без них просто проксирует
	wrappedDB := dbmetrics.WrapWithDefault(db, recorder, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	settingsRepository := settingsRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	settingsSvc := settingsService.NewService(
		settingsRepository,
		txMgr,
		settingsService.Defaults{
			BufferTimeHours: cfg.Scheduling.DefaultBufferHours,
			Weekday: domain.BusinessHours{
				Start: cfg.Scheduling.WeekdayOpenHour,
				End:   cfg.Scheduling.WeekdayCloseHour,
			},
			Sunday: domain.BusinessHours{
				Start: cfg.Scheduling.SundayOpenHour,
				End:   cfg.Scheduling.SundayCloseHour,
			},
		},
		cfg.Auth.StaffUserIDs,
		log,
	)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		cfg.Auth.StaffUserIDs,
		log,
	)

	// Ядро расчета расписания
	distributor := scheduling.NewDistributor(cfg.Scheduling.ExhaustiveMaxItems, cfg.Scheduling.ExhaustiveMaxLanes)
	assigner := scheduling.NewAssigner(appointmentRepository)
	clock := &getAvailableSlotsUC.RealTimeProvider{Location: location}

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		catalogRepository,
		appointmentRepository,
		settingsSvc,
		metricsCollector,
		clock,
		log,
	)
	getGroupSlotsUseCase := getGroupSlotsUC.NewUseCase(
		catalogRepository,
		distributor,
		assigner,
		settingsSvc,
		metricsCollector,
		clock,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		settingsSvc,
		txMgr,
		clock,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getGroupSlots := getGroupSlotsHandler.NewHandler(getGroupSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	getCustomerAppointments := getCustomerAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getDailyCalendar := getDailyCalendarHandler.NewHandler(appointmentsSvc, log)
	getSettings := getSettingsHandler.NewHandler(settingsSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(settingsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты одного мастера
	api.HandleFunc("/technicians/{technicianId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Расчет групповой записи
	api.HandleFunc("/group-slots", getGroupSlots.Handle).Methods(http.MethodPost)

	// Настройки салона
	api.HandleFunc("/settings", getSettings.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	protected.HandleFunc("/appointments", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/customers/{customerId}/appointments", getCustomerAppointments.Handle).Methods(http.MethodGet)

	// --- Для персонала салона ---
	protected.HandleFunc("/calendar", getDailyCalendar.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/settings", updateSettings.Handle).Methods(http.MethodPut)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
