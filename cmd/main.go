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

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	blockSlotHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/block_slot"
	cancelBookingHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/create_booking"
	createSlotsHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/create_slots"
	deleteSlotHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/delete_slot"
	exportAuditHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/export_audit"
	getAllBookingsHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_all_bookings"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_available_slots"
	getClientBookingsHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_client_bookings"
	getMasterScheduleHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_master_schedule"
	getMastersStatusHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_masters_status"
	getSalonStatsHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_salon_stats"
	getSalonsAvailableHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_salons_available"
	healthHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/health"
	updateBookingStatusHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	"github.com/m04kA/SMC-ScheduleService/internal/config"
	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/cache/availability"
	auditRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/audit"
	bookingRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/storage/schema"
	slotRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/sms"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/telegram"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/webhook"
	auditService "github.com/m04kA/SMC-ScheduleService/internal/service/audit"
	bookingsService "github.com/m04kA/SMC-ScheduleService/internal/service/bookings"
	"github.com/m04kA/SMC-ScheduleService/internal/service/notifications"
	slotsService "github.com/m04kA/SMC-ScheduleService/internal/service/slots"
	createBookingUC "github.com/m04kA/SMC-ScheduleService/internal/usecase/create_booking"
	createSlotsUC "github.com/m04kA/SMC-ScheduleService/internal/usecase/create_slots"
	getAvailableSlotsUC "github.com/m04kA/SMC-ScheduleService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-ScheduleService/internal/worker/housekeeping"
	"github.com/m04kA/SMC-ScheduleService/pkg/clock"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/logger"
	"github.com/m04kA/SMC-ScheduleService/pkg/metrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/txmanager"
)

// availabilityCache общий интерфейс Redis кэша и заглушки
type availabilityCache interface {
	Key(ctx context.Context, filter domain.AvailabilityFilter) (string, error)
	Get(ctx context.Context, key string) ([]*domain.AvailableSlot, bool, error)
	Set(ctx context.Context, key string, slots []*domain.AvailableSlot) error
	Invalidate(ctx context.Context) error
}

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

	log.Info("Starting SMC-ScheduleService...")

	loc, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		log.Fatal("Invalid server.timezone %q: %v", cfg.Server.Timezone, err)
	}
	timeProvider := clock.NewLocal(loc)

	// Инициализируем метрики (если включены). nil-коллектор безопасен для всех вызовов
	var metricsCollector *metrics.Metrics
	registry := prometheus.NewRegistry()
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metricsCollector = metrics.New(cfg.Metrics.ServiceName, registry)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := openDatabase(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Successfully connected to database (driver=%s)", cfg.Database.Driver)

	if cfg.Database.AutoMigrate {
		if err := schema.Apply(context.Background(), db, cfg.Database.Driver); err != nil {
			log.Fatal("Failed to apply schema: %v", err)
		}
		log.Info("Database schema is up to date")
	}

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txManager := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	slotRepository := slotRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	auditRepository := auditRepo.NewRepository(wrappedDB)

	// Кэш доступных слотов
	readyChecks := map[string]healthHandler.Pinger{"database": wrappedDB}
	var cache availabilityCache = availability.Noop{}
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		cache = availability.NewCache(redisClient, time.Duration(cfg.Redis.TTL)*time.Second, metricsCollector)
		readyChecks["redis"] = healthHandler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
		log.Info("Availability cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Address, cfg.Redis.TTL)
	}

	// Сервисы
	audit := auditService.NewService(auditRepository, log)
	bookingSvc := bookingsService.NewService(bookingRepository, slotRepository, catalogRepository, txManager, cache, audit, timeProvider, log)
	slotSvc := slotsService.NewService(slotRepository, catalogRepository, cache, audit, timeProvider, log)

	// Уведомления
	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	channels, bot := notificationChannels(cfg, log)
	dispatcher := notifications.NewDispatcher(notifications.Config{
		Workers:       cfg.Notifications.Workers,
		QueueSize:     cfg.Notifications.QueueSize,
		RatePerSecond: cfg.Notifications.RatePerSecond,
		Burst:         cfg.Notifications.Burst,
		SendTimeout:   time.Duration(cfg.Notifications.SendTimeout) * time.Second,
	}, channels, log, metricsCollector)
	dispatcher.Start(appCtx)

	if bot != nil && cfg.Telegram.ListenCallbacks {
		listener := telegram.NewCallbackListener(bot, cfg.Telegram.AdminChatID, bookingSvc, log)
		go listener.Run(appCtx)
		log.Info("Telegram callback listener started")
	}

	// Use cases
	createSlotsUseCase := createSlotsUC.NewUseCase(slotRepository, catalogRepository, txManager, cache, audit, metricsCollector, log)
	createBookingUseCase := createBookingUC.NewUseCase(slotRepository, bookingRepository, txManager, dispatcher, cache, metricsCollector, log)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(slotRepository, catalogRepository, cache, timeProvider, log)

	// Фоновые задачи
	var scheduler *housekeeping.Scheduler
	if cfg.Housekeeping.Enabled {
		var backupDB housekeeping.Execer
		if cfg.Database.Driver == config.DriverSQLite {
			backupDB = db
		}
		scheduler = housekeeping.NewScheduler(housekeeping.Config{
			SweepPendingSpec:   cfg.Housekeeping.SweepPendingSpec,
			AuditCleanupSpec:   cfg.Housekeeping.AuditCleanupSpec,
			AuditRetentionDays: cfg.Housekeeping.AuditRetentionDays,
			BackupSpec:         cfg.Housekeeping.BackupSpec,
			BackupDir:          cfg.Housekeeping.BackupDir,
			Location:           loc,
		}, bookingSvc, audit, backupDB, log, metricsCollector)
		if err := scheduler.Start(); err != nil {
			log.Fatal("Failed to start housekeeping: %v", err)
		}
		log.Info("Housekeeping scheduler started")
	}

	// Handlers
	createSlots := createSlotsHandler.NewHandler(createSlotsUseCase, log)
	deleteSlot := deleteSlotHandler.NewHandler(slotSvc, log)
	blockSlot := blockSlotHandler.NewHandler(slotSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getSalonsAvailable := getSalonsAvailableHandler.NewHandler(slotSvc, log)
	getMastersStatus := getMastersStatusHandler.NewHandler(slotSvc, log)
	getMasterSchedule := getMasterScheduleHandler.NewHandler(slotSvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getClientBookings := getClientBookingsHandler.NewHandler(bookingSvc, log)
	getAllBookings := getAllBookingsHandler.NewHandler(bookingSvc, log)
	getSalonStats := getSalonStatsHandler.NewHandler(bookingSvc, log)
	exportAudit := exportAuditHandler.NewHandler(audit, log)
	health := healthHandler.NewHandler(readyChecks, log)

	auth := middleware.NewAuth(cfg.Auth.JWTSecret, cfg.Auth.ClientScope, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", health.Live).Methods(http.MethodGet)
	r.HandleFunc("/readyz", health.Ready).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	api.HandleFunc("/masters/{masterId}/available-slots", getAvailableSlots.HandleMaster).Methods(http.MethodGet)
	api.HandleFunc("/salons/available", getSalonsAvailable.Handle).Methods(http.MethodGet)
	api.HandleFunc("/salons/{salonId}/available-slots", getAvailableSlots.HandleSalon).Methods(http.MethodGet)
	api.HandleFunc("/salons/{salonId}/masters/status", getMastersStatus.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// CLIENT ROUTES (клиентский токен с телефоном)
	// ============================================================

	client := api.PathPrefix("/my").Subrouter()
	client.Use(auth.Client)
	client.HandleFunc("/bookings", getClientBookings.Handle).Methods(http.MethodGet)

	// ============================================================
	// STAFF ROUTES (владелец салона, мастер, администратор)
	// ============================================================

	staff := api.PathPrefix("").Subrouter()
	staff.Use(auth.Staff)

	// --- Слоты ---
	staff.HandleFunc("/masters/{masterId}/slots", createSlots.Handle).Methods(http.MethodPost)
	staff.HandleFunc("/masters/{masterId}/schedule", getMasterSchedule.Handle).Methods(http.MethodGet)
	staff.HandleFunc("/slots/{slotId}", deleteSlot.Handle).Methods(http.MethodDelete)
	staff.HandleFunc("/slots/{slotId}/block", blockSlot.Block).Methods(http.MethodPut)
	staff.HandleFunc("/slots/{slotId}/unblock", blockSlot.Unblock).Methods(http.MethodPut)

	// --- Бронирования ---
	staff.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	staff.HandleFunc("/bookings/{bookingId}", cancelBooking.Handle).Methods(http.MethodDelete)
	staff.HandleFunc("/salons/{salonId}/stats", getSalonStats.Handle).Methods(http.MethodGet)

	// --- Администрирование ---
	staff.HandleFunc("/admin/audit/export", exportAudit.Handle).Methods(http.MethodGet)
	staff.HandleFunc("/admin/bookings", getAllBookings.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
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

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}

	// Очередь уведомлений дорабатывает в пределах shutdown_timeout, затем останавливается слушатель Telegram
	dispatcher.Stop(shutdownCtx)
	stopApp()

	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}

// openDatabase открывает соединение и настраивает пул под выбранный драйвер
func openDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, err
	}

	if cfg.Driver == config.DriverSQLite {
		// SQLite допускает одного писателя: все запросы идут через одно соединение
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// notificationChannels собирает включенные каналы. Бот возвращается для слушателя кнопок.
func notificationChannels(cfg *config.Config, log *logger.Logger) ([]notifications.Channel, *tgbotapi.BotAPI) {
	var (
		channels []notifications.Channel
		bot      *tgbotapi.BotAPI
	)

	if cfg.Telegram.Enabled {
		b, err := telegram.NewBot(cfg.Telegram.BotToken, cfg.Telegram.Debug)
		if err != nil {
			log.Error("Telegram is disabled: %v", err)
		} else {
			bot = b
			channels = append(channels, telegram.NewClient(bot, cfg.Telegram.AdminChatID, log))
			log.Info("Telegram notifications enabled (chat_id=%d)", cfg.Telegram.AdminChatID)
		}
	}

	if cfg.SMS.Enabled {
		api := sms.NewTwilioAPI(cfg.SMS.AccountSID, cfg.SMS.AuthToken)
		channels = append(channels, sms.NewClient(api, cfg.SMS.From, log))
		log.Info("SMS notifications enabled (from=%s)", cfg.SMS.From)
	}

	if cfg.Webhook.Enabled {
		channels = append(channels, webhook.NewClient(cfg.Webhook.URL, time.Duration(cfg.Webhook.Timeout)*time.Second, log))
		log.Info("Webhook notifications enabled (url=%s)", cfg.Webhook.URL)
	}

	if len(channels) == 0 {
		log.Warn("No notification channels enabled, bookings will not be announced")
	}
	return channels, bot
}
