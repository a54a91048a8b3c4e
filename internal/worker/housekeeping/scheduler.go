package housekeeping

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	jobSweepPending = "sweep_pending"
	jobAuditCleanup = "audit_cleanup"
	jobBackup       = "sqlite_backup"

	jobTimeout = 5 * time.Minute
	dayHours   = 24 * time.Hour
)

// ErrInvalidSchedule возвращается при некорректном cron выражении
var ErrInvalidSchedule = errors.New("housekeeping: invalid schedule")

// Config расписания задач. Пустое выражение отключает задачу.
type Config struct {
	SweepPendingSpec   string
	AuditCleanupSpec   string
	AuditRetentionDays int
	BackupSpec         string
	BackupDir          string
	Location           *time.Location
}

type job struct {
	name string
	spec string
	run  func(ctx context.Context) error
}

// Scheduler фоновые задачи обслуживания по cron
type Scheduler struct {
	cfg     Config
	cron    *cron.Cron
	sweeper PendingSweeper
	audit   AuditCleaner
	backup  Execer // nil, если резервное копирование недоступно (Postgres)
	now     func() time.Time
	logger  Logger
	metrics Metrics
}

// NewScheduler создает планировщик. backupDB передается только для SQLite.
func NewScheduler(cfg Config, sweeper PendingSweeper, audit AuditCleaner, backupDB Execer, logger Logger, metrics Metrics) *Scheduler {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cfg:     cfg,
		cron:    cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		sweeper: sweeper,
		audit:   audit,
		backup:  backupDB,
		now:     time.Now,
		logger:  logger,
		metrics: metrics,
	}
}

// Start регистрирует задачи и запускает планировщик
func (s *Scheduler) Start() error {
	jobs := []job{
		{jobSweepPending, s.cfg.SweepPendingSpec, s.SweepPending},
		{jobAuditCleanup, s.cfg.AuditCleanupSpec, s.CleanupAudit},
	}
	if s.backup != nil {
		jobs = append(jobs, job{jobBackup, s.cfg.BackupSpec, s.Backup})
	}

	for _, job := range jobs {
		if job.spec == "" {
			s.logger.Info("Housekeeping: job %s disabled", job.name)
			continue
		}
		name, run := job.name, job.run
		if _, err := s.cron.AddFunc(job.spec, func() { s.runJob(name, run) }); err != nil {
			return fmt.Errorf("%w: %s %q: %v", ErrInvalidSchedule, name, job.spec, err)
		}
		s.logger.Info("Housekeeping: job %s scheduled at %q", name, job.spec)
	}

	s.cron.Start()
	return nil
}

// Stop останавливает планировщик и ждет завершения выполняющихся задач
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("Housekeeping: stop timeout, running jobs abandoned")
	}
}

// runJob выполняет задачу с таймаутом; ошибки и паники только логируются
func (s *Scheduler) runJob(name string, run func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("Housekeeping: job %s panicked: %v", name, p)
			s.metrics.IncHousekeeping(name, "panic")
		}
	}()

	if err := run(ctx); err != nil {
		s.logger.Error("Housekeeping: job %s failed: %v", name, err)
		s.metrics.IncHousekeeping(name, "error")
		return
	}
	s.metrics.IncHousekeeping(name, "ok")
}

// SweepPending удаляет просроченные неподтвержденные бронирования
func (s *Scheduler) SweepPending(ctx context.Context) error {
	n, err := s.sweeper.SweepExpiredPending(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger.Info("Housekeeping: swept %d expired pending bookings", n)
	}
	return nil
}

// CleanupAudit удаляет записи журнала старше срока хранения
func (s *Scheduler) CleanupAudit(ctx context.Context) error {
	if s.cfg.AuditRetentionDays <= 0 {
		return nil
	}
	n, err := s.audit.Cleanup(ctx, time.Duration(s.cfg.AuditRetentionDays)*dayHours)
	if err != nil {
		return err
	}
	s.logger.Info("Housekeeping: removed %d audit records older than %d days", n, s.cfg.AuditRetentionDays)
	return nil
}

// Backup сохраняет копию файла SQLite через VACUUM INTO
func (s *Scheduler) Backup(ctx context.Context) error {
	if s.backup == nil {
		return nil
	}
	if err := os.MkdirAll(s.cfg.BackupDir, 0o755); err != nil {
		return fmt.Errorf("housekeeping: create backup dir: %w", err)
	}

	path := filepath.Join(s.cfg.BackupDir, fmt.Sprintf("salon-%s.db", s.now().Format("20060102-150405")))
	if _, err := s.backup.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		return fmt.Errorf("housekeeping: vacuum into %s: %w", path, err)
	}

	s.logger.Info("Housekeeping: backup saved to %s", path)
	return nil
}
