package notifications

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// Config параметры диспетчера
type Config struct {
	Workers       int
	QueueSize     int
	RatePerSecond float64
	Burst         int
	SendTimeout   time.Duration
}

// Dispatcher асинхронная рассылка уведомлений по каналам.
// Очередь ограничена: при переполнении уведомление отбрасывается с предупреждением,
// вызывающий код никогда не блокируется и не получает ошибок доставки.
type Dispatcher struct {
	channels []Channel
	queue    chan Message
	limiter  *rate.Limiter
	cfg      Config
	logger   Logger
	metrics  Metrics

	mu      sync.RWMutex
	started bool
	closed  bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewDispatcher создает диспетчер. Пустой список каналов допустим.
func NewDispatcher(cfg Config, channels []Channel, logger Logger, metrics Metrics) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	return &Dispatcher{
		channels: channels,
		queue:    make(chan Message, cfg.QueueSize),
		limiter:  rate.NewLimiter(limit, cfg.Burst),
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
	}
}

// Start запускает воркеры. Отмена ctx прерывает ожидание лимитера и текущие отправки.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true
	ctx, d.cancel = context.WithCancel(ctx)

	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx)
	}
	d.logger.Info("Notifications: dispatcher started with %d workers, %d channels", d.cfg.Workers, len(d.channels))
}

// Stop закрывает очередь и дожидается отправки оставшихся уведомлений, но не дольше ctx.
// По истечении ctx текущие отправки отменяются, остаток очереди пропускается.
func (d *Dispatcher) Stop(ctx context.Context) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	cancel := d.cancel
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		d.logger.Warn("Notifications: stop timeout, pending notifications skipped")
		if cancel != nil {
			cancel()
		}
		<-done
	}
	if cancel != nil {
		cancel()
	}
	d.logger.Info("Notifications: dispatcher stopped")
}

// Notify ставит уведомление в очередь без блокировки
func (d *Dispatcher) Notify(n *domain.BookingNotification) {
	if n == nil || len(d.channels) == 0 {
		return
	}
	msg := NewMessage(n)

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.Warn("Notify: dispatcher stopped, notification for booking=%d dropped", msg.BookingID)
		return
	}

	select {
	case d.queue <- msg:
	default:
		d.logger.Warn("Notify: queue is full, notification for booking=%d dropped", msg.BookingID)
		d.metrics.IncNotification("queue", "dropped")
	}
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for msg := range d.queue {
		d.deliver(ctx, msg)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, msg Message) {
	for _, ch := range d.channels {
		if err := d.limiter.Wait(ctx); err != nil {
			d.logger.Warn("Notify: %s skipped for booking=%d: %v", ch.Name(), msg.BookingID, err)
			d.metrics.IncNotification(ch.Name(), "skipped")
			continue
		}

		sendCtx := ctx
		var cancel context.CancelFunc = func() {}
		if d.cfg.SendTimeout > 0 {
			sendCtx, cancel = context.WithTimeout(ctx, d.cfg.SendTimeout)
		}
		err := ch.Send(sendCtx, msg)
		cancel()

		if err != nil {
			d.logger.Error("Notify: %s failed for booking=%d: %v", ch.Name(), msg.BookingID, err)
			d.metrics.IncNotification(ch.Name(), "failed")
			continue
		}
		d.metrics.IncNotification(ch.Name(), "sent")
	}
}
