package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

const (
	keyPrefix     = "salon:available-slots"
	generationKey = keyPrefix + ":generation"
)

// ErrCache ошибка обращения к кэшу
var ErrCache = errors.New("availability.cache: redis error")

// Metrics метрики обращений к кэшу
type Metrics interface {
	IncCache(result string)
}

// Cache кэш результатов запросов доступных слотов в Redis.
// Ключ содержит номер поколения: любое изменение слотов увеличивает поколение,
// и старые записи больше не читаются (истекают по TTL).
type Cache struct {
	client  *redis.Client
	ttl     time.Duration
	metrics Metrics
}

// NewCache создает кэш поверх клиента Redis
func NewCache(client *redis.Client, ttl time.Duration, metrics Metrics) *Cache {
	return &Cache{client: client, ttl: ttl, metrics: metrics}
}

// Key возвращает ключ результата для фильтра в текущем поколении.
// Ключ вычисляется до чтения из хранилища и передается в Set: если между чтением
// и сохранением поколение сменилось, результат уйдет под старый ключ и читаться не будет.
func (c *Cache) Key(ctx context.Context, filter domain.AvailabilityFilter) (string, error) {
	generation, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.observe("error")
		return "", fmt.Errorf("%w: get generation: %v", ErrCache, err)
	}
	return fmt.Sprintf("%s:%d:%s", keyPrefix, generation, Fingerprint(filter)), nil
}

// Get возвращает закэшированный результат. Второе значение false означает промах.
func (c *Cache) Get(ctx context.Context, key string) ([]*domain.AvailableSlot, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.observe("miss")
		return nil, false, nil
	}
	if err != nil {
		c.observe("error")
		return nil, false, fmt.Errorf("%w: get %s: %v", ErrCache, key, err)
	}

	var slots []*domain.AvailableSlot
	if err := json.Unmarshal(data, &slots); err != nil {
		c.observe("error")
		return nil, false, fmt.Errorf("%w: decode %s: %v", ErrCache, key, err)
	}

	c.observe("hit")
	return slots, true, nil
}

// Set сохраняет результат под ключом, полученным из Key до запроса к хранилищу
func (c *Cache) Set(ctx context.Context, key string, slots []*domain.AvailableSlot) error {
	data, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrCache, err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrCache, key, err)
	}
	return nil
}

// Invalidate делает все сохраненные результаты неактуальными
func (c *Cache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("%w: incr generation: %v", ErrCache, err)
	}
	return nil
}

func (c *Cache) observe(result string) {
	if c.metrics != nil {
		c.metrics.IncCache(result)
	}
}

// Fingerprint строковое представление фильтра для ключа кэша.
// Для фильтра "не в прошлом" учитывается текущая минута.
func Fingerprint(filter domain.AvailabilityFilter) string {
	parts := []string{
		"m=" + optInt(filter.MasterID),
		"s=" + optInt(filter.ServiceID),
		"sl=" + optInt(filter.SalonID),
	}
	if filter.Date != nil {
		parts = append(parts, "d="+filter.Date.String())
	} else {
		parts = append(parts, "d=")
	}
	if filter.NotBefore != nil {
		parts = append(parts, "nb="+filter.NotBefore.Format("200601021504"))
	} else {
		parts = append(parts, "nb=")
	}
	return strings.Join(parts, "|")
}

func optInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

// Noop кэш-заглушка для конфигурации без Redis
type Noop struct{}

// Key возвращает пустой ключ
func (Noop) Key(context.Context, domain.AvailabilityFilter) (string, error) {
	return "", nil
}

// Get всегда возвращает промах
func (Noop) Get(context.Context, string) ([]*domain.AvailableSlot, bool, error) {
	return nil, false, nil
}

// Set ничего не делает
func (Noop) Set(context.Context, string, []*domain.AvailableSlot) error {
	return nil
}

// Invalidate ничего не делает
func (Noop) Invalidate(context.Context) error {
	return nil
}
