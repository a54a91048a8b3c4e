package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout формат календарной даты
const DateLayout = "2006-01-02"

// ErrInvalidDate возвращается при некорректном формате даты
var ErrInvalidDate = errors.New("invalid date format")

// Date календарная дата в формате YYYY-MM-DD без часового пояса.
// Строковое представление сортируется лексикографически в хронологическом порядке.
type Date string

// NewDate создает Date из time.Time (учитывается только календарная часть)
func NewDate(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// ParseDate парсит строку YYYY-MM-DD. Лишние символы после даты не допускаются.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return NewDate(t), nil
}

// String возвращает строковое представление
func (d Date) String() string {
	return string(d)
}

// IsZero проверяет, что дата не задана
func (d Date) IsZero() bool {
	return d == ""
}

// Validate проверяет формат даты
func (d Date) Validate() error {
	if _, err := time.Parse(DateLayout, string(d)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, string(d))
	}
	return nil
}

// Before проверяет, что d строго раньше other
func (d Date) Before(other Date) bool {
	return string(d) < string(other)
}

// AddDays возвращает дату, сдвинутую на n дней
func (d Date) AddDays(n int) (Date, error) {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, string(d))
	}
	return NewDate(t.AddDate(0, 0, n)), nil
}

// DaysUntil количество дней от d до other (отрицательное, если other раньше)
func (d Date) DaysUntil(other Date) (int, error) {
	from, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDate, string(d))
	}
	to, err := time.Parse(DateLayout, string(other))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDate, string(other))
	}
	return int(to.Sub(from).Hours() / 24), nil
}

// At возвращает момент времени для даты и времени суток в указанной локации
func (d Date) At(clock TimeString, loc *time.Location) (time.Time, error) {
	if err := d.Validate(); err != nil {
		return time.Time{}, err
	}
	if err := clock.Validate(); err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout+" "+timeLayout, string(d)+" "+string(clock), loc)
}

// Scan реализует sql.Scanner
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = ""
		return nil
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("%w: cannot scan %T into Date", ErrInvalidDate, value)
	}
}

// scanString разбирает дату из базы: драйвер может вернуть её вместе со временем
func (d *Date) scanString(s string) error {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value реализует driver.Valuer
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return string(d), nil
}
