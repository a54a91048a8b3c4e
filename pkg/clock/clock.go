package clock

import "time"

// Local провайдер текущего времени в часовом поясе салонов.
// Даты и время слотов хранятся как локальные, поэтому "сейчас" берется в той же зоне.
type Local struct {
	Location *time.Location
}

// NewLocal создает провайдер для зоны loc (nil - системная зона)
func NewLocal(loc *time.Location) Local {
	if loc == nil {
		loc = time.Local
	}
	return Local{Location: loc}
}

// Now возвращает текущее время
func (c Local) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}
