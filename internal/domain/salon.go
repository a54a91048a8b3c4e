package domain

import "time"

// Salon represents a salon (root of the ownership tree)
type Salon struct {
	ID         int64
	OwnerID    int64
	Name       string
	Address    string
	Categories []string
	CreatedAt  time.Time
}

// Master represents a staff member of a salon
type Master struct {
	ID      int64
	SalonID int64
	UserID  *int64 // привязанный аккаунт мастера (опционально)
	Name    string

	// Денормализованные данные салона
	SalonOwnerID int64
	SalonName    string
}

// OwnershipChain returns the ownership chain for access checks
func (m *Master) OwnershipChain() OwnershipChain {
	return OwnershipChain{
		SalonID:      m.SalonID,
		OwnerID:      m.SalonOwnerID,
		MasterID:     m.ID,
		MasterUserID: m.UserID,
	}
}

// Service represents a salon service
type Service struct {
	ID              int64
	SalonID         int64
	Name            string
	DurationMinutes int
	Category        string
}

// HasDuration returns true if the service has a usable duration
func (s *Service) HasDuration() bool {
	return s.DurationMinutes > 0
}
