package domain

import "time"

// AuditAction тип административного действия
type AuditAction string

const (
	AuditSlotsCreated    AuditAction = "slots_created"
	AuditSlotDeleted     AuditAction = "slot_deleted"
	AuditSlotBlocked     AuditAction = "slot_blocked"
	AuditSlotUnblocked   AuditAction = "slot_unblocked"
	AuditBookingStatus   AuditAction = "booking_status_changed"
	AuditBookingCanceled AuditAction = "booking_canceled"
	AuditPendingSwept    AuditAction = "pending_bookings_swept"
)

// AuditEvent запись журнала административных действий
type AuditEvent struct {
	ID        int64
	EventID   string
	ActorID   int64
	ActorRole Role
	Action    AuditAction
	Entity    string
	EntityID  int64
	Details   string
	CreatedAt time.Time
}
