package domain

// Business validation constants
const (
	MaxSlotsPerBatch       = 200
	MaxClientNameLength    = 100
	MaxCommentLength       = 500
	MaxClaimedServices     = 20
	MaxScheduleRangeDays   = 62
	DefaultScheduleDays    = 7
	SystemPrincipalID      = 0
	ClientBookingsMaxItems = 100
	AdminBookingsPageSize  = 50
	AdminBookingsMaxPage   = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
