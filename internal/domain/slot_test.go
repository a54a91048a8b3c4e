package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

func TestInterval_Overlaps(t *testing.T) {
	existing := NewInterval("10:00", 60)

	tests := []struct {
		name     string
		start    types.TimeString
		duration int
		want     bool
	}{
		{name: "starts inside", start: "10:30", duration: 60, want: true},
		{name: "same start", start: "10:00", duration: 30, want: true},
		{name: "covers existing", start: "09:00", duration: 180, want: true},
		{name: "ends inside", start: "09:30", duration: 45, want: true},
		{name: "touches end", start: "11:00", duration: 60, want: false},
		{name: "touches start", start: "09:00", duration: 60, want: false},
		{name: "far after", start: "15:00", duration: 30, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := NewInterval(tt.start, tt.duration)
			assert.Equal(t, tt.want, candidate.Overlaps(existing))
			assert.Equal(t, tt.want, existing.Overlaps(candidate))
		})
	}
}

func TestInterval_PastMidnight(t *testing.T) {
	late := NewInterval("23:30", 60)
	assert.Equal(t, 23*60+30, late.Start)
	assert.Equal(t, 24*60+30, late.End)
	assert.True(t, late.Overlaps(NewInterval("23:45", 10)))
}

func TestSlot_IsBookable(t *testing.T) {
	assert.True(t, (&Slot{}).IsBookable())
	assert.False(t, (&Slot{IsTaken: true}).IsBookable())
	assert.False(t, (&Slot{IsBlocked: true}).IsBookable())
}
