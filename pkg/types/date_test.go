package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{name: "plain date", input: "2025-10-15", want: "2025-10-15"},
		{name: "with spaces", input: " 2025-10-15 ", want: "2025-10-15"},
		{name: "timestamp suffix", input: "2025-10-15T00:00:00Z", wantErr: true},
		{name: "trailing junk", input: "2025-10-15junk", wantErr: true},
		{name: "wrong order", input: "15-10-2025", wantErr: true},
		{name: "impossible day", input: "2025-02-30", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDate_AddDaysAndDaysUntil(t *testing.T) {
	d := Date("2025-12-30")

	next, err := d.AddDays(3)
	require.NoError(t, err)
	assert.Equal(t, Date("2026-01-02"), next)

	days, err := d.DaysUntil(next)
	require.NoError(t, err)
	assert.Equal(t, 3, days)

	back, err := next.DaysUntil(d)
	require.NoError(t, err)
	assert.Equal(t, -3, back)

	_, err = Date("bad").AddDays(1)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDate_At(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)

	at, err := Date("2025-10-15").At("09:30", loc)
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 10, 15, 4, 30, 0, 0, time.UTC).Equal(at))

	_, err = Date("2025-10-15").At("9.30", loc)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestDate_Scan(t *testing.T) {
	var d Date

	require.NoError(t, d.Scan([]byte("2025-10-15")))
	assert.Equal(t, Date("2025-10-15"), d)

	// Postgres может вернуть дату вместе со временем
	require.NoError(t, d.Scan("2025-10-15T00:00:00Z"))
	assert.Equal(t, Date("2025-10-15"), d)

	require.NoError(t, d.Scan([]byte("2025-10-16 00:00:00+00")))
	assert.Equal(t, Date("2025-10-16"), d)

	assert.ErrorIs(t, d.Scan("junk"), ErrInvalidDate)

	require.NoError(t, d.Scan(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, Date("2025-01-02"), d)

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

func TestDate_Before(t *testing.T) {
	assert.True(t, Date("2025-09-30").Before("2025-10-01"))
	assert.False(t, Date("2025-10-01").Before("2025-10-01"))
}
