package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocation(t *testing.T) {
	assert.Equal(t, "America/Sao_Paulo", Location("").String())
	assert.Equal(t, "America/Sao_Paulo", Location("Mars/Olympus").String())
	assert.Equal(t, "Europe/Lisbon", Location("Europe/Lisbon").String())
	assert.False(t, IsValid(""))
	assert.True(t, IsValid("UTC"))
}

func TestCalendarDate(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)

	// 01:30 UTC on the 16th is still the 15th in Sao Paulo
	utc := time.Date(2024, 10, 16, 1, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 10, 15, 0, 0, 0, 0, time.UTC), CalendarDate(utc, loc))
}
