package usecases

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clock(hour, min int) time.Time {
	return time.Date(2025, 3, 10, hour, min, 0, 0, time.Local)
}

func TestWithinBusinessHours(t *testing.T) {
	assert := assert.New(t)

	t.Run("Inside", func(t *testing.T) {
		assert.True(WithinBusinessHours(clock(12, 30), "09:00", "18:00"))
	})

	t.Run("BoundsAreInclusive", func(t *testing.T) {
		assert.True(WithinBusinessHours(clock(9, 0), "09:00", "18:00"))
		assert.True(WithinBusinessHours(clock(18, 0), "09:00", "18:00"))
	})

	t.Run("JustOutside", func(t *testing.T) {
		assert.False(WithinBusinessHours(clock(8, 59), "09:00", "18:00"))
		assert.False(WithinBusinessHours(clock(18, 1), "09:00", "18:00"))
	})

	t.Run("SecondsIgnored", func(t *testing.T) {
		at := time.Date(2025, 3, 10, 18, 0, 59, 0, time.Local)
		assert.True(WithinBusinessHours(at, "09:00", "18:00"))
	})

	t.Run("MalformedBoundsCloseTheShop", func(t *testing.T) {
		assert.False(WithinBusinessHours(clock(12, 0), "9am", "18:00"))
		assert.False(WithinBusinessHours(clock(12, 0), "09:00", "25:00"))
		assert.False(WithinBusinessHours(clock(12, 0), "", ""))
	})
}

func TestValidClock(t *testing.T) {
	assert := assert.New(t)

	assert.True(ValidClock("00:00"))
	assert.True(ValidClock("23:59"))
	assert.False(ValidClock("24:00"))
	assert.False(ValidClock("9:0:0"))
	assert.False(ValidClock("noon"))
}
