package timezone_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamasa/shared/timezone"
)

func TestNow(t *testing.T) {
	now := timezone.Now()

	assert.False(t, now.IsZero())
	assert.Equal(t, timezone.GetLocation(), now.Location())
}

func TestParseAndFormat(t *testing.T) {
	parsed, err := timezone.Parse("2006-01-02", "2026-07-15")
	require.NoError(t, err)

	assert.Equal(t, timezone.GetLocation(), parsed.Location())
	assert.Equal(t, "2026-07-15", timezone.Format(parsed, "2006-01-02"))

	_, err = timezone.Parse("2006-01-02", "15/07/2026")
	assert.Error(t, err)
}

func TestStartOfDay(t *testing.T) {
	loc := timezone.GetLocation()
	evening := time.Date(2026, 7, 15, 21, 45, 10, 0, loc)

	start := timezone.StartOfDay(evening)

	assert.Equal(t, time.Date(2026, 7, 15, 0, 0, 0, 0, loc), start)
	assert.False(t, start.After(evening))
}
