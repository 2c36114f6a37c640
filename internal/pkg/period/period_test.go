package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParse(t *testing.T) {
	f, err := Parse("MONTHLY")
	require.NoError(t, err)
	assert.Equal(t, Monthly, f)

	_, err = Parse("monthly")
	assert.Error(t, err)

	_, err = Parse("DAILY")
	assert.Error(t, err)
}

func TestStep(t *testing.T) {
	tests := []struct {
		freq Frequency
		from time.Time
		want time.Time
	}{
		{Weekly, day(2026, time.January, 1), day(2026, time.January, 8)},
		{Biweekly, day(2026, time.January, 1), day(2026, time.January, 15)},
		{Monthly, day(2026, time.January, 1), day(2026, time.February, 1)},
		{Quarterly, day(2026, time.January, 1), day(2026, time.April, 1)},
		{Semiannual, day(2026, time.January, 1), day(2026, time.July, 1)},
		{Annual, day(2026, time.January, 1), day(2027, time.January, 1)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.freq.Step(tt.from), "%s from %s", tt.freq, tt.from)
	}
}

func TestNextWindow(t *testing.T) {
	// A January window ending on the 31st renews into all of February.
	start, end := Monthly.NextWindow(day(2026, time.January, 31))
	assert.Equal(t, day(2026, time.February, 1), start)
	assert.Equal(t, day(2026, time.February, 28), end)

	start, end = Weekly.NextWindow(day(2026, time.March, 7))
	assert.Equal(t, day(2026, time.March, 8), start)
	assert.Equal(t, day(2026, time.March, 14), end)
}

func TestSchedule(t *testing.T) {
	dates := Monthly.Schedule(day(2026, time.January, 1), day(2026, time.June, 1))
	require.Len(t, dates, 6)
	assert.Equal(t, day(2026, time.January, 1), dates[0])
	assert.Equal(t, day(2026, time.June, 1), dates[5])

	// Deadline before start yields nothing.
	assert.Empty(t, Monthly.Schedule(day(2026, time.June, 1), day(2026, time.January, 1)))

	// Deadline between steps stops before it.
	dates = Monthly.Schedule(day(2026, time.January, 15), day(2026, time.March, 1))
	require.Len(t, dates, 2)
	assert.Equal(t, day(2026, time.February, 15), dates[1])
}

func TestDate(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	stamped := time.Date(2026, time.April, 10, 23, 45, 0, 0, loc)
	assert.Equal(t, day(2026, time.April, 10), Date(stamped))
}
