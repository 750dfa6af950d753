package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryStart_CrossesYear(t *testing.T) {
	now := time.Date(2026, time.February, 10, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC), HistoryStart(now, 6))
}

func TestBuildMonthlyHistory(t *testing.T) {
	now := time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
	at := func(month time.Month, day int) time.Time {
		return time.Date(2026, month, day, 9, 0, 0, 0, time.UTC)
	}
	records := []*PriceRecord{
		{Price: 999, RecordedAt: at(time.April, 30)},
		{Price: 200, RecordedAt: at(time.May, 10)},
		{Price: 220, RecordedAt: at(time.May, 20)},
		{Price: 250, RecordedAt: at(time.July, 1)},
		{Price: 260, RecordedAt: at(time.October, 2)},
		{Price: 270, RecordedAt: at(time.October, 15)},
	}

	h := BuildMonthlyHistory("wheat", records, now, 6)
	require.Len(t, h.Months, 6)
	assert.Equal(t, "wheat", h.Crop)
	assert.Equal(t, 5, h.Samples)

	want := []MonthlyPrice{
		{Month: "2026-05", AveragePrice: 210, Samples: 2},
		{Month: "2026-06", AveragePrice: 210, Samples: 0},
		{Month: "2026-07", AveragePrice: 250, Samples: 1},
		{Month: "2026-08", AveragePrice: 250, Samples: 0},
		{Month: "2026-09", AveragePrice: 250, Samples: 0},
		{Month: "2026-10", AveragePrice: 265, Samples: 2},
	}
	assert.Equal(t, want, h.Months)
}

func TestBuildMonthlyHistory_Empty(t *testing.T) {
	h := BuildMonthlyHistory("millet", nil, time.Now(), 6)
	require.Len(t, h.Months, 6)
	assert.Zero(t, h.Samples)
	for _, m := range h.Months {
		assert.Zero(t, m.AveragePrice)
	}
}
