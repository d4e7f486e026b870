package pumpfun

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChartPeriod(t *testing.T) {
	for _, raw := range []string{"1D", "1W", "1M", "3M", "1Y", "ALL"} {
		p, err := ParseChartPeriod(raw)
		require.NoError(t, err)
		assert.Equal(t, ChartPeriod(raw), p)
	}

	p, err := ParseChartPeriod("")
	require.NoError(t, err)
	assert.Equal(t, Period1M, p)

	_, err = ParseChartPeriod("2W")
	assert.Error(t, err)
}

func TestFormatChart(t *testing.T) {
	now := time.Date(2024, time.March, 15, 18, 0, 0, 0, time.UTC)
	at := func(d time.Duration) int64 { return now.Add(-d).Unix() }

	// 16:00 и 16:10 Fri Mar 15, 15:00 Fri Mar 15, Wed Mar 13, Jan 15, за пределами года
	history := []RewardsHistory{
		{Timestamp: at(2 * time.Hour), Amount: 1},
		{Timestamp: at(110 * time.Minute), Amount: 0.5},
		{Timestamp: at(3 * time.Hour), Amount: 2},
		{Timestamp: at(48 * time.Hour), Amount: 4},
		{Timestamp: at(60 * 24 * time.Hour), Amount: 8},
		{Timestamp: at(400 * 24 * time.Hour), Amount: 16},
	}

	tests := []struct {
		period ChartPeriod
		want   []ChartDataPoint
	}{
		{Period1D, []ChartDataPoint{{Label: "04 PM", Value: 1.5}, {Label: "03 PM", Value: 2}}},
		{Period1W, []ChartDataPoint{{Label: "Fri", Value: 3.5}, {Label: "Wed", Value: 4}}},
		{Period1M, []ChartDataPoint{{Label: "Mar 15", Value: 3.5}, {Label: "Mar 13", Value: 4}}},
		{Period3M, []ChartDataPoint{{Label: "Mar 15", Value: 3.5}, {Label: "Mar 13", Value: 4}, {Label: "Jan 15", Value: 8}}},
		{PeriodAll, []ChartDataPoint{
			{Label: "Mar 15", Value: 3.5}, {Label: "Mar 13", Value: 4}, {Label: "Jan 15", Value: 8}, {Label: "Feb 9", Value: 16},
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			got := formatChart(history, tt.period, now)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i].Label, got[i].Label)
				assert.InDelta(t, tt.want[i].Value, got[i].Value, 1e-12)
				assert.Equal(t, now.UnixMilli(), got[i].Timestamp)
			}
		})
	}
}

func TestFormatChartEmpty(t *testing.T) {
	got := FormatRewardsChartData(nil, Period1Y)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
