// =============================
// File: internal/pumpfun/chart.go
// =============================
package pumpfun

import (
	"fmt"
	"time"
)

// ChartPeriod - период графика начислений
type ChartPeriod string

const (
	Period1D  ChartPeriod = "1D"
	Period1W  ChartPeriod = "1W"
	Period1M  ChartPeriod = "1M"
	Period3M  ChartPeriod = "3M"
	Period1Y  ChartPeriod = "1Y"
	PeriodAll ChartPeriod = "ALL"

	DefaultChartPeriod = Period1M
)

const day = 24 * time.Hour

var periodWindows = map[ChartPeriod]time.Duration{
	Period1D:  day,
	Period1W:  7 * day,
	Period1M:  30 * day,
	Period3M:  90 * day,
	Period1Y:  365 * day,
	PeriodAll: 0,
}

// ParseChartPeriod проверяет название периода. Пустая строка - период по умолчанию.
func ParseChartPeriod(raw string) (ChartPeriod, error) {
	if raw == "" {
		return DefaultChartPeriod, nil
	}
	period := ChartPeriod(raw)
	if _, ok := periodWindows[period]; !ok {
		return "", fmt.Errorf("unknown chart period %q", raw)
	}
	return period, nil
}

// label возвращает подпись группы для момента времени
func (p ChartPeriod) label(t time.Time) string {
	switch p {
	case Period1D:
		return t.Format("03 PM")
	case Period1W:
		return t.Format("Mon")
	default:
		return t.Format("Jan 2")
	}
}

// FormatRewardsChartData группирует историю выводов по часам, дням недели или датам
// в пределах периода. Порядок точек - порядок первого появления подписи.
func FormatRewardsChartData(history []RewardsHistory, period ChartPeriod) []ChartDataPoint {
	return formatChart(history, period, time.Now())
}

func formatChart(history []RewardsHistory, period ChartPeriod, now time.Time) []ChartDataPoint {
	window, ok := periodWindows[period]
	if !ok {
		window = periodWindows[DefaultChartPeriod]
		period = DefaultChartPeriod
	}

	var cutoff int64
	hasCutoff := window > 0
	if hasCutoff {
		cutoff = now.Add(-window).Unix()
	}

	sums := make(map[string]float64)
	order := make([]string, 0)
	for _, item := range history {
		if hasCutoff && item.Timestamp < cutoff {
			continue
		}
		label := period.label(time.Unix(item.Timestamp, 0).UTC())
		if _, seen := sums[label]; !seen {
			order = append(order, label)
		}
		sums[label] += item.Amount
	}

	points := make([]ChartDataPoint, 0, len(order))
	stamp := now.UnixMilli()
	for _, label := range order {
		points = append(points, ChartDataPoint{
			Timestamp: stamp,
			Value:     sums[label],
			Label:     label,
		})
	}
	return points
}
