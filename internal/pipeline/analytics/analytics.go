// Package analytics derives pipeline dashboard statistics from stored
// aggregates. Figures are computed on demand and are not snapshot-isolated
// from concurrent stage changes.
package analytics

import (
	"math"
	"time"

	"homefinder_backend/internal/pipeline/domain"
)

// Aggregates are the raw counts and sums read from the store.
type Aggregates struct {
	StageCounts map[domain.Stage]int
	// DealValueSum and DealValueCount cover entries with a non-null deal value.
	DealValueSum         int64
	DealValueCount       int
	LeadsThisMonth       int
	ConversionsThisMonth int
	RevenueThisMonth     int64
	// AvgDaysToClose is nil when no deal has been won.
	AvgDaysToClose *float64
}

// Stats is the dashboard view of pipeline health.
type Stats struct {
	TotalLeads           int
	LeadsByStage         map[domain.Stage]int
	TotalDealValue       int64
	AvgDealValue         float64
	ConversionRate       float64
	LeadsThisMonth       int
	ConversionsThisMonth int
	RevenueThisMonth     int64
	AvgDaysToClose       *float64
	MonthStart           time.Time
}

// Compute builds Stats from a for the month starting at monthStart. Stages
// with no entries are absent from LeadsByStage.
func Compute(a Aggregates, monthStart time.Time) Stats {
	byStage := make(map[domain.Stage]int, len(a.StageCounts))
	total := 0
	for stage, count := range a.StageCounts {
		if count == 0 {
			continue
		}
		byStage[stage] = count
		total += count
	}

	return Stats{
		TotalLeads:           total,
		LeadsByStage:         byStage,
		TotalDealValue:       a.DealValueSum,
		AvgDealValue:         average(a.DealValueSum, a.DealValueCount),
		ConversionRate:       ConversionRate(byStage[domain.StageClosedWon], byStage[domain.StageClosedLost]),
		LeadsThisMonth:       a.LeadsThisMonth,
		ConversionsThisMonth: a.ConversionsThisMonth,
		RevenueThisMonth:     a.RevenueThisMonth,
		AvgDaysToClose:       a.AvgDaysToClose,
		MonthStart:           monthStart,
	}
}

// ConversionRate is won / (won + lost) as a percentage, 0 when nothing has closed.
func ConversionRate(won, lost int) float64 {
	closed := won + lost
	if closed == 0 {
		return 0
	}
	return round2(float64(won) / float64(closed) * 100)
}

// MonthStart is the first instant of now's calendar month in UTC.
func MonthStart(now time.Time) time.Time {
	utc := now.UTC()
	return time.Date(utc.Year(), utc.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func average(sum int64, count int) float64 {
	if count == 0 {
		return 0
	}
	return round2(float64(sum) / float64(count))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
