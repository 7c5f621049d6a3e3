package model

import (
	"math"
	"sort"
)

// DashboardMetrics summarizes a list of records for the dashboard cards.
type DashboardMetrics struct {
	TotalOperations    int `json:"totalOperations"`
	Validations        int `json:"validations"`
	Transformations    int `json:"transformations"`
	Successes          int `json:"successes"`
	Errors             int `json:"errors"`
	Pending            int `json:"pending"`
	SuccessRate        int `json:"successRate"`
	ErrorRate          int `json:"errorRate"`
	ValidationRate     int `json:"validationRate"`
	TransformationRate int `json:"transformationRate"`
}

// ComputeMetrics counts records by type and status. Rates are whole percentages
// rounded half away from zero, and zero when there are no records.
func ComputeMetrics(records []OperationRecord) DashboardMetrics {
	var m DashboardMetrics
	for _, r := range records {
		switch r.OperationType {
		case OperationValidation:
			m.Validations++
		case OperationTransformation:
			m.Transformations++
		}
		switch r.Status {
		case StatusSuccess:
			m.Successes++
		case StatusError:
			m.Errors++
		case StatusPending:
			m.Pending++
		}
	}
	m.TotalOperations = len(records)
	m.SuccessRate = percent(m.Successes, m.TotalOperations)
	m.ErrorRate = percent(m.Errors, m.TotalOperations)
	m.ValidationRate = percent(m.Validations, m.TotalOperations)
	m.TransformationRate = percent(m.Transformations, m.TotalOperations)
	return m
}

func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// BreakdownSlice is one labelled segment of a breakdown chart.
type BreakdownSlice struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
	Rounded int     `json:"rounded"`
}

// Breakdown is an ordered set of segments plus their total.
type Breakdown struct {
	Total  int              `json:"total"`
	Slices []BreakdownSlice `json:"slices"`
}

// NewBreakdown orders counts by descending count then label and computes each
// segment's share of the total.
func NewBreakdown(counts map[string]int) Breakdown {
	b := Breakdown{Slices: make([]BreakdownSlice, 0, len(counts))}
	for label, n := range counts {
		b.Total += n
		b.Slices = append(b.Slices, BreakdownSlice{Label: label, Count: n})
	}
	sort.Slice(b.Slices, func(i, j int) bool {
		if b.Slices[i].Count != b.Slices[j].Count {
			return b.Slices[i].Count > b.Slices[j].Count
		}
		return b.Slices[i].Label < b.Slices[j].Label
	})
	for i := range b.Slices {
		if b.Total > 0 {
			b.Slices[i].Percent = float64(b.Slices[i].Count) / float64(b.Total) * 100
		}
		b.Slices[i].Rounded = percent(b.Slices[i].Count, b.Total)
	}
	return b
}
