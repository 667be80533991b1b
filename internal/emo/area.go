package emo

import (
	"math"
	"sort"
)

// AreaRow is one aggregated row of the by-area report.
type AreaRow struct {
	Area      string
	Count     int
	Employees []string // first-appearance order within the group
	AvgDays   float64  // mean DaysLeft, rounded to 1 decimal
}

// ReportByArea groups the daysAhead expiry window by area and sorts the
// rows by count descending, ties kept in first-encounter order. An empty
// window yields an empty report, not an error.
func (m *Manager) ReportByArea(daysAhead int) ([]AreaRow, error) {
	expiring, err := m.ExpiringSoon(daysAhead)
	if err != nil {
		return nil, err
	}
	return groupByArea(expiring), nil
}

func groupByArea(records []ClassifiedRecord) []AreaRow {
	index := make(map[string]int, len(records))
	rows := make([]AreaRow, 0)
	sums := make([]int, 0)
	for _, r := range records {
		i, ok := index[r.Area]
		if !ok {
			i = len(rows)
			index[r.Area] = i
			rows = append(rows, AreaRow{Area: r.Area})
			sums = append(sums, 0)
		}
		rows[i].Count++
		rows[i].Employees = append(rows[i].Employees, r.Name)
		sums[i] += r.DaysLeft
	}
	for i := range rows {
		rows[i].AvgDays = math.Round(float64(sums[i])/float64(rows[i].Count)*10) / 10
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	return rows
}
