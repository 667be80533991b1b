package emo

import (
	"errors"
	"reflect"
	"testing"
)

func TestReportByAreaGroupsAndSorts(t *testing.T) {
	m := managerAt(t, RawTable{
		ColName:    {"Ana", "Luis", "Carla", "Pedro", "Marta"},
		ColArea:    {"IT", "RRHH", "IT", "RRHH", "RRHH"},
		ColExpires: {"2025-06-05", "2025-06-03", "2025-06-11", "2025-06-07", "2025-06-20"},
	}, "2025-06-01")

	rows, err := m.ReportByArea(30)
	if err != nil {
		t.Fatalf("ReportByArea failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 areas, got %d", len(rows))
	}

	// RRHH has 3 members, IT has 2: count-descending order.
	if rows[0].Area != "Rrhh" || rows[0].Count != 3 {
		t.Fatalf("expected Rrhh first with 3 members, got %+v", rows[0])
	}
	if rows[1].Area != "It" || rows[1].Count != 2 {
		t.Fatalf("expected It second with 2 members, got %+v", rows[1])
	}

	// Members are listed in DaysLeft order of first appearance:
	// Luis (2), Pedro (6), Marta (19).
	if !reflect.DeepEqual(rows[0].Employees, []string{"Luis", "Pedro", "Marta"}) {
		t.Fatalf("unexpected member order: %v", rows[0].Employees)
	}

	// Mean of 2, 6, 19 is 9, mean of 4, 10 is 7.
	if rows[0].AvgDays != 9.0 {
		t.Fatalf("expected Rrhh avg 9.0, got %v", rows[0].AvgDays)
	}
	if rows[1].AvgDays != 7.0 {
		t.Fatalf("expected It avg 7.0, got %v", rows[1].AvgDays)
	}
}

func TestReportByAreaRoundsMeanToOneDecimal(t *testing.T) {
	m := managerAt(t, RawTable{
		ColName:    {"A", "B", "C"},
		ColArea:    {"IT", "IT", "IT"},
		ColExpires: {"2025-06-02", "2025-06-03", "2025-06-05"},
	}, "2025-06-01")

	rows, err := m.ReportByArea(30)
	if err != nil {
		t.Fatalf("ReportByArea failed: %v", err)
	}
	// Mean of 1, 2, 4 is 2.333... -> 2.3.
	if rows[0].AvgDays != 2.3 {
		t.Fatalf("expected 2.3, got %v", rows[0].AvgDays)
	}
}

func TestReportByAreaTiesKeepEncounterOrder(t *testing.T) {
	m := managerAt(t, RawTable{
		ColName:    {"A", "B", "C", "D"},
		ColArea:    {"SSOMA", "IT", "SSOMA", "IT"},
		ColExpires: {"2025-06-02", "2025-06-03", "2025-06-04", "2025-06-05"},
	}, "2025-06-01")

	rows, err := m.ReportByArea(30)
	if err != nil {
		t.Fatalf("ReportByArea failed: %v", err)
	}
	if rows[0].Area != "Ssoma" || rows[1].Area != "It" {
		t.Fatalf("expected stable tie order Ssoma, It; got %v, %v", rows[0].Area, rows[1].Area)
	}
}

func TestReportByAreaEmptyWindow(t *testing.T) {
	m := managerAt(t, RawTable{
		ColName:    {"Ana"},
		ColArea:    {"IT"},
		ColExpires: {"2026-06-01"},
	}, "2025-06-01")

	rows, err := m.ReportByArea(7)
	if err != nil {
		t.Fatalf("ReportByArea failed: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty report, got %+v", rows)
	}
}

func TestReportByAreaPropagatesInvalidWindow(t *testing.T) {
	m := managerAt(t, RawTable{
		ColName:    {"Ana"},
		ColArea:    {"IT"},
		ColExpires: {"2025-06-05"},
	}, "2025-06-01")

	_, err := m.ReportByArea(0)
	var ierr *InvalidArgumentError
	if !errors.As(err, &ierr) {
		t.Fatalf("expected *InvalidArgumentError, got %v", err)
	}
}
