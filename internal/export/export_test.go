package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"emobot/internal/emo"
)

func exportTestManager(t *testing.T) *emo.Manager {
	t.Helper()
	m, err := emo.NewManager(emo.RawTable{
		emo.ColName:    {"juan pérez", "MARÍA GONZÁLEZ", "Carlos López", "Ana Torres"},
		emo.ColArea:    {"it", "RRHH", "IT", "rrhh"},
		emo.ColExpires: {"2100-07-15", "", "2000-12-01", "2100-07-20"},
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestBuildSheets(t *testing.T) {
	m := exportTestManager(t)

	sheets, err := BuildSheets(m, 30)
	if err != nil {
		t.Fatalf("BuildSheets failed: %v", err)
	}

	byName := make(map[string]Sheet, len(sheets))
	for _, s := range sheets {
		byName[s.Name] = s
	}

	resumen, ok := byName["Resumen"]
	if !ok {
		t.Fatalf("expected Resumen sheet, got %v", names(sheets))
	}
	metrics := make(map[string]string, len(resumen.Rows))
	for _, row := range resumen.Rows {
		metrics[row[0]] = row[1]
	}
	if metrics["total_validos"] != "3" {
		t.Fatalf("expected total_validos=3, got %q", metrics["total_validos"])
	}
	if metrics["vencidos"] != "1" {
		t.Fatalf("expected vencidos=1, got %q", metrics["vencidos"])
	}
	if metrics["fechas_invalidas"] != "1" {
		t.Fatalf("expected fechas_invalidas=1, got %q", metrics["fechas_invalidas"])
	}
	if metrics["porcentaje_valido"] != "75.00" {
		t.Fatalf("expected porcentaje_valido=75.00, got %q", metrics["porcentaje_valido"])
	}

	vencidos, ok := byName["Vencidos"]
	if !ok || len(vencidos.Rows) != 1 {
		t.Fatalf("expected Vencidos sheet with 1 row, got %+v", vencidos)
	}
	if vencidos.Rows[0][0] != "Carlos López" {
		t.Fatalf("unexpected expired record: %v", vencidos.Rows[0])
	}

	// Nothing expires within 30 days of now, so the window and area sheets
	// are omitted.
	if _, ok := byName["Proximos_30_Dias"]; ok {
		t.Fatal("expected empty window sheet to be omitted")
	}
	if _, ok := byName["Reporte_Areas"]; ok {
		t.Fatal("expected empty area sheet to be omitted")
	}

	datos, ok := byName["Datos_Completos"]
	if !ok || len(datos.Rows) != 4 {
		t.Fatalf("expected full roster sheet with 4 rows, got %+v", datos)
	}
	if datos.Rows[1][2] != "" {
		t.Fatalf("expected empty date cell for invalid date, got %q", datos.Rows[1][2])
	}
}

func names(sheets []Sheet) []string {
	out := make([]string, len(sheets))
	for i, s := range sheets {
		out[i] = s.Name
	}
	return out
}

func TestWriteSheets(t *testing.T) {
	dir := t.TempDir()
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	sheets := []Sheet{
		{Name: "Resumen", Header: []string{"Metrica", "Valor"}, Rows: [][]string{{"vencidos", "1"}}},
		{Name: "Vencidos", Header: []string{"Nombre", "Area"}, Rows: [][]string{{"Carlos López", "It"}}},
	}

	paths, err := WriteSheets(dir, date, sheets)
	if err != nil {
		t.Fatalf("WriteSheets failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 files, got %v", paths)
	}
	if filepath.Base(paths[0]) != "Resumen_20250601.csv" {
		t.Fatalf("unexpected filename: %s", paths[0])
	}

	f, err := os.Open(paths[1])
	if err != nil {
		t.Fatalf("open written sheet: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read written sheet: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "Carlos López" {
		t.Fatalf("unexpected sheet content: %v", rows)
	}
}

func TestBuildSummaryMarkdown(t *testing.T) {
	priority := emo.PriorityReport{Expired: 1, Urgent: 2, TotalValid: 3}
	quality := emo.QualityReport{TotalRecords: 4, ValidDates: 3, InvalidDates: 1, ValidPercentage: 75}
	areas := []emo.AreaRow{{Area: "It", Count: 2, Employees: []string{"Ana", "Luis"}, AvgDays: 3.5}}

	md := BuildSummaryMarkdown("Planta Norte", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), priority, quality, areas)

	for _, want := range []string{
		"### Planta Norte EMO status 2025-06-01",
		"**Expired**: 1",
		"**Urgent (7 days)**: 2",
		"75.00% valid",
		"**It**: 2 employees, avg 3.5 days left (Ana, Luis)",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("summary missing %q:\n%s", want, md)
		}
	}
}

func TestWriteSummaryFileSanitizesTeamName(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteSummaryFile("content", dir, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "Planta Norte/Sur")
	if err != nil {
		t.Fatalf("WriteSummaryFile failed: %v", err)
	}
	if filepath.Base(path) != "Planta_Norte_Sur_emo_20250601.md" {
		t.Fatalf("unexpected filename: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "content" {
		t.Fatalf("unexpected file content: %q, %v", data, err)
	}
}
