// Package export is the spreadsheet boundary: it takes named tables and a
// destination and writes them out, one CSV file per sheet, plus a markdown
// summary. It knows nothing about charts or formatting.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"emobot/internal/emo"
)

// Sheet is one named table handed to the export boundary.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// BuildSheets assembles the export workbook: a metrics summary, the
// upcoming-expiry window, expired records, the by-area report, and the
// full canonical roster. Detail sheets with no rows are omitted.
func BuildSheets(m *emo.Manager, reportWindowDays int) ([]Sheet, error) {
	priority := m.PriorityReport(emo.DefaultPriorityHorizon)
	quality := m.DataQuality()

	resumen := Sheet{
		Name:   "Resumen",
		Header: []string{"Metrica", "Valor"},
		Rows: [][]string{
			{"vencidos", strconv.Itoa(priority.Expired)},
			{"urgente_7_dias", strconv.Itoa(priority.Urgent)},
			{"alta_30_dias", strconv.Itoa(priority.High)},
			{"media_90_dias", strconv.Itoa(priority.Medium)},
			{"baja_mas_90_dias", strconv.Itoa(priority.Low)},
			{"total_validos", strconv.Itoa(priority.TotalValid)},
			{"fechas_invalidas", strconv.Itoa(quality.InvalidDates)},
			{"porcentaje_valido", strconv.FormatFloat(quality.ValidPercentage, 'f', 2, 64)},
		},
	}
	sheets := []Sheet{resumen}

	expiring, err := m.ExpiringSoon(reportWindowDays)
	if err != nil {
		return nil, err
	}
	if len(expiring) > 0 {
		s := Sheet{
			Name:   fmt.Sprintf("Proximos_%d_Dias", reportWindowDays),
			Header: []string{"Nombre", "Area", "Vence", "Dias_Restantes"},
		}
		for _, r := range expiring {
			s.Rows = append(s.Rows, []string{r.Name, r.Area, r.ExpiresOn.Format("2006-01-02"), strconv.Itoa(r.DaysLeft)})
		}
		sheets = append(sheets, s)
	}

	expired := m.Expired()
	if len(expired) > 0 {
		s := Sheet{
			Name:   "Vencidos",
			Header: []string{"Nombre", "Area", "Vencio", "Dias_Vencido"},
		}
		for _, r := range expired {
			s.Rows = append(s.Rows, []string{r.Name, r.Area, r.ExpiresOn.Format("2006-01-02"), strconv.Itoa(r.DaysOverdue)})
		}
		sheets = append(sheets, s)
	}

	areas, err := m.ReportByArea(reportWindowDays)
	if err != nil {
		return nil, err
	}
	if len(areas) > 0 {
		s := Sheet{
			Name:   "Reporte_Areas",
			Header: []string{"Area", "Cantidad", "Empleados", "Promedio_Dias"},
		}
		for _, a := range areas {
			s.Rows = append(s.Rows, []string{
				a.Area,
				strconv.Itoa(a.Count),
				strings.Join(a.Employees, ", "),
				strconv.FormatFloat(a.AvgDays, 'f', 1, 64),
			})
		}
		sheets = append(sheets, s)
	}

	datos := Sheet{
		Name:   "Datos_Completos",
		Header: []string{"Nombre", "Area", "Vence"},
	}
	for _, r := range m.Records() {
		date := ""
		if r.HasExpiry() {
			date = r.ExpiresOn.Format("2006-01-02")
		}
		datos.Rows = append(datos.Rows, []string{r.Name, r.Area, date})
	}
	sheets = append(sheets, datos)

	return sheets, nil
}

// WriteSheets writes one <Name>_<yyyymmdd>.csv per sheet into dir,
// creating it if needed, and returns the written paths.
func WriteSheets(dir string, reportDate time.Time, sheets []Sheet) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	var paths []string
	for _, sheet := range sheets {
		filename := fmt.Sprintf("%s_%s.csv", sheet.Name, reportDate.Format("20060102"))
		path := filepath.Join(dir, filename)
		if err := writeSheet(path, sheet); err != nil {
			return paths, fmt.Errorf("write sheet %s: %w", sheet.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeSheet(path string, sheet Sheet) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(sheet.Header); err != nil {
		return err
	}
	if err := w.WriteAll(sheet.Rows); err != nil {
		return err
	}
	return w.Error()
}

// BuildSummaryMarkdown renders the human-readable status summary that
// accompanies the CSV sheets.
func BuildSummaryMarkdown(teamName string, reportDate time.Time, priority emo.PriorityReport, quality emo.QualityReport, areas []emo.AreaRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s EMO status %s\n\n", teamName, reportDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "- **Expired**: %d\n", priority.Expired)
	fmt.Fprintf(&b, "- **Urgent (7 days)**: %d\n", priority.Urgent)
	fmt.Fprintf(&b, "- **High (30 days)**: %d\n", priority.High)
	fmt.Fprintf(&b, "- **Medium (90 days)**: %d\n", priority.Medium)
	fmt.Fprintf(&b, "- **Low (beyond 90 days)**: %d\n", priority.Low)
	fmt.Fprintf(&b, "- **Total with valid dates**: %d\n", priority.TotalValid)
	fmt.Fprintf(&b, "\nData quality: %d records, %d invalid dates (%.2f%% valid)\n",
		quality.TotalRecords, quality.InvalidDates, quality.ValidPercentage)

	if len(areas) > 0 {
		b.WriteString("\n#### Areas with upcoming expirations\n\n")
		for _, a := range areas {
			fmt.Fprintf(&b, "- **%s**: %d employees, avg %.1f days left (%s)\n",
				a.Area, a.Count, a.AvgDays, strings.Join(a.Employees, ", "))
		}
	}
	return b.String()
}

// WriteSummaryFile writes the markdown summary next to the sheets.
func WriteSummaryFile(content, outputDir string, reportDate time.Time, teamName string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	filename := fmt.Sprintf("%s_emo_%s.md", sanitizeFilename(teamName), reportDate.Format("20060102"))
	path := filepath.Join(outputDir, filename)
	return path, os.WriteFile(path, []byte(content), 0644)
}

func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_", " ", "_")
	return replacer.Replace(s)
}
