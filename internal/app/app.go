// Package app wires configuration, storage, and the engine behind the
// emobot commands.
package app

import (
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/slack-go/slack"

	"emobot/internal/alert"
	"emobot/internal/config"
	"emobot/internal/emo"
	"emobot/internal/export"
	"emobot/internal/llm"
	"emobot/internal/roster"
	"emobot/internal/storage/sqlite"
)

func Main() {
	cfg := config.LoadConfig()
	log.Printf("Config loaded. Team=%s DB=%s OutputDir=%s ReportWindow=%dd AlertWindow=%dd Slack=%v LLM=%v",
		cfg.TeamName, cfg.DBPath, cfg.ReportOutputDir, cfg.ReportWindowDays, cfg.AlertWindowDays,
		cfg.SlackConfigured(), cfg.LLMConfigured())

	db, err := sqlite.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	defer db.Close()

	cmd := "report"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "import":
		if len(os.Args) < 3 {
			log.Fatalf("usage: emobot import <roster.csv>")
		}
		runImport(db, os.Args[2])
	case "report":
		runReport(cfg, db)
	case "serve":
		runServe(cfg, db)
	default:
		log.Fatalf("unknown command '%s' (want import, report, or serve)", cmd)
	}
}

func runImport(db *sql.DB, path string) {
	raw, err := roster.LoadCSV(path)
	if err != nil {
		log.Fatalf("Failed to read roster: %v", err)
	}
	// Validate before storing so a broken file never replaces a good roster.
	if _, err := emo.NewManager(raw); err != nil {
		log.Fatalf("Roster validation failed: %v", err)
	}
	inserted, err := sqlite.ReplaceRoster(db, raw)
	if err != nil {
		log.Fatalf("Failed to store roster: %v", err)
	}
	log.Printf("Roster imported rows=%d from %s", inserted, path)
}

func runReport(cfg config.Config, db *sql.DB) {
	m, err := emo.NewManager(loadRawTable(cfg, db))
	if err != nil {
		log.Fatalf("Invalid roster: %v", err)
	}

	quality := m.DataQuality()
	priority := m.PriorityReport(emo.DefaultPriorityHorizon)
	log.Printf("Roster loaded records=%d valid_dates=%d invalid_dates=%d valid_pct=%.2f duplicates_removed=%d",
		quality.TotalRecords, quality.ValidDates, quality.InvalidDates, quality.ValidPercentage, m.DuplicatesRemoved())
	log.Printf("Priority report expired=%d urgent=%d high=%d medium=%d low=%d total_valid=%d",
		priority.Expired, priority.Urgent, priority.High, priority.Medium, priority.Low, priority.TotalValid)

	sheets, err := export.BuildSheets(m, cfg.ReportWindowDays)
	if err != nil {
		log.Fatalf("Failed to build export: %v", err)
	}
	now := time.Now().In(cfg.Location)
	paths, err := export.WriteSheets(cfg.ReportOutputDir, now, sheets)
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}
	log.Printf("Export complete sheets=%d dir=%s", len(paths), cfg.ReportOutputDir)

	areas, err := m.ReportByArea(cfg.ReportWindowDays)
	if err != nil {
		log.Fatalf("Failed to build area report: %v", err)
	}
	summary := export.BuildSummaryMarkdown(cfg.TeamName, now, priority, quality, areas)
	summaryPath, err := export.WriteSummaryFile(summary, cfg.ReportOutputDir, now, cfg.TeamName)
	if err != nil {
		log.Fatalf("Failed to write summary: %v", err)
	}
	log.Printf("Summary written to %s", summaryPath)
}

// loadRawTable prefers the configured CSV; the stored roster is the
// fallback between imports.
func loadRawTable(cfg config.Config, db *sql.DB) emo.RawTable {
	if cfg.RosterPath != "" {
		raw, err := roster.LoadCSV(cfg.RosterPath)
		if err != nil {
			log.Fatalf("Failed to read roster %s: %v", cfg.RosterPath, err)
		}
		return raw
	}
	raw, err := sqlite.LoadRoster(db)
	if err != nil {
		log.Fatalf("Failed to load stored roster: %v", err)
	}
	return raw
}

func runServe(cfg config.Config, db *sql.DB) {
	if !cfg.SlackConfigured() {
		log.Fatalf("serve requires slack_bot_token and slack_channel_id")
	}

	api := slack.New(cfg.SlackBotToken)

	var summarize alert.Summarizer
	if cfg.LLMConfigured() {
		summarize = func(priority emo.PriorityReport, quality emo.QualityReport, areas []emo.AreaRow) (string, error) {
			return llm.Summarize(cfg, priority, quality, areas)
		}
	} else {
		log.Println("LLM summary disabled (anthropic_api_key not set)")
	}

	alert.Start(cfg, db, api, summarize)

	log.Println("Starting EMO expiry bot...")
	select {}
}
