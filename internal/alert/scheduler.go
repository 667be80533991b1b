// Package alert runs the scheduled expiry check: rebuild the engine from
// the stored roster, compute what is expired or about to expire, post the
// alert, journal the run.
package alert

import (
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/slack-go/slack"

	"emobot/internal/config"
	"emobot/internal/emo"
	"emobot/internal/notify"
	"emobot/internal/storage/sqlite"
)

// Summarizer produces an optional executive summary appended to the alert.
type Summarizer func(priority emo.PriorityReport, quality emo.QualityReport, areas []emo.AreaRow) (string, error)

// Injection point for tests.
var postAlertFn = notify.PostAlert

// Start launches the cron-driven expiry check. The schedule is a standard
// 5-field cron expression (minute hour day-of-month month day-of-week).
// Examples: "0 9 * * *" (daily 9am), "0 9 * * 1-5" (weekdays 9am).
func Start(cfg config.Config, db *sql.DB, api *slack.Client, summarize Summarizer) {
	schedule := strings.TrimSpace(cfg.AlertSchedule)
	if schedule == "" {
		log.Println("Expiry alerts disabled (alert_schedule not set)")
		return
	}
	if !cfg.SlackConfigured() {
		log.Println("Expiry alerts disabled: Slack is not configured")
		return
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		log.Printf("Invalid alert_schedule '%s': %v, alerts disabled", schedule, err)
		return
	}

	log.Printf("Expiry alert scheduled (cron: %s) window=%dd channel=%s",
		schedule, cfg.AlertWindowDays, cfg.SlackChannelID)

	go func() {
		for {
			now := time.Now().In(cfg.Location)
			next := sched.Next(now)
			log.Printf("Next expiry check at %s (in %s)", next.Format("Mon Jan 2 15:04"), next.Sub(now).Round(time.Minute))

			time.Sleep(next.Sub(now))

			if err := RunOnce(cfg, db, api, summarize); err != nil {
				log.Printf("Expiry check error: %v", err)
			}
		}
	}()
}

// RunOnce performs a single expiry check against the stored roster. Each
// run builds a fresh Manager, so no cached result can straddle a day
// boundary.
func RunOnce(cfg config.Config, db *sql.DB, api *slack.Client, summarize Summarizer) error {
	raw, err := sqlite.LoadRoster(db)
	if err != nil {
		return err
	}
	m, err := emo.NewManager(raw)
	if err != nil {
		return err
	}

	expired := m.Expired()
	soon, err := m.ExpiringSoon(cfg.AlertWindowDays)
	if err != nil {
		return err
	}
	log.Printf("Expiry check complete expired=%d expiring=%d window=%dd", len(expired), len(soon), cfg.AlertWindowDays)

	text := notify.BuildAlertMessage(cfg.TeamName, expired, soon, cfg.AlertWindowDays)
	if summarize != nil {
		if areas, aerr := m.ReportByArea(cfg.AlertWindowDays); aerr == nil {
			summary, serr := summarize(m.PriorityReport(emo.DefaultPriorityHorizon), m.DataQuality(), areas)
			if serr != nil {
				log.Printf("Expiry alert summary skipped: %v", serr)
			} else if summary != "" {
				text += "\n\n_" + summary + "_"
			}
		}
	}

	posted := false
	if err := postAlertFn(api, cfg.SlackChannelID, text); err != nil {
		log.Printf("Expiry alert post error: %v", err)
	} else {
		posted = true
	}

	run := sqlite.AlertRun{
		RunAt:   time.Now().In(cfg.Location),
		Expired: len(expired),
		Urgent:  len(soon),
		Posted:  posted,
	}
	if err := sqlite.InsertAlertRun(db, run); err != nil {
		log.Printf("Expiry alert journal error: %v", err)
	}
	return nil
}
