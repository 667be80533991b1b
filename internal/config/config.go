package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type Config struct {
	RosterPath      string `yaml:"roster_path"`
	DBPath          string `yaml:"db_path"`
	ReportOutputDir string `yaml:"report_output_dir"`

	ReportWindowDays int `yaml:"report_window_days"`
	AlertWindowDays  int `yaml:"alert_window_days"`

	AlertSchedule string `yaml:"alert_schedule"`
	Timezone      string `yaml:"timezone"`
	TeamName      string `yaml:"team_name"`

	SlackBotToken  string `yaml:"slack_bot_token"`
	SlackChannelID string `yaml:"slack_channel_id"`

	LLMModel        string `yaml:"llm_model"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`

	Location *time.Location `yaml:"-"`
}

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.RosterPath, "ROSTER_PATH")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.ReportOutputDir, "REPORT_OUTPUT_DIR")
	envOverrideInt(&cfg.ReportWindowDays, "REPORT_WINDOW_DAYS")
	envOverrideInt(&cfg.AlertWindowDays, "ALERT_WINDOW_DAYS")
	envOverride(&cfg.AlertSchedule, "ALERT_SCHEDULE")
	envOverride(&cfg.Timezone, "TIMEZONE")
	envOverride(&cfg.TeamName, "TEAM_NAME")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.SlackChannelID, "SLACK_CHANNEL_ID")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")

	// Defaults
	if cfg.DBPath == "" {
		cfg.DBPath = "./emobot.db"
	}
	if cfg.ReportOutputDir == "" {
		cfg.ReportOutputDir = "./reports"
	}
	if cfg.ReportWindowDays == 0 {
		cfg.ReportWindowDays = 30
	}
	if cfg.AlertWindowDays == 0 {
		cfg.AlertWindowDays = 7
	}
	if cfg.AlertSchedule == "" {
		cfg.AlertSchedule = "0 9 * * *"
	}
	if cfg.TeamName == "" {
		cfg.TeamName = "My Team"
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = "claude-3-5-haiku-latest"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}

	if cfg.Timezone == "Local" {
		cfg.Location = time.Local
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("invalid timezone '%s': %v", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	if cfg.ReportWindowDays < 1 {
		log.Fatalf("invalid report_window_days '%d': must be >= 1", cfg.ReportWindowDays)
	}
	if cfg.AlertWindowDays < 1 {
		log.Fatalf("invalid alert_window_days '%d': must be >= 1", cfg.AlertWindowDays)
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(cfg.AlertSchedule); err != nil {
		log.Fatalf("invalid alert_schedule '%s': %v", cfg.AlertSchedule, err)
	}

	// Slack is optional, but half a configuration is a mistake.
	if (cfg.SlackBotToken == "") != (cfg.SlackChannelID == "") {
		log.Fatalf("slack_bot_token and slack_channel_id must be set together")
	}

	return cfg
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.SlackChannelID != ""
}

func (c Config) LLMConfigured() bool {
	return c.AnthropicAPIKey != ""
}
