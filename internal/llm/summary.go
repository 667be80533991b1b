// Package llm produces an optional natural-language executive summary of
// the compliance numbers, appended to the scheduled Slack alert.
package llm

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"emobot/internal/config"
	"emobot/internal/emo"
)

const systemPrompt = "You are an HR compliance assistant. Write a short executive summary " +
	"(3 to 5 sentences, plain text, no markdown, no preamble) of the employee medical exam " +
	"status report you are given. Lead with the most urgent numbers and name the areas that " +
	"need attention."

// BuildPrompt renders the report the model is asked to summarize.
func BuildPrompt(teamName string, priority emo.PriorityReport, quality emo.QualityReport, areas []emo.AreaRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Team: %s\n", teamName)
	fmt.Fprintf(&b, "Expired: %d\n", priority.Expired)
	fmt.Fprintf(&b, "Due within 7 days: %d\n", priority.Urgent)
	fmt.Fprintf(&b, "Due within 30 days: %d\n", priority.High)
	fmt.Fprintf(&b, "Due within 90 days: %d\n", priority.Medium)
	fmt.Fprintf(&b, "Beyond 90 days: %d\n", priority.Low)
	fmt.Fprintf(&b, "Total with valid dates: %d\n", priority.TotalValid)
	fmt.Fprintf(&b, "Records: %d total, %d with unparseable dates (%.2f%% valid)\n",
		quality.TotalRecords, quality.InvalidDates, quality.ValidPercentage)
	if len(areas) > 0 {
		b.WriteString("Areas with upcoming expirations:\n")
		for _, a := range areas {
			fmt.Fprintf(&b, "- %s: %d employees, avg %.1f days left\n", a.Area, a.Count, a.AvgDays)
		}
	}
	return b.String()
}

// Summarize asks the configured model for an executive summary. Callers
// treat any error as "no summary available".
func Summarize(cfg config.Config, priority emo.PriorityReport, quality emo.QualityReport, areas []emo.AreaRow) (string, error) {
	client := anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey))

	message, err := client.Messages.New(context.Background(), anthropic.MessageNewParams{
		Model:     anthropic.Model(cfg.LLMModel),
		MaxTokens: 512,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(cfg.TeamName, priority, quality, areas))),
		},
	})
	if err != nil {
		log.Printf("llm anthropic error: %v", err)
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			log.Printf("llm anthropic response size=%d tokens_in=%d tokens_out=%d",
				len(block.Text), message.Usage.InputTokens, message.Usage.OutputTokens)
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", fmt.Errorf("no text content in Anthropic response")
}
