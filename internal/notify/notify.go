// Package notify formats and posts expiry alerts to Slack. Only the
// outbound side exists; the bot accepts no commands.
package notify

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"emobot/internal/emo"
)

// maxListed caps how many records are itemized per section; the counts in
// the headline always cover everything.
const maxListed = 10

// BuildAlertMessage formats the expiry alert posted to the report channel.
func BuildAlertMessage(teamName string, expired []emo.ExpiredRecord, soon []emo.ClassifiedRecord, windowDays int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s EMO check*: %d expired, %d expiring within %d days",
		teamName, len(expired), len(soon), windowDays)

	if len(expired) == 0 && len(soon) == 0 {
		b.WriteString("\nAll medical exams are up to date.")
		return b.String()
	}

	if len(expired) > 0 {
		b.WriteString("\n\n*Expired:*")
		for i, r := range expired {
			if i == maxListed {
				fmt.Fprintf(&b, "\n  ... and %d more", len(expired)-maxListed)
				break
			}
			fmt.Fprintf(&b, "\n  • %s (%s): %d days overdue", r.Name, r.Area, r.DaysOverdue)
		}
	}

	if len(soon) > 0 {
		b.WriteString("\n\n*Expiring soon:*")
		for i, r := range soon {
			if i == maxListed {
				fmt.Fprintf(&b, "\n  ... and %d more", len(soon)-maxListed)
				break
			}
			switch r.DaysLeft {
			case 0:
				fmt.Fprintf(&b, "\n  • %s (%s): expires today", r.Name, r.Area)
			default:
				fmt.Fprintf(&b, "\n  • %s (%s): %d days left", r.Name, r.Area, r.DaysLeft)
			}
		}
	}

	return b.String()
}

// PostAlert posts the alert text to the given channel.
func PostAlert(api *slack.Client, channelID, text string) error {
	_, _, err := api.PostMessage(channelID, slack.MsgOptionText(text, false))
	return err
}
