package briefing

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/premeet/premeet/internal/models"
)

// Render maps a canonical meeting to an email subject and HTML body. It is
// pure: the same meeting and reference time always produce identical
// output, and the meeting is never mutated. now anchors the today/tomorrow
// phrasing.
func Render(m models.Meeting, now time.Time) (subject, html string) {
	subject = fmt.Sprintf("Briefing: %s %s", m.Summary, subjectPhrase(m.Start, now))
	html = renderHTML(m, now)
	return subject, html
}

// subjectPhrase renders the human-relative start time: "today at 3:04 PM",
// "tomorrow at 3:04 PM" or "on Monday, January 2 at 3:04 PM".
func subjectPhrase(start, now time.Time) string {
	clock := formatClock(start)
	switch {
	case sameDate(start, now):
		return "today at " + clock
	case sameDate(start, now.AddDate(0, 0, 1)):
		return "tomorrow at " + clock
	default:
		return fmt.Sprintf("on %s at %s", start.Format("Monday, January 2"), clock)
	}
}

// dateLabel is the body variant of the relative date.
func dateLabel(start, now time.Time) string {
	switch {
	case sameDate(start, now):
		return "Today"
	case sameDate(start, now.AddDate(0, 0, 1)):
		return "Tomorrow"
	default:
		return start.Format("Monday, January 2")
	}
}

func sameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func formatClock(t time.Time) string {
	return t.Format("3:04 PM")
}

// capitalize upper-cases the first rune of a response status for display.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func renderHTML(m models.Meeting, now time.Time) string {
	var rows strings.Builder
	if len(m.Attendees) == 0 {
		rows.WriteString(`<tr><td colspan="2" style="padding: 16px 0; color: #6b7280; font-style: italic;">Just you</td></tr>`)
	} else {
		for _, a := range m.Attendees {
			label := a.DisplayName
			detail := ""
			if label == "" {
				label = a.Email
			} else {
				detail = fmt.Sprintf(" (%s)", a.Email)
			}
			rows.WriteString(fmt.Sprintf(`
        <tr>
          <td style="padding: 8px 0; border-bottom: 1px solid #e5e7eb;">
            <span style="color: #374151;">%s</span>
            <span style="color: #6b7280; font-size: 14px;">%s</span>
          </td>
          <td style="padding: 8px 0; border-bottom: 1px solid #e5e7eb; text-align: right;">
            <span style="color: #6b7280; font-size: 14px;">%s</span>
          </td>
        </tr>`, label, detail, capitalize(a.ResponseStatus)))
		}
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Meeting Briefing</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background-color: #f9fafb;">
  <table width="100%%" cellpadding="0" cellspacing="0" style="background-color: #f9fafb; padding: 40px 20px;">
    <tr>
      <td align="center">
        <table width="100%%" cellpadding="0" cellspacing="0" style="background-color: #ffffff; border-radius: 12px; box-shadow: 0 1px 3px rgba(0,0,0,0.1); max-width: 600px;">
          <tr>
            <td style="padding: 32px 32px 24px; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #111827;">PreMeet</h1>
              <p style="margin: 4px 0 0; font-size: 14px; color: #6b7280;">Meeting briefing</p>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <h2 style="margin: 0 0 8px; font-size: 20px; font-weight: 600; color: #111827;">%s</h2>
              <p style="margin: 0; font-size: 16px; color: #4b5563;">%s at %s &ndash; %s</p>
            </td>
          </tr>
          <tr>
            <td style="padding: 0 32px 32px;">
              <h3 style="margin: 0 0 16px; font-size: 14px; font-weight: 600; color: #374151; text-transform: uppercase; letter-spacing: 0.05em;">Attendees (%d)</h3>
              <table width="100%%" cellpadding="0" cellspacing="0" style="font-size: 15px;">%s
              </table>
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 32px; border-top: 1px solid #e5e7eb; text-align: center;">
              <p style="margin: 0; font-size: 13px; color: #9ca3af;">Sent by PreMeet &middot; Your meeting assistant</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`,
		m.Summary,
		dateLabel(m.Start, now),
		formatClock(m.Start),
		formatClock(m.End),
		len(m.Attendees),
		rows.String(),
	)
}
