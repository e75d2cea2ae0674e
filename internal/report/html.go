// Package report renders the snapshot batch into a self-contained,
// auto-refreshing HTML document.
package report

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/licwatch/licwatch-cli/internal/license"
)

// RefreshSeconds is the client-side auto-refresh interval baked into the
// document. It is fixed at 300s regardless of the configured polling
// interval; the browser re-reads whatever the monitor last wrote.
const RefreshSeconds = 300

// Placeholder is rendered in place of unknown numeric values. The CSV log
// uses empty cells instead; the report is for humans, the log for machines.
const Placeholder = "?"

// statusClass maps a record status to the CSS class of its table cell.
func statusClass(s license.Status) string {
	switch s {
	case license.StatusOK:
		return "status-ok"
	case license.StatusFullyUsed:
		return "status-err"
	default:
		// Unknown parse and Over-reported both warrant attention.
		return "status-warn"
	}
}

// RenderHTML renders records into a complete HTML document. It never fails:
// an empty batch produces a valid document with an empty table body. All
// user-supplied text is escaped before embedding.
func RenderHTML(records []license.UsageRecord, title string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="%d">
<title>%s</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; }
table { border-collapse: collapse; width: 100%%; max-width: 1000px; }
th, td { border: 1px solid #ccc; padding: 8px; text-align: left; }
th { background: #f7f7f7; }
.status-ok { color: #0a7a0a; font-weight: 600; }
.status-warn { color: #cc7a00; font-weight: 600; }
.status-err { color: #b00020; font-weight: 600; }
.small { color: #666; font-size: 12px; }
</style>
</head>
<body>
<h2>%s</h2>
`, RefreshSeconds, html.EscapeString(title), html.EscapeString(title))

	b.WriteString(`<table>
<thead>
<tr>
  <th>Feature</th>
  <th>Used</th>
  <th>Unused</th>
  <th>Total</th>
  <th>Last Updated</th>
  <th>Status</th>
</tr>
</thead>
<tbody>
`)

	for _, r := range records {
		status := r.Status()
		fmt.Fprintf(&b, `<tr>
  <td>%s</td>
  <td>%s</td>
  <td>%s</td>
  <td>%s</td>
  <td>%s</td>
  <td class="%s">%s</td>
</tr>
`,
			html.EscapeString(r.Feature),
			displayCount(r.Used),
			displayCount(r.Unused),
			displayCount(r.Total),
			html.EscapeString(r.Timestamp.Format(license.TimeFormat)),
			statusClass(status),
			html.EscapeString(string(status)),
		)
	}

	b.WriteString("</tbody>\n</table>\n")
	b.WriteString(`<p class="small">Auto-refreshes every 5 minutes. Adjust parsing rules if values show as "?".</p>` + "\n</body>\n</html>\n")
	return b.String()
}

// displayCount formats an optional count for the report, substituting the
// placeholder for unknown values.
func displayCount(v *int) string {
	if v == nil {
		return Placeholder
	}
	return strconv.Itoa(*v)
}
