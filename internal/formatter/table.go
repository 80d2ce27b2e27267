package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"alpenlodge/internal/ingest"
	"alpenlodge/pkg/utils"
)

// minColumnWidth keeps separator cells at least "---".
const minColumnWidth = 3

var text = utils.NewStringHelper()

// statsHeader is the run summary table header.
var statsHeader = []string{"Category", "Fetched", "Capped", "Accepted", "Rejected", "Status"}

// RenderTable lays out rows as a pipe table. The first row is the header and
// is followed by a separator. Columns are padded by display width so umlauts
// and wide characters line up.
func RenderTable(rows [][]string) []string {
	if len(rows) == 0 {
		return nil
	}

	colCount := 0
	for _, row := range rows {
		colCount = max(colCount, len(row))
	}

	colWidths := make([]int, colCount)
	for i := range colWidths {
		colWidths[i] = minColumnWidth
	}

	for _, row := range rows {
		for i, cell := range row {
			colWidths[i] = max(colWidths[i], text.Width(cell))
		}
	}

	result := make([]string, 0, len(rows)+1)

	for i, row := range rows {
		result = append(result, renderRow(row, colWidths))

		if i == 0 {
			sep := make([]string, colCount)
			for j, w := range colWidths {
				sep[j] = strings.Repeat("-", w)
			}

			result = append(result, renderRow(sep, colWidths))
		}
	}

	return result
}

func renderRow(row []string, colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range colWidths {
		content := ""
		if j < len(row) {
			content = row[j]
		}

		sb.WriteString(" ")
		sb.WriteString(text.PadRight(content, width))
		sb.WriteString(" |")
	}

	return sb.String()
}

// FormatStats renders the per-category run summary followed by a totals line.
func FormatStats(stats *ingest.Stats) string {
	if stats == nil {
		return ""
	}

	rows := [][]string{statsHeader}

	for _, c := range stats.Categories {
		status := "ok"
		if c.Failed {
			status = "failed"
		}

		rows = append(rows, []string{
			c.Category,
			strconv.Itoa(c.Fetched),
			strconv.Itoa(c.Capped),
			strconv.Itoa(c.Accepted),
			strconv.Itoa(c.RejectedTotal()),
			status,
		})
	}

	lines := RenderTable(rows)

	if reasons := stats.Reasons(); len(reasons) > 0 {
		parts := make([]string, len(reasons))
		for i, r := range reasons {
			parts[i] = fmt.Sprintf("%s=%d", r, stats.Rejected(r))
		}

		lines = append(lines, "Rejected: "+strings.Join(parts, ", "))
	}

	lines = append(lines, stats.String())

	return strings.Join(lines, "\n") + "\n"
}
