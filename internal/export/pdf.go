package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"tenant-exit-portal/internal/model"
	"tenant-exit-portal/internal/parse"
)

type pdfColumn struct {
	title string
	width float64
	max   int
}

var pdfColumns = []pdfColumn{
	{"Request ID", 28, 14},
	{"Tenant", 22, 11},
	{"Name", 38, 20},
	{"Room", 18, 8},
	{"Exit Date", 26, 12},
	{"Status", 26, 12},
	{"Submitted", 32, 17},
}

// ExitRequestsPDF renders a portrait A4 table of the requests with a
// count per status at the end.
func ExitRequestsPDF(reqs []model.ExitRequest, generated time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Tenant Exit Requests", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", generated.Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	header := func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		for i, col := range pdfColumns {
			ln := 0
			if i == len(pdfColumns)-1 {
				ln = 1
			}
			pdf.CellFormat(col.width, 7, col.title, "1", ln, "C", true, 0, "")
		}
		pdf.SetFont("Arial", "", 9)
	}
	header()

	if len(reqs) == 0 {
		pdf.CellFormat(190, 8, "No exit requests found.", "1", 1, "C", false, 0, "")
	}

	for _, r := range reqs {
		values := []string{
			r.RequestID,
			r.TenantID,
			r.Name,
			r.RoomNumber,
			parse.Date(r.ExitDate),
			string(r.Status),
			parse.DateTime(r.SubmittedAt),
		}
		if pdf.GetY() > 270 {
			pdf.AddPage()
			header()
		}
		for i, col := range pdfColumns {
			ln := 0
			if i == len(pdfColumns)-1 {
				ln = 1
			}
			pdf.CellFormat(col.width, 6, tr(clip(values[i], col.max)), "1", ln, "L", false, 0, "")
		}
	}

	pdf.Ln(5)
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(190, 8, fmt.Sprintf("Total Requests: %d", len(reqs)), "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	for _, row := range statusSummary(reqs) {
		pdf.CellFormat(95, 7, tr(row.label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(95, 7, fmt.Sprintf("%d", row.count), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type statusCount struct {
	label string
	count int
}

// statusSummary counts the requests per admin status, in display order. Any
// other status is folded into a trailing "Other" row, so the counts always add
// up to len(reqs).
func statusSummary(reqs []model.ExitRequest) []statusCount {
	rows := make([]statusCount, len(model.AdminStatuses))
	index := make(map[model.ExitStatus]int, len(model.AdminStatuses))
	for i, s := range model.AdminStatuses {
		rows[i].label = string(s)
		index[s] = i
	}
	other := 0
	for _, r := range reqs {
		if i, ok := index[r.Status]; ok {
			rows[i].count++
		} else {
			other++
		}
	}
	if other > 0 {
		rows = append(rows, statusCount{label: "Other", count: other})
	}
	return rows
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
