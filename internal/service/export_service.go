package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"shipyard-monitor/backend/config"
	"shipyard-monitor/backend/internal/derivation"
	"shipyard-monitor/backend/internal/dto"
	"shipyard-monitor/backend/internal/model"
	"shipyard-monitor/backend/internal/repository"
)

// ── export errors ──

var (
	ErrExportGenerateFail = errors.New("failed to generate export file")
	ErrReportUnavailable  = errors.New("analysis unavailable, report not generated")
)

// Content types of the exported files
const (
	ContentTypeWord = "application/msword"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// journalExportLimit rows written to one spreadsheet.
const journalExportLimit = 10000

// ExportService downloadable documents
//
//   - ExportReport renders the generated analysis as a Word-compatible HTML .doc
//   - ExportJournal writes the filtered production journal to .xlsx
//
// Both return the file in a buffer; the handler sets the headers.
type ExportService interface {
	ExportReport(ctx context.Context, q *dto.DateRangeQuery) (*bytes.Buffer, string, error)
	ExportJournal(ctx context.Context, q *dto.DateRangeQuery) (*bytes.Buffer, string, error)
}

type exportService struct {
	cfg       *config.Config
	repo      *repository.Repository
	analytics AnalyticsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService creates an ExportService.
func NewExportService(
	cfg *config.Config,
	repo *repository.Repository,
	analytics AnalyticsService,
	logger *zap.Logger,
) ExportService {
	return &exportService{
		cfg:       cfg,
		repo:      repo,
		analytics: analytics,
		logger:    logger,
		now:       time.Now,
	}
}

// ═══════════════════════════════════════════════════════════
// ExportReport
// ═══════════════════════════════════════════════════════════
//
// Layout:
//   - title page: facility, analysed period, generation date
//   - financial summary table
//   - analysis text: "## x" headings, "**x**" bold, "- x" list items

var reportTemplate = template.Must(template.New("report").Parse(`<html xmlns:o="urn:schemas-microsoft-com:office:office" xmlns:w="urn:schemas-microsoft-com:office:word" xmlns="http://www.w3.org/TR/REC-html40">
<head><meta charset="utf-8"><title>{{.Title}}</title>
<style>
body { font-family: 'Times New Roman', serif; font-size: 12pt; }
h1 { color: #0f172a; font-size: 24pt; }
h2 { color: #1e3a8a; font-size: 16pt; margin-top: 18pt; }
table { border-collapse: collapse; width: 100%; }
td, th { border: 1px solid #94a3b8; padding: 6pt; }
</style></head>
<body>
<div class="title-page" style="text-align: center; padding-top: 150px;">
<h1>{{.Title}}</h1>
<p style="color:#475569; font-size: 14pt;">Production and financial indicators</p>
<div style="margin-top: 100px;">
<p><b>Facility:</b> {{.Facility}}</p>
<p><b>Period:</b> {{.Period}}</p>
<p><b>Generated:</b> {{.GeneratedOn}}</p>
</div>
<div style="margin-top: 200px; font-size: 9pt; color: #94a3b8;">Generated by the production monitoring system</div>
</div>
<br clear=all style='mso-special-character:line-break;page-break-before:always'>
<div class="content">
<h2>Financial summary</h2>
<table>
<tr><th>Indicator</th><th>Value</th></tr>
<tr><td>Records analysed</td><td>{{.Summary.RecordCount}}</td></tr>
<tr><td>Defective units</td><td>{{.Summary.TotalDefects}}</td></tr>
<tr><td>Downtime, min</td><td>{{.Summary.TotalDowntimeMinutes}}</td></tr>
<tr><td>Cost per defect, {{.Currency}}</td><td>{{.Summary.CostPerDefect.StringFixed 2}}</td></tr>
<tr><td>Cost per minute of downtime, {{.Currency}}</td><td>{{.Summary.CostPerMinuteDowntime.StringFixed 2}}</td></tr>
<tr><td>Defect losses, {{.Currency}}</td><td>{{.Summary.TotalDefectCost.StringFixed 2}}</td></tr>
<tr><td>Downtime losses, {{.Currency}}</td><td>{{.Summary.TotalDowntimeCost.StringFixed 2}}</td></tr>
<tr><td><b>Total losses, {{.Currency}}</b></td><td><b>{{.Summary.TotalLosses.StringFixed 2}}</b></td></tr>
</table>
<h2>Analysis results</h2>
{{.Analysis}}
</div>
</body></html>
`))

type reportView struct {
	Title       string
	Facility    string
	Period      string
	GeneratedOn string
	Currency    string
	Summary     derivation.FinancialSummary
	Analysis    template.HTML
}

func (s *exportService) ExportReport(ctx context.Context, q *dto.DateRangeQuery) (*bytes.Buffer, string, error) {
	report, err := s.analytics.Report(ctx, q)
	if err != nil {
		return nil, "", err
	}
	if !report.Available {
		return nil, "", ErrReportUnavailable
	}

	now := s.now()
	period := "latest records"
	if report.Range != nil {
		period = fmt.Sprintf("%s to %s", report.Range.Start, report.Range.End)
	}

	buf := new(bytes.Buffer)
	err = reportTemplate.Execute(buf, reportView{
		Title:       "ANALYTICAL REPORT",
		Facility:    s.cfg.Monitor.Report.FacilityName,
		Period:      period,
		GeneratedOn: now.Format(model.DateLayout),
		Currency:    s.cfg.Monitor.Report.Currency,
		Summary:     report.Summary,
		Analysis:    markdownToHTML(report.Analysis),
	})
	if err != nil {
		s.logger.Error("failed to render report", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, fmt.Sprintf("SSK_Report_%s.doc", now.Format(model.DateLayout)), nil
}

var boldPattern = regexp.MustCompile(`\*\*(.+?)\*\*`)

// markdownToHTML converts the small Markdown subset the analysis uses.
// Input is escaped before any tag is emitted.
func markdownToHTML(md string) template.HTML {
	var sb strings.Builder
	inList := false
	closeList := func() {
		if inList {
			sb.WriteString("</ul>\n")
			inList = false
		}
	}

	for _, raw := range strings.Split(strings.ReplaceAll(md, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
			closeList()
		case strings.HasPrefix(line, "#"):
			closeList()
			text := strings.TrimSpace(strings.TrimLeft(line, "#"))
			sb.WriteString("<h2>" + inlineMarkdown(text) + "</h2>\n")
		case strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* "):
			if !inList {
				sb.WriteString("<ul>\n")
				inList = true
			}
			sb.WriteString("<li>" + inlineMarkdown(line[2:]) + "</li>\n")
		default:
			closeList()
			sb.WriteString("<p>" + inlineMarkdown(line) + "</p>\n")
		}
	}
	closeList()
	return template.HTML(sb.String())
}

func inlineMarkdown(s string) string {
	return boldPattern.ReplaceAllString(html.EscapeString(s), "<b>$1</b>")
}

// ═══════════════════════════════════════════════════════════
// ExportJournal
// ═══════════════════════════════════════════════════════════
//
// One sheet "Journal": date, shift, operator, produced, defects, downtime, comment.
// Rows are ordered by date descending like the on-screen journal.

func (s *exportService) ExportJournal(ctx context.Context, q *dto.DateRangeQuery) (*bytes.Buffer, string, error) {
	rng, err := derivation.NewDateRange(q.StartDate, q.EndDate)
	if err != nil {
		return nil, "", err
	}
	filter := repository.RecordFilter{}
	if rng != nil {
		filter.StartDate, filter.EndDate = rng.Start, rng.End
	}

	records, _, err := s.repo.Record.List(ctx, filter, 0, journalExportLimit)
	if err != nil {
		s.logger.Error("failed to load journal", zap.Error(err))
		return nil, "", err
	}
	shifts, err := s.repo.Shift.List(ctx)
	if err != nil {
		return nil, "", err
	}
	shiftNames := make(map[string]string, len(shifts))
	for _, sh := range shifts {
		shiftNames[sh.ID] = sh.Name
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Journal"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "B", "B", 16)
	f.SetColWidth(sheet, "C", "C", 26)
	f.SetColWidth(sheet, "D", "F", 12)
	f.SetColWidth(sheet, "G", "G", 40)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1E3A8A"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"Date", "Shift", "Operator", "Produced", "Defects", "Downtime, min", "Comment"}
	for i, h := range headers {
		f.SetCellValue(sheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheet, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	row := 2
	for _, r := range records {
		shift, ok := shiftNames[r.ShiftID]
		if !ok {
			shift = r.ShiftID
		}
		f.SetCellValue(sheet, cell("A", row), r.DateString())
		f.SetCellValue(sheet, cell("B", row), shift)
		f.SetCellValue(sheet, cell("C", row), r.OperatorName)
		f.SetCellValue(sheet, cell("D", row), r.ProductCount)
		f.SetCellValue(sheet, cell("E", row), r.DefectCount)
		f.SetCellValue(sheet, cell("F", row), r.DowntimeMinutes)
		f.SetCellValue(sheet, cell("G", row), r.CommentText())
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("failed to write xlsx", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, fmt.Sprintf("SSK_Journal_%s.xlsx", s.now().Format(model.DateLayout)), nil
}

// colName 0-based column index to letter.
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
