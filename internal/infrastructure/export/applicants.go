// Package export renders applicant lists as spreadsheets.
package export

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
)

const sheetName = "Applicants"

var columns = []string{
	"FULL NAME",
	"EMAIL",
	"MOBILE NUMBER",
	"DESIGNATION",
	"GENDER",
	"SKILLS",
	"RESUME",
	"APPLIED ON",
	"STATUS",
	"VIEWED",
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9]+`)

// ApplicantExporter implements ports.ApplicantExporter with XLSX output.
type ApplicantExporter struct{}

func NewApplicantExporter() *ApplicantExporter {
	return &ApplicantExporter{}
}

func (e *ApplicantExporter) Export(job *domain.Job, rows []ports.ApplicantRow) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, "", fmt.Errorf("rename sheet: %w", err)
	}

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#0F5E73"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(columns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for i, row := range rows {
		for j, value := range rowValues(row) {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range columns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 22)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), fileName(job), nil
}

func rowValues(row ports.ApplicantRow) []any {
	a := row.Applicant
	viewed := "NO"
	if a.IsViewed {
		viewed = "YES"
	}
	tail := []any{a.AppliedDate.Format("2006-01-02 15:04"), string(a.Status), viewed}

	e := row.Employee
	if e == nil {
		return append([]any{"(deleted account)", "", "", "", "", "", ""}, tail...)
	}
	resume := ""
	if !e.Resume.Empty() {
		resume = e.Resume.URL
	}
	return append([]any{
		e.FullName,
		e.Email,
		e.MobileNumber,
		e.Designation,
		e.Gender,
		strings.Join(e.Skills, ", "),
		resume,
	}, tail...)
}

func fileName(job *domain.Job) string {
	title := strings.Trim(unsafeName.ReplaceAllString(job.Title, "_"), "_")
	if title == "" {
		title = "job"
	}
	return fmt.Sprintf("applicants_%s_%s.xlsx", strings.ToLower(title), job.ID)
}
