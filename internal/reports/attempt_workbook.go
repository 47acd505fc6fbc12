package reports

import (
	"fmt"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	attemptsSheet = "Attempts"
	summarySheet  = "Summary"
	timeLayout    = "2006-01-02 15:04:05"

	// ContentTypeXLSX is the media type of the generated workbook
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var attemptHeaders = []string{
	"Attempt", "Status", "Started At", "Submitted At",
	"Score", "Max Score", "Percentage", "Result", "Time Spent (minutes)",
}

// AttemptHistoryWorkbook renders a student's attempt history for one quiz as xlsx
func AttemptHistoryWorkbook(quizTitle string, history *models.AttemptHistory) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", attemptsSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := writeRow(f, attemptsSheet, 1, toRow(attemptHeaders)); err != nil {
		return nil, err
	}
	if err := styleHeader(f, attemptsSheet, len(attemptHeaders)); err != nil {
		return nil, err
	}

	for i, attempt := range history.Attempts {
		if err := writeRow(f, attemptsSheet, i+2, attemptRow(attempt)); err != nil {
			return nil, err
		}
	}

	if err := writeSummary(f, quizTitle, history); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func attemptRow(attempt models.AttemptSummary) []interface{} {
	submittedAt := ""
	if attempt.CompletedAt != nil {
		submittedAt = attempt.CompletedAt.Format(timeLayout)
	}

	result := ""
	if attempt.Status == models.AttemptSubmitted {
		result = "Fail"
		if attempt.Passed {
			result = "Pass"
		}
	}

	return []interface{}{
		attempt.AttemptNumber,
		string(attempt.Status),
		attempt.StartedAt.Format(timeLayout),
		submittedAt,
		attempt.Score,
		attempt.MaxScore,
		attempt.Percentage,
		result,
		attempt.TimeSpentMinutes,
	}
}

func writeSummary(f *excelize.File, quizTitle string, history *models.AttemptHistory) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	remaining := interface{}("unlimited")
	if history.AttemptsRemaining != nil {
		remaining = *history.AttemptsRemaining
	}

	rows := [][]interface{}{
		{"Quiz", quizTitle},
		{"Quiz ID", history.QuizID},
		{"Student ID", history.StudentID},
		{"Attempts Used", history.AttemptsUsed},
		{"Attempts Remaining", remaining},
		{"Best Percentage", history.BestPercentage},
	}
	for i, row := range rows {
		if err := writeRow(f, summarySheet, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
	}
	return nil
}

func styleHeader(f *excelize.File, sheet string, columns int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func toRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
