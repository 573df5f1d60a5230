package report

import (
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"mr3x-notificacoes/internal/domain"
	"mr3x-notificacoes/internal/pkg/i18n"
)

const sheetName = "Notificações"

const amountColumn = 6

// WriteXLSX writes the same columns as the CSV export with a styled header,
// a numeric amount column and a closing summary row.
func WriteXLSX(w io.Writer, records []domain.Notice, summary Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1E3A5F"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(Columns))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return err
	}

	for i := range records {
		rowNum := i + 2
		values := Row(&records[i])
		row := make([]interface{}, len(values))
		for j, v := range values {
			row[j] = v
		}
		row[amountColumn-1] = records[i].DebtAmount.InexactFloat64()

		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}

	amountCol, _ := excelize.ColumnNumberToName(amountColumn)
	lastRow := len(records) + 1
	if len(records) > 0 {
		if err := f.SetCellStyle(sheetName, amountCol+"2", amountCol+strconv.Itoa(lastRow), amountStyle); err != nil {
			return err
		}
	}

	summaryRow := lastRow + 2
	summaryCells := []interface{}{
		i18n.T("report.total"),
		summary.Count,
		i18n.T("status_filter.accepted"),
		summary.Accepted,
		i18n.T("report.total_value"),
		summary.TotalValue.InexactFloat64(),
		i18n.T("status_filter.pending"),
		summary.Pending,
	}
	cell, err := excelize.CoordinatesToCellName(1, summaryRow)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, cell, &summaryCells); err != nil {
		return err
	}
	summaryAmount := amountCol + strconv.Itoa(summaryRow)
	if err := f.SetCellStyle(sheetName, summaryAmount, summaryAmount, amountStyle); err != nil {
		return err
	}

	if err := f.SetColWidth(sheetName, "A", lastCol, 22); err != nil {
		return err
	}

	return f.Write(w)
}
