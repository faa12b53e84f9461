// Package spreadsheet reads and writes the xlsx workbooks used by promotion import and export.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var (
	ErrNoSheet = errors.New("workbook has no sheets")
	ErrNoRows  = errors.New("workbook has no data rows")
)

// DefaultSheet 导出/模板使用的工作表名
const DefaultSheet = "Promotions"

// Row 数据行（Number 为表格中的行号，表头为第 1 行）
type Row struct {
	Number int
	Cells  []string
}

// Read 读取首个工作表，跳过表头；单元格取原始值（日期为序列号）
func Read(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}
	sheetName := sheets[0]
	for _, name := range sheets {
		if name == DefaultSheet {
			sheetName = name
			break
		}
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheetName, err)
	}
	if len(rows) < 2 {
		return nil, ErrNoRows
	}
	out := make([]Row, 0, len(rows)-1)
	for idx, cells := range rows[1:] {
		out = append(out, Row{Number: idx + 2, Cells: cells})
	}
	return out, nil
}

// Write 写出单工作表 xlsx：加粗表头 + 数据行
func Write(w io.Writer, headers []string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DefaultSheet); err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2E7D32"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return err
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(DefaultSheet, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(DefaultSheet, cell, cell, headerStyle); err != nil {
			return err
		}
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(DefaultSheet, colName, colName, 20); err != nil {
			return err
		}
	}

	for idx, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, idx+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(DefaultSheet, cell, &values); err != nil {
			return err
		}
	}
	return f.Write(w)
}
