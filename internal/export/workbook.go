package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// SheetSpec описывает лист: необязательный заголовок над таблицей, шапку и строки.
type SheetSpec struct {
	Name   string
	Title  string
	Header []string
	Rows   [][]string
}

type Workbook struct {
	File *excelize.File
}

// NewWorkbook собирает книгу из листов; у каждого жирная шапка, автофильтр и ширина колонок.
func NewWorkbook(sheets []SheetSpec) (*Workbook, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook without sheets")
	}
	f := excelize.NewFile()
	for i, s := range sheets {
		name := s.Name
		if i == 0 {
			// стандартный Sheet1 переименовываем в первый лист
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("new sheet: %w", err)
		}

		headerRow := 1
		if s.Title != "" {
			if err := f.SetCellStr(name, "A1", s.Title); err != nil {
				return nil, err
			}
			headerRow = 3
		}
		for col, h := range s.Header {
			cell := fmt.Sprintf("%s%d", columnName(col+1), headerRow)
			if err := f.SetCellStr(name, cell, h); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		for r, row := range s.Rows {
			for c, val := range row {
				cell := fmt.Sprintf("%s%d", columnName(c+1), headerRow+r+1)
				if err := f.SetCellStr(name, cell, val); err != nil {
					return nil, fmt.Errorf("set cell %s: %w", cell, err)
				}
			}
		}
		if len(s.Header) > 0 {
			if err := ApplyDefaultExcelFormatting(f, name, headerRow); err != nil {
				return nil, err
			}
		}
	}
	return &Workbook{File: f}, nil
}

// SaveAs пишет книгу в path, создавая каталоги.
func (w *Workbook) SaveAs(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return w.File.SaveAs(path)
}

// SaveIn пишет книгу в dir под именем name и возвращает полный путь.
func (w *Workbook) SaveIn(dir, name string) (string, error) {
	path := filepath.Join(dir, sanitizeFileName(name))
	return path, w.SaveAs(path)
}

func (w *Workbook) Close() error { return w.File.Close() }
