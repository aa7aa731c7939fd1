package universe

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/agentic-research/chartbind/internal/binding"
)

var dateLayouts = []string{"2006-01-02", "01/02/2006", "1/2/06", "2006/01/02"}

// LoadSpreadsheet builds a universe from a worksheet: the first row names
// the columns and the second row, when present, decides their types. An
// empty sheet name selects the first sheet.
func LoadSpreadsheet(path, sheet string) (*Set, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer func() { _ = f.Close() }() // safe to ignore

	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = list[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheet)
	}

	var sample []string
	if len(rows) > 1 {
		sample = rows[1]
	}
	var cols []binding.Column
	for i, name := range rows[0] {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		typ := binding.TypeString
		if i < len(sample) {
			typ = cellType(sample[i])
		}
		cols = append(cols, binding.Column{Name: name, Entity: sheet, DataType: typ})
	}
	return NewSet(cols...), nil
}

func cellType(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return binding.TypeString
	}
	if _, err := strconv.ParseInt(v, 10, 64); err == nil {
		return binding.TypeInteger
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return binding.TypeDouble
	}
	if _, err := strconv.ParseBool(v); err == nil {
		return binding.TypeBoolean
	}
	for _, l := range dateLayouts {
		if _, err := time.Parse(l, v); err == nil {
			return binding.TypeDate
		}
	}
	return binding.TypeString
}
