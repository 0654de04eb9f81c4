package pricebook

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kmccarty/tradeops/internal/catalog"
	enc "github.com/kmccarty/tradeops/internal/encoding"
)

// Column headers accepted for each field, lowercased. Supplier exports are
// not standardized, so a handful of spellings map to the same column.
var (
	nameCols     = []string{"name", "item", "description"}
	categoryCols = []string{"category", "type", "group"}
	costCols     = []string{"cost", "unit cost", "base cost"}
	priceCols    = []string{"price", "retail price", "unit price"}
)

// Parser reads supplier pricebook CSV exports into catalog create params.
// The header row is located by matching column names; rows above it
// (report titles, export timestamps) are skipped.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]catalog.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	cols, headerIdx, ok := findHeader(rows)
	if !ok {
		return nil, fmt.Errorf("no pricebook header found: need name and price columns")
	}

	return parseRows(cols, rows[headerIdx+1:], headerIdx+1)
}

type columns struct {
	name     int
	category int
	cost     int
	price    int
}

// findHeader scans rows for one that carries at least a name and a price
// column. Returns the resolved column indices and the header row index.
func findHeader(rows [][]string) (columns, int, bool) {
	for rowIdx, row := range rows {
		cols := columns{name: -1, category: -1, cost: -1, price: -1}

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			switch {
			case matches(name, nameCols):
				cols.name = i
			case matches(name, categoryCols):
				cols.category = i
			case matches(name, costCols):
				cols.cost = i
			case matches(name, priceCols):
				cols.price = i
			}
		}

		if cols.name >= 0 && cols.price >= 0 {
			return cols, rowIdx, true
		}
	}

	return columns{}, 0, false
}

func matches(name string, candidates []string) bool {
	for _, c := range candidates {
		if name == c {
			return true
		}
	}

	return false
}

// parseRows extracts catalog params from data rows. headerRowNum is the
// 0-based index of the header in the original file, used in error messages.
func parseRows(cols columns, rows [][]string, headerRowNum int) ([]catalog.CreateParams, error) {
	var params []catalog.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, skipping header

		name := cellValue(row, cols.name)
		if name == "" {
			// Blank or footer row.
			continue
		}

		price, err := parseMoney(cellValue(row, cols.price))
		if err != nil {
			return nil, fmt.Errorf("row %d: bad price: %w", rowNum, err)
		}

		cost := decimal.Zero

		if cols.cost >= 0 {
			if v := cellValue(row, cols.cost); v != "" {
				cost, err = parseMoney(v)
				if err != nil {
					return nil, fmt.Errorf("row %d: bad cost: %w", rowNum, err)
				}
			}
		}

		params = append(params, catalog.CreateParams{
			Name:     name,
			Category: cellValue(row, cols.category),
			Cost:     cost,
			Price:    price,
		})
	}

	return params, nil
}

// parseMoney accepts "1,234.56", "$89.00" and plain decimals.
func parseMoney(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, ",", "")

	return decimal.NewFromString(clean)
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
