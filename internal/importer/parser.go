package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/oscarfh/bizdesk/internal/catalog"
	enc "github.com/oscarfh/bizdesk/internal/encoding"
)

// Parser reads price-list CSVs. The header row is located by matching
// column names against known aliases, so exports from different tools
// (and languages) parse without configuration.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Column aliases seen in the wild, lowercased.
var (
	nameCols  = []string{"name", "item", "description", "artigo", "designacao"}
	priceCols = []string{"unit_price", "price", "unit price", "preco", "preço"}
	taxCols   = []string{"tax_percent", "tax", "tax %", "vat", "iva"}
)

func (p *Parser) Parse(r io.Reader) ([]catalog.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	rows, err := readRecords(utf8r)
	if err != nil {
		return nil, err
	}

	headerIdx, cols, ok := findHeader(rows)
	if !ok {
		return nil, fmt.Errorf("no header row found: expected name and price columns")
	}

	return parseRows(cols, rows[headerIdx+1:], headerIdx+1)
}

// readRecords handles both comma and semicolon delimited files by
// retrying with a semicolon when the first pass yields single-field
// rows.
func readRecords(r io.Reader) ([][]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	for _, comma := range []rune{',', ';'} {
		reader := csv.NewReader(strings.NewReader(string(raw)))
		reader.Comma = comma
		reader.FieldsPerRecord = -1
		reader.LazyQuotes = true

		rows, err := reader.ReadAll()
		if err != nil {
			continue
		}

		if multiColumn(rows) {
			return rows, nil
		}
	}

	return nil, fmt.Errorf("read csv: could not determine delimiter")
}

func multiColumn(rows [][]string) bool {
	for _, row := range rows {
		if len(row) > 1 {
			return true
		}
	}

	return false
}

// columns holds the resolved indices of the three fields of interest.
// tax is optional; -1 means absent.
type columns struct {
	name  int
	price int
	tax   int
}

func findHeader(rows [][]string) (int, columns, bool) {
	for rowIdx, row := range rows {
		cols := columns{name: -1, price: -1, tax: -1}

		for i, cell := range row {
			label := strings.ToLower(strings.TrimSpace(cell))

			switch {
			case cols.name == -1 && contains(nameCols, label):
				cols.name = i
			case cols.price == -1 && contains(priceCols, label):
				cols.price = i
			case cols.tax == -1 && contains(taxCols, label):
				cols.tax = i
			}
		}

		if cols.name >= 0 && cols.price >= 0 {
			return rowIdx, cols, true
		}
	}

	return 0, columns{}, false
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}

	return false
}

func parseRows(cols columns, rows [][]string, headerRowNum int) ([]catalog.CreateParams, error) {
	var params []catalog.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, past the header

		name := cellValue(row, cols.name)
		if name == "" {
			// Blank and footer rows are common in exports.
			continue
		}

		price, err := parseNumber(cellValue(row, cols.price))
		if err != nil {
			return nil, fmt.Errorf("row %d: bad price: %w", rowNum, err)
		}

		tax := decimal.Zero

		if cols.tax >= 0 {
			if cell := cellValue(row, cols.tax); cell != "" {
				if tax, err = parseNumber(cell); err != nil {
					return nil, fmt.Errorf("row %d: bad tax percent: %w", rowNum, err)
				}
			}
		}

		params = append(params, catalog.CreateParams{
			Name:       name,
			UnitPrice:  price,
			TaxPercent: tax,
		})
	}

	return params, nil
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

// parseNumber accepts both 1,234.56 and 1.234,56 styles, plus a
// trailing percent sign or currency symbol.
func parseNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.Trim(s, "€$£ ")

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			// European style: dot groups, comma decimal.
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse %q: %w", s, err)
	}

	return d, nil
}
