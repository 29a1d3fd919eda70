// Package importer reads piece lists from the plain text format, CSV, Excel
// and DXF files. CSV and Excel imports detect delimiters and map columns by
// case-insensitive header names.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/boardcut/internal/model"
	"github.com/xuri/excelize/v2"
)

// MaxImportPieces caps the pieces one CSV or Excel import may expand into.
const MaxImportPieces = 10000

// ErrInput marks malformed or unusable input. Any import error matches it
// with errors.Is.
var ErrInput = errors.New("invalid input")

// InputError collects the problems found while importing one source.
type InputError struct {
	Problems []string
	cause    error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInput, strings.Join(e.Problems, "; "))
}

func (e *InputError) Is(target error) bool {
	return target == ErrInput
}

// Unwrap exposes the first piece validation error, if any.
func (e *InputError) Unwrap() error {
	return e.cause
}

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Pieces   []model.Piece
	Errors   []string
	Warnings []string

	cause error
}

// Err returns an *InputError when the import reported errors, nil otherwise.
func (r ImportResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return &InputError{Problems: r.Errors, cause: r.cause}
}

// Validate checks every piece against the board geometry and records the
// offending ones as errors.
func (r *ImportResult) Validate(settings model.Settings) {
	for _, p := range r.Pieces {
		if err := settings.CheckPiece(p); err != nil {
			r.Errors = append(r.Errors, err.Error())
			if r.cause == nil {
				r.cause = err
			}
		}
	}
}

// ImportFile imports pieces from path, choosing the format by extension, and
// validates them against the settings. Files without a known extension are
// read as the plain text format; "-" reads text from standard input.
func ImportFile(path string, settings model.Settings) ImportResult {
	var result ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		result = ImportCSV(path)
	case ".xlsx", ".xlsm":
		result = ImportExcel(path)
	case ".dxf":
		result = ImportDXF(path)
	default:
		if path == "-" {
			result = ImportTextFromReader(os.Stdin, "stdin")
		} else {
			result = ImportText(path)
		}
	}
	result.Validate(settings)
	return result
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Height   int
	Width    int
	Quantity int
	Label    int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"height":   {"height", "h", "altura", "length", "len", "y"},
	"width":    {"width", "w", "largura", "x"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "quantidade"},
	"label":    {"label", "name", "part", "piece", "description", "desc", "item"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping Height, Width, Quantity, Label and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Height: -1, Width: -1, Quantity: -1, Label: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "height":
					if mapping.Height == -1 {
						mapping.Height = i
					}
				case "width":
					if mapping.Width == -1 {
						mapping.Width = i
					}
				case "quantity":
					if mapping.Quantity == -1 {
						mapping.Quantity = i
					}
				case "label":
					if mapping.Label == -1 {
						mapping.Label = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Height: 0, Width: 1, Quantity: 2, Label: 3}, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseUnits parses a whole number of units. Spreadsheet cells often carry
// integral values as "100.0", so those are accepted too.
func parseUnits(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// parseRow extracts a piece template and its quantity from a row.
// Returns the piece, the quantity and an error message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.Piece, int, string) {
	heightStr := getCell(row, mapping.Height)
	if heightStr == "" {
		return model.Piece{}, 0, fmt.Sprintf("%s: Missing height value", rowLabel)
	}
	height, ok := parseUnits(heightStr)
	if !ok {
		return model.Piece{}, 0, fmt.Sprintf("%s: Invalid height '%s'", rowLabel, heightStr)
	}

	widthStr := getCell(row, mapping.Width)
	if widthStr == "" {
		return model.Piece{}, 0, fmt.Sprintf("%s: Missing width value", rowLabel)
	}
	width, ok := parseUnits(widthStr)
	if !ok {
		return model.Piece{}, 0, fmt.Sprintf("%s: Invalid width '%s'", rowLabel, widthStr)
	}

	qty := 1
	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		n, err := strconv.Atoi(qtyStr)
		if err != nil {
			return model.Piece{}, 0, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr)
		}
		qty = n
	}

	if height <= 0 || width <= 0 || qty <= 0 {
		return model.Piece{}, 0, fmt.Sprintf("%s: Height, width, and quantity must be positive", rowLabel)
	}

	p := model.NewPiece(0, height, width)
	p.Label = getCell(row, mapping.Label)
	return p, qty, ""
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports pieces from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", warnings)
}

// ImportCSVFromReader imports pieces from a CSV reader with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	records, err := readCSV(reader, delimiter)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	return importFromRows(records, "Line", nil)
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// ImportExcel imports pieces from the first sheet of an Excel workbook.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for CSV and Excel data. Each
// row expands into Quantity pieces with sequential IDs.
func importFromRows(rows [][]string, rowPrefix string, warnings []string) ImportResult {
	result := ImportResult{Warnings: warnings}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if _, ok := parseUnits(getCell(rows[0], 0)); !ok && len(rows[0]) >= 2 {
		// Unrecognized header: skip it and keep the positional mapping.
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		piece, qty, errMsg := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if qty > MaxImportPieces-len(result.Pieces) {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s: quantity %d exceeds the import limit of %d pieces", rowLabel, qty, MaxImportPieces))
			continue
		}

		for k := 0; k < qty; k++ {
			piece.ID = len(result.Pieces)
			result.Pieces = append(result.Pieces, piece)
		}
	}

	return result
}
