package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Content types accepted for upload. Anything else is rejected before
// any byte of the file is decoded.
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeXLS  = "application/vnd.ms-excel"
	ContentTypeCSV  = "text/csv"
)

var (
	// ErrUnsupportedType signals a declared content type outside the
	// accepted spreadsheet formats.
	ErrUnsupportedType = errors.New("tipo de archivo no soportado: sube un archivo Excel (.xlsx, .xls) o CSV")

	// ErrUnreadableFile signals a workbook that could not be decoded.
	ErrUnreadableFile = errors.New("no se pudo leer el archivo")
)

// SupportedContentType reports whether the declared content type is one
// of the accepted spreadsheet formats. Parameters ("; charset=...") are
// ignored.
func SupportedContentType(contentType string) bool {
	base, _, _ := strings.Cut(contentType, ";")
	switch strings.TrimSpace(strings.ToLower(base)) {
	case ContentTypeXLSX, ContentTypeXLS, ContentTypeCSV:
		return true
	}
	return false
}

// DecodeRows reads an uploaded spreadsheet into raw rows keyed by the
// header row. Only the first sheet of a workbook is consulted. A file
// that cannot be decoded yields ErrUnreadableFile and no partial rows.
func DecodeRows(r io.Reader, contentType string) ([]Row, error) {
	if !SupportedContentType(contentType) {
		return nil, ErrUnsupportedType
	}

	base, _, _ := strings.Cut(contentType, ";")
	if strings.TrimSpace(strings.ToLower(base)) == ContentTypeCSV {
		return decodeCSV(r)
	}
	return decodeWorkbook(r)
}

func decodeWorkbook(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: el libro no tiene hojas", ErrUnreadableFile)
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}

	return rowsFromCells(cells), nil
}

func decodeCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are tolerated, cells default later

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}

	return rowsFromCells(records), nil
}

// rowsFromCells zips the header row with each data row. Cells beyond
// the header width are dropped; missing trailing cells stay absent so
// the mapper applies its defaults.
func rowsFromCells(cells [][]string) []Row {
	if len(cells) == 0 {
		return nil
	}

	header := cells[0]
	rows := make([]Row, 0, len(cells)-1)
	for _, record := range cells[1:] {
		row := make(Row, len(header))
		for i, name := range header {
			if name == "" || i >= len(record) {
				continue
			}
			row[name] = record[i]
		}
		rows = append(rows, row)
	}
	return rows
}
