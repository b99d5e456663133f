package dataset

import (
	"bytes"
	"errors"
)

// ErrUnsupportedFormat the bytes are neither an xlsx workbook nor text
var ErrUnsupportedFormat = errors.New("unsupported table format: not xlsx or csv")

type tableFormat int

const (
	formatCSV tableFormat = iota
	formatXLSX
)

var (
	zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}
	// OLE2 container of legacy .xls workbooks, which excelize cannot read
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0}
)

// sniffFormat decides by content; the file extension only matters when the bytes are ambiguous
func sniffFormat(data []byte, location string) (tableFormat, error) {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return formatXLSX, nil
	case bytes.HasPrefix(data, oleMagic):
		return 0, ErrUnsupportedFormat
	case isExcel(location) && len(data) > 0:
		return 0, ErrUnsupportedFormat
	case len(data) == 0 || isLikelyText(data):
		return formatCSV, nil
	default:
		return 0, ErrUnsupportedFormat
	}
}

// isLikelyText no NUL bytes and mostly printable in the first 512 bytes.
// Bytes >= 0x80 count as printable so UTF-8 and Big5 text both pass.
func isLikelyText(buf []byte) bool {
	if len(buf) > 512 {
		buf = buf[:512]
	}
	printable := 0
	for _, b := range buf {
		if b == 0 {
			return false
		}
		if b >= 32 || b == '\n' || b == '\r' || b == '\t' {
			printable++
		}
	}
	return printable*10 >= len(buf)*9
}
