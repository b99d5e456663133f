// Package dataset loads the price and seasonality tables from CSV or XLSX files, local or over HTTP.
package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"
)

// ErrMissingColumns the header lacks a column the table needs
var ErrMissingColumns = errors.New("required columns missing")

// ErrTableTooLarge the file or response body exceeds the size limit
var ErrTableTooLarge = errors.New("table exceeds size limit")

const (
	defaultFetchTimeout = 30 * time.Second
	maxTableBytes       = 64 << 20
)

// Options how table files are read
type Options struct {
	// Encoding of CSV files: "utf-8" (default, BOM tolerated) or "big5"
	Encoding   string
	HTTPClient *http.Client

	// MaxBytes size limit for files and response bodies; 0 means 64 MiB
	MaxBytes int64
}

func (o Options) maxBytes() int64 {
	if o.MaxBytes > 0 {
		return o.MaxBytes
	}
	return maxTableBytes
}

// readLimited fails instead of truncating when r holds more than limit bytes
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTableTooLarge, limit)
	}
	return data, nil
}

// rawTable header plus data rows, cells untrimmed
type rawTable struct {
	header  []string
	rows    [][]string
	skipped int
}

func isRemote(location string) bool {
	u, err := url.Parse(location)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

func isExcel(location string) bool {
	p := location
	if u, err := url.Parse(location); err == nil && u.Path != "" && isRemote(location) {
		p = u.Path
	}
	ext := strings.ToLower(path.Ext(p))
	return ext == ".xlsx" || ext == ".xlsm"
}

// open returns the raw bytes of a table file or URL
func open(ctx context.Context, location string, opts Options) ([]byte, error) {
	if !isRemote(location) {
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", location, err)
		}
		defer f.Close()

		data, err := readLimited(f, opts.maxBytes())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", location, err)
		}
		return data, nil
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", location, resp.StatusCode)
	}
	data, err := readLimited(resp.Body, opts.maxBytes())
	if err != nil {
		return nil, fmt.Errorf("read body %s: %w", location, err)
	}
	return data, nil
}

// readTable parses CSV or the first sheet of an XLSX workbook
func readTable(ctx context.Context, location string, opts Options) (*rawTable, error) {
	data, err := open(ctx, location, opts)
	if err != nil {
		return nil, err
	}
	format, err := sniffFormat(data, location)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	if format == formatXLSX {
		return parseExcel(data)
	}
	return parseCSV(data, opts.Encoding)
}

func parseExcel(data []byte) (*rawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheetName)
	}
	return &rawTable{header: rows[0], rows: rows[1:]}, nil
}

func parseCSV(data []byte, encoding string) (*rawTable, error) {
	var r io.Reader = bytes.NewReader(data)
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8", "utf-8-sig":
	case "big5":
		r = transform.NewReader(r, traditionalchinese.Big5.NewDecoder())
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}

	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	table := &rawTable{header: header}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				table.skipped++
				continue
			}
			return nil, fmt.Errorf("read row: %w", err)
		}
		table.rows = append(table.rows, row)
	}
	return table, nil
}
