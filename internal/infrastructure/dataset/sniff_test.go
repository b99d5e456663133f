package dataset

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSniffFormat(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		location string
		want     tableFormat
		wantErr  bool
	}{
		{"csv", []byte("類別,品項\n水果,香蕉\n"), "season.csv", formatCSV, false},
		{"zip without extension", append([]byte{0x50, 0x4B, 0x03, 0x04}, 0, 1, 2), "https://example.com/download?id=1", formatXLSX, false},
		{"legacy xls", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1}, "old.xls", 0, true},
		{"binary", []byte{0x01, 0x00, 0x02, 0x03}, "blob.csv", 0, true},
		{"text named xlsx", []byte("a,b\n"), "table.xlsx", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sniffFormat(tt.data, tt.location)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadSeasonTableFromExtensionlessURL(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"類別", "品項", "品種", "縣市", "月份"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"水果", "芒果", "愛文", "臺南市", "6"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	table, stats, err := LoadSeasonTable(context.Background(), srv.URL+"/export", Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Rows)
	assert.Equal(t, "芒果", table.Records()[0].Item)
}
