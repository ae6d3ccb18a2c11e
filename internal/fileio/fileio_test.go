package fileio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

func readAll(t *testing.T, r Reader) [][]string {
	t.Helper()
	var rows [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
}

func TestCSVStripsUTF8BOM(t *testing.T) {
	r, err := NewReader(strings.NewReader("\ufeffupc,product_name\n111,Acme Widget\n"), "lookup.csv")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"upc", "product_name"}, {"111", "Acme Widget"}}, readAll(t, r))
}

func TestCSVDecodesUTF16WithBOM(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	data, err := enc.String("upc,product_name\n1,Blue Pen\n")
	require.NoError(t, err)

	r, err := NewReader(strings.NewReader(data), "lookup.CSV")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"upc", "product_name"}, {"1", "Blue Pen"}}, readAll(t, r))
}

func TestCSVKeepsUTF8(t *testing.T) {
	r, err := NewReader(strings.NewReader("name\n\"Молоко 3,2%\"\nКефир 1%\n\"a, b\"\nshort,row,longer\n"), "x.csv")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"name"}, {"Молоко 3,2%"}, {"Кефир 1%"}, {"a, b"}, {"short", "row", "longer"}}, readAll(t, r))
}

func TestCSVDecodesWindows1252(t *testing.T) {
	const name = "Crème brûlée de la maison, les pâtes fraîches et le café glacé"
	var src strings.Builder
	src.WriteString("upc,product_name\n")
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&src, "%d,\"%s\"\n", i, name)
	}
	data, err := charmap.Windows1252.NewEncoder().String(src.String())
	require.NoError(t, err)
	require.False(t, utf8.ValidString(data))

	r, err := NewReader(strings.NewReader(data), "lookup.csv")
	require.NoError(t, err)
	rows := readAll(t, r)
	require.Len(t, rows, 41)
	assert.Equal(t, []string{"upc", "product_name"}, rows[0])
	assert.Equal(t, []string{"0", name}, rows[1])
	assert.Equal(t, []string{"39", name}, rows[40])
}

func TestValidUTF8Prefix(t *testing.T) {
	s := []byte("ёжик")
	assert.True(t, validUTF8Prefix(s))
	assert.True(t, validUTF8Prefix(s[:len(s)-1])) // rune cut by the peek window
	assert.False(t, validUTF8Prefix([]byte{0xff, 'a', 'b', 'c', 'd', 'e'}))
}

func TestNewReaderUnsupported(t *testing.T) {
	_, err := NewReader(strings.NewReader(""), "table.ods")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestCSVOutputCommit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "output.csv")

	out, err := Create(path, true)
	require.NoError(t, err)
	require.NoError(t, out.Write([]string{"product_name", "matching_upc"}))
	require.NoError(t, out.Write([]string{"Acme, Widget", "111"}))
	require.NoError(t, out.Commit())
	out.Abort() // no-op after commit

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\ufeffproduct_name,matching_upc\r\n\"Acme, Widget\",111\r\n", string(b))
	assertOnlyFile(t, dir, "output.csv")
}

func TestOutputAbortLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	out, err := Create(filepath.Join(dir, "output.csv"), false)
	require.NoError(t, err)
	require.NoError(t, out.Write([]string{"a"}))
	out.Abort()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateRejectsUnknownFormat(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "out.json"), false)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestXLSXRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "linked.xlsx")
	rows := [][]string{
		{"product_name", "matching_upc"},
		{"Acme Widget", "111"},
		{"Blue Pen", "1"},
	}

	out, err := Create(path, true)
	require.NoError(t, err)
	for _, r := range rows {
		require.NoError(t, out.Write(r))
	}
	require.NoError(t, out.Commit())
	assertOnlyFile(t, dir, "linked.xlsx")

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, rows, readAll(t, f))
}

func TestXLSXCloseMidway(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lookup.xlsx")
	out, err := Create(path, false)
	require.NoError(t, err)
	for _, r := range [][]string{{"upc", "product_name"}, {"111", "Acme Widget"}, {"1", "Blue Pen"}} {
		require.NoError(t, out.Write(r))
	}
	require.NoError(t, out.Commit())

	f, err := Open(path)
	require.NoError(t, err)
	row, err := f.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"upc", "product_name"}, row)

	require.NoError(t, f.Reader.Close())
	_, err = f.Read()
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, f.Reader.Close())

	require.NoError(t, f.Close())
	assert.ErrorIs(t, f.Close(), os.ErrClosed)
}

func TestReadXLS(t *testing.T) {
	// row 2 has no record in the sheet; the last name is stored as UTF-16
	f, err := Open(filepath.Join("testdata", "products.xls"))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, [][]string{
		{"upc", "product_name"},
		{"111", "Acme Widget"},
		{"222", "Молоко 3,2%"},
	}, readAll(t, f))
}

func TestReadXLSRejectsGarbage(t *testing.T) {
	_, err := NewReader(strings.NewReader(strings.Repeat("not an xls file ", 64)), "lookup.xls")
	assert.Error(t, err)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSliceReader(t *testing.T) {
	r := &sliceReader{rows: [][]string{{"a"}, {"b"}}}
	assert.Equal(t, [][]string{{"a"}, {"b"}}, readAll(t, r))
	_, err := r.Read()
	assert.ErrorIs(t, err, io.EOF)

	r = &sliceReader{rows: [][]string{{"a"}, {"b"}}}
	require.NoError(t, r.Close())
	_, err = r.Read()
	assert.ErrorIs(t, err, io.EOF)
}

func TestNormalizeCell(t *testing.T) {
	assert.Equal(t, "Acme", normalizeCell("Acme\x00\x00"))
	assert.Equal(t, " Acme ", normalizeCell(" Acme "))
}

func TestCSVWriterWithoutBOM(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewCSVWriter(&buf, false)
	require.NoError(t, err)
	require.NoError(t, w.Write([]string{"a", "b"}))
	w.Flush()
	assert.Equal(t, "a,b\r\n", buf.String())
}

func assertOnlyFile(t *testing.T, dir, name string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, name, entries[0].Name())
}
