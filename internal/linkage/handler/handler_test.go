package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"name-linker/internal/config"
)

func linkRequest(t *testing.T, files map[string]string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for field, content := range files {
		fw, err := mw.CreateFormFile(field, field+".csv")
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/link", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestLink(t *testing.T) {
	req := linkRequest(t, map[string]string{
		"lookup": "upc,product_name\n1,Blue Pen\n2,Black Pen\n",
		"source": "sku,title\nA,Blue Pen\nB,Black Pen!!\nC,zzz\n",
	}, map[string]string{
		"source_name": "title",
		"verbose":     "1",
		"bom":         "false",
	})
	rec := httptest.NewRecorder()
	Link(config.Default(), zerolog.Nop())(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "3", rec.Header().Get("X-Linkage-Rows"))
	assert.Equal(t, "2", rec.Header().Get("X-Linkage-Matched"))
	assert.Equal(t,
		"sku,title,matching_upc,matching_product_name,match_score\r\n"+
			"A,Blue Pen,1,Blue Pen,100\r\n"+
			"B,Black Pen!!,2,Black Pen,100\r\n"+
			"C,zzz,,,0\r\n",
		rec.Body.String())
}

func TestLinkWritesBOMByDefault(t *testing.T) {
	req := linkRequest(t, map[string]string{
		"lookup": "upc,product_name\n111,Acme Widget\n",
		"source": "product_name\nAcme Widget!!\n",
	}, nil)
	rec := httptest.NewRecorder()
	Link(config.Default(), zerolog.Nop())(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "\ufeffproduct_name,matching_upc\r\nAcme Widget!!,111\r\n", rec.Body.String())
}

func TestLinkMissingColumn(t *testing.T) {
	req := linkRequest(t, map[string]string{
		"lookup": "upc,product_name\n1,Blue Pen\n",
		"source": "name\nBlue Pen\n",
	}, nil)
	rec := httptest.NewRecorder()
	Link(config.Default(), zerolog.Nop())(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "product_name")
	assert.NotContains(t, rec.Body.String(), "matching_upc")
}

func TestLinkBadRequests(t *testing.T) {
	tests := []struct {
		name   string
		files  map[string]string
		fields map[string]string
	}{
		{"no lookup", map[string]string{"source": "product_name\nx\n"}, nil},
		{"no source", map[string]string{"lookup": "upc,product_name\n"}, nil},
		{"bad scorer", map[string]string{"source": "product_name\nx\n", "lookup": "upc,product_name\n"}, map[string]string{"scorer": "soundex"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Link(config.Default(), zerolog.Nop())(rec, linkRequest(t, tt.files, tt.fields))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLinkXLSLookup(t *testing.T) {
	xlsData, err := os.ReadFile(filepath.Join("..", "..", "fileio", "testdata", "products.xls"))
	require.NoError(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("lookup", "products.xls")
	require.NoError(t, err)
	_, err = fw.Write(xlsData)
	require.NoError(t, err)
	fw, err = mw.CreateFormFile("source", "orders.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("product_name\nAcme Widget\nМолоко 3,2%\n"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("bom", "0"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/link", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	Link(config.Default(), zerolog.Nop())(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "product_name,matching_upc\r\nAcme Widget,111\r\n\"Молоко 3,2%\",222\r\n", rec.Body.String())
}

type fakeForm map[string]string

func (f fakeForm) FormValue(k string) string { return f[k] }

func TestSettingsFromForm(t *testing.T) {
	def := config.Default().Linkage
	s := settingsFromForm(fakeForm{
		"lookup_id": " gtin ",
		"verbose":   "yes",
		"min_score": "oops",
		"lowercase": "on",
	}, def)

	assert.Equal(t, "gtin", s.LookupIdentifierColumn)
	assert.Equal(t, def.LookupNameColumn, s.LookupNameColumn)
	assert.True(t, s.Verbose)
	assert.True(t, s.Lowercase)
	assert.Equal(t, def.MinScore, s.MinScore)
}
