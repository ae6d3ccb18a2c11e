package fileio

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// legacy single-byte charsets we can decode, keyed by chardet's names
var legacyCharsets = map[string]encoding.Encoding{
	"windows-1251": charmap.Windows1251,
	"cp1251":       charmap.Windows1251,
	"windows-1252": charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-5":   charmap.ISO8859_5,
	"koi8-r":       charmap.KOI8R,
}

// csvReader holds nothing that needs releasing; the caller owns the stream.
type csvReader struct {
	*csv.Reader
}

func (csvReader) Close() error { return nil }

// newCSVReader streams CSV rows as UTF-8. A leading BOM (UTF-8 or UTF-16)
// is stripped; input that is not valid UTF-8 is decoded with the charset
// chardet reports.
func newCSVReader(r io.Reader) (csvReader, error) {
	br := bufio.NewReader(r)

	// Peek a bit to detect encoding
	peek, _ := br.Peek(4096)
	dec := detectDecoder(peek)

	cr := csv.NewReader(transform.NewReader(br, unicode.BOMOverride(dec)))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return csvReader{cr}, nil
}

func detectDecoder(peek []byte) transform.Transformer {
	if validUTF8Prefix(peek) {
		return encoding.Nop.NewDecoder()
	}
	det, err := chardet.NewTextDetector().DetectBest(peek)
	if err != nil || det == nil {
		return encoding.Nop.NewDecoder()
	}
	if enc, ok := legacyCharsets[strings.ToLower(det.Charset)]; ok {
		return enc.NewDecoder()
	}
	return encoding.Nop.NewDecoder()
}

// validUTF8Prefix ignores a rune cut in half by the peek window.
func validUTF8Prefix(b []byte) bool {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if utf8.Valid(b) {
			return true
		}
		b = b[:len(b)-1]
	}
	return utf8.Valid(b)
}

// NewCSVWriter writes CSV with CRLF line endings, optionally preceded by a UTF-8 BOM.
func NewCSVWriter(w io.Writer, bom bool) (*csv.Writer, error) {
	if bom {
		if _, err := io.WriteString(w, "\ufeff"); err != nil {
			return nil, err
		}
	}
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	return cw, nil
}
