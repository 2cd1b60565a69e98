// Package importer turns the tourism-resource CSV export into Area records.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/iliyamo/travel-marketplace/internal/model"
)

// Header aliases per Area field.  The public export uses the Korean names.
var columns = map[string][]string{
	"name":          {"영문명", "name", "name_en"},
	"address":       {"상세주소", "address"},
	"website":       {"홈페이지", "website"},
	"contact_num":   {"연락처", "contact", "contact_num"},
	"open_time":     {"이용시간", "open_time"},
	"visitor_count": {"방문자수", "visitor_count"},
}

// ErrNoNameColumn means the header row has no English-name column.
var ErrNoNameColumn = errors.New("csv has no name column")

// Result is what an import produced.
type Result struct {
	Areas      []model.Area
	Encoding   string
	Skipped    int // rows without a name
	Duplicates int // rows whose name was already seen
}

// Load reads the file at path, decodes it and parses it.
func Load(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	text, enc, err := Decode(data)
	if err != nil {
		return Result{}, err
	}
	res, err := Parse(bytes.NewReader(text))
	res.Encoding = enc
	return res, err
}

// Decode returns data as UTF-8.  Valid UTF-8 passes through; anything else
// is run through the decoder for the charset chardet guesses.
func Decode(data []byte) ([]byte, string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return data, "UTF-8", nil
	}
	guess, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return nil, "", fmt.Errorf("detect encoding: %w", err)
	}
	out, err := DecodeAs(data, guess.Charset)
	return out, guess.Charset, err
}

// DecodeAs converts data from the named charset to UTF-8.
func DecodeAs(data []byte, charset string) ([]byte, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", charset, err)
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", charset, err)
	}
	return out, nil
}

// Parse reads UTF-8 CSV with a header row.  Names are trimmed; rows without
// a name are skipped and only the first row per name is kept.
func Parse(r io.Reader) (Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return Result{}, fmt.Errorf("read header: %w", err)
	}
	idx := indexHeader(header)
	if _, ok := idx["name"]; !ok {
		return Result{}, ErrNoNameColumn
	}

	res := Result{Areas: []model.Area{}}
	seen := map[string]bool{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read row: %w", err)
		}
		field := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		name := field("name")
		if name == "" {
			res.Skipped++
			continue
		}
		if seen[name] {
			res.Duplicates++
			continue
		}
		seen[name] = true

		visitors, _ := strconv.ParseInt(strings.ReplaceAll(field("visitor_count"), ",", ""), 10, 64)
		res.Areas = append(res.Areas, model.Area{
			Name:         name,
			Address:      field("address"),
			Website:      field("website"),
			ContactNum:   field("contact_num"),
			OpenTime:     field("open_time"),
			VisitorCount: visitors,
		})
	}
	return res, nil
}

func indexHeader(header []string) map[string]int {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.ToLower(strings.TrimSpace(h))] = i
	}
	idx := map[string]int{}
	for field, aliases := range columns {
		for _, a := range aliases {
			if i, ok := pos[strings.ToLower(a)]; ok {
				idx[field] = i
				break
			}
		}
	}
	return idx
}
