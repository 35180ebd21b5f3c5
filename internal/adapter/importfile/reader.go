// Package importfile turns delivery-note CSV exports into import rows.
package importfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/encoding/charmap"

	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/usecase"
)

// DefaultMaxBytes bounds the size of an export accepted by Read.
const DefaultMaxBytes = 32 << 20

var (
	ErrEmptyFile   = fmt.Errorf("%w: import file is empty", domain.ErrValidation)
	ErrFileTooBig  = fmt.Errorf("%w: import file is too large", domain.ErrValidation)
	ErrNoDataFrame = fmt.Errorf("%w: import file could not be parsed", domain.ErrValidation)
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Read parses a CSV export. The delimiter (';' or ',') is taken from the
// header line and non UTF-8 input is decoded as Windows-1252.
func Read(r io.Reader) ([]usecase.ImportRow, error) {
	return ReadLimited(r, DefaultMaxBytes)
}

// ReadLimited is Read with an explicit size limit in bytes.
func ReadLimited(r io.Reader, maxBytes int64) ([]usecase.ImportRow, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	if int64(len(raw)) > maxBytes {
		return nil, ErrFileTooBig
	}

	raw = bytes.TrimPrefix(raw, utf8BOM)
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyFile
	}

	if !hasDataLines(raw) {
		return []usecase.ImportRow{}, nil
	}

	var decoded io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		decoded = charmap.Windows1252.NewDecoder().Reader(decoded)
	}

	df := dataframe.ReadCSV(decoded,
		dataframe.WithDelimiter(detectDelimiter(raw)),
		dataframe.WithLazyQuotes(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDataFrame, df.Err)
	}

	return toRows(df), nil
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string) ([]usecase.ImportRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}

func toRows(df dataframe.DataFrame) []usecase.ImportRow {
	records := df.Records()
	if len(records) < 2 {
		return []usecase.ImportRow{}
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.ToUpper(strings.TrimSpace(name))
	}

	rows := make([]usecase.ImportRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(usecase.ImportRow, len(header))
		blank := true
		for i, name := range header {
			if name == "" {
				continue
			}
			value := strings.TrimSpace(record[i])
			if value == "" {
				row[name] = nil
				continue
			}
			blank = false
			row[name] = value
		}
		if blank {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func detectDelimiter(raw []byte) rune {
	line, err := bufio.NewReader(bytes.NewReader(raw)).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return ';'
	}
	if strings.Count(line, ",") > strings.Count(line, ";") {
		return ','
	}
	return ';'
}

func hasDataLines(raw []byte) bool {
	lines := 0
	for _, line := range bytes.Split(raw, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			lines++
		}
		if lines > 1 {
			return true
		}
	}
	return false
}
