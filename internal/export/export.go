package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/lehigh-university-libraries/wordcards/internal/locale"
	"github.com/lehigh-university-libraries/wordcards/internal/models"
)

// ErrEmpty is returned when there is nothing to export.
var ErrEmpty = fmt.Errorf("%w: no words to export", models.ErrValidation)

// DefaultFilename is the download name of an exported word list.
const DefaultFilename = "vocabulary_cards.csv"

type Format string

const (
	FormatCSV     Format = "csv"
	FormatYAML    Format = "yaml"
	FormatParquet Format = "parquet"
)

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "", "csv":
		return FormatCSV, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "parquet":
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s (supported: csv, yaml, parquet)", s)
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml; charset=utf-8"
	case FormatParquet:
		return "application/vnd.apache.parquet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Filename replaces the extension of base with the one of the format.
func (f Format) Filename(base string) string {
	if base == "" {
		base = DefaultFilename
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + "." + string(f)
}

// Write encodes result in the given format. An empty result is rejected before anything is written.
func Write(w io.Writer, f Format, result models.AnalysisResult, text locale.Strings) error {
	switch f {
	case FormatCSV:
		return CSV(w, result, text)
	case FormatYAML:
		return YAML(w, result)
	case FormatParquet:
		return Parquet(w, result)
	default:
		return fmt.Errorf("unsupported export format: %s", f)
	}
}
