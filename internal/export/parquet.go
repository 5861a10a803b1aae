package export

import (
	"fmt"
	"io"

	"github.com/lehigh-university-libraries/wordcards/internal/models"
	"github.com/parquet-go/parquet-go"
)

// Row is the Parquet schema of an exported word entry
type Row struct {
	EnglishWord        string `parquet:"english_word"`
	ChineseTranslation string `parquet:"chinese_translation"`
}

func Parquet(w io.Writer, result models.AnalysisResult) error {
	if len(result) == 0 {
		return ErrEmpty
	}

	rows := make([]Row, len(result))
	for i, e := range result {
		rows[i] = Row{EnglishWord: e.EnglishWord, ChineseTranslation: e.ChineseTranslation}
	}

	writer := parquet.NewGenericWriter[Row](w)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}
