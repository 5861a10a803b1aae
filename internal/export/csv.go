package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/lehigh-university-libraries/wordcards/internal/locale"
	"github.com/lehigh-university-libraries/wordcards/internal/models"
)

// CSV writes a two column document with a header row. Fields containing a
// comma, a double quote or a line break are quoted, with inner quotes doubled.
func CSV(w io.Writer, result models.AnalysisResult, text locale.Strings) error {
	if len(result) == 0 {
		return ErrEmpty
	}

	writer := csv.NewWriter(w)

	if err := writer.Write([]string{text.HeaderEnglish, text.HeaderChinese}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, e := range result {
		if err := writer.Write([]string{e.EnglishWord, e.ChineseTranslation}); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
