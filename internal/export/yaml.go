package export

import (
	"fmt"
	"io"
	"time"

	"github.com/lehigh-university-libraries/wordcards/internal/models"
	"gopkg.in/yaml.v3"
)

// Document is the YAML representation of an exported word list
type Document struct {
	GeneratedAt string             `yaml:"generated_at"`
	Count       int                `yaml:"count"`
	Words       []models.WordEntry `yaml:"words"`
}

func YAML(w io.Writer, result models.AnalysisResult) error {
	if len(result) == 0 {
		return ErrEmpty
	}

	doc := Document{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Count:       len(result),
		Words:       result,
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}
