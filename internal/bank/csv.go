package bank

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// Accepted header names, matched case-insensitively. "reponse"/"réponse" keep
// compatibility with existing French question files.
var (
	promptColumns   = []string{"question", "prompt"}
	answerColumns   = []string{"reponse", "réponse", "answer"}
	synonymColumns  = []string{"synonyms", "synonymes"}
	synonymSplitter = func(r rune) bool { return r == '|' || r == ';' }
)

// LoadCSV reads question records from a CSV file with a header row. Rows with
// an empty prompt or answer are skipped. Answers and synonyms are normalized
// to trimmed lowercase at load time.
func LoadCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open question source: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse question source: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("question source %s has no question rows", path)
	}

	promptIdx := columnIndex(rows[0], promptColumns)
	answerIdx := columnIndex(rows[0], answerColumns)
	synonymIdx := columnIndex(rows[0], synonymColumns)
	if promptIdx < 0 || answerIdx < 0 {
		return nil, fmt.Errorf("question source %s is missing a prompt or answer column", path)
	}

	var records []Record
	for _, row := range rows[1:] {
		if promptIdx >= len(row) || answerIdx >= len(row) {
			continue
		}
		prompt := strings.TrimSpace(row[promptIdx])
		answer := strings.ToLower(strings.TrimSpace(row[answerIdx]))
		if prompt == "" || answer == "" {
			continue
		}

		var synonyms []string
		if synonymIdx >= 0 && synonymIdx < len(row) {
			for _, s := range strings.FieldsFunc(row[synonymIdx], synonymSplitter) {
				if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
					synonyms = append(synonyms, s)
				}
			}
		}

		records = append(records, Record{Prompt: prompt, Answer: answer, Synonyms: synonyms})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("question source %s has no usable rows", path)
	}
	return records, nil
}

func columnIndex(header []string, names []string) int {
	for i, col := range header {
		col = strings.ToLower(strings.TrimSpace(col))
		for _, name := range names {
			if col == name {
				return i
			}
		}
	}
	return -1
}
