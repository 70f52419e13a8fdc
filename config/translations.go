package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// defaultTranslations canonicalizes the subject spellings the journal is
// known to vary. File overrides are merged on top.
var defaultTranslations = map[string]string{
	"Matemātika F":          "Matemātika",
	"Latviešu valoda F":     "Latviešu valoda",
	"Angļu valoda F":        "Angļu valoda",
	"Sports un veselība":    "Sports",
	"Datorika F":            "Datorika",
	"Sociālās zinības F":    "Sociālās zinības",
	"Dabaszinības F":        "Dabaszinības",
	"Vizuālā māksla F":      "Vizuālā māksla",
	"Mūzika F":              "Mūzika",
	"Dizains un tehnoloģijas F": "Dizains un tehnoloģijas",
}

// LoadTranslations returns the subject dictionary. When path is empty only
// the built-in entries are used. File format: one "original=canonical" pair
// per line, blank lines and lines starting with # are skipped.
func LoadTranslations(path string) (map[string]string, error) {
	translations := make(map[string]string, len(defaultTranslations))
	for k, v := range defaultTranslations {
		translations[k] = v
	}
	if path == "" {
		return translations, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open translations file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("config: translations file line %d: missing '='", lineNo)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			return nil, fmt.Errorf("config: translations file line %d: empty key or value", lineNo)
		}
		translations[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: read translations file: %w", err)
	}
	return translations, nil
}
