package internal

import (
	"bytes"
	"strings"
	"text/template"
	"unicode/utf8"
)

func ParsePrompt(promptTemplate string, data any) (string, error) {
	tmpl, err := template.New("prompt").Parse(promptTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}

// MergeMaps merges the given maps into a single map. Keys in later maps
// override keys in earlier maps.
func MergeMaps[T comparable, U any](maps ...map[T]U) map[T]U {
	result := make(map[T]U)
	for _, m := range maps {
		for k, v := range m {
			result[k] = v
		}
	}
	return result
}

// WordCount returns the number of whitespace-delimited words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// TruncateText truncates text to at most maxRunes runes, appending an
// ellipsis when text was shortened.
func TruncateText(text string, maxRunes int) string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes]) + "..."
}
