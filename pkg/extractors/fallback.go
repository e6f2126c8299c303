package extractors

import (
	"regexp"

	"github.com/getprecis/precis/pkg/models"
)

const (
	maxFallbackDates = 5
	maxFallbackMoney = 5
	maxFallbackNames = 10
)

var (
	datePattern = regexp.MustCompile(
		`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b|\b\d{4}[/-]\d{1,2}[/-]\d{1,2}\b`,
	)
	moneyPattern = regexp.MustCompile(
		`(?i)\$\d+(?:,\d{3})*(?:\.\d{2})?|\b\d+(?:,\d{3})*(?:\.\d{2})?\s*(?:dollars?|USD|million|billion)\b`,
	)
	// Capitalized word runs are candidate person or organization names
	namePattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)
)

// FallbackEntities extracts entities with simple pattern matching. It
// is used when no NLP server is configured or the server is
// unreachable: coverage is limited to dates, monetary amounts, and
// capitalized name candidates.
func FallbackEntities(text string) []models.Entity {
	entities := make([]models.Entity, 0, MaxEntities)

	for _, date := range capped(datePattern.FindAllString(text, -1), maxFallbackDates) {
		entities = append(entities, models.Entity{Name: date, Label: "DATE"})
	}

	for _, amount := range capped(moneyPattern.FindAllString(text, -1), maxFallbackMoney) {
		entities = append(entities, models.Entity{Name: amount, Label: "MONEY"})
	}

	names := 0
	for _, name := range namePattern.FindAllString(text, -1) {
		if len(name) <= 3 {
			continue
		}
		entities = append(entities, models.Entity{Name: name, Label: "PERSON/ORG"})
		names++
		if names >= maxFallbackNames {
			break
		}
	}

	return dedupeEntities(entities)
}

func capped(matches []string, n int) []string {
	if len(matches) > n {
		return matches[:n]
	}
	return matches
}
