package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dbfixture"
	"github.com/uptrace/bun/extra/bundebug"
	"gopkg.in/yaml.v3"

	"github.com/getprecis/precis/internal"
)

type Row interface {
	SummaryHistorySchema
}

type FixtureModel[T Row] struct {
	Model string `yaml:"model"`
	Rows  []T    `yaml:"rows"`
}

type Fixtures[T Row] []FixtureModel[T]

func generateTimeLastNDays(nDays int) time.Time {
	now := time.Now()
	rangeStart := now.Add(time.Duration(-nDays) * 24 * time.Hour)
	return gofakeit.DateRange(rangeStart, now)
}

// GenerateFixtureData writes fixtureCount fake history entries to a
// YAML fixture file under outputDir.
func GenerateFixtureData(fixtureCount int, outputDir string) {
	fakerGlobal := gofakeit.NewUnlocked(0)
	gofakeit.SetGlobalFaker(fakerGlobal)

	entries := make([]SummaryHistorySchema, fixtureCount)
	for i := 0; i < fixtureCount; i++ {
		dateCreated := generateTimeLastNDays(14)
		originalWordCount := gofakeit.Number(50, 2000)
		original := gofakeit.Paragraph(2, 8, originalWordCount/16, " ")
		summary := gofakeit.Paragraph(1, 3, 20, " ")
		summaryWordCount := internal.WordCount(summary)

		entries[i] = SummaryHistorySchema{
			UUID:              uuid.New(),
			CreatedAt:         dateCreated,
			UpdatedAt:         dateCreated,
			OriginalText:      internal.TruncateText(original, OriginalTextStoredChars),
			Summary:           summary,
			OriginalWordCount: originalWordCount,
			SummaryWordCount:  summaryWordCount,
			CompressionRatio:  float64(summaryWordCount) / float64(originalWordCount),
			TokenCount:        gofakeit.Number(20, 200),
			Metadata:          map[string]interface{}{"source": gofakeit.Word()},
		}
	}

	historyFixture := Fixtures[SummaryHistorySchema]{
		{
			Model: "SummaryHistorySchema",
			Rows:  entries,
		},
	}

	if outputDir == "" {
		outputDir = "./"
	} else if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		if err := os.Mkdir(outputDir, 0755); err != nil {
			fmt.Printf("unable to create %s: %v", outputDir, err)
			return
		}
	}

	writeFixtureToYAML(historyFixture, outputDir, "history_fixtures.yaml")
}

func writeFixtureToYAML[T Row](fixtures Fixtures[T], outputDir, filename string) {
	data, err := yaml.Marshal(&fixtures)
	if err != nil {
		fmt.Printf("error: %v", err)
		return
	}

	file, err := os.Create(filepath.Join(outputDir, filename))
	if err != nil {
		fmt.Printf("error: %v", err)
		return
	}
	defer func(file *os.File) {
		if err := file.Close(); err != nil {
			fmt.Printf("error: %v", err)
		}
	}(file)

	if _, err = file.Write(data); err != nil {
		fmt.Printf("error: %v", err)
		return
	}

	fmt.Printf("Fixtures generated successfully in %s!\n", filename)
}

// LoadFixtures drops and recreates the schema, then loads all YAML
// fixtures found under fixturePath.
func LoadFixtures(
	ctx context.Context,
	db *bun.DB,
	fixturePath string,
) error {
	db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))

	dropSchemaQuery := `DROP SCHEMA public CASCADE;
CREATE SCHEMA public;
GRANT ALL ON SCHEMA public TO postgres;
GRANT ALL ON SCHEMA public TO public;`

	if _, err := db.ExecContext(ctx, dropSchemaQuery); err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}

	if err := CreateSchema(ctx, db); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	db.RegisterModel((*SummaryHistorySchema)(nil))

	fixture := dbfixture.New(db, dbfixture.WithRecreateTables())

	files, err := os.ReadDir(fixturePath)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		switch filepath.Ext(file.Name()) {
		case ".yaml", ".yml":
			if err := fixture.Load(ctx, os.DirFS(fixturePath), file.Name()); err != nil {
				return fmt.Errorf("failed to load fixture %s: %w", file.Name(), err)
			}
		}
	}

	return nil
}
