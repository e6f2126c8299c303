package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/getprecis/precis/internal"
	"github.com/getprecis/precis/pkg/models"
)

var log = internal.GetLogger()

// minPostgresVersion is the oldest server version gen_random_uuid() and
// the jsonb operators we rely on are known to work with.
const minPostgresVersion = "13.0.0"

type SummaryHistorySchema struct {
	bun.BaseModel `bun:"table:summary_history,alias:sh" yaml:"-"`

	UUID uuid.UUID `bun:",pk,type:uuid,default:gen_random_uuid()"                     yaml:"uuid,omitempty"`
	// ID is used as a cursor for trimming and ordering as we can't sort
	// by CreatedAt for entries created simultaneously.
	ID                int64                  `bun:",autoincrement"                                              yaml:"id,omitempty"`
	CreatedAt         time.Time              `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp" yaml:"created_at,omitempty"`
	UpdatedAt         time.Time              `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp" yaml:"updated_at,omitempty"`
	DeletedAt         time.Time              `bun:"type:timestamptz,soft_delete,nullzero"                       yaml:"deleted_at,omitempty"`
	OriginalText      string                 `bun:",notnull"                                                    yaml:"original_text,omitempty"`
	Summary           string                 `bun:",notnull"                                                    yaml:"summary,omitempty"`
	OriginalWordCount int                    `bun:",notnull"                                                    yaml:"original_word_count,omitempty"`
	SummaryWordCount  int                    `bun:",notnull"                                                    yaml:"summary_word_count,omitempty"`
	CompressionRatio  float64                `bun:",notnull"                                                    yaml:"compression_ratio,omitempty"`
	TokenCount        int                    `bun:",nullzero"                                                   yaml:"token_count,omitempty"`
	Entities          []models.Entity        `bun:"type:jsonb,nullzero"                                         yaml:"entities,omitempty"`
	Metadata          map[string]interface{} `bun:"type:jsonb,nullzero,json_use_number"                         yaml:"metadata,omitempty"`
}

var _ bun.BeforeAppendModelHook = (*SummaryHistorySchema)(nil)

func (s *SummaryHistorySchema) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.UpdateQuery); ok {
		s.UpdatedAt = time.Now()
	}
	return nil
}

// historyTableList is all tables the store manages. Kept as a slice so
// schema creation and purging iterate uniformly as tables are added.
var historyTableList = []bun.BeforeAppendModelHook{
	&SummaryHistorySchema{},
}

// CreateSchema creates the db schema if it does not exist.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	for _, schema := range historyTableList {
		_, err := db.NewCreateTable().
			Model(schema).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			// bun still trying to create indexes despite IfNotExists flag
			if strings.Contains(err.Error(), "already exists") {
				continue
			}
			return fmt.Errorf("error creating table for schema %T: %w", schema, err)
		}
	}

	_, err := db.NewCreateIndex().
		Model((*SummaryHistorySchema)(nil)).
		Index("sh_id_idx").
		IfNotExists().
		Column("id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("error creating summary_history index: %w", err)
	}

	return nil
}

// NewPostgresConn creates a new bun.DB connection to a postgres database
// using the provided DSN. The connection is configured to pool
// connections based on the number of PROCs available.
func NewPostgresConn(appState *models.AppState) (*bun.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	maxOpenConns := 4 * runtime.GOMAXPROCS(0)

	sqldb := sql.OpenDB(
		pgdriver.NewConnector(
			pgdriver.WithDSN(appState.Config.Store.Postgres.DSN),
			pgdriver.WithReadTimeout(2*time.Minute),
		),
	)
	sqldb.SetMaxOpenConns(maxOpenConns)
	sqldb.SetMaxIdleConns(maxOpenConns)

	db := bun.NewDB(sqldb, pgdialect.New())

	if err := checkPostgresVersion(ctx, db); err != nil {
		log.Warnf("unable to verify postgres server version: %v", err)
	}

	return db, nil
}

// checkPostgresVersion warns if the server is older than the minimum
// supported version. It does not fail the connection.
func checkPostgresVersion(ctx context.Context, db *bun.DB) error {
	requiredVersion, err := semver.NewVersion(minPostgresVersion)
	if err != nil {
		return fmt.Errorf("error parsing required postgres version: %w", err)
	}

	var version string
	if err := db.NewRaw("SHOW server_version").Scan(ctx, &version); err != nil {
		return fmt.Errorf("error querying postgres server version: %w", err)
	}

	thisVersion, err := parseServerVersion(version)
	if err != nil {
		return err
	}

	if requiredVersion.GreaterThan(thisVersion) {
		log.Warnf(
			"postgres server version %s is older than the minimum supported version %s",
			version,
			minPostgresVersion,
		)
	}

	return nil
}

// parseServerVersion parses the output of SHOW server_version, which may
// carry a distribution suffix such as "15.4 (Debian 15.4-1.pgdg120+1)".
func parseServerVersion(version string) (*semver.Version, error) {
	fields := strings.Fields(version)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty postgres server version")
	}

	parsed, err := semver.NewVersion(fields[0])
	if err != nil {
		return nil, fmt.Errorf("error parsing postgres server version %q: %w", version, err)
	}

	return parsed, nil
}
