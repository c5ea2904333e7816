package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/sukibk/textractor/internal/waiver"
)

// SQLStore backs the registry and ledger with a relational table pair.
// The driver follows the DSN: postgres URLs use pgx, anything else is a
// SQLite file (or :memory:).
type SQLStore struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS locations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	operator_id INTEGER NOT NULL,
	company_id TEXT NOT NULL,
	full_id TEXT NOT NULL,
	responsible_person TEXT NOT NULL DEFAULT '',
	street TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	state TEXT NOT NULL DEFAULT '',
	zip TEXT NOT NULL DEFAULT '',
	company_name TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS waiver_data (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	operator_id INTEGER NOT NULL,
	company_id TEXT NOT NULL,
	full_id TEXT NOT NULL,
	effective_date TEXT NOT NULL DEFAULT '',
	expire_date TEXT NOT NULL DEFAULT '',
	waiver_number TEXT NOT NULL DEFAULT '',
	source_url TEXT NOT NULL DEFAULT '',
	waived_regulations TEXT NOT NULL DEFAULT '',
	operations_authorized TEXT NOT NULL DEFAULT ''
);`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS locations (
	id BIGSERIAL PRIMARY KEY,
	operator_id INTEGER NOT NULL,
	company_id TEXT NOT NULL,
	full_id TEXT NOT NULL,
	responsible_person TEXT NOT NULL DEFAULT '',
	street TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	state TEXT NOT NULL DEFAULT '',
	zip TEXT NOT NULL DEFAULT '',
	company_name TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS waiver_data (
	id BIGSERIAL PRIMARY KEY,
	operator_id INTEGER NOT NULL,
	company_id TEXT NOT NULL,
	full_id TEXT NOT NULL,
	effective_date TEXT NOT NULL DEFAULT '',
	expire_date TEXT NOT NULL DEFAULT '',
	waiver_number TEXT NOT NULL DEFAULT '',
	source_url TEXT NOT NULL DEFAULT '',
	waived_regulations TEXT NOT NULL DEFAULT '',
	operations_authorized TEXT NOT NULL DEFAULT ''
);`

// OpenSQL connects, pings, and ensures the schema.
func OpenSQL(ctx context.Context, dsn string, logger *slog.Logger) (*SQLStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	driver, schema := "sqlite", sqliteSchema
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver, schema = "pgx", postgresSchema
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	logger.Info("store.sql.connected", "driver", driver)
	return &SQLStore{db: db, driver: driver, logger: logger}, nil
}

func (s *SQLStore) LoadRegistry(ctx context.Context) ([]waiver.RegistryRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT operator_id, company_id, full_id, responsible_person,
		       street, city, state, zip, company_name
		FROM locations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	var out []waiver.RegistryRow
	for rows.Next() {
		var r waiver.RegistryRow
		if err := rows.Scan(&r.OperatorID, &r.CompanyID, &r.FullID, &r.ResponsiblePerson,
			&r.Street, &r.City, &r.State, &r.Zip, &r.CompanyName); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) AppendRegistryRow(ctx context.Context, row waiver.RegistryRow) error {
	q := fmt.Sprintf(`
		INSERT INTO locations (operator_id, company_id, full_id, responsible_person,
		                       street, city, state, zip, company_name)
		VALUES (%s)`, s.placeholders(9))
	_, err := s.db.ExecContext(ctx, q,
		row.OperatorID, row.CompanyID, row.FullID, row.ResponsiblePerson,
		row.Street, row.City, row.State, row.Zip, row.CompanyName)
	if err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

func (s *SQLStore) AppendLedgerRow(ctx context.Context, row waiver.LedgerRow) error {
	var titles []string
	for _, f := range row.WaivedRegulations.Flags() {
		titles = append(titles, f.Title())
	}
	q := fmt.Sprintf(`
		INSERT INTO waiver_data (operator_id, company_id, full_id, effective_date,
		                         expire_date, waiver_number, source_url,
		                         waived_regulations, operations_authorized)
		VALUES (%s)`, s.placeholders(9))
	_, err := s.db.ExecContext(ctx, q,
		row.OperatorID, row.CompanyID, row.FullID, row.EffectiveDate,
		row.ExpireDate, row.WaiverNumber, row.SourceURL,
		strings.Join(titles, ", "), row.OperationsAuthorized)
	if err != nil {
		return fmt.Errorf("insert ledger row: %w", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// placeholders renders parameter markers in the driver's dialect.
func (s *SQLStore) placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		if s.driver == "pgx" {
			parts[i] = fmt.Sprintf("$%d", i+1)
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}
