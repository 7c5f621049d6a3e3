package demoserver

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/raysh454/paydash/internal/logging"
	"github.com/raysh454/paydash/internal/model"

	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed schema.sql
var schemaFS embed.FS

// Store is the SQLite operation log behind the demo service.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// Entry is one logged operation plus the columns only the service needs.
type Entry struct {
	model.OperationRecord
	Currency string
}

// ListQuery selects one page of the log. Zero From/To leave that side open.
type ListQuery struct {
	Category model.Category
	Page     int
	Size     int
	From     time.Time
	To       time.Time
}

// OpenStore opens (or creates) the log at path. An empty path keeps the log in
// memory for the lifetime of the process.
func OpenStore(path string, logger logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NewStdoutLogger("demo-store")
	}

	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == "" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if err := applySchema(db, path != ""); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	logger.Info("operation store opened", logging.Field{Key: "path", Value: dsn})
	return &Store{db: db, logger: logger}, nil
}

func applySchema(db *sql.DB, onDisk bool) error {
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}
	if onDisk {
		pragmas = append(pragmas,
			"PRAGMA journal_mode=WAL",
			"PRAGMA synchronous=NORMAL",
		)
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert appends one operation to the log.
func (s *Store) Insert(ctx context.Context, e Entry) error {
	var errs, output, currency, bic, details sql.NullString
	if len(e.Errors) > 0 {
		errs = sql.NullString{String: string(e.Errors), Valid: true}
	}
	if e.OutputContent != "" {
		output = sql.NullString{String: e.OutputContent, Valid: true}
	}
	if e.Currency != "" {
		currency = sql.NullString{String: e.Currency, Valid: true}
	}
	if e.BIC != "" {
		bic = sql.NullString{String: e.BIC, Valid: true}
	}
	if e.Details != "" {
		details = sql.NullString{String: e.Details, Valid: true}
	}
	var duration sql.NullInt64
	if e.Duration != nil {
		duration = sql.NullInt64{Int64: *e.Duration, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO operations
			(id, operation_type, status, ts, source_type, target_type, input_xml,
			 output_content, errors, currency, bic, details, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, string(e.OperationType), string(e.Status), e.Timestamp.UnixMilli(),
		e.SourceType, e.TargetType, e.InputXML, output, errs, currency, bic, details, duration)
	if err != nil {
		return fmt.Errorf("failed to insert operation %s: %w", e.ID, err)
	}
	return nil
}

func (q ListQuery) where() (string, []any) {
	var clauses []string
	var args []any
	switch q.Category {
	case model.CategoryValidation, model.CategoryTransformation:
		clauses = append(clauses, "operation_type = ?")
		args = append(args, string(q.Category))
	}
	if !q.From.IsZero() {
		clauses = append(clauses, "ts >= ?")
		args = append(args, q.From.UnixMilli())
	}
	if !q.To.IsZero() {
		clauses = append(clauses, "ts <= ?")
		args = append(args, q.To.UnixMilli())
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// List returns one page of the log, newest first. TotalPages is never below 1.
func (s *Store) List(ctx context.Context, q ListQuery) (*model.Page, error) {
	if q.Size <= 0 {
		q.Size = 10
	}
	if q.Page < 0 {
		q.Page = 0
	}
	where, args := q.where()

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM operations"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count operations: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, operation_type, status, ts, source_type, target_type, input_xml,
		       output_content, errors, bic, details, duration_ms
		FROM operations`+where+`
		ORDER BY ts DESC, id
		LIMIT ? OFFSET ?
	`, append(args, q.Size, q.Page*q.Size)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query operations: %w", err)
	}
	defer rows.Close()

	content := []model.OperationRecord{}
	for rows.Next() {
		var rec model.OperationRecord
		var typ, status string
		var ts int64
		var output, errs, bic, details sql.NullString
		var duration sql.NullInt64

		if err := rows.Scan(&rec.ID, &typ, &status, &ts, &rec.SourceType, &rec.TargetType,
			&rec.InputXML, &output, &errs, &bic, &details, &duration); err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		rec.OperationType = model.OperationType(typ)
		rec.Status = model.OperationStatus(status)
		rec.Timestamp = model.Timestamp{Time: time.UnixMilli(ts).UTC()}
		rec.OutputContent = output.String
		rec.BIC = bic.String
		rec.Details = details.String
		if errs.Valid && json.Valid([]byte(errs.String)) {
			rec.Errors = json.RawMessage(errs.String)
		}
		if duration.Valid {
			d := duration.Int64
			rec.Duration = &d
		}
		content = append(content, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating operations: %w", err)
	}

	return &model.Page{
		Content:    content,
		TotalPages: max(1, (total+q.Size-1)/q.Size),
		Number:     q.Page,
	}, nil
}

// Count returns the number of logged operations.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM operations").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count operations: %w", err)
	}
	return n, nil
}

// CurrencyCounts returns how many operations were logged per currency.
func (s *Store) CurrencyCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT currency, COUNT(*)
		FROM operations
		WHERE currency IS NOT NULL AND currency != ''
		GROUP BY currency
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var ccy string
		var n int
		if err := rows.Scan(&ccy, &n); err != nil {
			return nil, fmt.Errorf("failed to scan currency: %w", err)
		}
		out[ccy] = n
	}
	return out, rows.Err()
}
