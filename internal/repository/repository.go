package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/BerylCAtieno/resume-insights-api/internal/models"
	"github.com/BerylCAtieno/resume-insights-api/internal/utils"
)

var (
	ErrNotFound = errors.New("insight record not found")
	ErrStorage  = errors.New("insight store failure")
)

// StorageError wraps a failure of the underlying database.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

type Repository interface {
	Create(ctx context.Context, filename string, insight models.Insight) (*models.InsightRecord, error)
	GetByID(ctx context.Context, id string) (*models.InsightRecord, error)
	List(ctx context.Context, query models.ListQuery) ([]models.InsightRecord, error)
}

type Option func(*repository)

// WithClock overrides the source of upload timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *repository) { r.now = now }
}

// WithIDGenerator overrides how record ids are minted.
func WithIDGenerator(newID func() string) Option {
	return func(r *repository) { r.newID = newID }
}

type repository struct {
	db    *sqlx.DB
	now   func() time.Time
	newID func() string
}

func NewRepository(db *sqlx.DB, opts ...Option) Repository {
	r := &repository{
		db:    db,
		now:   time.Now,
		newID: utils.GenerateID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type insightRow struct {
	ID         string `db:"id"`
	Filename   string `db:"filename"`
	UploadTime int64  `db:"upload_time"`
	Insights   string `db:"insights"`
}

func (row insightRow) toRecord() (*models.InsightRecord, error) {
	insight, err := models.DecodeInsight(row.Insights)
	if err != nil {
		return nil, fmt.Errorf("decode insights for %s: %w", row.ID, err)
	}
	return &models.InsightRecord{
		ID:         row.ID,
		Filename:   row.Filename,
		UploadTime: time.Unix(0, row.UploadTime).UTC(),
		Insights:   insight,
	}, nil
}

// Create assigns an id and upload time and persists the record in a single
// statement, so a failed insert leaves nothing behind.
func (r *repository) Create(ctx context.Context, filename string, insight models.Insight) (*models.InsightRecord, error) {
	if err := insight.Validate(); err != nil {
		return nil, err
	}

	blob, err := models.EncodeInsight(insight)
	if err != nil {
		return nil, err
	}

	rec := &models.InsightRecord{
		ID:         r.newID(),
		Filename:   filename,
		UploadTime: r.now().UTC(),
		Insights:   insight,
	}

	query := `
		INSERT INTO insights (id, filename, upload_time, insights, filename_search, insights_search)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		rec.ID,
		rec.Filename,
		rec.UploadTime.UnixNano(),
		blob,
		strings.ToLower(rec.Filename),
		strings.ToLower(blob),
	)
	if err != nil {
		return nil, &StorageError{Op: "create insight", Err: err}
	}

	return rec, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*models.InsightRecord, error) {
	var row insightRow

	query := `
		SELECT id, filename, upload_time, insights
		FROM insights
		WHERE id = ?
	`

	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "get insight", Err: err}
	}

	rec, err := row.toRecord()
	if err != nil {
		return nil, &StorageError{Op: "get insight", Err: err}
	}
	return rec, nil
}

// List matches q.Search case-insensitively as a literal substring of the
// filename or the serialized insights. An empty search matches everything.
func (r *repository) List(ctx context.Context, q models.ListQuery) ([]models.InsightRecord, error) {
	direction := "DESC"
	if q.Sort == models.SortAscending {
		direction = "ASC"
	}

	var (
		where string
		args  []any
	)
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		where = "WHERE instr(filename_search, ?) > 0 OR instr(insights_search, ?) > 0"
		args = append(args, needle, needle)
	}

	query := fmt.Sprintf(`
		SELECT id, filename, upload_time, insights
		FROM insights
		%s
		ORDER BY upload_time %s, rowid %s
	`, where, direction, direction)

	var rows []insightRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, &StorageError{Op: "list insights", Err: err}
	}

	records := make([]models.InsightRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, &StorageError{Op: "list insights", Err: err}
		}
		records = append(records, *rec)
	}

	return records, nil
}
