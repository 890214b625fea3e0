package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/webtab"
	"github.com/google/uuid"
)

var _ webtab.RunService = (*RunService)(nil)

// RunService implements webtab.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun records a batch run.
func (s *RunService) CreateRun(ctx context.Context, run *webtab.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.CreatedAt = time.Now().UTC().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, file, urls, ok, empty, failed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.File, strings.Join(run.URLs, "\n"), run.OK, run.Empty, run.Failed,
		run.CreatedAt.Format(time.RFC3339))

	return err
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter webtab.RunFilter) ([]*webtab.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, file, urls, ok, empty, failed, created_at FROM runs WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}

	// rowid breaks ties between runs recorded within the same second.
	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*webtab.Run
	for rows.Next() {
		var run webtab.Run
		var urls, createdAt string

		if err := rows.Scan(&run.ID, &run.File, &urls, &run.OK, &run.Empty, &run.Failed, &createdAt); err != nil {
			return nil, err
		}
		if urls != "" {
			run.URLs = strings.Split(urls, "\n")
		}
		if run.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}
