package database

import "context"

const insertImportRun = `INSERT INTO import_runs (id, provider, file_name, source, encoding, purge, sync,
	created, skipped, duplicates, deleted, started_at, finished_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

// InsertImportRun records an import summary.
func (q *Queries) InsertImportRun(ctx context.Context, arg ImportRun) error {
	_, err := q.db.Exec(ctx, insertImportRun,
		arg.ID,
		arg.Provider,
		arg.FileName,
		arg.Source,
		arg.Encoding,
		arg.Purge,
		arg.Sync,
		arg.Created,
		arg.Skipped,
		arg.Duplicates,
		arg.Deleted,
		arg.StartedAt,
		arg.FinishedAt,
	)
	return err
}

const listImportRuns = `SELECT id, provider, file_name, source, encoding, purge, sync, created, skipped,
	duplicates, deleted, started_at, finished_at
FROM import_runs ORDER BY started_at DESC LIMIT $1`

// ListImportRuns returns the most recent import summaries.
func (q *Queries) ListImportRuns(ctx context.Context, limit int32) ([]ImportRun, error) {
	rows, err := q.db.Query(ctx, listImportRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ImportRun
	for rows.Next() {
		var i ImportRun
		if err := rows.Scan(
			&i.ID,
			&i.Provider,
			&i.FileName,
			&i.Source,
			&i.Encoding,
			&i.Purge,
			&i.Sync,
			&i.Created,
			&i.Skipped,
			&i.Duplicates,
			&i.Deleted,
			&i.StartedAt,
			&i.FinishedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
