package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/xid"

	"github.com/sakif/learnhub/internal/apperror"
	"github.com/sakif/learnhub/internal/model"
)

const resourceColumns = `id, user_id, title, description, url, created_at, updated_at`

// CreateResource inserts a new resource and assigns its ID.
func (db *DB) CreateResource(ctx context.Context, resource *model.Resource) error {
	resource.ID = xid.New().String()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO resources (`+resourceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		resource.ID,
		resource.UserID,
		resource.Title,
		resource.Description,
		resource.URL,
		resource.CreatedAt,
		resource.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating resource: %w", err)
	}
	return nil
}

func (db *DB) GetResource(ctx context.Context, id string) (*model.Resource, error) {
	var r model.Resource
	err := db.conn.QueryRowContext(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE id = ?`, id,
	).Scan(&r.ID, &r.UserID, &r.Title, &r.Description, &r.URL, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("resource", id)
		}
		return nil, fmt.Errorf("sqlite: getting resource %s: %w", id, err)
	}
	return &r, nil
}

func (db *DB) ListResources(ctx context.Context) ([]model.Resource, error) {
	return db.queryResources(ctx,
		`SELECT `+resourceColumns+` FROM resources ORDER BY rowid`)
}

func (db *DB) ListResourcesByUser(ctx context.Context, userID string) ([]model.Resource, error) {
	return db.queryResources(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE user_id = ? ORDER BY rowid`, userID)
}

// SearchResourcesByTitle matches resources whose title contains query,
// ignoring case. SQLite's lower() only folds ASCII, so the match runs in Go
// on the scanned rows.
func (db *DB) SearchResourcesByTitle(ctx context.Context, query string) ([]model.Resource, error) {
	all, err := db.queryResources(ctx,
		`SELECT `+resourceColumns+` FROM resources ORDER BY rowid`)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	matches := []model.Resource{}
	for _, r := range all {
		if strings.Contains(strings.ToLower(r.Title), needle) {
			matches = append(matches, r)
		}
	}
	return matches, nil
}

func (db *DB) UpdateResource(ctx context.Context, resource *model.Resource) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE resources SET title = ?, description = ?, url = ?, updated_at = ?
		 WHERE id = ?`,
		resource.Title,
		resource.Description,
		resource.URL,
		resource.UpdatedAt,
		resource.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating resource %s: %w", resource.ID, err)
	}
	return checkAffected(result, func() error { return apperror.NotFound("resource", resource.ID) })
}

func (db *DB) DeleteResource(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM resources WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting resource %s: %w", id, err)
	}
	return checkAffected(result, func() error { return apperror.NotFound("resource", id) })
}

func (db *DB) queryResources(ctx context.Context, query string, args ...any) ([]model.Resource, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing resources: %w", err)
	}
	defer rows.Close()

	resources := []model.Resource{}
	for rows.Next() {
		var r model.Resource
		if err := rows.Scan(&r.ID, &r.UserID, &r.Title, &r.Description, &r.URL, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning resource row: %w", err)
		}
		resources = append(resources, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating resources: %w", err)
	}
	return resources, nil
}
