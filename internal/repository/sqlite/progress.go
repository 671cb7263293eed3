package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/xid"

	"github.com/sakif/learnhub/internal/apperror"
	"github.com/sakif/learnhub/internal/model"
)

const progressColumns = `id, user_id, user_name, title, description, template_type, status,
	tutorial_name, project_name, skills_learned, challenges, next_steps,
	likes, comments, created_at, updated_at`

// CreateProgress inserts a new learning progress entry and assigns its ID.
// Timestamps are stored in UTC so that created_at sorts correctly as text.
func (db *DB) CreateProgress(ctx context.Context, p *model.LearningProgress) error {
	p.ID = xid.New().String()

	likes, comments, err := encodeSocial(p)
	if err != nil {
		return err
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO learning_progress (`+progressColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.UserID,
		p.UserName,
		p.Title,
		p.Description,
		string(p.TemplateType),
		p.Status,
		p.TutorialName,
		p.ProjectName,
		p.SkillsLearned,
		p.Challenges,
		p.NextSteps,
		likes,
		comments,
		p.CreatedAt.UTC(),
		p.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating learning progress: %w", err)
	}
	return nil
}

func (db *DB) GetProgress(ctx context.Context, id string) (*model.LearningProgress, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+progressColumns+` FROM learning_progress WHERE id = ?`, id)

	p, err := scanProgress(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("learning progress", id)
		}
		return nil, fmt.Errorf("sqlite: getting learning progress %s: %w", id, err)
	}
	return p, nil
}

// ListProgress returns every entry newest first. Entries created within the
// same timestamp fall back to insertion order, newest insertion first.
func (db *DB) ListProgress(ctx context.Context) ([]model.LearningProgress, error) {
	return db.queryProgress(ctx,
		`SELECT `+progressColumns+` FROM learning_progress
		 ORDER BY created_at DESC, rowid DESC`)
}

func (db *DB) ListProgressByUser(ctx context.Context, userID string) ([]model.LearningProgress, error) {
	return db.queryProgress(ctx,
		`SELECT `+progressColumns+` FROM learning_progress
		 WHERE user_id = ?
		 ORDER BY rowid`, userID)
}

// UpdateProgress saves the whole entry, embedded likes and comments included.
func (db *DB) UpdateProgress(ctx context.Context, p *model.LearningProgress) error {
	likes, comments, err := encodeSocial(p)
	if err != nil {
		return err
	}

	result, err := db.conn.ExecContext(ctx,
		`UPDATE learning_progress
		 SET user_name = ?, title = ?, description = ?, template_type = ?, status = ?,
		     tutorial_name = ?, project_name = ?, skills_learned = ?, challenges = ?,
		     next_steps = ?, likes = ?, comments = ?, updated_at = ?
		 WHERE id = ?`,
		p.UserName,
		p.Title,
		p.Description,
		string(p.TemplateType),
		p.Status,
		p.TutorialName,
		p.ProjectName,
		p.SkillsLearned,
		p.Challenges,
		p.NextSteps,
		likes,
		comments,
		p.UpdatedAt.UTC(),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating learning progress %s: %w", p.ID, err)
	}
	return checkAffected(result, func() error { return apperror.NotFound("learning progress", p.ID) })
}

func (db *DB) DeleteProgress(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM learning_progress WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting learning progress %s: %w", id, err)
	}
	return checkAffected(result, func() error { return apperror.NotFound("learning progress", id) })
}

func (db *DB) queryProgress(ctx context.Context, query string, args ...any) ([]model.LearningProgress, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing learning progress: %w", err)
	}
	defer rows.Close()

	entries := []model.LearningProgress{}
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning learning progress row: %w", err)
		}
		entries = append(entries, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating learning progress: %w", err)
	}
	return entries, nil
}

func encodeSocial(p *model.LearningProgress) (likes, comments string, err error) {
	if likes, err = encodeJSON(p.Likes); err != nil {
		return "", "", fmt.Errorf("sqlite: encoding likes: %w", err)
	}
	if comments, err = encodeJSON(p.Comments); err != nil {
		return "", "", fmt.Errorf("sqlite: encoding comments: %w", err)
	}
	return likes, comments, nil
}

func scanProgress(s scanner) (*model.LearningProgress, error) {
	var (
		p              model.LearningProgress
		templateType   string
		likes, comment string
	)
	if err := s.Scan(
		&p.ID,
		&p.UserID,
		&p.UserName,
		&p.Title,
		&p.Description,
		&templateType,
		&p.Status,
		&p.TutorialName,
		&p.ProjectName,
		&p.SkillsLearned,
		&p.Challenges,
		&p.NextSteps,
		&likes,
		&comment,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.TemplateType = model.TemplateType(templateType)

	var err error
	if p.Likes, err = decodeJSON[model.Like](likes); err != nil {
		return nil, fmt.Errorf("decoding likes of %s: %w", p.ID, err)
	}
	if p.Comments, err = decodeJSON[model.Comment](comment); err != nil {
		return nil, fmt.Errorf("decoding comments of %s: %w", p.ID, err)
	}
	return &p, nil
}
