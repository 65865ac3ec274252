package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saitama-on/AssessmentAssist/internal/model"
	"github.com/saitama-on/AssessmentAssist/internal/validation"
)

// ErrQuestionNotFound is returned when a question id has no persisted row.
var ErrQuestionNotFound = errors.New("question not found")

// QuestionRepository is the persistence boundary for question documents.
// Save runs the persist validator before touching the database, so no
// invalid document can ever be committed.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// Save validates and commits a question document. The question row and its
// variant sub-rows are written in one transaction: either everything lands
// or nothing does. Timestamps are refreshed on commit.
func (r *QuestionRepository) Save(ctx context.Context, q *model.Question) error {
	if err := validation.ValidateForPersist(q); err != nil {
		return err
	}

	now := time.Now().UTC()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = now
	}
	q.UpdatedAt = now

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO questions (id, author_id, type, purpose, stem, topic, learning_objective, blooms_level, tags, image_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (id) DO UPDATE SET
		   type = EXCLUDED.type,
		   purpose = EXCLUDED.purpose,
		   stem = EXCLUDED.stem,
		   topic = EXCLUDED.topic,
		   learning_objective = EXCLUDED.learning_objective,
		   blooms_level = EXCLUDED.blooms_level,
		   tags = EXCLUDED.tags,
		   image_url = EXCLUDED.image_url,
		   updated_at = EXCLUDED.updated_at`,
		q.ID, q.AuthorID, q.Type, q.Purpose, q.Stem, q.Topic,
		q.LearningObjective, q.BloomsLevel, q.Tags, q.ImageURL,
		q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert question: %w", err)
	}

	// Replace the variant payload wholesale. Clearing all three tables also
	// removes stale sub-rows left behind by a type change.
	for _, table := range []string{"question_options", "question_items", "question_zones"} {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE question_id = $1`, q.ID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	switch q.Type {
	case model.QuestionTypeMCQ:
		for i, opt := range q.Options {
			if _, err := tx.Exec(ctx,
				`INSERT INTO question_options (id, question_id, position, text, is_correct, feedback)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				opt.ID, q.ID, i, opt.Text, opt.IsCorrect, opt.Feedback,
			); err != nil {
				return fmt.Errorf("insert option: %w", err)
			}
		}
	case model.QuestionTypeOrdering:
		for i, item := range q.Items {
			if _, err := tx.Exec(ctx,
				`INSERT INTO question_items (id, question_id, position, text, item_order)
				 VALUES ($1, $2, $3, $4, $5)`,
				item.ID, q.ID, i, item.Text, item.Order,
			); err != nil {
				return fmt.Errorf("insert item: %w", err)
			}
		}
	case model.QuestionTypeHotspot:
		for i, zone := range q.Zones {
			coords, err := json.Marshal(zone.Coordinates)
			if err != nil {
				return fmt.Errorf("encode zone coordinates: %w", err)
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO question_zones (id, question_id, position, label, coordinates)
				 VALUES ($1, $2, $3, $4, $5)`,
				zone.ID, q.ID, i, zone.Label, coords,
			); err != nil {
				return fmt.Errorf("insert zone: %w", err)
			}
		}
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a question document with its variant payload.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	q := &model.Question{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, author_id, type, purpose, stem, topic, learning_objective, blooms_level, tags, image_url, created_at, updated_at
		 FROM questions WHERE id = $1`, id,
	).Scan(&q.ID, &q.AuthorID, &q.Type, &q.Purpose, &q.Stem, &q.Topic,
		&q.LearningObjective, &q.BloomsLevel, &q.Tags, &q.ImageURL,
		&q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	if err := r.loadPayload(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// ListByAuthor retrieves an author's questions, newest first, with their
// variant payloads. Returns the page plus the total row count.
func (r *QuestionRepository) ListByAuthor(ctx context.Context, authorID, limit, offset int, search string) ([]model.Question, int, error) {
	pattern := "%" + search + "%"

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM questions WHERE author_id = $1 AND stem ILIKE $2`,
		authorID, pattern,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, author_id, type, purpose, stem, topic, learning_objective, blooms_level, tags, image_url, created_at, updated_at
		 FROM questions
		 WHERE author_id = $1 AND stem ILIKE $2
		 ORDER BY updated_at DESC
		 LIMIT $3 OFFSET $4`,
		authorID, pattern, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.AuthorID, &q.Type, &q.Purpose, &q.Stem, &q.Topic,
			&q.LearningObjective, &q.BloomsLevel, &q.Tags, &q.ImageURL,
			&q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, 0, err
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range questions {
		if err := r.loadPayload(ctx, &questions[i]); err != nil {
			return nil, 0, err
		}
	}

	return questions, total, nil
}

// Delete removes a question; variant sub-rows cascade.
func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

// loadPayload fills in the variant sub-entities selected by the question's type.
func (r *QuestionRepository) loadPayload(ctx context.Context, q *model.Question) error {
	switch q.Type {
	case model.QuestionTypeMCQ:
		rows, err := r.pool.Query(ctx,
			`SELECT id, text, is_correct, feedback
			 FROM question_options WHERE question_id = $1 ORDER BY position`, q.ID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var opt model.Option
			if err := rows.Scan(&opt.ID, &opt.Text, &opt.IsCorrect, &opt.Feedback); err != nil {
				return err
			}
			q.Options = append(q.Options, opt)
		}
		return rows.Err()

	case model.QuestionTypeOrdering:
		rows, err := r.pool.Query(ctx,
			`SELECT id, text, item_order
			 FROM question_items WHERE question_id = $1 ORDER BY position`, q.ID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var item model.OrderItem
			if err := rows.Scan(&item.ID, &item.Text, &item.Order); err != nil {
				return err
			}
			q.Items = append(q.Items, item)
		}
		return rows.Err()

	case model.QuestionTypeHotspot:
		rows, err := r.pool.Query(ctx,
			`SELECT id, label, coordinates
			 FROM question_zones WHERE question_id = $1 ORDER BY position`, q.ID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var zone model.Zone
			var coords []byte
			if err := rows.Scan(&zone.ID, &zone.Label, &coords); err != nil {
				return err
			}
			if err := json.Unmarshal(coords, &zone.Coordinates); err != nil {
				return fmt.Errorf("decode zone coordinates: %w", err)
			}
			q.Zones = append(q.Zones, zone)
		}
		return rows.Err()
	}

	return nil
}
