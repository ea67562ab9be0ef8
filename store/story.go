// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/danielhkuo/ldr-counter/models"
)

// StoryStore is an append-only collection of published answers
type StoryStore struct {
	db *sql.DB
}

func NewStoryStore(conn *sql.DB) *StoryStore {
	return &StoryStore{db: conn}
}

// Append stores a story under a fresh ID. Stories are approved on creation.
func (s *StoryStore) Append(ctx context.Context, story models.Story) (string, error) {
	id := uuid.NewString()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO story (id, prompt, answer, submitted_at, approved)
		VALUES ($1, $2, $3, $4, $5)
	`, id, story.Prompt, story.Answer, toMillis(story.SubmittedAt), true)
	if err != nil {
		return "", unavailable("append story", err)
	}

	return id, nil
}

// ListApproved returns up to limit approved stories, newest first, ties by ID
func (s *StoryStore) ListApproved(ctx context.Context, limit int) ([]models.Story, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, prompt, answer, submitted_at, approved
		FROM story
		WHERE approved = TRUE
		ORDER BY submitted_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, unavailable("list stories", err)
	}
	defer rows.Close()

	stories := []models.Story{}
	for rows.Next() {
		var story models.Story
		var submittedAt int64
		if err := rows.Scan(&story.ID, &story.Prompt, &story.Answer, &submittedAt, &story.Approved); err != nil {
			return nil, unavailable("scan story", err)
		}
		story.SubmittedAt = fromMillis(submittedAt)
		stories = append(stories, story)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list stories", err)
	}

	return stories, nil
}
