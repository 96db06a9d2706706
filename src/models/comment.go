package models

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Comment is a public comment attached to a post. The post id is stored as a
// plain string; nothing checks that the post still exists.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentModel handles comment database operations
type CommentModel struct {
	DB *sql.DB
}

// Create inserts a new comment. No validation is applied beyond what the
// schema enforces; in particular the email format is not checked.
func (m *CommentModel) Create(postID, name, email, body string) (*Comment, error) {
	comment := &Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		Name:      name,
		Email:     email,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}

	_, err := m.DB.Exec(`
		INSERT INTO comments (id, post_id, name, email, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, comment.ID, comment.PostID, comment.Name, comment.Email, comment.Body, comment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}

// ListByPost returns all comments for a post, newest first.
func (m *CommentModel) ListByPost(postID string) ([]Comment, error) {
	rows, err := m.DB.Query(`
		SELECT id, post_id, name, email, body, created_at
		FROM comments WHERE post_id = ?
		ORDER BY created_at DESC
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]Comment, 0)
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.Name, &c.Email, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}
