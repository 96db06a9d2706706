package models

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrPostNotFound is returned when a post id does not exist.
var ErrPostNotFound = errors.New("post not found")

// DefaultPageSize is the number of posts per home page.
const DefaultPageSize = 10

// Post represents a blog post. ImageURL and Caption are optional and empty
// when the stored column is NULL.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	ImageURL  string    `json:"image_url,omitempty"`
	Caption   string    `json:"caption,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostModel handles post database operations
type PostModel struct {
	DB *sql.DB
}

// nonAlphanumeric matches everything stripped from search input before
// substring matching.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SanitizeSearchTerm removes all non-alphanumeric characters from term so the
// remainder can never act as a pattern.
func SanitizeSearchTerm(term string) string {
	return nonAlphanumeric.ReplaceAllString(term, "")
}

// Create inserts a new post. Timestamps are set here, not by the schema;
// createdAt and updatedAt start equal. Empty imageURL and caption are stored
// as NULL.
func (m *PostModel) Create(title, body, imageURL, caption string) (*Post, error) {
	post := &Post{
		ID:        uuid.New().String(),
		Title:     title,
		Body:      body,
		ImageURL:  imageURL,
		Caption:   caption,
		CreatedAt: time.Now().UTC(),
	}
	post.UpdatedAt = post.CreatedAt

	_, err := m.DB.Exec(`
		INSERT INTO posts (id, title, body, image_url, caption, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, post.ID, post.Title, post.Body, nullable(post.ImageURL), nullable(post.Caption), post.CreatedAt, post.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return post, nil
}

// GetByID retrieves a single post by id.
func (m *PostModel) GetByID(id string) (*Post, error) {
	row := m.DB.QueryRow(`
		SELECT id, title, body, image_url, caption, created_at, updated_at
		FROM posts WHERE id = ?
	`, id)

	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// ListPage returns one page of posts sorted by creation time, newest first,
// together with the total post count. Page numbers start at 1.
func (m *PostModel) ListPage(page, perPage int) ([]Post, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPageSize
	}

	var total int
	if err := m.DB.QueryRow("SELECT COUNT(*) FROM posts").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	rows, err := m.DB.Query(`
		SELECT id, title, body, image_url, caption, created_at, updated_at
		FROM posts ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, perPage, perPage*(page-1))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts, err := collectPosts(rows)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListAll returns every post without ordering, for the admin dashboard.
func (m *PostModel) ListAll() ([]Post, error) {
	rows, err := m.DB.Query(`
		SELECT id, title, body, image_url, caption, created_at, updated_at
		FROM posts
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}

// UpdateByID patches title and body and refreshes updated_at. Image and
// caption are deliberately left untouched; they can only be set on create.
func (m *PostModel) UpdateByID(id, title, body string) error {
	_, err := m.DB.Exec(`
		UPDATE posts SET title = ?, body = ?, updated_at = ?
		WHERE id = ?
	`, title, body, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return nil
}

// DeleteByID removes a post unconditionally. Comments referencing the post
// are not deleted.
func (m *PostModel) DeleteByID(id string) error {
	_, err := m.DB.Exec("DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// Search returns posts whose title or body contains the sanitized term as a
// case-insensitive substring. An input that sanitizes to the empty string
// matches every post.
func (m *PostModel) Search(term string) ([]Post, error) {
	// The sanitized term contains no LIKE metacharacters.
	pattern := "%" + strings.ToLower(SanitizeSearchTerm(term)) + "%"

	rows, err := m.DB.Query(`
		SELECT id, title, body, image_url, caption, created_at, updated_at
		FROM posts
		WHERE lower(title) LIKE ? OR lower(body) LIKE ?
		ORDER BY created_at DESC
	`, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*Post, error) {
	post := &Post{}
	var imageURL, caption sql.NullString
	err := row.Scan(&post.ID, &post.Title, &post.Body, &imageURL, &caption, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	post.ImageURL = imageURL.String
	post.Caption = caption.String
	return post, nil
}

func collectPosts(rows *sql.Rows) ([]Post, error) {
	posts := make([]Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
