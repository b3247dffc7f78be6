package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"community-feed-api/internal/domain"
)

// setupTestDB creates an in-memory SQLite database for repository testing.
// A single connection makes transactions run serially, which stands in for
// the row-level lock that serializes vote mutations on PostgreSQL.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err, "Failed to connect to test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	// Register callback to generate UUIDs for SQLite (since it doesn't support gen_random_uuid())
	db.Callback().Create().Before("gorm:create").Register("generate_uuid", func(db *gorm.DB) {
		if db.Statement.Schema != nil {
			for _, field := range db.Statement.Schema.PrimaryFields {
				if field.DataType == "uuid" {
					fieldValue := field.ReflectValueOf(db.Statement.Context, db.Statement.ReflectValue)
					if fieldValue.IsZero() {
						field.Set(db.Statement.Context, db.Statement.ReflectValue, uuid.New())
					}
				}
			}
		}
	})

	// Create tables manually for SQLite compatibility
	err = db.Exec(`
		CREATE TABLE posts (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			author_email TEXT NOT NULL,
			author_username TEXT NOT NULL,
			body TEXT NOT NULL,
			category TEXT NOT NULL,
			image TEXT,
			score INTEGER NOT NULL DEFAULT 0
		)
	`).Error
	require.NoError(t, err, "Failed to create posts table")

	err = db.Exec(`
		CREATE TABLE comments (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			post_id TEXT NOT NULL,
			parent_comment_id TEXT,
			author_email TEXT NOT NULL,
			body TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0
		)
	`).Error
	require.NoError(t, err, "Failed to create comments table")

	err = db.Exec(`
		CREATE TABLE votes (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			user_email TEXT NOT NULL,
			target_type TEXT NOT NULL,
			target_id TEXT NOT NULL,
			value INTEGER NOT NULL,
			UNIQUE(user_email, target_type, target_id)
		)
	`).Error
	require.NoError(t, err, "Failed to create votes table")

	return db
}

// seedPost inserts a post and returns it
func seedPost(t *testing.T, db *gorm.DB, authorEmail string) *domain.Post {
	t.Helper()
	post := &domain.Post{
		AuthorEmail:    authorEmail,
		AuthorUsername: "tester",
		Body:           "seed post",
		Category:       "general",
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

// seedComment inserts a comment (top-level when parentID is nil)
func seedComment(t *testing.T, db *gorm.DB, postID uuid.UUID, parentID *uuid.UUID, authorEmail, body string) *domain.Comment {
	t.Helper()
	comment := &domain.Comment{
		PostID:          postID,
		ParentCommentID: parentID,
		AuthorEmail:     authorEmail,
		Body:            body,
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}

func testCtx() context.Context {
	return context.Background()
}
