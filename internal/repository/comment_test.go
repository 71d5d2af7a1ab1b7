package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	comment := &models.Comment{Text: "Nice post!", IsPublished: true, PostID: 1, AuthorID: 1}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "comments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, comment)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListByPost(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE post_id = $1 AND "comments"."deleted_at" IS NULL ORDER BY created_at asc, id asc`)).
		WithArgs(1, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "author_id"}).
			AddRow(1, "Comment 1", 101).
			AddRow(2, "Comment 2", 102))

	// Preload Author for each comment
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" IN ($1,$2) AND "users"."deleted_at" IS NULL`)).
		WithArgs(101, 102).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).
			AddRow(101, "user101").
			AddRow(102, "user102"))

	comments, err := repo.ListByPost(ctx, 1, 10, 0)
	assert.NoError(t, err)
	assert.Len(t, comments, 2)
	assert.Equal(t, "Comment 1", comments[0].Text)
	assert.Equal(t, "user101", comments[0].Author.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListByPost_StableOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := models.User{Username: "writer", Email: "writer@example.com", Password: "pw"}
	require.NoError(t, db.Create(&author).Error)
	post := models.Post{Title: "Post", Text: "t", PubDate: time.Now(), IsPublished: true, AuthorID: author.ID}
	require.NoError(t, db.Create(&post).Error)

	// Two comments land in the same clock tick; a third is older but created
	// last. Order must be append order: created_at first, ID breaking ties.
	tick := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := models.Comment{Text: "first", IsPublished: true, AuthorID: author.ID, PostID: post.ID, CreatedAt: tick}
	second := models.Comment{Text: "second", IsPublished: true, AuthorID: author.ID, PostID: post.ID, CreatedAt: tick}
	earlier := models.Comment{Text: "earlier", IsPublished: true, AuthorID: author.ID, PostID: post.ID, CreatedAt: tick.Add(-time.Hour)}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)
	require.NoError(t, db.Create(&earlier).Error)

	comments, err := repo.ListByPost(ctx, post.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "earlier", comments[0].Text)
	assert.Equal(t, "first", comments[1].Text)
	assert.Equal(t, "second", comments[2].Text)
}

func TestCommentRepository_CountByPost(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "comments" WHERE post_id = $1 AND "comments"."deleted_at" IS NULL`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountByPost(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
