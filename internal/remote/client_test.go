package remote

import (
	"testing"
	"time"

	"github.com/koinonia-app/core/internal/entity"
	"github.com/stretchr/testify/require"
)

func Test_DecodeRow_WireTimestamps(t *testing.T) {
	post, err := DecodeRow[entity.Post](Row{
		"id":         "p1",
		"created_at": "2026-03-01T09:30:00Z",
		"author_id":  "user-1",
		"content":    "hello",
		"is_pinned":  true,
	})
	require.NoError(t, err)

	require.Equal(t, "p1", post.ID)
	require.Equal(t, "user-1", post.AuthorID)
	require.True(t, post.IsPinned)
	require.Equal(t, time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC), post.CreatedAt)
}

func Test_DecodeRow_NativeTimestamps(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	post, err := DecodeRow[entity.Post](Row{"id": "p1", "created_at": at})
	require.NoError(t, err)
	require.True(t, post.CreatedAt.Equal(at))
}

func Test_DecodeRow_NullableFields(t *testing.T) {
	comment, err := DecodeRow[entity.Comment](Row{
		"id": "c1", "post_id": "p1", "author_id": "user-1", "content": "hi",
	})
	require.NoError(t, err)
	require.Nil(t, comment.ParentID)

	comment, err = DecodeRow[entity.Comment](Row{
		"id": "c2", "post_id": "p1", "author_id": "user-1", "parent_id": "c1",
	})
	require.NoError(t, err)
	require.NotNil(t, comment.ParentID)
	require.Equal(t, "c1", *comment.ParentID)
}

func Test_DecodeRows(t *testing.T) {
	posts, err := DecodeRows[entity.Post]([]Row{
		{"id": "p1", "author_id": "user-1"},
		{"id": "p2", "author_id": "user-2"},
	})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, "p2", posts[1].ID)
}

func Test_DecodeRows_Empty(t *testing.T) {
	posts, err := DecodeRows[entity.Post](nil)
	require.NoError(t, err)
	require.Empty(t, posts)
}
