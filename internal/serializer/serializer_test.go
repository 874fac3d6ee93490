package serializer

import (
	"encoding/json"
	"testing"

	"blogapi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser_OmitsPassword(t *testing.T) {
	raw, err := json.Marshal(NewUser(&models.User{ID: 4, Username: "alice", Password: "$2a$10$secret"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":4,"username":"alice"}`, string(raw))
	assert.NotContains(t, string(raw), "secret")
}

func TestNewPost(t *testing.T) {
	raw, err := json.Marshal(NewPost(&models.Post{ID: 1, Title: "T", Content: "C", UserID: 9}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"title":"T","content":"C","user_id":9}`, string(raw))
}

func TestPosts(t *testing.T) {
	raw, err := json.Marshal(Posts(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	out := Posts([]models.Post{{ID: 2, Title: "b"}, {ID: 1, Title: "a"}})
	require.Len(t, out, 2)
	assert.Equal(t, uint(2), out[0].ID)
	assert.Equal(t, "a", out[1].Title)
}
