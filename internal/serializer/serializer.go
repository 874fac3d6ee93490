// Package serializer turns models into API response bodies.
package serializer

import "blogapi/internal/models"

// User is the public view of a user. The password hash is never included.
type User struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// Post is the public view of a post.
type Post struct {
	ID      uint   `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	UserID  uint   `json:"user_id"`
}

func NewUser(u *models.User) User {
	return User{ID: u.ID, Username: u.Username}
}

func NewPost(p *models.Post) Post {
	return Post{ID: p.ID, Title: p.Title, Content: p.Content, UserID: p.UserID}
}

// Posts keeps the input order and returns an empty slice, not nil, for no posts.
func Posts(posts []models.Post) []Post {
	out := make([]Post, 0, len(posts))
	for i := range posts {
		out = append(out, NewPost(&posts[i]))
	}
	return out
}
