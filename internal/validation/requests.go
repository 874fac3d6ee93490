package validation

import "github.com/gofiber/fiber/v2"

// Column limits of the users and posts tables.
const (
	MaxUsernameLen = 20
	MaxTitleLen    = 100
)

var credentialsSchema = Schema{
	{Name: "username", Kind: String, Message: "Username cannot be blank", MaxLen: MaxUsernameLen},
	{Name: "password", Kind: String, Message: "Password cannot be blank", AllowSpace: true},
}

var postSchema = Schema{
	{Name: "title", Kind: String, Message: "Title is required", MaxLen: MaxTitleLen},
	{Name: "content", Kind: String, Message: "Content is required"},
}

// Credentials is the register and login body.
type Credentials struct {
	Username string
	Password string
}

// PostInput is the create and update body.
type PostInput struct {
	Title   string
	Content string
}

func ParseCredentials(c *fiber.Ctx) (Credentials, error) {
	v, err := credentialsSchema.Parse(c)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{Username: v.String("username"), Password: v.String("password")}, nil
}

func ParsePost(c *fiber.Ctx) (PostInput, error) {
	v, err := postSchema.Parse(c)
	if err != nil {
		return PostInput{}, err
	}
	return PostInput{Title: v.String("title"), Content: v.String("content")}, nil
}
