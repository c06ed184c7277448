package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/project-shkedia/media-db-service/pkg/schema"
)

// User owns devices and the media uploaded from them.
type User struct {
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	CreatedOn time.Time `json:"created_on"`
}

// NewUser builds a user with a generated id created now.
func NewUser(name string) User {
	return User{UserID: uuid.NewString(), UserName: name, CreatedOn: time.Now().UTC()}
}

var UserView = schema.MustView(Views, UserEntity, "User",
	schema.Text("user_id", func(u *User) *string { return &u.UserID }),
	schema.Text("user_name", func(u *User) *string { return &u.UserName }),
	schema.Time("created_on", func(u *User) *time.Time { return &u.CreatedOn }),
)
