package model

import "time"

// Guide is a document authored by an instructor user. Deleting the author
// cascades to their guides at the database level.
type Guide struct {
	ID           uint64    // guides.id
	UserID       uint64    // guides.user_id
	Title        string    // guides.title
	Content      string    // guides.content
	LastModified time.Time // guides.last_modified
}
