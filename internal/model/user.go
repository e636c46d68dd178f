package model

import "time"

// User represents an application user record as stored in the `users` table.
// The password column only ever holds a bcrypt hash; plaintext passwords are
// hashed before the row is written and never logged. IsActive starts false and
// flips to true exactly once, when the owner completes email verification.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique email address.
//	FirstName    – given name, used in mail templates.
//	LastName     – family name.
//	PasswordHash – bcrypt hashed password.
//	IsActive     – whether the account completed email verification.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	PasswordHash string    // users.password_hash
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// UserDetail holds the profile record provisioned (empty) for every user at
// registration time. Avatar and CoverImage store URL paths under /media, not
// file contents.
type UserDetail struct {
	ID           uint64  // user_details.id
	UserID       uint64  // user_details.user_id
	ProfessionID *uint64 // user_details.profession_id (nullable)
	Bio          string  // user_details.bio
	IsInstructor bool    // user_details.is_instructor
	Avatar       string  // user_details.avatar (URL path, empty when unset)
	CoverImage   string  // user_details.cover_image (URL path, empty when unset)
}

// Profession is a codebook row users can attach to their profile. Serialized
// as-is by the profession listing endpoint.
type Profession struct {
	ID   uint64 `json:"id"`   // professions.id
	Name string `json:"name"` // professions.name
}
