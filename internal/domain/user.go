package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents an account record.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"` // Unique, 3-30 chars
	Email        string             `bson:"email" json:"email"`       // Unique, stored lowercased
	PasswordHash string             `bson:"passwordHash,omitempty" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	IsBanned     bool               `bson:"isBanned" json:"isBanned"`
	// ProfilePicture holds a URL, possibly pointing at an uploaded object.
	ProfilePicture      string         `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	SavedPrograms       []SavedProgram `bson:"savedPrograms" json:"savedPrograms"`
	CreatedProgramCount int            `bson:"createdProgramCount" json:"createdProgramCount"`
	JoinedAt            time.Time      `bson:"joinedAt" json:"joinedAt"`
	CreatedAt           time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// SavedProgram is a vault entry: a weak reference from a user to a program.
// A dangling ProgramID (program deleted) is an entry without a visible
// program, not an error.
type SavedProgram struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	ProgramID primitive.ObjectID `bson:"programId" json:"programId"`
	SavedAt   time.Time          `bson:"savedAt" json:"savedAt"`
	Status    string             `bson:"status" json:"status"` // free text, default "active"
}

// DefaultSavedStatus is the status a vault entry gets when none is supplied.
const DefaultSavedStatus = "active"

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// FindSavedProgram returns the vault entry referencing the given program, if any.
func (u *User) FindSavedProgram(programID primitive.ObjectID) *SavedProgram {
	for i := range u.SavedPrograms {
		if u.SavedPrograms[i].ProgramID == programID {
			return &u.SavedPrograms[i]
		}
	}
	return nil
}
