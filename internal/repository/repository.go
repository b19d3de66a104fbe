package repository

import (
	"context"
	"jadwal/program-vault/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate unique field")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user accounts and
// their embedded vault entries.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	// UpdateFields applies a partial $set-style update to a user document.
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]any) error
	// ExistsWithUsername/ExistsWithEmail report whether another user (excluding
	// excludeID) already holds the unique field.
	ExistsWithUsername(ctx context.Context, username string, excludeID primitive.ObjectID) (bool, error)
	ExistsWithEmail(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error)
	IncrementCreatedProgramCount(ctx context.Context, id primitive.ObjectID) error

	// Vault operations. AddSavedProgram must not create a second entry for the
	// same program; it reports whether a new entry was appended.
	AddSavedProgram(ctx context.Context, userID primitive.ObjectID, entry domain.SavedProgram) (added bool, err error)
	UpdateSavedProgramStatus(ctx context.Context, userID, programID primitive.ObjectID, status string) error
	RemoveSavedProgram(ctx context.Context, userID, entryID primitive.ObjectID) error
}

// ProgramRepository defines the interface for interacting with program documents.
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error)
	// ListVisible returns public programs plus, when requester is non-nil, that
	// requester's private programs.
	ListVisible(ctx context.Context, requester *primitive.ObjectID) ([]domain.Program, error)
	// ListAll returns every program regardless of visibility (admin views).
	ListAll(ctx context.Context) ([]domain.Program, error)
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Program, error)
	// UpdateFields applies a partial $set-style update to a program document.
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]any) error
	SetProgramInfo(ctx context.Context, id primitive.ObjectID, info domain.ProgramInfo) error
	SetRatingAggregate(ctx context.Context, id primitive.ObjectID, rating float64, count int) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// RatingRepository defines the interface for per-user program ratings.
type RatingRepository interface {
	// Upsert inserts or overwrites the rating for (rating.UserID, rating.ProgramID).
	Upsert(ctx context.Context, rating *domain.Rating) error
	GetByUserAndProgram(ctx context.Context, userID, programID primitive.ObjectID) (*domain.Rating, error)
	ListByProgram(ctx context.Context, programID primitive.ObjectID) ([]domain.Rating, error)
	DeleteByProgram(ctx context.Context, programID primitive.ObjectID) error
}

// CategoryRepository defines the interface for the category taxonomy.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (primitive.ObjectID, error)
	List(ctx context.Context) ([]domain.Category, error)
}
