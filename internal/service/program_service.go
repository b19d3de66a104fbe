package service

import (
	"context"
	"errors"
	"jadwal/program-vault/internal/domain"
	"jadwal/program-vault/internal/repository"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrProgramNotFound    = errors.New("Program not found")
	ErrProgramPrivate     = errors.New("This program is private")
	ErrProgramTitle       = errors.New("Title is required")
	ErrRatingOutOfRange   = errors.New("Rating must be between 1 and 5")
	ErrProgramEditDenied  = errors.New("Only the author or an admin can edit this program")
	ErrExerciseIncomplete = errors.New("Every exercise needs a name and a muscle group")
)

// ProgramInput carries the client-supplied fields for creating a program.
// Derived rating fields are intentionally absent.
type ProgramInput struct {
	Title        string
	ShortLabel   string
	Summary      string
	Description  string
	Tags         []string
	DurationHint string
	Type         domain.ProgramType
	IsPublic     *bool
	ProgramInfo  domain.ProgramInfo
}

// --- Service Interface ---
type ProgramService interface {
	// CreateProgram validates and normalizes the payload, stamps authorship
	// from the acting user (nil for anonymous/system submissions) and persists.
	CreateProgram(ctx context.Context, actor *domain.User, input ProgramInput) (*domain.Program, error)
	// GetProgram enforces the visibility rule: private programs are served to
	// their author only.
	GetProgram(ctx context.Context, requester *primitive.ObjectID, programID primitive.ObjectID) (*domain.Program, error)
	// ListVisiblePrograms omits invisible programs silently.
	ListVisiblePrograms(ctx context.Context, requester *primitive.ObjectID) ([]domain.Program, error)
	// ReplaceProgramInfo swaps the embedded schedule after normalization.
	ReplaceProgramInfo(ctx context.Context, actor *domain.User, programID primitive.ObjectID, info domain.ProgramInfo) (*domain.Program, error)
	// RateProgram upserts the actor's rating and recomputes the aggregates.
	RateProgram(ctx context.Context, actorID, programID primitive.ObjectID, value int) (*domain.Program, error)
}

// --- Service Implementation ---

type programService struct {
	programRepo repository.ProgramRepository
	ratingRepo  repository.RatingRepository
	userRepo    repository.UserRepository
}

// NewProgramService creates a new instance of programService.
func NewProgramService(
	programRepo repository.ProgramRepository,
	ratingRepo repository.RatingRepository,
	userRepo repository.UserRepository,
) ProgramService {
	return &programService{
		programRepo: programRepo,
		ratingRepo:  ratingRepo,
		userRepo:    userRepo,
	}
}

// validateProgramInfo rejects structurally broken payloads before
// normalization runs. Normalization itself never fails.
func validateProgramInfo(info *domain.ProgramInfo) error {
	for _, day := range info.Days {
		for _, ex := range day.Exercises {
			if ex.Name == "" || ex.Muscle == "" {
				return ErrExerciseIncomplete
			}
		}
	}
	return nil
}

// CreateProgram handles program creation for both authenticated users and
// anonymous submissions.
func (s *programService) CreateProgram(ctx context.Context, actor *domain.User, input ProgramInput) (*domain.Program, error) {
	if input.Title == "" {
		return nil, ErrProgramTitle
	}
	if err := validateProgramInfo(&input.ProgramInfo); err != nil {
		return nil, err
	}

	input.ProgramInfo.Normalize()

	program := &domain.Program{
		Title:        input.Title,
		ShortLabel:   input.ShortLabel,
		Summary:      input.Summary,
		Description:  input.Description,
		Tags:         input.Tags,
		DurationHint: input.DurationHint,
		Type:         input.Type,
		IsPublic:     true,
		ProgramInfo:  input.ProgramInfo,
	}
	if program.Type == "" {
		program.Type = domain.ProgramTypeCommunity
	}
	if input.IsPublic != nil {
		program.IsPublic = *input.IsPublic
	}
	if actor != nil {
		authorID := actor.ID
		program.AuthorID = &authorID
		program.AuthorName = actor.Username
	}

	programID, err := s.programRepo.Create(ctx, program)
	if err != nil {
		return nil, err
	}
	program.ID = programID

	if actor != nil {
		// Counter drift on failure here is cosmetic; don't fail the create.
		_ = s.userRepo.IncrementCreatedProgramCount(ctx, actor.ID)
	}

	return s.programRepo.GetByID(ctx, programID)
}

// GetProgram fetches one program, applying the visibility rule.
func (s *programService) GetProgram(ctx context.Context, requester *primitive.ObjectID, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	// A direct fetch of an invisible program is forbidden, not empty.
	if !program.IsVisibleTo(requester) {
		return nil, ErrProgramPrivate
	}

	return program, nil
}

// ListVisiblePrograms returns public programs plus the requester's private ones.
func (s *programService) ListVisiblePrograms(ctx context.Context, requester *primitive.ObjectID) ([]domain.Program, error) {
	return s.programRepo.ListVisible(ctx, requester)
}

// ReplaceProgramInfo swaps the embedded day/exercise/set tree. Only the author
// or an admin may do this.
func (s *programService) ReplaceProgramInfo(ctx context.Context, actor *domain.User, programID primitive.ObjectID, info domain.ProgramInfo) (*domain.Program, error) {
	if actor == nil {
		return nil, ErrProgramEditDenied
	}

	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	isAuthor := program.AuthorID != nil && *program.AuthorID == actor.ID
	if !isAuthor && !actor.IsAdmin() {
		return nil, ErrProgramEditDenied
	}

	if err := validateProgramInfo(&info); err != nil {
		return nil, err
	}
	info.Normalize()

	if err := s.programRepo.SetProgramInfo(ctx, programID, info); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	return s.programRepo.GetByID(ctx, programID)
}

// RateProgram records or overwrites the actor's rating, then recomputes the
// derived aggregate on the program document. The read-recompute-write on the
// aggregate is last-write-wins under concurrent submissions; the unique
// (user, program) index still keeps the underlying ratings consistent.
func (s *programService) RateProgram(ctx context.Context, actorID, programID primitive.ObjectID, value int) (*domain.Program, error) {
	if value < 1 || value > 5 {
		return nil, ErrRatingOutOfRange
	}

	if _, err := s.programRepo.GetByID(ctx, programID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	rating := &domain.Rating{
		ProgramID: programID,
		UserID:    actorID,
		Value:     value,
		RatedAt:   time.Now().UTC(),
	}
	if err := s.ratingRepo.Upsert(ctx, rating); err != nil {
		return nil, err
	}

	ratings, err := s.ratingRepo.ListByProgram(ctx, programID)
	if err != nil {
		return nil, err
	}

	mean, count := RatingAggregate(ratings)
	if err := s.programRepo.SetRatingAggregate(ctx, programID, mean, count); err != nil {
		return nil, err
	}

	return s.programRepo.GetByID(ctx, programID)
}

// RatingAggregate computes the derived rating fields: the arithmetic mean of
// all rating values rounded to one decimal place, and the rating count. It is
// a standalone function so the contract can be tested without storage.
func RatingAggregate(ratings []domain.Rating) (mean float64, count int) {
	count = len(ratings)
	if count == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Value
	}
	mean = math.Round(float64(sum)/float64(count)*10) / 10
	return mean, count
}
