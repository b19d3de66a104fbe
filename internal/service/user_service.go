package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"jadwal/program-vault/internal/domain"
	"jadwal/program-vault/internal/repository"
	"jadwal/program-vault/internal/storage"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserNotFound      = errors.New("User not found")
	ErrNoPasswordSet     = errors.New("User does not have a password set")
	ErrWrongPassword     = errors.New("Current password is incorrect")
	ErrSavedEntryMissing = errors.New("Saved program entry not found")
	ErrImageDataRequired = errors.New("Image data is required")
)

// ProfileUpdate carries optional profile fields; nil means "leave unchanged".
type ProfileUpdate struct {
	Username       *string
	Email          *string
	ProfilePicture *string
}

// VaultEntry is a saved program joined with its program document. Program is
// nil when the referenced program no longer exists.
type VaultEntry struct {
	Entry   domain.SavedProgram `json:"entry"`
	Program *domain.Program     `json:"program,omitempty"`
}

// --- Service Interface ---
type UserService interface {
	GetUser(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, update ProfileUpdate) (*domain.User, error)
	ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error
	ChangeEmail(ctx context.Context, userID primitive.ObjectID, newEmail, password string) (*domain.User, error)
	// UploadProfileImage accepts either a URL (stored as-is) or inline base64
	// image data, which is decoded and pushed to object storage.
	UploadProfileImage(ctx context.Context, userID primitive.ObjectID, imageData string) (string, error)

	// Vault operations (self-service only; callers enforce identity).
	AddSavedProgram(ctx context.Context, userID, programID primitive.ObjectID, status string) (*domain.SavedProgram, error)
	RemoveSavedProgram(ctx context.Context, userID, entryID primitive.ObjectID) error
	GetVault(ctx context.Context, userID primitive.ObjectID) ([]VaultEntry, error)
}

// --- Service Implementation ---

type userService struct {
	userRepo    repository.UserRepository
	programRepo repository.ProgramRepository
	fileStorage storage.FileStorage
}

// NewUserService creates a new instance of userService.
func NewUserService(
	userRepo repository.UserRepository,
	programRepo repository.ProgramRepository,
	fileStorage storage.FileStorage,
) UserService {
	return &userService{
		userRepo:    userRepo,
		programRepo: programRepo,
		fileStorage: fileStorage,
	}
}

// GetUser fetches an account record.
func (s *userService) GetUser(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile applies per-field updates with uniqueness checks that exclude
// the user themselves.
func (s *userService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, update ProfileUpdate) (*domain.User, error) {
	fields := map[string]any{}

	if update.Username != nil {
		username := strings.TrimSpace(*update.Username)
		if len(username) < 3 || len(username) > 30 {
			return nil, errors.New("Username must be between 3 and 30 characters")
		}
		taken, err := s.userRepo.ExistsWithUsername(ctx, username, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		fields["username"] = username
	}

	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		if !ValidEmail(email) {
			return nil, ErrInvalidEmail
		}
		taken, err := s.userRepo.ExistsWithEmail(ctx, email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken
		}
		fields["email"] = email
	}

	if update.ProfilePicture != nil {
		fields["profilePicture"] = *update.ProfilePicture
	}

	if err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return s.GetUser(ctx, userID)
}

// ChangePassword verifies the current password before rehashing the new one.
func (s *userService) ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return errors.New("Current password and new password are required")
	}
	if len(newPassword) < 6 {
		return errors.New("New password must be at least 6 characters long")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.PasswordHash == "" {
		return ErrNoPasswordSet
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrHashingFailed
	}

	return s.userRepo.UpdateFields(ctx, userID, map[string]any{"passwordHash": string(hashed)})
}

// ChangeEmail verifies the password, then applies the same syntax and
// uniqueness rules as signup.
func (s *userService) ChangeEmail(ctx context.Context, userID primitive.ObjectID, newEmail, password string) (*domain.User, error) {
	if newEmail == "" || password == "" {
		return nil, errors.New("New email and password are required")
	}

	email := strings.ToLower(strings.TrimSpace(newEmail))
	if !ValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, ErrNoPasswordSet
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}

	taken, err := s.userRepo.ExistsWithEmail(ctx, email, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	if err := s.userRepo.UpdateFields(ctx, userID, map[string]any{"email": email}); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return s.GetUser(ctx, userID)
}

// UploadProfileImage stores the picture and records its URL on the user.
// Accepted payloads: an http(s) URL, a data URI, or raw base64.
func (s *userService) UploadProfileImage(ctx context.Context, userID primitive.ObjectID, imageData string) (string, error) {
	if imageData == "" {
		return "", ErrImageDataRequired
	}

	pictureURL := imageData

	if !strings.HasPrefix(imageData, "http://") && !strings.HasPrefix(imageData, "https://") {
		contentType := "image/png"
		payload := imageData

		// data:image/jpeg;base64,<payload>
		if strings.HasPrefix(imageData, "data:") {
			header, rest, found := strings.Cut(imageData, ",")
			if !found {
				return "", errors.New("malformed data URI")
			}
			contentType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
			payload = rest
		}

		raw, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", fmt.Errorf("invalid base64 image data: %w", err)
		}

		objectKey := fmt.Sprintf("profile-pictures/%s/%s", userID.Hex(), uuid.NewString())
		pictureURL, err = s.fileStorage.Upload(ctx, objectKey, contentType, raw)
		if err != nil {
			return "", err
		}
	}

	if err := s.userRepo.UpdateFields(ctx, userID, map[string]any{"profilePicture": pictureURL}); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	return pictureURL, nil
}

// AddSavedProgram adds a program to the user's vault. The operation is
// idempotent per (user, program): an existing entry gets its status updated in
// place when one is supplied; no duplicate is ever created.
func (s *userService) AddSavedProgram(ctx context.Context, userID, programID primitive.ObjectID, status string) (*domain.SavedProgram, error) {
	if status == "" {
		status = domain.DefaultSavedStatus
	}

	// The program must exist to be saved; removal later leaves a dangling
	// reference, which reads tolerate.
	if _, err := s.programRepo.GetByID(ctx, programID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	entry := domain.SavedProgram{
		ID:        primitive.NewObjectID(),
		ProgramID: programID,
		SavedAt:   time.Now().UTC(),
		Status:    status,
	}

	added, err := s.userRepo.AddSavedProgram(ctx, userID, entry)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !added {
		// Entry already present: update its status in place and return it.
		if err := s.userRepo.UpdateSavedProgramStatus(ctx, userID, programID, status); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		existing := user.FindSavedProgram(programID)
		if existing == nil {
			// Entry vanished between the add attempt and the re-read.
			return nil, ErrSavedEntryMissing
		}
		return existing, nil
	}

	return &entry, nil
}

// RemoveSavedProgram removes exactly the vault entry with the given id.
func (s *userService) RemoveSavedProgram(ctx context.Context, userID, entryID primitive.ObjectID) error {
	err := s.userRepo.RemoveSavedProgram(ctx, userID, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSavedEntryMissing
		}
		return err
	}
	return nil
}

// GetVault returns the user's saved entries joined with their programs.
// Entries whose program has been deleted are returned without a program.
func (s *userService) GetVault(ctx context.Context, userID primitive.ObjectID) ([]VaultEntry, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(user.SavedPrograms))
	for _, entry := range user.SavedPrograms {
		ids = append(ids, entry.ProgramID)
	}

	programs, err := s.programRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]*domain.Program, len(programs))
	for i := range programs {
		byID[programs[i].ID] = &programs[i]
	}

	entries := make([]VaultEntry, 0, len(user.SavedPrograms))
	for _, entry := range user.SavedPrograms {
		entries = append(entries, VaultEntry{
			Entry:   entry,
			Program: byID[entry.ProgramID],
		})
	}
	return entries, nil
}
