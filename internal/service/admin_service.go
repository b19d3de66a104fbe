package service

import (
	"context"
	"errors"
	"jadwal/program-vault/internal/domain"
	"jadwal/program-vault/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrInvalidRole        = errors.New("Valid role is required (guest, user, admin)")
	ErrInvalidProgramType = errors.New("Valid type is required (system, community)")
	ErrCategoryFields     = errors.New("Label, slug, and type are required")
	ErrCategoryExists     = errors.New("Category slug already exists")
)

// ProgramEdit carries the admin-editable program fields; nil means "leave
// unchanged". The derived rating fields are deliberately not editable.
type ProgramEdit struct {
	Title        *string
	ShortLabel   *string
	Summary      *string
	Description  *string
	Tags         *[]string
	DurationHint *string
	Type         *domain.ProgramType
	IsPublic     *bool
	AuthorName   *string
	ProgramInfo  *domain.ProgramInfo
}

// --- Service Interface ---
type AdminService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	SetUserBanned(ctx context.Context, userID primitive.ObjectID, banned bool) (*domain.User, error)
	UpdateUserRole(ctx context.Context, userID primitive.ObjectID, role domain.Role) (*domain.User, error)

	ListPrograms(ctx context.Context) ([]domain.Program, error)
	// CreateProgram creates a program on behalf of the acting admin; its
	// authorship defaults to the admin.
	CreateProgram(ctx context.Context, actor *domain.User, input ProgramInput) (*domain.Program, error)
	EditProgram(ctx context.Context, programID primitive.ObjectID, edit ProgramEdit) (*domain.Program, error)
	// DeleteProgram removes the program, its embedded tree and its ratings.
	// Vault references are left dangling by design.
	DeleteProgram(ctx context.Context, programID primitive.ObjectID) error

	CreateCategory(ctx context.Context, label, slug, kind string) (*domain.Category, error)
}

// --- Service Implementation ---

type adminService struct {
	userRepo     repository.UserRepository
	programRepo  repository.ProgramRepository
	ratingRepo   repository.RatingRepository
	categoryRepo repository.CategoryRepository
	programs     ProgramService
}

// NewAdminService creates a new instance of adminService.
func NewAdminService(
	userRepo repository.UserRepository,
	programRepo repository.ProgramRepository,
	ratingRepo repository.RatingRepository,
	categoryRepo repository.CategoryRepository,
	programs ProgramService,
) AdminService {
	return &adminService{
		userRepo:     userRepo,
		programRepo:  programRepo,
		ratingRepo:   ratingRepo,
		categoryRepo: categoryRepo,
		programs:     programs,
	}
}

// ListUsers returns every account, newest first, without password hashes.
func (s *adminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// SetUserBanned flips the ban flag on or off.
func (s *adminService) SetUserBanned(ctx context.Context, userID primitive.ObjectID, banned bool) (*domain.User, error) {
	err := s.userRepo.UpdateFields(ctx, userID, map[string]any{"isBanned": banned})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.fetchSanitized(ctx, userID)
}

// UpdateUserRole changes a user's role to one of the known roles.
func (s *adminService) UpdateUserRole(ctx context.Context, userID primitive.ObjectID, role domain.Role) (*domain.User, error) {
	switch role {
	case domain.RoleGuest, domain.RoleUser, domain.RoleAdmin:
	default:
		return nil, ErrInvalidRole
	}

	err := s.userRepo.UpdateFields(ctx, userID, map[string]any{"role": role})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.fetchSanitized(ctx, userID)
}

func (s *adminService) fetchSanitized(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// ListPrograms returns all programs with no visibility filtering (moderation view).
func (s *adminService) ListPrograms(ctx context.Context) ([]domain.Program, error) {
	return s.programRepo.ListAll(ctx)
}

// CreateProgram delegates to the program service so normalization and author
// stamping behave exactly as they do for regular creation.
func (s *adminService) CreateProgram(ctx context.Context, actor *domain.User, input ProgramInput) (*domain.Program, error) {
	return s.programs.CreateProgram(ctx, actor, input)
}

// EditProgram applies a partial field update, normalizing a replacement
// schedule when one is supplied.
func (s *adminService) EditProgram(ctx context.Context, programID primitive.ObjectID, edit ProgramEdit) (*domain.Program, error) {
	fields := map[string]any{}

	if edit.Title != nil {
		if *edit.Title == "" {
			return nil, ErrProgramTitle
		}
		fields["title"] = *edit.Title
	}
	if edit.ShortLabel != nil {
		fields["shortLabel"] = *edit.ShortLabel
	}
	if edit.Summary != nil {
		fields["summary"] = *edit.Summary
	}
	if edit.Description != nil {
		fields["description"] = *edit.Description
	}
	if edit.Tags != nil {
		fields["tags"] = *edit.Tags
	}
	if edit.DurationHint != nil {
		fields["durationHint"] = *edit.DurationHint
	}
	if edit.Type != nil {
		switch *edit.Type {
		case domain.ProgramTypeSystem, domain.ProgramTypeCommunity:
			fields["type"] = *edit.Type
		default:
			return nil, ErrInvalidProgramType
		}
	}
	if edit.IsPublic != nil {
		fields["isPublic"] = *edit.IsPublic
	}
	if edit.AuthorName != nil {
		fields["authorName"] = *edit.AuthorName
	}
	if edit.ProgramInfo != nil {
		info := *edit.ProgramInfo
		if err := validateProgramInfo(&info); err != nil {
			return nil, err
		}
		info.Normalize()
		fields["programInfo"] = info
	}

	if err := s.programRepo.UpdateFields(ctx, programID, fields); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	// An edit with no fields skips the update entirely, so the existence check
	// happens on this read.
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return program, nil
}

// DeleteProgram cascades the delete to the ratings collection. Vault entries
// referencing the program are intentionally left in place; reads treat them as
// entries without a visible program.
func (s *adminService) DeleteProgram(ctx context.Context, programID primitive.ObjectID) error {
	if err := s.programRepo.Delete(ctx, programID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgramNotFound
		}
		return err
	}
	return s.ratingRepo.DeleteByProgram(ctx, programID)
}

// CreateCategory adds a taxonomy entry with a unique slug.
func (s *adminService) CreateCategory(ctx context.Context, label, slug, kind string) (*domain.Category, error) {
	if label == "" || slug == "" || kind == "" {
		return nil, ErrCategoryFields
	}

	category := &domain.Category{Label: label, Slug: slug, Type: kind}
	id, err := s.categoryRepo.Create(ctx, category)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	category.ID = id
	return category, nil
}
