package service

import (
	"context"
	"fmt"
	"jadwal/program-vault/internal/domain"
	"jadwal/program-vault/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes for the repository interfaces. They implement just enough
// of the Mongo semantics (unique fields, upserts, idempotent vault adds) for
// the service tests to exercise the real business rules.

// --- user repository fake ---

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (f *fakeUserRepo) add(user domain.User) primitive.ObjectID {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users[user.ID] = &user
	return user.ID
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, existing := range f.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	id := primitive.NewObjectID()
	stored := *user
	stored.ID = id
	now := time.Now().UTC()
	stored.JoinedAt = now
	stored.CreatedAt = now
	f.users[id] = &stored
	return id, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) List(ctx context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0, len(f.users))
	for _, user := range f.users {
		users = append(users, *user)
	}
	return users, nil
}

func (f *fakeUserRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]any) error {
	user, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "username":
			user.Username = value.(string)
		case "email":
			user.Email = value.(string)
		case "passwordHash":
			user.PasswordHash = value.(string)
		case "profilePicture":
			user.ProfilePicture = value.(string)
		case "isBanned":
			user.IsBanned = value.(bool)
		case "role":
			user.Role = value.(domain.Role)
		default:
			return fmt.Errorf("fakeUserRepo: unsupported field %q", key)
		}
	}
	return nil
}

func (f *fakeUserRepo) ExistsWithUsername(ctx context.Context, username string, excludeID primitive.ObjectID) (bool, error) {
	for id, user := range f.users {
		if id != excludeID && user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) ExistsWithEmail(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	for id, user := range f.users {
		if id != excludeID && user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) IncrementCreatedProgramCount(ctx context.Context, id primitive.ObjectID) error {
	user, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.CreatedProgramCount++
	return nil
}

func (f *fakeUserRepo) AddSavedProgram(ctx context.Context, userID primitive.ObjectID, entry domain.SavedProgram) (bool, error) {
	user, ok := f.users[userID]
	if !ok {
		return false, repository.ErrNotFound
	}
	if user.FindSavedProgram(entry.ProgramID) != nil {
		return false, nil
	}
	user.SavedPrograms = append(user.SavedPrograms, entry)
	return true, nil
}

func (f *fakeUserRepo) UpdateSavedProgramStatus(ctx context.Context, userID, programID primitive.ObjectID, status string) error {
	user, ok := f.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	entry := user.FindSavedProgram(programID)
	if entry == nil {
		return repository.ErrNotFound
	}
	entry.Status = status
	return nil
}

func (f *fakeUserRepo) RemoveSavedProgram(ctx context.Context, userID, entryID primitive.ObjectID) error {
	user, ok := f.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range user.SavedPrograms {
		if user.SavedPrograms[i].ID == entryID {
			user.SavedPrograms = append(user.SavedPrograms[:i], user.SavedPrograms[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- program repository fake ---

type fakeProgramRepo struct {
	programs map[primitive.ObjectID]*domain.Program
	order    []primitive.ObjectID
}

func newFakeProgramRepo() *fakeProgramRepo {
	return &fakeProgramRepo{programs: make(map[primitive.ObjectID]*domain.Program)}
}

func (f *fakeProgramRepo) add(program domain.Program) primitive.ObjectID {
	if program.ID.IsZero() {
		program.ID = primitive.NewObjectID()
	}
	f.programs[program.ID] = &program
	f.order = append(f.order, program.ID)
	return program.ID
}

func (f *fakeProgramRepo) Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *program
	stored.ID = id
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	f.programs[id] = &stored
	f.order = append(f.order, id)
	return id, nil
}

func (f *fakeProgramRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	program, ok := f.programs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *program
	return &copied, nil
}

func (f *fakeProgramRepo) ListVisible(ctx context.Context, requester *primitive.ObjectID) ([]domain.Program, error) {
	var visible []domain.Program
	for _, id := range f.order {
		program := f.programs[id]
		if program.IsVisibleTo(requester) {
			visible = append(visible, *program)
		}
	}
	return visible, nil
}

func (f *fakeProgramRepo) ListAll(ctx context.Context) ([]domain.Program, error) {
	all := make([]domain.Program, 0, len(f.order))
	for _, id := range f.order {
		all = append(all, *f.programs[id])
	}
	return all, nil
}

func (f *fakeProgramRepo) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Program, error) {
	var found []domain.Program
	for _, id := range ids {
		if program, ok := f.programs[id]; ok {
			found = append(found, *program)
		}
	}
	return found, nil
}

func (f *fakeProgramRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]any) error {
	if len(fields) == 0 {
		// Mirrors the mongo implementation: an empty update is a no-op that
		// skips the existence check.
		return nil
	}
	program, ok := f.programs[id]
	if !ok {
		return repository.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "title":
			program.Title = value.(string)
		case "shortLabel":
			program.ShortLabel = value.(string)
		case "summary":
			program.Summary = value.(string)
		case "description":
			program.Description = value.(string)
		case "tags":
			program.Tags = value.([]string)
		case "durationHint":
			program.DurationHint = value.(string)
		case "type":
			program.Type = value.(domain.ProgramType)
		case "isPublic":
			program.IsPublic = value.(bool)
		case "authorName":
			program.AuthorName = value.(string)
		case "programInfo":
			program.ProgramInfo = value.(domain.ProgramInfo)
		default:
			return fmt.Errorf("fakeProgramRepo: unsupported field %q", key)
		}
	}
	return nil
}

func (f *fakeProgramRepo) SetProgramInfo(ctx context.Context, id primitive.ObjectID, info domain.ProgramInfo) error {
	program, ok := f.programs[id]
	if !ok {
		return repository.ErrNotFound
	}
	program.ProgramInfo = info
	return nil
}

func (f *fakeProgramRepo) SetRatingAggregate(ctx context.Context, id primitive.ObjectID, rating float64, count int) error {
	program, ok := f.programs[id]
	if !ok {
		return repository.ErrNotFound
	}
	program.Rating = rating
	program.RatingCount = count
	return nil
}

func (f *fakeProgramRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.programs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.programs, id)
	for i, ordered := range f.order {
		if ordered == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

// --- rating repository fake ---

type fakeRatingRepo struct {
	ratings []domain.Rating
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{}
}

func (f *fakeRatingRepo) Upsert(ctx context.Context, rating *domain.Rating) error {
	for i := range f.ratings {
		if f.ratings[i].UserID == rating.UserID && f.ratings[i].ProgramID == rating.ProgramID {
			f.ratings[i].Value = rating.Value
			f.ratings[i].RatedAt = rating.RatedAt
			return nil
		}
	}
	stored := *rating
	if stored.ID.IsZero() {
		stored.ID = primitive.NewObjectID()
	}
	f.ratings = append(f.ratings, stored)
	return nil
}

func (f *fakeRatingRepo) GetByUserAndProgram(ctx context.Context, userID, programID primitive.ObjectID) (*domain.Rating, error) {
	for i := range f.ratings {
		if f.ratings[i].UserID == userID && f.ratings[i].ProgramID == programID {
			copied := f.ratings[i]
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRatingRepo) ListByProgram(ctx context.Context, programID primitive.ObjectID) ([]domain.Rating, error) {
	var found []domain.Rating
	for _, rating := range f.ratings {
		if rating.ProgramID == programID {
			found = append(found, rating)
		}
	}
	return found, nil
}

func (f *fakeRatingRepo) DeleteByProgram(ctx context.Context, programID primitive.ObjectID) error {
	kept := f.ratings[:0]
	for _, rating := range f.ratings {
		if rating.ProgramID != programID {
			kept = append(kept, rating)
		}
	}
	f.ratings = kept
	return nil
}

// --- category repository fake ---

type fakeCategoryRepo struct {
	categories []domain.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{}
}

func (f *fakeCategoryRepo) Create(ctx context.Context, category *domain.Category) (primitive.ObjectID, error) {
	for _, existing := range f.categories {
		if existing.Slug == category.Slug {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	stored := *category
	stored.ID = primitive.NewObjectID()
	f.categories = append(f.categories, stored)
	return stored.ID, nil
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	return append([]domain.Category(nil), f.categories...), nil
}

// --- file storage fake ---

type fakeFileStorage struct {
	uploads map[string][]byte
}

func newFakeFileStorage() *fakeFileStorage {
	return &fakeFileStorage{uploads: make(map[string][]byte)}
}

func (f *fakeFileStorage) Upload(ctx context.Context, objectKey string, contentType string, data []byte) (string, error) {
	f.uploads[objectKey] = data
	return "https://storage.test/" + objectKey, nil
}

func (f *fakeFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://storage.test/" + objectKey + "?signed", nil
}

func (f *fakeFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	delete(f.uploads, objectKey)
	return nil
}
