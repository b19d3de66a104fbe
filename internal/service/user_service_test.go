package service

import (
	"context"
	"encoding/base64"
	"jadwal/program-vault/internal/domain"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func newUserServiceFixture() (UserService, *fakeUserRepo, *fakeProgramRepo, *fakeFileStorage) {
	userRepo := newFakeUserRepo()
	programRepo := newFakeProgramRepo()
	fileStorage := newFakeFileStorage()
	return NewUserService(userRepo, programRepo, fileStorage), userRepo, programRepo, fileStorage
}

func TestUpdateProfile_UniquenessExcludesSelf(t *testing.T) {
	svc, userRepo, _, _ := newUserServiceFixture()
	ctx := context.Background()

	lenaID := userRepo.add(domain.User{Username: "lena", Email: "lena@example.com", Role: domain.RoleUser})
	userRepo.add(domain.User{Username: "marco", Email: "marco@example.com", Role: domain.RoleUser})

	// Re-submitting your own username is not a collision.
	sameName := "lena"
	user, err := svc.UpdateProfile(ctx, lenaID, ProfileUpdate{Username: &sameName})
	require.NoError(t, err)
	assert.Equal(t, "lena", user.Username)

	taken := "marco"
	_, err = svc.UpdateProfile(ctx, lenaID, ProfileUpdate{Username: &taken})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	takenEmail := "MARCO@example.com"
	_, err = svc.UpdateProfile(ctx, lenaID, ProfileUpdate{Email: &takenEmail})
	assert.ErrorIs(t, err, ErrEmailTaken)

	newEmail := "Lena.New@Example.com"
	user, err = svc.UpdateProfile(ctx, lenaID, ProfileUpdate{Email: &newEmail})
	require.NoError(t, err)
	assert.Equal(t, "lena.new@example.com", user.Email)
}

func TestChangePassword(t *testing.T) {
	svc, userRepo, _, _ := newUserServiceFixture()
	ctx := context.Background()

	hashed, err := bcrypt.GenerateFromPassword([]byte("old-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	userID := userRepo.add(domain.User{
		Username: "lena", Email: "lena@example.com",
		PasswordHash: string(hashed), Role: domain.RoleUser,
	})

	err = svc.ChangePassword(ctx, userID, "wrong", "new-password")
	assert.ErrorIs(t, err, ErrWrongPassword)

	err = svc.ChangePassword(ctx, userID, "old-pass", "new-password")
	require.NoError(t, err)

	stored, err := userRepo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-password")))
}

func TestChangePassword_NoPasswordSet(t *testing.T) {
	svc, userRepo, _, _ := newUserServiceFixture()

	userID := userRepo.add(domain.User{Username: "seeded", Email: "seeded@example.com", Role: domain.RoleUser})

	err := svc.ChangePassword(context.Background(), userID, "anything", "new-password")
	assert.ErrorIs(t, err, ErrNoPasswordSet)
}

func TestChangeEmail(t *testing.T) {
	svc, userRepo, _, _ := newUserServiceFixture()
	ctx := context.Background()

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	userID := userRepo.add(domain.User{
		Username: "lena", Email: "lena@example.com",
		PasswordHash: string(hashed), Role: domain.RoleUser,
	})
	userRepo.add(domain.User{Username: "marco", Email: "marco@example.com", Role: domain.RoleUser})

	_, err = svc.ChangeEmail(ctx, userID, "fresh@example.com", "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = svc.ChangeEmail(ctx, userID, "marco@example.com", "secret123")
	assert.ErrorIs(t, err, ErrEmailTaken)

	user, err := svc.ChangeEmail(ctx, userID, "Fresh@Example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "fresh@example.com", user.Email)
}

func TestUploadProfileImage(t *testing.T) {
	svc, userRepo, _, fileStorage := newUserServiceFixture()
	ctx := context.Background()
	userID := userRepo.add(domain.User{Username: "lena", Email: "lena@example.com", Role: domain.RoleUser})

	// A plain URL is stored as-is, nothing is uploaded.
	url, err := svc.UploadProfileImage(ctx, userID, "https://example.com/avatar.png")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/avatar.png", url)
	assert.Empty(t, fileStorage.uploads)

	// A data URI is decoded and pushed to object storage.
	payload := base64.StdEncoding.EncodeToString([]byte("fake-image-bytes"))
	url, err = svc.UploadProfileImage(ctx, userID, "data:image/jpeg;base64,"+payload)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://storage.test/profile-pictures/"+userID.Hex()+"/"))
	assert.Len(t, fileStorage.uploads, 1)

	user, err := userRepo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, url, user.ProfilePicture)

	_, err = svc.UploadProfileImage(ctx, userID, "")
	assert.ErrorIs(t, err, ErrImageDataRequired)

	_, err = svc.UploadProfileImage(ctx, userID, "data:image/png;base64,@@not-base64@@")
	assert.Error(t, err)
}

func TestAddSavedProgram_IsIdempotentPerProgram(t *testing.T) {
	svc, userRepo, programRepo, _ := newUserServiceFixture()
	ctx := context.Background()

	userID := userRepo.add(domain.User{Username: "lena", Email: "lena@example.com", Role: domain.RoleUser})
	programID := programRepo.add(domain.Program{Title: "PPL", IsPublic: true})

	entry, err := svc.AddSavedProgram(ctx, userID, programID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSavedStatus, entry.Status)
	assert.Equal(t, programID, entry.ProgramID)

	// Saving again does not create a second entry; it updates the status of
	// the existing one.
	again, err := svc.AddSavedProgram(ctx, userID, programID, "completed")
	require.NoError(t, err)
	assert.Equal(t, entry.ID, again.ID)
	assert.Equal(t, "completed", again.Status)

	user, err := userRepo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, user.SavedPrograms, 1)
}

func TestAddSavedProgram_ProgramMustExist(t *testing.T) {
	svc, userRepo, _, _ := newUserServiceFixture()
	userID := userRepo.add(domain.User{Username: "lena", Email: "lena@example.com", Role: domain.RoleUser})

	_, err := svc.AddSavedProgram(context.Background(), userID, primitive.NewObjectID(), "")
	assert.ErrorIs(t, err, ErrProgramNotFound)
}

func TestRemoveSavedProgram_ByEntryID(t *testing.T) {
	svc, userRepo, programRepo, _ := newUserServiceFixture()
	ctx := context.Background()

	userID := userRepo.add(domain.User{Username: "lena", Email: "lena@example.com", Role: domain.RoleUser})
	programID := programRepo.add(domain.Program{Title: "PPL", IsPublic: true})

	entry, err := svc.AddSavedProgram(ctx, userID, programID, "")
	require.NoError(t, err)

	err = svc.RemoveSavedProgram(ctx, userID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrSavedEntryMissing)

	err = svc.RemoveSavedProgram(ctx, userID, entry.ID)
	require.NoError(t, err)

	user, err := userRepo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, user.SavedPrograms)
}

func TestGetVault_ToleratesDanglingReferences(t *testing.T) {
	svc, userRepo, programRepo, _ := newUserServiceFixture()
	ctx := context.Background()

	userID := userRepo.add(domain.User{Username: "lena", Email: "lena@example.com", Role: domain.RoleUser})
	keptID := programRepo.add(domain.Program{Title: "Kept", IsPublic: true})
	doomedID := programRepo.add(domain.Program{Title: "Doomed", IsPublic: true})

	_, err := svc.AddSavedProgram(ctx, userID, keptID, "")
	require.NoError(t, err)
	_, err = svc.AddSavedProgram(ctx, userID, doomedID, "")
	require.NoError(t, err)

	require.NoError(t, programRepo.Delete(ctx, doomedID))

	entries, err := svc.GetVault(ctx, userID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byProgram := make(map[primitive.ObjectID]VaultEntry)
	for _, e := range entries {
		byProgram[e.Entry.ProgramID] = e
	}
	require.NotNil(t, byProgram[keptID].Program)
	assert.Equal(t, "Kept", byProgram[keptID].Program.Title)
	assert.Nil(t, byProgram[doomedID].Program, "deleted program yields an entry without a program")
}
