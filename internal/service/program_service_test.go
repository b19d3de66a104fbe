package service

import (
	"context"
	"jadwal/program-vault/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newProgramServiceFixture() (ProgramService, *fakeProgramRepo, *fakeRatingRepo, *fakeUserRepo) {
	programRepo := newFakeProgramRepo()
	ratingRepo := newFakeRatingRepo()
	userRepo := newFakeUserRepo()
	return NewProgramService(programRepo, ratingRepo, userRepo), programRepo, ratingRepo, userRepo
}

func TestCreateProgram_StampsAuthorAndDefaults(t *testing.T) {
	svc, _, _, userRepo := newProgramServiceFixture()
	ctx := context.Background()

	authorID := userRepo.add(domain.User{Username: "lena", Email: "lena@example.com", Role: domain.RoleUser})
	actor, err := userRepo.GetByID(ctx, authorID)
	require.NoError(t, err)

	program, err := svc.CreateProgram(ctx, actor, ProgramInput{
		Title: "Push Pull Legs",
		ProgramInfo: domain.ProgramInfo{Days: []domain.Day{
			{Exercises: []domain.Exercise{{Name: "Bench Press", Muscle: "Chest"}}},
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ProgramTypeCommunity, program.Type)
	assert.True(t, program.IsPublic)
	require.NotNil(t, program.AuthorID)
	assert.Equal(t, authorID, *program.AuthorID)
	assert.Equal(t, "lena", program.AuthorName)

	// Normalization assigned positional ids and the default unit.
	require.Len(t, program.ProgramInfo.Days, 1)
	assert.Equal(t, 1, program.ProgramInfo.Days[0].ID)
	assert.Equal(t, 1, program.ProgramInfo.Days[0].Exercises[0].ID)
	assert.Equal(t, domain.UnitKG, program.ProgramInfo.Days[0].Exercises[0].Unit)

	// Authoring bumps the creator's counter.
	updated, err := userRepo.GetByID(ctx, authorID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.CreatedProgramCount)
}

func TestCreateProgram_AnonymousHasNoAuthor(t *testing.T) {
	svc, _, _, _ := newProgramServiceFixture()

	program, err := svc.CreateProgram(context.Background(), nil, ProgramInput{Title: "Starter"})
	require.NoError(t, err)
	assert.Nil(t, program.AuthorID)
	assert.Empty(t, program.AuthorName)
}

func TestCreateProgram_Validation(t *testing.T) {
	svc, _, _, _ := newProgramServiceFixture()
	ctx := context.Background()

	_, err := svc.CreateProgram(ctx, nil, ProgramInput{})
	assert.ErrorIs(t, err, ErrProgramTitle)

	_, err = svc.CreateProgram(ctx, nil, ProgramInput{
		Title: "Broken",
		ProgramInfo: domain.ProgramInfo{Days: []domain.Day{
			{Exercises: []domain.Exercise{{Name: "Squat"}}}, // missing muscle
		}},
	})
	assert.ErrorIs(t, err, ErrExerciseIncomplete)
}

func TestGetProgram_Visibility(t *testing.T) {
	svc, programRepo, _, _ := newProgramServiceFixture()
	ctx := context.Background()

	author := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	publicID := programRepo.add(domain.Program{Title: "Public", IsPublic: true})
	privateID := programRepo.add(domain.Program{Title: "Private", IsPublic: false, AuthorID: &author})

	// Public program: everyone, including anonymous.
	_, err := svc.GetProgram(ctx, nil, publicID)
	assert.NoError(t, err)

	// Private program: author only.
	_, err = svc.GetProgram(ctx, &author, privateID)
	assert.NoError(t, err)
	_, err = svc.GetProgram(ctx, &stranger, privateID)
	assert.ErrorIs(t, err, ErrProgramPrivate)
	_, err = svc.GetProgram(ctx, nil, privateID)
	assert.ErrorIs(t, err, ErrProgramPrivate)

	_, err = svc.GetProgram(ctx, nil, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrProgramNotFound)
}

func TestListVisiblePrograms_OmitsInvisibleSilently(t *testing.T) {
	svc, programRepo, _, _ := newProgramServiceFixture()
	ctx := context.Background()

	author := primitive.NewObjectID()
	programRepo.add(domain.Program{Title: "Public", IsPublic: true})
	programRepo.add(domain.Program{Title: "Mine", IsPublic: false, AuthorID: &author})
	programRepo.add(domain.Program{Title: "Theirs", IsPublic: false, AuthorID: ptrOID(primitive.NewObjectID())})

	anonymous, err := svc.ListVisiblePrograms(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, anonymous, 1)

	asAuthor, err := svc.ListVisiblePrograms(ctx, &author)
	require.NoError(t, err)
	assert.Len(t, asAuthor, 2)
}

func TestRateProgram_AggregatesAndReRates(t *testing.T) {
	svc, programRepo, _, _ := newProgramServiceFixture()
	ctx := context.Background()

	programID := programRepo.add(domain.Program{Title: "Rated", IsPublic: true})
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	program, err := svc.RateProgram(ctx, alice, programID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5.0, program.Rating)
	assert.Equal(t, 1, program.RatingCount)

	program, err = svc.RateProgram(ctx, bob, programID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4.5, program.Rating)
	assert.Equal(t, 2, program.RatingCount)

	// Re-rating overwrites, it does not add a second vote.
	program, err = svc.RateProgram(ctx, alice, programID, 1)
	require.NoError(t, err)
	assert.Equal(t, 2.5, program.Rating)
	assert.Equal(t, 2, program.RatingCount)
}

func TestRateProgram_Validation(t *testing.T) {
	svc, programRepo, _, _ := newProgramServiceFixture()
	ctx := context.Background()
	programID := programRepo.add(domain.Program{Title: "Rated", IsPublic: true})
	user := primitive.NewObjectID()

	_, err := svc.RateProgram(ctx, user, programID, 0)
	assert.ErrorIs(t, err, ErrRatingOutOfRange)
	_, err = svc.RateProgram(ctx, user, programID, 6)
	assert.ErrorIs(t, err, ErrRatingOutOfRange)
	_, err = svc.RateProgram(ctx, user, primitive.NewObjectID(), 3)
	assert.ErrorIs(t, err, ErrProgramNotFound)
}

func TestRatingAggregate_RoundsToOneDecimal(t *testing.T) {
	mean, count := RatingAggregate(nil)
	assert.Equal(t, 0.0, mean)
	assert.Equal(t, 0, count)

	ratings := []domain.Rating{{Value: 5}, {Value: 4}, {Value: 4}}
	mean, count = RatingAggregate(ratings)
	assert.Equal(t, 4.3, mean) // 13/3 = 4.333...
	assert.Equal(t, 3, count)
}

func TestReplaceProgramInfo_Permissions(t *testing.T) {
	svc, programRepo, _, userRepo := newProgramServiceFixture()
	ctx := context.Background()

	authorID := userRepo.add(domain.User{Username: "author", Email: "a@example.com", Role: domain.RoleUser})
	strangerID := userRepo.add(domain.User{Username: "stranger", Email: "s@example.com", Role: domain.RoleUser})
	adminID := userRepo.add(domain.User{Username: "admin", Email: "ad@example.com", Role: domain.RoleAdmin})

	programID := programRepo.add(domain.Program{Title: "Editable", IsPublic: true, AuthorID: &authorID})

	info := domain.ProgramInfo{Days: []domain.Day{
		{Exercises: []domain.Exercise{{Name: "Row", Muscle: "Back"}}},
	}}

	author, _ := userRepo.GetByID(ctx, authorID)
	stranger, _ := userRepo.GetByID(ctx, strangerID)
	admin, _ := userRepo.GetByID(ctx, adminID)

	_, err := svc.ReplaceProgramInfo(ctx, nil, programID, info)
	assert.ErrorIs(t, err, ErrProgramEditDenied)

	_, err = svc.ReplaceProgramInfo(ctx, stranger, programID, info)
	assert.ErrorIs(t, err, ErrProgramEditDenied)

	program, err := svc.ReplaceProgramInfo(ctx, author, programID, info)
	require.NoError(t, err)
	assert.Equal(t, "Row", program.ProgramInfo.Days[0].Exercises[0].Name)

	_, err = svc.ReplaceProgramInfo(ctx, admin, programID, info)
	assert.NoError(t, err)
}

func ptrOID(id primitive.ObjectID) *primitive.ObjectID {
	return &id
}
