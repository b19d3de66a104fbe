package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNormalize_AssignsPositionalFallbackIDs(t *testing.T) {
	info := ProgramInfo{Days: []Day{
		{
			Exercises: []Exercise{
				{Name: "Bench", Muscle: "Chest", Sets: []Set{{}, {}, {}}},
				{Name: "Fly", Muscle: "Chest"},
			},
		},
		{},
	}}

	info.Normalize()

	assert.Equal(t, 1, info.Days[0].ID)
	assert.Equal(t, 2, info.Days[1].ID)
	assert.Equal(t, 1, info.Days[0].Exercises[0].ID)
	assert.Equal(t, 2, info.Days[0].Exercises[1].ID)
	for i, set := range info.Days[0].Exercises[0].Sets {
		assert.Equal(t, i+1, set.ID)
	}
}

func TestNormalize_PreservesPositiveIDs(t *testing.T) {
	info := ProgramInfo{Days: []Day{
		{ID: 5, Exercises: []Exercise{
			{ID: 9, Name: "Squat", Muscle: "Legs", Unit: UnitLBS, Sets: []Set{{ID: 42}}},
		}},
	}}

	info.Normalize()

	assert.Equal(t, 5, info.Days[0].ID)
	assert.Equal(t, 9, info.Days[0].Exercises[0].ID)
	assert.Equal(t, 42, info.Days[0].Exercises[0].Sets[0].ID)
	assert.Equal(t, UnitLBS, info.Days[0].Exercises[0].Unit)
}

func TestNormalize_RepairsNonPositiveIDsAndDefaultsUnit(t *testing.T) {
	info := ProgramInfo{Days: []Day{
		{ID: -3, Exercises: []Exercise{
			{ID: 0, Name: "Row", Muscle: "Back", Sets: []Set{{ID: -1}}},
		}},
	}}

	info.Normalize()

	assert.Equal(t, 1, info.Days[0].ID)
	assert.Equal(t, 1, info.Days[0].Exercises[0].ID)
	assert.Equal(t, 1, info.Days[0].Exercises[0].Sets[0].ID)
	assert.Equal(t, UnitKG, info.Days[0].Exercises[0].Unit)
}

func TestNormalize_NilAndEmptyAreSafe(t *testing.T) {
	var nilInfo *ProgramInfo
	nilInfo.Normalize() // must not panic

	empty := ProgramInfo{}
	empty.Normalize()
	assert.Empty(t, empty.Days)
}

func TestIsVisibleTo(t *testing.T) {
	author := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	public := Program{IsPublic: true}
	assert.True(t, public.IsVisibleTo(nil))
	assert.True(t, public.IsVisibleTo(&stranger))

	private := Program{IsPublic: false, AuthorID: &author}
	assert.True(t, private.IsVisibleTo(&author))
	assert.False(t, private.IsVisibleTo(&stranger))
	assert.False(t, private.IsVisibleTo(nil))

	// A private program without an author is visible to nobody.
	orphan := Program{IsPublic: false}
	assert.False(t, orphan.IsVisibleTo(&stranger))
	assert.False(t, orphan.IsVisibleTo(nil))
}

func TestFindSavedProgram(t *testing.T) {
	target := primitive.NewObjectID()
	user := User{SavedPrograms: []SavedProgram{
		{ID: primitive.NewObjectID(), ProgramID: primitive.NewObjectID()},
		{ID: primitive.NewObjectID(), ProgramID: target, Status: "active"},
	}}

	found := user.FindSavedProgram(target)
	assert.NotNil(t, found)
	assert.Equal(t, target, found.ProgramID)

	assert.Nil(t, user.FindSavedProgram(primitive.NewObjectID()))
}
