// Package builder provides the in-memory editing state for composing a
// program schedule (days, exercises, sets) before it is persisted. It mirrors
// the behavior of the interactive schedule builder: sequential id assignment
// per node kind, a seven-day cap, renumbering after day deletion, and three
// empty default sets on every new exercise.
package builder

import (
	"errors"
	"jadwal/program-vault/internal/domain"
)

// MaxDays is the cap on training days per program.
const MaxDays = 7

// DefaultSetCount is the number of empty sets a new exercise starts with.
const DefaultSetCount = 3

var (
	ErrDayLimit         = errors.New("a program cannot have more than 7 days")
	ErrDayNotFound      = errors.New("day not found")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrSetNotFound      = errors.New("set not found")
	ErrNameRequired     = errors.New("exercise name and muscle group are required")
)

// idGenerator hands out sequential ids per node kind.
type idGenerator struct {
	dayCounter      int
	exerciseCounter int
	setCounter      int
}

func newIDGenerator() *idGenerator {
	return &idGenerator{dayCounter: 1, exerciseCounter: 1, setCounter: 1}
}

func (g *idGenerator) nextDayID() int {
	id := g.dayCounter
	g.dayCounter++
	return id
}

func (g *idGenerator) nextExerciseID() int {
	id := g.exerciseCounter
	g.exerciseCounter++
	return id
}

func (g *idGenerator) nextSetID() int {
	id := g.setCounter
	g.setCounter++
	return id
}

// Builder edits a program schedule in memory. Not safe for concurrent use.
type Builder struct {
	days []domain.Day
	ids  *idGenerator
}

// New starts a fresh schedule with one empty day.
func New() *Builder {
	b := &Builder{ids: newIDGenerator()}
	b.days = []domain.Day{{ID: b.ids.nextDayID(), Exercises: []domain.Exercise{}}}
	return b
}

// Load resumes editing an existing schedule. The id counters are seeded at
// one past the highest id of each node kind so new nodes never collide with
// existing ones.
func Load(info domain.ProgramInfo) *Builder {
	b := &Builder{ids: newIDGenerator(), days: info.Days}
	if b.days == nil {
		b.days = []domain.Day{}
	}

	maxDay, maxExercise, maxSet := 0, 0, 0
	for _, day := range b.days {
		if day.ID > maxDay {
			maxDay = day.ID
		}
		for _, ex := range day.Exercises {
			if ex.ID > maxExercise {
				maxExercise = ex.ID
			}
			for _, set := range ex.Sets {
				if set.ID > maxSet {
					maxSet = set.ID
				}
			}
		}
	}
	b.ids.dayCounter = maxDay + 1
	b.ids.exerciseCounter = maxExercise + 1
	b.ids.setCounter = maxSet + 1
	return b
}

// Days returns the current schedule state.
func (b *Builder) Days() []domain.Day {
	return b.days
}

// AddDay appends a new empty day and returns its id.
func (b *Builder) AddDay() (int, error) {
	if len(b.days) >= MaxDays {
		return 0, ErrDayLimit
	}
	id := b.ids.nextDayID()
	b.days = append(b.days, domain.Day{ID: id, Exercises: []domain.Exercise{}})
	return id, nil
}

// RemoveDay deletes a day and renumbers the remaining days sequentially. The
// day counter is reset to match, so the next added day continues the sequence.
func (b *Builder) RemoveDay(dayID int) error {
	idx := b.dayIndex(dayID)
	if idx < 0 {
		return ErrDayNotFound
	}

	b.days = append(b.days[:idx], b.days[idx+1:]...)
	for i := range b.days {
		b.days[i].ID = i + 1
	}
	b.ids.dayCounter = len(b.days) + 1
	return nil
}

// AddExercise appends an exercise to a day with three empty default sets.
func (b *Builder) AddExercise(dayID int, name, muscle string) (int, error) {
	if name == "" || muscle == "" {
		return 0, ErrNameRequired
	}
	idx := b.dayIndex(dayID)
	if idx < 0 {
		return 0, ErrDayNotFound
	}

	ex := domain.Exercise{
		ID:     b.ids.nextExerciseID(),
		Name:   name,
		Muscle: muscle,
		Unit:   domain.UnitKG,
		Sets:   make([]domain.Set, 0, DefaultSetCount),
	}
	for i := 0; i < DefaultSetCount; i++ {
		ex.Sets = append(ex.Sets, domain.Set{ID: b.ids.nextSetID()})
	}

	b.days[idx].Exercises = append(b.days[idx].Exercises, ex)
	return ex.ID, nil
}

// UpdateExercise overwrites the mutable fields of an exercise.
func (b *Builder) UpdateExercise(dayID, exerciseID int, name, muscle string, unit domain.WeightUnit, notes string) error {
	ex, err := b.exercise(dayID, exerciseID)
	if err != nil {
		return err
	}
	if name == "" || muscle == "" {
		return ErrNameRequired
	}
	ex.Name = name
	ex.Muscle = muscle
	if unit != "" {
		ex.Unit = unit
	}
	ex.Notes = notes
	return nil
}

// RemoveExercise deletes an exercise from a day. Exercise ids are not
// renumbered; only day ids carry positional meaning.
func (b *Builder) RemoveExercise(dayID, exerciseID int) error {
	idx := b.dayIndex(dayID)
	if idx < 0 {
		return ErrDayNotFound
	}
	exercises := b.days[idx].Exercises
	for i := range exercises {
		if exercises[i].ID == exerciseID {
			b.days[idx].Exercises = append(exercises[:i], exercises[i+1:]...)
			return nil
		}
	}
	return ErrExerciseNotFound
}

// AddSet appends an empty set to an exercise and returns its id.
func (b *Builder) AddSet(dayID, exerciseID int) (int, error) {
	ex, err := b.exercise(dayID, exerciseID)
	if err != nil {
		return 0, err
	}
	id := b.ids.nextSetID()
	ex.Sets = append(ex.Sets, domain.Set{ID: id})
	return id, nil
}

// UpdateSet records weight and reps on a set. Both are free text so entries
// like "bodyweight" or "8-12" are valid.
func (b *Builder) UpdateSet(dayID, exerciseID, setID int, weight, reps string) error {
	ex, err := b.exercise(dayID, exerciseID)
	if err != nil {
		return err
	}
	for i := range ex.Sets {
		if ex.Sets[i].ID == setID {
			ex.Sets[i].Weight = weight
			ex.Sets[i].Reps = reps
			return nil
		}
	}
	return ErrSetNotFound
}

// RemoveSet deletes a set from an exercise.
func (b *Builder) RemoveSet(dayID, exerciseID, setID int) error {
	ex, err := b.exercise(dayID, exerciseID)
	if err != nil {
		return err
	}
	for i := range ex.Sets {
		if ex.Sets[i].ID == setID {
			ex.Sets = append(ex.Sets[:i], ex.Sets[i+1:]...)
			return nil
		}
	}
	return ErrSetNotFound
}

// Build returns the finished schedule, normalized.
func (b *Builder) Build() domain.ProgramInfo {
	info := domain.ProgramInfo{Days: b.days}
	info.Normalize()
	return info
}

func (b *Builder) dayIndex(dayID int) int {
	for i := range b.days {
		if b.days[i].ID == dayID {
			return i
		}
	}
	return -1
}

func (b *Builder) exercise(dayID, exerciseID int) (*domain.Exercise, error) {
	idx := b.dayIndex(dayID)
	if idx < 0 {
		return nil, ErrDayNotFound
	}
	exercises := b.days[idx].Exercises
	for i := range exercises {
		if exercises[i].ID == exerciseID {
			return &exercises[i], nil
		}
	}
	return nil, ErrExerciseNotFound
}
