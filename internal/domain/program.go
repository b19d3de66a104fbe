package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramType distinguishes seeded programs from user-authored ones.
type ProgramType string

const (
	ProgramTypeSystem    ProgramType = "system"
	ProgramTypeCommunity ProgramType = "community"
)

// WeightUnit is the unit exercises are logged in.
type WeightUnit string

const (
	UnitKG  WeightUnit = "KG"
	UnitLBS WeightUnit = "LBS"
)

// Program is the top-level authorable entity: a shareable workout schedule.
// Rating and RatingCount are derived from the ratings collection and are never
// settable by a client directly.
type Program struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title        string              `bson:"title" json:"title"`
	ShortLabel   string              `bson:"shortLabel,omitempty" json:"shortLabel,omitempty"`
	Summary      string              `bson:"summary,omitempty" json:"summary,omitempty"`
	Description  string              `bson:"description,omitempty" json:"description,omitempty"`
	Tags         []string            `bson:"tags,omitempty" json:"tags,omitempty"`
	DurationHint string              `bson:"durationHint,omitempty" json:"durationHint,omitempty"`
	Type         ProgramType         `bson:"type" json:"type"`
	IsPublic     bool                `bson:"isPublic" json:"isPublic"`
	AuthorID     *primitive.ObjectID `bson:"authorId" json:"authorId"` // nil means system-authored
	AuthorName   string              `bson:"authorName,omitempty" json:"authorName,omitempty"`
	Rating       float64             `bson:"rating" json:"rating"`
	RatingCount  int                 `bson:"ratingCount" json:"ratingCount"`
	ProgramInfo  ProgramInfo         `bson:"programInfo" json:"programInfo"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ProgramInfo holds the ordered day schedule of a program.
type ProgramInfo struct {
	Days []Day `bson:"days" json:"days"`
}

// Day is one training day within a program. Its ID is unique within the
// parent program only, not globally.
type Day struct {
	ID        int        `bson:"id" json:"id"`
	Exercises []Exercise `bson:"exercises" json:"exercises"`
}

// Exercise is a single movement within a day.
type Exercise struct {
	ID     int        `bson:"id" json:"id"`
	Name   string     `bson:"name" json:"name"`
	Muscle string     `bson:"muscle" json:"muscle"`
	Unit   WeightUnit `bson:"unit" json:"unit"`
	Sets   []Set      `bson:"sets" json:"sets"`
	Notes  string     `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Set is one set of an exercise. Weight and Reps are free text so values like
// "bodyweight" or "8-12" are permitted.
type Set struct {
	ID     int    `bson:"id" json:"id"`
	Weight string `bson:"weight" json:"weight"`
	Reps   string `bson:"reps" json:"reps"`
}

// Normalize assigns a fallback id (position in the parent list + 1) to every
// day, exercise and set whose id is not a positive integer. It never fails and
// does not deduplicate ids across siblings; the builder is expected to have
// assigned sequential ids already, this pass only hardens against malformed
// or partial payloads.
func (pi *ProgramInfo) Normalize() {
	if pi == nil {
		return
	}
	for di := range pi.Days {
		day := &pi.Days[di]
		if day.ID <= 0 {
			day.ID = di + 1
		}
		for ei := range day.Exercises {
			ex := &day.Exercises[ei]
			if ex.ID <= 0 {
				ex.ID = ei + 1
			}
			if ex.Unit == "" {
				ex.Unit = UnitKG
			}
			for si := range ex.Sets {
				set := &ex.Sets[si]
				if set.ID <= 0 {
					set.ID = si + 1
				}
			}
		}
	}
}

// IsVisibleTo reports whether the program may be read by the given requester.
// A nil requester is an anonymous read.
func (p *Program) IsVisibleTo(requester *primitive.ObjectID) bool {
	if p.IsPublic {
		return true
	}
	if requester == nil || p.AuthorID == nil {
		return false
	}
	return *p.AuthorID == *requester
}
