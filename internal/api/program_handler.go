package api

import (
	"errors"
	"jadwal/program-vault/internal/domain"
	"jadwal/program-vault/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramHandler handles program catalog HTTP requests.
type ProgramHandler struct {
	programService service.ProgramService
}

// NewProgramHandler creates a new ProgramHandler instance.
func NewProgramHandler(programService service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// The schedule payloads accept ids as JSON numbers, including floats sent by
// older clients. Fractional ids are truncated toward zero here; non-positive
// results fall through to normalization, which assigns positional ids.

type setPayload struct {
	ID     *float64 `json:"id"`
	Weight string   `json:"weight"`
	Reps   string   `json:"reps"`
}

type exercisePayload struct {
	ID     *float64     `json:"id"`
	Name   string       `json:"name" binding:"required"`
	Muscle string       `json:"muscle" binding:"required"`
	Unit   string       `json:"unit" binding:"omitempty,oneof=KG LBS"`
	Notes  string       `json:"notes"`
	Sets   []setPayload `json:"sets" binding:"omitempty,dive"`
}

type dayPayload struct {
	ID        *float64          `json:"id"`
	Exercises []exercisePayload `json:"exercises" binding:"omitempty,dive"`
}

type programInfoPayload struct {
	Days []dayPayload `json:"days" binding:"omitempty,dive"`
}

type createProgramRequest struct {
	Title        string             `json:"title" binding:"required"`
	ShortLabel   string             `json:"shortLabel"`
	Summary      string             `json:"summary"`
	Description  string             `json:"description"`
	Tags         []string           `json:"tags"`
	DurationHint string             `json:"durationHint"`
	Type         string             `json:"type" binding:"omitempty,oneof=system community"`
	IsPublic     *bool              `json:"isPublic"`
	ProgramInfo  programInfoPayload `json:"programInfo"`
}

type rateProgramRequest struct {
	Value int `json:"value" binding:"required,min=1,max=5"`
}

func intID(id *float64) int {
	if id == nil {
		return 0
	}
	return int(*id)
}

func (p programInfoPayload) toDomain() domain.ProgramInfo {
	info := domain.ProgramInfo{Days: make([]domain.Day, 0, len(p.Days))}
	for _, d := range p.Days {
		day := domain.Day{ID: intID(d.ID), Exercises: make([]domain.Exercise, 0, len(d.Exercises))}
		for _, e := range d.Exercises {
			ex := domain.Exercise{
				ID:     intID(e.ID),
				Name:   e.Name,
				Muscle: e.Muscle,
				Unit:   domain.WeightUnit(e.Unit),
				Notes:  e.Notes,
				Sets:   make([]domain.Set, 0, len(e.Sets)),
			}
			for _, s := range e.Sets {
				ex.Sets = append(ex.Sets, domain.Set{ID: intID(s.ID), Weight: s.Weight, Reps: s.Reps})
			}
			day.Exercises = append(day.Exercises, ex)
		}
		info.Days = append(info.Days, day)
	}
	return info
}

// ListPrograms godoc
// @Summary List visible programs
// @Tags programs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /getPrograms [get]
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	requester := requesterID(c)
	programs, err := h.programService.ListVisiblePrograms(c.Request.Context(), requester)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch programs")
		return
	}
	respondSuccess(c, http.StatusOK, "", gin.H{"programs": programs})
}

// GetProgram godoc
// @Summary Fetch a single program
// @Tags programs
// @Produce json
// @Param id path string true "Program ID"
// @Success 200 {object} map[string]interface{}
// @Router /programs/{id} [get]
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	programID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	program, err := h.programService.GetProgram(c.Request.Context(), requesterID(c), programID)
	if err != nil {
		h.respondProgramError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", gin.H{"program": program})
}

// CreateProgram godoc
// @Summary Submit a new program
// @Tags programs
// @Accept json
// @Produce json
// @Param program body createProgramRequest true "Program payload"
// @Success 201 {object} map[string]interface{}
// @Router /programs [post]
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	var req createProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithErrorDetail(c, http.StatusBadRequest, "Invalid program payload", err.Error())
		return
	}

	actor, _ := getCurrentUser(c) // nil actor means an anonymous submission
	input := service.ProgramInput{
		Title:        req.Title,
		ShortLabel:   req.ShortLabel,
		Summary:      req.Summary,
		Description:  req.Description,
		Tags:         req.Tags,
		DurationHint: req.DurationHint,
		Type:         domain.ProgramType(req.Type),
		IsPublic:     req.IsPublic,
		ProgramInfo:  req.ProgramInfo.toDomain(),
	}

	program, err := h.programService.CreateProgram(c.Request.Context(), actor, input)
	if err != nil {
		h.respondProgramError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Program created successfully", gin.H{"program": program})
}

// RateProgram godoc
// @Summary Rate a program from 1 to 5
// @Tags programs
// @Accept json
// @Produce json
// @Param id path string true "Program ID"
// @Param rating body rateProgramRequest true "Rating value"
// @Success 200 {object} map[string]interface{}
// @Router /programs/{id}/rating [post]
func (h *ProgramHandler) RateProgram(c *gin.Context) {
	programID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req rateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithErrorDetail(c, http.StatusBadRequest, "Rating must be between 1 and 5", err.Error())
		return
	}

	actorID, ok := getCurrentUserID(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	program, err := h.programService.RateProgram(c.Request.Context(), actorID, programID, req.Value)
	if err != nil {
		h.respondProgramError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Rating saved", gin.H{
		"program": program,
		"rating":  gin.H{"value": program.Rating, "count": program.RatingCount},
	})
}

// ReplaceProgramInfo godoc
// @Summary Replace a program's schedule
// @Tags programs
// @Accept json
// @Produce json
// @Param id path string true "Program ID"
// @Param programInfo body programInfoPayload true "Schedule payload"
// @Success 200 {object} map[string]interface{}
// @Router /programs/{id}/programInfo [post]
func (h *ProgramHandler) ReplaceProgramInfo(c *gin.Context) {
	programID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req programInfoPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithErrorDetail(c, http.StatusBadRequest, "Invalid schedule payload", err.Error())
		return
	}

	actor, _ := getCurrentUser(c)
	program, err := h.programService.ReplaceProgramInfo(c.Request.Context(), actor, programID, req.toDomain())
	if err != nil {
		h.respondProgramError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Program schedule updated", gin.H{"program": program})
}

func (h *ProgramHandler) respondProgramError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProgramNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrProgramPrivate), errors.Is(err, service.ErrProgramEditDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrProgramTitle),
		errors.Is(err, service.ErrRatingOutOfRange),
		errors.Is(err, service.ErrExerciseIncomplete):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Something went wrong")
	}
}

// requesterID adapts the optional identity for visibility checks.
func requesterID(c *gin.Context) *primitive.ObjectID {
	id, ok := getCurrentUserID(c)
	if !ok {
		return nil
	}
	return &id
}

// parseObjectID reads a path parameter as a Mongo ObjectID, answering 400 on
// malformed input.
func parseObjectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid ID format")
		return primitive.NilObjectID, false
	}
	return id, true
}
