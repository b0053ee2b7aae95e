package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evzav/lab-resource-loans/internal/model"
	"github.com/evzav/lab-resource-loans/internal/repository"
)

// ProfessorHandler exposes the professor registry.
type ProfessorHandler struct {
	Professors *repository.ProfessorRepo
}

func NewProfessorHandler(professors *repository.ProfessorRepo) *ProfessorHandler {
	if professors == nil {
		panic("nil repository passed to NewProfessorHandler")
	}
	return &ProfessorHandler{Professors: professors}
}

type professorResp struct {
	ID        uint64    `json:"id"`
	Code      string    `json:"code"`
	FullName  string    `json:"full_name"`
	Email     *string   `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func professorToResp(p *model.Professor) professorResp {
	return professorResp{
		ID: p.ID, Code: p.Code, FullName: p.FullName, Email: p.Email,
		CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
}

// Create handles POST /v1/professors.
func (h *ProfessorHandler) Create(c echo.Context) error {
	var body struct {
		Code     string  `json:"code"`
		FullName string  `json:"full_name"`
		Email    *string `json:"email"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	body.Code = strings.TrimSpace(body.Code)
	body.FullName = strings.TrimSpace(body.FullName)
	if body.Code == "" || body.FullName == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "code and full_name are required"})
	}
	p := &model.Professor{Code: body.Code, FullName: body.FullName, Email: body.Email}
	if err := h.Professors.Create(c.Request().Context(), p); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, map[string]string{"error": "professor code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create professor"})
	}
	return c.JSON(http.StatusCreated, professorToResp(p))
}

// List handles GET /v1/professors with an optional ?q= name/code prefix.
func (h *ProfessorHandler) List(c echo.Context) error {
	professors, err := h.Professors.List(c.Request().Context(), strings.TrimSpace(c.QueryParam("q")))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	out := make([]professorResp, 0, len(professors))
	for _, p := range professors {
		out = append(out, professorToResp(p))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/professors/:code.
func (h *ProfessorHandler) Get(c echo.Context) error {
	p, err := h.Professors.GetByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		if err == repository.ErrProfessorNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "professor not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, professorToResp(p))
}

// Update handles PUT /v1/professors/:code.
func (h *ProfessorHandler) Update(c echo.Context) error {
	code := c.Param("code")
	cur, err := h.Professors.GetByCode(c.Request().Context(), code)
	if err != nil {
		if err == repository.ErrProfessorNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "professor not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	var body struct {
		FullName *string `json:"full_name"`
		Email    *string `json:"email"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	fullName := cur.FullName
	if body.FullName != nil && strings.TrimSpace(*body.FullName) != "" {
		fullName = strings.TrimSpace(*body.FullName)
	}
	email := cur.Email
	if body.Email != nil {
		email = body.Email
	}
	if err := h.Professors.UpdateByCode(c.Request().Context(), code, fullName, email); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not update professor"})
	}
	cur, err = h.Professors.GetByCode(c.Request().Context(), code)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, professorToResp(cur))
}

// Delete handles DELETE /v1/professors/:code.
func (h *ProfessorHandler) Delete(c echo.Context) error {
	err := h.Professors.DeleteByCode(c.Request().Context(), c.Param("code"))
	switch err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case repository.ErrProfessorNotFound:
		return c.JSON(http.StatusNotFound, map[string]string{"error": "professor not found"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, map[string]string{"error": "professor is referenced by loan records"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not delete professor"})
	}
}
