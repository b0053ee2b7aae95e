package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evzav/lab-resource-loans/internal/model"
	"github.com/evzav/lab-resource-loans/internal/repository"
)

// ProjectHandler exposes the curriculum-project registry.
type ProjectHandler struct {
	Projects *repository.ProjectRepo
}

func NewProjectHandler(projects *repository.ProjectRepo) *ProjectHandler {
	if projects == nil {
		panic("nil repository passed to NewProjectHandler")
	}
	return &ProjectHandler{Projects: projects}
}

type projectResp struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Term      *string   `json:"term,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func projectToResp(p *model.Project) projectResp {
	return projectResp{ID: p.ID, Name: p.Name, Term: p.Term, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt}
}

// Create handles POST /v1/projects.
func (h *ProjectHandler) Create(c echo.Context) error {
	var body struct {
		Name string  `json:"name"`
		Term *string `json:"term"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}
	p := &model.Project{Name: body.Name, Term: body.Term}
	if err := h.Projects.Create(c.Request().Context(), p); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create project"})
	}
	return c.JSON(http.StatusCreated, projectToResp(p))
}

// List handles GET /v1/projects.
func (h *ProjectHandler) List(c echo.Context) error {
	projects, err := h.Projects.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	out := make([]projectResp, 0, len(projects))
	for _, p := range projects {
		out = append(out, projectToResp(p))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/projects/:id.
func (h *ProjectHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	p, err := h.Projects.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrProjectNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "project not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, projectToResp(p))
}

// Update handles PUT /v1/projects/:id.
func (h *ProjectHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	cur, err := h.Projects.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrProjectNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "project not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	var body struct {
		Name *string `json:"name"`
		Term *string `json:"term"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if body.Name != nil && strings.TrimSpace(*body.Name) != "" {
		cur.Name = strings.TrimSpace(*body.Name)
	}
	if body.Term != nil {
		cur.Term = body.Term
	}
	if err := h.Projects.Update(c.Request().Context(), cur); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not update project"})
	}
	cur, err = h.Projects.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, projectToResp(cur))
}

// Delete handles DELETE /v1/projects/:id. Projects referenced by
// students are refused.
func (h *ProjectHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	err = h.Projects.Delete(c.Request().Context(), id)
	switch err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case repository.ErrProjectNotFound:
		return c.JSON(http.StatusNotFound, map[string]string{"error": "project not found"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, map[string]string{"error": "project is referenced by students"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not delete project"})
	}
}
