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

// CampusHandler exposes the campus registry.
type CampusHandler struct {
	Campuses *repository.CampusRepo
}

func NewCampusHandler(campuses *repository.CampusRepo) *CampusHandler {
	if campuses == nil {
		panic("nil repository passed to NewCampusHandler")
	}
	return &CampusHandler{Campuses: campuses}
}

type campusResp struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func campusToResp(c *model.Campus) campusResp {
	return campusResp{ID: c.ID, Name: c.Name, Address: c.Address, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

// Create handles POST /v1/campuses.
func (h *CampusHandler) Create(c echo.Context) error {
	var body struct {
		Name    string  `json:"name"`
		Address *string `json:"address"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}
	campus := &model.Campus{Name: body.Name, Address: body.Address}
	if err := h.Campuses.Create(c.Request().Context(), campus); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create campus"})
	}
	return c.JSON(http.StatusCreated, campusToResp(campus))
}

// List handles GET /v1/campuses.
func (h *CampusHandler) List(c echo.Context) error {
	campuses, err := h.Campuses.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	out := make([]campusResp, 0, len(campuses))
	for _, cm := range campuses {
		out = append(out, campusToResp(cm))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/campuses/:id.
func (h *CampusHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	campus, err := h.Campuses.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrCampusNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "campus not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, campusToResp(campus))
}

// Update handles PUT /v1/campuses/:id.
func (h *CampusHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	cur, err := h.Campuses.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrCampusNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "campus not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	var body struct {
		Name    *string `json:"name"`
		Address *string `json:"address"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if body.Name != nil && strings.TrimSpace(*body.Name) != "" {
		cur.Name = strings.TrimSpace(*body.Name)
	}
	if body.Address != nil {
		cur.Address = body.Address
	}
	if err := h.Campuses.Update(c.Request().Context(), cur); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not update campus"})
	}
	cur, err = h.Campuses.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, campusToResp(cur))
}

// Delete handles DELETE /v1/campuses/:id. Campuses still referenced by
// rooms are refused.
func (h *CampusHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	err = h.Campuses.Delete(c.Request().Context(), id)
	switch err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case repository.ErrCampusNotFound:
		return c.JSON(http.StatusNotFound, map[string]string{"error": "campus not found"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, map[string]string{"error": "campus is referenced by rooms"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not delete campus"})
	}
}
