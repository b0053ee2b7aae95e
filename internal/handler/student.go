package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evzav/lab-resource-loans/internal/model"
	"github.com/evzav/lab-resource-loans/internal/repository"
)

// StudentHandler exposes the student registry.
type StudentHandler struct {
	Students *repository.StudentRepo
}

func NewStudentHandler(students *repository.StudentRepo) *StudentHandler {
	if students == nil {
		panic("nil repository passed to NewStudentHandler")
	}
	return &StudentHandler{Students: students}
}

type studentResp struct {
	ID        uint64    `json:"id"`
	Code      string    `json:"code"`
	FullName  string    `json:"full_name"`
	Email     *string   `json:"email,omitempty"`
	ProjectID *uint64   `json:"project_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func studentToResp(s *model.Student) studentResp {
	return studentResp{
		ID: s.ID, Code: s.Code, FullName: s.FullName, Email: s.Email,
		ProjectID: s.ProjectID, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
}

// Create handles POST /v1/students.
func (h *StudentHandler) Create(c echo.Context) error {
	var body struct {
		Code      string  `json:"code"`
		FullName  string  `json:"full_name"`
		Email     *string `json:"email"`
		ProjectID *uint64 `json:"project_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	body.Code = strings.TrimSpace(body.Code)
	body.FullName = strings.TrimSpace(body.FullName)
	if body.Code == "" || body.FullName == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "code and full_name are required"})
	}
	s := &model.Student{Code: body.Code, FullName: body.FullName, Email: body.Email, ProjectID: body.ProjectID}
	if err := h.Students.Create(c.Request().Context(), s); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, map[string]string{"error": "student code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create student"})
	}
	return c.JSON(http.StatusCreated, studentToResp(s))
}

// List handles GET /v1/students with an optional ?q= name/code prefix.
func (h *StudentHandler) List(c echo.Context) error {
	students, err := h.Students.List(c.Request().Context(), strings.TrimSpace(c.QueryParam("q")))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	out := make([]studentResp, 0, len(students))
	for _, s := range students {
		out = append(out, studentToResp(s))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/students/:code.
func (h *StudentHandler) Get(c echo.Context) error {
	s, err := h.Students.GetByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		if err == repository.ErrStudentNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "student not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, studentToResp(s))
}

// Update handles PUT /v1/students/:code.
func (h *StudentHandler) Update(c echo.Context) error {
	code := c.Param("code")
	cur, err := h.Students.GetByCode(c.Request().Context(), code)
	if err != nil {
		if err == repository.ErrStudentNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "student not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	var body struct {
		FullName  *string `json:"full_name"`
		Email     *string `json:"email"`
		ProjectID *uint64 `json:"project_id"`
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
	projectID := cur.ProjectID
	if body.ProjectID != nil {
		projectID = body.ProjectID
	}
	if err := h.Students.UpdateByCode(c.Request().Context(), code, fullName, email, projectID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not update student"})
	}
	cur, err = h.Students.GetByCode(c.Request().Context(), code)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, studentToResp(cur))
}

// Delete handles DELETE /v1/students/:code. Students referenced by loan
// records are refused.
func (h *StudentHandler) Delete(c echo.Context) error {
	err := h.Students.DeleteByCode(c.Request().Context(), c.Param("code"))
	switch err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case repository.ErrStudentNotFound:
		return c.JSON(http.StatusNotFound, map[string]string{"error": "student not found"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, map[string]string{"error": "student is referenced by loan records"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not delete student"})
	}
}
