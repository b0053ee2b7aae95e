package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evzav/lab-resource-loans/internal/availability"
	"github.com/evzav/lab-resource-loans/internal/model"
	"github.com/evzav/lab-resource-loans/internal/repository"
)

// EquipmentHandler exposes the equipment registry. Status transitions
// never happen here directly; the damaged endpoints delegate to the
// availability tracker and everything else leaves status untouched.
type EquipmentHandler struct {
	Equipment *repository.EquipmentRepo
	Tracker   *availability.Tracker
}

func NewEquipmentHandler(equipment *repository.EquipmentRepo, tracker *availability.Tracker) *EquipmentHandler {
	if equipment == nil || tracker == nil {
		panic("nil dependency passed to NewEquipmentHandler")
	}
	return &EquipmentHandler{Equipment: equipment, Tracker: tracker}
}

type equipmentResp struct {
	ID          uint64                `json:"id"`
	Code        string                `json:"code"`
	Name        string                `json:"name"`
	Description *string               `json:"description,omitempty"`
	Status      model.EquipmentStatus `json:"status"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

func equipmentToResp(e *model.Equipment) equipmentResp {
	return equipmentResp{
		ID: e.ID, Code: e.Code, Name: e.Name, Description: e.Description,
		Status: e.Status, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt,
	}
}

// Create handles POST /v1/equipment. New items always start AVAILABLE.
func (h *EquipmentHandler) Create(c echo.Context) error {
	var body struct {
		Code        string  `json:"code"`
		Name        string  `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	body.Code = strings.TrimSpace(body.Code)
	body.Name = strings.TrimSpace(body.Name)
	if body.Code == "" || body.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "code and name are required"})
	}

	item := &model.Equipment{Code: body.Code, Name: body.Name, Description: body.Description}
	if err := h.Equipment.Create(c.Request().Context(), item); err != nil {
		if err == repository.ErrEquipmentCodeExists {
			return c.JSON(http.StatusConflict, map[string]string{"error": "equipment code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create equipment"})
	}
	return c.JSON(http.StatusCreated, equipmentToResp(item))
}

// List handles GET /v1/equipment with an optional ?status= filter.
func (h *EquipmentHandler) List(c echo.Context) error {
	var status model.EquipmentStatus
	if s := strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))); s != "" {
		switch model.EquipmentStatus(s) {
		case model.EquipmentAvailable, model.EquipmentInUse, model.EquipmentDamaged:
			status = model.EquipmentStatus(s)
		default:
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid status filter"})
		}
	}
	items, err := h.Equipment.List(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	out := make([]equipmentResp, 0, len(items))
	for _, e := range items {
		out = append(out, equipmentToResp(e))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/equipment/:code.
func (h *EquipmentHandler) Get(c echo.Context) error {
	item, err := h.Equipment.GetByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		if err == repository.ErrEquipmentNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "equipment not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, equipmentToResp(item))
}

// Update handles PUT /v1/equipment/:code. Code and status are not
// writable through this endpoint.
func (h *EquipmentHandler) Update(c echo.Context) error {
	code := c.Param("code")
	cur, err := h.Equipment.GetByCode(c.Request().Context(), code)
	if err != nil {
		if err == repository.ErrEquipmentNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "equipment not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	var body struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	name := cur.Name
	if body.Name != nil && strings.TrimSpace(*body.Name) != "" {
		name = strings.TrimSpace(*body.Name)
	}
	desc := cur.Description
	if body.Description != nil {
		desc = body.Description
	}
	if err := h.Equipment.UpdateByCode(c.Request().Context(), code, name, desc); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not update equipment"})
	}
	cur, err = h.Equipment.GetByCode(c.Request().Context(), code)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, equipmentToResp(cur))
}

// Delete handles DELETE /v1/equipment/:code.
func (h *EquipmentHandler) Delete(c echo.Context) error {
	err := h.Equipment.DeleteByCode(c.Request().Context(), c.Param("code"))
	switch err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case repository.ErrEquipmentNotFound:
		return c.JSON(http.StatusNotFound, map[string]string{"error": "equipment not found"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, map[string]string{"error": "equipment is referenced by loan records"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not delete equipment"})
	}
}

// MarkDamaged handles POST /v1/equipment/:code/damaged. The override is
// applied regardless of loan state.
func (h *EquipmentHandler) MarkDamaged(c echo.Context) error {
	code := c.Param("code")
	if _, err := h.Equipment.GetByCode(c.Request().Context(), code); err != nil {
		if err == repository.ErrEquipmentNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "equipment not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	if err := h.Tracker.MarkDamaged(c.Request().Context(), code); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not mark damaged"})
	}
	item, err := h.Equipment.GetByCode(c.Request().Context(), code)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, equipmentToResp(item))
}

// ClearDamaged handles DELETE /v1/equipment/:code/damaged. The item
// returns to IN_USE when an open loan still references it, otherwise
// to AVAILABLE.
func (h *EquipmentHandler) ClearDamaged(c echo.Context) error {
	code := c.Param("code")
	if _, err := h.Equipment.GetByCode(c.Request().Context(), code); err != nil {
		if err == repository.ErrEquipmentNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "equipment not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	if err := h.Tracker.ClearDamaged(c.Request().Context(), code); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not clear damaged"})
	}
	item, err := h.Equipment.GetByCode(c.Request().Context(), code)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, equipmentToResp(item))
}
