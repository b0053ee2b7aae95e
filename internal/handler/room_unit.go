package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evzav/lab-resource-loans/internal/model"
	"github.com/evzav/lab-resource-loans/internal/repository"
)

// RoomUnitHandler manages room-fixed equipment. Units carry a
// maintenance flag only and never participate in loans.
type RoomUnitHandler struct {
	Units *repository.RoomUnitRepo
	Rooms *repository.RoomRepo
}

func NewRoomUnitHandler(units *repository.RoomUnitRepo, rooms *repository.RoomRepo) *RoomUnitHandler {
	if units == nil || rooms == nil {
		panic("nil dependency passed to NewRoomUnitHandler")
	}
	return &RoomUnitHandler{Units: units, Rooms: rooms}
}

type roomUnitResp struct {
	ID        uint64               `json:"id"`
	Code      string               `json:"code"`
	Name      string               `json:"name"`
	RoomID    uint64               `json:"room_id"`
	Status    model.RoomUnitStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

func roomUnitToResp(u *model.RoomUnit) roomUnitResp {
	return roomUnitResp{
		ID: u.ID, Code: u.Code, Name: u.Name, RoomID: u.RoomID,
		Status: u.Status, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}

// Create handles POST /v1/rooms/:code/units. New units start ACTIVE.
func (h *RoomUnitHandler) Create(c echo.Context) error {
	room, err := h.Rooms.GetByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	var body struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	body.Code = strings.TrimSpace(body.Code)
	body.Name = strings.TrimSpace(body.Name)
	if body.Code == "" || body.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "code and name are required"})
	}
	unit := &model.RoomUnit{Code: body.Code, Name: body.Name, RoomID: room.ID}
	if err := h.Units.Create(c.Request().Context(), unit); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, map[string]string{"error": "unit code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create unit"})
	}
	return c.JSON(http.StatusCreated, roomUnitToResp(unit))
}

// ListByRoom handles GET /v1/rooms/:code/units.
func (h *RoomUnitHandler) ListByRoom(c echo.Context) error {
	room, err := h.Rooms.GetByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	units, err := h.Units.ListByRoom(c.Request().Context(), room.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	out := make([]roomUnitResp, 0, len(units))
	for _, u := range units {
		out = append(out, roomUnitToResp(u))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/units/:code.
func (h *RoomUnitHandler) Get(c echo.Context) error {
	unit, err := h.Units.GetByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		if err == repository.ErrRoomUnitNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "unit not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, roomUnitToResp(unit))
}

// SetStatus handles PATCH /v1/units/:code/status with {"status": "..."}.
func (h *RoomUnitHandler) SetStatus(c echo.Context) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	status := model.RoomUnitStatus(strings.ToUpper(strings.TrimSpace(body.Status)))
	if status != model.RoomUnitActive && status != model.RoomUnitInactive {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "status must be ACTIVE or INACTIVE"})
	}
	code := c.Param("code")
	if err := h.Units.SetStatus(c.Request().Context(), code, status); err != nil {
		if err == repository.ErrRoomUnitNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "unit not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not update unit"})
	}
	unit, err := h.Units.GetByCode(c.Request().Context(), code)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, roomUnitToResp(unit))
}

// Delete handles DELETE /v1/units/:code.
func (h *RoomUnitHandler) Delete(c echo.Context) error {
	err := h.Units.DeleteByCode(c.Request().Context(), c.Param("code"))
	switch err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case repository.ErrRoomUnitNotFound:
		return c.JSON(http.StatusNotFound, map[string]string{"error": "unit not found"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not delete unit"})
	}
}
