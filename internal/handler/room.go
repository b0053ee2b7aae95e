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

// RoomHandler exposes the room registry. Room status is never stored;
// every response derives it through the availability tracker.
type RoomHandler struct {
	Rooms   *repository.RoomRepo
	Tracker *availability.Tracker
}

func NewRoomHandler(rooms *repository.RoomRepo, tracker *availability.Tracker) *RoomHandler {
	if rooms == nil || tracker == nil {
		panic("nil dependency passed to NewRoomHandler")
	}
	return &RoomHandler{Rooms: rooms, Tracker: tracker}
}

type roomResp struct {
	ID        uint64           `json:"id"`
	Code      string           `json:"code"`
	Name      string           `json:"name"`
	CampusID  *uint64          `json:"campus_id,omitempty"`
	Status    model.RoomStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (h *RoomHandler) roomToResp(c echo.Context, r *model.Room) (roomResp, error) {
	available, err := h.Tracker.IsAvailable(c.Request().Context(), model.ResourceRoom, r.Code)
	if err != nil {
		return roomResp{}, err
	}
	status := model.RoomOccupied
	if available {
		status = model.RoomAvailable
	}
	return roomResp{
		ID: r.ID, Code: r.Code, Name: r.Name, CampusID: r.CampusID,
		Status: status, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}, nil
}

// Create handles POST /v1/rooms.
func (h *RoomHandler) Create(c echo.Context) error {
	var body struct {
		Code     string  `json:"code"`
		Name     string  `json:"name"`
		CampusID *uint64 `json:"campus_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	body.Code = strings.TrimSpace(body.Code)
	body.Name = strings.TrimSpace(body.Name)
	if body.Code == "" || body.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "code and name are required"})
	}

	room := &model.Room{Code: body.Code, Name: body.Name, CampusID: body.CampusID}
	if err := h.Rooms.Create(c.Request().Context(), room); err != nil {
		if err == repository.ErrRoomCodeExists {
			return c.JSON(http.StatusConflict, map[string]string{"error": "room code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create room"})
	}
	resp, err := h.roomToResp(c, room)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusCreated, resp)
}

// List handles GET /v1/rooms.
func (h *RoomHandler) List(c echo.Context) error {
	rooms, err := h.Rooms.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	out := make([]roomResp, 0, len(rooms))
	for _, r := range rooms {
		resp, err := h.roomToResp(c, r)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		}
		out = append(out, resp)
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/rooms/:code.
func (h *RoomHandler) Get(c echo.Context) error {
	room, err := h.Rooms.GetByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	resp, err := h.roomToResp(c, room)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, resp)
}

// Update handles PUT /v1/rooms/:code. The code itself is immutable.
func (h *RoomHandler) Update(c echo.Context) error {
	code := c.Param("code")
	cur, err := h.Rooms.GetByCode(c.Request().Context(), code)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	var body struct {
		Name     *string `json:"name"`
		CampusID *uint64 `json:"campus_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	name := cur.Name
	if body.Name != nil && strings.TrimSpace(*body.Name) != "" {
		name = strings.TrimSpace(*body.Name)
	}
	campusID := cur.CampusID
	if body.CampusID != nil {
		campusID = body.CampusID
	}
	if err := h.Rooms.UpdateByCode(c.Request().Context(), code, name, campusID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not update room"})
	}
	cur, err = h.Rooms.GetByCode(c.Request().Context(), code)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	resp, err := h.roomToResp(c, cur)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE /v1/rooms/:code. Rooms referenced by loan
// records, open or historical, are refused.
func (h *RoomHandler) Delete(c echo.Context) error {
	err := h.Rooms.DeleteByCode(c.Request().Context(), c.Param("code"))
	switch err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case repository.ErrRoomNotFound:
		return c.JSON(http.StatusNotFound, map[string]string{"error": "room not found"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, map[string]string{"error": "room is referenced by loan records"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not delete room"})
	}
}
