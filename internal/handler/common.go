package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/evzav/lab-resource-loans/internal/model"
)

// getUserID extracts the authenticated staff id stored in the context by
// the JWT middleware and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseResourceKind normalizes a path or query value into a ResourceKind.
// Both the canonical names and their lowercase plural forms used in URLs
// are accepted ("rooms", "equipment").
func parseResourceKind(s string) (model.ResourceKind, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ROOM", "ROOMS":
		return model.ResourceRoom, true
	case "EQUIPMENT":
		return model.ResourceEquipment, true
	}
	return "", false
}

// parseBorrowerKind normalizes a path or query value into a BorrowerKind.
func parseBorrowerKind(s string) (model.BorrowerKind, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "STUDENT", "STUDENTS":
		return model.BorrowerStudent, true
	case "PROFESSOR", "PROFESSORS":
		return model.BorrowerProfessor, true
	}
	return "", false
}
