package repository

import (
	"context"
	"database/sql"

	"github.com/evzav/lab-resource-loans/internal/model"
)

// DashboardRepo aggregates the counts shown on the dashboard.  It only
// ever reads; the background warmer may call Counts concurrently with
// user writes without extra synchronization.
type DashboardRepo struct {
	db *sql.DB
}

func NewDashboardRepo(db *sql.DB) *DashboardRepo { return &DashboardRepo{db: db} }

// Counts re-reads every aggregate in one round trip.  Room occupancy
// is derived from open loan existence, consistent with the tracker's
// definition of room status.
func (r *DashboardRepo) Counts(ctx context.Context) (*model.DashboardCounts, error) {
	const q = `SELECT
	  (SELECT COUNT(*) FROM rooms),
	  (SELECT COUNT(*) FROM rooms ro WHERE
	     EXISTS(SELECT 1 FROM room_loans_student l WHERE l.room_id = ro.id AND l.returned_at IS NULL)
	     OR EXISTS(SELECT 1 FROM room_loans_professor l WHERE l.room_id = ro.id AND l.returned_at IS NULL)),
	  (SELECT COUNT(*) FROM equipment),
	  (SELECT COUNT(*) FROM equipment WHERE status = 'AVAILABLE'),
	  (SELECT COUNT(*) FROM equipment WHERE status = 'IN_USE'),
	  (SELECT COUNT(*) FROM equipment WHERE status = 'DAMAGED'),
	  (SELECT (SELECT COUNT(*) FROM room_loans_student WHERE returned_at IS NULL)
	        + (SELECT COUNT(*) FROM room_loans_professor WHERE returned_at IS NULL)),
	  (SELECT (SELECT COUNT(*) FROM equipment_loans_student WHERE returned_at IS NULL)
	        + (SELECT COUNT(*) FROM equipment_loans_professor WHERE returned_at IS NULL)),
	  (SELECT COUNT(*) FROM students),
	  (SELECT COUNT(*) FROM professors)`
	var c model.DashboardCounts
	err := r.db.QueryRowContext(ctx, q).Scan(
		&c.RoomsTotal, &c.RoomsOccupied,
		&c.EquipmentTotal, &c.EquipmentAvailable, &c.EquipmentInUse, &c.EquipmentDamaged,
		&c.OpenRoomLoans, &c.OpenEquipmentLoans,
		&c.Students, &c.Professors,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
