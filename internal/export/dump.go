// Package export produces a zip archive of CSV sheets covering every
// registry and loan table, for offline inspection and record keeping.
package export

import (
	"context"
	"database/sql"
	"fmt"
)

// Sheet is one CSV file inside the export archive.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// tableQueries lists the sheets in the order they appear in the archive.
// Loan sheets join back to the registries so the CSV carries codes
// instead of foreign keys.
var tableQueries = []struct {
	name  string
	query string
}{
	{"rooms", `SELECT r.id, r.code, r.name, COALESCE(c.name,''), r.created_at, r.updated_at
		FROM rooms r LEFT JOIN campuses c ON c.id = r.campus_id ORDER BY r.id`},
	{"equipment", `SELECT id, code, name, COALESCE(description,''), status, created_at, updated_at
		FROM equipment ORDER BY id`},
	{"room_units", `SELECT u.id, u.code, u.name, r.code, u.status, u.created_at, u.updated_at
		FROM room_units u JOIN rooms r ON r.id = u.room_id ORDER BY u.id`},
	{"students", `SELECT s.id, s.code, s.full_name, COALESCE(s.email,''), COALESCE(p.name,''), s.created_at, s.updated_at
		FROM students s LEFT JOIN projects p ON p.id = s.project_id ORDER BY s.id`},
	{"professors", `SELECT id, code, full_name, COALESCE(email,''), created_at, updated_at
		FROM professors ORDER BY id`},
	{"campuses", `SELECT id, name, COALESCE(address,''), created_at, updated_at
		FROM campuses ORDER BY id`},
	{"projects", `SELECT id, name, COALESCE(term,''), created_at, updated_at
		FROM projects ORDER BY id`},
	{"room_loans_student", `SELECT l.id, r.code, s.code, l.supervisor_id, l.opened_at,
		COALESCE(CAST(l.returned_at AS CHAR),''), COALESCE(l.remarks,'')
		FROM room_loans_student l JOIN rooms r ON r.id = l.room_id JOIN students s ON s.id = l.student_id
		ORDER BY l.id`},
	{"room_loans_professor", `SELECT l.id, r.code, p.code, l.supervisor_id, l.opened_at,
		COALESCE(CAST(l.returned_at AS CHAR),''), COALESCE(l.remarks,'')
		FROM room_loans_professor l JOIN rooms r ON r.id = l.room_id JOIN professors p ON p.id = l.professor_id
		ORDER BY l.id`},
	{"equipment_loans_student", `SELECT l.id, e.code, s.code, l.supervisor_id, l.opened_at,
		COALESCE(CAST(l.returned_at AS CHAR),''), COALESCE(l.remarks,'')
		FROM equipment_loans_student l JOIN equipment e ON e.id = l.equipment_id JOIN students s ON s.id = l.student_id
		ORDER BY l.id`},
	{"equipment_loans_professor", `SELECT l.id, e.code, p.code, l.supervisor_id, l.opened_at,
		COALESCE(CAST(l.returned_at AS CHAR),''), COALESCE(l.remarks,'')
		FROM equipment_loans_professor l JOIN equipment e ON e.id = l.equipment_id JOIN professors p ON p.id = l.professor_id
		ORDER BY l.id`},
}

var sheetHeaders = map[string][]string{
	"rooms":                     {"id", "code", "name", "campus", "created_at", "updated_at"},
	"equipment":                 {"id", "code", "name", "description", "status", "created_at", "updated_at"},
	"room_units":                {"id", "code", "name", "room_code", "status", "created_at", "updated_at"},
	"students":                  {"id", "code", "full_name", "email", "project", "created_at", "updated_at"},
	"professors":                {"id", "code", "full_name", "email", "created_at", "updated_at"},
	"campuses":                  {"id", "name", "address", "created_at", "updated_at"},
	"projects":                  {"id", "name", "term", "created_at", "updated_at"},
	"room_loans_student":        {"id", "room_code", "student_code", "supervisor_id", "opened_at", "returned_at", "remarks"},
	"room_loans_professor":      {"id", "room_code", "professor_code", "supervisor_id", "opened_at", "returned_at", "remarks"},
	"equipment_loans_student":   {"id", "equipment_code", "student_code", "supervisor_id", "opened_at", "returned_at", "remarks"},
	"equipment_loans_professor": {"id", "equipment_code", "professor_code", "supervisor_id", "opened_at", "returned_at", "remarks"},
}

// Collect reads every table into memory as string sheets.
func Collect(ctx context.Context, db *sql.DB) ([]Sheet, error) {
	sheets := make([]Sheet, 0, len(tableQueries))
	for _, tq := range tableQueries {
		sheet, err := querySheet(ctx, db, tq.name, tq.query)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", tq.name, err)
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

func querySheet(ctx context.Context, db *sql.DB, name, query string) (Sheet, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return Sheet{}, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return Sheet{}, err
	}

	sheet := Sheet{Name: name, Header: sheetHeaders[name]}
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return Sheet{}, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = v.String
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, rows.Err()
}
