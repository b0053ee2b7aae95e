package export

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"testing"
)

func TestWriteArchiveRoundTrip(t *testing.T) {
	sheets := []Sheet{
		{
			Name:   "rooms",
			Header: []string{"id", "code", "name"},
			Rows: [][]string{
				{"1", "LAB-101", "Electronics Lab"},
				{"2", "LAB-102", "Chemistry Lab, annex"},
			},
		},
		{
			Name:   "professors",
			Header: []string{"id", "code", "full_name"},
		},
	}

	var buf bytes.Buffer
	if err := WriteArchive(&buf, sheets); err != nil {
		t.Fatalf("WriteArchive: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("expected 2 files in archive, got %d", len(zr.File))
	}
	if zr.File[0].Name != "rooms.csv" || zr.File[1].Name != "professors.csv" {
		t.Fatalf("unexpected file names: %s, %s", zr.File[0].Name, zr.File[1].Name)
	}

	rc, err := zr.File[0].Open()
	if err != nil {
		t.Fatalf("open rooms.csv: %v", err)
	}
	defer rc.Close()

	records, err := csv.NewReader(rc).ReadAll()
	if err != nil {
		t.Fatalf("read rooms.csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}
	if records[0][1] != "code" {
		t.Fatalf("expected header column 'code', got %q", records[0][1])
	}
	// CSV quoting must survive a comma in a field.
	if records[2][2] != "Chemistry Lab, annex" {
		t.Fatalf("comma field corrupted: %q", records[2][2])
	}
}

func TestWriteArchiveHeaderOnlySheet(t *testing.T) {
	var buf bytes.Buffer
	sheets := []Sheet{{Name: "students", Header: []string{"id", "code"}}}
	if err := WriteArchive(&buf, sheets); err != nil {
		t.Fatalf("WriteArchive: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	rc, err := zr.File[0].Open()
	if err != nil {
		t.Fatalf("open students.csv: %v", err)
	}
	defer rc.Close()
	records, err := csv.NewReader(rc).ReadAll()
	if err != nil {
		t.Fatalf("read students.csv: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected only the header record, got %d", len(records))
	}
}
