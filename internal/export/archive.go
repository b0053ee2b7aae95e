package export

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
)

// WriteArchive writes the sheets to w as a zip of CSV files, one file
// per sheet, in sheet order.
func WriteArchive(w io.Writer, sheets []Sheet) error {
	zw := zip.NewWriter(w)
	for _, sheet := range sheets {
		f, err := zw.Create(sheet.Name + ".csv")
		if err != nil {
			return fmt.Errorf("create %s.csv: %w", sheet.Name, err)
		}
		cw := csv.NewWriter(f)
		if len(sheet.Header) > 0 {
			if err := cw.Write(sheet.Header); err != nil {
				return fmt.Errorf("write %s header: %w", sheet.Name, err)
			}
		}
		for _, row := range sheet.Rows {
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write %s row: %w", sheet.Name, err)
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return fmt.Errorf("flush %s: %w", sheet.Name, err)
		}
	}
	return zw.Close()
}
