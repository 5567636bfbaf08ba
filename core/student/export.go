package student

import (
	"fmt"
	"time"
)

var nowFunc = time.Now // mockable

// ExportView renders the currently filtered records (not the full roster) to
// the canonical CSV format. The filename is derived from the current date;
// re-exporting the same day produces the same name.
func ExportView(filtered []Student, date string) (filename, csvText string) {
	now := nowFunc()
	filename = fmt.Sprintf("%02d_%02d_students_registrations.csv", now.Day(), int(now.Month()))
	return filename, SerializeCSV(filtered, date)
}
