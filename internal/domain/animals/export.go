package animals

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportSheet     = "Animals"
)

var exportHeaders = []any{
	"Animal ID", "Species", "Breed", "Gender", "Age", "Size",
	"Found Location", "Area", "Health Status", "Vaccination Status",
	"Medical Notes", "Photo URL", "QR Code", "Registered At",
}

// WriteXLSX escribe una planilla con una fila por animal.
func WriteXLSX(w io.Writer, items []Animal) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, a := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			a.PublicID, string(a.Species), a.Breed, string(a.Gender), string(a.Age), string(a.Size),
			a.FoundLocation, a.Area, string(a.HealthStatus), string(a.VaccinationStatus),
			a.MedicalNotes, a.PhotoURL, a.QRCode, a.RegisteredAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f.Write(w)
}
