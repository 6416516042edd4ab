package animals

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	registered := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	items := []Animal{
		{ID: 1, PublicID: "SP-2025-000001", Species: SpeciesDog, Area: "Koramangala", RegisteredAt: registered},
		{ID: 2, PublicID: "SP-2025-000002", Species: SpeciesCat, VaccinationStatus: VaccinationComplete, RegisteredAt: registered},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, items))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Animal ID", rows[0][0])
	assert.Equal(t, "SP-2025-000001", rows[1][0])
	assert.Equal(t, "dog", rows[1][1])
	assert.Equal(t, "Koramangala", rows[1][7])
	assert.Equal(t, "complete", rows[2][9])
	assert.Equal(t, "2025-06-01T12:00:00Z", rows[2][13])
}
