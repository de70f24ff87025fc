package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Galuis-18/cobra-gestiones/pkg/contracts/domain"
)

// GestionesHeader is the header row of a well-formed export.
func GestionesHeader() []interface{} {
	return []interface{}{domain.ColumnTimestamp, domain.ColumnAgent, domain.ColumnContract, domain.ColumnAmount}
}

// GestionesRows returns a small export: agent 1001 works two days, agent
// 1002 one day with an outlier gap, agent 1003 has a single action and no
// gaps.
func GestionesRows() [][]interface{} {
	return [][]interface{}{
		GestionesHeader(),
		{"2025-1001_07:44:51_O005587", "1001", "C-1", 100},
		{"2025-1001_07:49:51_O005588", "1001", "C-2", 50},
		{"2025-1002_09:00:00_O005589", "1001", "C-3", 25},
		{"2025-1002_09:03:00_O005590", "1001", "C-4", 25},
		{"2025-1001_08:00:00_O005591", "1002", "C-5", 75.5},
		{"2025-1001_08:10:00_O005592", "1002", "C-6", 20},
		{"2025-1001_10:30:00_O005593", "1002", "C-7", 0},
		{"2025-1001_11:00:00_O005594", "1003", "C-8", 10},
	}
}

// BuildWorkbook writes rows starting at A1 of the first sheet and returns
// the .xlsx bytes.
func BuildWorkbook(t *testing.T, rows ...[]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// WriteWorkbook saves rows as dir/name and returns the path.
func WriteWorkbook(t *testing.T, dir, name string, rows ...[]interface{}) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, BuildWorkbook(t, rows...), 0644))
	return path
}
