package dataprocessing

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Galuis-18/cobra-gestiones/pkg/contracts/domain"
)

// testAgentMarker flags rows logged by test accounts.
const testAgentMarker = "prueba"

// Sheet is the normalized content of an uploaded workbook.
type Sheet struct {
	Name          string
	HeaderShifted bool
	Records       []domain.Record
	TestRows      int // rows dropped because the agent id contains "prueba"
	BlankAgents   int // rows dropped because the agent id is empty
}

// Normalize reads the first sheet of an .xlsx payload and returns one record
// per logged action.
func Normalize(payload []byte) (*Sheet, error) {
	if len(payload) == 0 {
		return nil, NewIngestError(fmt.Errorf("empty payload"))
	}

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, NewIngestError(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewIngestError(fmt.Errorf("workbook has no sheets"))
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, NewIngestError(err)
	}

	return normalizeRows(sheets[0], rows)
}

func normalizeRows(name string, rows [][]string) (*Sheet, error) {
	sheet := &Sheet{Name: name}

	headerIdx := 0
	if len(rows) > 0 && len(rows[0]) > 0 && rows[0][0] == domain.HeaderSentinel {
		headerIdx = 1
		sheet.HeaderShifted = true
	}

	var header []string
	if headerIdx < len(rows) {
		header = rows[headerIdx]
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		if _, seen := columns[h]; !seen {
			columns[h] = i
		}
	}

	var missing []string
	for _, c := range domain.RequiredColumns {
		if _, ok := columns[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, NewMissingColumnsError(missing)
	}

	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}
		rowNum := i + 1

		agent := strings.TrimSpace(cell(row, columns[domain.ColumnAgent]))
		if agent == "" {
			sheet.BlankAgents++
			continue
		}
		if strings.Contains(strings.ToLower(agent), testAgentMarker) {
			sheet.TestRows++
			continue
		}

		amount, hasAmount, err := parseAmount(cell(row, columns[domain.ColumnAmount]))
		if err != nil {
			return nil, NewValidationError(rowNum, fmt.Sprintf("amount in row %d is not numeric: %v", rowNum, err))
		}

		token := cell(row, columns[domain.ColumnTimestamp])
		day, clock := splitToken(token)

		sheet.Records = append(sheet.Records, domain.Record{
			Agent:     agent,
			Contract:  strings.TrimSpace(cell(row, columns[domain.ColumnContract])),
			Token:     token,
			Day:       day,
			Time:      clock,
			Amount:    amount,
			HasAmount: hasAmount,
			Row:       rowNum,
		})
	}

	return sheet, nil
}

// splitToken slices a token like "2025-1001_07:44:51_O005587" by position:
// runes 0-6 and 7-8 joined with "-" give the day, runes 10-17 the time.
// Short tokens yield truncated parts, which fail later when parsed.
func splitToken(token string) (day, clock string) {
	r := []rune(token)
	return runeSlice(r, 0, 7) + "-" + runeSlice(r, 7, 9), runeSlice(r, 10, 18)
}

func runeSlice(r []rune, from, to int) string {
	if from >= len(r) {
		return ""
	}
	if to > len(r) {
		to = len(r)
	}
	return string(r[from:to])
}

// parseAmount accepts plain numbers and display strings such as "$1,250.50".
// Empty cells are reported with ok=false.
func parseAmount(s string) (value float64, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	cleaned := strings.NewReplacer(",", "", "$", "", " ", "").Replace(s)
	value, err = strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%q", s)
	}
	return value, true, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
