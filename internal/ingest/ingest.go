// Package ingest loads company profiles from JSON and XLSX files into the
// canonical model. Spreadsheets map columns by header name, so column order
// does not matter.
package ingest

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/samtetlow/nof1-sub000/internal/model"
)

// ReadCompaniesJSON loads a JSON array of companies. Missing IDs are
// assigned fresh UUIDs.
func ReadCompaniesJSON(path string) ([]model.Company, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read json")
	}
	var companies []model.Company
	if err := json.Unmarshal(data, &companies); err != nil {
		return nil, eris.Wrap(err, "ingest: unmarshal companies")
	}
	for i := range companies {
		if companies[i].ID == "" {
			companies[i].ID = uuid.NewString()
		}
	}
	return companies, nil
}

// Recognized spreadsheet headers, lowercased with spaces collapsed to
// underscores. List-valued columns split entries on ";".
const (
	colID         = "id"
	colName       = "name"
	colNAICS      = "naics"
	colStatus     = "status"
	colCaps       = "capabilities"
	colKeywords   = "keywords"
	colClearances = "clearances"
	colLocations  = "locations"
	colEmployees  = "employees"
	colRevenue    = "annual_revenue"
	colDesc       = "description"
	colCapStmt    = "capability_statement"
	colWebsite    = "website"
)

// ReadCompaniesXLSX loads companies from the first sheet of an XLSX file.
// The first row must be a header row; rows without a name are skipped.
func ReadCompaniesXLSX(path string) ([]model.Company, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("ingest: xlsx has no sheets")
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) < 1 {
		return nil, eris.New("ingest: xlsx has no header row")
	}

	header := make(map[int]string)
	for j, cell := range sheet.Rows[0].Cells {
		header[j] = normalizeHeader(cell.String())
	}

	var companies []model.Company
	for _, row := range sheet.Rows[1:] {
		c := companyFromRow(row, header)
		if c.Name == "" {
			continue
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		companies = append(companies, c)
	}
	return companies, nil
}

func normalizeHeader(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

func companyFromRow(row *xlsx.Row, header map[int]string) model.Company {
	var c model.Company
	for j, cell := range row.Cells {
		val := strings.TrimSpace(cell.String())
		if val == "" {
			continue
		}
		switch header[j] {
		case colID:
			c.ID = val
		case colName:
			c.Name = val
		case colNAICS:
			c.NAICSCodes = splitList(val)
		case colStatus:
			c.Status = splitList(val)
		case colCaps:
			c.Capabilities = splitList(val)
		case colKeywords:
			c.Keywords = splitList(val)
		case colClearances:
			c.Clearances = splitList(val)
		case colLocations:
			c.Locations = splitList(val)
		case colEmployees:
			if n, err := strconv.Atoi(val); err == nil {
				c.Employees = n
			}
		case colRevenue:
			if v, err := strconv.ParseFloat(val, 64); err == nil {
				c.AnnualRevenue = v
			}
		case colDesc:
			c.Description = val
		case colCapStmt:
			c.CapabilityStatement = val
		case colWebsite:
			c.Website = val
		}
	}
	return c
}

func splitList(s string) []string {
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
