package services

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"playpartner-backend-go/internal/vetting"
)

var partnerExportHeaders = []string{
	"ID", "Full Name", "Nickname", "City", "Status", "Body Build", "Height",
	"Referral Source", "Average Rating", "Effective Status", "Risk Flag", "Conflict Flag",
}

var assessmentExportHeaders = []string{
	"ID", "Partner ID", "Partner Name", "Admin", "Status", "Rating", "Blacklisted", "Notes", "Created At",
}

const exportSheetName = "Partners"

// ExportFilename builds the download name, e.g. partners-2025-03-01.csv.
func ExportFilename(kind, ext string, now time.Time) string {
	return kind + "-" + now.UTC().Format("2006-01-02") + "." + ext
}

// PartnersCSV renders the partner export. Textual fields are always quoted
// and rows are joined by newlines with no trailing newline.
func PartnersCSV(partners []vetting.PartnerWithComputed) []byte {
	var b strings.Builder
	b.WriteString(strings.Join(partnerExportHeaders, ","))
	b.WriteString("\n")
	for i, p := range partners {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.Join([]string{
			strconv.FormatInt(p.ID, 10),
			quoteCSV(p.FullName),
			quoteCSV(deref(p.Nickname)),
			quoteCSV(deref(p.City)),
			quoteCSV(deref(p.Status)),
			quoteCSV(deref(p.BodyBuild)),
			quoteCSV(deref(p.Height)),
			quoteCSV(deref(p.ReferralSource)),
			FormatRating(p.AvgRating),
			quoteCSV(p.EffectiveStatus),
			yesNo(p.RiskFlag),
			yesNo(p.ConflictFlag),
		}, ","))
	}
	return []byte(b.String())
}

// AssessmentsCSV renders the assessment export in the same layout rules as
// PartnersCSV.
func AssessmentsCSV(items []AssessmentWithPartner) []byte {
	var b strings.Builder
	b.WriteString(strings.Join(assessmentExportHeaders, ","))
	b.WriteString("\n")
	for i, a := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		partnerName := ""
		if a.Partner != nil {
			partnerName = a.Partner.FullName
		}
		rating := ""
		if a.Rating != nil {
			rating = strconv.Itoa(*a.Rating)
		}
		createdAt := ""
		if !a.CreatedAt.IsZero() {
			createdAt = FormatTimestamp(a.CreatedAt)
		}
		b.WriteString(strings.Join([]string{
			strconv.FormatInt(a.ID, 10),
			strconv.FormatInt(a.PartnerID, 10),
			quoteCSV(partnerName),
			quoteCSV(a.Admin),
			quoteCSV(deref(a.Status)),
			rating,
			yesNo(a.Blacklisted),
			quoteCSV(deref(a.Notes)),
			createdAt,
		}, ","))
	}
	return []byte(b.String())
}

// PartnersXLSX renders the partner export as a single-sheet workbook with a
// bold, frozen header row.
func PartnersXLSX(partners []vetting.PartnerWithComputed) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	for col, header := range partnerExportHeaders {
		if err := setCell(f, col+1, 1, header); err != nil {
			return nil, err
		}
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(partnerExportHeaders), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheetName, "A1", lastHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, p := range partners {
		row := i + 2
		values := []any{
			p.ID,
			p.FullName,
			deref(p.Nickname),
			deref(p.City),
			deref(p.Status),
			deref(p.BodyBuild),
			deref(p.Height),
			deref(p.ReferralSource),
			nil,
			p.EffectiveStatus,
			yesNo(p.RiskFlag),
			yesNo(p.ConflictFlag),
		}
		if p.AvgRating != nil {
			values[8] = roundHalfUp(*p.AvgRating)
		}
		for col, value := range values {
			if value == nil || value == "" {
				continue
			}
			if err := setCell(f, col+1, row, value); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetPanes(exportSheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(exportSheetName, cell, value); err != nil {
		return fmt.Errorf("set cell %s: %w", cell, err)
	}
	return nil
}

// FormatRating renders an average to one decimal, rounding halves up, or
// blank when there is no rating.
func FormatRating(avg *float64) string {
	if avg == nil {
		return ""
	}
	return strconv.FormatFloat(roundHalfUp(*avg), 'f', 1, 64)
}

// FormatTimestamp renders t as UTC ISO-8601 with milliseconds.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

func quoteCSV(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func yesNo(value bool) string {
	if value {
		return "Yes"
	}
	return "No"
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
