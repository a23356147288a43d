package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"coffeechat/internal/email"
	"coffeechat/internal/matcher"
)

// rowsPerFile bounds a single CSV so outreach batches stay reviewable.
const rowsPerFile = 100

var contactHeader = []string{
	"name", "email", "company", "title", "location", "score", "connection_points",
}

var draftHeader = []string{
	"contact_name", "contact_email", "company", "subject", "body", "score", "status",
}

// Contacts writes scored matches to one or more CSV files under dir, splitting
// every rowsPerFile rows. It returns the paths written.
func Contacts(dir, prefix string, matches []*matcher.Match) ([]string, error) {
	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, []string{
			m.Contact.Name,
			m.Contact.Email,
			m.Contact.Company,
			m.Contact.Title,
			m.Contact.Location,
			strconv.FormatFloat(m.Score, 'f', 2, 64),
			joinPoints(m.Points),
		})
	}
	return writeChunks(dir, prefix, contactHeader, rows)
}

// Drafts writes generated drafts to one or more CSV files under dir.
func Drafts(dir, prefix string, drafts *email.Drafts) ([]string, error) {
	if drafts == nil {
		return nil, nil
	}
	rows := make([][]string, 0, drafts.Len())
	for _, d := range drafts.Items {
		rows = append(rows, []string{
			d.ContactName,
			d.ContactEmail,
			d.ContactCompany,
			d.Subject,
			d.Body,
			strconv.FormatFloat(d.Score, 'f', 2, 64),
			string(d.Status),
		})
	}
	return writeChunks(dir, prefix, draftHeader, rows)
}

func joinPoints(points []matcher.ConnectionPoint) string {
	parts := make([]string, 0, len(points))
	for _, p := range points {
		parts = append(parts, fmt.Sprintf("%s: %s", p.Kind, p.Detail))
	}
	return strings.Join(parts, "; ")
}

func writeChunks(dir, prefix string, header []string, rows [][]string) ([]string, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	var paths []string
	for start := 0; start < len(rows); start += rowsPerFile {
		end := start + rowsPerFile
		if end > len(rows) {
			end = len(rows)
		}
		path := filepath.Join(dir, fmt.Sprintf("%s-%d.csv", prefix, len(paths)+1))
		if err := writeFile(path, header, rows[start:end]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}
