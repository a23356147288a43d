package profile

import (
	"fmt"
	"strings"
)

// Education is one education history entry.
type Education struct {
	School string `json:"school"`
	Degree string `json:"degree,omitempty"`
	Field  string `json:"field,omitempty"`
	Years  string `json:"years,omitempty"`
}

// Experience is one work history entry.
type Experience struct {
	Company string `json:"company"`
	Title   string `json:"title,omitempty"`
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
}

// UserProfile is the structured form of a parsed resume. It is built once by
// the parser and treated as read-only for the rest of a workflow run.
type UserProfile struct {
	Name           string       `json:"name"`
	Email          string       `json:"email,omitempty"`
	Location       string       `json:"location,omitempty"`
	CurrentCompany string       `json:"current_company,omitempty"`
	CurrentRole    string       `json:"current_role,omitempty"`
	Education      []Education  `json:"education,omitempty"`
	Experience     []Experience `json:"experience,omitempty"`
	Skills         []string     `json:"skills,omitempty"`
}

// Companies returns the current employer plus past employers, deduplicated,
// in resume order.
func (p *UserProfile) Companies() []string {
	seen := make(map[string]struct{})
	companies := make([]string, 0, len(p.Experience)+1)

	add := func(name string) {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		companies = append(companies, strings.TrimSpace(name))
	}

	add(p.CurrentCompany)
	for _, exp := range p.Experience {
		add(exp.Company)
	}

	return companies
}

// Summary renders the profile as prompt-friendly plain text.
func (p *UserProfile) Summary() string {
	parts := []string{fmt.Sprintf("Name: %s", p.Name)}

	if p.CurrentCompany != "" && p.CurrentRole != "" {
		parts = append(parts, fmt.Sprintf("Current: %s at %s", p.CurrentRole, p.CurrentCompany))
	}

	if p.Location != "" {
		parts = append(parts, fmt.Sprintf("Location: %s", p.Location))
	}

	if len(p.Education) > 0 {
		schools := make([]string, 0, len(p.Education))
		for _, edu := range p.Education {
			if edu.Degree != "" {
				schools = append(schools, fmt.Sprintf("%s (%s)", edu.School, edu.Degree))
				continue
			}
			schools = append(schools, edu.School)
		}
		parts = append(parts, fmt.Sprintf("Education: %s", strings.Join(schools, ", ")))
	}

	if companies := p.Companies(); len(companies) > 0 {
		limit := len(companies)
		if limit > 5 {
			limit = 5
		}
		parts = append(parts, fmt.Sprintf("Companies: %s", strings.Join(companies[:limit], ", ")))
	}

	if len(p.Skills) > 0 {
		limit := len(p.Skills)
		if limit > 10 {
			limit = 10
		}
		parts = append(parts, fmt.Sprintf("Skills: %s", strings.Join(p.Skills[:limit], ", ")))
	}

	return strings.Join(parts, "\n")
}
