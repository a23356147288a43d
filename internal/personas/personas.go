package personas

import (
	"fmt"
	"strings"

	"coffeechat/internal/apollo"
)

// Persona is a named filter bucket used to scope contact searches.
type Persona string

const (
	Consulting        Persona = "Consulting"
	SocialGood        Persona = "Social Good"
	External          Persona = "External"
	StartupCareerFair Persona = "Startup Career Fair"
)

// Filters is the static search criteria bundle attached to a persona.
type Filters struct {
	Titles      []string
	Industries  []string
	Keywords    string
	Description string
}

// personaFilters is loaded once and never mutated.
var personaFilters = map[Persona]Filters{
	Consulting: {
		Titles: []string{
			"Data Scientist", "Senior Data Scientist", "Lead Data Scientist",
			"Principal Data Scientist", "Staff Data Scientist",
			"Data Science Consultant", "Analytics Consultant", "Machine Learning Consultant",
		},
		Industries: []string{
			"Management Consulting", "Consulting", "Strategy Consulting", "Technology Consulting",
		},
		Keywords:    "consulting data science analytics",
		Description: "Data Scientists working in consulting firms",
	},
	SocialGood: {
		Titles: []string{
			"Data Scientist", "Senior Data Scientist", "Lead Data Scientist",
			"Principal Data Scientist", "Data Analyst", "Research Scientist",
		},
		Industries: []string{
			"Nonprofit", "Education", "Healthcare", "Government", "Environmental", "Social Impact",
		},
		Keywords:    "nonprofit social impact public health education environment",
		Description: "Data Scientists in social good and nonprofit sectors",
	},
	External: {
		Titles: []string{
			"Data Scientist", "Senior Data Scientist", "Lead Data Scientist",
			"Principal Data Scientist", "Staff Data Scientist",
			"Machine Learning Engineer", "Data Engineer", "Applied Scientist",
		},
		Industries: []string{
			"Technology", "Software", "Internet", "E-commerce", "Financial Services", "Fintech",
		},
		Keywords:    "data science machine learning AI",
		Description: "Data Scientists in external tech companies",
	},
	StartupCareerFair: {
		Titles: []string{
			"Founder", "Co-Founder", "Head of Data", "Founding Engineer", "Data Scientist",
		},
		Industries: []string{
			"Technology", "Software", "Venture Capital",
		},
		Keywords:    "startup early stage data",
		Description: "Early-stage startup contacts for career fairs",
	},
}

// Get returns the filters for a persona.
func Get(p Persona) (Filters, bool) {
	filters, ok := personaFilters[p]
	return filters, ok
}

// All lists the known personas in a stable order.
func All() []Persona {
	return []Persona{Consulting, SocialGood, External, StartupCareerFair}
}

// Parse resolves a case-insensitive persona name.
func Parse(name string) (Persona, error) {
	trimmed := strings.TrimSpace(name)
	for _, persona := range All() {
		if strings.EqualFold(string(persona), trimmed) {
			return persona, nil
		}
	}
	return "", fmt.Errorf("unknown persona: %s", name)
}

// Apply fills persona-scoped fields on search params that the caller left
// empty. Explicit caller values win.
func (f Filters) Apply(params *apollo.SearchParams) {
	if params == nil {
		return
	}
	if len(params.Titles) == 0 {
		params.Titles = append([]string(nil), f.Titles...)
	}
	if len(params.Industries) == 0 {
		params.Industries = append([]string(nil), f.Industries...)
	}
	if params.Keywords == "" {
		params.Keywords = f.Keywords
	}
}
