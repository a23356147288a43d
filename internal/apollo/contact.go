package apollo

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Contact is one candidate person returned by the search API. Email is
// optional until enriched; enrichment mutates the record in place.
type Contact struct {
	ApolloID  string `json:"apollo_id,omitempty"`
	Name      string `json:"name"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Company   string `json:"company,omitempty"`
	Title     string `json:"title,omitempty"`
	Location  string `json:"location,omitempty"`
	School    string `json:"school,omitempty"`
	Seniority string `json:"seniority,omitempty"`
	Industry  string `json:"industry,omitempty"`
	// Persona is an optional classification bucket assigned by the caller.
	Persona     string   `json:"persona,omitempty"`
	LinkedinURL string   `json:"linkedin_url,omitempty"`
	Skills      []string `json:"skills,omitempty"`
}

type Contacts struct {
	Items []*Contact `json:"items"`
}

func (c *Contacts) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Items)
}

func (c *Contacts) Names() []string {
	names := make([]string, 0, c.Len())
	for _, contact := range c.Items {
		names = append(names, contact.Name)
	}
	return names
}

func (c *Contacts) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "contacts_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// rawPerson is the subset of an Apollo person record the client consumes.
type rawPerson struct {
	ID           string   `mapstructure:"id"`
	Name         string   `mapstructure:"name"`
	FirstName    string   `mapstructure:"first_name"`
	LastName     string   `mapstructure:"last_name"`
	Email        string   `mapstructure:"email"`
	Title        string   `mapstructure:"title"`
	Seniority    string   `mapstructure:"seniority"`
	City         string   `mapstructure:"city"`
	State        string   `mapstructure:"state"`
	Country      string   `mapstructure:"country"`
	LinkedinURL  string   `mapstructure:"linkedin_url"`
	School       string   `mapstructure:"school"`
	Skills       []string `mapstructure:"skills"`
	Organization struct {
		Name     string `mapstructure:"name"`
		Industry string `mapstructure:"industry"`
	} `mapstructure:"organization"`
}

func personToContact(item map[string]any) (*Contact, error) {
	var person rawPerson
	if err := mapstructure.Decode(item, &person); err != nil {
		return nil, err
	}

	locationParts := make([]string, 0, 3)
	for _, part := range []string{person.City, person.State, person.Country} {
		if strings.TrimSpace(part) != "" {
			locationParts = append(locationParts, part)
		}
	}

	return &Contact{
		ApolloID:    person.ID,
		Name:        person.Name,
		FirstName:   person.FirstName,
		LastName:    person.LastName,
		Email:       person.Email,
		Company:     person.Organization.Name,
		Title:       person.Title,
		Location:    strings.Join(locationParts, ", "),
		School:      person.School,
		Seniority:   person.Seniority,
		Industry:    person.Organization.Industry,
		LinkedinURL: person.LinkedinURL,
		Skills:      person.Skills,
	}, nil
}
