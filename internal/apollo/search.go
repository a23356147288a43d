package apollo

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const searchPath = "/mixed_people/api_search"

const defaultMaxResults = 25

// SearchParams filters an Apollo people search.
type SearchParams struct {
	Titles      []string `json:"person_titles,omitempty" mapstructure:"titles"`
	Locations   []string `json:"person_locations,omitempty" mapstructure:"locations"`
	Seniorities []string `json:"person_seniorities,omitempty" mapstructure:"seniorities"`
	Industries  []string `json:"organization_industries,omitempty" mapstructure:"industries"`
	Keywords    string   `json:"q_keywords,omitempty" mapstructure:"keywords"`
	MaxResults  int      `json:"-" mapstructure:"max-results"`
}

type peopleResponse struct {
	People []map[string]any `json:"people"`
}

// SearchContacts runs a people search and maps the raw results into Contact
// records, bounded by params.MaxResults.
func (c *Client) SearchContacts(ctx context.Context, params *SearchParams) (*Contacts, error) {
	if params == nil {
		params = &SearchParams{}
	}

	maxResults := params.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	perPage := maxResults
	if perPage > perPageMax {
		perPage = perPageMax
	}

	payload := map[string]any{
		"page":                    1,
		"per_page":                perPage,
		"reveal_personal_emails":  false,
		"person_titles":           params.Titles,
		"person_locations":        params.Locations,
		"person_seniorities":      params.Seniorities,
		"organization_industries": params.Industries,
	}
	if params.Keywords != "" {
		payload["q_keywords"] = params.Keywords
	}

	if err := c.acquire(); err != nil {
		return nil, err
	}

	var response peopleResponse
	if err := c.postJSON(ctx, searchPath, payload, &response); err != nil {
		return nil, fmt.Errorf("people search: %w", err)
	}

	contacts := &Contacts{}
	for _, item := range response.People {
		if len(contacts.Items) >= maxResults {
			break
		}
		contact, err := personToContact(item)
		if err != nil {
			c.logger.Warn("skipping unparsable person record", zap.Error(err))
			continue
		}
		contacts.Items = append(contacts.Items, contact)
	}

	c.logger.Debug("people search completed",
		zap.Int("returned", len(response.People)),
		zap.Int("kept", contacts.Len()),
	)

	return contacts, nil
}
