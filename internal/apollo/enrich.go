package apollo

import (
	"context"
	"fmt"
	"strings"
)

const enrichPath = "/people/match"

type enrichResponse struct {
	Person map[string]any `json:"person"`
}

// EnrichEmail reveals a contact's email address through the enrichment
// endpoint and fills it in on the contact. The call consumes API credits and
// goes through the same rate limiter as search.
func (c *Client) EnrichEmail(ctx context.Context, contact *Contact) error {
	if contact == nil {
		return fmt.Errorf("contact is required")
	}

	firstName := contact.FirstName
	lastName := contact.LastName
	if firstName == "" {
		parts := strings.SplitN(strings.TrimSpace(contact.Name), " ", 2)
		firstName = parts[0]
		if len(parts) > 1 {
			lastName = parts[1]
		}
	}

	payload := map[string]any{
		"first_name": firstName,
	}
	if lastName != "" {
		payload["last_name"] = lastName
	}
	if contact.Company != "" {
		payload["organization_name"] = contact.Company
	}

	if err := c.acquire(); err != nil {
		return err
	}

	var response enrichResponse
	if err := c.postJSON(ctx, enrichPath, payload, &response); err != nil {
		return fmt.Errorf("enrich %s: %w", contact.Name, err)
	}

	person, err := personToContact(response.Person)
	if err != nil {
		return fmt.Errorf("enrich %s: %w", contact.Name, err)
	}

	if person.Email == "" {
		return fmt.Errorf("enrich %s: no email revealed", contact.Name)
	}

	contact.Email = person.Email
	if contact.Title == "" {
		contact.Title = person.Title
	}

	return nil
}
