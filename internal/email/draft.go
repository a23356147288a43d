package email

import (
	"encoding/json"
	"os"
	"time"

	"coffeechat/internal/matcher"
)

// Status tracks a draft through its outreach lifecycle.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusQueued  Status = "queued"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
	StatusBounced Status = "bounced"
	StatusOpened  Status = "opened"
	StatusReplied Status = "replied"
)

// Draft is an unsent generated outreach message. Its ConnectionPoints are
// always the points computed for the source contact, never invented.
type Draft struct {
	ID             string `json:"id"`
	ContactName    string `json:"contact_name"`
	ContactEmail   string `json:"contact_email"`
	ContactCompany string `json:"contact_company,omitempty"`
	ContactTitle   string `json:"contact_title,omitempty"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`

	ConnectionPoints []matcher.ConnectionPoint `json:"connection_points,omitempty"`
	Score            float64                   `json:"relevance_score"`

	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	Error     string     `json:"error,omitempty"`
}

type Drafts struct {
	Items []*Draft `json:"items"`
}

func (d *Drafts) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Items)
}

func (d *Drafts) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "drafts_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// LoadDraftsFromFile reads a drafts dump written by DumpToTmpFile.
func LoadDraftsFromFile(path string) (*Drafts, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var drafts Drafts
	if err := json.NewDecoder(file).Decode(&drafts); err != nil {
		return nil, err
	}
	return &drafts, nil
}
