package matcher

import (
	"math"
	"sort"
	"strings"

	"coffeechat/internal/apollo"
	"coffeechat/internal/profile"
)

// Connection point kinds.
const (
	KindSharedSchool   = "shared_school"
	KindSharedCompany  = "shared_company"
	KindSharedLocation = "shared_location"
	KindSharedSkill    = "shared_skill"
)

// Per-axis weights. Skills contribute per match up to maxSkillWeight.
const (
	weightSchool   = 0.3
	weightCompany  = 0.3
	weightLocation = 0.2
	weightSkill    = 0.2

	maxSkillWeight = 0.4
)

// ConnectionPoint is a discovered shared attribute between a profile and a
// contact. It feeds both the relevance score and the email prompt.
type ConnectionPoint struct {
	Kind   string  `json:"kind"`
	Detail string  `json:"detail"`
	Weight float64 `json:"weight"`
}

// Match pairs a contact with its relevance score and connection points.
type Match struct {
	Contact *apollo.Contact   `json:"contact"`
	Score   float64           `json:"score"`
	Points  []ConnectionPoint `json:"points,omitempty"`
}

// Score computes the relevance of a contact for a profile. Purely additive
// and deterministic: each axis yields at most one point (skills: one per
// matching skill within the cap), the total is the capped sum of weights.
func Score(p *profile.UserProfile, c *apollo.Contact) (float64, []ConnectionPoint) {
	var points []ConnectionPoint

	if detail, ok := schoolOverlap(p, c); ok {
		points = append(points, ConnectionPoint{Kind: KindSharedSchool, Detail: detail, Weight: weightSchool})
	}

	if detail, ok := companyOverlap(p, c); ok {
		points = append(points, ConnectionPoint{Kind: KindSharedCompany, Detail: detail, Weight: weightCompany})
	}

	if detail, ok := locationOverlap(p, c); ok {
		points = append(points, ConnectionPoint{Kind: KindSharedLocation, Detail: detail, Weight: weightLocation})
	}

	skillBudget := maxSkillWeight
	for _, skill := range sharedSkills(p, c) {
		if skillBudget < weightSkill {
			break
		}
		points = append(points, ConnectionPoint{Kind: KindSharedSkill, Detail: skill, Weight: weightSkill})
		skillBudget -= weightSkill
	}

	total := 0.0
	for _, point := range points {
		total += point.Weight
	}

	return math.Min(total, 1.0), points
}

// Analyze scores every contact, preserving search-result order.
func Analyze(p *profile.UserProfile, contacts *apollo.Contacts) []*Match {
	if contacts == nil {
		return nil
	}
	matches := make([]*Match, 0, contacts.Len())
	for _, contact := range contacts.Items {
		score, points := Score(p, contact)
		matches = append(matches, &Match{Contact: contact, Score: score, Points: points})
	}
	return matches
}

// Top returns the matches at or above minScore, sorted by descending score.
// Ties keep their original search-result order.
func Top(matches []*Match, minScore float64) []*Match {
	kept := make([]*Match, 0, len(matches))
	for _, match := range matches {
		if match.Score >= minScore {
			kept = append(kept, match)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})
	return kept
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// looseMatch treats two names as the same institution or employer when one
// contains the other ("Stanford" vs "Stanford University").
func looseMatch(a, b string) bool {
	a, b = norm(a), norm(b)
	if a == "" || b == "" {
		return false
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

func schoolOverlap(p *profile.UserProfile, c *apollo.Contact) (string, bool) {
	if c.School == "" {
		return "", false
	}
	for _, edu := range p.Education {
		if looseMatch(edu.School, c.School) {
			return edu.School, true
		}
	}
	return "", false
}

func companyOverlap(p *profile.UserProfile, c *apollo.Contact) (string, bool) {
	if c.Company == "" {
		return "", false
	}
	for _, company := range p.Companies() {
		if looseMatch(company, c.Company) {
			return company, true
		}
	}
	return "", false
}

// locationOverlap compares comma-separated location segments, so
// "San Francisco, CA" matches "San Francisco, CA, US".
func locationOverlap(p *profile.UserProfile, c *apollo.Contact) (string, bool) {
	if p.Location == "" || c.Location == "" {
		return "", false
	}

	contactSegments := make(map[string]struct{})
	for _, segment := range strings.Split(c.Location, ",") {
		if segment = norm(segment); segment != "" {
			contactSegments[segment] = struct{}{}
		}
	}

	for _, segment := range strings.Split(p.Location, ",") {
		trimmed := strings.TrimSpace(segment)
		if trimmed == "" {
			continue
		}
		if _, ok := contactSegments[norm(trimmed)]; ok {
			return trimmed, true
		}
	}
	return "", false
}

// sharedSkills matches profile skills against the contact's skill list and
// title keywords, in profile order.
func sharedSkills(p *profile.UserProfile, c *apollo.Contact) []string {
	contactSkills := make(map[string]struct{}, len(c.Skills))
	for _, skill := range c.Skills {
		contactSkills[norm(skill)] = struct{}{}
	}
	title := norm(c.Title)

	var shared []string
	for _, skill := range p.Skills {
		key := norm(skill)
		if key == "" {
			continue
		}
		if _, ok := contactSkills[key]; ok {
			shared = append(shared, skill)
			continue
		}
		if title != "" && strings.Contains(title, key) {
			shared = append(shared, skill)
		}
	}
	return shared
}
