package matcher

import (
	"math"
	"testing"

	"coffeechat/internal/apollo"
	"coffeechat/internal/profile"
)

func stanfordProfile() *profile.UserProfile {
	return &profile.UserProfile{
		Name:           "John Doe",
		Location:       "San Francisco, CA",
		CurrentCompany: "Google",
		CurrentRole:    "Software Engineer",
		Education:      []profile.Education{{School: "Stanford University", Degree: "BS"}},
		Experience:     []profile.Experience{{Company: "Stripe", Title: "Intern"}},
		Skills:         []string{"Machine Learning", "Go", "SQL"},
	}
}

func TestSharedSchoolScoresAtLeastSchoolWeight(t *testing.T) {
	contact := &apollo.Contact{Name: "Jane Smith", School: "Stanford"}

	score, points := Score(stanfordProfile(), contact)
	if score < 0.3 {
		t.Fatalf("expected score >= 0.3, got %v", score)
	}

	found := false
	for _, point := range points {
		if point.Kind == KindSharedSchool {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a shared_school connection point")
	}
}

func TestScoreZeroIffNoPoints(t *testing.T) {
	contact := &apollo.Contact{Name: "Nobody", Company: "Umbrella", Location: "Antarctica"}

	score, points := Score(stanfordProfile(), contact)
	if score != 0 {
		t.Fatalf("expected zero score, got %v", score)
	}
	if len(points) != 0 {
		t.Fatalf("expected no points, got %+v", points)
	}
}

func TestScoreNeverExceedsOne(t *testing.T) {
	contact := &apollo.Contact{
		Name:     "Everything Matches",
		School:   "Stanford University",
		Company:  "Google",
		Location: "San Francisco, CA, US",
		Title:    "Machine Learning Engineer",
		Skills:   []string{"Go", "SQL", "Machine Learning"},
	}

	score, points := Score(stanfordProfile(), contact)
	if score > 1.0 {
		t.Fatalf("score must be capped at 1.0, got %v", score)
	}
	if len(points) == 0 {
		t.Fatal("expected connection points")
	}
}

func TestScoreIsAdditiveAndOrderIndependent(t *testing.T) {
	contact := &apollo.Contact{
		Name:     "Jane Smith",
		School:   "Stanford University",
		Company:  "Stripe",
		Location: "San Francisco, CA",
	}

	score, points := Score(stanfordProfile(), contact)

	sum := 0.0
	for _, point := range points {
		sum += point.Weight
	}
	if math.Abs(score-math.Min(sum, 1.0)) > 1e-9 {
		t.Fatalf("score %v is not the capped sum of weights %v", score, sum)
	}

	// Deterministic: repeated scoring of the same inputs is identical.
	for i := 0; i < 5; i++ {
		again, againPoints := Score(stanfordProfile(), contact)
		if again != score || len(againPoints) != len(points) {
			t.Fatalf("scoring is not deterministic: %v vs %v", again, score)
		}
	}
}

func TestSkillContributionIsCapped(t *testing.T) {
	p := &profile.UserProfile{
		Name:   "John Doe",
		Skills: []string{"Go", "SQL", "Python", "Spark"},
	}
	contact := &apollo.Contact{
		Name:   "Jane Smith",
		Skills: []string{"Go", "SQL", "Python", "Spark"},
	}

	score, points := Score(p, contact)
	if math.Abs(score-0.4) > 1e-9 {
		t.Fatalf("skill contribution should cap at 0.4, got %v", score)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 skill points within the cap, got %d", len(points))
	}
}

func TestTopFiltersAndSortsDescending(t *testing.T) {
	scores := []float64{0.9, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1, 0.0, 0.55}
	matches := make([]*Match, 0, len(scores))
	for i, s := range scores {
		matches = append(matches, &Match{
			Contact: &apollo.Contact{Name: string(rune('A' + i))},
			Score:   s,
		})
	}

	top := Top(matches, 0.5)
	if len(top) != 5 {
		t.Fatalf("expected exactly 5 survivors, got %d", len(top))
	}

	want := []float64{0.9, 0.7, 0.6, 0.55, 0.5}
	for i, match := range top {
		if match.Score != want[i] {
			t.Fatalf("position %d: expected score %v, got %v", i, want[i], match.Score)
		}
	}
}

func TestTopIsStableOnTies(t *testing.T) {
	matches := []*Match{
		{Contact: &apollo.Contact{Name: "first"}, Score: 0.5},
		{Contact: &apollo.Contact{Name: "second"}, Score: 0.5},
		{Contact: &apollo.Contact{Name: "third"}, Score: 0.5},
	}

	top := Top(matches, 0.5)
	if top[0].Contact.Name != "first" || top[1].Contact.Name != "second" || top[2].Contact.Name != "third" {
		t.Fatalf("tie order should follow search-result order: %v", []string{
			top[0].Contact.Name, top[1].Contact.Name, top[2].Contact.Name,
		})
	}
}

func TestTopIsIdempotent(t *testing.T) {
	contacts := &apollo.Contacts{Items: []*apollo.Contact{
		{Name: "Alum", School: "Stanford University"},
		{Name: "Stranger"},
		{Name: "Colleague", Company: "Google"},
	}}
	p := stanfordProfile()

	first := Top(Analyze(p, contacts), 0.2)
	second := Top(Analyze(p, contacts), 0.2)

	if len(first) != len(second) {
		t.Fatalf("filtering is not deterministic: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Contact.Name != second[i].Contact.Name || first[i].Score != second[i].Score {
			t.Fatalf("position %d differs between runs", i)
		}
	}
}

func TestLocationSegmentsMatch(t *testing.T) {
	p := &profile.UserProfile{Name: "John", Location: "San Francisco, CA"}
	contact := &apollo.Contact{Name: "Jane", Location: "San Francisco, CA, US"}

	score, points := Score(p, contact)
	if score != 0.2 {
		t.Fatalf("expected location-only score 0.2, got %v", score)
	}
	if len(points) != 1 || points[0].Kind != KindSharedLocation {
		t.Fatalf("expected one shared_location point, got %+v", points)
	}
}
