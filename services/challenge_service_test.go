package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/ladder-stats/models"
)

func challengeLadder() *fakeLadder {
	l := newFakeLadder()
	l.accounts = []models.GlobalAccount{
		{ID: 42, DisplayName: "Rommel", Country: "de"},
		{ID: 7, DisplayName: "Monty", Country: "gb"},
		{ID: 9, DisplayName: "Patton", Country: "us"},
	}
	l.competitions = []models.Competition{
		{ID: 6, Name: "Special Rules", Slug: "special-rules"},
		{ID: 2, Name: "Classic", Slug: "classic"},
	}
	l.challenges = []models.Challenge{
		{ID: 1, CompetitionID: 2, ChallengerID: 42, ChallengedID: 7, ChallengeDate: day(1), Status: models.ChallengeStatusOpen},
		{ID: 2, CompetitionID: 2, ChallengerID: 9, ChallengedID: 42, ChallengeDate: day(4), Status: models.ChallengeStatusCompleted},
		{ID: 3, CompetitionID: 2, ChallengerID: 42, ChallengedID: 9, ChallengeDate: day(6), Status: models.ChallengeStatusCancelled},
		{ID: 4, CompetitionID: 6, ChallengerID: 42, ChallengedID: 7, ChallengeDate: day(2), Status: models.ChallengeStatusInProgress},
		{ID: 5, CompetitionID: 6, ChallengerID: 7, ChallengedID: 42, ChallengeDate: day(8), Status: models.ChallengeStatusCompleted},
		{ID: 6, CompetitionID: 6, ChallengerID: 7, ChallengedID: 9, ChallengeDate: day(9), Status: models.ChallengeStatusOpen},
	}
	l.matches = []models.Match{
		{ID: 50, CompetitionID: 2, MatchDate: day(5), WinnerID: 42, LoserID: 9, Side: models.SideAllies},
	}
	return l
}

func challengeIDs(records []models.ChallengeRecord) []int {
	ids := make([]int, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestChallengesAllCompetitionsConcatenatedInCatalogOrder(t *testing.T) {
	s := newTestServices(challengeLadder())

	records, err := s.challenges.Challenges(context.Background(), 42, nil, false)
	if err != nil {
		t.Fatalf("Challenges: %v", err)
	}
	// Competition 2 comes first, then 6; each part newest first; cancelled dropped.
	if got, want := challengeIDs(records), []int{2, 1, 5, 4}; !equalInts(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

func TestChallengesCurrentOnly(t *testing.T) {
	s := newTestServices(challengeLadder())

	records, err := s.challenges.Challenges(context.Background(), 42, nil, true)
	if err != nil {
		t.Fatalf("Challenges: %v", err)
	}
	if got, want := challengeIDs(records), []int{1, 4}; !equalInts(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
	for _, r := range records {
		if r.Outcome != nil {
			t.Errorf("challenge %d has an outcome while not completed", r.ID)
		}
	}
}

func TestChallengesSingleCompetition(t *testing.T) {
	s := newTestServices(challengeLadder())
	compID := 6

	records, err := s.challenges.Challenges(context.Background(), 42, &compID, false)
	if err != nil {
		t.Fatalf("Challenges: %v", err)
	}
	if got, want := challengeIDs(records), []int{5, 4}; !equalInts(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
	if s.ladder.callCount("competitions.ListActive") != 0 {
		t.Error("single competition scope should not read the catalog")
	}
}

func TestChallengesOutcomeOnlyOnCompleted(t *testing.T) {
	s := newTestServices(challengeLadder())

	records, err := s.challenges.Challenges(context.Background(), 42, nil, false)
	if err != nil {
		t.Fatalf("Challenges: %v", err)
	}
	for _, r := range records {
		completed := r.Status == models.ChallengeStatusCompleted
		if completed != (r.Outcome != nil) {
			t.Errorf("challenge %d: status %d, outcome %v", r.ID, r.Status, r.Outcome)
		}
	}

	resolved := records[0]
	if resolved.ID != 2 || resolved.Outcome.MatchID == nil || *resolved.Outcome.MatchID != 50 {
		t.Fatalf("challenge 2 outcome = %+v", resolved.Outcome)
	}
	if resolved.Outcome.Allies != models.ResultWon || resolved.Outcome.Axis != models.ResultLost || !resolved.Outcome.PlayerWon {
		t.Errorf("challenge 2 outcome = %+v", resolved.Outcome)
	}
	if resolved.ChallengerName != "Patton" || resolved.ChallengedCountry != "de" {
		t.Errorf("identities = %+v", resolved)
	}

	unreported := records[2]
	if unreported.ID != 5 || unreported.Outcome.Axis != models.ResultUnreported {
		t.Errorf("challenge 5 outcome = %+v", unreported.Outcome)
	}
}

func TestChallengesValidation(t *testing.T) {
	s := newTestServices(challengeLadder())
	bad := 0

	if _, err := s.challenges.Challenges(context.Background(), 0, nil, false); !errors.Is(err, ErrInvalidPlayerID) {
		t.Errorf("err = %v, want ErrInvalidPlayerID", err)
	}
	if _, err := s.challenges.Challenges(context.Background(), 42, &bad, false); !errors.Is(err, ErrInvalidCompetitionID) {
		t.Errorf("err = %v, want ErrInvalidCompetitionID", err)
	}
}

func TestChallengesEmptyForStranger(t *testing.T) {
	s := newTestServices(challengeLadder())

	records, err := s.challenges.Challenges(context.Background(), 1000, nil, false)
	if err != nil {
		t.Fatalf("Challenges: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("records = %#v, want empty non-nil slice", records)
	}
}
