package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/ladder-stats/models"
)

func matchLadder() *fakeLadder {
	l := newFakeLadder()
	l.accounts = []models.GlobalAccount{
		{ID: 42, DisplayName: "Rommel", Country: "de"},
		{ID: 7, DisplayName: "Monty", Country: "gb"},
		{ID: 9, DisplayName: "Patton", Country: "us"},
	}
	l.matches = []models.Match{
		// 42 won as Axis.
		{ID: 1, CompetitionID: 6, MatchDate: day(1), WinnerID: 42, LoserID: 7, Side: models.SideAxis},
		// 42 lost while Allies won, so 42 played Axis.
		{ID: 2, CompetitionID: 6, MatchDate: day(5), WinnerID: 9, LoserID: 42, Side: models.SideAllies},
		// 42 won as Allies.
		{ID: 3, CompetitionID: 6, MatchDate: day(3), WinnerID: 42, LoserID: 9, Side: models.SideAllies},
		// 42 lost while Axis won, so 42 played Allies.
		{ID: 4, CompetitionID: 6, MatchDate: day(8), WinnerID: 7, LoserID: 42, Side: models.SideAxis},
		{ID: 5, CompetitionID: 2, MatchDate: day(9), WinnerID: 42, LoserID: 7, Side: models.SideAxis},
		{ID: 6, CompetitionID: 6, MatchDate: day(9), WinnerID: 7, LoserID: 9, Side: models.SideAxis},
	}
	l.challenges = []models.Challenge{
		{ID: 10, CompetitionID: 6, ChallengerID: 42, ChallengedID: 7, ChallengeDate: day(7), Status: models.ChallengeStatusCompleted},
		{ID: 11, CompetitionID: 6, ChallengerID: 42, ChallengedID: 9, ChallengeDate: day(20), Status: models.ChallengeStatusCompleted},
		{ID: 12, CompetitionID: 6, ChallengerID: 42, ChallengedID: 9, ChallengeDate: day(20), Status: models.ChallengeStatusInProgress},
	}
	return l
}

func matchIDs(records []models.MatchRecord) []int {
	ids := make([]int, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestHistorySideFilter(t *testing.T) {
	s := newTestServices(matchLadder())
	tests := []struct {
		filter models.SideFilter
		want   []int
	}{
		{models.SideFilterBoth, []int{4, 2, 3, 1}},
		{"", []int{4, 2, 3, 1}},
		{models.SideFilterAxis, []int{2, 1}},
		{models.SideFilterAllies, []int{4, 3}},
	}
	for _, tt := range tests {
		records, err := s.matches.History(context.Background(), 42, 6, tt.filter)
		if err != nil {
			t.Fatalf("History(%q): %v", tt.filter, err)
		}
		if got := matchIDs(records); !equalInts(got, tt.want) {
			t.Errorf("History(%q) = %v, want %v", tt.filter, got, tt.want)
		}
	}
}

func TestHistoryAnnotatesRecords(t *testing.T) {
	s := newTestServices(matchLadder())

	records, err := s.matches.History(context.Background(), 42, 6, models.SideFilterBoth)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	latest := records[0]
	if latest.WinnerName != "Monty" || latest.WinnerCountry != "gb" || latest.LoserName != "Rommel" || latest.LoserCountry != "de" {
		t.Errorf("identities = %+v", latest)
	}
	if latest.SideName != "Axis" {
		t.Errorf("side name = %q, want Axis", latest.SideName)
	}
	if records[1].SideName != "Allies" {
		t.Errorf("side name = %q, want Allies", records[1].SideName)
	}
}

func TestHistoryValidation(t *testing.T) {
	s := newTestServices(matchLadder())
	ctx := context.Background()

	if _, err := s.matches.History(ctx, 42, 6, "sideways"); !errors.Is(err, ErrInvalidSideFilter) {
		t.Errorf("err = %v, want ErrInvalidSideFilter", err)
	}
	if _, err := s.matches.History(ctx, -1, 6, models.SideFilterBoth); !errors.Is(err, ErrInvalidPlayerID) {
		t.Errorf("err = %v, want ErrInvalidPlayerID", err)
	}
	if _, err := s.matches.History(ctx, 42, 0, models.SideFilterBoth); !errors.Is(err, ErrInvalidCompetitionID) {
		t.Errorf("err = %v, want ErrInvalidCompetitionID", err)
	}
}

func TestOutcomeFromBothPerspectives(t *testing.T) {
	s := newTestServices(matchLadder())
	ctx := context.Background()

	// Challenge 10 resolves to match 4: Monty won as Axis on day 8.
	loser, err := s.matches.Outcome(ctx, 42, 10)
	if err != nil {
		t.Fatalf("Outcome: %v", err)
	}
	if loser.Axis != models.ResultWon || loser.Allies != models.ResultLost {
		t.Errorf("labels = %q/%q, want Won/Lost", loser.Axis, loser.Allies)
	}
	if loser.MatchID == nil || *loser.MatchID != 4 {
		t.Errorf("match id = %v, want 4", loser.MatchID)
	}
	if loser.PlayerWon || loser.PlayerSide == nil || *loser.PlayerSide != models.SideAllies {
		t.Errorf("player view = won %v side %v", loser.PlayerWon, loser.PlayerSide)
	}

	winner, err := s.matches.Outcome(ctx, 7, 10)
	if err != nil {
		t.Fatalf("Outcome: %v", err)
	}
	if !winner.PlayerWon || *winner.PlayerSide != models.SideAxis {
		t.Errorf("winner view = won %v side %v", winner.PlayerWon, *winner.PlayerSide)
	}
	if winner.Axis != loser.Axis || winner.Allies != loser.Allies {
		t.Error("side labels must not depend on the viewing player")
	}
}

func TestOutcomeUnreported(t *testing.T) {
	s := newTestServices(matchLadder())

	outcome, err := s.matches.Outcome(context.Background(), 42, 11)
	if err != nil {
		t.Fatalf("Outcome: %v", err)
	}
	if outcome.Axis != models.ResultUnreported || outcome.Allies != models.ResultUnreported || outcome.MatchID != nil {
		t.Errorf("outcome = %+v, want unreported", outcome)
	}
}

func TestOutcomeErrors(t *testing.T) {
	s := newTestServices(matchLadder())
	ctx := context.Background()

	if _, err := s.matches.Outcome(ctx, 42, 12); !errors.Is(err, ErrChallengeNotResolved) {
		t.Errorf("err = %v, want ErrChallengeNotResolved", err)
	}
	if _, err := s.matches.Outcome(ctx, 42, 999); !errors.Is(err, ErrChallengeNotFound) {
		t.Errorf("err = %v, want ErrChallengeNotFound", err)
	}
	// 11 is a completed challenge between 42 and 9.
	if out, err := s.matches.Outcome(ctx, 7, 11); !errors.Is(err, ErrChallengeNotFound) {
		t.Errorf("outcome for a non-party = %+v, %v, want ErrChallengeNotFound", out, err)
	}
}
