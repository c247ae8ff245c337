package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/ladder-stats/models"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	// ListByAccount returns matches of the competition the account won or lost, newest first.
	// With a side, only matches the account played on that side are kept, won or lost.
	ListByAccount(ctx context.Context, accountID, competitionID int, side *models.Side) ([]*models.Match, error)
	// FindBetween returns the earliest match between the two accounts in the competition dated at or after since.
	FindBetween(ctx context.Context, competitionID, accountA, accountB int, since time.Time) (*models.Match, error)
}

type postgresMatchRepository struct {
	db SQLExecutor
}

func NewPostgresMatchRepository(db SQLExecutor) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const selectMatchFieldsSQL = `SELECT match_id, comp_id, match_date, winner_id, loser_id, side FROM matches`

func (r *postgresMatchRepository) scanMatch(row rowScanner) (*models.Match, error) {
	var m models.Match
	if err := row.Scan(&m.ID, &m.CompetitionID, &m.MatchDate, &m.WinnerID, &m.LoserID, &m.Side); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) ListByAccount(ctx context.Context, accountID, competitionID int, side *models.Side) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(selectMatchFieldsSQL)
	queryBuilder.WriteString(" WHERE comp_id = $1 AND (winner_id = $2 OR loser_id = $2)")

	args := []interface{}{competitionID, accountID}
	if side != nil {
		queryBuilder.WriteString(" AND ((side = $3 AND winner_id = $2) OR (side = $4 AND loser_id = $2))")
		args = append(args, *side, side.Opposite())
	}
	queryBuilder.WriteString(" ORDER BY match_date DESC, match_id DESC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for account %d in competition %d: %w", accountID, competitionID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, err := r.scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) FindBetween(ctx context.Context, competitionID, accountA, accountB int, since time.Time) (*models.Match, error) {
	query := selectMatchFieldsSQL + `
		WHERE comp_id = $1
			AND ((winner_id = $2 AND loser_id = $3) OR (winner_id = $3 AND loser_id = $2))
			AND match_date >= $4
		ORDER BY match_date ASC, match_id ASC
		LIMIT 1`

	m, err := r.scanMatch(r.db.QueryRowContext(ctx, query, competitionID, accountA, accountB, since))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to find match between %d and %d: %w", accountA, accountB, err)
	}
	return m, nil
}
