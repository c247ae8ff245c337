package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/ladder-stats/models"
)

var ErrChallengeNotFound = errors.New("challenge not found")

type ChallengeRepository interface {
	GetByID(ctx context.Context, id int) (*models.Challenge, error)
	// ListByAccount returns challenges of one competition involving the account whose status is
	// strictly below statusBelow, newest first.
	ListByAccount(ctx context.Context, accountID, competitionID int, statusBelow models.ChallengeStatus) ([]*models.Challenge, error)
	// ListFinishedByAccount returns challenges involving the account whose status is past
	// in-progress, across all competitions, oldest first.
	ListFinishedByAccount(ctx context.Context, accountID int) ([]*models.Challenge, error)
}

type postgresChallengeRepository struct {
	db SQLExecutor
}

func NewPostgresChallengeRepository(db SQLExecutor) ChallengeRepository {
	return &postgresChallengeRepository{db: db}
}

const selectChallengeFieldsSQL = `
	SELECT challenge_id, comp_id, challenger_id, challenged_id, chall_date, chall_status
	FROM challenges`

func (r *postgresChallengeRepository) scanChallenge(row rowScanner) (*models.Challenge, error) {
	var c models.Challenge
	if err := row.Scan(&c.ID, &c.CompetitionID, &c.ChallengerID, &c.ChallengedID, &c.ChallengeDate, &c.Status); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresChallengeRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Challenge, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query challenges: %w", err)
	}
	defer rows.Close()

	challenges := make([]*models.Challenge, 0)
	for rows.Next() {
		c, err := r.scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge row: %w", err)
		}
		challenges = append(challenges, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during challenge rows iteration: %w", err)
	}
	return challenges, nil
}

func (r *postgresChallengeRepository) GetByID(ctx context.Context, id int) (*models.Challenge, error) {
	query := selectChallengeFieldsSQL + ` WHERE challenge_id = $1`

	c, err := r.scanChallenge(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to get challenge %d: %w", id, err)
	}
	return c, nil
}

func (r *postgresChallengeRepository) ListByAccount(ctx context.Context, accountID, competitionID int, statusBelow models.ChallengeStatus) ([]*models.Challenge, error) {
	query := selectChallengeFieldsSQL + `
		WHERE comp_id = $1
			AND (challenger_id = $2 OR challenged_id = $2)
			AND chall_status < $3
		ORDER BY chall_date DESC, challenge_id DESC`
	return r.list(ctx, query, competitionID, accountID, statusBelow)
}

func (r *postgresChallengeRepository) ListFinishedByAccount(ctx context.Context, accountID int) ([]*models.Challenge, error) {
	query := selectChallengeFieldsSQL + `
		WHERE (challenger_id = $1 OR challenged_id = $1)
			AND chall_status > $2
		ORDER BY chall_date ASC, challenge_id ASC`
	return r.list(ctx, query, accountID, models.ChallengeStatusInProgress)
}
