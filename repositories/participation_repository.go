package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/ladder-stats/models"
)

var ErrParticipationNotFound = errors.New("participation not found")

type ParticipationRepository interface {
	// ListByAccount returns the account's participations with the given local status,
	// optionally limited to one competition, ordered by competition id.
	ListByAccount(ctx context.Context, accountID int, competitionID *int, status models.LocalStatus) ([]*models.Participation, error)
	// ListByCompetition returns participations of the competition with the given local status whose
	// account global status is <= maxStatus, ordered by display name.
	ListByCompetition(ctx context.Context, competitionID int, status models.LocalStatus, maxStatus models.GlobalStatus) ([]*models.ActivePlayer, error)
	// TopRated returns the account id of the first participant under descending rating order.
	TopRated(ctx context.Context, competitionID int) (int, error)
}

type postgresParticipationRepository struct {
	db SQLExecutor
}

func NewPostgresParticipationRepository(db SQLExecutor) ParticipationRepository {
	return &postgresParticipationRepository{db: db}
}

const selectParticipationFieldsSQL = `
	p.user_id, p.comp_id, c.comp_name, p.rating,
	p.option_rules, p.option_luck, p.option_mode, p.nos, p.map,
	p.status, p.wins, p.losses, p.allieswins, p.allieslosses, p.axiswins, p.axislosses`

func scanParticipationFields(p *models.Participation) []interface{} {
	return []interface{}{
		&p.AccountID, &p.CompetitionID, &p.CompetitionName, &p.Rating,
		&p.Options.Rules, &p.Options.Luck, &p.Options.Mode, &p.Options.Escort, &p.Options.Map,
		&p.Status, &p.Wins, &p.Losses, &p.AlliesWins, &p.AlliesLosses, &p.AxisWins, &p.AxisLosses,
	}
}

func (r *postgresParticipationRepository) ListByAccount(ctx context.Context, accountID int, competitionID *int, status models.LocalStatus) ([]*models.Participation, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT`)
	queryBuilder.WriteString(selectParticipationFieldsSQL)
	queryBuilder.WriteString(`
		FROM participations p
		JOIN competitions c ON c.comp_id = p.comp_id
		WHERE p.user_id = $1 AND p.status = $2`)

	args := []interface{}{accountID, status}
	if competitionID != nil {
		queryBuilder.WriteString(" AND p.comp_id = $")
		queryBuilder.WriteString(strconv.Itoa(len(args) + 1))
		args = append(args, *competitionID)
	}
	queryBuilder.WriteString(" ORDER BY p.comp_id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query participations for account %d: %w", accountID, err)
	}
	defer rows.Close()

	participations := make([]*models.Participation, 0)
	for rows.Next() {
		var p models.Participation
		if err := rows.Scan(scanParticipationFields(&p)...); err != nil {
			return nil, fmt.Errorf("failed to scan participation row: %w", err)
		}
		participations = append(participations, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during participation rows iteration: %w", err)
	}
	return participations, nil
}

func (r *postgresParticipationRepository) ListByCompetition(ctx context.Context, competitionID int, status models.LocalStatus, maxStatus models.GlobalStatus) ([]*models.ActivePlayer, error) {
	query := `SELECT` + selectParticipationFieldsSQL + `,
		u.uname, la.country, la.status
		FROM participations p
		JOIN competitions c ON c.comp_id = p.comp_id
		JOIN users u ON u.uid = p.user_id
		JOIN ladder_accounts la ON la.user_id = p.user_id
		WHERE p.comp_id = $1 AND p.status = $2 AND la.status <= $3
		ORDER BY u.uname ASC`

	rows, err := r.db.QueryContext(ctx, query, competitionID, status, maxStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to query players of competition %d: %w", competitionID, err)
	}
	defer rows.Close()

	players := make([]*models.ActivePlayer, 0)
	for rows.Next() {
		var ap models.ActivePlayer
		dest := append(scanParticipationFields(&ap.Participation), &ap.DisplayName, &ap.Country, &ap.GlobalStatus)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players = append(players, &ap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player rows iteration: %w", err)
	}
	return players, nil
}

func (r *postgresParticipationRepository) TopRated(ctx context.Context, competitionID int) (int, error) {
	// Ties on rating fall back to the lowest account id so the answer is stable.
	query := `
		SELECT user_id
		FROM participations
		WHERE comp_id = $1
		ORDER BY rating DESC, user_id ASC
		LIMIT 1`

	var accountID int
	err := r.db.QueryRowContext(ctx, query, competitionID).Scan(&accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrParticipationNotFound
		}
		return 0, fmt.Errorf("failed to query top player of competition %d: %w", competitionID, err)
	}
	return accountID, nil
}
