package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/ladder-stats/models"
	"github.com/gosimple/slug"
)

var ErrCompetitionNotFound = errors.New("competition not found")

type CompetitionRepository interface {
	// ListActive returns the competitions the ladder currently hosts, ordered by id.
	ListActive(ctx context.Context) ([]*models.Competition, error)
	GetByID(ctx context.Context, id int) (*models.Competition, error)
}

type postgresCompetitionRepository struct {
	db SQLExecutor
}

func NewPostgresCompetitionRepository(db SQLExecutor) CompetitionRepository {
	return &postgresCompetitionRepository{db: db}
}

func (r *postgresCompetitionRepository) scanCompetition(row rowScanner) (*models.Competition, error) {
	var c models.Competition
	if err := row.Scan(&c.ID, &c.Name); err != nil {
		return nil, err
	}
	c.Slug = slug.Make(c.Name)
	return &c, nil
}

func (r *postgresCompetitionRepository) ListActive(ctx context.Context) ([]*models.Competition, error) {
	query := `SELECT comp_id, comp_name FROM competitions WHERE is_active ORDER BY comp_id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query competitions: %w", err)
	}
	defer rows.Close()

	competitions := make([]*models.Competition, 0)
	for rows.Next() {
		c, err := r.scanCompetition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan competition row: %w", err)
		}
		competitions = append(competitions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during competition rows iteration: %w", err)
	}
	return competitions, nil
}

func (r *postgresCompetitionRepository) GetByID(ctx context.Context, id int) (*models.Competition, error) {
	query := `SELECT comp_id, comp_name FROM competitions WHERE comp_id = $1`

	c, err := r.scanCompetition(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("failed to get competition %d: %w", id, err)
	}
	return c, nil
}
