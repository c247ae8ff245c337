package repositories

import (
	"context"
	"fmt"

	"github.com/Dosada05/ladder-stats/models"
)

type RatingRepository interface {
	// CountByValue groups the ratings received by ratedID by vote value.
	// Vote values with no rows are absent from the map.
	CountByValue(ctx context.Context, ratedID int) (map[int]int, error)
	// ListByRated returns every rating received by ratedID, newest first.
	ListByRated(ctx context.Context, ratedID int) ([]*models.Rating, error)
	// RatedChallengeIDs returns the ids of challenges raterID has already rated.
	RatedChallengeIDs(ctx context.Context, raterID int) (map[int]struct{}, error)
}

type postgresRatingRepository struct {
	db SQLExecutor
}

func NewPostgresRatingRepository(db SQLExecutor) RatingRepository {
	return &postgresRatingRepository{db: db}
}

func (r *postgresRatingRepository) CountByValue(ctx context.Context, ratedID int) (map[int]int, error) {
	query := `SELECT rating, COUNT(*) FROM karma_ratings WHERE rated_id = $1 GROUP BY rating`

	rows, err := r.db.QueryContext(ctx, query, ratedID)
	if err != nil {
		return nil, fmt.Errorf("failed to count ratings for %d: %w", ratedID, err)
	}
	defer rows.Close()

	counts := make(map[int]int, 3)
	for rows.Next() {
		var value, counter int
		if err := rows.Scan(&value, &counter); err != nil {
			return nil, fmt.Errorf("failed to scan rating count row: %w", err)
		}
		counts[value] = counter
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rating count rows iteration: %w", err)
	}
	return counts, nil
}

func (r *postgresRatingRepository) ListByRated(ctx context.Context, ratedID int) ([]*models.Rating, error) {
	query := `
		SELECT rating_id, rater_id, rated_id, challenge_id, rating, comment, rating_date
		FROM karma_ratings
		WHERE rated_id = $1
		ORDER BY rating_date DESC, rating_id DESC`

	rows, err := r.db.QueryContext(ctx, query, ratedID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings for %d: %w", ratedID, err)
	}
	defer rows.Close()

	ratings := make([]*models.Rating, 0)
	for rows.Next() {
		var rt models.Rating
		if err := rows.Scan(&rt.ID, &rt.RaterID, &rt.RatedID, &rt.ChallengeID, &rt.Value, &rt.Comment, &rt.RatingDate); err != nil {
			return nil, fmt.Errorf("failed to scan rating row: %w", err)
		}
		ratings = append(ratings, &rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rating rows iteration: %w", err)
	}
	return ratings, nil
}

func (r *postgresRatingRepository) RatedChallengeIDs(ctx context.Context, raterID int) (map[int]struct{}, error) {
	query := `SELECT DISTINCT challenge_id FROM karma_ratings WHERE rater_id = $1`

	rows, err := r.db.QueryContext(ctx, query, raterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rated challenges for %d: %w", raterID, err)
	}
	defer rows.Close()

	ids := make(map[int]struct{})
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan rated challenge id: %w", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rated challenge rows iteration: %w", err)
	}
	return ids, nil
}
