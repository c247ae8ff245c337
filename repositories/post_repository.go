package repositories

import (
	"context"
	"fmt"

	"github.com/Dosada05/ladder-stats/models"
)

type PostRepository interface {
	ListRecentByAccount(ctx context.Context, accountID, limit int) ([]*models.RecentPost, error)
}

type postgresPostRepository struct {
	db SQLExecutor
}

func NewPostgresPostRepository(db SQLExecutor) PostRepository {
	return &postgresPostRepository{db: db}
}

func (r *postgresPostRepository) ListRecentByAccount(ctx context.Context, accountID, limit int) ([]*models.RecentPost, error) {
	query := `
		SELECT post_id, pid, topic_id, forum_id, post_time, uid, subject
		FROM forum_posts
		WHERE uid = $1
		ORDER BY post_time DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts of %d: %w", accountID, err)
	}
	defer rows.Close()

	posts := make([]*models.RecentPost, 0, limit)
	for rows.Next() {
		var p models.RecentPost
		if err := rows.Scan(&p.ID, &p.ParentID, &p.TopicID, &p.ForumID, &p.PostTime, &p.UserID, &p.Subject); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during post rows iteration: %w", err)
	}
	return posts, nil
}
