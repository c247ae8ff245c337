package repositories

import (
	"context"
	"fmt"

	"github.com/Dosada05/ladder-stats/models"
	"github.com/lib/pq"
)

type AccountRepository interface {
	// FindByID returns every account row matching id whose global status is <= maxStatus.
	// The caller decides what zero or several rows mean.
	FindByID(ctx context.Context, id int, maxStatus models.GlobalStatus) ([]*models.GlobalAccount, error)
	ListIdentities(ctx context.Context, ids []int) (map[int]models.Identity, error)
}

type postgresAccountRepository struct {
	db SQLExecutor
}

func NewPostgresAccountRepository(db SQLExecutor) AccountRepository {
	return &postgresAccountRepository{db: db}
}

func (r *postgresAccountRepository) FindByID(ctx context.Context, id int, maxStatus models.GlobalStatus) ([]*models.GlobalAccount, error) {
	query := `
		SELECT u.uid, u.uname, la.country, u.user_regdate, la.status
		FROM users u
		JOIN ladder_accounts la ON la.user_id = u.uid
		WHERE u.uid = $1 AND la.status <= $2`

	rows, err := r.db.QueryContext(ctx, query, id, maxStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to query account %d: %w", id, err)
	}
	defer rows.Close()

	accounts := make([]*models.GlobalAccount, 0, 1)
	for rows.Next() {
		var a models.GlobalAccount
		if err := rows.Scan(&a.ID, &a.DisplayName, &a.Country, &a.RegisteredAt, &a.Status); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during account rows iteration: %w", err)
	}
	return accounts, nil
}

func (r *postgresAccountRepository) ListIdentities(ctx context.Context, ids []int) (map[int]models.Identity, error) {
	ids = uniqueIDs(ids)
	identities := make(map[int]models.Identity, len(ids))
	if len(ids) == 0 {
		return identities, nil
	}

	query := `
		SELECT u.uid, u.uname, la.country
		FROM users u
		JOIN ladder_accounts la ON la.user_id = u.uid
		WHERE u.uid = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(int64sOf(ids)))
	if err != nil {
		return nil, fmt.Errorf("failed to query identities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var i models.Identity
		if err := rows.Scan(&i.AccountID, &i.DisplayName, &i.Country); err != nil {
			return nil, fmt.Errorf("failed to scan identity row: %w", err)
		}
		identities[i.AccountID] = i
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during identity rows iteration: %w", err)
	}
	return identities, nil
}
