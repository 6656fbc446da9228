package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

// ItemTransitionRepository stores the append-only status log.
type ItemTransitionRepository interface {
	Append(ctx context.Context, transition *domain.ItemTransition) error
	ListByItem(ctx context.Context, itemID string) ([]domain.ItemTransition, error)
}

type itemTransitionRepository struct {
	pool *pgxpool.Pool
}

// NewItemTransitionRepository builds repository.
func NewItemTransitionRepository(pool *pgxpool.Pool) ItemTransitionRepository {
	return &itemTransitionRepository{pool: pool}
}

func (r *itemTransitionRepository) Append(ctx context.Context, transition *domain.ItemTransition) error {
	const query = `
        INSERT INTO item_transitions (id, item_id, from_status, to_status, actor_id, reason)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		transition.ID,
		transition.ItemID,
		transition.From,
		transition.To,
		transition.ActorID,
		transition.Reason,
	).Scan(&transition.CreatedAt)
}

func (r *itemTransitionRepository) ListByItem(ctx context.Context, itemID string) ([]domain.ItemTransition, error) {
	const query = `
        SELECT id, item_id, from_status, to_status, actor_id, reason, created_at
        FROM item_transitions WHERE item_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ItemTransition
	for rows.Next() {
		var transition domain.ItemTransition
		if err := rows.Scan(
			&transition.ID,
			&transition.ItemID,
			&transition.From,
			&transition.To,
			&transition.ActorID,
			&transition.Reason,
			&transition.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, transition)
	}
	return result, rows.Err()
}
