package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

// ItemFilter narrows item listings.
type ItemFilter struct {
	Statuses   []domain.ItemStatus
	ReportedBy *string
}

// ItemRepository encapsulates item persistence.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	List(ctx context.Context, filter ItemFilter) ([]domain.Item, error)
	// CompareAndSwapStatus applies change only if the stored status equals
	// expected, as a single atomic write. A mismatch yields *StatusMismatchError.
	CompareAndSwapStatus(ctx context.Context, id string, expected domain.ItemStatus, change domain.StatusChange) (*domain.Item, error)
	Patch(ctx context.Context, id string, patch domain.ItemPatch) (*domain.Item, error)
	Delete(ctx context.Context, id string) (*domain.Item, error)
}

const itemColumns = `id, title, description, location, category, date_reported, status,
               reported_by, approved_by, claimant_id, claim_date, created_at, updated_at`

type itemRepository struct {
	pool *pgxpool.Pool
}

// NewItemRepository returns a Postgres-backed implementation.
func NewItemRepository(pool *pgxpool.Pool) ItemRepository {
	return &itemRepository{pool: pool}
}

func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	const query = `
        INSERT INTO items (id, title, description, location, category, date_reported, status, reported_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		item.ID,
		item.Title,
		item.Description,
		item.Location,
		item.Category,
		item.DateReported,
		item.Status,
		item.ReportedBy,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id=$1`
	item, err := scanItem(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return item, err
}

func (r *itemRepository) List(ctx context.Context, filter ItemFilter) ([]domain.Item, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.ReportedBy != nil {
		args = append(args, *filter.ReportedBy)
		clauses = append(clauses, fmt.Sprintf("reported_by=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM items WHERE %s ORDER BY created_at ASC`,
		itemColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	return result, rows.Err()
}

func (r *itemRepository) CompareAndSwapStatus(ctx context.Context, id string, expected domain.ItemStatus, change domain.StatusChange) (*domain.Item, error) {
	query := `
        UPDATE items SET status=$1,
            approved_by=COALESCE($2, approved_by),
            claimant_id=COALESCE($3, claimant_id),
            claim_date=COALESCE($4, claim_date),
            updated_at=NOW()
        WHERE id=$5 AND status=$6
        RETURNING ` + itemColumns
	item, err := scanItem(r.pool.QueryRow(ctx, query,
		change.To,
		change.ApprovedBy,
		change.ClaimantID,
		change.ClaimDate,
		id,
		expected,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		current, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		return nil, &StatusMismatchError{Expected: expected, Current: current}
	}
	return item, err
}

func (r *itemRepository) Patch(ctx context.Context, id string, patch domain.ItemPatch) (*domain.Item, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}

	sets := []string{}
	args := []any{}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.DateReported != nil {
		add("date_reported", *patch.DateReported)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE items SET %s, updated_at=NOW() WHERE id=$%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), itemColumns)
	item, err := scanItem(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return item, err
}

func (r *itemRepository) Delete(ctx context.Context, id string) (*domain.Item, error) {
	query := `DELETE FROM items WHERE id=$1 RETURNING ` + itemColumns
	item, err := scanItem(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return item, err
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	var item domain.Item
	if err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.Location,
		&item.Category,
		&item.DateReported,
		&item.Status,
		&item.ReportedBy,
		&item.ApprovedBy,
		&item.ClaimantID,
		&item.ClaimDate,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
