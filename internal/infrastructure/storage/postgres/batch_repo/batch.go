// Package batch_repo provides the PostgreSQL implementation of the
// batch repository. Reconciliation flows read batches through
// GetForUpdate so concurrent event writes serialize on the row lock.
package batch_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"broilerfarm/internal/core/apperror"
	"broilerfarm/internal/core/id"
	"broilerfarm/internal/domain"
	"broilerfarm/internal/domain/batch"
	"broilerfarm/internal/infrastructure/storage/postgres"
)

const tableName = "batches"

// Repo implements batch.Repository.
type Repo struct {
	txManager  *postgres.TxManager
	selectCols []string
}

// NewRepo creates a new batch repository.
func NewRepo(txManager *postgres.TxManager) *Repo {
	return &Repo{
		txManager:  txManager,
		selectCols: postgres.ExtractDBColumns[batch.Batch](),
	}
}

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *Repo) baseSelect(ownerID id.ID) squirrel.SelectBuilder {
	return r.builder().
		Select(r.selectCols...).
		From(tableName).
		Where(squirrel.Eq{"owner_id": ownerID})
}

// Create inserts a new batch.
func (r *Repo) Create(ctx context.Context, b *batch.Batch) error {
	data := postgres.StructToMap(b)

	q := r.builder().
		Insert(tableName).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	return nil
}

// GetByID retrieves an owner's batch by ID.
func (r *Repo) GetByID(ctx context.Context, ownerID, batchID id.ID) (*batch.Batch, error) {
	return r.get(ctx, ownerID, batchID, false)
}

// GetForUpdate reads the batch with a FOR UPDATE row lock. The caller
// must already be inside a transaction.
func (r *Repo) GetForUpdate(ctx context.Context, ownerID, batchID id.ID) (*batch.Batch, error) {
	return r.get(ctx, ownerID, batchID, true)
}

func (r *Repo) get(ctx context.Context, ownerID, batchID id.ID, forUpdate bool) (*batch.Batch, error) {
	q := r.baseSelect(ownerID).
		Where(squirrel.Eq{"id": batchID}).
		Limit(1)
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	b := &batch.Batch{}
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("batch", batchID.String())
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}

	return b, nil
}

// Update persists the batch state with optimistic locking. The stored
// version must still match the version the batch was read at; the
// statement itself bumps it.
func (r *Repo) Update(ctx context.Context, b *batch.Batch) error {
	data := postgres.StructToMap(b)

	setData := make(map[string]any, len(data))
	for col, val := range data {
		switch col {
		case "id", "owner_id", "version", "created_at", "created_by":
			continue
		}
		setData[col] = val
	}

	q := r.builder().
		Update(tableName).
		SetMap(setData).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": b.ID}).
		Where(squirrel.Eq{"owner_id": b.OwnerID}).
		Where(squirrel.Eq{"version": b.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("batch", b.ID)
	}

	b.SetVersion(b.Version + 1)
	return nil
}

// Delete removes a batch. The service layer verifies the batch has no
// event records first.
func (r *Repo) Delete(ctx context.Context, ownerID, batchID id.ID) error {
	q := r.builder().
		Delete(tableName).
		Where(squirrel.Eq{"id": batchID}).
		Where(squirrel.Eq{"owner_id": ownerID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("batch", batchID.String())
	}

	return nil
}

// List retrieves batches with filtering and pagination.
func (r *Repo) List(ctx context.Context, ownerID id.ID, filter batch.ListFilter) (domain.ListResult[*batch.Batch], error) {
	result := domain.ListResult[*batch.Batch]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect(ownerID)

	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.Breed != nil {
		q = q.Where(squirrel.Eq{"breed": *filter.Breed})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"breed": pattern},
		})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"purchase_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"purchase_date": *filter.DateTo})
	}

	countQ := r.builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list batches: %w", err)
	}

	return result, nil
}

func (r *Repo) parseOrderBy(orderBy string) (string, error) {
	if orderBy == "" {
		return "purchase_date DESC, id DESC", nil
	}

	direction := "ASC"
	field := orderBy
	if f, ok := cutPrefix(orderBy, "-"); ok {
		direction = "DESC"
		field = f
	} else if f, ok := cutPrefix(orderBy, "+"); ok {
		field = f
	}

	// Batches have no single business date; map the generic alias
	// onto the purchase date.
	if field == "date" {
		field = "purchase_date"
	}

	for _, col := range r.selectCols {
		if col == field {
			return field + " " + direction + ", id " + direction, nil
		}
	}

	return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
}

func cutPrefix(s, prefix string) (string, bool) {
	if len(s) > len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):], true
	}
	return s, false
}

var _ batch.Repository = (*Repo)(nil)
