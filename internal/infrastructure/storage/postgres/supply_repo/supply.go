// Package supply_repo provides the PostgreSQL implementation of the
// supply item repository.
package supply_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"broilerfarm/internal/core/apperror"
	"broilerfarm/internal/core/id"
	"broilerfarm/internal/domain"
	"broilerfarm/internal/domain/supply"
	"broilerfarm/internal/infrastructure/storage/postgres"
)

const tableName = "supply_items"

// Repo implements supply.Repository.
type Repo struct {
	txManager  *postgres.TxManager
	selectCols []string
}

// NewRepo creates a new supply item repository.
func NewRepo(txManager *postgres.TxManager) *Repo {
	return &Repo{
		txManager:  txManager,
		selectCols: postgres.ExtractDBColumns[supply.Item](),
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

// Create inserts a new supply item.
func (r *Repo) Create(ctx context.Context, item *supply.Item) error {
	data := postgres.StructToMap(item)

	q := r.builder().
		Insert(tableName).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert supply item: %w", err)
	}

	return nil
}

// GetByID retrieves an owner's supply item by ID.
func (r *Repo) GetByID(ctx context.Context, ownerID, itemID id.ID) (*supply.Item, error) {
	return r.get(ctx, ownerID, itemID, false)
}

// GetForUpdate reads the item with a FOR UPDATE row lock. The caller
// must already be inside a transaction.
func (r *Repo) GetForUpdate(ctx context.Context, ownerID, itemID id.ID) (*supply.Item, error) {
	return r.get(ctx, ownerID, itemID, true)
}

func (r *Repo) get(ctx context.Context, ownerID, itemID id.ID, forUpdate bool) (*supply.Item, error) {
	q := r.baseSelect(ownerID).
		Where(squirrel.Eq{"id": itemID}).
		Limit(1)
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	item := &supply.Item{}
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("supply item", itemID.String())
		}
		return nil, fmt.Errorf("get supply item: %w", err)
	}

	return item, nil
}

// Update persists the item with optimistic locking.
func (r *Repo) Update(ctx context.Context, item *supply.Item) error {
	data := postgres.StructToMap(item)

	setData := make(map[string]any, len(data))
	for col, val := range data {
		switch col {
		case "id", "owner_id", "version", "created_at":
			continue
		}
		setData[col] = val
	}

	q := r.builder().
		Update(tableName).
		SetMap(setData).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": item.ID}).
		Where(squirrel.Eq{"owner_id": item.OwnerID}).
		Where(squirrel.Eq{"version": item.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update supply item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("supply item", item.ID)
	}

	item.SetVersion(item.Version + 1)
	return nil
}

// Delete removes a supply item.
func (r *Repo) Delete(ctx context.Context, ownerID, itemID id.ID) error {
	q := r.builder().
		Delete(tableName).
		Where(squirrel.Eq{"id": itemID}).
		Where(squirrel.Eq{"owner_id": ownerID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete supply item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("supply item", itemID.String())
	}

	return nil
}

// List retrieves supply items with filtering and pagination.
func (r *Repo) List(ctx context.Context, ownerID id.ID, filter supply.ListFilter) (domain.ListResult[*supply.Item], error) {
	result := domain.ListResult[*supply.Item]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect(ownerID)

	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}
	if filter.Category != nil {
		q = q.Where(squirrel.Eq{"category": *filter.Category})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"name": "%" + filter.Search + "%"})
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

	q = q.OrderBy(r.parseOrderBy(filter.OrderBy))

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
		return result, fmt.Errorf("list supply items: %w", err)
	}

	return result, nil
}

// ListLowStock returns items whose stock sits at or below their
// buffer threshold. Items with no buffer configured never alert.
func (r *Repo) ListLowStock(ctx context.Context, ownerID id.ID) ([]*supply.Item, error) {
	q := r.baseSelect(ownerID).
		Where(squirrel.Gt{"buffer_stock": 0}).
		Where(squirrel.Expr("current_stock <= buffer_stock")).
		OrderBy("name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*supply.Item
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}

	return items, nil
}

// Supply items carry no business date, so date-style orderings fall
// back to the item name.
func (r *Repo) parseOrderBy(orderBy string) string {
	switch orderBy {
	case "name", "+name":
		return "name ASC, id ASC"
	case "-name":
		return "name DESC, id DESC"
	case "category", "+category":
		return "category ASC, name ASC"
	case "-category":
		return "category DESC, name ASC"
	case "current_stock", "+current_stock":
		return "current_stock ASC, name ASC"
	case "-current_stock":
		return "current_stock DESC, name ASC"
	default:
		return "name ASC, id ASC"
	}
}

var _ supply.Repository = (*Repo)(nil)
