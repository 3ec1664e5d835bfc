package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"usethis-backend/internal/domain"
	"usethis-backend/internal/logger"
	"usethis-backend/internal/repository"
)

type itemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) repository.ItemRepository {
	return &itemRepository{db: db}
}

const itemColumns = `i.id, i.owner_id, i.title, COALESCE(i.description, ''), i.category, i.location, i.price_per_day, 
	i.available_from, i.available_to, i.image_urls, i.is_available, i.created_on, i.updated_on`

func scanItem(row interface{ Scan(...any) error }, extra ...any) (*domain.Item, error) {
	it := &domain.Item{}
	var from, to sql.NullTime
	var createdOn, updatedOn time.Time
	dest := []any{&it.ID, &it.OwnerID, &it.Title, &it.Description, &it.Category, &it.Location, &it.PricePerDay,
		&from, &to, pq.Array(&it.ImageURLs), &it.IsAvailable, &createdOn, &updatedOn}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, notFound(err)
	}
	it.AvailableFrom = dateString(from)
	it.AvailableTo = dateString(to)
	it.CreatedOn = stamp(createdOn)
	it.UpdatedOn = stamp(updatedOn)
	if it.ImageURLs == nil {
		it.ImageURLs = []string{}
	}
	return it, nil
}

func (r *itemRepository) Create(ctx context.Context, it *domain.Item) error {
	logger.EnterMethod("itemRepository.Create", "ownerID", it.OwnerID, "title", it.Title)
	query := `INSERT INTO items (owner_id, title, description, category, location, price_per_day, available_from, available_to, image_urls, is_available, created_on, updated_on) 
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	now := time.Now()
	if it.ImageURLs == nil {
		it.ImageURLs = []string{}
	}
	logger.DatabaseCall("INSERT", "items", "ownerID", it.OwnerID)
	err := r.db.QueryRowContext(ctx, query, it.OwnerID, it.Title, it.Description, it.Category, it.Location, it.PricePerDay,
		nullDate(it.AvailableFrom), nullDate(it.AvailableTo), pq.Array(it.ImageURLs), it.IsAvailable, now, now).Scan(&it.ID)
	logger.DatabaseResult("INSERT", 1, err, "itemID", it.ID)
	if err != nil {
		logger.ExitMethodWithError("itemRepository.Create", err)
		return err
	}
	it.CreatedOn = stamp(now)
	it.UpdatedOn = it.CreatedOn
	logger.ExitMethod("itemRepository.Create", "itemID", it.ID)
	return nil
}

func (r *itemRepository) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + `, u.name, COALESCE(u.avatar_url, '') 
	          FROM items i JOIN users u ON u.id = i.owner_id WHERE i.id = $1`
	owner := &domain.User{}
	it, err := scanItem(r.db.QueryRowContext(ctx, query, id), &owner.Name, &owner.AvatarURL)
	if err != nil {
		return nil, err
	}
	owner.ID = it.OwnerID
	it.Owner = owner
	return it, nil
}

func (r *itemRepository) Update(ctx context.Context, it *domain.Item) error {
	query := `UPDATE items SET title=$1, description=$2, category=$3, location=$4, price_per_day=$5, available_from=$6, available_to=$7, 
	          image_urls=$8, is_available=$9, updated_on=$10 WHERE id=$11`
	now := time.Now()
	res, err := r.db.ExecContext(ctx, query, it.Title, it.Description, it.Category, it.Location, it.PricePerDay,
		nullDate(it.AvailableFrom), nullDate(it.AvailableTo), pq.Array(it.ImageURLs), it.IsAvailable, now, it.ID)
	if err != nil {
		return err
	}
	it.UpdatedOn = stamp(now)
	return requireRow(res)
}

func (r *itemRepository) SetAvailability(ctx context.Context, id int32, available bool) error {
	query := `UPDATE items SET is_available=$1, updated_on=$2 WHERE id=$3`
	res, err := r.db.ExecContext(ctx, query, available, time.Now(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *itemRepository) AppendImage(ctx context.Context, id int32, url string) error {
	query := `UPDATE items SET image_urls = array_append(image_urls, $1), updated_on=$2 WHERE id=$3`
	res, err := r.db.ExecContext(ctx, query, url, time.Now(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *itemRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *itemRepository) list(ctx context.Context, where string, args []interface{}, page, pageSize int32) ([]domain.Item, int32, error) {
	base := `SELECT ` + itemColumns + ` FROM items i WHERE ` + where

	var count int32
	countSQL := "SELECT count(*) FROM (" + base + ") as sub"
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	limit, offset := pageOffset(page, pageSize)
	n := len(args)
	query := base + fmt.Sprintf(" ORDER BY i.created_on DESC LIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *it)
	}
	return items, count, rows.Err()
}

func (r *itemRepository) ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Item, int32, error) {
	return r.list(ctx, "i.owner_id = $1", []interface{}{ownerID}, page, pageSize)
}

// Search applies plain substring filters; there is no relevance ranking.
func (r *itemRepository) Search(ctx context.Context, f domain.ItemFilter) ([]domain.Item, int32, error) {
	conds := []string{"TRUE"}
	var args []interface{}
	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q := strings.TrimSpace(f.Query); q != "" {
		p := next("%" + q + "%")
		conds = append(conds, fmt.Sprintf("(i.title ILIKE %s OR i.description ILIKE %s)", p, p))
	}
	if f.Category != "" {
		conds = append(conds, "i.category = "+next(f.Category))
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		conds = append(conds, "i.location ILIKE "+next("%"+loc+"%"))
	}
	if f.MaxPrice > 0 {
		conds = append(conds, "i.price_per_day <= "+next(f.MaxPrice))
	}
	if f.AvailableOnly {
		conds = append(conds, "i.is_available")
	}
	return r.list(ctx, strings.Join(conds, " AND "), args, f.Page, f.PageSize)
}
