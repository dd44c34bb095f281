package anime

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type ListFilters struct {
	Query  string
	Genre  string
	Status string
	Year   int64
	Type   string
	Limit  int
	Offset int
}

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Anime, error)
	List(ctx context.Context, filters ListFilters) ([]Anime, error)

	AddToCollection(ctx context.Context, userID, animeID int64, collection string) (*CollectionEntry, error)
	RemoveFromCollection(ctx context.Context, userID, animeID int64, collection string) error
	ListCollection(ctx context.Context, userID int64, collection string) ([]CollectionItem, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Anime, error) {
	var a Anime
	err := r.db.GetContext(ctx, &a, `SELECT * FROM anime WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get anime: %w", err)
	}
	return &a, nil
}

func (r *repository) List(ctx context.Context, f ListFilters) ([]Anime, error) {
	var (
		conds []string
		args  []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Query != "" {
		add("title ILIKE '%%' || $%d || '%%'", f.Query)
	}
	if f.Genre != "" {
		add("genres ILIKE '%%' || $%d || '%%'", f.Genre)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Year != 0 {
		add("year = $%d", f.Year)
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}

	query := `SELECT * FROM anime`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, f.Limit)
	query += fmt.Sprintf(" ORDER BY score DESC NULLS LAST, id LIMIT $%d", len(args))
	args = append(args, f.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	list := []Anime{}
	if err := r.db.SelectContext(ctx, &list, query, args...); err != nil {
		return nil, fmt.Errorf("list anime: %w", err)
	}
	return list, nil
}

func (r *repository) AddToCollection(ctx context.Context, userID, animeID int64, collection string) (*CollectionEntry, error) {
	var e CollectionEntry
	err := r.db.GetContext(ctx, &e, `
		INSERT INTO user_collections (user_id, anime_id, collection_name)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, anime_id, collection_name`,
		userID, animeID, collection)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, ErrAlreadyInList
		}
		return nil, fmt.Errorf("add to collection: %w", err)
	}
	return &e, nil
}

func (r *repository) RemoveFromCollection(ctx context.Context, userID, animeID int64, collection string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM user_collections
		WHERE user_id = $1 AND anime_id = $2 AND collection_name = $3`,
		userID, animeID, collection)
	if err != nil {
		return fmt.Errorf("remove from collection: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove from collection: %w", err)
	}
	if n == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *repository) ListCollection(ctx context.Context, userID int64, collection string) ([]CollectionItem, error) {
	list := []CollectionItem{}
	err := r.db.SelectContext(ctx, &list, `
		SELECT uc.id, uc.user_id, uc.anime_id, uc.collection_name, a.title, a.image_url
		FROM user_collections uc
		JOIN anime a ON a.id = uc.anime_id
		WHERE uc.user_id = $1 AND uc.collection_name = $2
		ORDER BY uc.id DESC`,
		userID, collection)
	if err != nil {
		return nil, fmt.Errorf("list collection: %w", err)
	}
	return list, nil
}
