package home

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const (
	animeCardLimit     = 10
	recentLimit        = 6
	reviewSnippetRunes = 150
	postSnippetRunes   = 100
)

type Repository interface {
	Feed(ctx context.Context) (*Feed, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const animeCardColumns = `id, title, image_url, score, episodes, status, year`

func (r *repository) Feed(ctx context.Context) (*Feed, error) {
	feed := &Feed{
		TopAnime:      []AnimeCard{},
		MostPopular:   []AnimeCard{},
		RecentReviews: []ReviewCard{},
		RecentPosts:   []PostCard{},
	}

	err := r.db.SelectContext(ctx, &feed.TopAnime, fmt.Sprintf(`
		SELECT %s FROM anime
		WHERE score > 0
		ORDER BY score DESC
		LIMIT $1`, animeCardColumns), animeCardLimit)
	if err != nil {
		return nil, fmt.Errorf("home top anime: %w", err)
	}

	err = r.db.SelectContext(ctx, &feed.MostPopular, fmt.Sprintf(`
		SELECT %s FROM anime
		ORDER BY popularity ASC NULLS LAST
		LIMIT $1`, animeCardColumns), animeCardLimit)
	if err != nil {
		return nil, fmt.Errorf("home popular anime: %w", err)
	}

	err = r.db.SelectContext(ctx, &feed.RecentReviews, `
		SELECT r.id, COALESCE(NULLIF(a.title, ''), 'Unknown') AS anime_title,
		       r.text, COALESCE(u.username, 'Anonymous') AS author
		FROM reviews r
		LEFT JOIN anime a ON a.id = r.anime_id
		LEFT JOIN users u ON u.id = r.user_id
		ORDER BY r.created_at DESC
		LIMIT $1`, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("home recent reviews: %w", err)
	}

	err = r.db.SelectContext(ctx, &feed.RecentPosts, `
		SELECT p.id, COALESCE(NULLIF(p.title, ''), 'Untitled') AS title,
		       p.content, COALESCE(u.username, 'Anonymous') AS author
		FROM posts p
		LEFT JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC
		LIMIT $1`, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("home recent posts: %w", err)
	}

	for i := range feed.TopAnime {
		if feed.TopAnime[i].Title == "" {
			feed.TopAnime[i].Title = "Untitled"
		}
	}
	for i := range feed.MostPopular {
		if feed.MostPopular[i].Title == "" {
			feed.MostPopular[i].Title = "Untitled"
		}
	}
	for i := range feed.RecentReviews {
		feed.RecentReviews[i].Text = snippet(feed.RecentReviews[i].Text, reviewSnippetRunes)
	}
	for i := range feed.RecentPosts {
		feed.RecentPosts[i].Content = snippet(feed.RecentPosts[i].Content, postSnippetRunes)
	}
	return feed, nil
}
