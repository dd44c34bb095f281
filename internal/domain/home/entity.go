package home

// Feed is the public landing page aggregate
type Feed struct {
	TopAnime      []AnimeCard  `json:"top_anime"`
	MostPopular   []AnimeCard  `json:"most_popular"`
	RecentReviews []ReviewCard `json:"recent_reviews"`
	RecentPosts   []PostCard   `json:"recent_posts"`
}

// AnimeCard is the trimmed anime shape shown on the landing page
type AnimeCard struct {
	ID       int64    `db:"id" json:"id"`
	Title    string   `db:"title" json:"title"`
	ImageURL *string  `db:"image_url" json:"image_url"`
	Score    *float64 `db:"score" json:"score"`
	Episodes *int64   `db:"episodes" json:"episodes"`
	Status   *string  `db:"status" json:"status"`
	Year     *int64   `db:"year" json:"year"`
}

// ReviewCard is a recent review teaser
type ReviewCard struct {
	ID         int64  `db:"id" json:"id"`
	AnimeTitle string `db:"anime_title" json:"anime_title"`
	Text       string `db:"text" json:"text"`
	User       string `db:"author" json:"user"`
}

// PostCard is a recent forum post teaser
type PostCard struct {
	ID      int64  `db:"id" json:"id"`
	Title   string `db:"title" json:"title"`
	Content string `db:"content" json:"content"`
	User    string `db:"author" json:"user"`
}

// snippet shortens teaser text. Any non-empty text gets the trailing
// ellipsis, even when it is shorter than the cutoff.
func snippet(text string, max int) string {
	if text == "" {
		return ""
	}
	runes := []rune(text)
	if len(runes) > max {
		runes = runes[:max]
	}
	return string(runes) + "..."
}
