package anime

import (
	"database/sql"
)

// Anime represents one catalog entry. Rows are written by the external
// metadata importer; this service only reads them.
type Anime struct {
	ID       int64           `db:"id" json:"id"`
	MalID    int64           `db:"mal_id" json:"mal_id"`
	Title    string          `db:"title" json:"title"`
	ImageURL sql.NullString  `db:"image_url" json:"-"`
	Synopsis sql.NullString  `db:"synopsis" json:"-"`
	Score    sql.NullFloat64 `db:"score" json:"-"`
	Episodes sql.NullInt64   `db:"episodes" json:"-"`
	Status   sql.NullString  `db:"status" json:"-"`
	Year     sql.NullInt64   `db:"year" json:"-"`
	Genres   sql.NullString  `db:"genres" json:"-"`
	Type     sql.NullString  `db:"type" json:"-"`
}

// View is the JSON shape for catalog entries
type View struct {
	ID       int64   `json:"id"`
	MalID    int64   `json:"mal_id"`
	Title    string  `json:"title"`
	ImageURL string  `json:"image_url,omitempty"`
	Synopsis string  `json:"synopsis,omitempty"`
	Score    float64 `json:"score,omitempty"`
	Episodes int64   `json:"episodes,omitempty"`
	Status   string  `json:"status,omitempty"`
	Year     int64   `json:"year,omitempty"`
	Genres   string  `json:"genres,omitempty"`
	Type     string  `json:"type,omitempty"`
}

// ToView converts an Anime row into its JSON shape
func (a *Anime) ToView() *View {
	return &View{
		ID:       a.ID,
		MalID:    a.MalID,
		Title:    a.Title,
		ImageURL: a.ImageURL.String,
		Synopsis: a.Synopsis.String,
		Score:    a.Score.Float64,
		Episodes: a.Episodes.Int64,
		Status:   a.Status.String,
		Year:     a.Year.Int64,
		Genres:   a.Genres.String,
		Type:     a.Type.String,
	}
}

// CollectionEntry represents one anime inside a user's named collection
type CollectionEntry struct {
	ID             int64  `db:"id" json:"id"`
	UserID         int64  `db:"user_id" json:"user_id"`
	AnimeID        int64  `db:"anime_id" json:"anime_id"`
	CollectionName string `db:"collection_name" json:"collection_name"`
}

// CollectionItem is a collection entry joined with its anime title
type CollectionItem struct {
	CollectionEntry
	Title    string         `db:"title" json:"title"`
	ImageURL sql.NullString `db:"image_url" json:"-"`
}
