package domain

// NewsArticle is one entry of a provider headline listing.
type NewsArticle struct {
	Author      string `json:"author,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

// Movie carries TMDb listing fields plus enrichment (trailer, cast) filled by
// the detail pass. Rating signals are pointers: an absent signal zeroes the
// rank score instead of contributing a fake zero value.
type Movie struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	OriginalTitle string   `json:"original_title,omitempty"`
	Overview      string   `json:"overview,omitempty"`
	PosterPath    string   `json:"poster_path,omitempty"`
	BackdropPath  string   `json:"backdrop_path,omitempty"`
	ReleaseDate   string   `json:"release_date,omitempty"`
	VoteAverage   *float64 `json:"vote_average,omitempty"`
	VoteCount     *int     `json:"vote_count,omitempty"`
	Popularity    float64  `json:"popularity,omitempty"`
	GenreIDs      []int    `json:"genre_ids,omitempty"`
	TrailerKey    string   `json:"trailer_key,omitempty"`
	Cast          []string `json:"cast,omitempty"`
}

// TVShow mirrors Movie for the TMDb TV listing shape.
type TVShow struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	OriginalName  string   `json:"original_name,omitempty"`
	Overview      string   `json:"overview,omitempty"`
	PosterPath    string   `json:"poster_path,omitempty"`
	BackdropPath  string   `json:"backdrop_path,omitempty"`
	FirstAirDate  string   `json:"first_air_date,omitempty"`
	VoteAverage   *float64 `json:"vote_average,omitempty"`
	VoteCount     *int     `json:"vote_count,omitempty"`
	Popularity    float64  `json:"popularity,omitempty"`
	OriginCountry []string `json:"origin_country,omitempty"`
	TrailerKey    string   `json:"trailer_key,omitempty"`
	Cast          []string `json:"cast,omitempty"`
}

// Game carries the RAWG listing fields used for ranking and rendering.
type Game struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	Slug            string      `json:"slug,omitempty"`
	Released        string      `json:"released,omitempty"`
	BackgroundImage string      `json:"background_image,omitempty"`
	Rating          *float64    `json:"rating,omitempty"`
	RatingsCount    int         `json:"ratings_count,omitempty"`
	Metacritic      *int        `json:"metacritic,omitempty"`
	Playtime        int         `json:"playtime,omitempty"`
	Genres          []GameGenre `json:"genres,omitempty"`
}

// GameGenre is the nested genre object of a RAWG game.
type GameGenre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}
