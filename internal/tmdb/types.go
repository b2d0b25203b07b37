package tmdb

type SearchResponse struct {
	Page         int            `json:"page"`
	Results      []SearchResult `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

type SearchResult struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	PosterPath    string  `json:"poster_path"`
	ReleaseDate   string  `json:"release_date"`
	Overview      string  `json:"overview"`
	VoteAverage   float64 `json:"vote_average"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type MovieInfo struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	PosterPath    string  `json:"poster_path"`
	Genres        []Genre `json:"genres"`
	Runtime       int     `json:"runtime"`
	ReleaseDate   string  `json:"release_date"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int     `json:"vote_count"`
	Tagline       string  `json:"tagline"`
	Overview      string  `json:"overview"`
}

type ReleaseDatesResponse struct {
	ID      int               `json:"id"`
	Results []CountryReleases `json:"results"`
}

type CountryReleases struct {
	Country      string        `json:"iso_3166_1"`
	ReleaseDates []ReleaseDate `json:"release_dates"`
}

type ReleaseDate struct {
	Certification string `json:"certification"`
	ReleaseDate   string `json:"release_date"`
	Type          int    `json:"type"`
}

type Credits struct {
	ID   int          `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

type CrewMember struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// MovieDetails is a movie reshaped for display.
type MovieDetails struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Poster      string       `json:"poster"`
	Genres      []string     `json:"genres"`
	Facts       []string     `json:"facts"`
	Percentage  int          `json:"percentage"`
	VoteCount   int          `json:"vote_count"`
	CircleFill  int          `json:"circle_fill"`
	ReleaseYear string       `json:"release_year"`
	Country     string       `json:"country"`
	Tagline     string       `json:"tagline"`
	Overview    string       `json:"overview"`
	Director    string       `json:"director"`
	Cast        []CastMember `json:"cast_list"`
}
