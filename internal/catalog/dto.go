package catalog

// resultsResponse is the envelope of trending and search responses
type resultsResponse struct {
	Page         int            `json:"page"`
	Results      []catalogEntry `json:"results"`
	TotalResults int            `json:"total_results"`
}

// catalogEntry is one raw catalog record. Movies, shows and people share
// the envelope, so every field is optional: zero values mean "absent".
// Only the mapper reads these fields.
type catalogEntry struct {
	ID            int     `json:"id"`
	MediaType     string  `json:"media_type"`
	Title         string  `json:"title"`          // movies
	Name          string  `json:"name"`           // shows, people
	OriginalTitle string  `json:"original_title"` // movies
	OriginalName  string  `json:"original_name"`  // shows
	Overview      string  `json:"overview"`
	PosterPath    string  `json:"poster_path"`
	BackdropPath  string  `json:"backdrop_path"`
	VoteAverage   float64 `json:"vote_average"`
	Popularity    float64 `json:"popularity"`
	ReleaseDate   string  `json:"release_date"`   // movies
	FirstAirDate  string  `json:"first_air_date"` // shows
}
