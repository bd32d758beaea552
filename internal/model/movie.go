package model

// Movie mirrors a row of the `movies` table. Movies are maintained
// elsewhere; this service only checks that one exists.
type Movie struct {
	ID    uint64 `json:"id"`    // movies.id
	Title string `json:"title"` // movies.title
	Year  *int   `json:"year"`  // movies.year (nullable)
}
