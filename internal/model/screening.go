package model

// Screening represents one scheduled showing of a movie. Rows are created
// and deleted but never updated.
//
// Fields:
//  ID       – primary key, generated by the database.
//  MovieID  – movie being shown; checked to exist at creation time only.
//  Date     – calendar date in YYYY-MM-DD form.
//  Time     – time of day in HH:MM:SS form.
//  Capacity – number of seats, between 1 and 100.
type Screening struct {
	ID       uint64 `json:"id"`       // screenings.id
	MovieID  uint64 `json:"movieId"`  // screenings.movie_id
	Date     string `json:"date"`     // screenings.date
	Time     string `json:"time"`     // screenings.time
	Capacity int    `json:"capacity"` // screenings.capacity
}

// NewScreening holds the insertable fields of a screening. The ID is
// assigned by the database.
type NewScreening struct {
	MovieID  uint64 `json:"movieId"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Capacity int    `json:"capacity"`
}

// ScreeningPatch is the updateable projection: every field optional.
type ScreeningPatch struct {
	MovieID  *uint64 `json:"movieId,omitempty"`
	Date     *string `json:"date,omitempty"`
	Time     *string `json:"time,omitempty"`
	Capacity *int    `json:"capacity,omitempty"`
}
