package schema

import (
	"github.com/iliyamo/cinema-screening-booking/internal/model"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Fields lists the screening fields recognised by the schema, in order.
// The repository projects exactly these columns.
var Fields = []string{"id", "movieId", "date", "time", "capacity"}

// screeningRecord is the full screening shape. Pointers distinguish a
// missing key from a zero value.
type screeningRecord struct {
	ID       *int64  `json:"id" validate:"required,gt=0"`
	MovieID  *int64  `json:"movieId" validate:"required,gt=0"`
	Date     *string `json:"date" validate:"required,datetime=2006-01-02"`
	Time     *string `json:"time" validate:"required,datetime=15:04:05"`
	Capacity *int64  `json:"capacity" validate:"required,gt=0,lte=100"`
}

type insertableRecord struct {
	MovieID  *int64  `json:"movieId" validate:"required,gt=0"`
	Date     *string `json:"date" validate:"required,datetime=2006-01-02"`
	Time     *string `json:"time" validate:"required,datetime=15:04:05"`
	Capacity *int64  `json:"capacity" validate:"required,gt=0,lte=100"`
}

type updateableRecord struct {
	MovieID  *int64  `json:"movieId" validate:"omitempty,gt=0"`
	Date     *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time     *string `json:"time" validate:"omitempty,datetime=15:04:05"`
	Capacity *int64  `json:"capacity" validate:"omitempty,gt=0,lte=100"`
}

// Parse validates a complete screening record, id included.
func Parse(record any) (model.Screening, error) {
	var r screeningRecord
	if err := decode(record, &r); err != nil {
		return model.Screening{}, err
	}
	if err := check(&r); err != nil {
		return model.Screening{}, err
	}
	return model.Screening{
		ID:       uint64(*r.ID),
		MovieID:  uint64(*r.MovieID),
		Date:     *r.Date,
		Time:     *r.Time,
		Capacity: int(*r.Capacity),
	}, nil
}

// ParseInsertable validates the fields needed to create a screening. An id
// in the input is ignored.
func ParseInsertable(record any) (model.NewScreening, error) {
	var r insertableRecord
	if err := decode(record, &r); err != nil {
		return model.NewScreening{}, err
	}
	if err := check(&r); err != nil {
		return model.NewScreening{}, err
	}
	return model.NewScreening{
		MovieID:  uint64(*r.MovieID),
		Date:     *r.Date,
		Time:     *r.Time,
		Capacity: int(*r.Capacity),
	}, nil
}

// ParseUpdateable validates a partial screening. Every field is optional
// and an id in the input is ignored.
func ParseUpdateable(record any) (model.ScreeningPatch, error) {
	var r updateableRecord
	if err := decode(record, &r); err != nil {
		return model.ScreeningPatch{}, err
	}
	if err := check(&r); err != nil {
		return model.ScreeningPatch{}, err
	}
	var p model.ScreeningPatch
	if r.MovieID != nil {
		v := uint64(*r.MovieID)
		p.MovieID = &v
	}
	p.Date = r.Date
	p.Time = r.Time
	if r.Capacity != nil {
		v := int(*r.Capacity)
		p.Capacity = &v
	}
	return p, nil
}

// ParseID coerces v (string or number) into a positive screening id.
func ParseID(v any) (uint64, error) {
	return parsePositiveID("id", v)
}
