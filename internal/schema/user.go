package schema

import "github.com/iliyamo/cinema-screening-booking/internal/model"

// UserFields lists the user fields recognised by the schema, in order.
var UserFields = []string{"id", "userName", "role"}

type userInsertable struct {
	UserName *string `json:"userName" validate:"required,min=1,max=25"`
	Role     *string `json:"role" validate:"required,oneof=admin user"`
}

// ParseUserInsertable validates the fields needed to create a user.
func ParseUserInsertable(record any) (model.NewUser, error) {
	var r userInsertable
	if err := decode(record, &r); err != nil {
		return model.NewUser{}, err
	}
	if err := check(&r); err != nil {
		return model.NewUser{}, err
	}
	return model.NewUser{UserName: *r.UserName, Role: model.Role(*r.Role)}, nil
}

// ParseUserID coerces v into a positive user id. The same rule applies to
// the identifier a caller presents as credentials.
func ParseUserID(v any) (uint64, error) {
	return parsePositiveID("userId", v)
}
