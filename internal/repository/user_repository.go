package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/cinema-screening-booking/internal/model"
	"github.com/iliyamo/cinema-screening-booking/internal/schema"
)

// userColumns maps schema field names to 'users' columns.
var userColumns = map[string]string{
	"id":       "id",
	"userName": "user_name",
	"role":     "role",
}

// userSelect is the projected column list, in schema.UserFields order.
var userSelect = projection(schema.UserFields, userColumns)

// scanUser reads one row projected with userSelect.
func scanUser(rs rowScanner) (model.User, error) {
	var (
		u    model.User
		role string
	)
	dest := make([]any, 0, len(schema.UserFields))
	for _, f := range schema.UserFields {
		switch f {
		case "id":
			dest = append(dest, &u.ID)
		case "userName":
			dest = append(dest, &u.UserName)
		case "role":
			dest = append(dest, &role)
		}
	}
	if err := rs.Scan(dest...); err != nil {
		return model.User{}, err
	}
	u.Role = model.Role(role)
	return u, nil
}

// UserRepo mirrors the 'users' table. Besides plain CRUD it answers the
// role lookups used for authorization.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts one or more users in a single transaction and returns the
// stored rows in input order.
func (r *UserRepo) Create(ctx context.Context, users ...model.NewUser) (out []model.User, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin insert users: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	out = make([]model.User, 0, len(users))
	for _, u := range users {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO users (user_name, role) VALUES (?,?)",
			u.UserName, string(u.Role))
		if err != nil {
			return nil, fmt.Errorf("insert user: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("insert user: %w", err)
		}
		out = append(out, model.User{ID: uint64(id), UserName: u.UserName, Role: u.Role})
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit insert users: %w", err)
	}
	return out, nil
}

// GetByID fetches a user by id. It returns nil and no error when absent.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userSelect+" FROM users WHERE id=? LIMIT 1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

// RoleOf returns the role of the given user. ok is false when the user does
// not exist or carries a role outside the known set.
func (r *UserRepo) RoleOf(ctx context.Context, userID uint64) (role model.Role, ok bool, err error) {
	var raw string
	err = r.DB.QueryRowContext(ctx, "SELECT role FROM users WHERE id=? LIMIT 1", userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("role of user %d: %w", userID, err)
	}
	role = model.Role(raw)
	if !role.Valid() {
		return "", false, nil
	}
	return role, true, nil
}
