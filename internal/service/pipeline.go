package service

import (
	"context"
	"fmt"
)

// Names of the checks run by the screening operations. A failing
// operation reports which one stopped it through CheckFailure.
const (
	CheckCredentials = "credentials"
	CheckIdentity    = "identity"
	CheckAdminRole   = "admin-role"
	CheckPayload     = "payload"
	CheckFutureDate  = "future-date"
	CheckMovieExists = "movie-exists"
	CheckPersist     = "persist"
	CheckScreeningID = "screening-id"
	CheckFreeSeats   = "free-seats"
	CheckDelete      = "delete"
)

// Check is one named step of an operation. Run returns nil to continue
// with the next check, or the reason the operation fails.
type Check struct {
	Name string
	Run  func(ctx context.Context, r *request) error
}

// Pipeline is an ordered list of checks. The order is the error precedence
// of the operation: the first failing check decides the response.
type Pipeline []Check

// Names lists the check names in execution order.
func (p Pipeline) Names() []string {
	names := make([]string, len(p))
	for i, c := range p {
		names[i] = c.Name
	}
	return names
}

// Run executes the checks in order and stops at the first failure.
func (p Pipeline) Run(ctx context.Context, r *request) error {
	for _, c := range p {
		if err := c.Run(ctx, r); err != nil {
			return &CheckFailure{Check: c.Name, Err: err}
		}
	}
	return nil
}

// CheckFailure tags an error with the check that produced it.
type CheckFailure struct {
	Check string
	Err   error
}

func (f *CheckFailure) Error() string { return fmt.Sprintf("%s: %v", f.Check, f.Err) }

func (f *CheckFailure) Unwrap() error { return f.Err }
