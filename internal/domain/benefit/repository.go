package benefit

import (
	"context"
	"errors"
)

// ErrBenefitNotFound is returned by Update and Delete when no record has the given ID.
var ErrBenefitNotFound = errors.New("benefit not found")

// Repository is the CRUD façade over the external benefit table.
// Implementations do no validation; faults are returned as-is to the caller.
type Repository interface {
	List(ctx context.Context) ([]*Benefit, error)
	Insert(ctx context.Context, in Input) error
	Update(ctx context.Context, id ID, in Input) error // Full-field replace
	Delete(ctx context.Context, id ID) error
}
