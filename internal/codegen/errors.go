package codegen

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidToolSet is matched by errors.Is for every generation refused
// because validation failed.
var ErrInvalidToolSet = errors.New("invalid tool set")

// PreconditionError is returned by generation when the tool set does not
// validate. It carries the complete problem list.
type PreconditionError struct {
	Problems []Problem
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("tool set failed validation with %d problem(s): %s",
		len(e.Problems), strings.Join(e.Messages(), "; "))
}

// Is makes errors.Is(err, ErrInvalidToolSet) hold.
func (e *PreconditionError) Is(target error) bool {
	return target == ErrInvalidToolSet
}

// Messages returns the problem messages.
func (e *PreconditionError) Messages() []string {
	return Report{Problems: e.Problems}.Messages()
}
