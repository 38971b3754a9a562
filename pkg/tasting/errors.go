package tasting

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"droscher.com/BeerLog/pkg/imaging"
	"droscher.com/BeerLog/pkg/repository"
)

var (
	ErrValidation    = errors.New("invalid beer")
	ErrNameRequired  = errors.New("beer name is required")
	ErrNameInvalid   = errors.New("beer name must contain at least one letter or digit")
	ErrNotesRequired = errors.New("tasting notes are required")
	ErrImageRequired = errors.New("beer image is required")
	ErrOutOfRange    = errors.New("value out of range")
)

var friendly = map[error]string{
	ErrNameRequired:  "Beer name is required!",
	ErrNameInvalid:   "Beer name needs at least one letter or digit!",
	ErrNotesRequired: "Tasting notes are required!",
	ErrImageRequired: "Please upload a beer image!",
}

// ValidationError lists every problem found in an entry. It matches ErrValidation and each problem with errors.Is.
type ValidationError struct {
	problems error
}

func (v *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, v.problems)
}

func (v *ValidationError) Unwrap() []error {
	return append([]error{ErrValidation}, multierr.Errors(v.problems)...)
}

func (v *ValidationError) Problems() []error {
	return multierr.Errors(v.problems)
}

type DuplicateError struct {
	Name string
	ID   string
}

func (d *DuplicateError) Error() string {
	return fmt.Sprintf("a beer named %q (id %q) already exists", d.Name, d.ID)
}

func (d *DuplicateError) Unwrap() error {
	return repository.ErrDuplicateIdentifier
}

// Describe renders an AddBeer error as the status text shown to the user.
func Describe(err error) string {
	var (
		validation *ValidationError
		duplicate  *DuplicateError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &validation):
		lines := make([]string, 0, len(validation.Problems()))

		for _, problem := range validation.Problems() {
			lines = append(lines, "Error: "+describeProblem(problem))
		}

		return strings.Join(lines, "\n")
	case errors.As(err, &duplicate):
		return fmt.Sprintf("Error: A beer with the name '%s' already exists! "+
			"Please use a different name or delete the old entry first.", duplicate.Name)
	case errors.Is(err, repository.ErrDuplicateIdentifier):
		return "Error: This beer already exists! Please use a different name."
	case errors.Is(err, imaging.ErrDecode):
		return "Error: The uploaded file could not be read as an image."
	default:
		return "Error during save: " + err.Error()
	}
}

func describeProblem(problem error) string {
	for sentinel, text := range friendly {
		if errors.Is(problem, sentinel) {
			return text
		}
	}

	return problem.Error()
}
