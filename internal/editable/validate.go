package editable

import (
	"fmt"
	"strings"

	"github.com/neogenz/pulpe-sub001/internal/id"
)

// FieldError describes one invalid field of a form.
type FieldError struct {
	Field       string
	Description string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Description)
}

// ValidationError ties a field error to the row it was found on.
type ValidationError struct {
	EntryID     id.ID
	Field       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("entry %s: %s: %s", e.EntryID, e.Field, e.Description)
}

// JoinValidationErrors renders a list of validation errors as one message.
func JoinValidationErrors(errs []ValidationError) string {
	msgs := make([]string, len(errs))
	for i, ve := range errs {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}
