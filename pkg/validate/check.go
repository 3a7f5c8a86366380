package validate

import (
	"fmt"
	"time"
)

// FieldError is one failed field rule.
type FieldError struct {
	Field   string
	Message string
}

// Check is a validation rule over already-decoded input. It returns nil
// when the rule holds.
type Check func() []FieldError

// All validates the tags of v and then runs checks. The first message per
// field wins, so tag failures take precedence over checks.
func All(v interface{}, checks ...Check) map[string]string {
	errs := Struct(v)
	for _, check := range checks {
		for _, fe := range check() {
			if _, seen := errs[fe.Field]; !seen {
				errs[fe.Field] = fe.Message
			}
		}
	}
	return errs
}

// DateAfter requires later to be strictly after earlier when both are set.
func DateAfter(field string, later, earlier *time.Time, earlierField string) Check {
	return func() []FieldError {
		if later == nil || earlier == nil || later.After(*earlier) {
			return nil
		}
		return []FieldError{{
			Field:   field,
			Message: fmt.Sprintf("The %s must be a date after %s.", field, earlierField),
		}}
	}
}
