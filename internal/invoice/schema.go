package invoice

import (
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// requiredSchema only gates the fields a record cannot exist without
const requiredSchema = `{
  "type": "object",
  "required": ["invoiceNo", "date"],
  "properties": {
    "invoiceNo": {"type": ["string", "number"], "pattern": "\\S"},
    "date": {"type": ["string", "number"], "pattern": "\\S"}
  }
}`

var recordSchema = jsonschema.MustCompileString("invoice.schema.json", requiredSchema)

// validateRequired reports ErrIncompleteInvoice when invoiceNo or date is
// missing, null or blank
func validateRequired(obj map[string]any) error {
	err := recordSchema.Validate(obj)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		return fmt.Errorf("%w: %s", ErrIncompleteInvoice, describe(verr))
	}
	return fmt.Errorf("%w: %w", ErrIncompleteInvoice, err)
}

// describe flattens the leaf causes of a validation error into one line
func describe(verr *jsonschema.ValidationError) string {
	var leaves []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			leaves = append(leaves, loc+": "+e.Message)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(verr)
	return strings.Join(leaves, "; ")
}
