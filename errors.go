package fixrec

import "fmt"

// SchemaError reports an invalid schema declaration at Build time.
type SchemaError struct {
	Schema string
	Field  string
	Msg    string
}

func schemaErrf(schema, field, format string, args ...any) error {
	return &SchemaError{schema, field, fmt.Sprintf(format, args...)}
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema %s: %s", e.Schema, e.Msg)
	}
	return fmt.Sprintf("schema %s: field %s: %s", e.Schema, e.Field, e.Msg)
}
