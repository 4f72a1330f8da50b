package normalizer

// Kind classifies a validation failure.
type Kind string

// Validation failure kinds, in the order the checks run.
const (
	KindEmptyBody         Kind = "empty_body"
	KindMalformedBody     Kind = "malformed_body"
	KindMissingRecord     Kind = "missing_record"
	KindMissingIdentifier Kind = "missing_identifier"
)

// ValidationError reports why an event body was rejected. Its message is
// always safe to echo back to the webhook caller.
type ValidationError struct {
	Kind    Kind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
