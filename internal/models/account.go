package models

// Field names of the SSv2 account payload this service reads or writes.
const (
	FieldID             = "id"
	FieldDisplayID      = "displayId"
	FieldClassification = "customerABCClassification"
	FieldExtensions     = "extensions"
	FieldCustomScore    = "CustomScore"
)

// AccountSnapshot is the state of a CRM account as carried on a change
// event. It keeps every field of the inbound record, known or not, so the
// webhook surface can echo the record back without loss.
type AccountSnapshot map[string]interface{}

// ID returns the account's unique identifier, or "" if absent.
func (s AccountSnapshot) ID() string {
	id, _ := s[FieldID].(string)
	return id
}

// DisplayID returns the human-readable account identifier, or "" if absent.
func (s AccountSnapshot) DisplayID() string {
	id, _ := s[FieldDisplayID].(string)
	return id
}

// Classification returns the account's ABC classification code, or "" if
// absent. Unknown codes pass through unchanged; the score calculator decides
// what they are worth.
func (s AccountSnapshot) Classification() string {
	code, _ := s[FieldClassification].(string)
	return code
}

// Extensions returns the account's custom extension fields, or nil if the
// record carries none.
func (s AccountSnapshot) Extensions() map[string]interface{} {
	ext, _ := s[FieldExtensions].(map[string]interface{})
	return ext
}

// WithScore returns a copy of the snapshot with the CustomScore extension
// set to score. Every other field is preserved, including unrecognized ones
// and the rest of the extension map. The receiver is not modified.
func (s AccountSnapshot) WithScore(score int) AccountSnapshot {
	out := make(AccountSnapshot, len(s)+1)
	for k, v := range s {
		out[k] = v
	}

	ext := make(map[string]interface{}, len(s.Extensions())+1)
	for k, v := range s.Extensions() {
		ext[k] = v
	}
	ext[FieldCustomScore] = score
	out[FieldExtensions] = ext

	return out
}
