package model

// Document is an opaque JSON object as stored in a collection. The service
// never interprets its members beyond the few fields named below.
//
// Fields with meaning for appointments:
//  _id    – identifier assigned by the storage layer on insert.
//  email  – owner of the appointment; used to filter listings.
//  status – the only member mutated after creation.
type Document map[string]any

// Well-known document members.
const (
	FieldID     = "_id"
	FieldEmail  = "email"
	FieldStatus = "status"
)

// String returns the member k when it holds a string, otherwise "".
func (d Document) String(k string) string {
	if d == nil {
		return ""
	}
	s, _ := d[k].(string)
	return s
}
