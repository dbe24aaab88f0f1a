package homework

import (
	"bytes"
	"encoding/json"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE SCHEMA
// ══════════════════════════════════════════════════════════════════════════════

// RawResponse is an undecoded JSON payload returned by the status API.
// It is consumed within one poll cycle and never stored.
type RawResponse json.RawMessage

// Record is one entry of the "homeworks" list.
// Presence of each key is tracked separately from its value: a record
// may carry an empty status, which differs from having no status at all.
type Record struct {
	Name   string
	Status Status

	hasName   bool
	hasStatus bool
}

// NewRecord creates a record with both keys present.
func NewRecord(name string, status Status) Record {
	return Record{Name: name, Status: status, hasName: true, hasStatus: true}
}

// HasName reports whether the "homework_name" key was present.
func (r Record) HasName() bool { return r.hasName }

// HasStatus reports whether the "status" key was present.
func (r Record) HasStatus() bool { return r.hasStatus }

// DecodeRecord decodes a single homework entry. It never fails: an entry
// that is not an object simply yields a record with no keys present, and
// the formatter rejects it later.
func DecodeRecord(raw json.RawMessage) Record {
	var fields map[string]json.RawMessage
	if !isObject(raw) || json.Unmarshal(raw, &fields) != nil {
		return Record{}
	}

	var r Record
	if v, ok := fields["homework_name"]; ok {
		r.hasName = true
		r.Name = scalarText(v)
	}
	if v, ok := fields["status"]; ok {
		r.hasStatus = true
		r.Status = Status(scalarText(v))
	}
	return r
}

// scalarText returns a JSON string's value, "" for null, and the raw
// JSON text for any other value.
func scalarText(v json.RawMessage) string {
	trimmed := bytes.TrimSpace(v)
	if bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	return string(trimmed)
}

func isObject(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func isArray(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// ══════════════════════════════════════════════════════════════════════════════
// EXTRACTION
// ══════════════════════════════════════════════════════════════════════════════

// ExtractOutcome tags the result of ExtractLatest.
type ExtractOutcome int

const (
	// ExtractFound - the latest record was extracted.
	ExtractFound ExtractOutcome = iota
	// ExtractEmpty - the list is empty, nothing changed in the window.
	ExtractEmpty
	// ExtractInvalid - the payload does not match the schema; Err is a *ShapeError.
	ExtractInvalid
)

// String returns the string representation of the outcome.
func (o ExtractOutcome) String() string {
	switch o {
	case ExtractFound:
		return "found"
	case ExtractEmpty:
		return "empty"
	case ExtractInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Extraction is the tagged result of ExtractLatest.
type Extraction struct {
	Outcome ExtractOutcome
	Record  Record
	Err     error
}

// ExtractLatest validates the payload shape and returns its first
// homework entry. The API lists homeworks most recent first, so index 0
// is the latest status; other entries are ignored.
func ExtractLatest(raw RawResponse) Extraction {
	if !isObject(raw) {
		return invalid(&ShapeError{Reason: "ответ API не является объектом"})
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return invalid(&ShapeError{Reason: "ответ API не является объектом", Err: err})
	}

	list, ok := body["homeworks"]
	if !ok || !isArray(list) {
		return invalid(&ShapeError{Reason: "по ключу homeworks пришел не список"})
	}

	var homeworks []json.RawMessage
	if err := json.Unmarshal(list, &homeworks); err != nil {
		return invalid(&ShapeError{Reason: "по ключу homeworks пришел не список", Err: err})
	}

	if len(homeworks) == 0 {
		return Extraction{Outcome: ExtractEmpty}
	}

	return Extraction{Outcome: ExtractFound, Record: DecodeRecord(homeworks[0])}
}

func invalid(err *ShapeError) Extraction {
	return Extraction{Outcome: ExtractInvalid, Err: err}
}
