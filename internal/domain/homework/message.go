package homework

import "fmt"

// Formatter turns a homework record into notification text.
type Formatter struct {
	catalog Catalog
}

// NewFormatter creates a formatter backed by the given catalog.
// A nil catalog falls back to DefaultCatalog.
func NewFormatter(catalog Catalog) *Formatter {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Formatter{catalog: catalog}
}

// Format builds the status-change message for the record.
func (f *Formatter) Format(r Record) (string, error) {
	if !r.HasName() {
		return "", &MissingFieldError{Field: "homework_name"}
	}
	if !r.HasStatus() {
		return "", &MissingFieldError{Field: "status"}
	}

	verdict := StatusUnavailablePhrase
	if r.Status != "" {
		phrase, ok := f.catalog.Verdict(r.Status)
		if !ok {
			return "", &UnknownStatusError{Status: r.Status}
		}
		verdict = phrase
	}

	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", r.Name, verdict), nil
}
