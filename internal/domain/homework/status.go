// Package homework содержит доменную модель проверки домашних работ:
// каталог статусов, схему ответа API, извлечение последней записи и
// форматирование уведомления.
package homework

// ══════════════════════════════════════════════════════════════════════════════
// STATUS CATALOG
// ══════════════════════════════════════════════════════════════════════════════

// Status is a review status code as returned by the remote API.
type Status string

const (
	// StatusApproved - the reviewer accepted the work.
	StatusApproved Status = "approved"

	// StatusReviewing - the work was taken for review.
	StatusReviewing Status = "reviewing"

	// StatusRejected - the reviewer left remarks.
	StatusRejected Status = "rejected"
)

// StatusUnavailablePhrase is used when the record carries an empty status.
const StatusUnavailablePhrase = "Отсутствует статус домашней работы на сервере"

// Catalog maps a status code to its human-readable verdict.
type Catalog map[Status]string

// DefaultCatalog returns the canonical verdict phrases.
func DefaultCatalog() Catalog {
	return Catalog{
		StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
		StatusReviewing: "Работа взята на проверку ревьюером.",
		StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
	}
}

// Verdict returns the phrase for the status and whether it is known.
func (c Catalog) Verdict(s Status) (string, bool) {
	phrase, ok := c[s]
	return phrase, ok
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}
