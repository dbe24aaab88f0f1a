package homework

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLatest_ReturnsFirstEntry(t *testing.T) {
	raw := RawResponse(`{
    "homeworks": [
        {"homework_name": "hw3", "status": "reviewing"},
        {"homework_name": "hw2", "status": "approved"},
        {"homework_name": "hw1", "status": "rejected"}
    ],
    "current_date": 1581604970
}`)

	got := ExtractLatest(raw)
	require.Equal(t, ExtractFound, got.Outcome)
	assert.NoError(t, got.Err)
	assert.Equal(t, "hw3", got.Record.Name)
	assert.Equal(t, StatusReviewing, got.Record.Status)
	assert.True(t, got.Record.HasName())
	assert.True(t, got.Record.HasStatus())
}

func TestExtractLatest_Empty(t *testing.T) {
	got := ExtractLatest(RawResponse(`{"homeworks": []}`))
	assert.Equal(t, ExtractEmpty, got.Outcome)
	assert.NoError(t, got.Err)
	assert.Equal(t, Record{}, got.Record)
}

func TestExtractLatest_ShapeErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"array payload", `[{"homework_name": "hw1", "status": "approved"}]`},
		{"string payload", `"homeworks"`},
		{"null payload", `null`},
		{"empty payload", ``},
		{"missing homeworks", `{"current_date": 1}`},
		{"homeworks is object", `{"homeworks": {"homework_name": "hw1"}}`},
		{"homeworks is null", `{"homeworks": null}`},
		{"homeworks is string", `{"homeworks": "hw1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractLatest(RawResponse(tt.raw))
			assert.Equal(t, ExtractInvalid, got.Outcome)
			assert.Equal(t, Record{}, got.Record)

			var shapeErr *ShapeError
			require.True(t, errors.As(got.Err, &shapeErr))
			assert.ErrorIs(t, got.Err, ErrShape)
		})
	}
}

func TestDecodeRecord_Presence(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantName   string
		wantStatus Status
		hasName    bool
		hasStatus  bool
	}{
		{"both keys", `{"homework_name": "hw", "status": "approved"}`, "hw", StatusApproved, true, true},
		{"no status", `{"homework_name": "hw"}`, "hw", "", true, false},
		{"no name", `{"status": "approved"}`, "", StatusApproved, false, true},
		{"null status", `{"homework_name": "hw", "status": null}`, "hw", "", true, true},
		{"numeric status", `{"homework_name": "hw", "status": 7}`, "hw", "7", true, true},
		{"not an object", `"hw"`, "", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DecodeRecord([]byte(tt.raw))
			assert.Equal(t, tt.wantName, r.Name)
			assert.Equal(t, tt.wantStatus, r.Status)
			assert.Equal(t, tt.hasName, r.HasName())
			assert.Equal(t, tt.hasStatus, r.HasStatus())
		})
	}
}

func TestFormatter_KnownStatuses(t *testing.T) {
	f := NewFormatter(nil)
	catalog := DefaultCatalog()

	for _, status := range []Status{StatusApproved, StatusReviewing, StatusRejected} {
		t.Run(status.String(), func(t *testing.T) {
			msg, err := f.Format(NewRecord("lesson_12", status))
			require.NoError(t, err)
			assert.Contains(t, msg, `"lesson_12"`)
			assert.True(t, strings.HasSuffix(msg, catalog[status]))
		})
	}
}

func TestFormatter_ApprovedMessage(t *testing.T) {
	msg, err := NewFormatter(nil).Format(NewRecord("hw1", StatusApproved))
	require.NoError(t, err)
	assert.Equal(t, `Изменился статус проверки работы "hw1". Работа проверена: ревьюеру всё понравилось. Ура!`, msg)
}

func TestFormatter_EmptyStatusFallsBack(t *testing.T) {
	msg, err := NewFormatter(nil).Format(NewRecord("hw1", ""))
	require.NoError(t, err)
	assert.Equal(t, `Изменился статус проверки работы "hw1". `+StatusUnavailablePhrase, msg)
}

func TestFormatter_UnknownStatus(t *testing.T) {
	_, err := NewFormatter(nil).Format(NewRecord("hw1", "pending_review"))

	var unknown *UnknownStatusError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, Status("pending_review"), unknown.Status)
	assert.ErrorIs(t, err, ErrUnknownStatus)
	assert.Equal(t, `неизвестный статус домашней работы: "pending_review"`, err.Error())
}

func TestFormatter_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{"no name", `{"status": "approved"}`, "homework_name"},
		{"no status", `{"homework_name": "hw1"}`, "status"},
		{"empty object", `{}`, "homework_name"},
		{"not an object", `42`, "homework_name"},
	}

	f := NewFormatter(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Format(DecodeRecord([]byte(tt.raw)))

			var missing *MissingFieldError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, tt.field, missing.Field)
			assert.ErrorIs(t, err, ErrMissingField)
		})
	}
}

func TestFormatter_Idempotent(t *testing.T) {
	f := NewFormatter(nil)
	raw := RawResponse(`{"homeworks": [{"homework_name": "hw1", "status": "rejected"}]}`)

	first, err := f.Format(ExtractLatest(raw).Record)
	require.NoError(t, err)
	second, err := f.Format(ExtractLatest(raw).Record)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCatalog_Verdict(t *testing.T) {
	c := DefaultCatalog()
	assert.Len(t, c, 3)
	_, ok := c.Verdict("pending_review")
	assert.False(t, ok)

	phrase, ok := c.Verdict(StatusReviewing)
	assert.True(t, ok)
	assert.Equal(t, "Работа взята на проверку ревьюером.", phrase)
}
