// Package records parses decrypted plaintext into validated user records.
package records

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Field length bounds, applied after trimming.
const (
	MaxNameLen  = 128
	MaxEmailLen = 255
	MaxPhoneLen = 20
)

// Record is a validated, normalized user record.
type Record struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type rawRecord struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Parse decodes plaintext as a JSON array of user records and validates
// every element. Validation is fail-fast: the first invalid record aborts
// the whole batch with a RecordError naming its 1-based position, and no
// normalized records are returned. Output order matches input order.
//
// Surviving fields are normalized: whitespace trimmed on all three, email
// lower-cased.
func Parse(plaintext []byte) ([]Record, error) {
	elems, err := Decode(plaintext)
	if err != nil {
		return nil, err
	}
	return ValidateBatch(elems)
}

// Decode parses plaintext as UTF-8 JSON and requires the top-level value
// to be an array. It performs no per-record validation.
func Decode(plaintext []byte) ([]json.RawMessage, error) {
	if !utf8.Valid(plaintext) {
		return nil, fmt.Errorf("%w: not valid UTF-8", ErrInvalidJSON)
	}

	var top json.RawMessage
	if err := json.Unmarshal(plaintext, &top); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidJSON, excerpt(plaintext))
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(top, &elems); err != nil {
		return nil, ErrInvalidShape
	}
	return elems, nil
}

// ValidateBatch validates and normalizes decoded elements, fail-fast and
// whole-batch: the first invalid element rejects everything.
func ValidateBatch(elems []json.RawMessage) ([]Record, error) {
	out := make([]Record, 0, len(elems))
	for i, elem := range elems {
		var raw rawRecord
		if err := json.Unmarshal(elem, &raw); err != nil {
			return nil, &RecordError{Index: i + 1, Reason: "not an object"}
		}
		rec, err := validate(raw)
		if err != nil {
			return nil, &RecordError{Index: i + 1, Reason: err.Error()}
		}
		out = append(out, rec)
	}
	return out, nil
}

func validate(raw rawRecord) (Record, error) {
	name := strings.TrimSpace(raw.Name)
	email := strings.ToLower(strings.TrimSpace(raw.Email))
	phone := strings.TrimSpace(raw.Phone)

	if name == "" {
		return Record{}, fmt.Errorf("missing name")
	}
	// Name and phone bounds count runes, not bytes, so multibyte names are
	// not penalized. Email's limit stays byte-oriented per RFC 5321.
	if utf8.RuneCountInString(name) > MaxNameLen {
		return Record{}, fmt.Errorf("name exceeds %d characters", MaxNameLen)
	}

	if email == "" {
		return Record{}, fmt.Errorf("missing email")
	}
	if len(email) > MaxEmailLen {
		return Record{}, fmt.Errorf("email exceeds %d characters", MaxEmailLen)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return Record{}, fmt.Errorf("invalid email syntax")
	}

	if phone == "" {
		return Record{}, fmt.Errorf("missing phone")
	}
	if utf8.RuneCountInString(phone) > MaxPhoneLen {
		return Record{}, fmt.Errorf("phone exceeds %d characters", MaxPhoneLen)
	}

	return Record{Name: name, Email: email, Phone: phone}, nil
}

// excerptLen bounds how much offending text a parse error may echo.
// Plaintext came out of an encrypted payload; diagnostics must never leak
// it wholesale into logs.
const excerptLen = 48

func excerpt(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= excerptLen {
		return fmt.Sprintf("near %q", s)
	}
	// Back off to a rune boundary so the cut never splits a multibyte
	// character.
	cut := excerptLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return fmt.Sprintf("near %q...", s[:cut])
}
