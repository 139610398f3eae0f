package source

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSubject reports a subject string that names no known record.
var ErrInvalidSubject = errors.New("source: invalid subject")

// SubjectKind names the record type a subject refers to.
type SubjectKind string

const (
	SubjectPost    SubjectKind = "post"
	SubjectTerm    SubjectKind = "term"
	SubjectUser    SubjectKind = "user"
	SubjectComment SubjectKind = "comment"
	SubjectOptions SubjectKind = "options"
)

// OptionsPrefix is prepended to storage keys of option subjects.
const OptionsPrefix = "options_"

// Subject is a parsed subject identifier.
type Subject struct {
	Kind SubjectKind
	// ID is the record id; empty for options.
	ID string
}

// ParseSubject parses the textual subject forms accepted by the resolver:
// "options" (or "option"), a bare numeric post id, or "<kind>_<id>" for
// posts, terms, users and comments.
func ParseSubject(raw string) (Subject, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return Subject{}, fmt.Errorf("%w: empty", ErrInvalidSubject)
	}
	if value == "options" || value == "option" {
		return Subject{Kind: SubjectOptions}, nil
	}
	if isRecordID(value) {
		return Subject{Kind: SubjectPost, ID: value}, nil
	}
	kind, id, ok := strings.Cut(value, "_")
	if !ok || !isRecordID(id) {
		return Subject{}, fmt.Errorf("%w: %q", ErrInvalidSubject, raw)
	}
	switch SubjectKind(kind) {
	case SubjectPost, SubjectTerm, SubjectUser, SubjectComment:
		return Subject{Kind: SubjectKind(kind), ID: id}, nil
	default:
		return Subject{}, fmt.Errorf("%w: unsupported kind %q", ErrInvalidSubject, kind)
	}
}

// MustParseSubject is ParseSubject for literals; it panics on error.
func MustParseSubject(raw string) Subject {
	subject, err := ParseSubject(raw)
	if err != nil {
		panic(err)
	}
	return subject
}

func isRecordID(value string) bool {
	id, err := strconv.ParseUint(value, 10, 64)
	return err == nil && id > 0
}

// Identifier returns the canonical form of the subject: "options" or
// "<kind>_<id>".
func (s Subject) Identifier() (string, error) {
	switch s.Kind {
	case SubjectOptions:
		return string(SubjectOptions), nil
	case SubjectPost, SubjectTerm, SubjectUser, SubjectComment:
		if !isRecordID(s.ID) {
			return "", fmt.Errorf("%w: %s id %q", ErrInvalidSubject, s.Kind, s.ID)
		}
		return fmt.Sprintf("%s_%s", s.Kind, s.ID), nil
	default:
		return "", fmt.Errorf("%w: unsupported kind %q", ErrInvalidSubject, s.Kind)
	}
}

func (s Subject) String() string {
	id, err := s.Identifier()
	if err != nil {
		return fmt.Sprintf("invalid(%s:%s)", s.Kind, s.ID)
	}
	return id
}

// IsOptions reports whether the subject refers to global options.
func (s Subject) IsOptions() bool {
	return s.Kind == SubjectOptions
}

// StorageKey maps a bare storage key onto the physical key used for the
// subject.
func (s Subject) StorageKey(key string) string {
	if s.IsOptions() {
		return OptionsPrefix + key
	}
	return key
}

// resolveKey parses subject and returns its identifier and physical key.
func resolveKey(subject, key string) (string, string, error) {
	parsed, err := ParseSubject(subject)
	if err != nil {
		return "", "", err
	}
	id, err := parsed.Identifier()
	if err != nil {
		return "", "", err
	}
	return id, parsed.StorageKey(key), nil
}
