package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubject(t *testing.T) {
	cases := []struct {
		raw  string
		kind SubjectKind
		id   string
		want string
	}{
		{raw: "options", kind: SubjectOptions, want: "options"},
		{raw: " Option ", kind: SubjectOptions, want: "options"},
		{raw: "12", kind: SubjectPost, id: "12", want: "post_12"},
		{raw: "post_12", kind: SubjectPost, id: "12", want: "post_12"},
		{raw: "term_5", kind: SubjectTerm, id: "5", want: "term_5"},
		{raw: "user_3", kind: SubjectUser, id: "3", want: "user_3"},
		{raw: "comment_9", kind: SubjectComment, id: "9", want: "comment_9"},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			subject, err := ParseSubject(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.kind, subject.Kind)
			assert.Equal(t, tc.id, subject.ID)
			id, err := subject.Identifier()
			require.NoError(t, err)
			assert.Equal(t, tc.want, id)
			assert.Equal(t, tc.want, subject.String())
		})
	}
}

func TestParseSubjectErrors(t *testing.T) {
	for _, raw := range []string{"", "0", "-4", "post_", "post_x", "widget_4", "term"} {
		_, err := ParseSubject(raw)
		assert.ErrorIs(t, err, ErrInvalidSubject, raw)
	}
	assert.Panics(t, func() { MustParseSubject("nope") })
}

func TestSubjectStorageKey(t *testing.T) {
	assert.Equal(t, "options_title", MustParseSubject("options").StorageKey("title"))
	assert.Equal(t, "title", MustParseSubject("post_1").StorageKey("title"))

	_, err := Subject{Kind: SubjectTerm}.Identifier()
	assert.ErrorIs(t, err, ErrInvalidSubject)
	assert.Equal(t, "invalid(term:)", Subject{Kind: SubjectTerm}.String())
}
