package votetoken

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var shape = regexp.MustCompile(`^VOTE-[0-9A-Z]{4}-[0-9A-Z]{4}$`)

func TestGenerate_Deterministic(t *testing.T) {
	const ts = int64(1700000000000)

	first := Generate("john doe", ts)
	assert.Regexp(t, shape, first)

	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Generate("john doe", ts))
	}
}

func TestGenerate_NameNormalization(t *testing.T) {
	const ts = int64(1700000000000)

	want := Generate("john doe", ts)
	assert.Equal(t, want, Generate("JOHN DOE", ts))
	assert.Equal(t, want, Generate("  John   Doe  ", ts))
	assert.Equal(t, want, Generate("John\tDoe", ts))
}

func TestGenerate_DistinctInputsDiffer(t *testing.T) {
	const ts = int64(1700000000000)

	assert.NotEqual(t, Generate("john doe", ts), Generate("jane doe", ts))
	// Even one millisecond apart.
	assert.NotEqual(t, Generate("john doe", ts), Generate("john doe", ts+1))
}

func TestGenerate_EdgeInputs(t *testing.T) {
	// None of these may panic, and all must keep the shape.
	assert.Regexp(t, shape, Generate("", 0))
	assert.Regexp(t, shape, Generate("", 1700000000000))
	assert.Regexp(t, shape, Generate(strings.Repeat("constantine ", 50), 0))
	assert.Regexp(t, shape, Generate("   ", 42))
}

func TestIsValidFormat(t *testing.T) {
	valid := []string{
		"VOTE-ABCD-1234",
		"VOTE-0000-ZZZZ",
		"VOTE-A1B2-C3D4",
	}
	for _, tok := range valid {
		assert.Truef(t, IsValidFormat(tok), "expected %q valid", tok)
	}

	invalid := []string{
		"",
		"VOTE-abcd-1234",  // lowercase
		"vote-ABCD-1234",  // lowercase prefix
		"VOTE-ABC-1234",   // 3-char segment
		"VOTE-ABCDE-1234", // 5-char segment
		"VOTE-ABCD-123",   // short second segment
		"VOTE-ABCD-12345", // long second segment
		"ABCD-1234",       // missing prefix
		"NOTE-ABCD-1234",  // wrong prefix
		"VOTE-ABCD-1234-EF5G", // extra segment
		"VOTE-AB!D-1234",  // non-alphanumeric
		"VOTE-ABCD 1234",  // missing separator
		"VOTEABCD1234",
		" VOTE-ABCD-1234",
		"VOTE-ABCD-1234 ",
	}
	for _, tok := range invalid {
		assert.Falsef(t, IsValidFormat(tok), "expected %q invalid", tok)
	}
}

func TestGeneratedTokensPassFormatCheck(t *testing.T) {
	names := []string{"", "a", "John Doe", "Ayşe Yılmaz", strings.Repeat("x", 300)}
	for i, name := range names {
		tok := Generate(name, int64(i)*1257894000000)
		assert.Truef(t, IsValidFormat(tok), "token %q for name %q", tok, name)
	}
}
