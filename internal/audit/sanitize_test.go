package audit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeError_RedactsLongNumbers(t *testing.T) {
	got := SanitizeError("constraint failed for id 1234567")
	assert.Equal(t, "constraint failed for id [ID_REDACTED]", got)
}

func TestSanitizeError_KeepsShortNumbers(t *testing.T) {
	// Four digits and fewer are error codes and line numbers, not identifiers.
	got := SanitizeError("syntax error at line 42, code 1045")
	assert.Equal(t, "syntax error at line 42, code 1045", got)
}

func TestSanitizeError_RedactsQuotedLiterals(t *testing.T) {
	got := SanitizeError("no such column 'zip_code' in table 'person'")
	assert.Equal(t, "no such column [VALUE_REDACTED] in table [VALUE_REDACTED]", got)
}

func TestSanitizeError_Truncates(t *testing.T) {
	got := SanitizeError(strings.Repeat("x", 500))
	assert.Len(t, got, 200)
}

func TestSanitizeError_Empty(t *testing.T) {
	assert.Equal(t, "", SanitizeError(""))
}

func TestSanitizeForUser_RedactsIdentifiers(t *testing.T) {
	got := SanitizeForUser("value 8675309 out of range")
	assert.Equal(t, "value [REDACTED] out of range", got)
}

func TestSanitizeForUser_RedactsLongQuotedValues(t *testing.T) {
	got := SanitizeForUser("cannot cast 'some rather long literal' to INTEGER")
	assert.Equal(t, "cannot cast '[VALUE_REDACTED]' to INTEGER", got)
	// Short quoted values (such as type names) survive.
	assert.Equal(t, "bad value 'abc'", SanitizeForUser("bad value 'abc'"))
}

func TestSanitizeForUser_RedactsPaths(t *testing.T) {
	got := SanitizeForUser("IO Error: cannot open /var/lib/omop/data.duckdb")
	assert.Equal(t, "IO Error: cannot open [PATH_REDACTED]", got)
}
