package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataForKnownCodes(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeStateConflict, http.StatusUnprocessableEntity},
		{CodeEmptyCart, http.StatusUnprocessableEntity},
		{CodeRateLimit, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
		{CodeDependency, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		meta := MetadataFor(tc.code)
		assert.Equal(t, tc.status, meta.HTTPStatus, "code %s", tc.code)
		assert.NotEmpty(t, meta.PublicMessage, "code %s", tc.code)
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap(CodeDependency, cause, "load pet")

	require.NotNil(t, err)
	assert.Equal(t, CodeDependency, err.Code())
	assert.Equal(t, "load pet", err.Message())
	assert.ErrorIs(t, err, cause)
}

func TestAsUnwrapsNestedTypedError(t *testing.T) {
	inner := New(CodeNotFound, "pet not found")
	wrapped := fmt.Errorf("outer: %w", inner)

	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodeNotFound, typed.Code())

	assert.Nil(t, As(fmt.Errorf("plain")))
	assert.Nil(t, As(nil))
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "validation failed").WithDetails(map[string]string{"quantity": "must be at least 1"})
	require.NotNil(t, err)
	assert.NotNil(t, err.Details())
}

func TestDumpCollectsChain(t *testing.T) {
	cause := fmt.Errorf("db down")
	err := Wrap(CodeDependency, cause, "list cart")

	d := Dump(err)
	assert.Equal(t, CodeDependency, d.Code)
	assert.Len(t, d.Chain, 2)
	assert.Contains(t, d.TopMessage, "list cart")
}
