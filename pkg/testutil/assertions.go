package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RequireNoError fails the test immediately if err is not nil.
func RequireNoError(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()
	require.NoError(t, err, msgAndArgs...)
}

// AssertErrorContains checks that err contains the expected substring.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), expected)
}

// AssertErrorBody decodes an error response body and checks its kind and field.
func AssertErrorBody(t *testing.T, body []byte, kind, field string) {
	t.Helper()

	var resp struct {
		Error string `json:"error"`
		Kind  string `json:"kind"`
		Field string `json:"field"`
	}
	require.NoError(t, json.Unmarshal(body, &resp), "body: %s", body)
	assert.Equal(t, kind, resp.Kind)
	assert.Equal(t, field, resp.Field)
	assert.NotEmpty(t, resp.Error)
}
