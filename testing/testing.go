// SPDX-License-Identifier: ice License 1.0

package testing

import (
	"bytes"
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func GIVEN(_ string, logic func()) {
	logic()
}

func WHEN(_ string, logic func()) {
	logic()
}

func THEN(logic func()) {
	logic()
}

func IT(_ string, logic func()) {
	logic()
}

func AND(_ string, logic func()) {
	logic()
}

// AssertJSONEqual compares val, once marshalled, with the expected JSON document, ignoring formatting.
func AssertJSONEqual(tb testing.TB, expected string, val any) {
	tb.Helper()
	expectedCompacted := new(bytes.Buffer)
	require.NoError(tb, json.Compact(expectedCompacted, []byte(expected)))
	assert.JSONEq(tb, expectedCompacted.String(), MustMarshal(tb, val))
}

func MustMarshal(tb testing.TB, val any) string {
	tb.Helper()
	valueBytes, err := json.MarshalContext(context.Background(), val)
	require.NoError(tb, err)

	return string(valueBytes)
}
