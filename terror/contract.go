// SPDX-License-Identifier: ice License 1.0

package terror

// Public API.

type (
	// Err is an error enriched with diagnostic data (status codes, offending values, response bodies).
	Err struct {
		error
		Data map[string]any `json:"data"`
	}
)
