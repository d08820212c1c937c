// SPDX-License-Identifier: ice License 1.0

package log

import (
	"github.com/rs/zerolog"
)

// Public API.

// Diagnostic tags prefixed to console messages.
const (
	TagError  = "[error]"
	TagWarn   = "[warn]"
	TagInfo   = "[info]"
	TagSend   = "[send]"
	TagHTTP   = "[http]"
	TagStatus = "[status]"
	TagSkip   = "[skip]"
	TagDebug  = "[debug]"
)

// Private API.

const (
	stackFramesToSkip = 2
	defaultLevel      = zerolog.InfoLevel
	jsonEncoder       = "json"
)

type (
	cfg struct {
		Encoder string `yaml:"encoder" mapstructure:"encoder"`
		Level   string `yaml:"level" mapstructure:"level"`
	}
)
