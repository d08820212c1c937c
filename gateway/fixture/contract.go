// SPDX-License-Identifier: ice License 1.0

package fixture

import (
	"net/http/httptest"
	"sync"
)

// Public API.

type (
	// Response is a scripted gateway reply.
	Response struct {
		Body       string
		StatusCode int
	}
	// Request is what the fake gateway observed.
	Request struct {
		Payload       map[string]any
		Method        string
		Path          string
		Authorization string
	}
	// Gateway is an in-process stand-in for the messaging gateway API.
	Gateway struct {
		*httptest.Server
		mx         *sync.Mutex
		sendQueue  []Response
		statusQ    []Response
		requests   []Request
		lastSend   Response
		lastStatus Response
	}
)
