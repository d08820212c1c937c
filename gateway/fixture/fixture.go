// SPDX-License-Identifier: ice License 1.0

package fixture

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
)

// New starts a fake gateway that is closed together with tb.
// Without scripted responses sends answer 200 {"sent":true} and status checks answer 200 {"status":"pending"}.
func New(tb testing.TB) *Gateway {
	tb.Helper()
	g := &Gateway{
		mx:         new(sync.Mutex),
		lastSend:   Response{StatusCode: http.StatusOK, Body: `{"sent":true}`},
		lastStatus: Response{StatusCode: http.StatusOK, Body: `{"status":"pending"}`},
	}
	g.Server = httptest.NewServer(http.HandlerFunc(g.serve))
	tb.Cleanup(g.Close)

	return g
}

// ScriptSend queues replies for POST /messages/text; the last one repeats once the queue drains.
func (g *Gateway) ScriptSend(responses ...Response) *Gateway {
	g.mx.Lock()
	defer g.mx.Unlock()
	g.sendQueue = append(g.sendQueue, responses...)

	return g
}

// ScriptStatus queues replies for GET /messages/{id}; the last one repeats once the queue drains.
func (g *Gateway) ScriptStatus(responses ...Response) *Gateway {
	g.mx.Lock()
	defer g.mx.Unlock()
	g.statusQ = append(g.statusQ, responses...)

	return g
}

// StatusSequence scripts 200 replies carrying the given statuses in order.
func (g *Gateway) StatusSequence(statuses ...string) *Gateway {
	responses := make([]Response, 0, len(statuses))
	for _, status := range statuses {
		body, _ := json.Marshal(map[string]string{"status": status}) //nolint:errchkjson // Can't fail.
		responses = append(responses, Response{StatusCode: http.StatusOK, Body: string(body)})
	}

	return g.ScriptStatus(responses...)
}

func (g *Gateway) Requests() []Request {
	g.mx.Lock()
	defer g.mx.Unlock()

	return append(make([]Request, 0, len(g.requests)), g.requests...)
}

func (g *Gateway) Sends() []Request {
	return g.filter(http.MethodPost)
}

func (g *Gateway) StatusChecks() []Request {
	return g.filter(http.MethodGet)
}

func (g *Gateway) filter(method string) []Request {
	var res []Request
	for _, r := range g.Requests() {
		if r.Method == method {
			res = append(res, r)
		}
	}

	return res
}

func (g *Gateway) serve(w http.ResponseWriter, r *http.Request) {
	observed := Request{Method: r.Method, Path: r.URL.Path, Authorization: r.Header.Get("Authorization")}
	if raw, err := io.ReadAll(r.Body); err == nil && len(raw) > 0 {
		observed.Payload = make(map[string]any)
		if uErr := json.Unmarshal(raw, &observed.Payload); uErr != nil {
			observed.Payload = nil
		}
	}
	g.mx.Lock()
	g.requests = append(g.requests, observed)
	var resp Response
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/messages/text":
		resp, g.sendQueue, g.lastSend = next(g.sendQueue, g.lastSend)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/messages/"):
		resp, g.statusQ, g.lastStatus = next(g.statusQ, g.lastStatus)
	default:
		resp = Response{StatusCode: http.StatusNotFound, Body: `{"error":"not found"}`}
	}
	g.mx.Unlock()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	_, _ = io.WriteString(w, resp.Body) //nolint:errcheck // Nothing to do about it in a fake.
}

func next(queue []Response, last Response) (resp Response, rest []Response, newLast Response) {
	if len(queue) == 0 {
		return last, queue, last
	}

	return queue[0], queue[1:], queue[0]
}
