// SPDX-License-Identifier: ice License 1.0

package gateway

import (
	"context"
	stdlibtime "time"

	"github.com/imroc/req/v3"
	"github.com/pkg/errors"
)

// Public API.

const (
	GroupSuffix = "@g.us"
)

var (
	ErrGatewayRejected   = errors.New("gateway rejected the request")
	ErrMalformedResponse = errors.New("gateway response is not valid json")
)

type (
	Message struct {
		To       string   `json:"to"`
		Body     string   `json:"body"`
		Mentions []string `json:"mentions,omitempty"`
	}
	SendResult struct {
		MessageID  string
		StatusCode int
	}
	Observation struct {
		MessageID  string
		Status     string
		StatusCode int
	}
	Client interface {
		Send(ctx context.Context, msg *Message) (*SendResult, error)
		Status(ctx context.Context, messageID string) (*Observation, error)
	}
	Config struct {
		BaseURL       string              `yaml:"baseUrl" mapstructure:"baseUrl"`
		SendTimeout   stdlibtime.Duration `yaml:"sendTimeout" mapstructure:"sendTimeout"`
		StatusTimeout stdlibtime.Duration `yaml:"statusTimeout" mapstructure:"statusTimeout"`
	}
)

// Private API.

const (
	defaultBaseURL       = "https://gate.whapi.cloud"
	baseURLEnv           = "WHAPI_BASE_URL"
	defaultSendTimeout   = 30 * stdlibtime.Second
	defaultStatusTimeout = 15 * stdlibtime.Second
	maxLoggedBodyLength  = 2048
)

type (
	whapi struct {
		cfg    *Config
		client *req.Client
	}
	sendResponse struct {
		Message *struct {
			ID string `json:"id"`
		} `json:"message"`
	}
	statusResponse struct {
		Status string `json:"status"`
	}
)
