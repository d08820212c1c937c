// SPDX-License-Identifier: ice License 1.0

package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/imroc/req/v3"
	"github.com/pkg/errors"

	appcfg "github.com/ice-blockchain/rent-reminder/config"
	"github.com/ice-blockchain/rent-reminder/log"
	"github.com/ice-blockchain/rent-reminder/terror"
)

func New(applicationYAMLKey, token string) Client {
	var cfg Config
	appcfg.MustLoadFromKey(applicationYAMLKey, &cfg)
	if fromEnv := strings.TrimSpace(os.Getenv(baseURLEnv)); fromEnv != "" {
		cfg.BaseURL = fromEnv
	}

	return NewWithConfig(&cfg, token)
}

func NewWithConfig(cfg *Config, token string) Client {
	normalized := *cfg
	normalized.BaseURL = strings.TrimSpace(normalized.BaseURL)
	if normalized.BaseURL == "" {
		normalized.BaseURL = defaultBaseURL
	}
	normalized.BaseURL = strings.TrimSuffix(normalized.BaseURL, "/")
	if normalized.SendTimeout <= 0 {
		normalized.SendTimeout = defaultSendTimeout
	}
	if normalized.StatusTimeout <= 0 {
		normalized.StatusTimeout = defaultStatusTimeout
	}

	return &whapi{
		cfg: &normalized,
		client: req.C().
			SetJsonMarshal(json.Marshal).
			SetJsonUnmarshal(json.Unmarshal).
			SetCommonBearerAuthToken(strings.TrimSpace(token)).
			SetCommonHeader("Accept", "application/json"),
	}
}

// NewMessage renders the body; with mentions the display name is appended as an `@` token,
// the mentions list is what makes the gateway link it to a participant.
func NewMessage(to, text, displayName string, mentionIDs ...string) *Message {
	msg := &Message{To: to, Body: text}
	if len(mentionIDs) == 0 {
		return msg
	}
	msg.Mentions = append(make([]string, 0, len(mentionIDs)), mentionIDs...)
	if displayName != "" {
		msg.Body = fmt.Sprintf("%v @%v", text, displayName)
	}

	return msg
}

func (w *whapi) Send(ctx context.Context, msg *Message) (*SendResult, error) {
	if ctx.Err() != nil {
		return nil, errors.Wrap(ctx.Err(), "context error")
	}
	log.Info(fmt.Sprintf("%v Sending to %v...", log.TagSend, msg.To))
	log.Debug(fmt.Sprintf("%v Payload: %#v", log.TagDebug, *msg))
	reqCtx, cancel := context.WithTimeout(ctx, w.cfg.SendTimeout)
	defer cancel()
	endpoint := w.cfg.BaseURL + "/messages/text"
	resp, err := w.buildHTTPRequest(reqCtx).SetBodyJsonMarshal(msg).Post(endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "gateway post `%v` failed", endpoint)
	}
	body, err := resp.ToBytes()
	if err != nil {
		return nil, errors.Wrapf(err, "gateway post `%v` failed, unable to read response body", endpoint)
	}
	log.Info(fmt.Sprintf("%v %v %v", log.TagHTTP, resp.GetStatusCode(), truncate(body)))
	if resp.GetStatusCode() != http.StatusOK {
		return nil, errors.Wrapf(terror.New(ErrGatewayRejected, map[string]any{
			"statusCode": resp.GetStatusCode(),
			"body":       string(body),
		}), "check token, group id or mention format")
	}
	var parsed sendResponse
	if err = json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrapf(terror.New(ErrMalformedResponse, map[string]any{
			"statusCode": resp.GetStatusCode(),
			"body":       string(body),
		}), "unmarshalling send response failed: %v", err)
	}
	result := &SendResult{StatusCode: resp.GetStatusCode()}
	if parsed.Message != nil {
		result.MessageID = parsed.Message.ID
	}

	return result, nil
}

func (w *whapi) Status(ctx context.Context, messageID string) (*Observation, error) {
	if ctx.Err() != nil {
		return nil, errors.Wrap(ctx.Err(), "context error")
	}
	reqCtx, cancel := context.WithTimeout(ctx, w.cfg.StatusTimeout)
	defer cancel()
	endpoint := w.cfg.BaseURL + "/messages/" + url.PathEscape(messageID)
	resp, err := w.buildHTTPRequest(reqCtx).Get(endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "gateway get `%v` failed", endpoint)
	}
	body, err := resp.ToBytes()
	if err != nil {
		return nil, errors.Wrapf(err, "gateway get `%v` failed, unable to read response body", endpoint)
	}
	obs := &Observation{MessageID: messageID, StatusCode: resp.GetStatusCode()}
	if resp.GetStatusCode() != http.StatusOK {
		return obs, errors.Wrapf(terror.New(ErrGatewayRejected, map[string]any{
			"statusCode": resp.GetStatusCode(),
			"body":       truncate(body),
		}), "status check for %v", messageID)
	}
	var parsed statusResponse
	if err = json.Unmarshal(body, &parsed); err != nil {
		return obs, errors.Wrapf(terror.New(ErrMalformedResponse, map[string]any{
			"body": truncate(body),
		}), "unmarshalling status response failed: %v", err)
	}
	obs.Status = strings.TrimSpace(parsed.Status)

	return obs, nil
}

func (w *whapi) buildHTTPRequest(ctx context.Context) *req.Request {
	return w.client.R().
		SetContext(ctx).
		SetContentType("application/json")
}

func truncate(body []byte) string {
	if len(body) <= maxLoggedBodyLength {
		return string(body)
	}

	return string(body[:maxLoggedBodyLength]) + "..."
}
