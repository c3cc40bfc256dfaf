package httpclient

import (
	nethttp "net/http"

	"github.com/gaborage/retrier/logger"
	"github.com/gaborage/retrier/retry"
)

// logRequest logs one outgoing attempt. Payloads go to debug only when enabled.
func (c *client) logRequest(req *nethttp.Request, body []byte, requestID string) {
	logEvent := c.logger.Info().
		Str("direction", "outbound").
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("request_id", requestID)

	if n := len(req.Header); n > 0 {
		logEvent = logEvent.Int("header_count", n)
	}
	if len(body) > 0 {
		logEvent = logEvent.Int("body_size", len(body))
	}
	logEvent.Msg("REST client request")

	if !c.config.LogPayloads {
		return
	}

	debugEvent := c.logger.Debug().
		Str("direction", "outbound").
		Str("method", req.Method).
		Str("request_id", requestID).
		Interface("headers", req.Header)
	debugEvent = c.withBodyPreview(debugEvent, body)
	debugEvent.Msg("REST client request")
}

// logResponse logs the response of one attempt
func (c *client) logResponse(resp *Response, requestID string) {
	logEvent := c.logger.Info().
		Str("direction", "inbound").
		Int("status", resp.StatusCode).
		Dur("elapsed", resp.Stats.ElapsedTime).
		Int64("call_count", resp.Stats.CallCount).
		Str("request_id", requestID)

	if resp.Stats.Attempts > 0 {
		logEvent = logEvent.Int("attempt", resp.Stats.Attempts)
	}
	if len(resp.Body) > 0 {
		logEvent = logEvent.Int("body_size", len(resp.Body))
	}
	logEvent.Msg("REST client response")

	if !c.config.LogPayloads {
		return
	}

	debugEvent := c.logger.Debug().
		Str("direction", "inbound").
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Interface("headers", resp.Headers)
	debugEvent = c.withBodyPreview(debugEvent, resp.Body)
	debugEvent.Msg("REST client response")
}

// logRetry is called before each wait
func (c *client) logRetry(call *callState, a retry.Attempt) {
	logEvent := c.logger.Warn().
		Str("method", call.method).
		Str("url", call.req.URL).
		Str("request_id", call.requestID).
		Int("attempt", a.Number).
		Int("remaining", a.Remaining).
		Dur("delay", a.Delay)

	if status, ok := StatusCodeOf(a.Err); ok {
		logEvent = logEvent.Int("status", status)
	}
	logEvent.Err(a.Err).Msg("REST client retrying request")
}

func (c *client) withBodyPreview(event logger.LogEvent, body []byte) logger.LogEvent {
	if len(body) == 0 {
		return event
	}
	limit := c.config.MaxPayloadLogBytes
	if limit <= 0 {
		limit = DefaultMaxPayloadLogBytes
	}
	truncated := len(body) > limit
	preview := body
	if truncated {
		preview = body[:limit]
	}
	return event.
		Int("body_size", len(body)).
		Str("body_truncated", boolString(truncated)).
		Bytes("body_preview", preview)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
