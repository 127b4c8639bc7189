package supabaseauth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// errorBody covers the error payload shapes used across GoTrue endpoints:
// older endpoints respond with {"code","msg"}, the token endpoint with
// {"error","error_description"}, and newer server versions add "error_code".
type errorBody struct {
	Code             int    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	ErrorField       string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (b errorBody) message() string {
	switch {
	case b.Msg != "":
		return b.Msg
	case b.ErrorDescription != "":
		return b.ErrorDescription
	default:
		return b.ErrorField
	}
}

// Error codes the server uses for rejected credentials and tokens. A 400
// carrying one of these is an authorization failure, not a malformed request.
var authFailureCodes = map[string]bool{
	"invalid_credentials":        true,
	"bad_jwt":                    true,
	"refresh_token_not_found":    true,
	"refresh_token_already_used": true,
	"session_not_found":          true,
	"session_expired":            true,
}

func (b errorBody) authFailure() bool {
	return authFailureCodes[b.ErrorCode] || b.ErrorField == "invalid_grant"
}

func (b errorBody) duplicateIdentifier() bool {
	switch b.ErrorCode {
	case "user_already_exists", "email_exists", "phone_exists":
		return true
	}
	return strings.Contains(strings.ToLower(b.Msg), "already registered")
}

func (b errorBody) rateLimited() bool {
	return strings.HasPrefix(b.ErrorCode, "over_") && strings.HasSuffix(b.ErrorCode, "_rate_limit")
}

// send issues one request and decodes a 2xx body into out (skipped when out
// is nil or the response has no body). apikey fills the apikey header; bearer,
// when non-empty, the Authorization header. Every failure comes back as an
// *Error classified per the taxonomy in errors.go.
func (c *Client) send(req *http.Request, apikey, bearer string, out any) *Error {
	req.Header.Set("apikey", apikey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", zap.String("path", req.URL.Path), zap.Error(err))
		return transportFailure(err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return transportFailure(err)
	}
	c.logger.Debug("response",
		zap.String("path", req.URL.Path),
		zap.Int("status", res.StatusCode),
		zap.ByteString("body", raw))

	if res.StatusCode < http.StatusOK || res.StatusCode >= 300 {
		return classify(res.StatusCode, raw)
	}
	if out == nil || res.StatusCode == http.StatusNoContent || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return decodeFailure("response body does not match expected shape", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, *Error) {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, invalidParams("request body is not serializable")
		}
		reqBody = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, invalidParams(err.Error())
	}
	return req, nil
}

// classify maps a non-2xx status and error body onto the error taxonomy.
// 400/422 are ambiguous on this API: the token endpoint reports rejected
// credentials as 400 and signup reports duplicates as 422, so the body's
// error code decides before the status does.
func classify(status int, raw []byte) *Error {
	var body errorBody
	_ = json.Unmarshal(raw, &body) // an undecodable error body falls through to the catch-all
	msg := body.message()

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &Error{Kind: KindNotAuthorized, Status: status, Message: msg}
	case http.StatusNotFound, http.StatusNotAcceptable:
		return &Error{Kind: KindNotFound, Status: status, Message: msg}
	case http.StatusConflict:
		return &Error{Kind: KindConflict, Status: status, Message: msg}
	case http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimited, Status: status, Message: msg}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		switch {
		case body.authFailure():
			return &Error{Kind: KindNotAuthorized, Status: status, Message: msg}
		case body.duplicateIdentifier():
			return &Error{Kind: KindConflict, Status: status, Message: msg}
		case body.rateLimited():
			return &Error{Kind: KindRateLimited, Status: status, Message: msg}
		}
	}
	return &Error{Kind: KindServerError, Status: status, Message: msg, Body: string(raw)}
}
