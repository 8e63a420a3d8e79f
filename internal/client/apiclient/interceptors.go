package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/ecoconnect/internal/client/tokenstore"
	"github.com/dmitrijs2005/ecoconnect/internal/common"
)

// Request is an outgoing call as seen by interceptors, before it is turned
// into an *http.Request. Body holds the already encoded JSON payload.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// Interceptor mutates an outgoing request. Returning an error aborts the
// call as a construction failure.
type Interceptor func(ctx context.Context, r *Request) error

// BearerToken attaches the stored token as an Authorization header. When the
// store is empty any Authorization header is removed.
func BearerToken(store tokenstore.Store) Interceptor {
	return func(ctx context.Context, r *Request) error {
		token, ok := store.Get(ctx)
		if !ok {
			r.Header.Del(common.AuthorizationHeader)
			return nil
		}
		r.Header.Set(common.AuthorizationHeader, common.BearerScheme+" "+token)
		return nil
	}
}

// StripUserField drops a top-level "user" key from JSON object payloads so
// identity data the client happens to hold is never written back to the
// server. Other payloads pass through untouched.
func StripUserField(_ context.Context, r *Request) error {
	body := bytes.TrimSpace(r.Body)
	if len(body) == 0 || body[0] != '{' {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil
	}
	if _, ok := fields["user"]; !ok {
		return nil
	}
	delete(fields, "user")

	scrubbed, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	r.Body = scrubbed
	return nil
}
