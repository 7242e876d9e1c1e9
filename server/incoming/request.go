package incoming

import (
	"context"

	"github.com/google/uuid"

	"github.com/botize/appserver/apps"
	"github.com/botize/appserver/utils"
)

// Request carries the per-request context through the dispatch engine: a
// request-scoped logger and the identity of the command being processed.
// Nothing in it outlives the HTTP request.
type Request struct {
	ctx       context.Context
	requestID string

	Log utils.Logger

	appID   apps.AppID
	command string

	// HTTP basic credentials supplied by the platform, when any.
	basicUser     string
	basicPassword string
	hasBasicAuth  bool
}

func NewRequest(ctx context.Context, log utils.Logger) *Request {
	requestID := uuid.NewString()
	return &Request{
		ctx:       ctx,
		requestID: requestID,
		Log:       log.With("request_id", requestID),
	}
}

// Clone creates a shallow copy of the request, allowing clones to apply
// per-request changes.
func (r *Request) Clone() *Request {
	clone := *r
	return &clone
}

func (r *Request) Ctx() context.Context {
	return r.ctx
}

func (r *Request) RequestID() string {
	return r.requestID
}

func (r *Request) AppID() apps.AppID {
	return r.appID
}

func (r *Request) WithAppID(appID apps.AppID) *Request {
	r = r.Clone()
	r.appID = appID
	r.Log = r.Log.With("app", appID)
	return r
}

func (r *Request) Command() string {
	return r.command
}

func (r *Request) WithCommand(command string) *Request {
	r = r.Clone()
	r.command = command
	r.Log = r.Log.With("cmd", command)
	return r
}

// BasicAuth returns the platform's HTTP basic credentials and whether any
// were supplied.
func (r *Request) BasicAuth() (user, password string, ok bool) {
	return r.basicUser, r.basicPassword, r.hasBasicAuth
}

func (r *Request) WithBasicAuth(user, password string) *Request {
	r = r.Clone()
	r.basicUser = user
	r.basicPassword = password
	r.hasBasicAuth = true
	return r
}
