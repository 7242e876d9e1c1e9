// Package dispatch implements the command engine: it resolves an incoming
// command to a registered application, applies the platform and user
// authentication gates, and validates the payloads exchanged with the
// application's triggers and actions.
package dispatch

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/botize/appserver/apps"
	"github.com/botize/appserver/server/appregistry"
	"github.com/botize/appserver/server/config"
	"github.com/botize/appserver/server/incoming"
	"github.com/botize/appserver/utils"
)

// commandFunc handles one protocol command against a resolved application.
type commandFunc func(r *incoming.Request, app apps.Application, params url.Values) (interface{}, error)

type command struct {
	// verb is the HTTP method the command must be issued with. Read-only
	// commands use GET, everything else POST; the mapping is an explicit
	// table, not inferred from the command name.
	verb    string
	handler commandFunc
}

type Service struct {
	registry *appregistry.Registry
	conf     config.Config
	log      utils.Logger

	commands map[string]command
}

func NewService(registry *appregistry.Registry, conf config.Config, log utils.Logger) *Service {
	s := &Service{
		registry: registry,
		conf:     conf,
		log:      log,
	}

	s.commands = map[string]command{
		"get_app_info":      {http.MethodGet, s.getAppInfo},
		"get_function_info": {http.MethodGet, s.getFunctionInfo},
		"get_image":         {http.MethodGet, s.getImage},

		"process_trigger": {http.MethodPost, s.processTrigger},
		"do_action":       {http.MethodPost, s.doAction},

		"authenticate_user":       {http.MethodPost, s.authenticateUser},
		"begin_authenticate_user": {http.MethodPost, s.beginAuthenticateUser},
		"end_authenticate_user":   {http.MethodPost, s.endAuthenticateUser},

		"validate_form_data": {http.MethodPost, s.validateFormData},
		"form_request":       {http.MethodPost, s.formRequest},
	}

	return s
}

// AuthChallengeError is returned when platform basic auth is required but no
// credentials were supplied. The transport layer turns it into a 401 with a
// WWW-Authenticate challenge naming the application as realm.
type AuthChallengeError struct {
	Realm string
}

func (e *AuthChallengeError) Error() string {
	return "Unauthorized"
}

// ProcessCommand runs one command through the engine: parameter checks,
// application resolution, verb/command match, platform auth, then the
// command handler. The returned value is one of the protocol's result
// shapes; the transport layer owns serialization.
func (s *Service) ProcessCommand(r *incoming.Request, verb string, params url.Values) (interface{}, error) {
	if verb != http.MethodGet && verb != http.MethodPost {
		return nil, utils.NewInvalidError("Invalid HTTP verb")
	}

	for _, name := range []string{"cmd", "app"} {
		if _, ok := param(params, name); !ok {
			return nil, utils.NewInvalidError("'%s' parameter is missing", name)
		}
	}

	cmdName, _ := param(params, "cmd")
	cmdName = strings.ToLower(cmdName)
	appName, _ := param(params, "app")

	r = r.WithAppID(apps.AppID(appName)).WithCommand(cmdName)

	app, err := s.registry.Resolve(apps.AppID(appName), r.Log)
	if err != nil {
		return nil, err
	}

	cmd, ok := s.commands[cmdName]
	if !ok {
		return nil, utils.NewInvalidError("Unknown command")
	}
	if cmd.verb != verb {
		return nil, utils.NewInvalidError("Invalid HTTP verb for this command")
	}

	if err = s.checkPlatformAuth(r, app); err != nil {
		return nil, err
	}

	r.Log.Debugw("processing command")

	return cmd.handler(r, app, params)
}

func (s *Service) checkPlatformAuth(r *incoming.Request, app apps.Application) error {
	m := app.Manifest()
	switch m.PlatformAuthMode {
	case apps.PlatformAuthNone:
		return nil

	case apps.PlatformAuthBasic:
		user, password, ok := r.BasicAuth()
		if !ok {
			return &AuthChallengeError{Realm: string(m.AppID)}
		}
		authenticator, ok := app.(apps.PlatformAuthenticator)
		if !ok {
			return fmt.Errorf("app %s declares basic platform auth but implements no credential check", m.AppID)
		}
		if !authenticator.PlatformCredentialsValid(user, password) {
			return utils.NewUnauthorizedError("Unauthorized")
		}
		return nil

	default:
		return fmt.Errorf("Unknown authentication mode")
	}
}

// errContract reports an application violating its output contract. It is
// not built on a sentinel, so it maps to HTTP 500: the fault is the
// provider's, never the caller's.
func errContract(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// param returns the first value of a request parameter and whether it was
// present at all.
func param(params url.Values, name string) (string, bool) {
	vv, ok := params[name]
	if !ok || len(vv) == 0 {
		return "", false
	}
	return vv[0], true
}
