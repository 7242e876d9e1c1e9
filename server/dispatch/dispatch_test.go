package dispatch

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/botize/appserver/apps"
)

func TestProcessCommandRejectsInvalidVerb(t *testing.T) {
	s := newTestService(t, newDemoApp())

	_, err := s.ProcessCommand(newTestRequest(), http.MethodPut, commandParams("get_app_info", "demo"))
	requireStatus(t, err, http.StatusBadRequest, "Invalid HTTP verb")
}

func TestProcessCommandRequiresParameters(t *testing.T) {
	s := newTestService(t, newDemoApp())

	_, err := s.ProcessCommand(newTestRequest(), http.MethodGet, commandParams("", "demo"))
	requireStatus(t, err, http.StatusBadRequest, "'cmd' parameter is missing")

	_, err = s.ProcessCommand(newTestRequest(), http.MethodGet, commandParams("get_app_info", ""))
	requireStatus(t, err, http.StatusBadRequest, "'app' parameter is missing")
}

func TestProcessCommandUnknownApp(t *testing.T) {
	s := newTestService(t, newDemoApp())

	_, err := s.ProcessCommand(newTestRequest(), http.MethodGet, commandParams("get_app_info", "nosuch"))
	requireStatus(t, err, http.StatusBadRequest, "Unknown application")
}

func TestProcessCommandUnknownCommand(t *testing.T) {
	s := newTestService(t, newDemoApp())

	_, err := s.ProcessCommand(newTestRequest(), http.MethodPost, commandParams("reticulate", "demo"))
	requireStatus(t, err, http.StatusBadRequest, "Unknown command")
}

func TestProcessCommandVerbTable(t *testing.T) {
	s := newTestService(t, newDemoApp())

	// Read commands must come in over GET, everything else over POST.
	for cmd, verb := range map[string]string{
		"get_app_info":            http.MethodGet,
		"get_function_info":       http.MethodGet,
		"get_image":               http.MethodGet,
		"process_trigger":         http.MethodPost,
		"do_action":               http.MethodPost,
		"authenticate_user":       http.MethodPost,
		"begin_authenticate_user": http.MethodPost,
		"end_authenticate_user":   http.MethodPost,
		"validate_form_data":      http.MethodPost,
		"form_request":            http.MethodPost,
	} {
		wrong := http.MethodGet
		if verb == http.MethodGet {
			wrong = http.MethodPost
		}
		_, err := s.ProcessCommand(newTestRequest(), wrong, commandParams(cmd, "demo"))
		requireStatus(t, err, http.StatusBadRequest, "Invalid HTTP verb for this command")
	}
}

func TestProcessCommandIsCaseInsensitive(t *testing.T) {
	s := newTestService(t, newDemoApp())

	result, err := s.ProcessCommand(newTestRequest(), http.MethodGet, commandParams("GET_App_Info", "demo"))
	require.NoError(t, err)
	require.IsType(t, &AppInfo{}, result)
}

func TestPlatformAuthGate(t *testing.T) {
	app := newDemoApp()
	app.manifest.PlatformAuthMode = apps.PlatformAuthBasic
	app.platformValid = func(user, password string) bool {
		return user == "theBotize!" && password == "thePassword!"
	}
	s := newTestService(t, app)
	params := commandParams("get_app_info", "demo")

	t.Run("no credentials challenges", func(t *testing.T) {
		_, err := s.ProcessCommand(newTestRequest(), http.MethodGet, params)
		require.Error(t, err)
		challenge, ok := err.(*AuthChallengeError)
		require.True(t, ok, "expected an AuthChallengeError, got %v", err)
		require.Equal(t, "demo", challenge.Realm)
	})

	t.Run("wrong credentials rejected", func(t *testing.T) {
		r := newTestRequest().WithBasicAuth("theBotize!", "wrong")
		_, err := s.ProcessCommand(r, http.MethodGet, params)
		requireStatus(t, err, http.StatusUnauthorized, "Unauthorized")
	})

	t.Run("valid credentials pass", func(t *testing.T) {
		r := newTestRequest().WithBasicAuth("theBotize!", "thePassword!")
		_, err := s.ProcessCommand(r, http.MethodGet, params)
		require.NoError(t, err)
	})

	t.Run("gate runs before command-specific logic", func(t *testing.T) {
		// Even a malformed command request gets the 401 first.
		_, err := s.ProcessCommand(newTestRequest(), http.MethodGet, commandParams("get_function_info", "demo"))
		_, ok := err.(*AuthChallengeError)
		require.True(t, ok, "expected an AuthChallengeError, got %v", err)
	})
}

func TestPlatformAuthNoneSkipsCheck(t *testing.T) {
	s := newTestService(t, newDemoApp())

	// Credentials on an unauthenticated app are ignored.
	r := newTestRequest().WithBasicAuth("any", "thing")
	_, err := s.ProcessCommand(r, http.MethodGet, commandParams("get_app_info", "demo"))
	require.NoError(t, err)
}
