package dispatch

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/botize/appserver/apps"
	"github.com/botize/appserver/server/appregistry"
	"github.com/botize/appserver/server/config"
	"github.com/botize/appserver/server/incoming"
	"github.com/botize/appserver/utils"
	"github.com/botize/appserver/utils/httputils"
)

// testApp is a configurable fixture implementing every optional contract
// interface. Which of them gets consulted is governed by the manifest, as
// for a real application.
type testApp struct {
	manifest  apps.Manifest
	functions []apps.Function

	platformValid func(user, password string) bool
	validateUser  func(userID, password string) (apps.CredentialsCheckResult, error)
	begin         func(callback string) (*apps.BeginAuthenticateUserOutput, error)
	end           func(serviceData map[string]interface{}, savedTempData interface{}) (*apps.EndAuthenticateUserOutput, error)
	validateForm  func(req apps.FormRequest) ([]string, error)
	formRequest   func(req apps.FormRequest, input string) (string, error)
	image         func(name string) ([]byte, error)
}

func (a *testApp) Manifest() apps.Manifest    { return a.manifest }
func (a *testApp) Functions() []apps.Function { return a.functions }

func (a *testApp) PlatformCredentialsValid(user, password string) bool {
	if a.platformValid == nil {
		return false
	}
	return a.platformValid(user, password)
}

func (a *testApp) ValidateUserCredentials(userID, password string) (apps.CredentialsCheckResult, error) {
	if a.validateUser == nil {
		return apps.InvalidCredentials(), nil
	}
	return a.validateUser(userID, password)
}

func (a *testApp) BeginAuthenticateUser(callback string) (*apps.BeginAuthenticateUserOutput, error) {
	if a.begin == nil {
		return nil, nil
	}
	return a.begin(callback)
}

func (a *testApp) EndAuthenticateUser(serviceData map[string]interface{}, savedTempData interface{}) (*apps.EndAuthenticateUserOutput, error) {
	if a.end == nil {
		return nil, nil
	}
	return a.end(serviceData, savedTempData)
}

func (a *testApp) ValidateFormData(req apps.FormRequest) ([]string, error) {
	if a.validateForm == nil {
		return nil, nil
	}
	return a.validateForm(req)
}

func (a *testApp) HandleFormRequest(req apps.FormRequest, input string) (string, error) {
	if a.formRequest == nil {
		return "", nil
	}
	return a.formRequest(req, input)
}

func (a *testApp) GetImage(name string) ([]byte, error) {
	if a.image == nil {
		return nil, nil
	}
	return a.image(name)
}

func okHandler(in apps.FunctionInputData) (*apps.FunctionOutputData, error) {
	return apps.NewFunctionOutput(), nil
}

// newDemoApp returns a fixture with one trigger and one action, languages
// en+es, and no authentication.
func newDemoApp() *testApp {
	return &testApp{
		manifest: apps.Manifest{
			AppID:            "demo",
			PlatformAuthMode: apps.PlatformAuthNone,
			UserAuthMode:     apps.UserAuthNone,
			Languages:        []string{"en", "es"},
			Titles: map[string]string{
				"en": "Demo",
				"es": "Demostración",
			},
		},
		functions: []apps.Function{
			{
				Type:    apps.FunctionTrigger,
				Name:    "new_item",
				Handler: okHandler,
				Texts: map[string]apps.FunctionTexts{
					"en": {Caption: "New item"},
					"es": {Caption: "Nuevo elemento"},
				},
				OutputVars: []apps.Var{
					{Name: "title", Type: "text"},
					{Name: "url", Type: "url"},
				},
				MaxPollInterval: "30m",
			},
			{
				Type:    apps.FunctionAction,
				Name:    "send_item",
				Handler: okHandler,
				Form:    `{{txt_to}}:<br/><input type="text" name="to"/>`,
				Texts: map[string]apps.FunctionTexts{
					"en": {Caption: "Send item", Form: map[string]string{"txt_to": "To"}},
					"es": {Caption: "Enviar elemento", Form: map[string]string{"txt_to": "Para"}},
				},
				InputVars: []apps.Var{
					{Name: "title", Type: "text"},
					{Name: "tags", Type: "text", Optional: true},
				},
			},
		},
	}
}

func newTestService(t *testing.T, app *testApp) *Service {
	t.Helper()

	registry := appregistry.NewRegistry()
	err := registry.Register(app.manifest.AppID,
		func(apps.Settings, utils.Logger) (apps.Application, error) {
			return app, nil
		}, nil)
	require.NoError(t, err)

	return NewService(registry, config.Config{}, utils.NewNilLogger())
}

func newTestRequest() *incoming.Request {
	return incoming.NewRequest(context.Background(), utils.NewNilLogger())
}

func commandParams(cmd, app string, extra ...string) url.Values {
	params := url.Values{}
	if cmd != "" {
		params.Set("cmd", cmd)
	}
	if app != "" {
		params.Set("app", app)
	}
	for i := 0; i+1 < len(extra); i += 2 {
		params.Set(extra[i], extra[i+1])
	}
	return params
}

func requireStatus(t *testing.T, err error, status int, contains string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, status, httputils.ErrorToStatus(err))
	if contains != "" {
		require.Contains(t, err.Error(), contains)
	}
}
