package appregistry

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/botize/appserver/apps"
	"github.com/botize/appserver/utils"
)

type registryApp struct {
	manifest  apps.Manifest
	functions []apps.Function
}

func (a *registryApp) Manifest() apps.Manifest    { return a.manifest }
func (a *registryApp) Functions() []apps.Function { return a.functions }

type credentialsApp struct {
	registryApp
}

func (a *credentialsApp) ValidateUserCredentials(userID, password string) (apps.CredentialsCheckResult, error) {
	return apps.InvalidCredentials(), nil
}

func okHandler(in apps.FunctionInputData) (*apps.FunctionOutputData, error) {
	return apps.NewFunctionOutput(), nil
}

func validManifest(id apps.AppID) apps.Manifest {
	return apps.Manifest{
		AppID:            id,
		PlatformAuthMode: apps.PlatformAuthNone,
		UserAuthMode:     apps.UserAuthNone,
		Languages:        []string{"en"},
		Titles:           map[string]string{"en": "Test"},
	}
}

func factoryFor(app apps.Application) apps.Factory {
	return func(apps.Settings, utils.Logger) (apps.Application, error) {
		return app, nil
	}
}

func TestRegisterAndResolve(t *testing.T) {
	reg := NewRegistry()
	app := &registryApp{
		manifest: validManifest("alpha"),
		functions: []apps.Function{
			{Type: apps.FunctionTrigger, Name: "tick", Handler: okHandler},
		},
	}
	require.NoError(t, reg.Register("alpha", factoryFor(app), nil))

	resolved, err := reg.Resolve("alpha", utils.NewNilLogger())
	require.NoError(t, err)
	require.Equal(t, apps.AppID("alpha"), resolved.Manifest().AppID)

	_, err = reg.Resolve("nosuch", utils.NewNilLogger())
	require.Error(t, err)
	require.Equal(t, utils.ErrInvalid, errors.Cause(err))
}

func TestRegisterRejectsInvalidID(t *testing.T) {
	reg := NewRegistry()
	app := &registryApp{manifest: validManifest("ok")}

	for _, id := range []apps.AppID{"", "ab", "has space", "UPPER CASE!"} {
		err := reg.Register(id, factoryFor(app), nil)
		require.Error(t, err, "id %q", id)
	}
}

func TestRegisterRejectsNilFactory(t *testing.T) {
	reg := NewRegistry()
	require.Error(t, reg.Register("alpha", nil, nil))
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	reg := NewRegistry()
	app := &registryApp{manifest: validManifest("alpha")}

	require.NoError(t, reg.Register("alpha", factoryFor(app), nil))
	err := reg.Register("alpha", factoryFor(app), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already registered")
}

func TestRegisterValidatesManifest(t *testing.T) {
	reg := NewRegistry()

	t.Run("id mismatch", func(t *testing.T) {
		app := &registryApp{manifest: validManifest("other")}
		err := reg.Register("alpha", factoryFor(app), nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), "manifest declares app id")
	})

	t.Run("missing languages", func(t *testing.T) {
		m := validManifest("beta")
		m.Languages = nil
		err := reg.Register("beta", factoryFor(&registryApp{manifest: m}), nil)
		require.Error(t, err)
	})

	t.Run("auth mode without authenticator", func(t *testing.T) {
		m := validManifest("gamma")
		m.UserAuthMode = apps.UserAuthCredentials
		err := reg.Register("gamma", factoryFor(&registryApp{manifest: m}), nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), "requires a UserAuthenticator")

		// The same manifest passes once the interface is implemented.
		app := &credentialsApp{registryApp{manifest: m}}
		require.NoError(t, reg.Register("gamma", factoryFor(app), nil))
	})
}

func TestRegisterValidatesFunctions(t *testing.T) {
	reg := NewRegistry()

	t.Run("invalid function", func(t *testing.T) {
		app := &registryApp{
			manifest: validManifest("alpha"),
			functions: []apps.Function{
				{Type: apps.FunctionTrigger, Name: "Bad Name", Handler: okHandler},
			},
		}
		require.Error(t, reg.Register("alpha", factoryFor(app), nil))
	})

	t.Run("duplicate function", func(t *testing.T) {
		app := &registryApp{
			manifest: validManifest("beta"),
			functions: []apps.Function{
				{Type: apps.FunctionTrigger, Name: "tick", Handler: okHandler},
				{Type: apps.FunctionTrigger, Name: "tick", Handler: okHandler},
			},
		}
		err := reg.Register("beta", factoryFor(app), nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), "duplicate function")
	})

	t.Run("same name different type is allowed", func(t *testing.T) {
		app := &registryApp{
			manifest: validManifest("gamma"),
			functions: []apps.Function{
				{Type: apps.FunctionTrigger, Name: "sync", Handler: okHandler},
				{Type: apps.FunctionAction, Name: "sync", Handler: okHandler},
			},
		}
		require.NoError(t, reg.Register("gamma", factoryFor(app), nil))
	})
}

func TestResolveConstructsFreshInstances(t *testing.T) {
	reg := NewRegistry()
	calls := 0
	factory := func(apps.Settings, utils.Logger) (apps.Application, error) {
		calls++
		return &registryApp{manifest: validManifest("alpha")}, nil
	}
	require.NoError(t, reg.Register("alpha", factory, nil))
	require.Equal(t, 1, calls)

	_, err := reg.Resolve("alpha", utils.NewNilLogger())
	require.NoError(t, err)
	_, err = reg.Resolve("alpha", utils.NewNilLogger())
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestResolvePassesSettings(t *testing.T) {
	reg := NewRegistry()
	var seen apps.Settings
	factory := func(settings apps.Settings, _ utils.Logger) (apps.Application, error) {
		seen = settings
		return &registryApp{manifest: validManifest("alpha")}, nil
	}
	settings := apps.Settings{"api_key": "k-1"}
	require.NoError(t, reg.Register("alpha", factory, settings))

	_, err := reg.Resolve("alpha", utils.NewNilLogger())
	require.NoError(t, err)
	require.Equal(t, settings, seen)
}

func TestIDsAreSorted(t *testing.T) {
	reg := NewRegistry()
	for _, id := range []apps.AppID{"zulu", "alpha", "mike"} {
		app := &registryApp{manifest: validManifest(id)}
		require.NoError(t, reg.Register(id, factoryFor(app), nil))
	}
	require.Equal(t, []apps.AppID{"alpha", "mike", "zulu"}, reg.IDs())
}
