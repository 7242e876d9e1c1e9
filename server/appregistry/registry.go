// Package appregistry maps application identifiers to their constructors.
// The registry is populated at startup and is read-only afterwards; unknown
// identifiers fail resolution without any filesystem probing at request
// time.
package appregistry

import (
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/botize/appserver/apps"
	"github.com/botize/appserver/utils"
)

type Registry struct {
	mutex     sync.RWMutex
	factories map[apps.AppID]apps.Factory
	settings  map[apps.AppID]apps.Settings
}

func NewRegistry() *Registry {
	return &Registry{
		factories: map[apps.AppID]apps.Factory{},
		settings:  map[apps.AppID]apps.Settings{},
	}
}

// Register adds an application constructor under id. The factory is invoked
// once immediately, with the given settings, to validate the application's
// manifest and capability table; registration fails if the application does
// not satisfy its contract.
func (reg *Registry) Register(id apps.AppID, factory apps.Factory, settings apps.Settings) error {
	if err := id.IsValid(); err != nil {
		return err
	}
	if factory == nil {
		return utils.NewInvalidError("app %s: nil factory", id)
	}

	app, err := factory(settings, utils.NewNilLogger())
	if err != nil {
		return errors.Wrapf(err, "app %s: constructor failed", id)
	}
	if err = validateApp(id, app); err != nil {
		return err
	}

	reg.mutex.Lock()
	defer reg.mutex.Unlock()
	if _, exists := reg.factories[id]; exists {
		return utils.NewInvalidError("app %s: already registered", id)
	}
	reg.factories[id] = factory
	reg.settings[id] = settings
	return nil
}

// Resolve constructs a fresh Application instance for one request. Unknown
// identifiers map to a 400 the same way an unknown command parameter does.
func (reg *Registry) Resolve(id apps.AppID, log utils.Logger) (apps.Application, error) {
	reg.mutex.RLock()
	factory, ok := reg.factories[id]
	settings := reg.settings[id]
	reg.mutex.RUnlock()
	if !ok {
		return nil, utils.NewInvalidError("Unknown application")
	}

	app, err := factory(settings, log)
	if err != nil {
		return nil, errors.Wrapf(err, "app %s: constructor failed", id)
	}
	return app, nil
}

// IDs lists the registered application identifiers, sorted.
func (reg *Registry) IDs() []apps.AppID {
	reg.mutex.RLock()
	defer reg.mutex.RUnlock()

	ids := make([]apps.AppID, 0, len(reg.factories))
	for id := range reg.factories {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func validateApp(id apps.AppID, app apps.Application) error {
	m := app.Manifest()

	var result error
	if m.AppID != id {
		result = multierror.Append(result,
			utils.NewInvalidError("app %s: manifest declares app id %q", id, m.AppID))
	}
	if err := m.IsValid(); err != nil {
		result = multierror.Append(result, err)
	}

	if m.PlatformAuthMode == apps.PlatformAuthBasic {
		if _, ok := app.(apps.PlatformAuthenticator); !ok {
			result = multierror.Append(result,
				utils.NewInvalidError("app %s: platform auth mode %q requires a PlatformAuthenticator", id, m.PlatformAuthMode))
		}
	}
	switch m.UserAuthMode {
	case apps.UserAuthCredentials:
		if _, ok := app.(apps.UserAuthenticator); !ok {
			result = multierror.Append(result,
				utils.NewInvalidError("app %s: user auth mode %q requires a UserAuthenticator", id, m.UserAuthMode))
		}
	case apps.UserAuthWeb:
		if _, ok := app.(apps.WebAuthenticator); !ok {
			result = multierror.Append(result,
				utils.NewInvalidError("app %s: user auth mode %q requires a WebAuthenticator", id, m.UserAuthMode))
		}
	}

	seen := map[string]bool{}
	for i, f := range app.Functions() {
		if err := f.IsValid(); err != nil {
			result = multierror.Append(result,
				errors.Wrapf(err, "app %s: function %d (%s)", id, i+1, f.Name))
		}
		key := string(f.Type) + "_" + f.Name
		if seen[key] {
			result = multierror.Append(result,
				utils.NewInvalidError("app %s: duplicate function %s", id, key))
		}
		seen[key] = true
	}

	return result
}
