package apps

import (
	"unicode"

	"github.com/hashicorp/go-multierror"

	"github.com/botize/appserver/utils"
)

// AppID identifies a registered application. An AppID is restricted to no
// more than 32 ASCII letters, numbers, '-', or '_'.
type AppID string

// PlatformAuthMode is the authentication the orchestration platform must
// satisfy to call the application at all.
type PlatformAuthMode string

const (
	PlatformAuthNone  PlatformAuthMode = "none"
	PlatformAuthBasic PlatformAuthMode = "basic"
)

// UserAuthMode is the authentication flow that gates access to a third-party
// service on behalf of an end user.
type UserAuthMode string

const (
	UserAuthNone        UserAuthMode = "none"
	UserAuthCredentials UserAuthMode = "credentials"
	UserAuthWeb         UserAuthMode = "web"
)

const (
	MinAppIDLength = 3
	MaxAppIDLength = 32
)

// APIVersion is the version of the command protocol implemented by this
// package.
const APIVersion = 1

// Manifest declares an application's identity and static capabilities. It is
// provided by the application's constructor and never changes afterwards.
type Manifest struct {
	AppID AppID `json:"app" yaml:"app"`

	// APIVersion the application was written against. Zero means current.
	APIVersion int `json:"api_version,omitempty" yaml:"api_version,omitempty"`

	PlatformAuthMode PlatformAuthMode `json:"platform_auth_mode,omitempty" yaml:"platform_auth_mode,omitempty"`
	UserAuthMode     UserAuthMode     `json:"user_auth_mode,omitempty" yaml:"user_auth_mode,omitempty"`

	// Languages is the ordered list of supported language codes. The first
	// entry is the fallback. Must not be empty.
	Languages []string `json:"languages" yaml:"languages"`

	// Titles maps a supported language code to the application title in that
	// language. A missing entry falls back to the AppID.
	Titles map[string]string `json:"titles,omitempty" yaml:"titles,omitempty"`

	// ImagesPath, when set, tells the platform to fetch images from this
	// path relative to the application's public URL instead of issuing
	// get_image commands.
	ImagesPath string `json:"images_path,omitempty" yaml:"images_path,omitempty"`
}

func (id AppID) IsValid() error {
	if len(id) < MinAppIDLength {
		return utils.NewInvalidError("appID %s too short, should be %d bytes", id, MinAppIDLength)
	}

	if len(id) > MaxAppIDLength {
		return utils.NewInvalidError("appID %s too long, should be %d bytes", id, MaxAppIDLength)
	}

	for _, c := range id {
		if unicode.IsLetter(c) || unicode.IsNumber(c) {
			continue
		}
		if c == '-' || c == '_' {
			continue
		}
		return utils.NewInvalidError("invalid character '%c' in appID %q", c, id)
	}

	return nil
}

func (mode PlatformAuthMode) IsValid() error {
	switch mode {
	case PlatformAuthNone, PlatformAuthBasic:
		return nil
	default:
		return utils.NewInvalidError("invalid platform auth mode %q", mode)
	}
}

func (mode UserAuthMode) IsValid() error {
	switch mode {
	case UserAuthNone, UserAuthCredentials, UserAuthWeb:
		return nil
	default:
		return utils.NewInvalidError("invalid user auth mode %q", mode)
	}
}

func (m Manifest) IsValid() error {
	var result error
	if err := m.AppID.IsValid(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := m.PlatformAuthMode.IsValid(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := m.UserAuthMode.IsValid(); err != nil {
		result = multierror.Append(result, err)
	}
	if len(m.Languages) == 0 {
		result = multierror.Append(result,
			utils.NewInvalidError("app %s: must declare at least one supported language", m.AppID))
	}
	return result
}

// DefaultLanguage is the designated fallback, the first declared language.
func (m Manifest) DefaultLanguage() string {
	if len(m.Languages) == 0 {
		return ""
	}
	return m.Languages[0]
}

func (m Manifest) Title(language string) string {
	if t, ok := m.Titles[language]; ok {
		return t
	}
	if t, ok := m.Titles[m.DefaultLanguage()]; ok {
		return t
	}
	return string(m.AppID)
}

// Application is the contract every pluggable integration satisfies. One
// instance is constructed per incoming request; instances must not keep
// cross-request state.
//
// Depending on the declared auth modes and commands used, an Application is
// also expected to implement the optional interfaces below
// (PlatformAuthenticator, UserAuthenticator, WebAuthenticator, FormHandler,
// ImageProvider). A declared mode without the matching interface is reported
// as a contract violation at invocation time.
type Application interface {
	Manifest() Manifest

	// Functions returns the application's capability registration table: all
	// triggers and actions, in a fixed order. The order is part of the
	// public contract; the introspection protocol addresses functions by
	// their 1-based position in this slice.
	Functions() []Function
}

// PlatformAuthenticator is required when PlatformAuthMode is "basic".
type PlatformAuthenticator interface {
	PlatformCredentialsValid(user, password string) bool
}

// UserAuthenticator is required when UserAuthMode is "credentials".
type UserAuthenticator interface {
	ValidateUserCredentials(userID, password string) (CredentialsCheckResult, error)
}

// WebAuthenticator is required when UserAuthMode is "web".
type WebAuthenticator interface {
	// BeginAuthenticateUser starts the handshake. callbackURL is where the
	// third-party service should redirect the user's browser afterwards.
	BeginAuthenticateUser(callbackURL string) (*BeginAuthenticateUserOutput, error)

	// EndAuthenticateUser finishes the handshake. serviceData carries the
	// parameters the third-party service passed to the callback URL;
	// savedTempData is whatever BeginAuthenticateUser asked to retain.
	EndAuthenticateUser(serviceData map[string]interface{}, savedTempData interface{}) (*EndAuthenticateUserOutput, error)
}

// FormHandler serves the validate_form_data and form_request commands.
type FormHandler interface {
	// ValidateFormData returns nil or an empty slice when the submitted data
	// is valid, or the list of error messages in req.Language otherwise.
	ValidateFormData(req FormRequest) ([]string, error)

	// HandleFormRequest serves a form's form_request() javascript call. The
	// returned string must never be empty on success.
	HandleFormRequest(req FormRequest, input string) (string, error)
}

// ImageProvider serves the get_image command. It is consulted only when the
// manifest does not set ImagesPath. Returning nil bytes with a nil error
// means the image is unknown (404).
type ImageProvider interface {
	GetImage(name string) ([]byte, error)
}

// FormRequest is the decoded payload shared by validate_form_data and
// form_request.
type FormRequest struct {
	FunctionID string

	// FormData holds the values the user entered in the configuration form.
	FormData map[string]interface{}

	// TriggerOutputVars is set only when the function is an action: the
	// output variables produced by the trigger of the same task.
	TriggerOutputVars map[string]interface{}

	Language string

	// Authentication is set when the user has authenticated to the
	// third-party service for this function.
	Authentication *Authentication
}

// Settings carries per-application configuration (API keys, endpoints,
// sandbox flags) sourced from the server configuration at process start.
type Settings map[string]string

func (s Settings) Get(key, defaultValue string) string {
	if v, ok := s[key]; ok && v != "" {
		return v
	}
	return defaultValue
}

// Factory constructs an Application instance. The dispatch engine calls it
// once per incoming request.
type Factory func(settings Settings, log utils.Logger) (Application, error)
