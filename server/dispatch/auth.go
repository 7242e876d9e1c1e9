package dispatch

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/botize/appserver/apps"
	"github.com/botize/appserver/server/incoming"
	"github.com/botize/appserver/utils"
)

// AuthenticateUserResponse is the answer to a successful authenticate_user
// or end_authenticate_user command.
type AuthenticateUserResponse struct {
	ValidCredentials bool        `json:"valid_credentials"`
	UserID           string      `json:"user_id,omitempty"`
	AuthDataToSave   interface{} `json:"auth_data_to_save,omitempty"`
}

func (s *Service) authenticateUser(r *incoming.Request, app apps.Application, params url.Values) (interface{}, error) {
	if app.Manifest().UserAuthMode != apps.UserAuthCredentials {
		return nil, utils.NewInvalidError("This app does not support the credentials authentication mode")
	}

	body, err := requireDataObject(params)
	if err != nil {
		return nil, err
	}

	userID, _ := body["user_id"].(string)
	password, _ := body["password"].(string)
	if userID == "" || password == "" {
		return nil, utils.NewInvalidError("User id or password missing in 'data'")
	}

	authenticator, ok := app.(apps.UserAuthenticator)
	if !ok {
		return nil, errContract("app %s declares credentials user auth but implements no credential check", app.Manifest().AppID)
	}

	result, err := authenticator.ValidateUserCredentials(userID, password)
	if err != nil {
		return nil, err
	}

	if !result.Valid() {
		return &AuthenticateUserResponse{ValidCredentials: false}, nil
	}

	resp := &AuthenticateUserResponse{
		ValidCredentials: true,
		UserID:           userID,
	}
	if data, ok := result.SavedData(); ok {
		resp.AuthDataToSave = apps.NormalizeToSave(data)
	}

	r.Log.Debugw("user credentials validated", "valid", result.Valid())

	return resp, nil
}

func (s *Service) beginAuthenticateUser(r *incoming.Request, app apps.Application, params url.Values) (interface{}, error) {
	authenticator, err := webAuthenticator(app)
	if err != nil {
		return nil, err
	}

	body, err := requireDataObject(params)
	if err != nil {
		return nil, err
	}

	callback, _ := body["callback"].(string)
	if callback == "" {
		return nil, utils.NewInvalidError("callback missing in 'data'")
	}

	out, err := authenticator.BeginAuthenticateUser(callback)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errContract("'beginAuthenticateUser' returned invalid result type")
	}

	normalized := *out
	if normalized.TempDataToSave != nil {
		normalized.TempDataToSave = apps.NormalizeToSave(normalized.TempDataToSave)
	}

	return &normalized, nil
}

func (s *Service) endAuthenticateUser(r *incoming.Request, app apps.Application, params url.Values) (interface{}, error) {
	authenticator, err := webAuthenticator(app)
	if err != nil {
		return nil, err
	}

	body, err := requireDataObject(params)
	if err != nil {
		return nil, err
	}

	serviceData := map[string]interface{}{}
	if raw, present := body["service_data"]; present {
		m, ok := raw.(map[string]interface{})
		if !ok {
			return nil, utils.NewInvalidError("service_data is a scalar value, must be an array")
		}
		serviceData = m
	}
	savedTempData := body["saved_temp_data"]

	out, err := authenticator.EndAuthenticateUser(serviceData, savedTempData)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errContract("'endAuthenticateUser' returned invalid result type")
	}

	if !out.ValidCredentials {
		return &AuthenticateUserResponse{ValidCredentials: false}, nil
	}

	// A successful handshake must name the authenticated user with a
	// non-empty scalar id; anything else is a provider bug.
	if out.UserID == nil || out.UserID == "" {
		return nil, errContract("'endAuthenticateUser' returned empty user id")
	}
	if !apps.IsScalar(out.UserID) {
		return nil, errContract("'endAuthenticateUser' returned array or object as user id")
	}

	resp := &AuthenticateUserResponse{
		ValidCredentials: true,
		UserID:           scalarString(out.UserID),
	}
	if out.AuthDataToSave != nil {
		resp.AuthDataToSave = apps.NormalizeToSave(out.AuthDataToSave)
	}

	r.Log.Debugw("web authentication completed")

	return resp, nil
}

func webAuthenticator(app apps.Application) (apps.WebAuthenticator, error) {
	if app.Manifest().UserAuthMode != apps.UserAuthWeb {
		return nil, utils.NewInvalidError("This app does not support the web authentication mode")
	}
	authenticator, ok := app.(apps.WebAuthenticator)
	if !ok {
		return nil, errContract("app %s declares web user auth but implements no handshake", app.Manifest().AppID)
	}
	return authenticator, nil
}

// scalarString renders a scalar user id as a string. Numeric ids keep their
// decimal form.
func scalarString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// requireDataObject fetches and decodes the mandatory 'data' parameter.
func requireDataObject(params url.Values) (map[string]interface{}, error) {
	raw, ok := param(params, "data")
	if !ok {
		return nil, utils.NewInvalidError("'data' parameter is missing")
	}
	return decodeDataObject(raw)
}
