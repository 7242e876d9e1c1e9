package dispatch

import (
	"encoding/json"
	"net/url"

	"github.com/botize/appserver/apps"
	"github.com/botize/appserver/server/incoming"
	"github.com/botize/appserver/utils"
)

func (s *Service) processTrigger(r *incoming.Request, app apps.Application, params url.Values) (interface{}, error) {
	return s.invokeFunction(r, app, apps.FunctionTrigger, params)
}

func (s *Service) doAction(r *incoming.Request, app apps.Application, params url.Values) (interface{}, error) {
	return s.invokeFunction(r, app, apps.FunctionAction, params)
}

// invokeFunction serves process_trigger and do_action: it validates and
// decodes the request payload, invokes the resolved function and normalizes
// its output.
func (s *Service) invokeFunction(r *incoming.Request, app apps.Application, typ apps.FunctionType, params url.Values) (interface{}, error) {
	functionName, ok := param(params, "id")
	if !ok {
		return nil, utils.NewInvalidError("'id' parameter is missing")
	}
	raw, ok := param(params, "data")
	if !ok {
		return nil, utils.NewInvalidError("'data' parameter is missing")
	}

	body, err := decodeDataObject(raw)
	if err != nil {
		return nil, err
	}

	f, err := resolveFunction(app, typ, functionName)
	if err != nil {
		return nil, err
	}

	if app.Manifest().UserAuthMode != apps.UserAuthNone {
		if _, ok = body["authentication"]; !ok {
			return nil, utils.NewUnauthorizedError("User authentication data not provided")
		}
	}

	if typ == apps.FunctionAction {
		if _, ok = body["input_data"]; !ok {
			return nil, utils.NewInvalidError("'input_data' is missing in 'data'")
		}
	}

	// Project only the recognized top-level fields into the input;
	// unrecognized fields are dropped.
	in := apps.FunctionInputData{}
	if err = json.Unmarshal([]byte(raw), &in); err != nil {
		return nil, utils.NewInvalidError("'data' has no valid json data")
	}

	out, err := f.Handler(in)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errContract("'%s_%s' returned invalid result type", f.Type, f.Name)
	}

	normalized := *out
	if normalized.DataToSave != nil {
		normalized.DataToSave = apps.NormalizeToSave(normalized.DataToSave)
	}

	r.Log.Debugw("function invoked",
		"function", functionName,
		"status_code", normalized.StatusCode,
	)

	return &normalized, nil
}

// decodeDataObject parses the mandatory 'data' request parameter into a JSON
// object.
func decodeDataObject(raw string) (map[string]interface{}, error) {
	var body map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &body); err != nil || body == nil {
		return nil, utils.NewInvalidError("'data' has no valid json data")
	}
	return body, nil
}
