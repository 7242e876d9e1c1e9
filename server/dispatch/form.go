package dispatch

import (
	"net/url"

	"github.com/botize/appserver/apps"
	"github.com/botize/appserver/server/incoming"
	"github.com/botize/appserver/utils"
)

// ValidateFormResponse is the answer to validate_form_data.
type ValidateFormResponse struct {
	ValidData     bool     `json:"valid_data"`
	ErrorMessages []string `json:"error_messages,omitempty"`
}

// FormRequestResponse is the answer to form_request.
type FormRequestResponse struct {
	Output string `json:"output"`
}

func (s *Service) validateFormData(r *incoming.Request, app apps.Application, params url.Values) (interface{}, error) {
	req, _, err := decodeFormCommand(params, false)
	if err != nil {
		return nil, err
	}

	handler, ok := app.(apps.FormHandler)
	if !ok {
		// No validation hook means everything validates.
		return &ValidateFormResponse{ValidData: true}, nil
	}

	messages, err := handler.ValidateFormData(*req)
	if err != nil {
		return nil, err
	}

	if len(messages) == 0 {
		return &ValidateFormResponse{ValidData: true}, nil
	}
	return &ValidateFormResponse{
		ValidData:     false,
		ErrorMessages: messages,
	}, nil
}

func (s *Service) formRequest(r *incoming.Request, app apps.Application, params url.Values) (interface{}, error) {
	req, input, err := decodeFormCommand(params, true)
	if err != nil {
		return nil, err
	}

	handler, ok := app.(apps.FormHandler)
	if !ok {
		return &FormRequestResponse{}, nil
	}

	output, err := handler.HandleFormRequest(*req, input)
	if err != nil {
		return nil, err
	}

	return &FormRequestResponse{Output: output}, nil
}

// decodeFormCommand validates the shared payload of validate_form_data and
// form_request. isRequest additionally requires the scalar 'input' field.
func decodeFormCommand(params url.Values, isRequest bool) (*apps.FormRequest, string, error) {
	functionID, ok := param(params, "id")
	if !ok {
		return nil, "", utils.NewInvalidError("'id' parameter is missing")
	}

	body, err := requireDataObject(params)
	if err != nil {
		return nil, "", err
	}

	language, present := body["language"]
	if !present {
		return nil, "", utils.NewInvalidError("language missing in data")
	}
	languageStr, _ := language.(string)

	rawFormData, present := body["form_data"]
	if !present {
		return nil, "", utils.NewInvalidError("form_data missing in data")
	}
	formData, ok := rawFormData.(map[string]interface{})
	if !ok {
		return nil, "", utils.NewInvalidError("form_data is a scalar value, must be an array")
	}

	req := &apps.FormRequest{
		FunctionID: functionID,
		FormData:   formData,
		Language:   languageStr,
	}

	if raw, present := body["trigger_output_vars"]; present {
		vars, ok := raw.(map[string]interface{})
		if !ok {
			return nil, "", utils.NewInvalidError("trigger_output_vars is a scalar value, must be an array")
		}
		req.TriggerOutputVars = vars
	}

	if raw, present := body["authentication"]; present {
		auth, ok := raw.(map[string]interface{})
		if !ok {
			return nil, "", utils.NewInvalidError("authentication is a scalar value, must be an array")
		}
		a := apps.Authentication{}
		utils.Remarshal(&a, auth)
		req.Authentication = &a
	}

	input := ""
	if isRequest {
		raw, present := body["input"]
		if !present {
			return nil, "", utils.NewInvalidError("input missing in data")
		}
		if !apps.IsScalar(raw) {
			return nil, "", utils.NewInvalidError("input is not a scalar value")
		}
		input = scalarString(raw)
	}

	return req, input, nil
}
