package apps

import (
	"encoding/json"
)

// Authentication carries the user's third-party credentials into a Function
// invocation. Present only when the application's user auth mode is not
// "none".
type Authentication struct {
	UserID string `json:"user_id"`

	// AuthSavedData is whatever the authentication handshake asked the
	// platform to persist, resupplied verbatim.
	AuthSavedData interface{} `json:"auth_saved_data,omitempty"`
}

// FunctionInputData is the payload delivered to a Function at invocation
// time.
type FunctionInputData struct {
	// InputData holds the caller-supplied arguments. Actions only.
	InputData map[string]interface{} `json:"input_data,omitempty"`

	// FormData holds the values the user configured in the function's form.
	FormData map[string]interface{} `json:"form_data,omitempty"`

	// SavedData is the opaque value the previous invocation of this
	// function instance returned in DataToSave. Used by triggers as
	// de-duplication/cursor state.
	SavedData interface{} `json:"saved_data,omitempty"`

	Authentication *Authentication `json:"authentication,omitempty"`
}

// FunctionOutputData is the result of invoking a Function.
type FunctionOutputData struct {
	// StatusCode 0 means success. Any other value is an application-defined
	// non-fatal condition ("no new data"), not an HTTP error.
	StatusCode int `json:"status_code"`

	StatusMessage string `json:"status_message"`

	// OutputData maps declared output variable names to values. Triggers
	// only.
	OutputData map[string]interface{} `json:"output_data,omitempty"`

	// DataToSave is handed to the platform to persist and resupply as
	// SavedData on the next invocation. Arrays and objects leave the server
	// as a JSON string.
	DataToSave interface{} `json:"data_to_save,omitempty"`

	// Debugger is an optional diagnostic payload.
	Debugger interface{} `json:"debugger,omitempty"`
}

// NewFunctionOutput returns an output with the conventional success status.
func NewFunctionOutput() *FunctionOutputData {
	return &FunctionOutputData{
		StatusCode:    0,
		StatusMessage: "Ok",
	}
}

// NormalizeToSave applies the protocol's "to save" rule: arrays and objects
// are serialized to a JSON string before leaving the server, scalars pass
// through unchanged.
func NormalizeToSave(v interface{}) interface{} {
	switch v.(type) {
	case nil, string, bool, float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		json.Number:
		return v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return v
		}
		return string(data)
	}
}

// IsScalar reports whether a decoded JSON value is a scalar (string, number,
// boolean).
func IsScalar(v interface{}) bool {
	switch v.(type) {
	case string, bool, float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		json.Number:
		return true
	default:
		return false
	}
}
