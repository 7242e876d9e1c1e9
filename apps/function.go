package apps

import (
	"regexp"

	"github.com/hashicorp/go-multierror"

	"github.com/botize/appserver/utils"
)

// FunctionType classifies a Function as a polled trigger or an on-demand
// action.
type FunctionType string

const (
	FunctionTrigger FunctionType = "trigger"
	FunctionAction  FunctionType = "action"
)

func (t FunctionType) IsValid() error {
	switch t {
	case FunctionTrigger, FunctionAction:
		return nil
	default:
		return utils.NewInvalidError("invalid function type %q", t)
	}
}

// Var declares one input or output variable of a Function.
type Var struct {
	Name string `json:"name"`

	// Type is the platform type tag, e.g. "text", "url", "date".
	Type string `json:"type"`

	// Optional marks an action input variable the caller may omit.
	Optional bool `json:"optional,omitempty"`
}

// FunctionTexts holds the localized texts of a Function for one language.
type FunctionTexts struct {
	Caption string

	// Form maps form text placeholder ids to their localized values.
	Form map[string]string

	// OutputVars maps trigger output variable names to their localized
	// descriptions.
	OutputVars map[string]string
}

// Handler is a Function's implementation. A nil output with a nil error is a
// contract violation and surfaces to the platform as an internal error.
type Handler func(in FunctionInputData) (*FunctionOutputData, error)

// Function is one entry in an Application's capability registration table.
type Function struct {
	Type FunctionType
	Name string

	Handler Handler

	Disabled bool

	// Form is the opaque configuration form markup, empty when the function
	// has no form.
	Form string

	// Texts maps a supported language code to the function's texts in that
	// language.
	Texts map[string]FunctionTexts

	// OutputVars declares a trigger's output variables, in the order they
	// appear in the introspection document. Triggers only.
	OutputVars []Var

	// InputVars declares the custom input variables accepted by an action,
	// in introspection order. Actions only.
	InputVars []Var

	// MaxPollInterval is a positive integer followed by "m", "h" or "d".
	// The platform never polls the trigger faster than this. Triggers only;
	// empty defaults to "1m".
	MaxPollInterval string
}

var pollIntervalRE = regexp.MustCompile(`^[1-9][0-9]*[mhd]$`)

const DefaultMaxPollInterval = "1m"

var functionNameRE = regexp.MustCompile(`^[a-z0-9_]+$`)

func (f Function) IsValid() error {
	var result error
	if err := f.Type.IsValid(); err != nil {
		result = multierror.Append(result, err)
	}
	if !functionNameRE.MatchString(f.Name) {
		result = multierror.Append(result, utils.NewInvalidError("invalid function name %q", f.Name))
	}
	if f.Handler == nil {
		result = multierror.Append(result, utils.NewInvalidError("function %s has no handler", f.Name))
	}

	switch f.Type {
	case FunctionTrigger:
		if len(f.InputVars) > 0 {
			result = multierror.Append(result,
				utils.NewInvalidError("trigger %s must not declare input variables", f.Name))
		}
		if f.MaxPollInterval != "" && !pollIntervalRE.MatchString(f.MaxPollInterval) {
			result = multierror.Append(result,
				utils.NewInvalidError("trigger %s: invalid max poll interval %q", f.Name, f.MaxPollInterval))
		}

	case FunctionAction:
		if len(f.OutputVars) > 0 {
			result = multierror.Append(result,
				utils.NewInvalidError("action %s must not declare output variables", f.Name))
		}
		if f.MaxPollInterval != "" {
			result = multierror.Append(result,
				utils.NewInvalidError("action %s must not declare a max poll interval", f.Name))
		}
	}

	return result
}

// MaxPollIntervalValue is the interval the introspection document reports.
func (f Function) MaxPollIntervalValue() string {
	if f.MaxPollInterval == "" {
		return DefaultMaxPollInterval
	}
	return f.MaxPollInterval
}
