package dispatch

import (
	"github.com/botize/appserver/apps"
	"github.com/botize/appserver/utils"
)

// FunctionInfo is the function-level introspection document served by
// get_function_info.
type FunctionInfo struct {
	App      string            `json:"app"`
	Type     apps.FunctionType `json:"type"`
	ID       string            `json:"id"`
	Disabled bool              `json:"disabled"`

	// Form is the opaque configuration form markup, omitted when the
	// function has none.
	Form string `json:"form,omitempty"`

	// Texts maps each supported language, in declared order, to the
	// function's localized texts.
	Texts *utils.JSONMap `json:"texts"`

	TriggerData *TriggerData `json:"trigger_data,omitempty"`
	ActionData  *ActionData  `json:"action_data,omitempty"`
}

type TriggerData struct {
	OutputVars      *utils.JSONMap `json:"output_vars"`
	MaxPollInterval string         `json:"max_poll_interval"`
}

type ActionData struct {
	InputVars *utils.JSONMap `json:"input_vars"`
}

func buildFunctionInfo(app apps.Application, f apps.Function) *FunctionInfo {
	m := app.Manifest()

	info := &FunctionInfo{
		App:      string(m.AppID),
		Type:     f.Type,
		ID:       f.Name,
		Disabled: f.Disabled,
		Form:     f.Form,
		Texts:    utils.NewJSONMap(),
	}

	for _, language := range m.Languages {
		texts := f.Texts[language]

		block := utils.NewJSONMap()
		caption := texts.Caption
		if caption == "" {
			caption = f.Name
		}
		block.Set("caption", caption)

		if f.Form != "" {
			formTexts := texts.Form
			if formTexts == nil {
				formTexts = map[string]string{}
			}
			block.Set("form", formTexts)
		}

		if f.Type == apps.FunctionTrigger {
			varTexts := texts.OutputVars
			if varTexts == nil {
				varTexts = map[string]string{}
			}
			block.Set("output_vars", varTexts)
		}

		info.Texts.Set(language, block)
	}

	switch f.Type {
	case apps.FunctionTrigger:
		info.TriggerData = &TriggerData{
			OutputVars:      varsToJSON(f.OutputVars),
			MaxPollInterval: f.MaxPollIntervalValue(),
		}
	case apps.FunctionAction:
		info.ActionData = &ActionData{
			InputVars: varsToJSON(f.InputVars),
		}
	}

	return info
}

// varsToJSON renders a variable declaration list in declaration order.
// Optional variables carry a "?" suffix on the name, as the platform
// expects.
func varsToJSON(vars []apps.Var) *utils.JSONMap {
	out := utils.NewJSONMap()
	for _, v := range vars {
		name := v.Name
		if v.Optional {
			name += "?"
		}
		out.Set(name, v.Type)
	}
	return out
}
