package dispatch

import (
	"net/url"
	"strconv"

	"github.com/botize/appserver/apps"
	"github.com/botize/appserver/server/incoming"
	"github.com/botize/appserver/utils"
)

// AppInfo is the application-level introspection document served by
// get_app_info.
type AppInfo struct {
	App           string            `json:"app"`
	APIVersion    int               `json:"api_version"`
	FunctionCount int               `json:"function_count"`
	UserAuthMode  apps.UserAuthMode `json:"user_auth_mode"`

	// Texts maps each supported language, in declared order, to the
	// localized application texts.
	Texts *utils.JSONMap `json:"texts"`

	ImagesPath string `json:"images_path,omitempty"`
}

type appTexts struct {
	Title string `json:"title"`
}

func (s *Service) getAppInfo(r *incoming.Request, app apps.Application, params url.Values) (interface{}, error) {
	return buildAppInfo(app), nil
}

func buildAppInfo(app apps.Application) *AppInfo {
	m := app.Manifest()

	apiVersion := m.APIVersion
	if apiVersion == 0 {
		apiVersion = apps.APIVersion
	}

	texts := utils.NewJSONMap()
	for _, language := range m.Languages {
		texts.Set(language, appTexts{
			Title: m.Title(language),
		})
	}

	return &AppInfo{
		App:           string(m.AppID),
		APIVersion:    apiVersion,
		FunctionCount: len(listFunctions(app)),
		UserAuthMode:  m.UserAuthMode,
		Texts:         texts,
		ImagesPath:    m.ImagesPath,
	}
}

func (s *Service) getFunctionInfo(r *incoming.Request, app apps.Application, params url.Values) (interface{}, error) {
	fn, ok := param(params, "fn")
	if !ok {
		return nil, utils.NewInvalidError("'fn' parameter is missing")
	}
	index, err := strconv.Atoi(fn)
	if err != nil {
		return nil, utils.NewInvalidError("'fn' parameter is invalid")
	}

	f, err := functionByIndex(app, index)
	if err != nil {
		return nil, err
	}

	return buildFunctionInfo(app, f), nil
}
