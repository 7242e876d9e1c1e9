package dispatch

import (
	"net/url"

	"github.com/botize/appserver/apps"
	"github.com/botize/appserver/server/incoming"
	"github.com/botize/appserver/utils"
)

// getImage serves the get_image command. Images are PNG; a miss is a 404.
func (s *Service) getImage(r *incoming.Request, app apps.Application, params url.Values) (interface{}, error) {
	name, ok := param(params, "img")
	if !ok {
		return nil, utils.NewInvalidError("'img' parameter is missing")
	}

	provider, ok := app.(apps.ImageProvider)
	if !ok {
		return nil, utils.NewNotFoundError("Not found")
	}

	data, err := provider.GetImage(name)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, utils.NewNotFoundError("Not found")
	}

	return &apps.CommandResult{
		ContentType: "image/png",
		Content:     data,
	}, nil
}
