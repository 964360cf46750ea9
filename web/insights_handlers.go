package web

import (
	"github.com/rohanthewiz/rweb"
	"github.com/rohanthewiz/serr"

	"repomuse/insights"
)

func insightsHandler(c rweb.Context) error {
	path := c.Request().QueryParam("path")
	if path == "" {
		return c.WriteError(serr.New("path is required"), 400)
	}

	result, err := insights.Collect(path)
	if err != nil {
		return c.WriteError(err, 400)
	}

	return c.WriteJSON(result)
}

func gitLogHandler(c rweb.Context) error {
	path := c.Request().QueryParam("path")
	if path == "" {
		return c.WriteError(serr.New("path is required"), 400)
	}

	log, err := insights.Log(path)
	if err != nil {
		return c.WriteError(err, 400)
	}

	return c.WriteJSON(log)
}
