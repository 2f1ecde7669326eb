package gui

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/trimlab/internal/editor"
)

// controls applies widget input to the session and returns the status line.
// Slider and filter changes made before a source is loaded are kept in the
// session and take effect on the next load.
type controls struct {
	ctx     context.Context
	logger  zerolog.Logger
	session *editor.Session
}

func (c *controls) setStart(v float64) string {
	return c.changed(c.session.SetStart(c.ctx, v))
}

func (c *controls) setEnd(v float64) string {
	return c.changed(c.session.SetEnd(c.ctx, v))
}

func (c *controls) toggleFilter() string {
	return c.changed(c.session.ToggleFilter(c.ctx))
}

func (c *controls) load(path string) string {
	return c.status(c.session.Load(c.ctx, path))
}

// changed reports a control change; with no source there is nothing to rebuild yet
func (c *controls) changed(err error) string {
	if c.session.Asset() == nil {
		return statusText(nil, nil)
	}
	return c.status(err)
}

func (c *controls) status(err error) string {
	if err != nil {
		c.logger.Warn().Err(err).Msg("rebuild failed")
	}
	return statusText(c.session.Output(), err)
}
