// Package httphost exposes the local host and the plugin over the control
// server: commands, indicator state, the event stream and the settings surface.
package httphost

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/voicenotes/backend"
	"github.com/kbukum/voicenotes/config"
	"github.com/kbukum/voicenotes/errors"
	"github.com/kbukum/voicenotes/host"
	"github.com/kbukum/voicenotes/logger"
	"github.com/kbukum/voicenotes/plugin"
	"github.com/kbukum/voicenotes/recording"
	"github.com/kbukum/voicenotes/server"
	"github.com/kbukum/voicenotes/sse"
)

// Commands is the command and indicator surface of the host.
type Commands interface {
	Commands() []host.CommandInfo
	Execute(ctx context.Context, id string) error
	Indicator() host.IndicatorState
}

// Plugin is the settings and backend surface of the plugin.
type Plugin interface {
	Settings() config.Settings
	SaveSettings(ctx context.Context, s config.Settings) error
	CheckStatus(ctx context.Context) (plugin.ConnectionReport, error)
	LastTranscription(ctx context.Context) (*backend.TranscriptionResult, error)
	RecordingState() recording.State
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Indicator host.IndicatorState `json:"indicator"`
	State     string              `json:"state"`
}

// CommandResponse is the body of POST /commands/:id.
type CommandResponse struct {
	Command   string              `json:"command"`
	State     string              `json:"state"`
	Indicator host.IndicatorState `json:"indicator"`
}

// BackendStatusResponse is the body of GET /backend/status.
type BackendStatusResponse struct {
	plugin.ConnectionReport
	Lines []string `json:"lines"`
}

// API serves the control routes.
type API struct {
	commands Commands
	plugin   Plugin
	hub      *sse.Hub
	log      *logger.Logger
}

// New creates an API. hub may be nil, in which case /events is not served.
func New(commands Commands, p Plugin, hub *sse.Hub, log *logger.Logger) *API {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &API{commands: commands, plugin: p, hub: hub, log: log.WithComponent("httphost")}
}

// Register mounts the routes on r. limiter guards command execution.
func (a *API) Register(r gin.IRouter, limiter gin.HandlerFunc) {
	r.GET("/status", a.status)
	if a.hub != nil {
		r.GET("/events", a.events)
	}
	r.GET("/commands", a.listCommands)
	if limiter != nil {
		r.POST("/commands/:id", limiter, a.executeCommand)
	} else {
		r.POST("/commands/:id", a.executeCommand)
	}
	r.GET("/settings", a.getSettings)
	r.PUT("/settings", a.putSettings)
	r.GET("/backend/status", a.backendStatus)
	r.GET("/backend/transcription", a.lastTranscription)
}

func (a *API) status(c *gin.Context) {
	server.RespondOK(c, StatusResponse{
		Indicator: a.commands.Indicator(),
		State:     a.plugin.RecordingState().String(),
	})
}

func (a *API) events(c *gin.Context) {
	sse.ServeSSE(a.hub, c.Writer, c.Request, uuid.NewString(),
		sse.WithInitialEvent(sse.EventTypeIndicator, a.commands.Indicator()),
	)
}

func (a *API) listCommands(c *gin.Context) {
	server.RespondOK(c, a.commands.Commands())
}

// executeCommand runs a command synchronously. Notices raised by the command
// are delivered on the event stream; the response carries the resulting state.
// A client that disconnects does not cancel the command.
func (a *API) executeCommand(c *gin.Context) {
	id := c.Param("id")
	ctx := context.WithoutCancel(c.Request.Context())
	log := a.log.WithContext(ctx)

	if err := a.commands.Execute(ctx, id); err != nil {
		log.Debug("command rejected", logger.Fields(logger.FieldCommand, id, logger.FieldError, err.Error()))
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, CommandResponse{
		Command:   id,
		State:     a.plugin.RecordingState().String(),
		Indicator: a.commands.Indicator(),
	})
}

func (a *API) getSettings(c *gin.Context) {
	server.RespondOK(c, a.plugin.Settings())
}

// putSettings merges the body over the current settings, so a partial
// document changes only the keys it names.
func (a *API) putSettings(c *gin.Context) {
	s := a.plugin.Settings()
	if err := c.ShouldBindJSON(&s); err != nil {
		server.RespondWithError(c, errors.InvalidInput("settings", err.Error()))
		return
	}
	if err := a.plugin.SaveSettings(c.Request.Context(), s); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, a.plugin.Settings())
}

func (a *API) backendStatus(c *gin.Context) {
	report, err := a.plugin.CheckStatus(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, BackendStatusResponse{ConnectionReport: report, Lines: report.Lines()})
}

func (a *API) lastTranscription(c *gin.Context) {
	result, err := a.plugin.LastTranscription(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, result)
}
