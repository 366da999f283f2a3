package recording

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/voicenotes/backend"
	"github.com/kbukum/voicenotes/errors"
	"github.com/kbukum/voicenotes/host"
	"github.com/kbukum/voicenotes/logger"
	"github.com/kbukum/voicenotes/observability"
	"github.com/kbukum/voicenotes/vault"
)

// DefaultRevertDelay is how long a terminal status stays visible before the
// indicator returns to Ready.
const DefaultRevertDelay = 3 * time.Second

// State is the controller's view of the recording session.
type State int

const (
	Idle State = iota
	Recording
)

func (s State) String() string {
	if s == Recording {
		return "recording"
	}
	return "idle"
}

// Backend is the subset of the backend client the controller drives.
type Backend interface {
	StartRecording(ctx context.Context) error
	StopRecording(ctx context.Context) (*backend.TranscriptionResult, error)
}

// Options configures a Controller.
type Options struct {
	Backend   Backend
	Store     vault.Store
	Indicator host.StatusIndicator
	Notifier  host.Notifier
	// Document returns the vault path transcriptions are appended to. It is
	// read on every append so settings changes apply immediately.
	Document    func() string
	Clock       Clock
	RevertDelay time.Duration
	Metrics     *observability.Metrics
	Logger      *logger.Logger
}

// Controller serializes recording operations and owns the status indicator.
type Controller struct {
	// opMu is held for the whole of Start, Stop and Insert.
	opMu sync.Mutex

	// displayMu orders indicator writes so a firing revert cannot overwrite
	// a newer status. Listeners run under it, never under stateMu.
	displayMu sync.Mutex

	stateMu  sync.Mutex
	state    State
	backend  Backend
	revert   Timer
	revertID uint64

	store       vault.Store
	indicator   host.StatusIndicator
	notifier    host.Notifier
	document    func() string
	clock       Clock
	revertDelay time.Duration
	metrics     *observability.Metrics
	log         *logger.Logger
}

// New creates a Controller in the Idle state.
func New(opts Options) (*Controller, error) {
	switch {
	case opts.Backend == nil:
		return nil, errors.MissingField("backend")
	case opts.Store == nil:
		return nil, errors.MissingField("store")
	case opts.Indicator == nil:
		return nil, errors.MissingField("indicator")
	case opts.Notifier == nil:
		return nil, errors.MissingField("notifier")
	case opts.Document == nil:
		return nil, errors.MissingField("document")
	}
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}
	if opts.RevertDelay <= 0 {
		opts.RevertDelay = DefaultRevertDelay
	}
	log := opts.Logger
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Controller{
		backend:     opts.Backend,
		store:       opts.Store,
		indicator:   opts.Indicator,
		notifier:    opts.Notifier,
		document:    opts.Document,
		clock:       opts.Clock,
		revertDelay: opts.RevertDelay,
		metrics:     opts.Metrics,
		log:         log.WithComponent("recording"),
	}, nil
}

// State returns the current state.
func (c *Controller) State() State {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.state
}

// SetBackend swaps the backend used by subsequent operations. An operation
// already in flight finishes against the backend it started with.
func (c *Controller) SetBackend(b Backend) {
	c.stateMu.Lock()
	c.backend = b
	c.stateMu.Unlock()
}

// Toggle starts a recording when idle and stops it otherwise.
//
// Start, Stop, Toggle and Insert ignore cancellation of ctx and keep its
// values. An abandoned remote start or stop would leave the backend out of
// step with the controller and could drop a finished transcription.
func (c *Controller) Toggle(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	ctx = context.WithoutCancel(ctx)
	if c.State() == Recording {
		return c.stop(ctx)
	}
	return c.start(ctx)
}

// Start asks the backend to begin recording. Calling Start while recording
// only raises a notice. A backend failure leaves the controller Idle, raises
// a notice and is returned.
func (c *Controller) Start(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	return c.start(context.WithoutCancel(ctx))
}

func (c *Controller) start(ctx context.Context) (err error) {
	if c.State() == Recording {
		host.Warn(ctx, c.notifier, NoticeAlreadyRecording)
		return nil
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanRecordingStart)
	defer func() { observability.EndSpan(span, err) }()

	if err = c.currentBackend().StartRecording(ctx); err != nil {
		c.metrics.RecordEvent(ctx, observability.EventStartRejected)
		c.log.WithError(err).Warn("start recording failed")
		host.Error(ctx, c.notifier, NoticeStartFailed+errors.Message(err))
		return err
	}

	c.setState(Recording)
	c.show(TextRecording, true)
	c.metrics.RecordEvent(ctx, observability.EventRecordingStarted)
	c.log.Info("recording started")
	host.Info(ctx, c.notifier, NoticeStarted)
	return nil
}

// Stop asks the backend to stop recording and appends the transcription to
// the target document. The controller is Idle afterwards whatever the
// outcome. Backend and append failures are returned; an empty transcription
// is not an error.
func (c *Controller) Stop(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	return c.stop(context.WithoutCancel(ctx))
}

func (c *Controller) stop(ctx context.Context) (err error) {
	if c.State() != Recording {
		host.Warn(ctx, c.notifier, NoticeNotRecording)
		return nil
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanRecordingStop)
	defer func() { observability.EndSpan(span, err) }()

	c.show(TextProcessing, false)

	result, err := c.currentBackend().StopRecording(ctx)
	c.setState(Idle)
	if err != nil {
		c.fail(ctx, err)
		return err
	}

	if result == nil || result.Transcription == "" {
		c.show(TextFailed, false)
		c.metrics.RecordEvent(ctx, observability.EventTranscriptionEmpty)
		c.log.Warn("backend returned an empty transcription")
		host.Error(ctx, c.notifier, NoticeEmpty)
		return nil
	}

	if err = c.append(ctx, result.Transcription); err != nil {
		c.fail(ctx, err)
		return err
	}

	c.show(TextTranscribed, false)
	c.scheduleRevert()
	c.metrics.RecordEvent(ctx, observability.EventTranscriptionSaved)
	host.Info(ctx, c.notifier, NoticeSaved)
	return nil
}

// Insert appends text to the target document as a new entry. It runs under
// the same lock as Start and Stop and does not touch the recording state.
func (c *Controller) Insert(ctx context.Context, text string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	ctx = context.WithoutCancel(ctx)

	if err := c.append(ctx, text); err != nil {
		return err
	}
	host.Info(ctx, c.notifier, NoticeInserted)
	return nil
}

// Close cancels a pending status revert.
func (c *Controller) Close() {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	c.cancelRevertLocked()
}

func (c *Controller) append(ctx context.Context, text string) (err error) {
	doc := c.document()
	ctx, span := observability.StartSpan(ctx, observability.SpanVaultAppend,
		attribute.String(observability.AttrDocument, doc))
	defer func() { observability.EndSpan(span, err) }()

	res, err := vault.AppendEntry(ctx, c.store, doc, text, c.clock.Now())
	if err != nil {
		c.log.WithError(err).Error("append transcription failed", logger.Fields(logger.FieldDocument, doc))
		host.Error(ctx, c.notifier, NoticeSaveFailed+errors.Message(err))
		return err
	}

	c.metrics.RecordAppend(ctx, res.Created)
	c.log.Info("transcription appended", logger.Fields(logger.FieldDocument, doc, "created", res.Created, "chars", len(text)))
	if res.Created {
		c.log.Info("voice notes file created", logger.Fields(logger.FieldDocument, doc, "location", vault.Location(c.store, doc)))
		host.Info(ctx, c.notifier, NoticeCreated+doc)
	}
	return nil
}

func (c *Controller) fail(ctx context.Context, err error) {
	c.show(TextError, false)
	c.scheduleRevert()
	c.metrics.RecordEvent(ctx, observability.EventTranscriptionFailed)
	c.log.WithError(err).Error("stop recording failed")
	host.Error(ctx, c.notifier, NoticeTranscribeFailed+errors.Message(err))
}

func (c *Controller) currentBackend() Backend {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.backend
}

func (c *Controller) setState(s State) {
	c.stateMu.Lock()
	c.state = s
	c.stateMu.Unlock()
}

// show sets the indicator, cancelling any pending revert first.
func (c *Controller) show(text string, recording bool) {
	c.displayMu.Lock()
	defer c.displayMu.Unlock()
	c.stateMu.Lock()
	c.cancelRevertLocked()
	c.stateMu.Unlock()
	c.indicator.SetText(text)
	c.indicator.SetRecording(recording)
}

func (c *Controller) scheduleRevert() {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	c.cancelRevertLocked()
	id := c.revertID
	c.revert = c.clock.AfterFunc(c.revertDelay, func() {
		c.displayMu.Lock()
		defer c.displayMu.Unlock()

		c.stateMu.Lock()
		// A newer status may have been set after the timer fired.
		current := c.revertID == id
		if current {
			c.revert = nil
		}
		c.stateMu.Unlock()

		if current {
			c.indicator.SetText(TextReady)
		}
	})
}

func (c *Controller) cancelRevertLocked() {
	c.revertID++
	if c.revert != nil {
		c.revert.Stop()
		c.revert = nil
	}
}
