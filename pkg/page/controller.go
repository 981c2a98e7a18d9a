package page

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formpage/pkg/api"
	"github.com/goliatone/go-formpage/pkg/editing"
	"github.com/goliatone/go-formpage/pkg/metrics"
	"github.com/goliatone/go-formpage/pkg/model"
	"github.com/goliatone/go-formpage/pkg/notify"
	"github.com/goliatone/go-formpage/pkg/render"
	"github.com/goliatone/go-formpage/pkg/session"
	"github.com/goliatone/go-formpage/pkg/validation"
	"github.com/goliatone/go-formpage/pkg/widgets"
)

var errEmptyRecord = errors.New("page: backend returned no record")

// Outcome describes a finished submit or restore.
type Outcome struct {
	Notification notify.Message
	// Navigate is the route to move to, empty to stay on the page.
	Navigate string
	// Record is result.data of a successful write.
	Record map[string]any
}

// Snapshot is a copy of the view state of a page.
type Snapshot struct {
	State        State
	Data         editing.Data
	Errors       validation.ErrorMap
	FormErrors   []string
	ShowAlert    bool
	Loading      bool
	Degraded     bool
	Notification *notify.Message
}

// Controller is the state machine behind one mounted page. It is safe for
// concurrent use; requests run on the calling goroutine without holding
// the lock, so a second submit while one is in flight sees ErrBusy.
type Controller struct {
	page    model.Page
	backend Backend

	notifier      notify.Notifier
	navigator     Navigator
	session       session.Updater
	validator     *validation.Engine
	log           *logrus.Entry
	now           func() time.Time
	recordID      string
	settingsIDKey string
	serverErrors  bool

	lifetime context.Context
	cancel   context.CancelFunc

	mu           sync.Mutex
	state        State
	data         editing.Data
	errors       validation.ErrorMap
	formErrors   []string
	showAlert    bool
	loading      bool
	degraded     bool
	notification *notify.Message
	unmounted    bool
}

// New builds a controller for page. Update-profile pages need WithRecordID.
func New(page model.Page, backend Backend, options ...Option) (*Controller, error) {
	if !page.Kind.Valid() {
		return nil, fmt.Errorf("page: unknown page kind %q", page.Kind)
	}
	if backend == nil {
		return nil, errors.New("page: backend is required")
	}

	c := &Controller{
		page:          page,
		backend:       backend,
		notifier:      notify.Discard,
		validator:     validation.Default(),
		log:           logrus.NewEntry(logrus.StandardLogger()),
		now:           time.Now,
		settingsIDKey: DefaultSettingsIDKey,
		state:         StateIdle,
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	if page.Kind == model.PageKindUpdateProfile && c.recordID == "" {
		return nil, ErrMissingID
	}

	c.log = c.log.WithFields(logrus.Fields{"page": page.ID, "kind": string(page.Kind)})
	c.lifetime, c.cancel = context.WithCancel(context.Background())
	c.data = editing.Initialize(page.Fields, c.now())
	return c, nil
}

// Page returns the configuration the controller drives.
func (c *Controller) Page() model.Page {
	return c.page
}

// Mount seeds the editing data from field defaults. Create pages are ready
// at once; update pages fetch their record first. A failed fetch is logged
// and leaves the defaults in place.
func (c *Controller) Mount(ctx context.Context) error {
	c.mu.Lock()
	if c.unmounted {
		c.mu.Unlock()
		return ErrUnmounted
	}
	if c.state.Busy() {
		c.mu.Unlock()
		return ErrBusy
	}
	c.data = editing.Initialize(c.page.Fields, c.now())
	c.clearErrors()
	c.notification = nil
	c.degraded = false
	if c.page.Kind == model.PageKindCreate {
		c.setState(StateReady)
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()
	return c.refresh(ctx)
}

// Change sets one editing value.
func (c *Controller) Change(key string, value any) error {
	if _, ok := c.page.Field(key); !ok {
		return fmt.Errorf("page: unknown field %q", key)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unmounted {
		return ErrUnmounted
	}
	c.data = c.data.With(key, editing.Normalize(value))
	return nil
}

// Focus hides the alert panel and clears validation errors.
func (c *Controller) Focus() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unmounted {
		return
	}
	c.clearErrors()
}

// Load replaces the editing data without a fetch. Keys missing from values
// fall back to field defaults.
func (c *Controller) Load(values map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unmounted {
		return ErrUnmounted
	}
	if c.state.Busy() {
		return ErrBusy
	}
	c.data = editing.Replace(values, c.page.Fields, c.now())
	c.clearErrors()
	c.setState(StateReady)
	return nil
}

// Submit validates the editing data and writes it. Validation errors show
// the alert and return ErrInvalid without calling the backend.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.unmounted {
		c.mu.Unlock()
		return Outcome{}, ErrUnmounted
	}
	if c.state.Busy() {
		c.mu.Unlock()
		metrics.ObserveOperation(c.page.ID, opSubmit, metrics.ResultBusy, 0)
		return Outcome{}, ErrBusy
	}

	c.setState(StateValidating)
	if errs := c.validator.ValidateAll(c.page.Fields, c.data); !errs.Empty() {
		c.errors = errs
		c.formErrors = nil
		c.showAlert = true
		msg := c.remember(notify.KindError, submitMessage(c.page, false))
		c.setState(StateReady)
		c.mu.Unlock()

		c.notifier.Notify(msg.Kind, msg.Text)
		metrics.ObserveOperation(c.page.ID, opSubmit, metrics.ResultInvalid, 0)
		return Outcome{Notification: msg}, ErrInvalid
	}

	id := c.recordID
	if c.page.Kind == model.PageKindUpdateSettings {
		id = c.data.Text(c.settingsIDKey)
	}
	if c.page.Kind != model.PageKindCreate && id == "" {
		msg := c.remember(notify.KindError, submitMessage(c.page, false))
		c.setState(StateReady)
		c.mu.Unlock()

		c.log.Warn("submit without record id")
		c.notifier.Notify(msg.Kind, msg.Text)
		metrics.ObserveOperation(c.page.ID, opSubmit, metrics.ResultFailure, 0)
		return Outcome{Notification: msg}, ErrMissingID
	}

	body := c.data.Map()
	c.clearErrors()
	c.loading = true
	c.setState(StateSubmitting)
	c.mu.Unlock()

	started := time.Now()
	record, err := c.write(ctx, id, body)
	elapsed := time.Since(started)

	c.mu.Lock()
	if c.unmounted {
		c.mu.Unlock()
		return Outcome{}, ErrUnmounted
	}
	c.loading = false

	if err != nil {
		c.setState(StateFailed)
		if c.serverErrors {
			if apiErr, ok := api.AsError(err); ok {
				mapping := render.MapErrorPayload(c.page, apiErr.FieldErrors)
				c.errors = mapping.Fields
				c.formErrors = mapping.Form
				c.showAlert = !c.errors.Empty() || len(c.formErrors) > 0
			}
		}
		msg := c.remember(notify.KindError, submitMessage(c.page, false))
		c.setState(StateReady)
		c.mu.Unlock()

		c.log.WithError(err).Warn("submit failed")
		c.notifier.Notify(msg.Kind, msg.Text)
		metrics.ObserveOperation(c.page.ID, opSubmit, metrics.ResultFailure, elapsed)
		return Outcome{Notification: msg}, err
	}

	c.setState(StateSuccess)
	msg := c.remember(notify.KindSuccess, submitMessage(c.page, true))
	out := Outcome{Notification: msg, Record: record}
	switch c.page.Kind {
	case model.PageKindCreate:
		out.Navigate = c.page.ListPath()
		c.setState(StateIdle)
	case model.PageKindUpdateProfile:
		out.Navigate = "/"
		c.setState(StateIdle)
	default:
		c.setState(StateReady)
	}
	c.mu.Unlock()

	if c.page.Kind == model.PageKindUpdateProfile && c.session != nil && record != nil {
		if err := c.session.UpdateSession(ctx, record); err != nil {
			c.log.WithError(err).Warn("session update failed")
		}
	}
	c.notifier.Notify(msg.Kind, msg.Text)
	if out.Navigate != "" && c.navigator != nil {
		c.navigator.Navigate(out.Navigate)
	}
	metrics.ObserveOperation(c.page.ID, opSubmit, metrics.ResultSuccess, elapsed)
	return out, nil
}

// Restore resets the settings record to its defaults on the backend, then
// fetches it again.
func (c *Controller) Restore(ctx context.Context) (Outcome, error) {
	if c.page.Kind != model.PageKindUpdateSettings {
		return Outcome{}, ErrUnsupported
	}

	c.mu.Lock()
	if c.unmounted {
		c.mu.Unlock()
		return Outcome{}, ErrUnmounted
	}
	if c.state.Busy() {
		c.mu.Unlock()
		metrics.ObserveOperation(c.page.ID, opRestore, metrics.ResultBusy, 0)
		return Outcome{}, ErrBusy
	}
	c.clearErrors()
	c.loading = true
	c.setState(StateSubmitting)
	c.mu.Unlock()

	started := time.Now()
	scoped, done := c.scope(ctx)
	_, err := c.backend.Restore(scoped, c.page.API.Restore)
	done()
	elapsed := time.Since(started)

	c.mu.Lock()
	if c.unmounted {
		c.mu.Unlock()
		return Outcome{}, ErrUnmounted
	}
	c.loading = false
	if err != nil {
		c.setState(StateFailed)
		msg := c.remember(notify.KindError, restoreMessage(c.page, false))
		c.setState(StateReady)
		c.mu.Unlock()

		c.log.WithError(err).Warn("restore failed")
		c.notifier.Notify(msg.Kind, msg.Text)
		metrics.ObserveOperation(c.page.ID, opRestore, metrics.ResultFailure, elapsed)
		return Outcome{Notification: msg}, err
	}
	c.setState(StateSuccess)
	msg := c.remember(notify.KindSuccess, restoreMessage(c.page, true))
	c.mu.Unlock()

	c.notifier.Notify(msg.Kind, msg.Text)
	metrics.ObserveOperation(c.page.ID, opRestore, metrics.ResultSuccess, elapsed)
	if err := c.refresh(ctx); err != nil {
		return Outcome{Notification: msg}, err
	}
	return Outcome{Notification: msg}, nil
}

// Unmount cancels in-flight requests. Their results are dropped and every
// later operation returns ErrUnmounted. Calling it twice is harmless.
func (c *Controller) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unmounted {
		return
	}
	c.unmounted = true
	c.loading = false
	c.cancel()
	c.setState(StateIdle)
}

// Data returns the current editing data.
func (c *Controller) Data() editing.Data {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.Clone()
}

// Snapshot copies the view state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{
		State:      c.state,
		Data:       c.data.Clone(),
		Errors:     c.errors.Clone(),
		FormErrors: append([]string(nil), c.formErrors...),
		ShowAlert:  c.showAlert,
		Loading:    c.loading,
		Degraded:   c.degraded,
	}
	if c.notification != nil {
		msg := *c.notification
		snap.Notification = &msg
	}
	return snap
}

// RenderOptions turns the current snapshot into renderer input.
func (c *Controller) RenderOptions() render.RenderOptions {
	snap := c.Snapshot()
	return render.RenderOptions{
		Values:       snap.Data,
		Errors:       snap.Errors,
		FormErrors:   snap.FormErrors,
		ShowAlert:    snap.ShowAlert,
		Loading:      snap.Loading,
		Notification: snap.Notification,
		Method:       render.MethodFor(c.page),
	}
}

// Handlers wires widget events to Change and Focus.
func (c *Controller) Handlers() widgets.Handlers {
	return widgets.Handlers{
		OnChange: func(value any, key string) {
			if err := c.Change(key, value); err != nil {
				c.log.WithError(err).Debug("change ignored")
			}
		},
		OnFocus: c.Focus,
	}
}

func (c *Controller) refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.unmounted {
		c.mu.Unlock()
		return ErrUnmounted
	}
	c.loading = true
	c.setState(StateLoading)
	c.mu.Unlock()

	started := time.Now()
	record, err := c.fetch(ctx)
	elapsed := time.Since(started)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unmounted {
		return ErrUnmounted
	}
	c.loading = false
	c.setState(StateReady)
	if err != nil {
		c.degraded = true
		c.log.WithError(err).Warn("fetch failed")
		metrics.ObserveOperation(c.page.ID, opFetch, metrics.ResultFailure, elapsed)
		return nil
	}
	c.degraded = false
	c.data = editing.Replace(record, c.page.Fields, c.now())
	c.clearErrors()
	metrics.ObserveOperation(c.page.ID, opFetch, metrics.ResultSuccess, elapsed)
	return nil
}

func (c *Controller) fetch(ctx context.Context) (map[string]any, error) {
	scoped, done := c.scope(ctx)
	defer done()

	var (
		record map[string]any
		err    error
	)
	switch c.page.Kind {
	case model.PageKindUpdateProfile:
		record, err = c.backend.GetByID(scoped, c.page.API.GetByID, c.recordID)
	case model.PageKindUpdateSettings:
		record, err = c.backend.GetAll(scoped, c.page.API.GetAll)
	default:
		return nil, ErrUnsupported
	}
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errEmptyRecord
	}
	return record, nil
}

func (c *Controller) write(ctx context.Context, id string, body map[string]any) (map[string]any, error) {
	scoped, done := c.scope(ctx)
	defer done()

	switch c.page.Kind {
	case model.PageKindCreate:
		return c.backend.Create(scoped, c.page.API.Create, body)
	default:
		return c.backend.UpdateByID(scoped, c.page.API.UpdateByID, id, body)
	}
}

// scope derives a request context cancelled by either ctx or Unmount.
func (c *Controller) scope(ctx context.Context) (context.Context, func()) {
	if ctx == nil {
		ctx = context.Background()
	}
	scoped, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.lifetime, cancel)
	return scoped, func() {
		stop()
		cancel()
	}
}

// The helpers below expect c.mu to be held.

func (c *Controller) setState(next State) {
	if c.state == next {
		return
	}
	c.log.WithFields(logrus.Fields{"from": string(c.state), "to": string(next)}).Debug("state")
	c.state = next
}

func (c *Controller) clearErrors() {
	c.errors = nil
	c.formErrors = nil
	c.showAlert = false
}

func (c *Controller) remember(kind notify.Kind, text string) notify.Message {
	msg := notify.Message{Kind: kind, Text: text}
	c.notification = &msg
	return msg
}
