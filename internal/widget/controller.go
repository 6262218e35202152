// Package widget implements the chat controller: it owns the conversation
// view, turns submissions into user bubbles with paired assistant
// placeholders, and fills each placeholder with a sanitized reply or an
// inline error.
//
// Submit and Resolve mutate the conversation and must be called from one
// goroutine (the UI loop). FetchReply only reads controller settings and may
// run anywhere.
package widget

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apierrors "github.com/diogo/chaindocs/internal/errors"
	"github.com/diogo/chaindocs/internal/models"
	"github.com/diogo/chaindocs/internal/render"
)

// Asker sends a single query to the server
type Asker interface {
	Ask(ctx context.Context, query string) (*models.AskResponse, error)
}

// Controller drives one chat widget
type Controller struct {
	asker   Asker
	logger  *zap.Logger
	render  render.Options
	newID   func() string
	bubbles []Bubble
	index   map[string]int
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the logger used for exchange diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRenderOptions sets the markdown options used to build reply HTML
func WithRenderOptions(opts render.Options) Option {
	return func(c *Controller) {
		c.render = opts
	}
}

// WithIDGenerator replaces the bubble id source
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// New creates a Controller that sends queries through asker
func New(asker Asker, opts ...Option) *Controller {
	c := &Controller{
		asker:  asker,
		logger: zap.NewNop(),
		render: render.DefaultOptions(),
		newID:  uuid.NewString,
		index:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit appends the user bubble and its assistant placeholder.
// Empty or whitespace-only input is ignored and reports false.
func (c *Controller) Submit(raw string) (Exchange, bool) {
	query := strings.TrimSpace(raw)
	if query == "" {
		return Exchange{}, false
	}

	c.append(Bubble{
		ID:      c.newID(),
		Role:    models.RoleUser,
		Content: query,
		State:   StateDone,
	})

	placeholder := Bubble{
		ID:    c.newID(),
		Role:  models.RoleAssistant,
		State: StatePending,
	}
	c.append(placeholder)

	c.logger.Debug("message submitted",
		zap.String("placeholder", placeholder.ID),
		zap.Int("chars", len(query)),
	)

	return Exchange{ID: placeholder.ID, Query: query}, true
}

// FetchReply performs the network exchange for ex and renders the answer.
// It never returns an error; failures are carried in Reply.Err with the
// inline text already in Reply.Content.
func (c *Controller) FetchReply(ctx context.Context, ex Exchange) Reply {
	start := time.Now()
	reply := Reply{ID: ex.ID}

	resp, err := c.asker.Ask(ctx, ex.Query)
	if err == nil && resp == nil {
		err = apierrors.ErrNoAnswer
	}
	if err != nil {
		reply.Err = err
		reply.Content = apierrors.InlineMessage(err)
		c.logger.Warn("exchange failed",
			zap.String("placeholder", ex.ID),
			zap.Int("status", apierrors.GetHTTPStatus(err)),
			zap.Duration("took", time.Since(start)),
			zap.Error(err),
		)
		return reply
	}

	html, err := render.ToHTML(resp.Answer, c.render)
	if err != nil {
		reply.Err = err
		reply.Content = apierrors.FetchFailedMessage
		c.logger.Warn("rendering answer failed", zap.String("placeholder", ex.ID), zap.Error(err))
		return reply
	}

	reply.Content = html
	reply.Sources = resp.Sources
	c.logger.Debug("exchange completed",
		zap.String("placeholder", ex.ID),
		zap.Int("sources", len(resp.Sources)),
		zap.Duration("took", time.Since(start)),
	)
	return reply
}

// Resolve fills the placeholder named by r. It reports false when no
// pending placeholder has that id.
func (c *Controller) Resolve(r Reply) bool {
	i, ok := c.index[r.ID]
	if !ok || !c.bubbles[i].IsPending() {
		c.logger.Debug("reply for unknown placeholder dropped", zap.String("placeholder", r.ID))
		return false
	}

	b := &c.bubbles[i]
	b.Content = r.Content
	if r.Failed() {
		b.State = StateFailed
		b.Sources = nil
		return true
	}
	b.State = StateDone
	b.Sources = append([]string(nil), r.Sources...)
	return true
}

// Send runs a full exchange synchronously and returns the resolved
// assistant bubble. It reports false when raw is empty.
func (c *Controller) Send(ctx context.Context, raw string) (Bubble, bool) {
	ex, ok := c.Submit(raw)
	if !ok {
		return Bubble{}, false
	}
	c.Resolve(c.FetchReply(ctx, ex))
	b, _ := c.Bubble(ex.ID)
	return b, true
}

// Bubbles returns a copy of the conversation in display order
func (c *Controller) Bubbles() []Bubble {
	out := make([]Bubble, len(c.bubbles))
	copy(out, c.bubbles)
	return out
}

// Bubble returns the bubble with the given id
func (c *Controller) Bubble(id string) (Bubble, bool) {
	i, ok := c.index[id]
	if !ok {
		return Bubble{}, false
	}
	return c.bubbles[i], true
}

// Len returns the number of bubbles
func (c *Controller) Len() int {
	return len(c.bubbles)
}

// Pending returns how many placeholders are still waiting for a reply
func (c *Controller) Pending() int {
	n := 0
	for _, b := range c.bubbles {
		if b.IsPending() {
			n++
		}
	}
	return n
}

// LastAnswer returns the most recent successfully answered assistant bubble
func (c *Controller) LastAnswer() (Bubble, bool) {
	for i := len(c.bubbles) - 1; i >= 0; i-- {
		b := c.bubbles[i]
		if b.Role == models.RoleAssistant && b.State == StateDone {
			return b, true
		}
	}
	return Bubble{}, false
}

func (c *Controller) append(b Bubble) {
	c.index[b.ID] = len(c.bubbles)
	c.bubbles = append(c.bubbles, b)
}
