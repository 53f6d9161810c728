// Package view holds the mutable view state for one user session and
// turns user intents into recomputed views.
//
// A Controller is not safe for concurrent use. Each session owns its own
// controller; the record store underneath swaps datasets atomically, so a
// recompute sees either the old or the new dataset.
package view

import (
	"github.com/ssargent/assetview/pkg/query"
	"github.com/ssargent/assetview/pkg/record"
)

// RecordSource supplies the current record sequence. *record.Store
// satisfies it.
type RecordSource interface {
	Records() []record.Record
}

// Observer is notified after every transition that changed the view
type Observer interface {
	OnParametersChanged(params query.Params, result query.Result)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(params query.Params, result query.Result)

func (f ObserverFunc) OnParametersChanged(params query.Params, result query.Result) {
	f(params, result)
}

// Option configures a Controller
type Option func(*Controller)

// WithParams starts the controller from previously saved parameters
func WithParams(params query.Params) Option {
	return func(c *Controller) {
		c.params = params
	}
}

// WithPageSize overrides the page size of the initial parameters
func WithPageSize(size int) Option {
	return func(c *Controller) {
		if size > 0 {
			c.params.PageSize = size
		}
	}
}

// WithObserver subscribes o before the initial computation
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		c.subscribe(o)
	}
}

type subscription struct {
	id       int
	observer Observer
}

// Controller owns the view parameters and the latest result
type Controller struct {
	source    RecordSource
	engine    *query.Engine
	params    query.Params
	result    query.Result
	observers []subscription
	nextID    int
}

// NewController builds a controller and computes the initial view. It
// fails when restored parameters name an unknown field.
func NewController(source RecordSource, engine *query.Engine, opts ...Option) (*Controller, error) {
	if engine == nil {
		engine = query.NewEngine(query.Options{})
	}
	c := &Controller{
		source: source,
		engine: engine,
		params: query.DefaultParams(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.apply(c.params); err != nil {
		return nil, err
	}
	return c, nil
}

// Params returns the current parameters
func (c *Controller) Params() query.Params {
	return c.params
}

// Result returns the latest computed view
func (c *Controller) Result() query.Result {
	return c.result
}

// Subscribe registers an observer and returns a function removing it
func (c *Controller) Subscribe(o Observer) func() {
	id := c.subscribe(o)
	return func() {
		for i, sub := range c.observers {
			if sub.id == id {
				c.observers = append(c.observers[:i], c.observers[i+1:]...)
				return
			}
		}
	}
}

func (c *Controller) subscribe(o Observer) int {
	c.nextID++
	c.observers = append(c.observers, subscription{id: c.nextID, observer: o})
	return c.nextID
}

// SetFilterField changes the filtered column and returns to the first page.
// The term and sort are left alone.
func (c *Controller) SetFilterField(field record.Field) error {
	next := c.params
	next.FilterField = field
	next.PageNumber = 1
	return c.apply(next)
}

// SetFilterTerm changes the search term and returns to the first page
func (c *Controller) SetFilterTerm(term string) error {
	next := c.params
	next.FilterTerm = term
	next.PageNumber = 1
	return c.apply(next)
}

// ToggleSort flips the direction when field is already the sort field,
// otherwise sorts ascending on field. The page number is kept.
func (c *Controller) ToggleSort(field record.Field) error {
	next := c.params
	if field == next.SortField {
		next.SortDirection = next.SortDirection.Flip()
	} else {
		next.SortField = field
		next.SortDirection = query.Ascending
	}
	return c.apply(next)
}

// NextPage advances one page. It is a no-op returning false when the
// latest result has no next page.
func (c *Controller) NextPage() (bool, error) {
	if !c.result.HasNext {
		return false, nil
	}
	next := c.params
	next.PageNumber++
	if err := c.apply(next); err != nil {
		return false, err
	}
	return true, nil
}

// PreviousPage goes back one page. It is a no-op returning false when the
// latest result has no previous page.
func (c *Controller) PreviousPage() (bool, error) {
	if !c.result.HasPrevious {
		return false, nil
	}
	next := c.params
	next.PageNumber--
	if err := c.apply(next); err != nil {
		return false, err
	}
	return true, nil
}

// Refresh recomputes the view with unchanged parameters, typically after
// the dataset was reloaded.
func (c *Controller) Refresh() error {
	return c.apply(c.params)
}

// apply computes next and installs it. A failed computation leaves the
// previous parameters and result in place.
func (c *Controller) apply(next query.Params) error {
	result, err := c.engine.Compute(c.source.Records(), next)
	if err != nil {
		return err
	}
	c.params = result.Params
	c.result = result
	for _, sub := range c.observers {
		sub.observer.OnParametersChanged(c.params, c.result)
	}
	return nil
}
