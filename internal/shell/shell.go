// Package shell drives one user interaction from query to display.
package shell

import (
	"context"
	"strings"

	"github.com/pageza/recipe-finder/internal/apperr"
	"github.com/pageza/recipe-finder/internal/service"
)

// State is a step of an interaction.
type State string

const (
	Idle           State = "idle"
	QuerySubmitted State = "query_submitted"
	Fetching       State = "fetching"
	Displaying     State = "displaying"
	Error          State = "error"
)

// Cycle records one interaction. It ends in Displaying or Error; the next
// query starts a new Cycle from Idle.
type Cycle struct {
	State  State
	Query  string
	Result *service.Result
	Err    error
	// Message is the short text shown for Err.
	Message string
	// Trace lists every state visited, in order.
	Trace []State
}

// NewCycle returns a cycle waiting for a query.
func NewCycle() *Cycle {
	c := &Cycle{}
	c.enter(Idle)
	return c
}

// Run submits query and walks the cycle to its end.
func Run(ctx context.Context, finder service.IRecipeFinder, query string) *Cycle {
	c := NewCycle()
	c.Submit(ctx, finder, query)
	return c
}

// Submit moves an idle cycle through fetching and formatting.
func (c *Cycle) Submit(ctx context.Context, finder service.IRecipeFinder, query string) {
	c.Query = query
	c.enter(QuerySubmitted)

	if strings.TrimSpace(query) == "" {
		c.fail(apperr.New(apperr.KindEmptyQuery, "shell.submit", nil))
		return
	}

	c.enter(Fetching)
	res, err := finder.Lookup(ctx, query)
	c.Result = res
	if err != nil {
		c.fail(err)
		return
	}
	if err := finder.Render(ctx, res); err != nil {
		c.fail(err)
		return
	}

	c.enter(Displaying)
}

// Failed reports whether the cycle ended in Error.
func (c *Cycle) Failed() bool {
	return c.State == Error
}

func (c *Cycle) enter(s State) {
	c.State = s
	c.Trace = append(c.Trace, s)
}

func (c *Cycle) fail(err error) {
	c.Err = err
	c.Message = apperr.UserMessage(err)
	c.enter(Error)
}
