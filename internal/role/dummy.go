package role

import (
	"context"
	"errors"
)

// DummyClient replays queued completions in FIFO order. It backs the tests
// and the -demo walkthrough.
type DummyClient struct {
	queued  []string
	Prompts []string
}

func (c *DummyClient) Queue(responses ...string) {
	c.queued = append(c.queued, responses...)
}

func (c *DummyClient) Complete(_ context.Context, prompt string) (string, error) {
	c.Prompts = append(c.Prompts, prompt)
	if len(c.queued) == 0 {
		return "", errors.New("dummy client queue exhausted")
	}
	next := c.queued[0]
	c.queued = c.queued[1:]
	return next, nil
}
