package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// fakeBackend replays canned responses and records every call.
type fakeBackend struct {
	mu        sync.Mutex
	responses []fakeResponse
	calls     [][]Message
	options   []ChatOptions
	delay     time.Duration
	count     atomic.Int64
}

type fakeResponse struct {
	content string
	err     error
}

func newFakeBackend(responses ...fakeResponse) *fakeBackend {
	return &fakeBackend{responses: responses}
}

func (f *fakeBackend) Chat(ctx context.Context, messages []Message, opts ChatOptions) (string, error) {
	f.count.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, messages)
	f.options = append(f.options, opts)

	if len(f.responses) == 0 {
		return "", context.DeadlineExceeded
	}
	res := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return res.content, res.err
}

func (f *fakeBackend) Provider() string { return "fake" }

func (f *fakeBackend) Model() string { return "fake-model" }

func (f *fakeBackend) Calls() int {
	return int(f.count.Load())
}
