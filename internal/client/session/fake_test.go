package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/dmitrijs2005/elite/internal/client/api"
	"github.com/dmitrijs2005/elite/internal/client/store"
)

type fakePipeline struct {
	mu        sync.Mutex
	responses map[string]any
	errs      map[string]error
	requests  []api.Request
	listener  api.InvalidationListener
	canceled  bool
}

func newFakePipeline() *fakePipeline {
	return &fakePipeline{responses: map[string]any{}, errs: map[string]error{}}
}

func (f *fakePipeline) Do(_ context.Context, r api.Request, out any) error {
	f.mu.Lock()
	f.requests = append(f.requests, r)
	err := f.errs[r.Path]
	v, ok := f.responses[r.Path]
	f.mu.Unlock()

	if err != nil {
		return err
	}
	if !ok || out == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func (f *fakePipeline) OnInvalidate(fn api.InvalidationListener) func() {
	f.listener = fn
	return func() { f.canceled = true }
}

func (f *fakePipeline) paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.requests))
	for _, r := range f.requests {
		out = append(out, r.Path)
	}
	return out
}

// failingRepo fails every read; writes go to the embedded Memory.
type failingRepo struct {
	*store.Memory
}

var errDisk = errors.New("disk on fire")

func (failingRepo) Get(context.Context, string) ([]byte, error) { return nil, errDisk }
