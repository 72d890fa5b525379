package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dmitrijs2005/elite/internal/client/api"
)

// fakeDoer answers "METHOD /path" keys with canned JSON or errors and
// records every request.
type fakeDoer struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	calls     []api.Request
	last      api.Request
}

func newFakeDoer() *fakeDoer {
	return &fakeDoer{responses: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeDoer) on(method, path, body string) *fakeDoer {
	f.responses[method+" "+path] = body
	return f
}

func (f *fakeDoer) fail(method, path string, err error) *fakeDoer {
	f.errs[method+" "+path] = err
	return f
}

func (f *fakeDoer) Do(_ context.Context, r api.Request, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, r)
	f.last = r

	key := r.Method + " " + r.Path
	if err, ok := f.errs[key]; ok {
		return err
	}
	body, ok := f.responses[key]
	if !ok {
		return &api.Error{Kind: api.KindUnknown, Status: 404, Message: "request failed with status code 404"}
	}
	if out == nil || body == "" {
		return nil
	}
	return json.Unmarshal([]byte(body), out)
}

func (f *fakeDoer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// lastBody re-encodes the last request body for comparison.
func (f *fakeDoer) lastBody() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.last.Body == nil {
		return ""
	}
	b, _ := json.Marshal(f.last.Body)
	return string(b)
}

func apiErr(kind api.Kind, status int) error {
	return &api.Error{Kind: kind, Status: status, Message: string(kind)}
}
