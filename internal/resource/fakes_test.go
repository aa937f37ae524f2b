package resource

import (
	"context"
	"errors"
	"strings"
	"sync"
)

type widget struct {
	ID     string   `json:"id"`
	Name   string   `json:"name" validate:"required"`
	Code   string   `json:"code"`
	Group  string   `json:"group"`
	Status string   `json:"status" validate:"required,oneof=active inactive"`
	Tags   []string `json:"tags"`
}

func (w widget) GetID() string { return w.ID }

func (w widget) WithID(id string) widget {
	w.ID = id
	return w
}

func widgetSchema() Schema[widget] {
	return Schema[widget]{
		Name:  "widgets",
		Label: "Widget",
		Search: func(w widget) []string {
			return append([]string{w.Name, w.Code}, w.Tags...)
		},
		Filters: map[string]Field[widget]{
			"status": func(w widget) string { return w.Status },
			"group":  func(w widget) string { return w.Group },
		},
		Key: func(w widget) string { return w.Code },
		Prepare: func(w widget) widget {
			if w.Status == "" {
				w.Status = "active"
			}
			return w
		},
		Check: func(w widget) map[string]string {
			if strings.Contains(w.Code, " ") {
				return map[string]string{"code": "must not contain spaces"}
			}
			return nil
		},
		Summarize: func(items []widget) interface{} {
			return Count(items, func(w widget) bool { return w.Status == "active" })
		},
	}
}

var errOffline = errors.New("dial tcp: connection refused")

type statusError struct{ status int }

func (e statusError) Error() string   { return "upstream rejected" }
func (e statusError) StatusCode() int { return e.status }

type fakeRemote struct {
	mu        sync.Mutex
	items     []widget
	listErr   error
	createErr error
	updateErr error
	removeErr error
	nextID    string
	calls     int
}

func (f *fakeRemote) List(context.Context) ([]widget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]widget(nil), f.items...), nil
}

func (f *fakeRemote) Create(_ context.Context, w widget) (widget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.createErr != nil {
		return widget{}, f.createErr
	}
	w.ID = f.nextID
	f.items = append(f.items, w)
	return w, nil
}

func (f *fakeRemote) Update(_ context.Context, id string, w widget) (widget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.updateErr != nil {
		return widget{}, f.updateErr
	}
	w.ID = id
	return w, nil
}

func (f *fakeRemote) Remove(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.removeErr
}

type fakeSnapshot struct {
	mu      sync.Mutex
	records []widget
	writes  int
}

func (f *fakeSnapshot) Read(context.Context) []widget {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]widget{}, f.records...)
}

func (f *fakeSnapshot) Write(_ context.Context, records []widget) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append([]widget{}, records...)
	f.writes++
}

type fakeObserver struct {
	mu       sync.Mutex
	degraded map[string]int
}

func (f *fakeObserver) ObserveMutation(resource, op string, degraded bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.degraded == nil {
		f.degraded = map[string]int{}
	}
	if degraded {
		f.degraded[resource+"/"+op]++
	}
}

func findWidget(items []widget, id string) (widget, bool) {
	for _, w := range items {
		if w.ID == id {
			return w, true
		}
	}
	return widget{}, false
}
