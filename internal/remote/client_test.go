package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pupil struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (p pupil) GetID() string { return p.ID }

func (p pupil) WithID(id string) pupil {
	p.ID = id
	return p
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client[pupil], *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient[pupil]("students", Config{BaseURL: srv.URL, Timeout: time.Second}), srv
}

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

func TestListNormalisesKnownShapes(t *testing.T) {
	want := []pupil{{ID: "1", Name: "Aarav"}, {ID: "2", Name: "Diya"}}
	bodies := map[string]string{
		"array":    `[{"id":"1","name":"Aarav"},{"id":"2","name":"Diya"}]`,
		"wrapped":  `{"data":[{"id":"1","name":"Aarav"},{"id":"2","name":"Diya"}]}`,
		"envelope": `{"success":true,"data":[{"id":"1","name":"Aarav"},{"id":"2","name":"Diya"}],"pagination":{"page":1}}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			client, _ := newTestClient(t, respond(body))

			got, err := client.List(context.Background())

			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestListEnvelopeScenario(t *testing.T) {
	client, _ := newTestClient(t, respond(`{"success":true,"data":[{"id":"1","name":"Aarav"}]}`))

	got, err := client.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []pupil{{ID: "1", Name: "Aarav"}}, got)
}

func TestListUnknownShapesYieldEmpty(t *testing.T) {
	for _, body := range []string{
		``,
		`null`,
		`"text"`,
		`42`,
		`{"items":[{"id":"1"}]}`,
		`{"data":{"id":"1"}}`,
		`{"success":true,"data":null}`,
		`{"data":null}`,
	} {
		client, _ := newTestClient(t, respond(body))

		got, err := client.List(context.Background())

		require.NoError(t, err, body)
		assert.Equal(t, []pupil{}, got, body)
	}
}

func TestListFailureEnvelopeIsError(t *testing.T) {
	client, _ := newTestClient(t, respond(`{"success":false,"message":"database offline"}`))

	_, err := client.List(context.Background())

	var syncErr *RemoteSyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, "list", syncErr.Op)
	assert.Contains(t, err.Error(), "database offline")
}

func TestListNon2xxIsRemoteSyncError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":{"message":"maintenance"}}`)
	})

	_, err := client.List(context.Background())

	var syncErr *RemoteSyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, http.StatusServiceUnavailable, syncErr.Status)
	assert.Equal(t, http.StatusServiceUnavailable, syncErr.StatusCode())
	assert.Equal(t, "students", syncErr.Resource)
	assert.Contains(t, syncErr.Error(), "maintenance")
}

func TestListTransportFailure(t *testing.T) {
	client, srv := newTestClient(t, respond(`[]`))
	srv.Close()

	_, err := client.List(context.Background())

	var syncErr *RemoteSyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Zero(t, syncErr.Status)
}

func TestListHonoursContextCancellation(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.List(ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestCreateReturnsServerRecord(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotAuth   string
		gotBody   pupil
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotAuth = r.Method, r.URL.Path, r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"success":true,"data":{"id":"srv-1","name":"Diya"}}`)
	}))
	defer srv.Close()
	client := NewClient[pupil]("students", Config{BaseURL: srv.URL + "/", Token: "secret"})

	saved, err := client.Create(context.Background(), pupil{Name: "Diya"})

	require.NoError(t, err)
	assert.Equal(t, pupil{ID: "srv-1", Name: "Diya"}, saved)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/students", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "Diya", gotBody.Name)
}

func TestCreateAcceptsBareAndWrappedRecords(t *testing.T) {
	for _, body := range []string{`{"id":"9","name":"Kabir"}`, `{"data":{"id":"9","name":"Kabir"}}`} {
		client, _ := newTestClient(t, respond(body))

		saved, err := client.Create(context.Background(), pupil{Name: "Kabir"})

		require.NoError(t, err, body)
		assert.Equal(t, "9", saved.ID)
	}
}

func TestCreateWithoutIDFails(t *testing.T) {
	client, _ := newTestClient(t, respond(`{"success":true}`))

	_, err := client.Create(context.Background(), pupil{Name: "Kabir"})

	assert.ErrorIs(t, err, ErrMissingID)
}

func TestUpdateWithoutBodyReturnsPayload(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	saved, err := client.Update(context.Background(), "7", pupil{Name: "Meera"})

	require.NoError(t, err)
	assert.Equal(t, pupil{ID: "7", Name: "Meera"}, saved)
	assert.Equal(t, "/api/students/7", gotPath)
}

func TestUpdateFillsMissingID(t *testing.T) {
	client, _ := newTestClient(t, respond(`{"data":{"name":"Meera R"}}`))

	saved, err := client.Update(context.Background(), "7", pupil{Name: "Meera"})

	require.NoError(t, err)
	assert.Equal(t, pupil{ID: "7", Name: "Meera R"}, saved)
}

func TestRemoveSendsDelete(t *testing.T) {
	var mu sync.Mutex
	var gotMethod, gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotMethod, gotPath = r.Method, r.URL.EscapedPath()
		mu.Unlock()
		_, _ = io.WriteString(w, `{"success":true}`)
	})

	require.NoError(t, client.Remove(context.Background(), "a/b"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/students/a%2Fb", gotPath)
}

func TestRemoveRejectedByBackend(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	err := client.Remove(context.Background(), "x")

	var syncErr *RemoteSyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, http.StatusNotFound, syncErr.Status)
	assert.Contains(t, err.Error(), "Not Found")
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (r *recordingObserver) ObserveUpstream(resource, op, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, resource+"/"+op+"/"+outcome)
}

func TestClientReportsCallOutcomes(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()
	obs := &recordingObserver{}
	client := NewClient[pupil]("students", Config{BaseURL: srv.URL, Observer: obs})

	_, _ = client.List(context.Background())
	fail.Store(true)
	_, _ = client.List(context.Background())

	assert.Equal(t, []string{"students/list/ok", "students/list/error"}, obs.outcomes)
}
