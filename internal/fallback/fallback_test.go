package fallback

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/school-portal/pkg/errors"
)

type record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type countingObserver struct {
	mu    sync.Mutex
	count map[string]int
}

func (c *countingObserver) ObserveCacheFailure(key, op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.count == nil {
		c.count = map[string]int{}
	}
	c.count[key+"/"+op]++
}

type brokenBackend struct{ err error }

func (b brokenBackend) Load(context.Context, string) ([]byte, error) { return nil, b.err }
func (b brokenBackend) Store(context.Context, string, []byte) error  { return b.err }

func TestSnapshotRoundTripOnMemory(t *testing.T) {
	ctx := context.Background()
	snap := NewSnapshot[record]("students", NewMemory(), nil, nil)

	assert.Equal(t, []record{}, snap.Read(ctx))

	snap.Write(ctx, []record{{ID: "1", Name: "Aarav"}})
	assert.Equal(t, []record{{ID: "1", Name: "Aarav"}}, snap.Read(ctx))

	snap.Write(ctx, nil)
	assert.Equal(t, []record{}, snap.Read(ctx))
}

func TestSnapshotMalformedPayloadReadsEmpty(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	require.NoError(t, mem.Store(ctx, "students", []byte(`{not json`)))
	obs := &countingObserver{}
	snap := NewSnapshot[record]("students", mem, nil, obs)

	assert.Equal(t, []record{}, snap.Read(ctx))
	assert.Equal(t, 1, obs.count["students/read"])
}

func TestSnapshotBackendFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	obs := &countingObserver{}
	snap := NewSnapshot[record]("events", brokenBackend{err: errors.New("disk full")}, nil, obs)

	snap.Write(ctx, []record{{ID: "1"}})
	got := snap.Read(ctx)

	assert.Equal(t, []record{}, got)
	assert.Equal(t, 1, obs.count["events/write"])
	assert.Equal(t, 1, obs.count["events/read"])
}

func TestSnapshotMissIsNotAFailure(t *testing.T) {
	obs := &countingObserver{}
	snap := NewSnapshot[record]("classes", NewMemory(), nil, obs)

	assert.Empty(t, snap.Read(context.Background()))
	assert.Empty(t, obs.count)
}

func TestMemoryStoresCopies(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	payload := []byte(`[1]`)
	require.NoError(t, mem.Store(ctx, "k", payload))
	payload[1] = '2'

	got, err := mem.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))
}

func TestFileBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	backend, err := NewFile(dir)
	require.NoError(t, err)

	_, err = backend.Load(ctx, "students")
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)

	require.NoError(t, backend.Store(ctx, "students", []byte(`[{"id":"1"}]`)))
	require.NoError(t, backend.Store(ctx, "students", []byte(`[{"id":"2"}]`)))

	got, err := backend.Load(ctx, "students")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"2"}]`, string(got))
	assert.Equal(t, filepath.Join(dir, "students.json"), backend.Path("students"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFileBackendRejectsUnsafeKeys(t *testing.T) {
	backend, err := NewFile(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../etc", "a/b"} {
		assert.Error(t, backend.Store(context.Background(), key, []byte(`[]`)), key)
	}
}

func TestFileBackendThroughSnapshot(t *testing.T) {
	ctx := context.Background()
	backend, err := NewFile(t.TempDir())
	require.NoError(t, err)
	snap := NewSnapshot[record]("teachers", backend, nil, nil)

	snap.Write(ctx, []record{{ID: "t1", Name: "Ms. Rao"}})

	assert.Equal(t, []record{{ID: "t1", Name: "Ms. Rao"}}, snap.Read(ctx))
}

func TestRedisNilClientIsEmpty(t *testing.T) {
	backend := NewRedis(nil, "")

	_, err := backend.Load(context.Background(), "students")
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
	assert.NoError(t, backend.Store(context.Background(), "students", []byte(`[]`)))
	assert.NoError(t, backend.Close())
}

func TestRedisUnreachableDegradesToEmptySnapshot(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	defer client.Close()
	obs := &countingObserver{}
	snap := NewSnapshot[record]("students", NewRedis(client, ""), nil, obs)

	snap.Write(context.Background(), []record{{ID: "1"}})

	assert.Equal(t, []record{}, snap.Read(context.Background()))
	assert.Equal(t, 1, obs.count["students/write"])
	assert.Equal(t, 1, obs.count["students/read"])
}

func newSnapshotDBMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestPostgresLoad(t *testing.T) {
	db, mock, cleanup := newSnapshotDBMock(t)
	defer cleanup()
	backend := NewPostgres(db)

	mock.ExpectQuery("SELECT payload FROM fallback_snapshots").
		WithArgs("students").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte(`[{"id":"1"}]`)))

	got, err := backend.Load(context.Background(), "students")

	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(got))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLoadMiss(t *testing.T) {
	db, mock, cleanup := newSnapshotDBMock(t)
	defer cleanup()
	backend := NewPostgres(db)

	mock.ExpectQuery("SELECT payload FROM fallback_snapshots").
		WithArgs("events").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}))

	_, err := backend.Load(context.Background(), "events")

	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
}

func TestPostgresStoreUpserts(t *testing.T) {
	db, mock, cleanup := newSnapshotDBMock(t)
	defer cleanup()
	backend := NewPostgres(db)

	mock.ExpectExec("INSERT INTO fallback_snapshots").
		WithArgs("students", `[{"id":"1"}]`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, backend.Store(context.Background(), "students", []byte(`[{"id":"1"}]`)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresEnsureSchema(t *testing.T) {
	db, mock, cleanup := newSnapshotDBMock(t)
	defer cleanup()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS fallback_snapshots").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewPostgres(db).EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFailureKeepsPreviousSnapshot(t *testing.T) {
	db, mock, cleanup := newSnapshotDBMock(t)
	defer cleanup()
	obs := &countingObserver{}
	snap := NewSnapshot[record]("students", NewPostgres(db), nil, obs)

	mock.ExpectExec("INSERT INTO fallback_snapshots").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectQuery("SELECT payload FROM fallback_snapshots").
		WithArgs("students").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte(`[{"id":"old"}]`)))

	snap.Write(context.Background(), []record{{ID: "new"}})

	assert.Equal(t, []record{{ID: "old"}}, snap.Read(context.Background()))
	assert.Equal(t, 1, obs.count["students/write"])
}
