package remote_test

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pretzelday/daylog/internal/logbook"
	"github.com/pretzelday/daylog/internal/remote"
	"github.com/pretzelday/daylog/internal/server"
	"github.com/pretzelday/daylog/internal/sqlite"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()

	// Shared cache so every pooled connection sees the same memory database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	ts := httptest.NewServer(server.NewRouter(sqlite.NewLogRepository(db), server.NewHub(nil), nil))
	t.Cleanup(ts.Close)
	return ts
}

func entry(id, subject string, ts int64) logbook.Entry {
	return logbook.Entry{
		ID:          id,
		Subject:     subject,
		Activities:  []string{"ate"},
		DisplayTime: "9:00 AM",
		TimestampMs: ts,
		OriginalMs:  ts,
		DateKey:     "2025-03-10",
	}
}

func TestClient_PushUpdateList(t *testing.T) {
	ts := newBackend(t)
	client := remote.NewClient(ts.URL, nil)
	ctx := context.Background()

	ref, err := client.Push(ctx, "2025-03-10", entry("log_1_a", "Max", 200))
	require.NoError(t, err)
	require.NotEmpty(t, ref)

	e := entry("log_1_a", "Max", 200)
	e.RemoteRef = ref
	e.Activities = []string{"ate", "ran"}
	require.NoError(t, client.Update(ctx, "2025-03-10", e))

	listed, err := client.List(ctx, "2025-03-10")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, ref, listed[0].RemoteRef)
	require.Equal(t, []string{"ate", "ran"}, listed[0].Activities)
}

func TestClient_UpdateWithoutRefMatchesByID(t *testing.T) {
	ts := newBackend(t)
	client := remote.NewClient(ts.URL, nil)
	ctx := context.Background()

	_, err := client.Push(ctx, "2025-03-10", entry("log_1_a", "Max", 200))
	require.NoError(t, err)

	e := entry("log_1_a", "Max", 200)
	e.Activities = []string{"ate", "pood"}
	require.NoError(t, client.Update(ctx, "2025-03-10", e))

	listed, err := client.List(ctx, "2025-03-10")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, []string{"ate", "pood"}, listed[0].Activities)
}

func TestClient_UpdateUnknownRecordFails(t *testing.T) {
	ts := newBackend(t)
	client := remote.NewClient(ts.URL, nil)

	err := client.Update(context.Background(), "2025-03-10", entry("log_nope", "Max", 1))
	require.Error(t, err)
}

func TestClient_Remove(t *testing.T) {
	ts := newBackend(t)
	client := remote.NewClient(ts.URL, nil)
	ctx := context.Background()

	ref, err := client.Push(ctx, "2025-03-10", entry("log_1_a", "Max", 200))
	require.NoError(t, err)

	e := entry("log_1_a", "Max", 200)
	e.RemoteRef = ref
	require.NoError(t, client.Remove(ctx, "2025-03-10", e))

	listed, err := client.List(ctx, "2025-03-10")
	require.NoError(t, err)
	require.Empty(t, listed)
}

func TestClient_SubscribeDeliversSnapshotAndLiveEvents(t *testing.T) {
	ts := newBackend(t)
	client := remote.NewClient(ts.URL, nil)
	ctx := context.Background()

	_, err := client.Push(ctx, "2025-03-10", entry("log_1_a", "Max", 200))
	require.NoError(t, err)

	changes := make(chan logbook.Change, 16)
	sub, err := client.Subscribe(ctx, "2025-03-10", func(c logbook.Change) {
		changes <- c
	})
	require.NoError(t, err)
	defer sub.Cancel()

	first := waitChange(t, changes)
	require.Equal(t, logbook.ChangeAdded, first.Kind)
	require.Equal(t, "log_1_a", first.Record.ID)

	_, err = client.Push(ctx, "2025-03-10", entry("log_2_b", "Ruby", 300))
	require.NoError(t, err)

	second := waitChange(t, changes)
	require.Equal(t, "log_2_b", second.Record.ID)
}

func TestClient_SubscribeCancelStopsDelivery(t *testing.T) {
	ts := newBackend(t)
	client := remote.NewClient(ts.URL, nil)
	ctx := context.Background()

	changes := make(chan logbook.Change, 16)
	sub, err := client.Subscribe(ctx, "2025-03-10", func(c logbook.Change) {
		changes <- c
	})
	require.NoError(t, err)

	sub.Cancel()
	// Cancel twice is safe.
	sub.Cancel()

	_, err = client.Push(ctx, "2025-03-10", entry("log_1_a", "Max", 200))
	require.NoError(t, err)

	select {
	case c := <-changes:
		t.Fatalf("unexpected change after cancel: %+v", c)
	case <-time.After(200 * time.Millisecond):
	}
}

func waitChange(t *testing.T, ch <-chan logbook.Change) logbook.Change {
	t.Helper()
	select {
	case c := <-ch:
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change event")
		return logbook.Change{}
	}
}
