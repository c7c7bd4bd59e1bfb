package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-api-client/pkg/httpclient"
)

func openTestStore(t *testing.T, opts Options) *boltStore {
	t.Helper()
	storeRaw, err := openBolt(filepath.Join(t.TempDir(), "journal", "exchanges.db"), normalizeOptions(opts))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltStoreRecordsAndExpiresExchanges(t *testing.T) {
	store := openTestStore(t, Options{EntryTTL: time.Minute, CleanupInterval: time.Minute})
	now := time.Now()
	store.now = func() time.Time { return now }

	if _, found, err := store.Get("ex-1"); err != nil || found {
		t.Fatalf("expected unknown exchange, found=%v err=%v", found, err)
	}

	if err := store.Record(httpclient.Exchange{ID: "ex-1", Method: "GET", URL: "https://api.example.com/items", StatusCode: 200}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entry, found, err := store.Get("ex-1")
	if err != nil || !found {
		t.Fatalf("expected recorded exchange, found=%v err=%v", found, err)
	}
	if entry.URL != "https://api.example.com/items" || entry.StatusCode != 200 {
		t.Fatalf("unexpected entry %#v", entry)
	}

	// Move the clock past the TTL and the cleanup cadence.
	now = now.Add(2 * time.Minute)

	if _, found, err := store.Get("ex-1"); err != nil || found {
		t.Fatalf("expected entry to expire, found=%v err=%v", found, err)
	}
	recent, err := store.Recent(0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 0 {
		t.Fatalf("expected no live entries, got %d", len(recent))
	}
}

func TestBoltStoreRecentNewestFirst(t *testing.T) {
	store := openTestStore(t, Options{})

	ids := []string{"0001", "0002", "0003"}
	for _, id := range ids {
		if err := store.Record(httpclient.Exchange{ID: id, Method: "GET"}); err != nil {
			t.Fatalf("Record %s: %v", id, err)
		}
	}

	recent, err := store.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "0003" || recent[1].ID != "0002" {
		t.Fatalf("unexpected order: %#v", recent)
	}
}

func TestBoltStoreRejectsMissingID(t *testing.T) {
	store := openTestStore(t, Options{})
	if err := store.Record(httpclient.Exchange{Method: "GET"}); err == nil {
		t.Fatalf("expected error for exchange without id")
	}
}

func TestObserverRecordsClientExchanges(t *testing.T) {
	store := openTestStore(t, Options{})
	obs := Observer(store)

	ex := httpclient.Exchange{ID: "obs-1", Method: "DELETE", Error: "boom"}
	if err := obs.Observe(context.Background(), ex); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	entry, found, err := store.Get("obs-1")
	if err != nil || !found {
		t.Fatalf("expected entry, found=%v err=%v", found, err)
	}
	if !entry.Failed() {
		t.Fatalf("expected failed exchange to round trip: %#v", entry)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.Record(httpclient.Exchange{ID: "x"}); err != nil {
		t.Fatalf("noop store Record: %v", err)
	}
	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected bbolt without path to fail")
	}
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected unsupported type to fail")
	}
}
