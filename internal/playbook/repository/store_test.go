package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/redis/go-redis/v9"

	"playops/internal/playbook/models"
	"playops/internal/scene"
)

func strPtr(s string) *string { return &s }

func samplePlay(name string) models.NewPlay {
	data := scene.New(scene.SportBasketball).
		WithPlayer(scene.Player{ID: "p1", Number: "1", TeamColor: "#FF6B00", Position: scene.Point{X: 600, Y: 500}, Size: 40}).
		WithRoute(scene.Route{
			ID:          "r1",
			PlayerID:    "p1",
			Points:      []scene.RoutePoint{{X: 600, Y: 500}, {X: 700, Y: 450}},
			Color:       "#FFFFFF",
			StrokeWidth: 3,
			LineType:    scene.LineDashed,
			HasArrow:    true,
		})
	return models.NewPlay{
		Name:        name,
		Description: strPtr("Classic basketball play"),
		Sport:       scene.SportBasketball,
		Tags:        []string{"offense", "basic"},
		Data:        data,
	}
}

// testStore exercises the Store contract against one backend.
func testStore(t *testing.T, store Store) {
	ctx := context.Background()

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	created, err := store.Create(ctx, samplePlay("Pick and Roll"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Errorf("Create must assign id and timestamps: %+v", created)
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	assertSamePlay(t, created, got)

	// Nullable fields round-trip as null.
	bare := samplePlay("Bare")
	bare.Description = nil
	bare.Tags = nil
	bareCreated, err := store.Create(ctx, bare)
	if err != nil {
		t.Fatalf("Create bare failed: %v", err)
	}
	bareGot, err := store.Get(ctx, bareCreated.ID)
	if err != nil {
		t.Fatalf("Get bare failed: %v", err)
	}
	if bareGot.Description != nil || bareGot.Tags != nil {
		t.Errorf("Expected null description and tags, got %v %v", bareGot.Description, bareGot.Tags)
	}

	time.Sleep(2 * time.Millisecond)
	newName := "Pick and Pop"
	updated, err := store.Update(ctx, created.ID, models.PlayPatch{Name: &newName, DescriptionSet: true})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != newName || updated.Description != nil {
		t.Errorf("Patch not applied: %+v", updated)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("Update must bump updatedAt: %v -> %v", created.UpdatedAt, updated.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("Update must keep createdAt")
	}
	if len(updated.Tags) != 2 {
		t.Errorf("Untouched tags changed: %v", updated.Tags)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) < 2 {
		t.Fatalf("Expected at least 2 plays, got %d", len(list))
	}
	if list[0].ID != created.ID {
		t.Errorf("Most recently updated play should be first, got %s", list[0].Name)
	}
	for i := 1; i < len(list); i++ {
		if list[i].UpdatedAt.After(list[i-1].UpdatedAt) {
			t.Errorf("List not sorted by updatedAt desc at %d", i)
		}
	}

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := store.Update(ctx, "missing", models.PlayPatch{Name: &newName}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on update of missing play, got %v", err)
	}

	if err := store.Delete(ctx, bareCreated.ID); err != nil {
		t.Errorf("Cleanup delete failed: %v", err)
	}
}

func assertSamePlay(t *testing.T, want, got models.Play) {
	t.Helper()
	if got.ID != want.ID || got.Name != want.Name || got.Sport != want.Sport {
		t.Errorf("Identity fields differ: want %+v got %+v", want, got)
	}
	if (got.Description == nil) != (want.Description == nil) ||
		(got.Description != nil && *got.Description != *want.Description) {
		t.Errorf("Description differs: want %v got %v", want.Description, got.Description)
	}
	if len(got.Tags) != len(want.Tags) {
		t.Errorf("Tags differ: want %v got %v", want.Tags, got.Tags)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) || !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Errorf("Timestamps differ: want %v/%v got %v/%v", want.CreatedAt, want.UpdatedAt, got.CreatedAt, got.UpdatedAt)
	}
	if !scene.Equal(got.Data, want.Data) {
		t.Errorf("Scene data differs:\nwant %+v\ngot  %+v", want.Data, got.Data)
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p, _ := store.Create(ctx, samplePlay("Zone Defense"))
	p.Tags[0] = "mutated"
	*p.Description = "mutated"

	got, _ := store.Get(ctx, p.ID)
	if got.Tags[0] != "offense" || *got.Description != "Classic basketball play" {
		t.Error("Caller mutation leaked into the store")
	}
}

func TestSQLiteStore(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "plays.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	store := NewSQLiteStore(db)
	defer store.Close()

	if err := store.Init(context.Background(), filepath.Join("..", "..", "..", "migrations", "001_init_plays.sql")); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	testStore(t, store)
}

func TestSQLiteStoreMissingMigration(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "plays.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer db.Close()

	if err := NewSQLiteStore(db).Init(context.Background(), "does/not/exist.sql"); err == nil {
		t.Error("Expected error for missing migration file")
	}
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set")
	}
	store, err := NewPostgresStore(dsn)
	if err != nil {
		t.Fatalf("NewPostgresStore failed: %v", err)
	}
	defer store.Close()

	if err := store.Init(context.Background(), filepath.Join("..", "..", "..", "migrations", "001_init_plays.pg.sql")); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	testStore(t, store)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	store := NewRedisStore(client)
	defer store.Close()

	testStore(t, store)
}

func TestUnavailableWrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := unavailable("insert play", cause)

	if !errors.Is(err, ErrUnavailable) || !errors.Is(err, cause) {
		t.Errorf("Expected both sentinel and cause to match, got %v", err)
	}
}

func TestSortByUpdatedBreaksTies(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	plays := []models.Play{
		{ID: "c", CreatedAt: base, UpdatedAt: base},
		{ID: "a", CreatedAt: base, UpdatedAt: base},
		{ID: "old", CreatedAt: base.Add(-time.Hour), UpdatedAt: base},
		{ID: "fresh", CreatedAt: base, UpdatedAt: base.Add(time.Minute)},
		{ID: "b", CreatedAt: base, UpdatedAt: base},
	}
	want := []string{"fresh", "a", "b", "c", "old"}

	for round := 0; round < 5; round++ {
		shuffled := append([]models.Play(nil), plays[round:]...)
		shuffled = append(shuffled, plays[:round]...)
		sortByUpdated(shuffled)
		for i, p := range shuffled {
			if p.ID != want[i] {
				t.Fatalf("Round %d: expected order %v, got %s at %d", round, want, p.ID, i)
			}
		}
	}
}

func TestMemoryStoreListIsDeterministic(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	stamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, id := range []string{"p3", "p1", "p4", "p2"} {
		store.plays[id] = models.Play{ID: id, Name: id, CreatedAt: stamp, UpdatedAt: stamp}
	}

	for i := 0; i < 20; i++ {
		list, err := store.List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		for j, want := range []string{"p1", "p2", "p3", "p4"} {
			if list[j].ID != want {
				t.Fatalf("Expected %s at %d, got %s", want, j, list[j].ID)
			}
		}
	}
}

func TestUpdateFailureKeepsDecodeErrors(t *testing.T) {
	_, decodeErr := decodePlay("p1", []byte("{not json"))
	if decodeErr == nil {
		t.Fatal("Expected decode error")
	}

	tests := []struct {
		name        string
		err         error
		unavailable bool
		notFound    bool
	}{
		{"corrupt record", decodeErr, false, false},
		{"missing play", ErrNotFound, false, true},
		{"transaction conflict", redis.TxFailedErr, true, false},
		{"connection refused", errors.New("dial tcp: connection refused"), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := updateFailure(tt.err)
			if errors.Is(got, ErrUnavailable) != tt.unavailable {
				t.Errorf("Expected unavailable=%v, got %v", tt.unavailable, got)
			}
			if errors.Is(got, ErrNotFound) != tt.notFound {
				t.Errorf("Expected not found=%v, got %v", tt.notFound, got)
			}
		})
	}
}

func TestRedisStoreUpdateCorruptRecord(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	store := NewRedisStore(client)
	defer store.Close()

	p, err := store.Create(ctx, samplePlay("Corrupt"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Delete(ctx, p.ID)
	if err := client.Set(ctx, redisPlayKey(p.ID), "{not json", 0).Err(); err != nil {
		t.Fatal(err)
	}

	_, err = store.Update(ctx, p.ID, models.PlayPatch{Name: strPtr("Renamed")})
	if err == nil {
		t.Fatal("Expected decode error")
	}
	if errors.Is(err, ErrUnavailable) {
		t.Errorf("Corrupt record must not report unavailable, got %v", err)
	}
}
