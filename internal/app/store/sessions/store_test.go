package sessions_test

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/ezdash/internal/app/store/sessions"
	"github.com/dalemusser/ezdash/internal/app/system/sessionstore"
	"github.com/dalemusser/ezdash/internal/domain/models"
	"github.com/dalemusser/ezdash/internal/testutil"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

func TestStore_SetGetUnset(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := sessions.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id := uuid.NewString()

	v, err := store.Get(ctx, id, "missing")
	if err != nil {
		t.Fatalf("Get on missing record: %v", err)
	}
	if v != nil {
		t.Errorf("expected nil for missing record, got %q", v)
	}

	if err := store.Set(ctx, id, "k", []byte("v1")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(ctx, id, "k", []byte("v2")); err != nil {
		t.Fatalf("Set (overwrite) failed: %v", err)
	}

	v, err = store.Get(ctx, id, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(v) != "v2" {
		t.Errorf("value: got %q, want %q", v, "v2")
	}

	if err := store.Unset(ctx, id, "k"); err != nil {
		t.Fatalf("Unset failed: %v", err)
	}
	v, err = store.Get(ctx, id, "k")
	if err != nil {
		t.Fatalf("Get after Unset: %v", err)
	}
	if v != nil {
		t.Errorf("expected nil after Unset, got %q", v)
	}
}

func TestStore_ForBacksSessionStore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := sessions.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ss := sessionstore.New(store.For(uuid.NewString()), nil)
	sess := models.Session{Email: "a@b.c", AuthToken: "tok"}

	if err := ss.Save(ctx, sess); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !ss.IsAuthenticated(ctx) {
		t.Fatal("expected authenticated after Save")
	}
	got, ok := ss.Load(ctx)
	if !ok || got != sess {
		t.Errorf("Load: got %+v ok=%v, want %+v", got, ok, sess)
	}

	if err := ss.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if ss.IsAuthenticated(ctx) {
		t.Error("expected unauthenticated after Clear")
	}
}

func TestStore_DeleteIdle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := sessions.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	stale := uuid.NewString()
	fresh := uuid.NewString()
	if err := store.Set(ctx, stale, "k", []byte("v")); err != nil {
		t.Fatalf("Set stale: %v", err)
	}
	if err := store.Set(ctx, fresh, "k", []byte("v")); err != nil {
		t.Fatalf("Set fresh: %v", err)
	}

	// Backdate the stale record.
	_, err := db.Collection("session_records").UpdateOne(context.Background(),
		bson.M{"_id": stale},
		bson.M{"$set": bson.M{"last_active_at": time.Now().UTC().Add(-48 * time.Hour)}})
	if err != nil {
		t.Fatalf("backdate: %v", err)
	}

	n, err := store.DeleteIdle(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("DeleteIdle failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted: got %d, want 1", n)
	}

	if v, _ := store.Get(ctx, fresh, "k"); string(v) != "v" {
		t.Errorf("fresh record should survive, got %q", v)
	}
}
