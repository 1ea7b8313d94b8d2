package bookmark

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNew(t *testing.T) {
	b, err := New("  Folio 12 ", "manifests/cantus.json", "#z=2&p=12")
	if err != nil {
		t.Fatal(err)
	}
	if b.Name != "Folio 12" || b.Fragment != "z=2&p=12" || b.ID == "" {
		t.Errorf("New() = %+v", b)
	}
	if got := b.URL(); got != "manifests/cantus.json#z=2&p=12" {
		t.Errorf("URL() = %q", got)
	}

	if _, err := New("", "m.json", ""); err == nil {
		t.Error("New() without name should fail")
	}
	if _, err := New("x", "", ""); err == nil {
		t.Error("New() without manifest should fail")
	}
}

func newTestStores(t *testing.T) map[string]Store {
	t.Helper()
	stores := map[string]Store{}

	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	stores["file"] = fs

	if uri := os.Getenv("FOLIOVIEW_TEST_MONGO_URI"); uri != "" {
		ms, err := NewMongoStore(context.Background(), MongoConfig{
			URI:        uri,
			Database:   "folioview_test",
			Collection: "bookmarks_" + time.Now().Format("150405.000000"),
		})
		if err != nil {
			t.Fatalf("NewMongoStore: %v", err)
		}
		t.Cleanup(func() {
			_ = ms.coll.Drop(context.Background())
			_ = ms.Close()
		})
		stores["mongo"] = ms
	}
	return stores
}

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for name, s := range newTestStores(t) {
		t.Run(name, func(t *testing.T) {
			a, _ := New("intro", "m.json", "p=1")
			b, _ := New("plate", "m.json", "p=40&y=300")
			a.CreatedAt = base.Add(time.Hour)
			b.CreatedAt = base

			for _, bm := range []*Bookmark{a, b} {
				if err := s.Put(ctx, bm); err != nil {
					t.Fatalf("Put: %v", err)
				}
			}

			got, err := s.Get(ctx, a.ID)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if diff := cmp.Diff(a, got); diff != "" {
				t.Errorf("Get() mismatch (-want +got):\n%s", diff)
			}

			all, err := s.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(all) != 2 || all[0].ID != b.ID || all[1].ID != a.ID {
				t.Errorf("List() order = %v, want oldest first", all)
			}

			a.Fragment = "p=2"
			if err := s.Put(ctx, a); err != nil {
				t.Fatalf("Put (replace): %v", err)
			}
			if got, _ := s.Get(ctx, a.ID); got.Fragment != "p=2" {
				t.Errorf("Fragment after replace = %q", got.Fragment)
			}

			if err := s.Delete(ctx, a.ID); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := s.Get(ctx, a.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get after Delete error = %v, want ErrNotFound", err)
			}
			if err := s.Delete(ctx, a.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("second Delete error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestFileStoreRejectsNonUUID(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := s.Get(ctx, "../../etc/passwd"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(traversal) error = %v, want ErrNotFound", err)
	}
	if err := s.Put(ctx, &Bookmark{ID: "../x"}); err == nil {
		t.Error("Put with invalid id should fail")
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	s, _ := NewFileStore(t.TempDir())

	a, _ := New("intro", "m.json", "p=1")
	b, _ := New("plate", "m.json", "p=2")
	c, _ := New("plate", "other.json", "p=3")
	a.ID = "aaaaaaaa-0000-4000-8000-000000000001"
	b.ID = "bbbbbbbb-0000-4000-8000-000000000002"
	c.ID = "bbbbbbbb-0000-4000-8000-000000000003"
	for _, bm := range []*Bookmark{a, b, c} {
		if err := s.Put(ctx, bm); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name    string
		ref     string
		wantID  string
		wantErr error
	}{
		{name: "full id", ref: b.ID, wantID: b.ID},
		{name: "id prefix", ref: "aaaa", wantID: a.ID},
		{name: "name", ref: "intro", wantID: a.ID},
		{name: "ambiguous name", ref: "plate", wantErr: ErrAmbiguous},
		{name: "ambiguous prefix", ref: "bbbb", wantErr: ErrAmbiguous},
		{name: "missing", ref: "nothing", wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(ctx, s, tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got.ID != tt.wantID {
				t.Errorf("Resolve() = %s, want %s", got.ID, tt.wantID)
			}
		})
	}
}
