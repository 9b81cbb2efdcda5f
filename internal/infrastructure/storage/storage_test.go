package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/montasim/school-management-backend-sub003/domain"
	"github.com/montasim/school-management-backend-sub003/internal/infrastructure/ledger"
)

func drivers(t *testing.T) map[string]Store {
	t.Helper()

	disk, err := NewDisk(filepath.Join(t.TempDir(), "files"))
	if err != nil {
		t.Fatal(err)
	}

	db, err := ledger.OpenDB(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	boltStore, err := NewBolt(db)
	if err != nil {
		t.Fatal(err)
	}

	return map[string]Store{"disk": disk, "bolt": boltStore}
}

func TestUploadOpenDeleteRoundTrip(t *testing.T) {
	for name, store := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			blob := domain.Blob{
				Name:        "routine.pdf",
				ContentType: "application/pdf",
				Content:     []byte("%PDF-1.4 routine"),
			}

			stored, err := store.Upload(ctx, blob)
			if err != nil {
				t.Fatalf("upload: %v", err)
			}
			if !strings.HasPrefix(stored.ID, "file-") {
				t.Fatalf("file id %q lacks prefix", stored.ID)
			}
			if stored.ShareableLink != "/files/"+stored.ID {
				t.Fatalf("shareable link = %q", stored.ShareableLink)
			}
			if stored.DownloadLink != "/files/"+stored.ID+"?download=1" {
				t.Fatalf("download link = %q", stored.DownloadLink)
			}

			opened, err := store.Open(ctx, stored.ID)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			if opened.Name != blob.Name || opened.ContentType != blob.ContentType {
				t.Fatalf("metadata mismatch: %+v", opened)
			}
			if string(opened.Content) != string(blob.Content) {
				t.Fatalf("content mismatch: %q", opened.Content)
			}

			if err := store.Delete(ctx, stored.ID); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := store.Open(ctx, stored.ID); !errors.Is(err, domain.ErrFileNotFound) {
				t.Fatalf("open after delete: %v", err)
			}
			if err := store.Delete(ctx, stored.ID); !errors.Is(err, domain.ErrFileNotFound) {
				t.Fatalf("second delete: %v", err)
			}
		})
	}
}

func TestOpenUnknownID(t *testing.T) {
	for name, store := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Open(context.Background(), "file-nope"); !errors.Is(err, domain.ErrFileNotFound) {
				t.Fatalf("got %v, want ErrFileNotFound", err)
			}
		})
	}
}

func TestDiskRejectsTraversal(t *testing.T) {
	disk, err := NewDisk(filepath.Join(t.TempDir(), "files"))
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"../etc/passwd", "file-../../x", "plain"} {
		if _, err := disk.Open(context.Background(), id); !errors.Is(err, domain.ErrFileNotFound) {
			t.Fatalf("id %q: got %v, want ErrFileNotFound", id, err)
		}
	}
}
