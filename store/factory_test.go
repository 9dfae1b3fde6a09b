package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestNewStoreFactory(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	mr := miniredis.RunT(t)

	cases := []struct {
		name    string
		kind    string
		target  string
		wantErr bool
	}{
		{"memory", "memory", "", false},
		{"mem alias", "mem", "", false},
		{"file", "file", filepath.Join(dir, "state.json"), false},
		{"file without path", "file", "", true},
		{"sqlite", "sqlite", filepath.Join(dir, "state.db"), false},
		{"sqlite without path", "sqlite", "", true},
		{"redis", "redis", "redis://" + mr.Addr(), false},
		{"redis without url", "redis", "", true},
		{"unknown", "etcd", "", true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			st, err := NewStore(ctx, tc.kind, tc.target)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for kind %q", tc.kind)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewStore %s failed: %v", tc.kind, err)
			}
			if st == nil {
				t.Fatal("expected non-nil store")
			}
			if err := Close(st); err != nil {
				t.Fatalf("close failed: %v", err)
			}
		})
	}
}
