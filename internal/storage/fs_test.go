package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func tempDataDir(t *testing.T) *FS {
	t.Helper()
	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempDataDir(t)
	content := []byte("basic_foods: []\n")
	if err := s.Write("foods.yaml", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("foods.yaml")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempDataDir(t)
	if err := s.Write("logs/alice_logs.yaml", []byte("user_name: alice\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Root(), "logs", "alice_logs.yaml")); err != nil {
		t.Errorf("file not created: %v", err)
	}
}

func TestReadMissingIsNotExist(t *testing.T) {
	s := tempDataDir(t)
	_, err := s.Read("nope.yaml")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempDataDir(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.yaml",
		"/etc/shadow",
		"",
		".",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
	}
}

func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	s := tempDataDir(t)
	_ = s.Write("atomic.yaml", []byte("original content"))

	updated := []byte("updated content")
	if err := s.Write("atomic.yaml", updated); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("atomic.yaml")
	if string(got) != string(updated) {
		t.Errorf("expected updated content, got %q", got)
	}

	matches, _ := filepath.Glob(filepath.Join(s.root, TempPrefix+"*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS("/tmp/yada-does-not-exist-" + t.Name())
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "yada-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
