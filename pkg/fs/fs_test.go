package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomicAndRead(t *testing.T) {
	lfs := NewLocalFileSystem()
	path := filepath.Join(t.TempDir(), "nested", "out.jpg")

	if err := lfs.WriteFileAtomic(path, 0644, []byte("jpeg-bytes")); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}

	ok, err := lfs.Exists(path)
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}

	data, err := lfs.ReadFile(path, 0)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Fatalf("ReadFile = %q", data)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("temporary files left behind: %d entries", len(entries))
	}
}

func TestReadFileLimits(t *testing.T) {
	lfs := NewLocalFileSystem()
	dir := t.TempDir()
	path := filepath.Join(dir, "in.png")
	if err := os.WriteFile(path, make([]byte, 100), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := lfs.ReadFile(path, 10); err == nil {
		t.Error("expected size limit error")
	}
	if _, err := lfs.ReadFile(dir, 0); err == nil {
		t.Error("expected directory error")
	}
	if ok, err := lfs.Exists(filepath.Join(dir, "missing")); ok || err != nil {
		t.Errorf("Exists(missing) = %v, %v", ok, err)
	}
}
