package fsutil

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestOSFileSystem_Exists(t *testing.T) {
	fsys := OSFileSystem{}

	if !fsys.Exists("filesystem.go") {
		t.Error("expected filesystem.go to exist")
	}
	if fsys.Exists("nonexistent_file_xyz.go") {
		t.Error("expected nonexistent file to not exist")
	}
}

func TestOSFileSystem_CreateAndOpen(t *testing.T) {
	dir := t.TempDir()
	fsys := OSFileSystem{}
	path := filepath.Join(dir, "nested", "poses.txt")

	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	w, err := fsys.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := io.WriteString(w, "1 0 0 0\n"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "1 0 0 0\n" {
		t.Errorf("unexpected content %q", data)
	}

	f, err := fsys.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != int64(len("1 0 0 0\n")) {
		t.Errorf("size = %d", info.Size())
	}
}

func TestOSFileSystem_OpenMissing(t *testing.T) {
	_, err := OSFileSystem{}.Open(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestMemoryFileSystem_WriteAndRead(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.WriteFile("/poses/a.txt", []byte("hello"))

	data, err := mfs.ReadFile("/poses/a.txt")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("expected hello, got %q", data)
	}

	// Returned slice is a copy.
	data[0] = 'j'
	again, _ := mfs.ReadFile("/poses/a.txt")
	if string(again) != "hello" {
		t.Errorf("stored content mutated: %q", again)
	}
}

func TestMemoryFileSystem_CreateVisibleOnClose(t *testing.T) {
	mfs := NewMemoryFileSystem()

	w, err := mfs.Create("/out.txt")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := w.Write([]byte("abc")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, _ := mfs.ReadFile("/out.txt")
	if len(data) != 0 {
		t.Errorf("expected empty before close, got %q", data)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	data, _ = mfs.ReadFile("/out.txt")
	if string(data) != "abc" {
		t.Errorf("expected abc, got %q", data)
	}
}

func TestMemoryFileSystem_Open(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.WriteFile("/in.txt", []byte("0123456789"))

	f, err := mfs.Open("/in.txt")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(data) != "0123456789" {
		t.Errorf("unexpected content %q", data)
	}

	info, err := f.Stat()
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Name() != "in.txt" || info.Size() != 10 || info.IsDir() {
		t.Errorf("unexpected info: %s %d %v", info.Name(), info.Size(), info.IsDir())
	}

	if _, err := mfs.Open("/missing.txt"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
	if _, err := mfs.ReadFile("/missing.txt"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestMemoryFileSystem_MkdirAllAndExists(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if err := mfs.MkdirAll("/a/b/c", 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	for _, p := range []string{"/a", "/a/b", "/a/b/c"} {
		if !mfs.Exists(p) {
			t.Errorf("expected %s to exist", p)
		}
	}
	if mfs.Exists("/a/x") {
		t.Error("unexpected directory /a/x")
	}
}

func TestMemoryFileSystem_Files(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.WriteFile("/plots/b.png", nil)
	mfs.WriteFile("/plots/a.png", nil)
	mfs.WriteFile("/other/c.png", nil)

	got := mfs.Files("/plots/")
	if len(got) != 2 || got[0] != "/plots/a.png" || got[1] != "/plots/b.png" {
		t.Errorf("unexpected files %v", got)
	}
}
