package pathlog

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestLog_AppendIterate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sel.tmp")

	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	for _, p := range []string{"/tmp/b", "/tmp/a", "/tmp/with space"} {
		if err := l.Append(p); err != nil {
			t.Fatalf("Append(%q) failed: %v", p, err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "/tmp/b\n/tmp/a\n/tmp/with space\n" {
		t.Errorf("log content = %q", raw)
	}

	want := []string{"/tmp/b", "/tmp/a", "/tmp/with space"}
	for i := 0; i < 2; i++ {
		got, err := ReadAll(path)
		if err != nil {
			t.Fatalf("ReadAll failed: %v", err)
		}
		if !slices.Equal(got, want) {
			t.Errorf("pass %d: ReadAll() = %v, want %v", i, got, want)
		}
	}
}

func TestIterate_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.tmp")

	count := 0
	for _, err := range Iterate(path) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		count++
	}
	if count != 0 {
		t.Errorf("Iterate(missing) yielded %d entries, want 0", count)
	}
	if Exists(path) {
		t.Error("Exists(missing) = true")
	}
}

func TestIterate_EarlyStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sel.tmp")
	if err := os.WriteFile(path, []byte("/a\n/b\n/c\n"), 0600); err != nil {
		t.Fatal(err)
	}

	var got []string
	for entry, err := range Iterate(path) {
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, entry)
		if len(got) == 2 {
			break
		}
	}
	if !slices.Equal(got, []string{"/a", "/b"}) {
		t.Errorf("got %v", got)
	}
}

func TestLog_Truncate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sel.tmp")

	l, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	if err := l.Append("/old"); err != nil {
		t.Fatal(err)
	}
	if err := l.Truncate(); err != nil {
		t.Fatalf("Truncate failed: %v", err)
	}
	if err := l.Append("/new"); err != nil {
		t.Fatal(err)
	}

	got, err := ReadAll(path)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []string{"/new"}) {
		t.Errorf("ReadAll() after Truncate = %v, want [/new]", got)
	}
}

func TestLog_SizeTruncateTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sel.tmp")

	l, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	if err := l.Append("/a"); err != nil {
		t.Fatal(err)
	}
	size, err := l.Size()
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	if size != int64(len("/a\n")) {
		t.Errorf("Size() = %d, want %d", size, len("/a\n"))
	}

	if err := l.Append("/b"); err != nil {
		t.Fatal(err)
	}
	if err := l.TruncateTo(size); err != nil {
		t.Fatalf("TruncateTo failed: %v", err)
	}

	got, err := ReadAll(path)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []string{"/a"}) {
		t.Errorf("ReadAll() after TruncateTo = %v, want [/a]", got)
	}
}
