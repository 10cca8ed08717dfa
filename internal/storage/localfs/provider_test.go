package localfs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"
)

func TestNewCreatesRoot(t *testing.T) {
	t.Parallel()
	root := filepath.Join(t.TempDir(), "nested", "temp")

	p, err := New(root)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	info, err := os.Stat(p.Root())
	if err != nil || !info.IsDir() {
		t.Fatalf("root not created: %v", err)
	}
	entries, _ := os.ReadDir(p.Root())
	if len(entries) != 0 {
		t.Fatalf("probe file left behind: %v", entries)
	}
}

func TestNewFailsOnFile(t *testing.T) {
	t.Parallel()
	file := filepath.Join(t.TempDir(), "plain")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(file); err == nil {
		t.Fatalf("expected error for non-directory root")
	}
	if _, err := New(" "); err == nil {
		t.Fatalf("expected error for empty root")
	}
}

func TestCreateUsesTimestampPrefix(t *testing.T) {
	t.Parallel()
	p, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	p.now = func() time.Time { return time.Unix(0, 1700000000000000000) }

	f, err := p.Create(context.Background(), "cat.jpg")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer f.Close()
	if got := filepath.Base(f.Name()); got != "1700000000000000000-cat.jpg" {
		t.Fatalf("unexpected name %q", got)
	}

	// Same clock reading: the second file must get a distinct name.
	g, err := p.Create(context.Background(), "cat.jpg")
	if err != nil {
		t.Fatalf("second Create failed: %v", err)
	}
	defer g.Close()
	if got := filepath.Base(g.Name()); got != "1700000000000000001-cat.jpg" {
		t.Fatalf("unexpected second name %q", got)
	}
}

func TestCreateConcurrentNamesAreUnique(t *testing.T) {
	t.Parallel()
	p, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	const n = 32
	names := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f, err := p.Create(context.Background(), "doc.pdf")
			if err != nil {
				t.Errorf("Create failed: %v", err)
				return
			}
			names <- f.Name()
			_ = f.Close()
		}()
	}
	wg.Wait()
	close(names)

	seen := map[string]bool{}
	for name := range names {
		if seen[name] {
			t.Fatalf("duplicate staged name %q", name)
		}
		seen[name] = true
	}
}

func TestCreateSanitizesName(t *testing.T) {
	t.Parallel()
	p, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"../../etc/passwd", `..\..\evil.exe`, "", ".."} {
		f, err := p.Create(context.Background(), name)
		if err != nil {
			t.Fatalf("Create(%q) failed: %v", name, err)
		}
		_ = f.Close()
		if filepath.Dir(f.Name()) != p.Root() {
			t.Fatalf("Create(%q) escaped root: %s", name, f.Name())
		}
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()
	p, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f, err := p.Create(context.Background(), "a.txt")
	if err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	if err := p.Remove(context.Background(), f.Name()); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(f.Name()); !os.IsNotExist(err) {
		t.Fatalf("file should be deleted: %v", err)
	}
	if err := p.Remove(context.Background(), f.Name()); err != nil {
		t.Fatalf("second Remove should be a no-op: %v", err)
	}
}

func TestRemoveRejectsOutsideRoot(t *testing.T) {
	t.Parallel()
	p, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	outside := filepath.Join(t.TempDir(), "keep.txt")
	if err := os.WriteFile(outside, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{outside, "../keep.txt", ""} {
		if err := p.Remove(context.Background(), path); err == nil {
			t.Errorf("Remove(%q) should fail", path)
		}
	}
	if _, err := os.Stat(outside); err != nil {
		t.Fatalf("outside file must survive: %v", err)
	}
}

func TestCreateTruncatesLongNames(t *testing.T) {
	t.Parallel()
	p, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{
		strings.Repeat("a", 245) + ".pdf",
		strings.Repeat("é", 150) + ".pdf",
		strings.Repeat("界", 100),
	} {
		f, err := p.Create(context.Background(), name)
		if err != nil {
			t.Fatalf("Create(%d bytes) failed: %v", len(name), err)
		}
		_ = f.Close()
		base := filepath.Base(f.Name())
		if len(base) > 255 {
			t.Fatalf("staged name is %d bytes", len(base))
		}
		if !utf8.ValidString(base) {
			t.Fatalf("staged name is not valid UTF-8: %q", base)
		}
		if strings.HasSuffix(name, ".pdf") && !strings.HasSuffix(base, ".pdf") {
			t.Fatalf("extension lost: %q", base)
		}
	}
}

func TestTruncateName(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		limit int
		want  string
	}{
		{"short.txt", 20, "short.txt"},
		{"abcdefghijklmnopqrst.txt", 16, "abcdefghijkl.txt"},
		{"éééééééé.md", 12, "éééé.md"},
		{"abcdef.verylongext", 8, "abcdef.v"},
	}
	for _, c := range cases {
		if got := truncateName(c.name, c.limit); got != c.want {
			t.Errorf("truncateName(%q, %d) = %q, want %q", c.name, c.limit, got, c.want)
		}
	}
}

func TestCreateErrorOmitsRoot(t *testing.T) {
	t.Parallel()
	p, err := New(filepath.Join(t.TempDir(), "staging"))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(p.Root()); err != nil {
		t.Fatal(err)
	}
	_, err = p.Create(context.Background(), "report.pdf")
	if err == nil {
		t.Fatal("Create should fail without a staging dir")
	}
	if strings.Contains(err.Error(), p.Root()) {
		t.Fatalf("error leaks staging path: %v", err)
	}
	if !strings.Contains(err.Error(), "report.pdf") {
		t.Fatalf("error should name the file: %v", err)
	}
}
