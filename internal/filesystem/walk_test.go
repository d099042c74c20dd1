package filesystem

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// makeTree creates files (and their parent directories) below root.
// Paths ending in "/" create empty directories.
func makeTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if p[len(p)-1] == '/' {
			if err := os.MkdirAll(full, 0o755); err != nil {
				t.Fatalf("Failed to create dir %s: %v", p, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("Failed to create parent of %s: %v", p, err)
		}
		if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
			t.Fatalf("Failed to create file %s: %v", p, err)
		}
	}
}

func collect(root string, mode Mode) []Entry {
	var out []Entry
	for e := range Walk(root, mode) {
		out = append(out, e)
	}
	return out
}

func rels(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir {
			out = append(out, e.Rel+"/")
		} else {
			out = append(out, e.Rel)
		}
	}
	return out
}

func assertRels(t *testing.T, got []Entry, want []string) {
	t.Helper()
	g := rels(got)
	if len(g) != len(want) {
		t.Fatalf("Walk() = %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("Walk() = %v, want %v", g, want)
		}
	}
}

func TestWalk_DirectChildren(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "x.jpg", "a/y.jpg", "a/b/z.jpg", "empty/")

	assertRels(t, collect(root, DirectChildren), []string{"a/", "empty/", "x.jpg"})
}

func TestWalk_AllDescendants(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "x.jpg", "a/y.jpg", "a/b/z.jpg", "a/b/c/", "empty/")

	assertRels(t, collect(root, AllDescendants), []string{
		"a/", "a/b/", "a/b/c/", "a/b/z.jpg", "a/y.jpg", "empty/", "x.jpg",
	})
}

func TestWalk_EntryFields(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "a/b/z.jpg")

	entries := collect(root, AllDescendants)
	last := entries[len(entries)-1]

	if last.Rel != "a/b/z.jpg" {
		t.Errorf("Rel = %q, want %q", last.Rel, "a/b/z.jpg")
	}
	if last.Name != "z.jpg" {
		t.Errorf("Name = %q, want %q", last.Name, "z.jpg")
	}
	if last.Path != filepath.Join(root, "a", "b", "z.jpg") {
		t.Errorf("Path = %q, want %q", last.Path, filepath.Join(root, "a", "b", "z.jpg"))
	}
	if last.IsDir {
		t.Error("IsDir = true for a file")
	}
}

func TestWalk_MissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")

	if got := collect(root, AllDescendants); len(got) != 0 {
		t.Errorf("Walk() on missing root = %v, want nothing", rels(got))
	}
}

func TestWalk_RootIsFile(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "x.jpg")

	if got := collect(filepath.Join(root, "x.jpg"), DirectChildren); len(got) != 0 {
		t.Errorf("Walk() on a file root = %v, want nothing", rels(got))
	}
}

func TestWalk_StopsEarly(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "a/1.jpg", "a/2.jpg", "b/3.jpg")

	count := 0
	for range Walk(root, AllDescendants) {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("iterated %d entries after break, want 2", count)
	}
}

func TestWalk_FollowsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on Windows")
	}

	outside := t.TempDir()
	makeTree(t, outside, "shared/s.jpg", "target.png")

	root := t.TempDir()
	makeTree(t, root, "a/")
	if err := os.Symlink(filepath.Join(outside, "shared"), filepath.Join(root, "a", "linked")); err != nil {
		t.Fatalf("Symlink() error = %v", err)
	}
	if err := os.Symlink(filepath.Join(outside, "target.png"), filepath.Join(root, "a", "link.png")); err != nil {
		t.Fatalf("Symlink() error = %v", err)
	}

	assertRels(t, collect(root, AllDescendants), []string{
		"a/", "a/link.png", "a/linked/", "a/linked/s.jpg",
	})
}

func TestWalk_SkipsBrokenSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on Windows")
	}

	root := t.TempDir()
	makeTree(t, root, "ok.jpg")
	if err := os.Symlink(filepath.Join(root, "nowhere.jpg"), filepath.Join(root, "broken.jpg")); err != nil {
		t.Fatalf("Symlink() error = %v", err)
	}

	obs := withObserver(t)

	assertRels(t, collect(root, DirectChildren), []string{"ok.jpg"})
	if obs.skipped["stat"] != 1 {
		t.Errorf("skipped[stat] = %d, want 1", obs.skipped["stat"])
	}
}

func TestWalk_SymlinkCycleTerminates(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on Windows")
	}

	root := t.TempDir()
	makeTree(t, root, "a/x.jpg")
	if err := os.Symlink(filepath.Join(root, "a"), filepath.Join(root, "a", "loop")); err != nil {
		t.Fatalf("Symlink() error = %v", err)
	}
	if err := os.Symlink(root, filepath.Join(root, "a", "up")); err != nil {
		t.Fatalf("Symlink() error = %v", err)
	}

	obs := withObserver(t)

	assertRels(t, collect(root, AllDescendants), []string{"a/", "a/x.jpg"})
	if obs.skipped["cycle"] != 2 {
		t.Errorf("skipped[cycle] = %d, want 2", obs.skipped["cycle"])
	}
}

func TestWalk_SkipsUnreadableDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on Windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	root := t.TempDir()
	makeTree(t, root, "locked/secret.jpg", "open/ok.jpg")
	locked := filepath.Join(root, "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("Chmod() error = %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	assertRels(t, collect(root, AllDescendants), []string{"locked/", "open/", "open/ok.jpg"})
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{DirectChildren, "direct"},
		{AllDescendants, "recursive"},
		{Mode(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}
