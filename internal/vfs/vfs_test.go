package vfs

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"pics/colormap.pcx", "pics/colormap.pcx"},
		{"\\pics\\conchars.pcx", "pics/conchars.pcx"},
		{"textures//e1u1/./floor.wal", "textures/e1u1/floor.wal"},
		{"../../etc/passwd", "etc/passwd"},
		{"", ""},
		{"/", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDirCaseInsensitive(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "pics"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "pics", "Colormap.pcx"), []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}

	d := NewDir(root)
	if d.Len() != 1 {
		t.Fatalf("indexed %d files, want 1", d.Len())
	}
	data, err := d.LoadFile("PICS/colormap.PCX")
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if string(data) != "abc" {
		t.Errorf("content = %q", data)
	}
	if got := d.Outstanding(); len(got) != 1 {
		t.Errorf("outstanding = %v", got)
	}
	d.FreeFile(data)
	if got := d.Outstanding(); len(got) != 0 {
		t.Errorf("outstanding after free = %v", got)
	}

	if _, err := d.LoadFile("pics/missing.pcx"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file: err = %v, want fs.ErrNotExist", err)
	}
}

func TestDirCreateExclusive(t *testing.T) {
	d := NewDir(t.TempDir())
	w, err := d.Create("screenshots/quake000.tga", true)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	io.WriteString(w, "shot")
	w.Close()

	if _, err := d.Create("screenshots/quake000.tga", true); !errors.Is(err, fs.ErrExist) {
		t.Errorf("second exclusive create: err = %v, want fs.ErrExist", err)
	}
	w, err = d.Create("screenshots/quake000.tga", false)
	if err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	w.Close()

	r, err := d.Open("SCREENSHOTS/quake000.tga")
	if err != nil {
		t.Fatalf("Open after create failed: %v", err)
	}
	r.Close()
}

func TestMemLedger(t *testing.T) {
	m := NewMem()
	m.Add("pics/a.pcx", []byte{1, 2, 3})
	m.Add("pics/empty.pcx", nil)

	a, err := m.LoadFile("Pics/A.pcx")
	if err != nil {
		t.Fatal(err)
	}
	a[0] = 9
	if stored, _ := m.File("pics/a.pcx"); stored[0] != 1 {
		t.Error("LoadFile returned the stored slice instead of a copy")
	}

	e, err := m.LoadFile("pics/empty.pcx")
	if err != nil {
		t.Fatal(err)
	}
	if len(e) != 0 {
		t.Errorf("empty file has %d bytes", len(e))
	}
	if m.Loads() != 2 || len(m.Outstanding()) != 2 {
		t.Fatalf("loads = %d outstanding = %v", m.Loads(), m.Outstanding())
	}

	m.FreeFile(a)
	m.FreeFile(e)
	m.FreeFile(a)
	if len(m.Outstanding()) != 0 {
		t.Errorf("outstanding = %v", m.Outstanding())
	}
	if m.DoubleFrees() != 1 {
		t.Errorf("double frees = %d, want 1", m.DoubleFrees())
	}
}

func TestMemCreate(t *testing.T) {
	m := NewMem()
	w, err := m.Create("screenshots/quake000.png", true)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Create("screenshots/quake000.png", true); !errors.Is(err, fs.ErrExist) {
		t.Errorf("reserved name: err = %v, want fs.ErrExist", err)
	}
	io.WriteString(w, "png")
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if data, ok := m.File("screenshots/quake000.png"); !ok || string(data) != "png" {
		t.Errorf("stored = %q, %v", data, ok)
	}

	r, err := m.Open("screenshots/quake000.png")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	b, _ := io.ReadAll(r)
	if string(b) != "png" {
		t.Errorf("Open read %q", b)
	}
}
