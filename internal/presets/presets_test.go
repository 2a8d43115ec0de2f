package presets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phambaophuc/image-transform/internal/geometry"
	"go.uber.org/zap"
)

const sample = `
presets:
  thumbnail:
    action: crop
    width: 200
    height: 150
    crop: fill
    gravity: north
    quality: 80
    format: webp
  avatar:
    modifiers: s128-gc
  banner:
    width: 1200
    height: 400
    crop: pad
`

func TestParse(t *testing.T) {
	got, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := map[string]geometry.Modifiers{
		"thumbnail": {Action: geometry.ActionCrop, Width: 200, Height: 150, Crop: geometry.CropFill, Gravity: geometry.GravityNorth, Quality: 80, ForceType: geometry.FormatWebP},
		"avatar":    {Action: geometry.ActionSquare, Width: 128, Height: 128, Gravity: geometry.GravityCenter},
		"banner":    {Action: geometry.ActionCrop, Width: 1200, Height: 400, Crop: geometry.CropPad, Gravity: geometry.GravityCenter},
	}
	if len(got) != len(want) {
		t.Fatalf("Parse() returned %d presets, want %d", len(got), len(want))
	}
	for name, m := range want {
		if got[name] != m {
			t.Errorf("preset %s = %+v, want %+v", name, got[name], m)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]struct {
		yaml    string
		wantErr error
	}{
		"missing height": {"presets:\n  bad:\n    action: resize\n    width: 10\n", geometry.ErrMissingDimension},
		"unknown crop":   {"presets:\n  bad:\n    crop: stretch\n", geometry.ErrUnknownCropMode},
		"bad compact":    {"presets:\n  bad:\n    modifiers: w0\n", geometry.ErrInvalidDimension},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := Parse([]byte("presets: [")); err == nil {
		t.Error("Parse() accepted malformed YAML")
	}
}

func TestStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if names := store.Names(); len(names) != 3 || names[0] != "avatar" {
		t.Errorf("Names() = %v", names)
	}
	if m, err := store.Get("avatar"); err != nil || m.Action != geometry.ActionSquare {
		t.Errorf("Get(avatar) = %+v, %v", m, err)
	}
	if _, err := store.Get("missing"); !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrPresetNotFound", err)
	}

	// a broken file leaves the previous presets in place
	if err := os.WriteFile(path, []byte("presets:\n  x:\n    crop: nope\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := store.Reload(); err == nil {
		t.Error("Reload() accepted an invalid file")
	}
	if len(store.All()) != 3 {
		t.Errorf("All() = %v, want previous presets", store.All())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want not exist", err)
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := store.Watch(ctx, zap.NewNop()); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	updated := "presets:\n  tiny:\n    modifiers: s16\n"
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := store.Get("tiny"); err == nil {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("presets not reloaded, have %v", store.Names())
}
