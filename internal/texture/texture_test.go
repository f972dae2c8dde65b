package texture

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func writeTestPNG(t *testing.T, dir, name string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 16)
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestIndexAndCache(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "Glass.png")
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)

	idx := BuildIndex(dir)
	if idx.Len() != 1 {
		t.Fatalf("indexed %d textures, want 1", idx.Len())
	}
	if _, ok := idx.ResolvePath("glass"); !ok {
		t.Fatal("case-insensitive stem lookup failed")
	}

	cache := NewCache(idx)
	tex := cache.Resolve("GLASS")
	if tex == nil {
		t.Fatal("cache did not resolve an indexed texture")
	}
	if cache.Resolve("glass") != tex {
		t.Fatal("second resolve did not hit the cache")
	}
	if cache.Resolve("missing") != nil {
		t.Fatal("unknown stem must resolve to nil")
	}
}

func TestCacheConcurrentResolve(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "shared.png")
	cache := NewCache(BuildIndex(dir))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if cache.Resolve("shared") == nil {
				t.Error("concurrent resolve returned nil")
			}
		}()
	}
	wg.Wait()
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/tex.tga"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
