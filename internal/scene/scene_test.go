package scene

import (
	"image"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"oit-renderer/internal/raster"
)

func TestDemoSceneShape(t *testing.T) {
	s := Demo()
	if len(s.Opaque) != 2 {
		t.Fatalf("backdrop should be 2 triangles, got %d", len(s.Opaque))
	}
	if len(s.Translucent) != 5 {
		t.Fatalf("expected 5 translucent instances, got %d", len(s.Translucent))
	}
	for i, tri := range s.Translucent {
		a := tri.Color.W()
		if a <= 0 || a >= 1 {
			t.Errorf("instance %d alpha %v not translucent", i, a)
		}
	}
}

func TestAddTexturedPane(t *testing.T) {
	s := &Scene{}
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	tex := raster.NewTexture(img)

	s.AddTexturedPane(tex, -0.5, 0.6)
	if len(s.Translucent) != 2 {
		t.Fatalf("pane should add 2 triangles, got %d", len(s.Translucent))
	}
	for _, tri := range s.Translucent {
		if tri.Tex != tex {
			t.Fatal("pane triangle lost its texture")
		}
		if tri.Color.W() != 0.6 {
			t.Fatalf("pane alpha %v, want 0.6", tri.Color.W())
		}
	}
}

func TestNormalIsUnit(t *testing.T) {
	s := Demo()
	for i, tri := range append(s.Opaque, s.Translucent...) {
		if l := tri.Normal().Len(); math.Abs(float64(l)-1) > 1e-5 {
			t.Errorf("triangle %d normal length %v", i, l)
		}
	}
}

func TestProjectCenterAndDepthRange(t *testing.T) {
	const w, h = 640, 480
	mvp := Projection(w, h).Mul4(View(0))

	// A triangle straddling the look-at point must land around the screen
	// center with depth inside [0,1].
	tri := Triangle{P: [3]mgl32.Vec3{
		{-0.5, -0.5, 0.4},
		{0.5, -0.5, 0.4},
		{0, 0.5, 0.4},
	}, Color: mgl32.Vec4{1, 1, 1, 1}}

	out, ok := Project(tri, mvp, w, h)
	if !ok {
		t.Fatal("triangle in front of the camera was rejected")
	}
	cx := (out.V[0].X + out.V[1].X + out.V[2].X) / 3
	cy := (out.V[0].Y + out.V[1].Y + out.V[2].Y) / 3
	if cx < w/4 || cx > 3*w/4 || cy < h/4 || cy > 3*h/4 {
		t.Fatalf("projected centroid (%v,%v) far from center", cx, cy)
	}
	for i, v := range out.V {
		if v.Z < 0 || v.Z > 1 {
			t.Fatalf("vertex %d depth %v outside [0,1]", i, v.Z)
		}
	}
}

func TestProjectRejectsBehindCamera(t *testing.T) {
	const w, h = 640, 480
	mvp := Projection(w, h).Mul4(View(0))

	// At t=0 the eye sits at z=-3.2 looking toward +z, so z=-10 is well
	// behind it.
	tri := Triangle{P: [3]mgl32.Vec3{
		{0, 0, -10},
		{1, 0, -10},
		{0, 1, -10},
	}}
	if _, ok := Project(tri, mvp, w, h); ok {
		t.Fatal("triangle behind the camera was accepted")
	}
}
