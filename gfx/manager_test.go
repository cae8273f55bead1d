package gfx

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/gogpu/primegl/surface"
)

// countingBackend wraps SoftwareBackend and counts Open calls.
type countingBackend struct {
	SoftwareBackend
	name  string
	opens int
	fail  error
}

func (b *countingBackend) Name() string { return b.name }

func (b *countingBackend) Open(s surface.Surface, label string) (Framebuffer, error) {
	b.opens++
	if b.fail != nil {
		return nil, b.fail
	}
	return b.SoftwareBackend.Open(s, label)
}

func newTestManager(t *testing.T, backends ...*countingBackend) (*Manager, *surface.Registry) {
	t.Helper()
	surfaces := surface.NewRegistry()
	_ = surfaces.Register("gl-canvas", surface.NewImageSurface(640, 400))
	_ = surfaces.Register("legacy", surface.NewImageSurfaceWithOptions(surface.Options{
		Width: 640, Height: 400, APILevel: 1,
	}))

	reg := NewRegistry()
	for i, b := range backends {
		reg.Register(b.name, 100-i, b, nil)
	}
	m := NewManager(surfaces, WithRegistry(reg))
	t.Cleanup(m.Close)
	return m, surfaces
}

func TestManagerInitIdempotent(t *testing.T) {
	b := &countingBackend{name: "sw"}
	m, _ := newTestManager(t, b)

	if !m.InitWebGL("gl-canvas") {
		t.Fatal("first InitWebGL returned false")
	}
	first := m.Context()
	if !m.InitWebGL("gl-canvas") {
		t.Fatal("second InitWebGL returned false")
	}
	if b.opens != 1 {
		t.Errorf("backend opened %d contexts, want 1", b.opens)
	}
	if m.Context() != first {
		t.Error("context was recreated")
	}
}

func TestManagerInitOtherSurface(t *testing.T) {
	b := &countingBackend{name: "sw"}
	m, surfaces := newTestManager(t, b)
	_ = surfaces.Register("second", surface.NewImageSurface(640, 400))

	if err := m.Init("gl-canvas"); err != nil {
		t.Fatal(err)
	}
	err := m.Init("second")
	if !errors.Is(err, ErrAlreadyBound) {
		t.Fatalf("Init(second) = %v, want ErrAlreadyBound", err)
	}
	if m.Context().SurfaceID() != "gl-canvas" {
		t.Errorf("bound surface = %s, want gl-canvas", m.Context().SurfaceID())
	}
}

func TestManagerInitMissingSurface(t *testing.T) {
	b := &countingBackend{name: "sw"}
	m, _ := newTestManager(t, b)

	err := m.Init("nope")
	if !errors.Is(err, ErrSurfaceNotFound) {
		t.Fatalf("Init(nope) = %v, want ErrSurfaceNotFound", err)
	}
	var se *SurfaceError
	if !errors.As(err, &se) || se.ID != "nope" {
		t.Errorf("expected SurfaceError for nope, got %v", err)
	}
	if m.Initialized() {
		t.Error("manager initialized after failure")
	}
	if b.opens != 0 {
		t.Errorf("backend opened %d times, want 0", b.opens)
	}
}

func TestManagerInitUnsupportedSurface(t *testing.T) {
	b := &countingBackend{name: "sw"}
	m, _ := newTestManager(t, b)

	if m.InitWebGL("legacy") {
		t.Fatal("InitWebGL on API level 1 surface returned true")
	}
	if err := m.Init("legacy"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Init(legacy) = %v, want ErrUnsupported", err)
	}
	if m.Initialized() {
		t.Error("manager initialized after failure")
	}

	// Retry with a capable surface succeeds.
	if !m.InitWebGL("gl-canvas") {
		t.Error("retry on capable surface failed")
	}
}

func TestManagerFallback(t *testing.T) {
	gpu := &countingBackend{name: "gpu", fail: ErrNoAdapter}
	sw := &countingBackend{name: "sw"}
	m, _ := newTestManager(t, gpu, sw)

	if err := m.Init("gl-canvas"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if got := m.Context().Backend(); got != "sw" {
		t.Errorf("Backend() = %s, want sw", got)
	}
	if gpu.opens != 1 || sw.opens != 1 {
		t.Errorf("opens gpu=%d sw=%d, want 1/1", gpu.opens, sw.opens)
	}
}

func TestManagerAllBackendsFail(t *testing.T) {
	gpu := &countingBackend{name: "gpu", fail: ErrNoAdapter}
	m, _ := newTestManager(t, gpu)

	err := m.Init("gl-canvas")
	if !errors.Is(err, ErrUnsupported) || !errors.Is(err, ErrNoAdapter) {
		t.Fatalf("Init = %v, want ErrUnsupported wrapping ErrNoAdapter", err)
	}
	if m.Initialized() {
		t.Error("manager initialized after failure")
	}

	// Retry is allowed and calls the backend again.
	gpu.fail = nil
	if err := m.Init("gl-canvas"); err != nil {
		t.Errorf("retry failed: %v", err)
	}
}

func TestManagerPreferredBackend(t *testing.T) {
	gpu := &countingBackend{name: "gpu"}
	sw := &countingBackend{name: "sw"}
	surfaces := surface.NewRegistry()
	_ = surfaces.Register("c", surface.NewImageSurface(4, 4))
	reg := NewRegistry()
	reg.Register("gpu", 100, gpu, nil)
	reg.Register("sw", 10, sw, nil)

	m := NewManager(surfaces, WithRegistry(reg), WithBackend("sw"))
	defer m.Close()
	if err := m.Init("c"); err != nil {
		t.Fatal(err)
	}
	if m.Context().Backend() != "sw" || gpu.opens != 0 {
		t.Errorf("backend = %s, gpu opens = %d", m.Context().Backend(), gpu.opens)
	}

	m2 := NewManager(surfaces, WithRegistry(reg), WithBackend("metal"))
	var nf *BackendNotFoundError
	if err := m2.Init("c"); !errors.As(err, &nf) {
		t.Errorf("Init with unknown backend = %v, want BackendNotFoundError", err)
	}
}

func TestRenderFrameBeforeInit(t *testing.T) {
	b := &countingBackend{name: "sw"}
	m, surfaces := newTestManager(t, b)
	s, _ := surfaces.Lookup("gl-canvas")
	before := s.Snapshot()

	if err := m.RenderFrame(1, 0, 0); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("RenderFrame before Init = %v, want ErrNotInitialized", err)
	}
	after := s.Snapshot()
	for i := range before.Pix {
		if before.Pix[i] != after.Pix[i] {
			t.Fatal("RenderFrame before Init changed the surface")
		}
	}
}

func TestRenderFramePresents(t *testing.T) {
	b := &countingBackend{name: "sw"}
	m, surfaces := newTestManager(t, b)
	if err := m.Init("gl-canvas"); err != nil {
		t.Fatal(err)
	}

	if err := m.RenderFrame(0.2, 0.8, 0.4); err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}
	s, _ := surfaces.Lookup("gl-canvas")
	got := s.Snapshot().RGBAAt(320, 200)
	want := color.RGBA{R: 51, G: 204, B: 102, A: 255}
	if got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}
	if m.Context().Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", m.Context().Frames())
	}
}

func TestRenderFrameClamps(t *testing.T) {
	render := func(r, g, b float64) []byte {
		m, surfaces := newTestManager(t, &countingBackend{name: "sw"})
		if err := m.Init("gl-canvas"); err != nil {
			t.Fatal(err)
		}
		if err := m.RenderFrame(r, g, b); err != nil {
			t.Fatal(err)
		}
		s, _ := surfaces.Lookup("gl-canvas")
		return s.Snapshot().Pix
	}

	a := render(1.5, -0.2, 0.5)
	b := render(1.0, 0.0, 0.5)
	if len(a) != len(b) {
		t.Fatal("snapshot sizes differ")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("byte %d differs: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestManagerCloseResets(t *testing.T) {
	m, _ := newTestManager(t, &countingBackend{name: "sw"})
	if err := m.Init("gl-canvas"); err != nil {
		t.Fatal(err)
	}
	m.Close()
	m.Close()
	if m.Initialized() {
		t.Error("Initialized() after Close")
	}
	if err := m.RenderFrame(0, 0, 0); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("RenderFrame after Close = %v", err)
	}
}

func TestRGBClamp(t *testing.T) {
	tests := []struct {
		in   [3]float64
		want Color
	}{
		{[3]float64{0.5, 0.5, 0.5}, Color{0.5, 0.5, 0.5}},
		{[3]float64{1.5, -0.2, 0.5}, Color{1, 0, 0.5}},
		{[3]float64{math.NaN(), math.Inf(1), math.Inf(-1)}, Color{0, 1, 0}},
	}
	for _, tt := range tests {
		if got := RGB(tt.in[0], tt.in[1], tt.in[2]); got != tt.want {
			t.Errorf("RGB(%v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestContextLabel(t *testing.T) {
	id := newContextID()
	if len(id) != 36 {
		t.Fatalf("context id %q is not a uuid", id)
	}
	if got := label(id); got != "primegl_"+id[:8] {
		t.Errorf("label = %s", got)
	}
}

func TestContextBackendIsRegistryKey(t *testing.T) {
	surfaces := surface.NewRegistry()
	_ = surfaces.Register("gl-canvas", surface.NewImageSurface(64, 64))

	b := &countingBackend{name: "self-named"}
	reg := NewRegistry()
	reg.Register("registered", 10, b, nil)
	m := NewManager(surfaces, WithRegistry(reg))
	t.Cleanup(m.Close)

	if err := m.Init("gl-canvas"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := m.Context().Backend(); got != "registered" {
		t.Errorf("Backend() = %q, want registry key %q", got, "registered")
	}
}

func TestContextLastColor(t *testing.T) {
	m, _ := newTestManager(t, &countingBackend{name: "sw"})
	if err := m.Init("gl-canvas"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := m.Context().LastColor(); got != (Color{}) {
		t.Errorf("LastColor before any frame = %+v", got)
	}

	_ = m.RenderFrame(0.2, 0.8, 0.4)
	if err := m.RenderFrame(2, -1, 0.5); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if got, want := m.Context().LastColor(), (Color{1, 0, 0.5}); got != want {
		t.Errorf("LastColor = %+v, want %+v", got, want)
	}
}
