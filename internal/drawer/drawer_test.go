package drawer

import (
	"errors"
	"image"
	"image/color"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestScaleXY(t *testing.T) {
	for _, maxI := range []int{2, 3, 10, 257} {
		if got := ScaleXY(0, maxI); got != -0.5 {
			t.Errorf("ScaleXY(0, %d) = %v, want -0.5", maxI, got)
		}
		if got := ScaleXY(maxI-1, maxI); math.Abs(got-0.5) > 1e-15 {
			t.Errorf("ScaleXY(%d, %d) = %v, want 0.5", maxI-1, maxI, got)
		}
		prev := math.Inf(-1)
		for i := 0; i < maxI; i++ {
			v := ScaleXY(i, maxI)
			if v < -0.5 || v > 0.5 {
				t.Errorf("ScaleXY(%d, %d) = %v out of range", i, maxI, v)
			}
			if v <= prev {
				t.Errorf("ScaleXY not increasing at %d for maxI %d", i, maxI)
			}
			prev = v
		}
	}

	if got := ScaleXY(0, 1); got != 0 {
		t.Errorf("ScaleXY(0, 1) = %v, want 0", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{2, 1},
		{0, 0},
		{1, 1},
		{0.25, 0.25},
		{-1e-9, 0},
		{math.Inf(1), 1},
		{math.Inf(-1), 0},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		x := rng.NormFloat64() * 3
		c := Clamp(x)
		if c < 0 || c > 1 {
			t.Fatalf("Clamp(%v) = %v out of range", x, c)
		}
		if x >= 0 && x <= 1 && c != x {
			t.Fatalf("Clamp(%v) = %v, want identity", x, c)
		}
	}
}

func TestNewSourceRejectsDegenerate(t *testing.T) {
	for _, r := range []image.Rectangle{
		image.Rect(0, 0, 1, 5),
		image.Rect(0, 0, 5, 1),
		image.Rect(0, 0, 0, 0),
		image.Rect(3, 3, 4, 4),
	} {
		_, err := NewSource(image.NewNRGBA(r))
		if !errors.Is(err, ErrDegenerateImage) {
			t.Errorf("NewSource(%v) error = %v, want ErrDegenerateImage", r, err)
		}
	}

	if _, err := NewSource(nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("NewSource(nil) error = %v, want ErrInvalidInput", err)
	}
}

// TestNewSourceColors checks 8-bit channels map to v/255 and that a
// non-zero image origin is handled.
func TestNewSourceColors(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 20, 13, 22))
	img.SetNRGBA(10, 20, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(12, 21, color.NRGBA{0, 128, 51, 255})

	src, err := NewSource(img)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	if src.Width() != 3 || src.Height() != 2 {
		t.Fatalf("size = %dx%d, want 3x2", src.Width(), src.Height())
	}

	if c := src.At(0, 0); c.R != 1 || c.G != 0 || c.B != 0 {
		t.Errorf("At(0,0) = %v, want red", c)
	}
	c := src.At(2, 1)
	if math.Abs(c.G-128.0/255) > 1e-12 || math.Abs(c.B-51.0/255) > 1e-12 {
		t.Errorf("At(2,1) = %v, want (0, 128/255, 51/255)", c)
	}
}

func TestGridLayout(t *testing.T) {
	g := NewGrid(3, 2)
	if g.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", g.Len())
	}
	coords := g.Coords()
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			idx := x + 3*y
			if coords.At(idx, 0) != ScaleXY(x, 3) || coords.At(idx, 1) != ScaleXY(y, 2) {
				t.Errorf("row %d = (%v, %v), want pixel (%d, %d)", idx, coords.At(idx, 0), coords.At(idx, 1), x, y)
			}
		}
	}
}

func testSource(t *testing.T, w, h int) *Source {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 255 / (w - 1)), uint8(y * 255 / (h - 1)), uint8((x * y) % 256), 255})
		}
	}
	src, err := NewSource(img)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	return src
}

func TestSamplerBatch(t *testing.T) {
	src := testSource(t, 7, 5)
	sampler := NewSampler(src, rand.New(rand.NewSource(42)))

	x, y, err := sampler.Batch(1000)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if r, c := x.Dims(); r != 1000 || c != 2 {
		t.Fatalf("x dims = %dx%d, want 1000x2", r, c)
	}
	if r, c := y.Dims(); r != 1000 || c != 3 {
		t.Fatalf("y dims = %dx%d, want 1000x3", r, c)
	}

	for k := 0; k < 1000; k++ {
		cx, cy := x.At(k, 0), x.At(k, 1)
		if cx < -0.5 || cx > 0.5 || cy < -0.5 || cy > 0.5 {
			t.Fatalf("row %d coordinate (%v, %v) out of range", k, cx, cy)
		}
		for ch := 0; ch < 3; ch++ {
			if v := y.At(k, ch); v < 0 || v > 1 {
				t.Fatalf("row %d channel %d = %v out of range", k, ch, v)
			}
		}

		// The colour must be the one stored at the sampled pixel.
		px := int(math.Round((cx + 0.5) * 6))
		py := int(math.Round((cy + 0.5) * 4))
		want := src.At(px, py)
		if y.At(k, 0) != want.R || y.At(k, 1) != want.G || y.At(k, 2) != want.B {
			t.Fatalf("row %d colour does not match pixel (%d, %d)", k, px, py)
		}
	}
}

func TestSamplerBatchInvalidSize(t *testing.T) {
	sampler := NewSampler(testSource(t, 2, 2), nil)
	for _, n := range []int{0, -3} {
		if _, _, err := sampler.Batch(n); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Batch(%d) error = %v, want ErrInvalidInput", n, err)
		}
	}
}

func TestSamplerDeterministicForSeed(t *testing.T) {
	src := testSource(t, 4, 4)
	a, _, _ := NewSampler(src, rand.New(rand.NewSource(9))).Batch(50)
	b, _, _ := NewSampler(src, rand.New(rand.NewSource(9))).Batch(50)
	if !mat.Equal(a, b) {
		t.Error("same seed produced different batches")
	}
}

func TestFullBatch(t *testing.T) {
	src := testSource(t, 3, 4)
	x, y := FullBatch(src)

	if r, _ := x.Dims(); r != 12 {
		t.Fatalf("FullBatch rows = %d, want 12", r)
	}
	for py := 0; py < 4; py++ {
		for px := 0; px < 3; px++ {
			idx := px + 3*py
			c := src.At(px, py)
			if y.At(idx, 0) != c.R || y.At(idx, 1) != c.G || y.At(idx, 2) != c.B {
				t.Errorf("row %d colour mismatch", idx)
			}
			if x.At(idx, 0) != ScaleXY(px, 3) || x.At(idx, 1) != ScaleXY(py, 4) {
				t.Errorf("row %d coordinate mismatch", idx)
			}
		}
	}
}

func TestSweep(t *testing.T) {
	src := testSource(t, 2, 3)
	sweep := NewSweep(src)
	x, y, err := sweep.Batch(1000)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	fx, fy := FullBatch(src)
	if !mat.Equal(x, fx) || !mat.Equal(y, fy) {
		t.Error("Sweep batch differs from FullBatch")
	}
}
