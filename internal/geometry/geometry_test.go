package geometry

import "testing"

func TestSnap(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		grid float64
		want float64
	}{
		{"rounds up", 123, 16, 128},
		{"rounds negative", -23, 16, -16},
		{"exact multiple stays", 160, 16, 160},
		{"another exact multiple", 240, 16, 240},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Snap(tt.v, tt.grid); got != tt.want {
				t.Errorf("Snap(%v, %v) = %v, want %v", tt.v, tt.grid, got, tt.want)
			}
		})
	}
}

func TestSnapPoint(t *testing.T) {
	got := SnapPoint(Point{X: 123, Y: 187}, 16)
	want := Point{X: 128, Y: 192}
	if got != want {
		t.Errorf("SnapPoint = %+v, want %+v", got, want)
	}

	got = SnapPoint(Point{X: -23, Y: -45}, 16)
	want = Point{X: -16, Y: -48}
	if got != want {
		t.Errorf("SnapPoint(-23,-45) = %+v, want %+v", got, want)
	}
}

func TestWorldRelativeRoundTrip(t *testing.T) {
	world := Point{X: 340, Y: 120}
	parent := Point{X: 100, Y: 50}

	rel := WorldToRelative(world, parent)
	if rel != (Point{X: 240, Y: 70}) {
		t.Fatalf("WorldToRelative = %+v", rel)
	}
	back := RelativeToWorld(rel, parent)
	if back != world {
		t.Errorf("round trip mismatch: got %+v, want %+v", back, world)
	}
}

func TestRectContains(t *testing.T) {
	outer := Rect{X: 0, Y: 0, W: 400, H: 300}
	inner := Rect{X: 10, Y: 10, W: 50, H: 50}
	if !outer.Contains(inner) {
		t.Error("expected outer to contain inner")
	}

	touching := Rect{X: 350, Y: 0, W: 50, H: 300}
	if !outer.Contains(touching) {
		t.Error("expected touching-edge rect to count as contained")
	}

	outside := Rect{X: 390, Y: 0, W: 50, H: 50}
	if outer.Contains(outside) {
		t.Error("expected rect extending past the boundary to not be contained")
	}
}

func TestIsOrthogonalPolyline(t *testing.T) {
	good := []Point{{0, 0}, {0, 100}, {50, 100}, {50, 200}}
	if !IsOrthogonalPolyline(good, 1) {
		t.Error("expected orthogonal polyline to pass")
	}

	diagonal := []Point{{0, 0}, {40, 40}}
	if IsOrthogonalPolyline(diagonal, 1) {
		t.Error("expected diagonal polyline to fail")
	}

	short := []Point{{0, 0}}
	if !IsOrthogonalPolyline(short, 1) {
		t.Error("expected single-point polyline to be trivially orthogonal")
	}
}
