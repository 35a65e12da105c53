package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	// Should be centered on world
	if cam.X != 1280 || cam.Y != 720 {
		t.Errorf("expected camera at (1280, 720), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	sx, sy := cam.WorldToScreen(1280, 720)
	if math.Abs(float64(sx-640)) > 0.01 || math.Abs(float64(sy-360)) > 0.01 {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(2)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestFollowConverges(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	cam.Follow(1500, 900)
	// One step covers a tenth of the distance
	if math.Abs(float64(cam.X-1302)) > 0.01 || math.Abs(float64(cam.Y-738)) > 0.01 {
		t.Fatalf("after one step expected (1302, 738), got (%f, %f)", cam.X, cam.Y)
	}

	for i := 0; i < 200; i++ {
		cam.Follow(1500, 900)
	}
	if math.Abs(float64(cam.X-1500)) > 0.5 || math.Abs(float64(cam.Y-900)) > 0.5 {
		t.Errorf("expected camera to converge on (1500, 900), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestFollowClampsToWorld(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	for i := 0; i < 200; i++ {
		cam.Follow(0, 0)
	}
	// Half the viewport is the closest the center may get to the corner
	if cam.X != 640 || cam.Y != 360 {
		t.Errorf("expected camera clamped at (640, 360), got (%f, %f)", cam.X, cam.Y)
	}

	cam.CenterOn(5000, 5000)
	if cam.X != 1920 || cam.Y != 1080 {
		t.Errorf("expected camera clamped at (1920, 1080), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestSmoothingOneSnaps(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.Smoothing = 1

	cam.Follow(1000, 1000)
	if cam.X != 1000 || cam.Y != 1000 {
		t.Errorf("expected snap to (1000, 1000), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	// MinZoom should be max(1280/2560, 720/1440) = 0.5
	if cam.MinZoom != 0.5 {
		t.Errorf("expected MinZoom 0.5, got %f", cam.MinZoom)
	}

	cam.SetZoom(0.1)
	if cam.Zoom != 0.5 {
		t.Errorf("expected zoom clamped to 0.5, got %f", cam.Zoom)
	}

	cam.SetZoom(10.0)
	if cam.Zoom != 4.0 {
		t.Errorf("expected zoom clamped to 4.0, got %f", cam.Zoom)
	}
}

func TestMinZoomPreventsDeadSpace(t *testing.T) {
	cam := New(800, 600, 1600, 800)

	// MinZoom should be max(800/1600, 600/800) = 0.75
	if math.Abs(float64(cam.MinZoom-0.75)) > 0.001 {
		t.Errorf("expected MinZoom 0.75, got %f", cam.MinZoom)
	}

	cam.SetZoom(cam.MinZoom)
	visibleH := cam.ViewportH / cam.Zoom
	if math.Abs(float64(visibleH-cam.WorldH)) > 0.01 {
		t.Errorf("at min zoom, visible height %f should equal world height %f", visibleH, cam.WorldH)
	}
	if cam.Y != 400 {
		t.Errorf("expected vertical center pinned at 400, got %f", cam.Y)
	}
}

func TestSmallWorldStartsZoomedIn(t *testing.T) {
	cam := New(1280, 720, 640, 360)
	if cam.Zoom != 2 {
		t.Errorf("expected zoom raised to 2, got %f", cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	// Visible range: (640, 360) to (1920, 1080)
	if !cam.IsVisible(1280, 720, 10) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(2400, 1300, 10) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(600, 720, 100) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.X = 500
	cam.Y = 500
	cam.Zoom = 2.5

	cam.Reset()

	if cam.X != 1280 || cam.Y != 720 {
		t.Errorf("expected position (1280, 720), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
