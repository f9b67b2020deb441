package assets

import (
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"github.com/soocke/traystack-go/config"
	"github.com/soocke/traystack-go/domain/traystack"
)

func TestSampleStackCountsFourTrays(t *testing.T) {
	img, err := SampleStackImage()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 200 {
		t.Fatalf("unexpected bounds %v", b)
	}
	buf, ok := traystack.FromImage(imaging.Clone(img))
	if !ok {
		t.Fatalf("sample not convertible")
	}
	c := traystack.NewTrayCounter(config.DefaultConfig(), nil)
	r := c.ProcessFrame(buf, time.Unix(0, 0))
	if r.Peaks != 3 || r.Count != 4 {
		t.Fatalf("expected 3 seams and count 4, got peaks=%d count=%d rows=%v", r.Peaks, r.Count, r.PeaksY)
	}
	for i, want := range []int{40, 80, 120} {
		if d := r.PeaksY[i] - want; d < -6 || d > 6 {
			t.Fatalf("peak %d at row %d, want near %d", i, r.PeaksY[i], want)
		}
	}
}
