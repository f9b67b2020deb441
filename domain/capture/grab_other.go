//go:build !windows

package capture

import (
	"fmt"
	"image"

	"github.com/vova616/screenshot"
)

func grabScreen() (*image.RGBA, error) {
	img, err := screenshot.CaptureScreen()
	if err != nil {
		return nil, fmt.Errorf("capture screen: %w", err)
	}
	return img, nil
}

func grabRect(sel image.Rectangle) (*image.RGBA, error) {
	screen, err := screenshot.ScreenRect()
	if err != nil {
		return nil, fmt.Errorf("capture screen rect: %w", err)
	}
	r := sel.Intersect(screen)
	if r.Empty() {
		return nil, fmt.Errorf("capture: selection %v outside screen %v", sel, screen)
	}
	img, err := screenshot.CaptureRect(r)
	if err != nil {
		return nil, fmt.Errorf("capture rect %v: %w", r, err)
	}
	return img, nil
}

func screenBounds() image.Rectangle {
	r, err := screenshot.ScreenRect()
	if err != nil {
		return image.Rectangle{}
	}
	return r
}
