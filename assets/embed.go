// Package assets embeds the sample tray stack used by the analyze command
// when no image is given.
package assets

import (
	"bytes"
	_ "embed"
	"errors"
	"image"

	"github.com/disintegration/imaging"
)

// SampleStackPNG is a synthetic 120x200 screenshot of a four-tray stack.
// With the default ROI it yields three seams.
//
//go:embed sample_stack.png
var SampleStackPNG []byte

// SampleStackImage decodes the embedded sample.
func SampleStackImage() (image.Image, error) {
	if len(SampleStackPNG) == 0 {
		return nil, errors.New("embedded sample_stack.png is empty")
	}
	return imaging.Decode(bytes.NewReader(SampleStackPNG))
}
