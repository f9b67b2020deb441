package view

import (
	"image"

	"github.com/soocke/traystack-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// CapturePreview shows the annotated capture frame and the ROI crop.
type CapturePreview interface {
	UpdateCapture(img image.Image)
	UpdateDetection(img image.Image)
	Reset()
}

type capturePreview struct {
	captureLabel *LabelWidget
	roiLabel     *LabelWidget
	// current photos are deleted before being replaced so Tk does not
	// retain obsolete pixel data
	capturePhoto *Img
	roiPhoto     *Img
}

// NewCapturePreview creates the preview labels at row: the frame spans
// columns 0-3, the ROI crop sits at column 4.
func NewCapturePreview(row int) CapturePreview {
	placeholder := images.EncodePNG(image.NewRGBA(image.Rect(0, 0, 200, 120)))
	v := &capturePreview{capturePhoto: NewPhoto(Data(placeholder)), roiPhoto: NewPhoto(Data(placeholder))}
	v.captureLabel = Label(Image(v.capturePhoto), Borderwidth(1), Relief("sunken"))
	v.roiLabel = Label(Image(v.roiPhoto), Borderwidth(1), Relief("sunken"))
	Grid(v.captureLabel, Row(row), Column(0), Columnspan(4), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	Grid(v.roiLabel, Row(row), Column(4), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	return v
}

func replacePhoto(lbl *LabelWidget, prev **Img, img image.Image) {
	if lbl == nil || img == nil {
		return
	}
	data := images.EncodePNG(img)
	if *prev != nil {
		(*prev).Delete()
	}
	*prev = NewPhoto(Data(data))
	lbl.Configure(Image(*prev))
}

// UpdateCapture expects an image already scaled for display.
func (v *capturePreview) UpdateCapture(img image.Image) {
	replacePhoto(v.captureLabel, &v.capturePhoto, img)
}

func (v *capturePreview) UpdateDetection(img image.Image) {
	replacePhoto(v.roiLabel, &v.roiPhoto, img)
}

func (v *capturePreview) Reset() {
	placeholder := image.NewRGBA(image.Rect(0, 0, 200, 120))
	replacePhoto(v.captureLabel, &v.capturePhoto, placeholder)
	replacePhoto(v.roiLabel, &v.roiPhoto, placeholder)
}
