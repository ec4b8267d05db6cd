package ifunny

import (
	"image"
	"image/draw"
)

// WatermarkHeight is the height in pixels of the banner iFunny stamps on
// the bottom of images.
const WatermarkHeight = 20

// CropWatermark returns img without its bottom WatermarkHeight pixels.
// Images no taller than the banner become empty.
func CropWatermark(img image.Image) image.Image {
	b := img.Bounds()
	maxY := b.Max.Y - WatermarkHeight
	if maxY < b.Min.Y {
		maxY = b.Min.Y
	}
	crop := image.Rect(b.Min.X, b.Min.Y, b.Max.X, maxY)

	if sub, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(crop)
	}

	out := image.NewRGBA(crop)
	draw.Draw(out, crop, img, crop.Min, draw.Src)
	return out
}
