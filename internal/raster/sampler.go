package raster

import "image"

// Texture wraps a decoded image for bilinear sampling in the shading path.
type Texture struct {
	pix    []uint8
	stride int
	w, h   int
}

// NewTexture adapts an NRGBA image. The image is not copied; callers must
// not mutate it while rendering.
func NewTexture(img *image.NRGBA) *Texture {
	return &Texture{
		pix:    img.Pix,
		stride: img.Stride,
		w:      img.Rect.Dx(),
		h:      img.Rect.Dy(),
	}
}

// Sample performs bilinear filtering with UV wrapping and returns
// normalized channels. Accesses the pixel slice directly for performance.
func (t *Texture) Sample(u, v float64) (r, g, b, a float32) {
	// Wrap UVs
	u = u - float64(int(u))
	if u < 0 {
		u += 1.0
	}
	v = v - float64(int(v))
	if v < 0 {
		v += 1.0
	}

	fx := u * float64(t.w-1)
	fy := v * float64(t.h-1)
	x0 := int(fx)
	y0 := int(fy)
	x1 := (x0 + 1) % t.w
	y1 := (y0 + 1) % t.h
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	i00 := y0*t.stride + x0*4
	i10 := y0*t.stride + x1*4
	i01 := y1*t.stride + x0*4
	i11 := y1*t.stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	pix := t.pix
	const inv = 1.0 / 255.0
	r = float32((float64(pix[i00])*w00 + float64(pix[i10])*w10 + float64(pix[i01])*w01 + float64(pix[i11])*w11) * inv)
	g = float32((float64(pix[i00+1])*w00 + float64(pix[i10+1])*w10 + float64(pix[i01+1])*w01 + float64(pix[i11+1])*w11) * inv)
	b = float32((float64(pix[i00+2])*w00 + float64(pix[i10+2])*w10 + float64(pix[i01+2])*w01 + float64(pix[i11+2])*w11) * inv)
	a = float32((float64(pix[i00+3])*w00 + float64(pix[i10+3])*w10 + float64(pix[i01+3])*w01 + float64(pix[i11+3])*w11) * inv)
	return
}
