package hal

import "image"

func rgb565(r, g, b uint8) uint16 {
	rr := uint16(r>>3) & 0x1F
	gg := uint16(g>>2) & 0x3F
	bb := uint16(b>>3) & 0x1F
	return (rr << 11) | (gg << 5) | bb
}

func rgb888From565(p uint16) (r, g, b uint8) {
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F

	r = uint8((rr * 255) / 31)
	g = uint8((gg * 255) / 63)
	b = uint8((bb * 255) / 31)
	return r, g, b
}

// rgbaFrom565 expands little-endian RGB565 pixels in src into RGBA bytes in dst.
func rgbaFrom565(dst, src []byte) {
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, g, b := rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = g
		dst[j+2] = b
		dst[j+3] = 0xFF
	}
}

// RGBA converts an RGB565 framebuffer to an image.
func RGBA(fb Framebuffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width(), fb.Height()))
	if fb.Format() != PixelFormatRGB565 {
		return img
	}
	src := fb.Buffer()
	if hf, ok := fb.(*hostFramebuffer); ok {
		src = make([]byte, len(hf.buf))
		hf.snapshotRGB565(src)
	}
	rgbaFrom565(img.Pix, src)
	return img
}
