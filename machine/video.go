package machine

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Video geometry for the Williams-generation board: a 256x256 byte-planar
// framebuffer where each byte holds two 4-bit pixels (spec's video RAM
// layout), rendered through a 16-entry color palette.
const (
	FrameWidth  = 256
	FrameHeight = 256
)

// Framebuffer owns the raw planar VRAM plus the decoded indexed image built
// from it each frame.
type Framebuffer struct {
	VRAM    [FrameWidth * FrameHeight / 2]byte
	Palette color.Palette
	indexed *image.Paletted
}

func NewFramebuffer() *Framebuffer {
	pal := make(color.Palette, 16)
	for i := range pal {
		g := uint8(i * 17)
		pal[i] = color.RGBA{R: g, G: g, B: g, A: 0xFF}
	}
	return &Framebuffer{
		Palette: pal,
		indexed: image.NewPaletted(image.Rect(0, 0, FrameWidth, FrameHeight), pal),
	}
}

// ReadNibble/WriteNibble access one 4-bit pixel, addressed the way the video
// hardware packs two pixels per byte (even x in the high nibble).
func (fb *Framebuffer) ReadNibble(x, y int) uint8 {
	b := fb.VRAM[(y*FrameWidth+x)/2]
	if x%2 == 0 {
		return b >> 4
	}
	return b & 0x0F
}

func (fb *Framebuffer) WriteNibble(x, y int, v uint8) {
	idx := (y*FrameWidth + x) / 2
	if x%2 == 0 {
		fb.VRAM[idx] = (fb.VRAM[idx] & 0x0F) | (v << 4)
	} else {
		fb.VRAM[idx] = (fb.VRAM[idx] & 0xF0) | (v & 0x0F)
	}
}

// Decode rebuilds the indexed image from VRAM. Called once per frame rather
// than per pixel write, since most writes happen in short DMA bursts the
// host never observes individually.
func (fb *Framebuffer) Decode() *image.Paletted {
	fb.indexed.Palette = fb.Palette
	for y := 0; y < FrameHeight; y++ {
		for x := 0; x < FrameWidth; x++ {
			fb.indexed.SetColorIndex(x, y, fb.ReadNibble(x, y))
		}
	}
	return fb.indexed
}

// RenderRGBA scales the decoded indexed frame into an RGBA destination of
// arbitrary size, for host display.
func (fb *Framebuffer) RenderRGBA(dst *image.RGBA) {
	src := fb.Decode()
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
}
