package ogf

import (
	"bytes"
	"image"
	"image/color"
	"io"

	"github.com/pkg/errors"

	"github.com/drevan/d3utils/utils"
)

// ErrUnsupportedFormat is returned for an unknown tag or a header
// describing an impossible texture (zero dimensions, zero mip levels).
var ErrUnsupportedFormat = errors.New("unsupported OGF format")

const TAG_SIZE = 3

// The third tag byte selects the packed pixel encoding.
var (
	tagARGB1555 = []byte{0x00, 0x00, 0x7a}
	tagARGB4444 = []byte{0x00, 0x00, 0x79}
)

type PixelFormat int

const (
	FormatARGB1555 PixelFormat = iota
	FormatARGB4444
)

func (f PixelFormat) String() string {
	switch f {
	case FormatARGB1555:
		return "ARGB1555"
	case FormatARGB4444:
		return "ARGB4444"
	default:
		return "unknown"
	}
}

// Texture is a decoded OGF mipmap chain. Levels[0] is the base
// (largest) level; each following level halves the dimensions, never
// below 1. Every level is expanded to RGBA, so len(Pix) is exactly
// width*height*4.
type Texture struct {
	Name   string
	Format PixelFormat
	Width  int
	Height int
	Levels []*image.RGBA
}

// Base returns the full-resolution level, the default conversion
// output.
func (t *Texture) Base() *image.RGBA {
	return t.Levels[0]
}

func Decode(r io.Reader) (*Texture, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(utils.ErrTruncatedInput, "%v", err)
	}
	return DecodeBytes(data)
}

func DecodeBytes(data []byte) (*Texture, error) {
	c := utils.NewCursor(data)

	tag, err := c.ReadBytes(TAG_SIZE)
	if err != nil {
		return nil, err
	}
	var format PixelFormat
	switch {
	case bytes.Equal(tag, tagARGB1555):
		format = FormatARGB1555
	case bytes.Equal(tag, tagARGB4444):
		format = FormatARGB4444
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "tag %q", utils.DumpToOneLineString(tag))
	}

	name, err := c.ReadCString()
	if err != nil {
		return nil, err
	}

	mipCount, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	if err := c.Skip(9); err != nil {
		return nil, err
	}
	width, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	height, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	if err := c.Skip(2); err != nil {
		return nil, err
	}

	if mipCount == 0 {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "texture %q has zero mip levels", name)
	}
	if width == 0 || height == 0 {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "texture %q has dimensions %dx%d", name, width, height)
	}

	t := &Texture{
		Name:   name,
		Format: format,
		Width:  int(width),
		Height: int(height),
		Levels: make([]*image.RGBA, 0, mipCount),
	}

	w, h := int(width), int(height)
	for level := 0; level < int(mipCount); level++ {
		img, err := decodeLevel(c, format, w, h)
		if err != nil {
			return nil, errors.Wrapf(err, "texture %q mip %d (%dx%d)", name, level, w, h)
		}
		t.Levels = append(t.Levels, img)

		// Each level is a quarter of the previous one.
		if w /= 2; w == 0 {
			w = 1
		}
		if h /= 2; h == 0 {
			h = 1
		}
	}
	return t, nil
}

// decodeLevel expands one run-length encoded mip level. Runs are a
// count byte (0 stands for 1) followed by a packed 16-bit color; a
// level must decode to exactly width*height pixels.
func decodeLevel(c *utils.Cursor, format PixelFormat, width, height int) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	total := width * height

	for pos := 0; pos < total; {
		count, err := c.ReadU8()
		if err != nil {
			return nil, err
		}
		packed, err := c.ReadU16()
		if err != nil {
			return nil, err
		}

		n := int(count)
		if n == 0 {
			n = 1
		}
		if pos+n > total {
			return nil, errors.Wrapf(utils.ErrTruncatedInput, "run of %d pixels at %d overflows level of %d pixels", n, pos, total)
		}

		var col color.RGBA
		if format == FormatARGB1555 {
			col = unpack1555(packed)
		} else {
			col = unpack4444(packed)
		}
		for i := pos; i < pos+n; i++ {
			o := i * 4
			img.Pix[o+0] = col.R
			img.Pix[o+1] = col.G
			img.Pix[o+2] = col.B
			img.Pix[o+3] = col.A
		}
		pos += n
	}
	return img, nil
}

// arrrrrgggggbbbbb, 5 bits per channel scaled to 8, 1-bit alpha.
func unpack1555(v uint16) color.RGBA {
	return color.RGBA{
		R: scale5((v >> 10) & 0x1f),
		G: scale5((v >> 5) & 0x1f),
		B: scale5(v & 0x1f),
		A: uint8((v >> 15) * 0xff),
	}
}

// aaaarrrrggggbbbb, 4 bits per channel scaled to 8.
func unpack4444(v uint16) color.RGBA {
	return color.RGBA{
		R: scale4((v >> 8) & 0xf),
		G: scale4((v >> 4) & 0xf),
		B: scale4(v & 0xf),
		A: scale4(v >> 12),
	}
}

func scale5(v uint16) uint8 {
	return uint8(int(v) * 255 / 31)
}

func scale4(v uint16) uint8 {
	return uint8(int(v) * 255 / 15)
}
