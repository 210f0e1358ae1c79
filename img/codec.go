package img

import (
	stdcolor "image"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"

	rgb "lightbake/color"
)

func init() {
	stdcolor.RegisterFormat("webp", "RIFF????WEBP", nativewebp.Decode, nativewebp.DecodeConfig)
	stdcolor.RegisterFormat("tga", "", tga.Decode, tga.DecodeConfig)
}

// Decode reads any texture source format the pipeline recognizes: PNG,
// JPEG, and BMP via the standard decoders registered by their packages,
// plus WebP and TGA via the formats registered in init.
func Decode(r io.Reader) (*Image, error) {
	src, _, err := stdcolor.Decode(r)
	if err != nil {
		return nil, err
	}
	return fromStdImage(src), nil
}

// DecodeFile opens path and decodes it via Decode.
func DecodeFile(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

func fromStdImage(src stdcolor.Image) *Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			out.Pixels[y*w+x] = rgb.RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
		}
	}
	return out
}

func (img *Image) toStdImage() *stdcolor.NRGBA {
	dst := stdcolor.NewNRGBA(stdcolor.Rect(0, 0, img.W, img.H))
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			c := img.Get(x, y, true)
			i := dst.PixOffset(x, y)
			dst.Pix[i+0] = c.R
			dst.Pix[i+1] = c.G
			dst.Pix[i+2] = c.B
			dst.Pix[i+3] = 255
		}
	}
	return dst
}

func withExt(name, ext string) string {
	if strings.HasSuffix(strings.ToLower(name), ext) {
		return name
	}
	return name + ext
}

// WritePNG encodes img as top-down RGBA (alpha fixed at 255) to name,
// appending ".png" if the caller didn't already.
func WritePNG(img *Image, name string) error {
	if !img.Valid() {
		return nil
	}
	path := withExt(name, ".png")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && filepath.Dir(path) != "." {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img.toStdImage())
}

// WriteBMP encodes img as a 24-bit bottom-up BMP to name, appending
// ".bmp" if needed.
func WriteBMP(img *Image, name string) error {
	if !img.Valid() {
		return nil
	}
	path := withExt(name, ".bmp")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && filepath.Dir(path) != "." {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return bmp.Encode(f, img.toStdImage())
}
