package x11

import (
	"fmt"
	"image"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xgraphics"
)

// putImageHeader is the size of a PutImage request without its data.
const putImageHeader = 28

// maskThreshold is the minimum alpha for a pixel to be part of a clip mask.
const maskThreshold = 0x80

// rowsPerRequest returns how many scanlines of the given stride fit in one
// PutImage request.
func rowsPerRequest(stride int) int {
	if stride <= 0 {
		return 1
	}
	return max((xgbutil.MaxReqSize-putImageHeader)/stride, 1)
}

// bitmap is image data in the server's ZPixmap layout.
type bitmap struct {
	data          []byte
	stride        int
	width, height int
	depth         byte
}

// convertBGRA converts img into 32 bits per pixel ZPixmap data. Alpha is
// kept premultiplied.
func convertBGRA(xu *xgbutil.XUtil, img *image.RGBA, depth byte) bitmap {
	ximg := xgraphics.NewConvert(xu, img)
	return bitmap{
		data:   ximg.Pix,
		stride: ximg.Stride,
		width:  ximg.Rect.Dx(),
		height: ximg.Rect.Dy(),
		depth:  depth,
	}
}

// opaque returns a copy of img with premultiplied colors restored to full
// strength and alpha forced to 0xff. Root-depth drawables have no alpha
// channel, so the clip mask alone decides which pixels are painted.
func opaque(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			src, dst := img.PixOffset(x, y), out.PixOffset(x, y)
			a := uint32(img.Pix[src+3])
			if a == 0 {
				continue
			}
			for c := 0; c < 3; c++ {
				out.Pix[dst+c] = uint8(min((uint32(img.Pix[src+c])*0xff+a/2)/a, 0xff))
			}
			out.Pix[dst+3] = 0xff
		}
	}
	return out
}

// packMask builds a depth 1 ZPixmap with a bit set for every pixel whose
// alpha reaches maskThreshold.
func packMask(img *image.RGBA, lsbFirst bool, scanlinePad int) bitmap {
	b := img.Bounds()
	if scanlinePad < 8 {
		scanlinePad = 8
	}
	stride := (b.Dx() + scanlinePad - 1) / scanlinePad * scanlinePad / 8
	data := make([]byte, stride*b.Dy())

	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := (y - b.Min.Y) * stride
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[img.PixOffset(x, y)+3] < maskThreshold {
				continue
			}
			col := x - b.Min.X
			bit := uint(col % 8)
			if !lsbFirst {
				bit = 7 - bit
			}
			data[row+col/8] |= 1 << bit
		}
	}

	return bitmap{data: data, stride: stride, width: b.Dx(), height: b.Dy(), depth: 1}
}

// putImage uploads bm to drawable at (x, y), split into requests that stay
// under the maximum request size.
func putImage(xu *xgbutil.XUtil, drawable xproto.Drawable, gc xproto.Gcontext, bm bitmap, x, y int) {
	rows := rowsPerRequest(bm.stride)
	for top := 0; top < bm.height; top += rows {
		n := min(rows, bm.height-top)
		xproto.PutImage(
			xu.Conn(),
			xproto.ImageFormatZPixmap,
			drawable,
			gc,
			uint16(bm.width), uint16(n),
			int16(x), int16(y+top),
			0, bm.depth,
			bm.data[top*bm.stride:(top+n)*bm.stride],
		)
	}
}

// checkPixmapFormat verifies the server stores depth at 32 bits per pixel,
// the only layout convertBGRA produces.
func checkPixmapFormat(setup *xproto.SetupInfo, depth byte) error {
	for _, f := range setup.PixmapFormats {
		if f.Depth != depth {
			continue
		}
		if f.BitsPerPixel != 32 {
			return fmt.Errorf("depth %d uses %d bits per pixel, want 32", depth, f.BitsPerPixel)
		}
		return nil
	}
	return fmt.Errorf("no pixmap format for depth %d", depth)
}
