package img
import (
	"bytes"
	"image"
	"image/draw"
	"image/png"
	"golang.org/x/image/bmp"

	"stegbox/stegano/stegerr"
)

/*
 * image carrier codec. a decoy is decoded into a raw rgba view and the
 * payload bits go into the least significant bit of the r, g and b
 * channels, pixel by pixel. the alpha channel is never touched.
 */

var (
	pngMagic = []byte{ 0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a }
	bmpMagic = []byte{ 0x42, 0x4d }
)

// Image is the bit addressable view over a decoded decoy.
type Image struct {
	rgba	*image.RGBA
	width	int
	height	int
}

func CapacityBits( width, height int ) uint64 {
	return uint64(width) * uint64(height) * 3
}

// Decode turns png or bmp decoy bytes into a writable rgba view.
func Decode( decoy []byte ) (*Image, error) {
	var (
		src	image.Image
		err	error
	)
	if bytes.HasPrefix( decoy, pngMagic ) {
		src, err = png.Decode( bytes.NewReader( decoy ) )
	} else if bytes.HasPrefix( decoy, bmpMagic ) {
		src, err = bmp.Decode( bytes.NewReader( decoy ) )
	} else {
		return nil, stegerr.Formatf("Unsupported image format, expected PNG or BMP.")
	}
	if err != nil {
		return nil, stegerr.Formatf("Failed to decode image: %v.", err)
	}

	bounds := src.Bounds()
	rgba := image.NewRGBA( bounds )
	draw.Draw( rgba, bounds, src, bounds.Min, draw.Src )
	return &Image{ rgba, bounds.Dx(), bounds.Dy() }, nil
}

// Encode re-emits the mutated view. always png: it is lossless, so the
// embedded bits survive no matter what format the decoy arrived in.
func(im *Image) Encode() ([]byte, error) {
	buf := bytes.NewBuffer( nil )
	if err := png.Encode( buf, im.rgba ); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func(im *Image) BitCapacity() uint64 {
	return CapacityBits( im.width, im.height )
}

// bit i lives in the lsb of channel i%3 (0=r, 1=g, 2=b) of pixel i/3.
func(im *Image) sampleIndex( i uint64 ) int {
	pixel := int( i / 3 )
	channel := int( i % 3 )
	y := pixel / im.width
	x := pixel % im.width
	return y * im.rgba.Stride + x * 4 + channel
}

func(im *Image) ReadBit( i uint64 ) uint8 {
	return im.rgba.Pix[ im.sampleIndex( i ) ] & 0x1
}

func(im *Image) WriteBit( i uint64, bit uint8 ) {
	idx := im.sampleIndex( i )
	im.rgba.Pix[ idx ] = (im.rgba.Pix[ idx ] & 0xfe) | (bit & 0x1)
}

// Samples returns the r, g, b sample bytes in pixel order, the raw
// material for the statistical detector.
func(im *Image) Samples() []byte {
	result := make( []byte, 0, im.width * im.height * 3 )
	for y := 0; y < im.height; y++ {
		for x := 0; x < im.width; x++ {
			idx := y * im.rgba.Stride + x * 4
			result = append( result, im.rgba.Pix[idx], im.rgba.Pix[idx+1], im.rgba.Pix[idx+2] )
		}
	}
	return result
}
