package images

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
)

// Encode writes preview image in requested format ("png" or "jpeg"). JPEG
// images get JFIF header carrying dpi so viewers show preview at page size.
func Encode(img image.Image, format string, quality int, dpi float64) ([]byte, error) {
	buf := new(bytes.Buffer)
	switch format {
	case "png":
		if err := imaging.Encode(buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
			return nil, fmt.Errorf("unable to encode png: %w", err)
		}
		return buf.Bytes(), nil
	case "jpeg", "jpg":
		if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, fmt.Errorf("unable to encode jpeg: %w", err)
		}
		d := int16(min(max(dpi, 1), math.MaxInt16))
		out, _, err := SetJFIFDensity(buf.Bytes(), d, d)
		return out, err
	}
	return nil, fmt.Errorf("unsupported preview format %q", format)
}

// SetJFIFDensity makes sure jpeg starts with JFIF APP0 segment declaring
// density in pixels per inch. Existing segment is updated in place, true is
// returned when new segment was inserted.
func SetJFIFDensity(jpegData []byte, xdensity, ydensity int16) ([]byte, bool, error) {
	if len(jpegData) < 4 {
		return nil, false, errors.New("jpeg too small")
	}
	if jpegData[0] != 0xFF || jpegData[1] != 0xD8 {
		return nil, false, errors.New("not a jpeg")
	}

	const pxPerInch = 1
	jfif := []byte{'J', 'F', 'I', 'F', 0x00}

	// SOI, APP0 marker, length(2), "JFIF\0", version(2), units, x, y
	if jpegData[2] == 0xFF && jpegData[3] == 0xE0 && len(jpegData) >= 18 && bytes.Equal(jpegData[6:11], jfif) {
		out := bytes.Clone(jpegData)
		out[13] = pxPerInch
		binary.BigEndian.PutUint16(out[14:], uint16(xdensity))
		binary.BigEndian.PutUint16(out[16:], uint16(ydensity))
		return out, false, nil
	}

	buf := new(bytes.Buffer)
	buf.Write(jpegData[:2])
	buf.Write([]byte{0xFF, 0xE0})
	_ = binary.Write(buf, binary.BigEndian, uint16(0x10))
	buf.Write(jfif)
	buf.Write([]byte{0x01, 0x02, pxPerInch})
	_ = binary.Write(buf, binary.BigEndian, uint16(xdensity))
	_ = binary.Write(buf, binary.BigEndian, uint16(ydensity))
	buf.Write([]byte{0x00, 0x00}) // no thumbnail
	buf.Write(jpegData[2:])
	return buf.Bytes(), true, nil
}
