package rimg

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/plumelab/chromisc"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// ImageFromBytes decodes an image from raw bytes. Must be PNG, GIF, BMP,
// TIFF, or JPEG formatted (based on the decoders we have imported).
func ImageFromBytes(imgBytes []byte) (*Image, error) {
	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, pfx.Err(err)
	}

	return FromImage(img)
}

// Open loads an image from a local path or a gs:// object.
func Open(filePath string, storageClient *storage.Client) (*Image, error) {
	f, _, err := chromisc.MaybeOpenFromGoogleStorage(filePath, storageClient)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// The image decoder swallows errors, so we won't see i/o errors if they
	// happen during image decoding. To capture these, we read the full image
	// into memory here, and pass a byte reader to the image decoder.
	imgBytes, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	out, err := ImageFromBytes(imgBytes)
	if err != nil {
		return nil, err
	}
	out.File = filePath

	return out, nil
}

// OpenLocal loads an image from the local filesystem.
func OpenLocal(filePath string) (*Image, error) {
	return Open(filePath, nil)
}

// WritePNG renders the container to a PNG file.
func (im *Image) WritePNG(filePath string) error {
	f, err := os.Create(filePath)
	if err != nil {
		return pfx.Err(err)
	}

	if err := png.Encode(f, im.ToImage()); err != nil {
		f.Close()
		return pfx.Err(err)
	}

	return pfx.Err(f.Close())
}
