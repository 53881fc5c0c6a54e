package chromisc

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"io"
	"os"

	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZ
	DataTypeBZip2
)

var byteCodeSigs = map[DataType][]byte{
	DataTypeGzip:  {0x1f, 0x8b, 0x08},
	DataTypeZip:   {0x50, 0x4b, 0x03, 0x04},
	DataTypeXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	DataTypeZ:     {0x1f, 0x9d},
	DataTypeBZip2: {0x42, 0x5a, 0x68},
}

// DetectDataType attempts to detect the data type of a stream by checking
// against a set of known compression signatures. Spectrometer archives are
// commonly gzipped or zipped in bulk exports, and .ProcSpec files are zip
// containers outright. Byte code signatures from
// https://stackoverflow.com/a/19127748/199475
func DetectDataType(r io.Reader) (DataType, error) {
	buff := make([]byte, 6)
	if _, err := r.Read(buff); err != nil {
		return DataTypeInvalid, err
	}

	// Match known signatures
Outer:
	for dt, sig := range byteCodeSigs {
		for position := range sig {
			if buff[position] != sig[position] {
				continue Outer
			}
		}
		return dt, nil
	}

	return DataTypeNoCompression, nil
}

// MaybeDecompressReadCloserFromFile wraps f in the decompressor its leading
// bytes call for, or returns f itself when no known signature matches. The
// zip case yields the concatenated contents of the archive's entries in
// order, which suits single-spectrum containers.
func MaybeDecompressReadCloserFromFile(f *os.File) (io.ReadCloser, error) {
	dt, err := DetectDataType(f)
	if err != nil {
		return nil, err
	}
	// Reset your original reader
	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}

	switch dt {
	case DataTypeGzip:
		return gzip.NewReader(f)
	case DataTypeZip:
		return &readCloserFaker{zipstream.NewReader(f)}, nil
	case DataTypeBZip2:
		return &readCloserFaker{bzip2.NewReader(f)}, nil
	case DataTypeXZ:
		reader, err := xz.NewReader(f, 0)
		if err != nil {
			return nil, err
		}
		return &readCloserFaker{reader}, nil
	case DataTypeZ:
		return zlib.NewReader(f)
	}

	// No data type detected. For now, we assume this is uncompressed.
	return f, nil
}

// MaybeDecompressBytes is the in-memory counterpart of
// MaybeDecompressReadCloserFromFile, for data that has already been pulled
// fully into memory (e.g. from Google Storage). It returns the decompressed
// bytes along with the compression type it detected; data with no known
// signature passes through unchanged.
func MaybeDecompressBytes(data []byte) ([]byte, DataType, error) {
	if len(data) < 6 {
		return data, DataTypeNoCompression, nil
	}

	dt, err := DetectDataType(bytes.NewReader(data))
	if err != nil {
		return nil, DataTypeInvalid, err
	}

	var r io.Reader
	switch dt {
	case DataTypeGzip:
		if r, err = gzip.NewReader(bytes.NewReader(data)); err != nil {
			return nil, dt, err
		}
	case DataTypeZip:
		// Concatenate the archive's entries in order, which suits
		// single-spectrum containers.
		zr := zipstream.NewReader(bytes.NewReader(data))
		out := []byte{}
		for {
			if _, err := zr.Next(); err == io.EOF {
				return out, dt, nil
			} else if err != nil {
				return nil, dt, err
			}
			entry, err := io.ReadAll(zr)
			if err != nil {
				return nil, dt, err
			}
			out = append(out, entry...)
		}
	case DataTypeBZip2:
		r = bzip2.NewReader(bytes.NewReader(data))
	case DataTypeXZ:
		if r, err = xz.NewReader(bytes.NewReader(data), 0); err != nil {
			return nil, dt, err
		}
	case DataTypeZ:
		if r, err = zlib.NewReader(bytes.NewReader(data)); err != nil {
			return nil, dt, err
		}
	default:
		return data, DataTypeNoCompression, nil
	}

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, dt, err
	}

	return out, dt, nil
}

// readCloserFaker "upgrades" readers that don't need to be closed
type readCloserFaker struct {
	io.Reader
}

func (c *readCloserFaker) Close() error {
	return nil
}
