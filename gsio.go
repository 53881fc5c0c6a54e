package chromisc

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"google.golang.org/api/iterator"
)

type ReaderAtCloser interface {
	io.Reader
	io.ReaderAt
	io.Closer
}

// MaybeOpenFromGoogleStorage opens a local file, or an object from Google
// Storage when the path carries a gs:// prefix. Spectra and images may live
// in either place; every importer in this module goes through this seam.
func MaybeOpenFromGoogleStorage(path string, client *storage.Client) (ReaderAtCloser, int64, error) {
	if strings.HasPrefix(path, "gs://") {
		if client == nil {
			return nil, 0, fmt.Errorf("%s is a Google Storage path, but no storage client was configured", path)
		}

		// Detect the bucket and the path to the actual file
		pathParts := strings.SplitN(strings.TrimPrefix(path, "gs://"), "/", 2)
		if len(pathParts) != 2 {
			return nil, 0, fmt.Errorf("Tried to split your google storage path into 2 parts, but got %d: %v", len(pathParts), pathParts)
		}
		bucketName := pathParts[0]
		pathName := pathParts[1]

		// Open the bucket with default credentials
		bkt := client.Bucket(bucketName)
		handle := bkt.Object(pathName)

		wrappedHandle := &GSReaderAtCloser{
			ObjectHandle: handle,
			Context:      context.Background(),

			// Because a range reader is opened per call, the final Close() is
			// a nop for this type, and can be left nil
		}

		// Make a hard call to get the filesize
		attrs, err := wrappedHandle.ObjectHandle.Attrs(wrappedHandle.Context)
		if err != nil {
			return nil, 0, pfx.Err(fmt.Errorf("%s: %s", path, err))
		}

		return wrappedHandle, attrs.Size, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return f, 0, err
	}
	fstat, err := f.Stat()
	if err != nil {
		return f, 0, err
	}
	return f, fstat.Size(), nil
}

// ListGoogleStorage returns the full gs:// paths of all objects under the
// given gs://bucket/prefix path.
func ListGoogleStorage(path string, client *storage.Client) ([]string, error) {
	if client == nil {
		return nil, fmt.Errorf("%s is a Google Storage path, but no storage client was configured", path)
	}

	pathParts := strings.SplitN(strings.TrimPrefix(path, "gs://"), "/", 2)
	bucketName := pathParts[0]
	prefix := ""
	if len(pathParts) == 2 {
		prefix = pathParts[1]
	}

	it := client.Bucket(bucketName).Objects(context.Background(), &storage.Query{Prefix: prefix})

	out := []string{}
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, pfx.Err(err)
		}

		out = append(out, "gs://"+bucketName+"/"+attrs.Name)
	}

	return out, nil
}

// GSReaderAtCloser decorates a Google Storage object handle with io.Reader,
// io.ReaderAt, and io.Closer.
type GSReaderAtCloser struct {
	*storage.ObjectHandle
	Context context.Context
	Reader  *storage.Reader
	close   *func() error
}

func (o *GSReaderAtCloser) Read(p []byte) (n int, err error) {
	if o.Reader == nil {
		o.Reader, err = o.NewReader(o.Context)
		if err != nil {
			return 0, err
		}
	}

	return o.Reader.Read(p)
}

// ReadAt satisfies io.ReaderAt. Note that this is dependent upon making p a
// buffer of the desired length to be read by NewRangeReader.
func (o *GSReaderAtCloser) ReadAt(p []byte, offset int64) (n int, err error) {
	rdr, err := o.NewRangeReader(o.Context, offset, int64(len(p)))
	if err != nil {
		return 0, err
	}

	return rdr.Read(p)
}

// Close satisfies io.Closer. If o.close is not set, this is a nop.
func (o *GSReaderAtCloser) Close() error {
	if o.Reader != nil {
		if err := o.Reader.Close(); err != nil {
			return err
		}
		o.Reader = nil
	}

	if o.close != nil {
		return (*o.close)()
	}

	return nil
}
