package imageout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	googleopt "google.golang.org/api/option"
)

const gcsScheme = "gs://"

// SplitGCSPath splits "gs://bucket/some/object" into its bucket and object.
// ok is false if path isn't a GCS path.
func SplitGCSPath(path string) (bucket, object string, ok bool, err error) {
	if !strings.HasPrefix(path, gcsScheme) {
		return "", "", false, nil
	}
	rest := strings.TrimPrefix(path, gcsScheme)
	i := strings.Index(rest, "/")
	if i <= 0 || i == len(rest)-1 {
		return "", "", true, fmt.Errorf("malformed GCS path %q, want gs://bucket/object", path)
	}
	return rest[:i], rest[i+1:], true, nil
}

type gcsWriter struct {
	*storage.Writer
	client *storage.Client
}

func (w *gcsWriter) Close() error {
	werr := w.Writer.Close()
	cerr := w.client.Close()
	if werr != nil {
		return fmt.Errorf("while finalizing GCS object: %w", werr)
	}
	if cerr != nil {
		return fmt.Errorf("while closing GCS client: %w", cerr)
	}
	return nil
}

type gcsReader struct {
	*storage.Reader
	client *storage.Client
}

func (r *gcsReader) Close() error {
	rerr := r.Reader.Close()
	cerr := r.client.Close()
	if rerr != nil {
		return rerr
	}
	return cerr
}

func newGCSClient(ctx context.Context) (*storage.Client, error) {
	gcs, err := storage.NewClient(ctx, googleopt.WithGRPCConnectionPool(1))
	if err != nil {
		return nil, fmt.Errorf("while creating GCS client: %w", err)
	}
	return gcs, nil
}

// Create opens dest for writing.  dest is a local path, or a gs:// URL.  GCS
// objects only appear once the writer is closed.
func Create(ctx context.Context, dest string) (io.WriteCloser, error) {
	bucket, object, isGCS, err := SplitGCSPath(dest)
	if err != nil {
		return nil, err
	}
	if !isGCS {
		f, err := os.Create(dest)
		if err != nil {
			return nil, fmt.Errorf("while creating output file: %w", err)
		}
		return f, nil
	}

	gcs, err := newGCSClient(ctx)
	if err != nil {
		return nil, err
	}
	return &gcsWriter{
		Writer: gcs.Bucket(bucket).Object(object).NewWriter(ctx),
		client: gcs,
	}, nil
}

// Open opens src, a local path or gs:// URL, for reading.  A missing file or
// object gives an error matching fs.ErrNotExist.
func Open(ctx context.Context, src string) (io.ReadCloser, error) {
	bucket, object, isGCS, err := SplitGCSPath(src)
	if err != nil {
		return nil, err
	}
	if !isGCS {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("while opening input file: %w", err)
		}
		return f, nil
	}

	gcs, err := newGCSClient(ctx)
	if err != nil {
		return nil, err
	}
	r, err := gcs.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		gcs.Close()
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("while opening %s: %w", src, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("while opening reader for object: %w", err)
	}
	return &gcsReader{Reader: r, client: gcs}, nil
}

// WriteTo creates dest and fills it with write, closing it afterward.
func WriteTo(ctx context.Context, dest string, write func(io.Writer) error) error {
	w, err := Create(ctx, dest)
	if err != nil {
		return err
	}
	if err := write(w); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("while closing %s: %w", dest, err)
	}
	return nil
}
