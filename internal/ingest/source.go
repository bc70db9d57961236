package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Source is a place raw transaction CSV can be read from.
type Source interface {
	URI() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Fingerprinter is implemented by sources that can cheaply report whether
// their content changed since a previous load.
type Fingerprinter interface {
	Fingerprint(ctx context.Context) (string, error)
}

// SourceOptions configures remote sources.
type SourceOptions struct {
	Timeout    time.Duration
	HTTPClient *http.Client
	GCSOptions []option.ClientOption
}

// NewSource picks a Source implementation from the URI scheme:
// gs:// reads from Google Cloud Storage, http(s):// over HTTP, and anything
// else (including file://) from the local filesystem.
func NewSource(uri string, opts SourceOptions) (Source, error) {
	if uri == "" {
		return nil, fmt.Errorf("source uri is empty")
	}

	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain paths, including Windows drive letters.
		return &FileSource{Path: uri}, nil
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		return &FileSource{Path: u.Path}, nil
	case "http", "https":
		client := opts.HTTPClient
		if client == nil {
			client = &http.Client{Timeout: opts.Timeout}
		}
		return &HTTPSource{URL: uri, Client: client}, nil
	case "gs":
		object := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || object == "" {
			return nil, fmt.Errorf("invalid gcs uri %q: want gs://bucket/object", uri)
		}
		return &GCSSource{Bucket: u.Host, Object: object, Options: opts.GCSOptions}, nil
	default:
		return nil, fmt.Errorf("unsupported source scheme %q", u.Scheme)
	}
}

// FileSource reads a local CSV file.
type FileSource struct {
	Path string
}

func (s *FileSource) URI() string { return s.Path }

func (s *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.Path, err)
	}
	return f, nil
}

// Fingerprint returns "<size>:<mtime-unix-nanos>".
func (s *FileSource) Fingerprint(ctx context.Context) (string, error) {
	fi, err := os.Stat(s.Path)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", s.Path, err)
	}
	return fmt.Sprintf("%d:%d", fi.Size(), fi.ModTime().UnixNano()), nil
}

// HTTPSource downloads the CSV with a GET request.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s *HTTPSource) URI() string { return s.URL }

func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", s.URL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %s", s.URL, resp.Status)
	}
	return resp.Body, nil
}

// GCSSource reads an object from a Google Cloud Storage bucket.
type GCSSource struct {
	Bucket  string
	Object  string
	Options []option.ClientOption
}

func (s *GCSSource) URI() string { return "gs://" + s.Bucket + "/" + s.Object }

func (s *GCSSource) Open(ctx context.Context) (io.ReadCloser, error) {
	client, err := storage.NewClient(ctx, s.Options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	r, err := client.Bucket(s.Bucket).Object(s.Object).NewReader(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to read %s: %w", s.URI(), err)
	}
	return &gcsReader{Reader: r, client: client}, nil
}

// Fingerprint returns the object's generation, which changes on every write.
func (s *GCSSource) Fingerprint(ctx context.Context) (string, error) {
	client, err := storage.NewClient(ctx, s.Options...)
	if err != nil {
		return "", fmt.Errorf("failed to create storage client: %w", err)
	}
	defer client.Close()

	attrs, err := client.Bucket(s.Bucket).Object(s.Object).Attrs(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", s.URI(), err)
	}
	return fmt.Sprintf("gen:%d", attrs.Generation), nil
}

type gcsReader struct {
	*storage.Reader
	client *storage.Client
}

func (r *gcsReader) Close() error {
	err := r.Reader.Close()
	if cerr := r.client.Close(); err == nil {
		err = cerr
	}
	return err
}
