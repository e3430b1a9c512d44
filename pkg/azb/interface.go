// Standard interfaces and datatypes for the azb project.
// Terms:
//   "service" : A specific implementation of some storage functionality (e.g. blob store)
//   "provider" : A coherent set of services that all work together simultaneously
package azb

import (
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger is the logging interface handed to every azb service. Both
// *logrus.Logger and *logrus.Entry satisfy it.
type Logger = logrus.FieldLogger

// A provider aggregates a set of services. Today there is only the blob
// service, but the shape leaves room for queues/tables later.
type Provider struct {
	Blob BlobStore
}

// Transport executes a single HTTP exchange. *http.Client satisfies it; tests
// substitute in-memory fakes. Implementations are not required to be safe for
// concurrent use unless they document it (net/http's client is).
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// GetOptions selects an optional byte range for a read. Length <= 0 means
// "through the end of the blob".
type GetOptions struct {
	Offset int64
	Length int64
}

// PutOptions carries the optional attributes of an upload. BlockSize overrides
// the client's configured chunking threshold when > 0.
type PutOptions struct {
	ContentType        string
	ContentDisposition string
	Metadata           map[string]string
	BlockSize          int64
}

// ListOptions controls a single listing page. An empty Marker starts from the
// beginning; MaxResults <= 0 leaves the page size to the service.
type ListOptions struct {
	Prefix     string
	Marker     string
	MaxResults int
}

// SignOptions parameterize a delegated-access (SAS) URL. Permissions and
// Expiry are required; everything else defaults to absent.
type SignOptions struct {
	Permissions string // subset of "racwdl"
	Start       time.Time
	Expiry      time.Time
	Identifier  string // stored access policy id
	IP          string
	Protocol    string // "https" or "https,http"

	// Response header overrides carried in the token.
	ContentType        string
	ContentDisposition string
}

// Properties are the standard attributes of a blob, reconstructed from
// response headers on every call. Never cached by the client.
type Properties struct {
	ContentType   string
	ContentLength int64
	ETag          string
	LastModified  time.Time
	Metadata      map[string]string
}

// BlobItem is one entry of a container listing.
type BlobItem struct {
	Key        string
	Properties Properties
}

// ListPage is one page of a container listing. A non-empty NextMarker means
// more results exist and must be fetched with it as ListOptions.Marker.
type ListPage struct {
	Items      []BlobItem
	NextMarker string
}

type BlobStore interface {
	// Get opens a blob for reading, optionally restricted to a byte range.
	// The caller must close the returned reader.
	Get(container, key string, opts *GetOptions) (io.ReadCloser, *Properties, error)

	// Put uploads size bytes from body. Content at or below the block-size
	// threshold goes up in a single request; anything larger is staged as
	// blocks and committed atomically.
	Put(container, key string, body io.Reader, size int64, opts *PutOptions) error

	// Delete removes a single blob (snapshots included).
	Delete(container, key string) error

	// DeletePrefix removes every blob whose key starts with prefix, following
	// listing continuation markers until the listing is exhausted. Returns the
	// number of blobs deleted.
	DeletePrefix(container, prefix string) (int, error)

	// Stat fetches blob properties without the body.
	Stat(container, key string) (*Properties, error)

	// List fetches one page of a container listing.
	List(container string, opts *ListOptions) (*ListPage, error)

	// CreateAppendBlob creates an empty append-only blob.
	CreateAppendBlob(container, key string, metadata map[string]string) error

	// AppendBlock appends one chunk at the blob's current end. Each call is
	// independent; ordering is by call order.
	AppendBlock(container, key string, chunk []byte) error

	// SignedURL returns a URL carrying a delegated-access (SAS) query string
	// for the given blob, or for the whole container when key is empty.
	SignedURL(container, key string, opts SignOptions) (string, error)

	// Users must call Destroy when finished with a service to release any
	// held transport resources.
	Destroy()
}
