// Azure Blob Storage specific functions. Implements the azb.BlobStore
// interface over the service's REST API with Shared Key request signing.
package azure

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/storagekit/azb/pkg/azb"
	"github.com/storagekit/azb/pkg/sharedkey"
)

// APIVersion is the x-ms-version sent on every request.
const APIVersion = "2019-12-12"

// DefaultBlockSize is the chunking threshold: uploads at or below it go up in
// one request, anything larger is staged as blocks of this size.
const DefaultBlockSize = 4 * 1024 * 1024

// Options tune a Client beyond its credentials.
type Options struct {
	// Endpoint overrides https://{account}.blob.core.windows.net. Useful for
	// emulators and tests.
	Endpoint string
	// BlockSize overrides DefaultBlockSize when > 0.
	BlockSize int64
	// DebugHTTP logs request/response traffic at debug level. Credential
	// material is never logged.
	DebugHTTP bool
	// Transport overrides the default http.Client.
	Transport azb.Transport
}

type Client struct {
	logger    azb.Logger
	signer    *sharedkey.Signer
	endpoint  *url.URL
	transport azb.Transport
	blockSize int64
	debugHTTP bool
}

// New builds a Client from credentials. The client holds no state between
// calls beyond the credentials and the reusable transport.
func New(logger azb.Logger, creds sharedkey.Credentials, opts Options) (*Client, error) {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.blob.core.windows.net", creds.Account())
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "Bad blob endpoint "+endpoint)
	}
	blockSize := opts.BlockSize
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	transport := opts.Transport
	if transport == nil {
		transport = &http.Client{}
	}
	return &Client{
		logger:    logger,
		signer:    sharedkey.NewSigner(creds),
		endpoint:  u,
		transport: transport,
		blockSize: blockSize,
		debugHTTP: opts.DebugHTTP,
	}, nil
}

// NewConfig builds a Client from a viper sub-config, see configs/azb.yaml for
// the expected keys.
func NewConfig(logger azb.Logger, cfg *viper.Viper) (azb.BlobStore, error) {
	if cfg == nil {
		return nil, errors.New("Missing azure blob service configuration")
	}
	creds, err := sharedkey.NewCredentials(cfg.GetString("account"), cfg.GetString("key"))
	if err != nil {
		return nil, errors.Wrap(err, "Bad azure credentials")
	}
	return New(logger, creds, Options{
		Endpoint:  cfg.GetString("endpoint"),
		BlockSize: cfg.GetInt64("blocksize"),
		DebugHTTP: cfg.GetBool("debughttp"),
	})
}

// blobURL builds the request URL for a container (key == "") or blob.
func (c *Client) blobURL(container, key string, query url.Values) *url.URL {
	u := *c.endpoint
	u.Path = "/" + container
	if key != "" {
		u.Path += "/" + key
	}
	u.RawQuery = query.Encode()
	return &u
}

// newRequest builds and signs one request descriptor. Descriptors are
// constructed fresh per call and never reused.
func (c *Client) newRequest(verb, container, key string, query url.Values, h *azb.Headers, body []byte) (*http.Request, error) {
	if h == nil {
		h = azb.NewHeaders()
	}
	h.Set("x-ms-version", APIVersion)
	h.Set("x-ms-date", time.Now().UTC().Format(http.TimeFormat))
	if len(body) > 0 {
		h.Set("Content-Length", strconv.Itoa(len(body)))
	}

	u := c.blobURL(container, key, query)
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequest(verb, u.String(), rd)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to build request")
	}
	h.Apply(req.Header)
	req.Header.Set("Authorization", c.signer.Authorization(verb, u, h))
	return req, nil
}

// do executes a signed request and classifies non-2xx responses. The caller
// owns resp.Body on success.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.debugHTTP {
		c.logger.Debugf("> %s %s", req.Method, req.URL)
		for name, vals := range req.Header {
			if strings.EqualFold(name, "Authorization") {
				continue
			}
			c.logger.Debugf(">   %s: %s", name, strings.Join(vals, ","))
		}
	}
	resp, err := c.transport.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "Transport error")
	}
	if c.debugHTTP {
		c.logger.Debugf("< %s", resp.Status)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := ioutil.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, azb.Classify(resp.StatusCode, body)
	}
	return resp, nil
}

// doClosed is do() for calls whose response body carries nothing of interest.
// The body still has to be drained for connection reuse, and a failure while
// draining is a failed exchange.
func (c *Client) doClosed(req *http.Request) (http.Header, error) {
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if _, err := io.Copy(ioutil.Discard, resp.Body); err != nil {
		return nil, errors.Wrap(err, "Failed to drain response body")
	}
	return resp.Header, nil
}

func (c *Client) Get(container, key string, opts *azb.GetOptions) (io.ReadCloser, *azb.Properties, error) {
	h := azb.NewHeaders()
	if opts != nil && (opts.Offset > 0 || opts.Length > 0) {
		if opts.Length > 0 {
			h.Set("x-ms-range", fmt.Sprintf("bytes=%d-%d", opts.Offset, opts.Offset+opts.Length-1))
		} else {
			h.Set("x-ms-range", fmt.Sprintf("bytes=%d-", opts.Offset))
		}
	}
	req, err := c.newRequest(http.MethodGet, container, key, nil, h, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, nil, err
	}
	return resp.Body, propertiesFrom(resp.Header), nil
}

func (c *Client) Delete(container, key string) error {
	h := azb.NewHeaders()
	h.Set("x-ms-delete-snapshots", "include")
	req, err := c.newRequest(http.MethodDelete, container, key, nil, h, nil)
	if err != nil {
		return err
	}
	_, err = c.doClosed(req)
	return err
}

// DeletePrefix lists the container page by page, following the continuation
// marker until none is returned, and deletes every listed blob. An empty
// listing performs zero deletes.
func (c *Client) DeletePrefix(container, prefix string) (int, error) {
	deleted := 0
	marker := ""
	for {
		page, err := c.List(container, &azb.ListOptions{Prefix: prefix, Marker: marker})
		if err != nil {
			return deleted, err
		}
		for _, item := range page.Items {
			if err := c.Delete(container, item.Key); err != nil {
				return deleted, errors.Wrap(err, "Failed to delete "+item.Key)
			}
			deleted++
		}
		if page.NextMarker == "" {
			return deleted, nil
		}
		marker = page.NextMarker
	}
}

func (c *Client) Stat(container, key string) (*azb.Properties, error) {
	req, err := c.newRequest(http.MethodHead, container, key, nil, nil, nil)
	if err != nil {
		return nil, err
	}
	header, err := c.doClosed(req)
	if err != nil {
		return nil, err
	}
	return propertiesFrom(header), nil
}

func (c *Client) List(container string, opts *azb.ListOptions) (*azb.ListPage, error) {
	query := url.Values{}
	query.Set("comp", "list")
	query.Set("restype", "container")
	if opts != nil {
		if opts.Prefix != "" {
			query.Set("prefix", opts.Prefix)
		}
		if opts.Marker != "" {
			query.Set("marker", opts.Marker)
		}
		if opts.MaxResults > 0 {
			query.Set("maxresults", strconv.Itoa(opts.MaxResults))
		}
	}
	req, err := c.newRequest(http.MethodGet, container, "", query, nil, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to read listing response")
	}
	return parseListing(body)
}

func (c *Client) SignedURL(container, key string, opts azb.SignOptions) (string, error) {
	q, err := c.signer.SignedQuery(container, key, sharedkey.SASOptions{
		Permissions:        opts.Permissions,
		Start:              opts.Start,
		Expiry:             opts.Expiry,
		Identifier:         opts.Identifier,
		IP:                 opts.IP,
		Protocol:           opts.Protocol,
		ContentType:        opts.ContentType,
		ContentDisposition: opts.ContentDisposition,
	})
	if err != nil {
		return "", err
	}
	u := c.blobURL(container, key, q)
	return u.String(), nil
}

func (c *Client) Destroy() {
	if hc, ok := c.transport.(*http.Client); ok {
		hc.CloseIdleConnections()
	}
}

// propertiesFrom rebuilds blob properties from response headers. Done on
// every call; nothing is cached.
func propertiesFrom(header http.Header) *azb.Properties {
	props := &azb.Properties{
		ContentType: header.Get("Content-Type"),
		ETag:        header.Get("Etag"),
	}
	if v := header.Get("Content-Length"); v != "" {
		props.ContentLength, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := header.Get("Last-Modified"); v != "" {
		if t, err := time.Parse(http.TimeFormat, v); err == nil {
			props.LastModified = t
		}
	}
	for name, vals := range header {
		lower := strings.ToLower(name)
		if strings.HasPrefix(lower, azb.MetadataPrefix) && len(vals) > 0 {
			if props.Metadata == nil {
				props.Metadata = make(map[string]string)
			}
			props.Metadata[strings.TrimPrefix(lower, azb.MetadataPrefix)] = vals[0]
		}
	}
	return props
}
