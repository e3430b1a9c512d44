// Block-blob upload orchestration: single-shot vs chunked routing, block
// staging, and the final atomic commit. Also the append-blob operations.
package azure

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/storagekit/azb/pkg/azb"
)

// BlockID derives the identifier for the block at the given index: base64 of
// the decimal index zero-padded to 6 digits. A pure function of the index, so
// re-staging the same index always produces the same identifier.
func BlockID(index int) string {
	return base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%06d", index)))
}

// Put uploads size bytes from body. Content at or below the block-size
// threshold is sent as one PUT; larger content is staged as blocks in index
// order and committed with an ordered block list. The first staging or commit
// error aborts the upload; staged-but-uncommitted blocks are left for the
// service to garbage collect, and no partial blob becomes visible.
func (c *Client) Put(container, key string, body io.Reader, size int64, opts *azb.PutOptions) error {
	if size < 0 {
		return azb.InvalidParameterf("negative content size %d", size)
	}
	blockSize := c.blockSize
	if opts != nil && opts.BlockSize > 0 {
		blockSize = opts.BlockSize
	}
	if size <= blockSize {
		return c.putSingle(container, key, body, size, opts)
	}
	return c.putBlocks(container, key, body, size, blockSize, opts)
}

func (c *Client) putSingle(container, key string, body io.Reader, size int64, opts *azb.PutOptions) error {
	buf := make([]byte, size)
	if _, err := io.ReadFull(body, buf); err != nil {
		return errors.Wrap(err, "Failed to read upload content")
	}
	h := azb.NewHeaders()
	h.Set("x-ms-blob-type", "BlockBlob")
	if opts != nil {
		h.Set("Content-Type", opts.ContentType)
		h.Set("x-ms-blob-content-disposition", opts.ContentDisposition)
		if err := azb.FoldMetadata(h, opts.Metadata); err != nil {
			return err
		}
	}
	req, err := c.newRequest(http.MethodPut, container, key, nil, h, buf)
	if err != nil {
		return err
	}
	_, err = c.doClosed(req)
	return errors.Wrap(err, "Single-shot upload failed")
}

func (c *Client) putBlocks(container, key string, body io.Reader, size, blockSize int64, opts *azb.PutOptions) error {
	count := int((size + blockSize - 1) / blockSize)
	c.logger.Debugf("Staging %s/%s as %d blocks of %d bytes", container, key, count, blockSize)

	// Identifiers accumulate in index order; that order, not upload order,
	// defines the committed blob's bytes.
	ids := make([]string, 0, count)
	buf := make([]byte, blockSize)
	remaining := size
	for index := 0; index < count; index++ {
		n := blockSize
		if remaining < n {
			n = remaining
		}
		if _, err := io.ReadFull(body, buf[:n]); err != nil {
			return errors.Wrapf(err, "Failed to read block %d", index)
		}
		id := BlockID(index)
		if err := c.stageBlock(container, key, id, buf[:n]); err != nil {
			return errors.Wrapf(err, "Failed to stage block %d", index)
		}
		ids = append(ids, id)
		remaining -= n
	}
	if err := c.commitBlockList(container, key, ids, opts); err != nil {
		return errors.Wrap(err, "Failed to commit block list")
	}
	return nil
}

func (c *Client) stageBlock(container, key, id string, payload []byte) error {
	query := url.Values{}
	query.Set("comp", "block")
	query.Set("blockid", id)
	req, err := c.newRequest(http.MethodPut, container, key, query, nil, payload)
	if err != nil {
		return err
	}
	_, err = c.doClosed(req)
	return err
}

// commitBlockList materializes the blob from the staged blocks, in list
// order. Blob-level attributes ride as x-ms-blob-* headers here because the
// plain entity headers describe the XML payload, not the blob.
func (c *Client) commitBlockList(container, key string, ids []string, opts *azb.PutOptions) error {
	payload, err := marshalBlockList(ids)
	if err != nil {
		return err
	}
	h := azb.NewHeaders()
	if opts != nil {
		h.Set("x-ms-blob-content-type", opts.ContentType)
		h.Set("x-ms-blob-content-disposition", opts.ContentDisposition)
		if err := azb.FoldMetadata(h, opts.Metadata); err != nil {
			return err
		}
	}
	query := url.Values{}
	query.Set("comp", "blocklist")
	req, err := c.newRequest(http.MethodPut, container, key, query, h, payload)
	if err != nil {
		return err
	}
	_, err = c.doClosed(req)
	return err
}

// CreateAppendBlob creates an empty append-only blob.
func (c *Client) CreateAppendBlob(container, key string, metadata map[string]string) error {
	h := azb.NewHeaders()
	h.Set("x-ms-blob-type", "AppendBlob")
	if err := azb.FoldMetadata(h, metadata); err != nil {
		return err
	}
	req, err := c.newRequest(http.MethodPut, container, key, nil, h, nil)
	if err != nil {
		return err
	}
	_, err = c.doClosed(req)
	return errors.Wrap(err, "Failed to create append blob")
}

// AppendBlock appends one chunk at the blob's current end. Calls are
// independent; there is no client-chosen index, ordering is by call order.
func (c *Client) AppendBlock(container, key string, chunk []byte) error {
	if len(chunk) == 0 {
		return azb.InvalidParameterf("append chunk is empty")
	}
	query := url.Values{}
	query.Set("comp", "appendblock")
	req, err := c.newRequest(http.MethodPut, container, key, query, nil, chunk)
	if err != nil {
		return err
	}
	_, err = c.doClosed(req)
	return errors.Wrap(err, "Failed to append block")
}
