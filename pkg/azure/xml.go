// Wire codecs for the XML request/response bodies: block-list commit payloads
// and container listing pages.
package azure

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/storagekit/azb/pkg/azb"
)

// blockList is the commit payload. Every referenced block is committed from
// the freshly staged set, so only Latest entries are emitted.
type blockList struct {
	XMLName xml.Name `xml:"BlockList"`
	Latest  []string `xml:"Latest"`
}

// marshalBlockList serializes an ordered block identifier list. The element
// order defines the committed blob's byte order.
func marshalBlockList(ids []string) ([]byte, error) {
	body, err := xml.Marshal(blockList{Latest: ids})
	if err != nil {
		return nil, errors.Wrap(err, "Failed to encode block list")
	}
	return append([]byte(xml.Header), body...), nil
}

type enumerationResults struct {
	XMLName    xml.Name    `xml:"EnumerationResults"`
	Blobs      []blobEntry `xml:"Blobs>Blob"`
	NextMarker string      `xml:"NextMarker"`
}

type blobEntry struct {
	Name       string          `xml:"Name"`
	Properties entryProperties `xml:"Properties"`
}

type entryProperties struct {
	LastModified  string `xml:"Last-Modified"`
	Etag          string `xml:"Etag"`
	ContentLength int64  `xml:"Content-Length"`
	ContentType   string `xml:"Content-Type"`
}

// parseListing decodes one container listing page into entries plus the
// continuation marker (empty when the listing is exhausted).
func parseListing(body []byte) (*azb.ListPage, error) {
	var results enumerationResults
	if err := xml.Unmarshal(body, &results); err != nil {
		return nil, errors.Wrap(err, "Failed to decode listing response")
	}
	page := &azb.ListPage{
		Items:      make([]azb.BlobItem, 0, len(results.Blobs)),
		NextMarker: results.NextMarker,
	}
	for _, entry := range results.Blobs {
		props := azb.Properties{
			ContentType:   entry.Properties.ContentType,
			ContentLength: entry.Properties.ContentLength,
			ETag:          entry.Properties.Etag,
		}
		if entry.Properties.LastModified != "" {
			if t, err := time.Parse(http.TimeFormat, entry.Properties.LastModified); err == nil {
				props.LastModified = t
			}
		}
		page.Items = append(page.Items, azb.BlobItem{Key: entry.Name, Properties: props})
	}
	return page, nil
}
