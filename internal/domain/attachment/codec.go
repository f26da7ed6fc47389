// Package attachment converts binary files to and from the embeddable record
// stored inside item payloads.
package attachment

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedData indicates the embedded payload is not a valid data URI.
var ErrMalformedData = errors.New("malformed attachment data")

const defaultMIMEType = "application/octet-stream"

// Attachment is an embeddable file record. Data holds the file bytes as a
// mime-prefixed base64 data URI so the record is self-describing.
type Attachment struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
	Data string `json:"data"`
}

// Encode wraps file bytes into an Attachment.
func Encode(name, mimeType string, payload []byte) Attachment {
	if mimeType == "" {
		mimeType = defaultMIMEType
	}
	return Attachment{
		Name: name,
		Type: mimeType,
		Size: int64(len(payload)),
		Data: fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(payload)),
	}
}

// Bytes decodes the embedded payload back into raw file bytes.
func (a Attachment) Bytes() ([]byte, error) {
	rest, ok := strings.CutPrefix(a.Data, "data:")
	if !ok {
		return nil, ErrMalformedData
	}
	meta, encoded, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, ErrMalformedData
	}
	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}
	return payload, nil
}

// MIMEType returns the mime type declared inside the data URI, falling back
// to the Type field when the URI carries none.
func (a Attachment) MIMEType() string {
	rest, ok := strings.CutPrefix(a.Data, "data:")
	if !ok {
		return a.Type
	}
	meta, _, ok := strings.Cut(rest, ",")
	if !ok {
		return a.Type
	}
	mime := strings.TrimSuffix(meta, ";base64")
	if mime == "" {
		return a.Type
	}
	return mime
}
