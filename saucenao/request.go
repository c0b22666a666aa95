package saucenao

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"saucenao/databases"
	"saucenao/models"
)

const (
	fieldHide     = "hide"
	fieldDatabase = "dbs[]"
	fieldFile     = "file"
	fieldURL      = "url"
	fileName      = "image.png"
)

// newRequest builds the multipart POST. image holds the PNG bytes for image
// inputs and is ignored for URL inputs.
func (c *Client) newRequest(ctx context.Context, in models.SearchInput, image []byte, filter databases.Filter) (*http.Request, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	if err := w.WriteField(fieldHide, c.hide); err != nil {
		return nil, err
	}
	for _, code := range filter.Codes() {
		if err := w.WriteField(fieldDatabase, strconv.Itoa(code)); err != nil {
			return nil, err
		}
	}

	switch {
	case in.IsImage():
		part, err := w.CreateFormFile(fieldFile, fileName)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(image); err != nil {
			return nil, err
		}
	case in.Kind == models.InputURL:
		if err := w.WriteField(fieldURL, in.URL); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported input %s", in.Kind)
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	return req, nil
}
