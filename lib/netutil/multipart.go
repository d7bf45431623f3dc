// Copyright 2026 The sdrshell Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// Part is one field of a multipart/form-data body. A Part with a
// FileName is written as a file field.
type Part struct {
	FieldName   string
	FileName    string
	ContentType string
	Body        io.Reader
}

// StreamMultipart returns the Content-Type header value and a reader
// that yields the encoded body. Parts are copied lazily as the reader
// is consumed. The returned reader must be closed (an HTTP transport
// does this); closing early aborts the producer.
func StreamMultipart(parts ...Part) (string, io.ReadCloser) {
	reader, writer := io.Pipe()
	form := multipart.NewWriter(writer)

	go func() {
		for _, part := range parts {
			if err := writePart(form, part); err != nil {
				writer.CloseWithError(err)
				return
			}
		}
		writer.CloseWithError(form.Close())
	}()

	return form.FormDataContentType(), reader
}

func writePart(form *multipart.Writer, part Part) error {
	header := make(textproto.MIMEHeader)
	disposition := fmt.Sprintf(`form-data; name="%s"`, escapeQuotes(part.FieldName))
	if part.FileName != "" {
		disposition += fmt.Sprintf(`; filename="%s"`, escapeQuotes(part.FileName))
	}
	header.Set("Content-Disposition", disposition)

	contentType := part.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	destination, err := form.CreatePart(header)
	if err != nil {
		return fmt.Errorf("creating part %q: %w", part.FieldName, err)
	}
	if _, err := io.Copy(destination, part.Body); err != nil {
		return fmt.Errorf("writing part %q: %w", part.FieldName, err)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(value string) string {
	return quoteEscaper.Replace(value)
}
