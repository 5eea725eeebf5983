package api

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"
)

// File es un archivo a subir. Se mantiene en memoria para poder reintentar el request.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type formField struct {
	name  string
	value string
}

func multipartRequest(method, path string, fields []formField, fileField string, files []File) (request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return request{}, fmt.Errorf("write field %s: %w", f.name, err)
		}
	}
	for _, file := range files {
		if len(file.Data) == 0 {
			return request{}, errors.New("empty file " + file.Name)
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fileField, filepath.Base(file.Name)))
		ct := strings.TrimSpace(file.ContentType)
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return request{}, fmt.Errorf("create part: %w", err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return request{}, fmt.Errorf("write part: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return request{}, fmt.Errorf("close multipart: %w", err)
	}

	return request{
		method:      method,
		path:        path,
		body:        buf.Bytes(),
		contentType: w.FormDataContentType(),
	}, nil
}
