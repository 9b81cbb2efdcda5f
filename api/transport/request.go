package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/valyala/fasthttp"

	"github.com/montasim/school-management-backend-sub003/domain"
)

// Request-scoped user values shared between middleware and handlers.
const (
	CtxKeyPrincipalID = "principal_id"
	CtxKeyBody        = "request_body"
	CtxKeyFile        = "request_file"
)

// FilePartName is the multipart part carrying an attached file.
const FilePartName = "file"

// ParseBody extracts the request body as a field map plus an optional
// file blob. JSON bodies decode directly; multipart form bodies
// contribute each value field as a string (Normalize coerces them later)
// and the "file" part as the blob. An empty body yields an empty map.
func ParseBody(ctx *fasthttp.RequestCtx) (map[string]interface{}, *domain.Blob, error) {
	contentType := string(ctx.Request.Header.ContentType())
	if bytes.Contains([]byte(contentType), []byte("multipart/form-data")) {
		return parseMultipart(ctx)
	}

	body := ctx.PostBody()
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]interface{}{}, nil, nil
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, nil, fmt.Errorf("decode json body: %w", err)
	}
	if fields == nil {
		fields = map[string]interface{}{}
	}
	return fields, nil, nil
}

func parseMultipart(ctx *fasthttp.RequestCtx) (map[string]interface{}, *domain.Blob, error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, nil, fmt.Errorf("parse multipart form: %w", err)
	}

	fields := make(map[string]interface{}, len(form.Value))
	for key, values := range form.Value {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}

	headers := form.File[FilePartName]
	if len(headers) == 0 {
		return fields, nil, nil
	}

	blob, err := readFilePart(headers[0])
	if err != nil {
		return nil, nil, err
	}
	return fields, blob, nil
}

func readFilePart(header *multipart.FileHeader) (*domain.Blob, error) {
	part, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open file part: %w", err)
	}
	defer part.Close()

	content, err := io.ReadAll(part)
	if err != nil {
		return nil, fmt.Errorf("read file part: %w", err)
	}

	return &domain.Blob{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

// PrincipalID returns the admin id the auth middleware attached.
func PrincipalID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue(CtxKeyPrincipalID).(string)
	return id
}
