package transport

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/valyala/fasthttp"
)

func TestParseBodyJSON(t *testing.T) {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetContentType("application/json")
	ctx.Request.SetBody([]byte(`{"name":"Science","roll":42}`))

	fields, blob, err := ParseBody(&ctx)
	if err != nil {
		t.Fatalf("ParseBody: %v", err)
	}
	if blob != nil {
		t.Fatal("unexpected blob for json body")
	}
	want := map[string]interface{}{"name": "Science", "roll": float64(42)}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBodyEmpty(t *testing.T) {
	var ctx fasthttp.RequestCtx
	fields, blob, err := ParseBody(&ctx)
	if err != nil || blob != nil || len(fields) != 0 {
		t.Fatalf("empty body: fields=%v blob=%v err=%v", fields, blob, err)
	}
}

func TestParseBodyMalformedJSON(t *testing.T) {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetContentType("application/json")
	ctx.Request.SetBody([]byte(`{"name":`))

	if _, _, err := ParseBody(&ctx); err == nil {
		t.Fatal("expected error for malformed json")
	}
}

func TestParseBodyMultipart(t *testing.T) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("title", "First term results"); err != nil {
		t.Fatal(err)
	}
	part, err := writer.CreateFormFile(FilePartName, "results.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("%PDF-1.4 fake")); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetContentType(writer.FormDataContentType())
	ctx.Request.SetBody(buf.Bytes())

	fields, blob, err := ParseBody(&ctx)
	if err != nil {
		t.Fatalf("ParseBody: %v", err)
	}
	if got := fields["title"]; got != "First term results" {
		t.Fatalf("title = %v", got)
	}
	if blob == nil {
		t.Fatal("expected file blob")
	}
	if blob.Name != "results.pdf" {
		t.Fatalf("blob name = %q", blob.Name)
	}
	if string(blob.Content) != "%PDF-1.4 fake" {
		t.Fatalf("blob content = %q", blob.Content)
	}
}
