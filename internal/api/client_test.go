package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithHTTPClient(srv.Client())}, opts...)
	return NewClient(srv.URL, 5*time.Second, opts...), srv
}

func TestClientInjectsBearerAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID, gotAccept string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`[]`))
	}, WithTokenSource(func() string { return "tok-123" }))

	if _, err := c.Benefits(context.Background()); err != nil {
		t.Fatalf("Benefits returned error: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("wrong Authorization header: %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Fatalf("expected an X-Request-ID header")
	}
	if gotAccept != "application/json" {
		t.Fatalf("wrong Accept header: %q", gotAccept)
	}
}

func TestClientOmitsBearerWhenLoggedOut(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	})
	if _, err := c.Benefits(context.Background()); err != nil {
		t.Fatalf("Benefits returned error: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestClientFiresUnauthorizedHook(t *testing.T) {
	fired := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Could not validate credentials"}`))
	}, WithUnauthorizedHook(func() { fired++ }))

	_, err := c.Cases(context.Background())
	if err == nil {
		t.Fatalf("expected an error from a 401")
	}
	if !IsUnauthorized(err) {
		t.Fatalf("expected IsUnauthorized, got %v", err)
	}
	if fired != 1 {
		t.Fatalf("unauthorized hook fired %d times", fired)
	}
	if got := ExtractMessage(err, "fb"); got != "Could not validate credentials" {
		t.Fatalf("detail lost: %q", got)
	}
}

func TestClientNoHookOnOtherErrors(t *testing.T) {
	fired := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Case not found"}`))
	}, WithUnauthorizedHook(func() { fired++ }))

	_, err := c.Case(context.Background(), 99)
	if !IsNotFound(err) {
		t.Fatalf("expected a 404, got %v", err)
	}
	if fired != 0 {
		t.Fatalf("hook must not fire on non-401 errors")
	}
}

func TestDownloadUsesDispositionFilename(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="dd214.pdf"`)
		w.Write([]byte("%PDF-1.4 payload"))
	})
	dl, err := c.DownloadCaseDocument(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("download returned error: %v", err)
	}
	if dl.Filename != "dd214.pdf" {
		t.Fatalf("wrong filename: %q", dl.Filename)
	}
	if string(dl.Data) != "%PDF-1.4 payload" {
		t.Fatalf("payload corrupted: %q", dl.Data)
	}
}

func TestGeneratePDFFallbackFilename(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Write([]byte("pdf-bytes"))
	})
	dl, err := c.GenerateApplicationPDF(context.Background(), 42)
	if err != nil {
		t.Fatalf("generate returned error: %v", err)
	}
	if dl.Filename != "zayava_case_42.pdf" {
		t.Fatalf("wrong fallback filename: %q", dl.Filename)
	}
}

func TestDownloadSaveTo(t *testing.T) {
	dir := t.TempDir()
	dl := Download{Filename: "../escape.pdf", Data: []byte("data")}
	path, err := dl.SaveTo(dir)
	if err != nil {
		t.Fatalf("SaveTo returned error: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("file escaped the downloads dir: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "data" {
		t.Fatalf("bad file contents: %q, %v", data, err)
	}
}

func TestUploadSendsMultipart(t *testing.T) {
	var gotField, gotName, gotBody string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotField = "file"
		gotName = header.Filename
		buf, _ := io.ReadAll(file)
		gotBody = string(buf)
		w.Write([]byte(`{"id": 5, "case_id": 1, "title": "DD214", "status": "uploaded", "file_name": "dd214.pdf"}`))
	})

	doc, err := c.UploadCaseDocument(context.Background(), 1, 5, "dd214.pdf", strings.NewReader("scan-bytes"))
	if err != nil {
		t.Fatalf("upload returned error: %v", err)
	}
	if gotField != "file" || gotName != "dd214.pdf" || gotBody != "scan-bytes" {
		t.Fatalf("multipart form wrong: field=%q name=%q body=%q", gotField, gotName, gotBody)
	}
	if doc.Status != DocUploaded || doc.FileName != "dd214.pdf" {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestAskUnwrapsAnswer(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cases/3/ask" {
			t.Errorf("wrong path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"answer": "Upload your discharge papers first."}`))
	})
	answer, err := c.Ask(context.Background(), 3, "what next?")
	if err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}
	if answer != "Upload your discharge papers first." {
		t.Fatalf("wrong answer: %q", answer)
	}
}

func TestStringListBothShapes(t *testing.T) {
	var b Benefit
	arr := []byte(`{"id":1,"title":"t","required_documents":["a","b"]}`)
	if err := json.Unmarshal(arr, &b); err != nil {
		t.Fatalf("array shape: %v", err)
	}
	if len(b.RequiredDocuments) != 2 {
		t.Fatalf("array shape parsed wrong: %v", b.RequiredDocuments)
	}
	joined := []byte(`{"id":1,"title":"t","required_documents":"a\nb\n\n c "}`)
	b = Benefit{}
	if err := json.Unmarshal(joined, &b); err != nil {
		t.Fatalf("string shape: %v", err)
	}
	if len(b.RequiredDocuments) != 3 || b.RequiredDocuments[2] != "c" {
		t.Fatalf("string shape parsed wrong: %v", b.RequiredDocuments)
	}
}
