package session

import (
	"bufio"
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"roomMakerAi/internal/events"
)

func multipartUpload(t *testing.T, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image_file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/session/image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) View {
	t.Helper()
	var v View
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	return v
}

func TestHandlerFlow(t *testing.T) {
	h := Handler{Studio: NewStudio(&fakeGenerator{result: okResult()})}

	rec := httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/api/session/generate", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("generate without inputs status = %d", rec.Code)
	}
	if v := decodeView(t, rec); v.Error != "Please upload an image and select a style." {
		t.Errorf("error = %q", v.Error)
	}

	rec = httptest.NewRecorder()
	h.UploadImage(rec, multipartUpload(t, "room.jpg", "image/jpeg", tinyJPEG))
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d: %s", rec.Code, rec.Body)
	}
	if v := decodeView(t, rec); v.Preview != PreviewPath || v.Filename != "room.jpg" {
		t.Errorf("view after upload = %+v", v)
	}

	rec = httptest.NewRecorder()
	h.SelectStyle(rec, httptest.NewRequest(http.MethodPut, "/api/session/style", strings.NewReader(`{"style":"art deco"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("style status = %d", rec.Code)
	}
	if v := decodeView(t, rec); !v.CanGenerate || v.Style != "Art Deco" {
		t.Errorf("view after style = %+v", v)
	}

	rec = httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/api/session/generate", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("generate status = %d", rec.Code)
	}
	v := decodeView(t, rec)
	if v.Ideas == nil || !strings.HasPrefix(v.Image, "data:image/jpeg;base64,") || v.Busy {
		t.Errorf("view after generate = %+v", v)
	}

	rec = httptest.NewRecorder()
	h.GetRender(rec, httptest.NewRequest(http.MethodGet, "/api/session/render", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "jpeg" || rec.Header().Get("Content-Type") != "image/jpeg" {
		t.Errorf("render response = %d %q", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	h.GetImage(rec, httptest.NewRequest(http.MethodGet, PreviewPath, nil))
	if rec.Code != http.StatusOK || !bytes.Equal(rec.Body.Bytes(), tinyJPEG) {
		t.Errorf("image response = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Export(rec, httptest.NewRequest(http.MethodPost, "/api/session/export", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("export with disabled uploader status = %d", rec.Code)
	}
}

func TestHandlerRejects(t *testing.T) {
	h := Handler{Studio: NewStudio(&fakeGenerator{})}

	tests := []struct {
		name   string
		serve  func(*httptest.ResponseRecorder)
		status int
	}{
		{
			name: "unsupported upload",
			serve: func(rec *httptest.ResponseRecorder) {
				h.UploadImage(rec, multipartUpload(t, "notes.txt", "text/plain", []byte("hello")))
			},
			status: http.StatusBadRequest,
		},
		{
			name: "missing file field",
			serve: func(rec *httptest.ResponseRecorder) {
				h.UploadImage(rec, httptest.NewRequest(http.MethodPost, "/api/session/image", nil))
			},
			status: http.StatusBadRequest,
		},
		{
			name: "unknown style",
			serve: func(rec *httptest.ResponseRecorder) {
				h.SelectStyle(rec, httptest.NewRequest(http.MethodPut, "/api/session/style", strings.NewReader(`{"style":"Gothic"}`)))
			},
			status: http.StatusBadRequest,
		},
		{
			name: "no render yet",
			serve: func(rec *httptest.ResponseRecorder) {
				h.GetRender(rec, httptest.NewRequest(http.MethodGet, "/api/session/render", nil))
			},
			status: http.StatusNotFound,
		},
		{
			name: "export before generate",
			serve: func(rec *httptest.ResponseRecorder) {
				h.Export(rec, httptest.NewRequest(http.MethodPost, "/api/session/export", nil))
			},
			status: http.StatusConflict,
		},
		{
			name: "events without broker",
			serve: func(rec *httptest.ResponseRecorder) {
				h.StreamEvents(rec, httptest.NewRequest(http.MethodGet, "/api/session/events", nil))
			},
			status: http.StatusServiceUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.serve(rec)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body)
			}
		})
	}
}

func TestHandlerStyles(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler{Studio: NewStudio(nil)}.Styles(rec, httptest.NewRequest(http.MethodGet, "/api/styles", nil))
	var body struct {
		Styles []struct {
			Name string `json:"name"`
		} `json:"styles"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Styles) != 12 || body.Styles[0].Name != "Modern" {
		t.Errorf("styles = %+v", body.Styles)
	}
}

func TestHandlerStreamEvents(t *testing.T) {
	broker := events.NewBroker()
	studio := NewStudio(&fakeGenerator{}, WithBroker(broker))
	if _, err := studio.SelectStyle("coastal"); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(Handler{Studio: studio}.StreamEvents))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	reader := bufio.NewReader(resp.Body)
	var lines []string
	for len(lines) < 3 {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v (got %q)", err, lines)
		}
		lines = append(lines, strings.TrimSpace(line))
	}
	if lines[0] != "id: 1" || lines[1] != "event: style_selected" || !strings.HasPrefix(lines[2], "data: {") {
		t.Errorf("frame = %q", lines)
	}
}
