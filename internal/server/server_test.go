package server

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danmuck/pbdecode/internal/config"
	"github.com/danmuck/pbdecode/internal/frame"
	"github.com/danmuck/pbdecode/internal/render"
	"github.com/danmuck/pbdecode/internal/testutil/testlog"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.DefaultServerConfig()
	cfg.Name = "pbdecoded-test"
	cfg.MaxBodyBytes = 64
	s := New(cfg, zerolog.Nop())
	s.RegisterRoutes()
	return s
}

func do(s *Server, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	s.HTTPRouter().ServeHTTP(rr, req)
	return rr
}

func TestHealthAndReady(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)
	for _, path := range []string{"/health", "/ready"} {
		rr := do(s, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rr.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode body: %v", path, err)
		}
		if body["service"] != "pbdecoded-test" {
			t.Fatalf("%s: unexpected body %#v", path, body)
		}
	}
}

func TestDecodeHexJSON(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)
	rr := do(s, http.MethodPost, "/decode?encoding=hex", "28 ac 02 12 02 08 07")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var view render.MessageView
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(view.Fields) != 2 || view.Fields[0].Number != 5 || view.Fields[0].Value != float64(300) {
		t.Fatalf("unexpected fields: %+v", view.Fields)
	}
	nested := view.Fields[1].Chunks[0].Fields
	if len(nested) != 1 || nested[0].Value != float64(7) {
		t.Fatalf("unexpected nested fields: %+v", nested)
	}
	log.Debug().Int("status", rr.Code).Msg("server/http: POST /decode hex json")
}

func TestDecodeTextFormat(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)
	rr := do(s, http.MethodPost, "/decode?encoding=base64&format=text", "CgVoZWxsbw==")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.Contains(rr.Body.String(), "fieldId=1\n") || !strings.Contains(rr.Body.String(), "val=(hello);") {
		t.Fatalf("unexpected body:\n%s", rr.Body.String())
	}
}

func TestDecodeErrors(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)
	cases := []struct {
		name   string
		target string
		body   string
		status int
		kind   string
	}{
		{"group", "/decode?encoding=hex", "0b00", http.StatusUnprocessableEntity, "unimplemented_wire_type"},
		{"depth", "/decode?encoding=hex&max_depth=1", "0a060a04 0a020801", http.StatusUnprocessableEntity, "depth_exceeded"},
		{"bad hex", "/decode?encoding=hex", "zz", http.StatusBadRequest, ""},
		{"bad encoding", "/decode?encoding=octal", "", http.StatusBadRequest, ""},
		{"bad format", "/decode?format=yaml", "", http.StatusBadRequest, ""},
		{"bad depth", "/decode?max_depth=0", "", http.StatusBadRequest, ""},
		{"too large", "/decode", strings.Repeat("\x08\x01", 40), http.StatusRequestEntityTooLarge, ""},
	}
	for _, tc := range cases {
		rr := do(s, http.MethodPost, tc.target, tc.body)
		if rr.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d body=%s", tc.name, tc.status, rr.Code, rr.Body.String())
		}
		if tc.kind == "" {
			continue
		}
		var body map[string]any
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode body: %v", tc.name, err)
		}
		if body["kind"] != tc.kind {
			t.Fatalf("%s: unexpected kind %#v", tc.name, body["kind"])
		}
	}
}

func TestDecodeGRPCFrames(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)
	var capture bytes.Buffer
	for _, payload := range [][]byte{{0x08, 0x01}, {0x10, 0x02}} {
		if err := frame.WriteFrame(&capture, frame.Frame{Payload: payload}, frame.DefaultLimits()); err != nil {
			t.Fatalf("write frame: %v", err)
		}
	}
	rr := do(s, http.MethodPost, "/decode?encoding=hex&framing=grpc", hex.EncodeToString(capture.Bytes()))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var body struct {
		Frames []render.MessageView `json:"frames"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Frames) != 2 || body.Frames[1].Fields[0].Number != 2 {
		t.Fatalf("unexpected frames: %+v", body.Frames)
	}

	rr = do(s, http.MethodPost, "/decode?encoding=hex&framing=grpc", "000000")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("short header: expected 400, got %d", rr.Code)
	}
	rr = do(s, http.MethodPost, "/decode?framing=http2", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad framing: expected 400, got %d", rr.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)
	do(s, http.MethodPost, "/decode?encoding=hex", "0801")
	rr := do(s, http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "pbdecode_wire_decodes_total") {
		t.Fatalf("missing decode counter in metrics output")
	}
}
