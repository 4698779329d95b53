package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	improve "aiupstart.com/go-improve"
	"aiupstart.com/go-improve/internal/agent"
	"aiupstart.com/go-improve/internal/config"
	"aiupstart.com/go-improve/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	utils.SetOutput(io.Discard)
}

type stubImprover struct {
	result      improve.ExtractionResult
	err         error
	code, instr string
	deadline    bool
}

func (s *stubImprover) Improve(ctx context.Context, code, instruction string) (improve.ExtractionResult, error) {
	s.code, s.instr = code, instruction
	_, s.deadline = ctx.Deadline()
	return s.result, s.err
}

func newTestServer(imp Improver) *Server {
	cfg := config.Default()
	cfg.Server.MaxBodySize = 256
	return New(imp, cfg)
}

func postImprove(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/ai-improve", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleImprove(t *testing.T) {
	stub := &stubImprover{result: improve.ExtractionResult{Code: "foo()", Explanation: "did X", Language: "js"}}
	reqBody, _ := json.Marshal(ImproveRequest{Code: "bar()", Prompt: "rename"})

	rec := postImprove(t, newTestServer(stub).Handler(), string(reqBody))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"modifiedCode":"foo()","explanation":"did X","language":"js"}`, rec.Body.String())
	assert.Equal(t, "bar()", stub.code)
	assert.Equal(t, "rename", stub.instr)
	assert.True(t, stub.deadline)
}

func TestHandleImproveSentinelResult(t *testing.T) {
	stub := &stubImprover{result: improve.Extract("no fences here")}
	rec := postImprove(t, newTestServer(stub).Handler(), `{"code":"x","prompt":"y"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"modifiedCode":"","explanation":"No explanation provided."}`, rec.Body.String())
}

func TestHandleImproveUpstreamFailure(t *testing.T) {
	stub := &stubImprover{err: errors.Join(agent.ErrUpstream, errors.New("secret detail"))}
	rec := postImprove(t, newTestServer(stub).Handler(), `{"code":"x","prompt":"y"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"LLM API call failed"}`, rec.Body.String())
}

func TestHandleImproveBadRequests(t *testing.T) {
	h := newTestServer(&stubImprover{}).Handler()

	rec := postImprove(t, h, `{"code":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postImprove(t, h, `{"code":"   ","prompt":"y"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"code is required"}`, rec.Body.String())

	rec = postImprove(t, h, `{"code":"`+strings.Repeat("a", 512)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(&stubImprover{}).Handler()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ai-improve", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(&stubImprover{}).Handler()
	req := httptest.NewRequest(http.MethodOptions, "/ai-improve", nil)
	req.Header.Set("Origin", "vscode-webview://abc")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "content-type", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestRequestID(t *testing.T) {
	h := newTestServer(&stubImprover{}).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestMetricsMountedWithoutSeparateListener(t *testing.T) {
	h := newTestServer(&stubImprover{}).Handler()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	cfg := config.Default()
	cfg.Server.MetricsAddr = ":9464"
	rec = httptest.NewRecorder()
	New(&stubImprover{}, cfg).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeContextShutsDown(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Addr = "127.0.0.1:0"
	s := New(&stubImprover{}, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeContext(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestEndToEndOverHTTP(t *testing.T) {
	stub := &stubImprover{result: improve.ExtractionResult{Code: "a", Explanation: "b"}}
	srv := httptest.NewServer(newTestServer(stub).Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/ai-improve", "application/json", bytes.NewReader([]byte(`{"code":"x","prompt":"y"}`)))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out improve.ExtractionResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "a", out.Code)
}

func TestHandleImproveOtherFailure(t *testing.T) {
	rec := postImprove(t, newTestServer(&stubImprover{err: errors.New("bug")}).Handler(), `{"code":"x","prompt":"y"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}

var _ Improver = (*agent.Improver)(nil)
