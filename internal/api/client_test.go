package api

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	http "github.com/bogdanfinn/fhttp"

	apierrors "github.com/diogo/chaindocs/internal/errors"
	"github.com/diogo/chaindocs/internal/models"
)

// fakeDoer records requests and replies with a canned response
type fakeDoer struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   []string

	status     int
	statusLine string
	body       string
	err        error
	// readErr makes the response body fail mid-read
	readErr error
}

func (f *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		f.bodies = append(f.bodies, string(data))
	} else {
		f.bodies = append(f.bodies, "")
	}

	if f.err != nil {
		return nil, f.err
	}

	var body io.ReadCloser = io.NopCloser(strings.NewReader(f.body))
	if f.readErr != nil {
		body = io.NopCloser(&failingReader{err: f.readErr})
	}

	status := f.statusLine
	if status == "" {
		status = http.StatusText(f.status)
	}
	return &http.Response{
		StatusCode: f.status,
		Status:     status,
		Body:       body,
		Header:     http.Header{},
	}, nil
}

type failingReader struct{ err error }

func (r *failingReader) Read([]byte) (int, error) { return 0, r.err }

func newTestClient(t *testing.T, doer HTTPDoer) *Client {
	t.Helper()
	client, err := NewClient("http://localhost:8000/", WithHTTPClient(doer), WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
		wantURL string
	}{
		{name: "localhost", baseURL: "http://localhost:8000", wantURL: "http://localhost:8000"},
		{name: "trailing slash trimmed", baseURL: "https://chaindocs.onrender.com/", wantURL: "https://chaindocs.onrender.com"},
		{name: "missing scheme", baseURL: "localhost:8000", wantErr: true},
		{name: "unsupported scheme", baseURL: "ftp://example.com", wantErr: true},
		{name: "empty", baseURL: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, WithHTTPClient(&fakeDoer{}))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewClient() error = %v", err)
			}
			if client.BaseURL() != tt.wantURL {
				t.Errorf("BaseURL() = %s, want %s", client.BaseURL(), tt.wantURL)
			}
		})
	}
}

func TestNewClientBuildsTLSClient(t *testing.T) {
	client, err := NewClient("http://localhost:8000")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if client.httpClient == nil {
		t.Fatal("expected default HTTP client")
	}
}

func TestAskSendsQuery(t *testing.T) {
	doer := &fakeDoer{status: 200, body: `{"answer":"**bold**","sources":["https://a.example","", 3, "https://b.example"]}`}
	client := newTestClient(t, doer)

	resp, err := client.Ask(context.Background(), "  What is an ERC20 token?  ")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if resp.Answer != "**bold**" {
		t.Errorf("Answer = %q", resp.Answer)
	}
	if len(resp.Sources) != 2 || resp.Sources[0] != "https://a.example" || resp.Sources[1] != "https://b.example" {
		t.Errorf("Sources = %v", resp.Sources)
	}

	if len(doer.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(doer.requests))
	}
	req := doer.requests[0]
	if req.Method != http.MethodPost {
		t.Errorf("Method = %s, want POST", req.Method)
	}
	if req.URL.String() != "http://localhost:8000/ask" {
		t.Errorf("URL = %s", req.URL.String())
	}
	if req.Header.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %s", req.Header.Get("Content-Type"))
	}
	if doer.bodies[0] != `{"query":"What is an ERC20 token?"}` {
		t.Errorf("body = %s", doer.bodies[0])
	}
}

func TestAskEmptyQuery(t *testing.T) {
	doer := &fakeDoer{status: 200, body: `{"answer":"x"}`}
	client := newTestClient(t, doer)

	_, err := client.Ask(context.Background(), "   ")
	if !errors.Is(err, apierrors.ErrEmptyQuery) {
		t.Errorf("Ask() error = %v, want ErrEmptyQuery", err)
	}
	if len(doer.requests) != 0 {
		t.Error("expected no request for empty query")
	}
}

func TestAskHTTPError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		statusLine string
		body       string
		wantInline string
	}{
		{
			name:       "server error",
			status:     500,
			statusLine: "500 Internal Server Error",
			body:       `{"detail":"Neither local model nor TOGETHER_API_KEY is available"}`,
			wantInline: "Error: 500 Internal Server Error",
		},
		{
			name:       "bad request",
			status:     400,
			statusLine: "400 Bad Request",
			body:       `{"detail":"Query is empty"}`,
			wantInline: "Error: 400 Bad Request",
		},
		{
			name:       "missing reason phrase",
			status:     404,
			statusLine: "404",
			wantInline: "Error: 404 Not Found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doer := &fakeDoer{status: tt.status, statusLine: tt.statusLine, body: tt.body}
			client := newTestClient(t, doer)

			_, err := client.Ask(context.Background(), "hello")
			if err == nil {
				t.Fatal("expected error")
			}
			if apierrors.GetHTTPStatus(err) != tt.status {
				t.Errorf("GetHTTPStatus() = %d, want %d", apierrors.GetHTTPStatus(err), tt.status)
			}
			if got := apierrors.InlineMessage(err); got != tt.wantInline {
				t.Errorf("InlineMessage() = %q, want %q", got, tt.wantInline)
			}
			if apierrors.GetResponseBody(err) != tt.body {
				t.Errorf("GetResponseBody() = %q", apierrors.GetResponseBody(err))
			}
		})
	}
}

func TestAskTransportFailure(t *testing.T) {
	doer := &fakeDoer{err: errors.New("dial tcp 127.0.0.1:8000: connect: connection refused")}
	client := newTestClient(t, doer)

	_, err := client.Ask(context.Background(), "hello")
	if !apierrors.IsNetworkError(err) {
		t.Fatalf("Ask() error = %v, want network error", err)
	}
	if apierrors.IsTimeoutError(err) {
		t.Error("connection refused should not be a timeout")
	}
	if got := apierrors.InlineMessage(err); got != apierrors.FetchFailedMessage {
		t.Errorf("InlineMessage() = %q", got)
	}
}

func TestAskTimeout(t *testing.T) {
	doer := &fakeDoer{err: context.DeadlineExceeded}
	client := newTestClient(t, doer)

	_, err := client.Ask(context.Background(), "hello")
	if !apierrors.IsTimeoutError(err) {
		t.Fatalf("Ask() error = %v, want timeout", err)
	}
}

func TestAskBodyReadFailure(t *testing.T) {
	doer := &fakeDoer{status: 200, readErr: errors.New("connection reset by peer")}
	client := newTestClient(t, doer)

	_, err := client.Ask(context.Background(), "hello")
	if !apierrors.IsNetworkError(err) {
		t.Fatalf("Ask() error = %v, want network error", err)
	}
}

func TestParseAskResponse(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantErr     bool
		wantAnswer  string
		wantSources int
	}{
		{name: "answer only", body: `{"answer":"hi"}`, wantAnswer: "hi"},
		{name: "empty answer", body: `{"answer":"","sources":[]}`, wantAnswer: ""},
		{name: "with sources", body: `{"answer":"hi","sources":["a","b"]}`, wantAnswer: "hi", wantSources: 2},
		{name: "invalid json", body: `{"answer":`, wantErr: true},
		{name: "missing answer", body: `{"sources":["a"]}`, wantErr: true},
		{name: "answer not string", body: `{"answer":42}`, wantErr: true},
		{name: "plain text body", body: `streamed **markdown**`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := parseAskResponse([]byte(tt.body))
			if tt.wantErr {
				if !apierrors.IsParseError(err) {
					t.Fatalf("parseAskResponse() error = %v, want parse error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAskResponse() error = %v", err)
			}
			if resp.Answer != tt.wantAnswer {
				t.Errorf("Answer = %q, want %q", resp.Answer, tt.wantAnswer)
			}
			if len(resp.Sources) != tt.wantSources {
				t.Errorf("len(Sources) = %d, want %d", len(resp.Sources), tt.wantSources)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	doer := &fakeDoer{status: 200, body: `{"status":"ChainDocs API is alive!"}`}
	client := newTestClient(t, doer)

	status, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if status.Status != "ChainDocs API is alive!" {
		t.Errorf("Status = %q", status.Status)
	}

	req := doer.requests[0]
	if req.Method != http.MethodGet {
		t.Errorf("Method = %s, want GET", req.Method)
	}
	if req.URL.Path != "/health" {
		t.Errorf("Path = %s", req.URL.Path)
	}
}

func TestHealthErrors(t *testing.T) {
	client := newTestClient(t, &fakeDoer{status: 200, body: `{}`})
	if _, err := client.Health(context.Background()); !apierrors.IsParseError(err) {
		t.Errorf("Health() error = %v, want parse error", err)
	}

	client = newTestClient(t, &fakeDoer{status: 503, statusLine: "503 Service Unavailable"})
	if _, err := client.Health(context.Background()); apierrors.GetHTTPStatus(err) != 503 {
		t.Errorf("Health() error = %v, want 503", err)
	}
}

func TestMockClient(t *testing.T) {
	mock := &MockClient{}
	mock.AskFunc = func(ctx context.Context, query string) (*models.AskResponse, error) {
		return &models.AskResponse{Answer: "echo: " + query}, nil
	}

	resp, err := mock.Ask(context.Background(), "hi")
	if err != nil || resp.Answer != "echo: hi" {
		t.Errorf("Ask() = %v, %v", resp, err)
	}
	if q := mock.Queries(); len(q) != 1 || q[0] != "hi" {
		t.Errorf("Queries() = %v", q)
	}
	if mock.BaseURL() != models.DefaultHost {
		t.Errorf("BaseURL() = %s", mock.BaseURL())
	}
}
