package engine

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/yangwenmai/herogen/internal/model"
)

var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

// imageAPI is a fake image service: POST /v1/images/generations returns a URL
// pointing back at GET /files/hero.png.
type imageAPI struct {
	srv            *httptest.Server
	generateCalls  atomic.Int32
	downloadCalls  atomic.Int32
	lastBody       map[string]any
	lastAuth       string
	downloadAuth   string
	generateStatus int
	generateBody   string // overrides the default JSON when set
	downloadStatus int
	downloadType   string
	downloadBody   []byte
}

func newImageAPI(t *testing.T) *imageAPI {
	t.Helper()
	api := &imageAPI{
		generateStatus: http.StatusOK,
		downloadStatus: http.StatusOK,
		downloadType:   "image/png",
		downloadBody:   jpegBytes,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/images/generations", func(w http.ResponseWriter, r *http.Request) {
		api.generateCalls.Add(1)
		api.lastAuth = r.Header.Get("Authorization")
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		api.lastBody = body

		w.Header().Set("Content-Type", "application/json")
		if api.generateStatus != http.StatusOK {
			w.WriteHeader(api.generateStatus)
			w.Write([]byte(`{"error":{"message":"upstream unavailable","type":"server_error"}}`))
			return
		}
		if api.generateBody != "" {
			w.Write([]byte(api.generateBody))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"created": 1700000000,
			"data":    []map[string]any{{"url": api.srv.URL + "/files/hero.png"}},
		})
	})
	mux.HandleFunc("GET /files/hero.png", func(w http.ResponseWriter, r *http.Request) {
		api.downloadCalls.Add(1)
		api.downloadAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", api.downloadType)
		w.WriteHeader(api.downloadStatus)
		w.Write(api.downloadBody)
	})
	api.srv = httptest.NewServer(mux)
	t.Cleanup(api.srv.Close)
	return api
}

func (a *imageAPI) client(opts ...OpenAIOption) *OpenAIImageClient {
	return NewOpenAIImageClient("sk-mock", append([]OpenAIOption{WithBaseURL(a.srv.URL + "/v1")}, opts...)...)
}

func TestNewOpenAIImageClient_Defaults(t *testing.T) {
	c := NewOpenAIImageClient("sk-test")

	if c.apiKey != "sk-test" {
		t.Errorf("apiKey = %q, want %q", c.apiKey, "sk-test")
	}
	if c.model != "" {
		t.Errorf("model = %q, want empty (service default)", c.model)
	}
	if c.baseURL != "https://api.openai.com/v1" {
		t.Errorf("baseURL = %q, want default OpenAI URL", c.baseURL)
	}
	if c.httpClient.Timeout != 0 {
		t.Errorf("timeout = %v, want 0 (platform default)", c.httpClient.Timeout)
	}
}

func TestNewOpenAIImageClient_WithOptions(t *testing.T) {
	c := NewOpenAIImageClient("sk-test",
		WithImageModel("dall-e-3"),
		WithBaseURL("https://proxy.example.com/v1/"),
	)

	if c.model != "dall-e-3" {
		t.Errorf("model = %q, want %q", c.model, "dall-e-3")
	}
	if c.baseURL != "https://proxy.example.com/v1" {
		t.Errorf("baseURL = %q, trailing slash should be trimmed", c.baseURL)
	}
}

func TestGenerate_Success(t *testing.T) {
	api := newImageAPI(t)

	got, err := api.client().Generate(context.Background(), model.DefaultRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(got) != string(jpegBytes) {
		t.Errorf("Generate = %x, want %x", got, jpegBytes)
	}

	if got := api.lastAuth; got != "Bearer sk-mock" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer sk-mock")
	}
	if api.downloadAuth != "" {
		t.Errorf("download must be unauthenticated, got Authorization %q", api.downloadAuth)
	}

	body := api.lastBody
	if body["prompt"] != model.HeroPrompt {
		t.Errorf("prompt = %v, want hero prompt", body["prompt"])
	}
	if body["n"] != float64(1) {
		t.Errorf("n = %v, want 1", body["n"])
	}
	if body["size"] != "1024x1024" {
		t.Errorf("size = %v, want 1024x1024", body["size"])
	}
	if body["response_format"] != "url" {
		t.Errorf("response_format = %v, want url", body["response_format"])
	}
	if _, ok := body["model"]; ok {
		t.Errorf("model should be omitted when not configured, got %v", body["model"])
	}
}

func TestGenerate_SendsModel(t *testing.T) {
	api := newImageAPI(t)

	if _, err := api.client(WithImageModel("dall-e-3")).Generate(context.Background(), model.DefaultRequest()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if api.lastBody["model"] != "dall-e-3" {
		t.Errorf("model = %v, want dall-e-3", api.lastBody["model"])
	}
}

func TestGenerate_ServerErrorNoRetry(t *testing.T) {
	api := newImageAPI(t)
	api.generateStatus = http.StatusInternalServerError

	_, err := api.client().Generate(context.Background(), model.DefaultRequest())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !errors.Is(err, model.ErrRemoteGenerationFailed) {
		t.Errorf("error %v should match ErrRemoteGenerationFailed", err)
	}
	if n := api.generateCalls.Load(); n != 1 {
		t.Errorf("generate attempts = %d, want 1 (no retries)", n)
	}
	if n := api.downloadCalls.Load(); n != 0 {
		t.Errorf("download attempts = %d, want 0", n)
	}
}

func TestGenerate_Unauthorized(t *testing.T) {
	api := newImageAPI(t)
	api.generateStatus = http.StatusUnauthorized

	_, err := api.client().Generate(context.Background(), model.DefaultRequest())
	var rge *model.RemoteGenerationError
	if !errors.As(err, &rge) {
		t.Fatalf("error = %v, want *model.RemoteGenerationError", err)
	}
	if rge.Stage != StageGenerate {
		t.Errorf("Stage = %q, want %q", rge.Stage, StageGenerate)
	}
}

func TestGenerate_MalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"data": [`},
		{"empty data", `{"created": 1, "data": []}`},
		{"missing url", `{"created": 1, "data": [{"b64_json": "AAAA"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newImageAPI(t)
			api.generateBody = tt.body

			_, err := api.client().Generate(context.Background(), model.DefaultRequest())
			if !errors.Is(err, model.ErrRemoteGenerationFailed) {
				t.Fatalf("error = %v, want ErrRemoteGenerationFailed", err)
			}
			if n := api.downloadCalls.Load(); n != 0 {
				t.Errorf("download attempts = %d, want 0", n)
			}
		})
	}
}

func TestGenerate_DownloadFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		ctype  string
		body   []byte
	}{
		{"not found", http.StatusNotFound, "image/png", []byte("gone")},
		{"html page", http.StatusOK, "text/html; charset=utf-8", []byte("<html></html>")},
		{"empty body", http.StatusOK, "image/png", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newImageAPI(t)
			api.downloadStatus = tt.status
			api.downloadType = tt.ctype
			api.downloadBody = tt.body

			_, err := api.client().Generate(context.Background(), model.DefaultRequest())
			var rge *model.RemoteGenerationError
			if !errors.As(err, &rge) {
				t.Fatalf("error = %v, want *model.RemoteGenerationError", err)
			}
			if rge.Stage != StageDownload {
				t.Errorf("Stage = %q, want %q", rge.Stage, StageDownload)
			}
			if n := api.downloadCalls.Load(); n != 1 {
				t.Errorf("download attempts = %d, want 1", n)
			}
		})
	}
}

func TestGenerate_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewOpenAIImageClient("sk-test", WithBaseURL(url+"/v1"))
	_, err := c.Generate(context.Background(), model.DefaultRequest())
	if !errors.Is(err, model.ErrRemoteGenerationFailed) {
		t.Fatalf("error = %v, want ErrRemoteGenerationFailed", err)
	}
}

func TestDownloader_OctetStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(jpegBytes)
	}))
	defer srv.Close()

	got, err := NewDownloader(nil).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != len(jpegBytes) {
		t.Errorf("len = %d, want %d", len(got), len(jpegBytes))
	}
}

func TestIsImageContentType(t *testing.T) {
	tests := map[string]bool{
		"":                         true,
		"image/png":                true,
		"image/jpeg; charset=x":    true,
		"application/octet-stream": true,
		"binary/octet-stream":      true,
		"text/html":                false,
		"application/json":         false,
		";;;":                      false,
	}
	for ct, want := range tests {
		if got := isImageContentType(ct); got != want {
			t.Errorf("isImageContentType(%q) = %v, want %v", ct, got, want)
		}
	}
}

// loadTestEnvFile is a test helper that loads KEY=VALUE pairs from a file
// into env vars (only if not already set). Returns true if the file was found.
func loadTestEnvFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		v = strings.Trim(v, `"'`)
		if os.Getenv(k) == "" {
			os.Setenv(k, v)
		}
	}
	return true
}

// TestIntegration_OpenAIImages makes a real generation call using .env.local config.
// Run explicitly:  go test ./internal/engine/ -run TestIntegration -v
func TestIntegration_OpenAIImages(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	if !loadTestEnvFile("../../.env.local") {
		t.Skip("skipping: ../../.env.local not found")
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("skipping: OPENAI_API_KEY not set")
	}
	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	c := NewOpenAIImageClient(apiKey, WithBaseURL(baseURL), WithImageModel(os.Getenv("OPENAI_IMAGE_MODEL")))
	got, err := c.Generate(context.Background(), model.DefaultRequest())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	t.Logf("downloaded %d bytes (%s)", len(got), http.DetectContentType(got))

	if len(got) == 0 {
		t.Error("expected non-empty image")
	}
}
