package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/yangwenmai/herogen/internal/model"
)

// Stages of the remote exchange, reported in RemoteGenerationError.
const (
	StageGenerate = "generate"
	StageDownload = "download"
)

var (
	errNoImages   = errors.New("no images in response")
	errMissingURL = errors.New("image result has no url")
)

// OpenAIImageClient implements ImageGenerator with the OpenAI Images API:
// one generation request, then one download of the returned URL.
// It works with any OpenAI-compatible service by setting a custom base URL.
type OpenAIImageClient struct {
	apiKey     string
	baseURL    string
	model      string
	timeout    time.Duration
	httpClient *http.Client
	fetcher    ImageFetcher
	client     openai.Client
}

// OpenAIOption configures the OpenAI client.
type OpenAIOption func(*OpenAIImageClient)

// WithImageModel sets the image model. Empty leaves the choice to the service.
func WithImageModel(model string) OpenAIOption {
	return func(c *OpenAIImageClient) { c.model = model }
}

// WithBaseURL overrides the API endpoint (default: https://api.openai.com/v1).
func WithBaseURL(url string) OpenAIOption {
	return func(c *OpenAIImageClient) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithTimeout bounds each request. Zero keeps the platform default.
func WithTimeout(d time.Duration) OpenAIOption {
	return func(c *OpenAIImageClient) { c.timeout = d }
}

// WithHTTPClient sets the client used for both the API call and the download.
func WithHTTPClient(hc *http.Client) OpenAIOption {
	return func(c *OpenAIImageClient) { c.httpClient = hc }
}

// WithFetcher replaces the image downloader.
func WithFetcher(f ImageFetcher) OpenAIOption {
	return func(c *OpenAIImageClient) { c.fetcher = f }
}

// NewOpenAIImageClient creates a new image client for the given key.
func NewOpenAIImageClient(apiKey string, opts ...OpenAIOption) *OpenAIImageClient {
	c := &OpenAIImageClient{
		apiKey:  apiKey,
		baseURL: "https://api.openai.com/v1",
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	if c.fetcher == nil {
		c.fetcher = NewDownloader(c.httpClient)
	}
	c.client = openai.NewClient(c.requestOptions()...)
	return c
}

// Generate requests one image and downloads it. It makes a single attempt at
// each step; any failure is returned as *model.RemoteGenerationError.
func (c *OpenAIImageClient) Generate(ctx context.Context, req model.GenerationRequest) ([]byte, error) {
	url, err := c.generateURL(ctx, req)
	if err != nil {
		return nil, &model.RemoteGenerationError{Stage: StageGenerate, Err: err}
	}

	data, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, &model.RemoteGenerationError{Stage: StageDownload, Err: err}
	}
	return data, nil
}

func (c *OpenAIImageClient) generateURL(ctx context.Context, req model.GenerationRequest) (string, error) {
	params := openai.ImageGenerateParams{
		Prompt:         req.Prompt,
		N:              openai.Int(int64(req.N)),
		Size:           openai.ImageGenerateParamsSize(req.Size),
		ResponseFormat: openai.ImageGenerateParamsResponseFormat(req.ResponseFormat),
	}
	if m := firstNonEmpty(req.Model, c.model); m != "" {
		params.Model = openai.ImageModel(m)
	}

	resp, err := c.client.Images.Generate(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Data) == 0 {
		return "", errNoImages
	}
	if resp.Data[0].URL == "" {
		return "", errMissingURL
	}
	return resp.Data[0].URL, nil
}

func (c *OpenAIImageClient) requestOptions() []option.RequestOption {
	opts := []option.RequestOption{
		option.WithAPIKey(c.apiKey),
		option.WithBaseURL(c.baseURL + "/"),
		option.WithHTTPClient(c.httpClient),
		option.WithMaxRetries(0),
	}
	if c.timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(c.timeout))
	}
	return opts
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
