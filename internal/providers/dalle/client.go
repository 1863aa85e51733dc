package dalle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"mandala/internal/domain"
	"mandala/internal/infra"
)

// Options configures the OpenAI image generation client. The API key is not
// part of the options: the credential is supplied per call and never retained.
type Options struct {
	BaseURL        string
	Model          string
	Size           string
	Quality        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the OpenAI images API and fetches the
// generated asset. One generation call and one asset fetch per Generate.
type Client struct {
	baseURL    string
	model      string
	size       string
	quality    string
	httpClient *http.Client
	logger     *infra.Logger
}

// Image is the decoded result of one generation.
type Image struct {
	Bitmap        image.Image
	Format        string
	Width         int
	Height        int
	SourceURL     string
	RevisedPrompt string
}

type generationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	ResponseFormat string `json:"response_format"`
}

type generationResponse struct {
	Created int64 `json:"created"`
	Data    []struct {
		URL           string `json:"url"`
		RevisedPrompt string `json:"revised_prompt"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 45 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "dall-e-3"
	}
	size := strings.TrimSpace(opts.Size)
	if size == "" {
		size = "1024x1024"
	}
	quality := strings.TrimSpace(opts.Quality)
	if quality == "" {
		quality = "standard"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		baseURL:    baseURL,
		model:      model,
		size:       size,
		quality:    quality,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Generate issues exactly one image generation call authorized with the given
// credential, fetches the returned asset locator once, and decodes the bytes.
// The credential lives only for the duration of this call and is never logged.
func (c *Client) Generate(ctx context.Context, credential, prompt string) (*Image, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, fmt.Errorf("%w: api key is required", domain.ErrAuth)
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", domain.ErrGeneration)
	}

	payload := generationRequest{
		Model:          c.model,
		Prompt:         prompt,
		N:              1,
		Size:           c.size,
		Quality:        c.quality,
		ResponseFormat: "url",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", domain.ErrGeneration, err)
	}
	endpoint := c.baseURL + "/images/generations"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrGeneration, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+credential)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrGeneration, err)
	}

	if resp.StatusCode >= 300 {
		msg := upstreamMessage(raw, resp.StatusCode)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, fmt.Errorf("%w: %s", domain.ErrAuth, msg)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrGeneration, msg)
	}

	var decoded generationResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrGeneration, err)
	}
	locator := firstAssetURL(decoded)
	if locator == "" {
		return nil, fmt.Errorf("%w: response contains no asset url", domain.ErrGeneration)
	}

	data, err := c.fetch(ctx, locator)
	if err != nil {
		return nil, err
	}

	bitmap, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	bounds := bitmap.Bounds()

	c.logger.Debug().
		Str("model", c.model).
		Str("format", format).
		Int("width", bounds.Dx()).
		Int("height", bounds.Dy()).
		Msg("dalle: generated image asset")

	return &Image{
		Bitmap:        bitmap,
		Format:        format,
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		SourceURL:     locator,
		RevisedPrompt: firstRevisedPrompt(decoded),
	}, nil
}

// fetch retrieves the raw asset bytes from the transient locator returned by
// the generation call.
func (c *Client) fetch(ctx context.Context, locator string) ([]byte, error) {
	parsed, err := url.Parse(strings.TrimSpace(locator))
	if err != nil || parsed.Scheme == "" {
		return nil, fmt.Errorf("%w: invalid asset url %q", domain.ErrFetch, locator)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build fetch request: %v", domain.ErrFetch, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrFetch, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read asset: %v", domain.ErrFetch, err)
	}
	return data, nil
}

// upstreamMessage surfaces the provider error text verbatim where available.
func upstreamMessage(raw []byte, status int) string {
	var detail errorResponse
	if err := json.Unmarshal(raw, &detail); err == nil && detail.Error.Message != "" {
		return detail.Error.Message
	}
	text := strings.TrimSpace(string(raw))
	if text != "" {
		return fmt.Sprintf("status %d: %s", status, text)
	}
	return fmt.Sprintf("status %d", status)
}

func firstAssetURL(resp generationResponse) string {
	for _, entry := range resp.Data {
		if u := strings.TrimSpace(entry.URL); u != "" {
			return u
		}
	}
	return ""
}

func firstRevisedPrompt(resp generationResponse) string {
	for _, entry := range resp.Data {
		if p := strings.TrimSpace(entry.RevisedPrompt); p != "" {
			return p
		}
	}
	return ""
}
