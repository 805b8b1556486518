package speech

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hammamikhairi/clipspeak/internal/domain"
	"github.com/hammamikhairi/clipspeak/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.TokenIssuer = (*AzureClient)(nil)
	_ domain.Synthesizer = (*AzureClient)(nil)
)

// AzureOption configures the Azure TTS client.
type AzureOption func(*AzureClient)

// WithAudioFormat sets the audio output format.
func WithAudioFormat(format string) AzureOption {
	return func(c *AzureClient) {
		c.format = format
	}
}

// WithHTTPTimeout sets the HTTP client timeout for token and TTS requests.
func WithHTTPTimeout(d time.Duration) AzureOption {
	return func(c *AzureClient) {
		c.httpClient.Timeout = d
	}
}

// WithEndpoints overrides the token and synthesis URLs derived from the region.
func WithEndpoints(tokenURL, synthesisURL string) AzureOption {
	return func(c *AzureClient) {
		c.tokenURL = tokenURL
		c.synthesisURL = synthesisURL
	}
}

// WithRequestsPerMinute throttles synthesis requests. Zero means unlimited.
func WithRequestsPerMinute(n int) AzureOption {
	return func(c *AzureClient) {
		if n <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
	}
}

// AzureClient handles token issuance and text-to-speech synthesis via
// Azure Cognitive Services.
type AzureClient struct {
	subscriptionKey string
	tokenURL        string
	synthesisURL    string
	format          string
	httpClient      *http.Client
	limiter         *rate.Limiter
	log             *logger.Logger
}

// NewAzureClient creates an Azure TTS client with the given credentials.
func NewAzureClient(key, region string, log *logger.Logger, opts ...AzureOption) *AzureClient {
	if region == "" {
		region = DefaultRegion
	}
	c := &AzureClient{
		subscriptionKey: key,
		tokenURL:        TokenURL(region),
		synthesisURL:    SynthesisURL(region),
		format:          DefaultAudioFormat,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Inf, 0),
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Format returns the configured output format.
func (c *AzureClient) Format() string { return c.format }

// IssueToken exchanges the subscription key for a bearer token. A new token
// is requested on every call.
func (c *AzureClient) IssueToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.subscriptionKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTokenRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", domain.ErrTokenRequest, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrTokenRequest, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	token := strings.TrimSpace(string(body))
	c.log.Debug("azure tts: issued token (%d chars)", len(token))
	return token, nil
}

// Synthesize converts text to speech audio data encoded in the configured
// output format.
func (c *AzureClient) Synthesize(ctx context.Context, token, text, voice string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %v", domain.ErrSynthesis, err)
	}

	ssml := BuildSSML(voice, text)
	c.log.Debug("azure tts: synthesizing %d chars with voice %s", len(text), voice)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.synthesisURL, strings.NewReader(ssml))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("X-Microsoft-OutputFormat", c.format)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", "clipspeak")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSynthesis, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: azure tts error %d: %s", domain.ErrSynthesis, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading audio data: %v", domain.ErrSynthesis, err)
	}

	c.log.Debug("azure tts: got %d bytes of audio", len(audioData))
	return audioData, nil
}

// BuildSSML creates SSML markup for the synthesis request. The text is
// XML-escaped so clipboard content cannot break the document.
func BuildSSML(voice, text string) string {
	var b strings.Builder
	b.WriteString(`<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' xml:lang='en-US'><voice name='`)
	_ = xml.EscapeText(&b, []byte(voice))
	b.WriteString(`'>`)
	_ = xml.EscapeText(&b, []byte(text))
	b.WriteString(`</voice></speak>`)
	return b.String()
}
