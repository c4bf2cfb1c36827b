package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/cliplab/clipstudio/internal/subtitle"
)

// Client talks to the video-processing backend. All substantive work
// (silence cutting, transcription, thumbnail scoring, summarization)
// happens on the other side of this client; it only moves bytes and JSON.
// Thread-safe for concurrent use.
type Client struct {
	config     *Config
	session    *Session
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new backend client with the given configuration.
// The session supplies the bearer token attached to authenticated requests.
func NewClient(config *Config, session *Session) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if session == nil {
		session = NewSession("")
	}

	return &Client{
		config:  config,
		session: session,
		baseURL: config.BaseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
	}, nil
}

// Session returns the auth session the client was built with.
func (c *Client) Session() *Session {
	return c.session
}

// Login authenticates with the backend and initializes the session with
// the returned token. Credentials are validated before dispatch.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	if err := ValidateCredentials(email, password); err != nil {
		return nil, err
	}

	var resp LoginResponse
	payload := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", payload, &resp); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if err := c.session.Init(resp.Token); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new account. The request is validated before dispatch.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	if err := ValidateRegistration(req); err != nil {
		return err
	}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", req, nil); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	return nil
}

// Logout clears the session token.
func (c *Client) Logout() error {
	return c.session.Clear()
}

// UploadVideo streams the file to the backend as the multipart field
// "video" and returns the backend-assigned video ID. Progress percentages
// are reported through fn while the body is consumed.
func (c *Client) UploadVideo(ctx context.Context, path string, fn ProgressFunc) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open video file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("video", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("failed to read video file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload form: %w", err)
	}

	total := int64(body.Len())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload",
		newProgressReader(&body, total, fn))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", decodeAPIError(resp.StatusCode, respBody)
	}

	var uploaded UploadResponse
	if err := json.Unmarshal(respBody, &uploaded); err != nil {
		return "", fmt.Errorf("failed to parse upload response: %w", err)
	}
	if uploaded.VideoID == "" {
		return "", fmt.Errorf("upload response carries no video_id")
	}
	return uploaded.VideoID, nil
}

// Process asks the backend to run the configured processing stages on a
// previously uploaded video. Resolution means the backend accepted and
// completed the run; results are fetched separately via GetVideo.
func (c *Client) Process(ctx context.Context, videoID string, options ProcessingOptions) error {
	payload := map[string]ProcessingOptions{"options": options}
	path := fmt.Sprintf("/videos/%s/process", url.PathEscape(videoID))
	if err := c.doJSON(ctx, http.MethodPost, path, payload, nil); err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}
	return nil
}

// GetVideo fetches the video record including any processed artifacts.
func (c *Client) GetVideo(ctx context.Context, videoID string) (*Video, error) {
	var video Video
	path := fmt.Sprintf("/videos/%s", url.PathEscape(videoID))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &video); err != nil {
		return nil, fmt.Errorf("failed to fetch video: %w", err)
	}
	return &video, nil
}

// GetUserVideos lists the authenticated user's videos.
func (c *Client) GetUserVideos(ctx context.Context) ([]Video, error) {
	var videos []Video
	if err := c.doJSON(ctx, http.MethodGet, "/videos", nil, &videos); err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, nil
}

// DeleteVideo removes a video and its artifacts on the backend.
func (c *Client) DeleteVideo(ctx context.Context, videoID string) error {
	path := fmt.Sprintf("/videos/%s", url.PathEscape(videoID))
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	return nil
}

// GetProcessingStatus returns the live status of a processing run.
func (c *Client) GetProcessingStatus(ctx context.Context, videoID string) (*ProcessingStatus, error) {
	var status ProcessingStatus
	path := fmt.Sprintf("/videos/%s/status", url.PathEscape(videoID))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &status); err != nil {
		return nil, fmt.Errorf("failed to fetch processing status: %w", err)
	}
	return &status, nil
}

// GetSubtitles fetches the segment collection for a video, optionally for
// one language. The backend has shipped several envelope shapes over time
// (bare array, {segments}, {subtitles:{segments}}), all are accepted.
func (c *Client) GetSubtitles(ctx context.Context, videoID, language string) ([]subtitle.Segment, error) {
	path := fmt.Sprintf("/videos/%s/subtitles", url.PathEscape(videoID))
	if language != "" {
		path += "/" + url.PathEscape(language)
	}

	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch subtitles: %w", err)
	}
	return decodeSegmentEnvelope(raw)
}

// GenerateSubtitles asks the backend to generate subtitles for a video in
// the given language and style.
func (c *Client) GenerateSubtitles(ctx context.Context, videoID, language, style string) error {
	if !subtitle.IsSupportedLanguage(language) {
		return fmt.Errorf("unsupported subtitle language: %s", language)
	}
	if !subtitle.IsSupportedStyle(style) {
		return fmt.Errorf("unsupported subtitle style: %s", style)
	}

	path := fmt.Sprintf("/videos/%s/subtitles/generate", url.PathEscape(videoID))
	req := GenerateSubtitlesRequest{Language: language, Style: style}
	if err := c.doJSON(ctx, http.MethodPost, path, req, nil); err != nil {
		return fmt.Errorf("subtitle generation failed: %w", err)
	}
	return nil
}

// GenerateThumbnails asks the backend for on-demand thumbnails.
func (c *Client) GenerateThumbnails(ctx context.Context, videoID string, options ThumbnailOptions) error {
	path := fmt.Sprintf("/videos/%s/thumbnails/generate", url.PathEscape(videoID))
	if err := c.doJSON(ctx, http.MethodPost, path, options, nil); err != nil {
		return fmt.Errorf("thumbnail generation failed: %w", err)
	}
	return nil
}

// EnhanceAudio asks the backend for on-demand audio enhancement.
func (c *Client) EnhanceAudio(ctx context.Context, videoID string, options AudioEnhanceOptions) error {
	path := fmt.Sprintf("/videos/%s/audio/enhance", url.PathEscape(videoID))
	if err := c.doJSON(ctx, http.MethodPost, path, options, nil); err != nil {
		return fmt.Errorf("audio enhancement failed: %w", err)
	}
	return nil
}

// DownloadSubtitles fetches the rendered subtitle file, format srt or json.
func (c *Client) DownloadSubtitles(ctx context.Context, videoID, language, format string) ([]byte, error) {
	if format != "srt" && format != "json" {
		return nil, fmt.Errorf("unsupported subtitle format: %s", format)
	}
	path := fmt.Sprintf("/videos/%s/subtitles/%s/download?format=%s",
		url.PathEscape(videoID), url.PathEscape(language), format)
	return c.download(ctx, path)
}

// DownloadVideo fetches the processed video bytes.
func (c *Client) DownloadVideo(ctx context.Context, videoID string) ([]byte, error) {
	path := fmt.Sprintf("/videos/%s/download", url.PathEscape(videoID))
	return c.download(ctx, path)
}

// SubmitSupportTicket files a help-desk ticket.
func (c *Client) SubmitSupportTicket(ctx context.Context, ticket SupportTicket) error {
	if err := c.doJSON(ctx, http.MethodPost, "/support/tickets", ticket, nil); err != nil {
		return fmt.Errorf("failed to submit support ticket: %w", err)
	}
	return nil
}

// doJSON makes a JSON request against the backend and decodes the response
// into out when non-nil. Backend error payloads are surfaced as *APIError.
func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if os.IsTimeout(err) {
			return fmt.Errorf("request timed out: %w", err)
		}
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, respBody)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// download makes an authenticated GET returning the raw body.
func (c *Client) download(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read download body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp.StatusCode, body)
	}
	return body, nil
}

func (c *Client) authorize(req *http.Request) {
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// decodeAPIError extracts {message} or {error} from a failure payload,
// falling back to the raw body.
func decodeAPIError(status int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			msg = payload.Message
		} else if payload.Error != "" {
			msg = payload.Error
		}
	}
	if msg == "" {
		msg = string(body)
	}
	return &APIError{Status: status, Message: msg}
}

// decodeSegmentEnvelope accepts the subtitle endpoint's response shapes:
// a bare segment array, {"segments": [...]}, or {"subtitles": {"segments": [...]}}.
func decodeSegmentEnvelope(raw json.RawMessage) ([]subtitle.Segment, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var direct []subtitle.Segment
	if err := json.Unmarshal(raw, &direct); err == nil {
		return direct, nil
	}

	var wrapped struct {
		Segments  []subtitle.Segment `json:"segments"`
		Subtitles struct {
			Segments []subtitle.Segment `json:"segments"`
		} `json:"subtitles"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("unrecognized subtitle response shape: %w", err)
	}
	if wrapped.Segments != nil {
		return wrapped.Segments, nil
	}
	return wrapped.Subtitles.Segments, nil
}
