package api

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// Config holds the configuration for the backend API client.
type Config struct {
	BaseURL string `json:"base_url"`
	Timeout int    `json:"timeout"` // seconds
}

func (c *Config) Validate() error {
	if c == nil || c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

// APIError carries the backend's error payload for a failed request.
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.Status, e.Message)
}

// User is the account record returned by the auth endpoints.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role,omitempty"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ProcessingOptions is the configuration record sent with a process
// request. Unset fields are omitted on the wire; the backend owns all
// defaults.
type ProcessingOptions struct {
	GenerateSubtitles    *bool    `json:"generate_subtitles,omitempty"`
	SubtitleLanguage     *string  `json:"subtitle_language,omitempty"`
	SubtitleStyle        *string  `json:"subtitle_style,omitempty"`
	CutSilence           *bool    `json:"cut_silence,omitempty"`
	EnhanceAudio         *bool    `json:"enhance_audio,omitempty"`
	GenerateThumbnail    *bool    `json:"generate_thumbnail,omitempty"`
	Summarize            *bool    `json:"summarize,omitempty"`
	Stabilization        *string  `json:"stabilization,omitempty"`
	AudioEnhancementType *string  `json:"audio_enhancement_type,omitempty"`
	Brightness           *float64 `json:"brightness,omitempty"`
	Contrast             *float64 `json:"contrast,omitempty"`
}

// Video is the backend's video record. Outputs is kept opaque: the set of
// processed artifacts (subtitle paths, thumbnail URLs, summaries) is owned
// by the backend and only rendered, never interpreted, on this side.
type Video struct {
	ID         string          `json:"id"`
	Filename   string          `json:"filename,omitempty"`
	Status     string          `json:"status,omitempty"`
	UploadedAt time.Time       `json:"uploaded_at,omitempty"`
	Outputs    json.RawMessage `json:"outputs,omitempty"`
}

type UploadResponse struct {
	VideoID string `json:"video_id"`
}

// ProcessingStatus is the live status of a processing run.
type ProcessingStatus struct {
	Status   string  `json:"status"`
	Progress float64 `json:"progress,omitempty"`
	Error    string  `json:"error,omitempty"`
}

type GenerateSubtitlesRequest struct {
	Language string `json:"language"`
	Style    string `json:"style"`
}

// ThumbnailOptions configures on-demand thumbnail generation.
type ThumbnailOptions struct {
	Count      *int      `json:"count,omitempty"`
	Timestamps []float64 `json:"timestamps,omitempty"`
	Style      *string   `json:"style,omitempty"` // auto or manual
}

// AudioEnhanceOptions configures on-demand audio enhancement.
type AudioEnhanceOptions struct {
	Type           *string  `json:"type,omitempty"` // clear, music or full
	NoiseReduction *bool    `json:"noiseReduction,omitempty"`
	VolumeBoost    *float64 `json:"volumeBoost,omitempty"`
	Equalization   *bool    `json:"equalization,omitempty"`
}

// SupportTicket is a help-desk submission.
type SupportTicket struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Type        string `json:"type"`
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateCredentials checks a login form before dispatch.
func ValidateCredentials(email, password string) error {
	if !emailRe.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

// ValidateRegistration checks a signup form before dispatch.
func ValidateRegistration(req RegisterRequest) error {
	if err := ValidateCredentials(req.Email, req.Password); err != nil {
		return err
	}
	if len(req.FirstName) < 2 {
		return fmt.Errorf("first name must be at least 2 characters")
	}
	if len(req.LastName) < 2 {
		return fmt.Errorf("last name must be at least 2 characters")
	}
	return nil
}

// Pointer helpers for building ProcessingOptions literals.
func Bool(v bool) *bool { return &v }

func String(v string) *string { return &v }

func Float(v float64) *float64 { return &v }

func Int(v int) *int { return &v }
