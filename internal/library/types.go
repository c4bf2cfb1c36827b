package library

// SourceConfig describes one watched directory.
type SourceConfig struct {
	ID   string
	Name string
	Path string
}

type Source struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	ClipCount int    `json:"clipCount"`
}

// Clip is a local video file found under a watched directory.
type Clip struct {
	ID            string   `json:"id"`
	SourceID      string   `json:"sourceId"`
	Name          string   `json:"name"`
	MediaPath     string   `json:"mediaPath"`
	SizeBytes     int64    `json:"sizeBytes"`
	SubtitleFiles []string `json:"subtitleFiles"`
	HasSubtitles  bool     `json:"hasSubtitles"`
	// Uploadable marks clips that still lack a subtitle sidecar and are
	// candidates for automatic upload.
	Uploadable bool `json:"uploadable"`
}

type Library struct {
	Sources []Source `json:"sources"`
	Clips   []Clip   `json:"clips"`
}
