// Package library scans watched directories for local video clips and
// tracks which ones already carry exported subtitle sidecars.
package library

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cliplab/clipstudio/pkg/file"
)

type scannerOptions struct {
	cacheTTL time.Duration
}

type Option func(*scannerOptions)

func WithCacheTTL(ttl time.Duration) Option {
	return func(o *scannerOptions) {
		o.cacheTTL = ttl
	}
}

type scanCache struct {
	version uint64
	scanned time.Time
	library *Library
}

type Scanner struct {
	sources []SourceConfig

	mu            sync.RWMutex
	cacheTTL      time.Duration
	cache         *scanCache
	configVersion uint64
}

func NewScanner(sources []SourceConfig, opts ...Option) *Scanner {
	options := scannerOptions{
		cacheTTL: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Scanner{
		sources:  sources,
		cacheTTL: options.cacheTTL,
	}
}

// Invalidate drops the cached scan so the next Scan rereads the disk.
func (s *Scanner) Invalidate() {
	s.mu.Lock()
	s.cache = nil
	s.configVersion++
	s.mu.Unlock()
}

var mediaExts = []string{
	".mp4", ".mov", ".m4v", ".mkv", ".webm", ".avi", ".wmv", ".flv",
	".mpg", ".mpeg", ".ts", ".m2ts",
}

var subtitleExts = []string{
	".srt", ".vtt", ".ass", ".ssa",
}

var qualitySuffixPattern = regexp.MustCompile(`(?i)\s*[-. ](WEBRip|WEB-DL|BluRay|HDTV|x264|x265|HEVC|H\.?264|H\.?265|10bit|\d{3,4}p).*$`)

// cleanClipName turns a filename into a display name: extension gone,
// separators spaced out, encoder/quality suffixes stripped.
func cleanClipName(basename string) string {
	name := strings.NewReplacer(".", " ", "_", " ").Replace(basename)
	name = qualitySuffixPattern.ReplaceAllString(name, "")
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return basename
	}
	return name
}

func (s *Scanner) Scan(ctx context.Context) (*Library, error) {
	s.mu.RLock()
	version := s.configVersion
	cacheTTL := s.cacheTTL
	if s.cache != nil && s.cache.version == version && (cacheTTL <= 0 || time.Since(s.cache.scanned) < cacheTTL) {
		cached := cloneLibrary(s.cache.library)
		s.mu.RUnlock()
		return cached, nil
	}
	sources := append([]SourceConfig(nil), s.sources...)
	s.mu.RUnlock()

	ret := &Library{
		Sources: make([]Source, 0, len(sources)),
		Clips:   make([]Clip, 0),
	}

	for _, sourceCfg := range sources {
		if sourceCfg.Path == "" {
			continue
		}
		if _, err := os.Stat(sourceCfg.Path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}

		source := Source{
			ID:   sourceCfg.ID,
			Name: sourceCfg.Name,
			Path: sourceCfg.Path,
		}

		mediaFiles, err := file.FindWithExt(sourceCfg.Path, mediaExts...)
		if err != nil {
			return nil, err
		}
		for _, mediaPath := range mediaFiles {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}

			info, err := os.Stat(mediaPath)
			if err != nil {
				return nil, err
			}

			baseName := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
			sidecars, err := findSubtitleSidecars(filepath.Dir(mediaPath), baseName)
			if err != nil {
				return nil, err
			}

			clip := Clip{
				ID:            sourceCfg.ID + "|" + mediaPath,
				SourceID:      sourceCfg.ID,
				Name:          cleanClipName(baseName),
				MediaPath:     mediaPath,
				SizeBytes:     info.Size(),
				SubtitleFiles: sidecars,
				HasSubtitles:  len(sidecars) > 0,
				Uploadable:    len(sidecars) == 0,
			}
			ret.Clips = append(ret.Clips, clip)
			source.ClipCount++
		}

		ret.Sources = append(ret.Sources, source)
	}

	s.mu.Lock()
	if s.configVersion == version {
		s.cache = &scanCache{
			version: version,
			scanned: time.Now(),
			library: cloneLibrary(ret),
		}
	}
	s.mu.Unlock()

	return ret, nil
}

// findSubtitleSidecars lists subtitle files next to the clip whose stem
// matches the clip's basename, with an optional language token suffix
// ("clip.srt", "clip.en.srt").
func findSubtitleSidecars(dir, mediaBase string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	sidecars := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !slices.Contains(subtitleExts, ext) {
			continue
		}
		stem := strings.TrimSuffix(name, ext)
		if !sidecarMatchesMediaBase(stem, mediaBase) {
			continue
		}
		sidecars = append(sidecars, filepath.Join(dir, name))
	}
	return sidecars, nil
}

func sidecarMatchesMediaBase(stem, mediaBase string) bool {
	if stem == mediaBase {
		return true
	}
	if !strings.HasPrefix(stem, mediaBase) || len(stem) <= len(mediaBase) {
		return false
	}
	switch stem[len(mediaBase)] {
	case '.', '_', '-', ' ':
		return true
	default:
		return false
	}
}

func cloneLibrary(src *Library) *Library {
	if src == nil {
		return nil
	}

	dst := &Library{
		Sources: make([]Source, len(src.Sources)),
		Clips:   make([]Clip, len(src.Clips)),
	}
	copy(dst.Sources, src.Sources)
	copy(dst.Clips, src.Clips)

	for i := range dst.Clips {
		dst.Clips[i].SubtitleFiles = append([]string(nil), src.Clips[i].SubtitleFiles...)
	}
	return dst
}
