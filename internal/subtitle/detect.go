package subtitle

import (
	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
)

// supportedTags mirrors the Languages map for matching detected codes
// against the backend's supported set. "ru-ur" (Roman Urdu) has no ISO
// tag and is resolved through "ur".
var supportedTags []language.Tag

var supportedCodes []string

func init() {
	for code := range Languages {
		if code == "ru-ur" {
			continue
		}
		supportedTags = append(supportedTags, language.Make(code))
		supportedCodes = append(supportedCodes, code)
	}
}

// DetectLanguage guesses the dominant language of a segment collection by
// majority vote over per-line detection. Returns the matching supported
// code, or "" when nothing usable was detected.
func DetectLanguage(segments []Segment) string {
	if len(segments) == 0 {
		return ""
	}

	counts := make(map[string]int)
	for _, seg := range segments {
		if seg.Text == "" {
			continue
		}
		code := whatlanggo.DetectLang(seg.Text).Iso6391()
		if code == "" {
			continue
		}
		counts[code]++
	}

	var topCode string
	var topCount int
	for code, count := range counts {
		if count > topCount {
			topCode = code
			topCount = count
		}
	}
	if topCode == "" {
		return ""
	}

	matcher := language.NewMatcher(supportedTags)
	_, index, conf := matcher.Match(language.Make(topCode))
	if conf == language.No {
		return ""
	}
	return supportedCodes[index]
}
