package subtitle

// Segment is a single timestamped subtitle line. Start and End are
// floating-point seconds from the beginning of the video.
type Segment struct {
	ID       int     `json:"id"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Style    string  `json:"style"`
}

// DefaultText is the placeholder text of a freshly added segment.
const DefaultText = "New subtitle text"

// Languages supported by the backend, keyed by code.
var Languages = map[string]string{
	"en":    "English",
	"ur":    "Urdu",
	"ru-ur": "Roman Urdu",
	"ar":    "Arabic",
	"hi":    "Hindi",
	"es":    "Spanish",
	"fr":    "French",
	"de":    "German",
	"zh":    "Chinese",
	"ja":    "Japanese",
	"ko":    "Korean",
	"pt":    "Portuguese",
	"ru":    "Russian",
	"it":    "Italian",
	"tr":    "Turkish",
	"nl":    "Dutch",
}

// Styles supported by the backend, keyed by value.
var Styles = map[string]string{
	"clean":    "Simple, readable text",
	"casual":   "Conversational tone",
	"formal":   "Professional language",
	"creative": "Expressive and engaging",
}

func IsSupportedLanguage(code string) bool {
	_, ok := Languages[code]
	return ok
}

func IsSupportedStyle(style string) bool {
	_, ok := Styles[style]
	return ok
}

// LanguageName returns the human-readable name for a language code,
// falling back to the code itself for unknown values.
func LanguageName(code string) string {
	if name, ok := Languages[code]; ok {
		return name
	}
	return code
}
