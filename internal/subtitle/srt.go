package subtitle

import (
	"bufio"
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// EncodeSRT serializes the collection in SubRip format. Blocks are numbered
// 1..n sequentially regardless of the segments' stored IDs. An empty
// collection yields an empty (still valid) body.
func EncodeSRT(segments []Segment) []byte {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	for i, seg := range segments {
		fmt.Fprintf(w, "%d\n", i+1)
		fmt.Fprintf(w, "%s --> %s\n", FormatTimestamp(seg.Start), FormatTimestamp(seg.End))
		fmt.Fprintf(w, "%s\n\n", seg.Text)
	}

	w.Flush()
	return buf.Bytes()
}

var srtTimeRe = regexp.MustCompile(`(\d{2}):(\d{2}):(\d{2}),(\d{3}) --> (\d{2}):(\d{2}):(\d{2}),(\d{3})`)

// DecodeSRT parses a SubRip body into segments stamped with the given
// language and style. Segment IDs are reassigned sequentially from 1;
// the indices stored in the file are not trusted.
func DecodeSRT(data []byte, language, style string) ([]Segment, error) {
	var segments []Segment

	scanner := bufio.NewScanner(bytes.NewReader(data))
	current := Segment{}
	state := "index" // possible values: "index", "time", "text"
	var textLines []string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch state {
		case "index":
			if line == "" {
				continue
			}
			if _, err := strconv.Atoi(line); err != nil {
				continue // skip non-index lines
			}
			state = "time"

		case "time":
			if line == "" {
				continue
			}
			start, end, err := parseSRTTime(line)
			if err != nil {
				return nil, fmt.Errorf("failed to parse time: %w", err)
			}
			current.Start = start
			current.End = end
			state = "text"
			textLines = nil

		case "text":
			if line == "" {
				// subtitle text ends
				if len(textLines) > 0 {
					current.ID = len(segments) + 1
					current.Text = strings.Join(textLines, "\n")
					current.Language = language
					current.Style = style
					segments = append(segments, current)
					current = Segment{}
				}
				state = "index"
				textLines = nil
			} else {
				textLines = append(textLines, line)
			}
		}
	}

	// handle last subtitle block
	if state == "text" && len(textLines) > 0 {
		current.ID = len(segments) + 1
		current.Text = strings.Join(textLines, "\n")
		current.Language = language
		current.Style = style
		segments = append(segments, current)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read subtitle data: %w", err)
	}

	return segments, nil
}

// FormatTimestamp formats seconds as the SubRip HH:MM:SS,mmm timestamp.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(math.Round(seconds * 1000))

	hours := total / 3600000
	minutes := (total % 3600000) / 60000
	secs := (total % 60000) / 1000
	millis := total % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// parseSRTTime parses one "HH:MM:SS,mmm --> HH:MM:SS,mmm" line into
// start and end seconds.
func parseSRTTime(timeString string) (float64, float64, error) {
	matches := srtTimeRe.FindStringSubmatch(timeString)
	if len(matches) != 9 {
		return 0, 0, fmt.Errorf("invalid time format: %s", timeString)
	}

	parse := func(hours, minutes, seconds, millis string) float64 {
		h, _ := strconv.Atoi(hours)
		m, _ := strconv.Atoi(minutes)
		s, _ := strconv.Atoi(seconds)
		ms, _ := strconv.Atoi(millis)
		return float64(h)*3600 + float64(m)*60 + float64(s) + float64(ms)/1000
	}

	return parse(matches[1], matches[2], matches[3], matches[4]),
		parse(matches[5], matches[6], matches[7], matches[8]),
		nil
}
