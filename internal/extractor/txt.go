package extractor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ExtractTXT decodes plain text, honouring UTF-8 and UTF-16 byte order marks
// and falling back to Windows-1252 for non-UTF-8 input.
func ExtractTXT(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyContent
	}

	text, err := decodeText(data)
	if err != nil {
		return "", fmt.Errorf("%w: failed to decode text file: %v", ErrUnreadable, err)
	}

	text = cleanText(text)
	if text == "" {
		return "", ErrEmptyContent
	}

	return text, nil
}

func decodeText(data []byte) (string, error) {
	switch {
	case len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF:
		return string(data[3:]), nil
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE:
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder(), data)
	case len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF:
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder(), data)
	case utf8.Valid(data):
		return string(data), nil
	}

	if decoded, err := decodeWith(charmap.Windows1252.NewDecoder(), data); err == nil {
		return decoded, nil
	}
	return decodeWith(charmap.ISO8859_1.NewDecoder(), data)
}

func decodeWith(t transform.Transformer, data []byte) (string, error) {
	decoded, _, err := transform.Bytes(t, data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// cleanText normalizes line endings, drops NULs and blank lines.
func cleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\x00", "")

	lines := strings.Split(text, "\n")

	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.TrimSpace(strings.Join(cleanedLines, "\n"))
}
