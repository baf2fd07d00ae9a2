package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const documentPart = "word/document.xml"

// ExtractDOCX reads the main document part and emits one line per paragraph.
func ExtractDOCX(data []byte) (string, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read DOCX as ZIP: %v", ErrUnreadable, err)
	}

	var documentFile *zip.File
	for _, file := range zipReader.File {
		if file.Name == documentPart {
			documentFile = file
			break
		}
	}

	if documentFile == nil {
		return "", fmt.Errorf("%w: document.xml not found in DOCX", ErrUnreadable)
	}

	xmlFile, err := documentFile.Open()
	if err != nil {
		return "", fmt.Errorf("%w: failed to open document.xml: %v", ErrUnreadable, err)
	}
	defer xmlFile.Close()

	text, err := documentText(xmlFile)
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse document.xml: %v", ErrUnreadable, err)
	}

	extractedText := strings.TrimSpace(text)
	if extractedText == "" {
		return "", ErrEmptyContent
	}

	return extractedText, nil
}

// documentText walks WordprocessingML tokens. Text (w:t) is copied and each
// w:p ends a line. Inside a run (w:r), w:tab becomes a tab and w:br or w:cr a
// newline; tab stops declared in paragraph properties are ignored.
func documentText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var (
		textBuilder strings.Builder
		inText      bool
		runDepth    int
	)

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "r":
				runDepth++
			case "t":
				inText = true
			case "tab":
				if runDepth > 0 {
					textBuilder.WriteString("\t")
				}
			case "br", "cr":
				if runDepth > 0 {
					textBuilder.WriteString("\n")
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "r":
				if runDepth > 0 {
					runDepth--
				}
			case "t":
				inText = false
			case "p":
				textBuilder.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				textBuilder.Write(t)
			}
		}
	}

	return textBuilder.String(), nil
}
