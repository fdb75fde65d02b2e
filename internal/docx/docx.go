// Package docx decodes the paragraphs of an Office Open XML (.docx) document
// into parser input, keeping the direct run formatting the parser uses as
// answer cues.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/stemsi/quizdeck/internal/parser"
)

// ErrNotDocx is returned for input that is not a readable .docx container.
var ErrNotDocx = errors.New("not a docx document")

const (
	documentPart = "word/document.xml"
	stylesPart   = "word/styles.xml"

	// maxPartSize caps how much of a single XML part is inflated.
	maxPartSize = 64 << 20
)

// Decode reads every paragraph of the document body in order, including
// paragraphs inside table cells.
func Decode(r io.ReaderAt, size int64) ([]parser.Paragraph, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDocx, err)
	}

	var doc, styles *zip.File
	for _, f := range zr.File {
		switch f.Name {
		case documentPart:
			doc = f
		case stylesPart:
			styles = f
		}
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: missing %s", ErrNotDocx, documentPart)
	}

	names := map[string]string{}
	if styles != nil {
		if err := readPart(styles, func(r io.Reader) error {
			names, err = decodeStyles(r)
			return err
		}); err != nil {
			return nil, err
		}
	}

	var paragraphs []parser.Paragraph
	err = readPart(doc, func(r io.Reader) error {
		paragraphs, err = decodeDocument(r, names)
		return err
	})
	return paragraphs, err
}

// DecodeBytes decodes an in-memory document.
func DecodeBytes(data []byte) ([]parser.Paragraph, error) {
	return Decode(bytes.NewReader(data), int64(len(data)))
}

// DecodeFile decodes the document at path.
func DecodeFile(path string) ([]parser.Paragraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat document: %w", err)
	}
	return Decode(f, info.Size())
}

func readPart(f *zip.File, fn func(io.Reader) error) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrNotDocx, f.Name, err)
	}
	defer rc.Close()
	if err := fn(io.LimitReader(rc, maxPartSize)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotDocx, f.Name, err)
	}
	return nil
}

// decodeStyles maps style IDs to their display names.
func decodeStyles(r io.Reader) (map[string]string, error) {
	names := map[string]string{}
	dec := xml.NewDecoder(r)
	var current string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return names, nil
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "style":
				current = attr(t, "styleId")
			case "name":
				if current != "" {
					names[current] = attr(t, "val")
				}
			}
		case xml.EndElement:
			if t.Name.Local == "style" {
				current = ""
			}
		}
	}
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// toggle reads an on/off property such as <w:b/> or <w:b w:val="0"/>.
func toggle(el xml.StartElement) bool {
	switch strings.ToLower(attr(el, "val")) {
	case "0", "false", "off":
		return false
	default:
		return true
	}
}
