package docx

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/stemsi/quizdeck/internal/parser"
)

type runBuilder struct {
	run  parser.Run
	text strings.Builder
}

// paraBuilder accumulates one <w:p>. Text boxes can nest paragraphs inside
// runs, so the decoder keeps a stack of these.
type paraBuilder struct {
	style  string
	runs   []parser.Run
	text   strings.Builder
	cur    *runBuilder
	inPPr  bool
	inRPr  bool
	inText bool
}

func (p *paraBuilder) endRun() {
	if p.cur == nil {
		return
	}
	p.cur.run.Text = p.cur.text.String()
	p.text.WriteString(p.cur.run.Text)
	p.runs = append(p.runs, p.cur.run)
	p.cur = nil
}

func (p *paraBuilder) paragraph() parser.Paragraph {
	return parser.Paragraph{Text: p.text.String(), Runs: p.runs, StyleName: p.style}
}

func decodeDocument(r io.Reader, styles map[string]string) ([]parser.Paragraph, error) {
	resolve := func(id string) string {
		if name, ok := styles[id]; ok && name != "" {
			return name
		}
		return id
	}

	dec := xml.NewDecoder(r)
	var (
		stack []*paraBuilder
		out   []parser.Paragraph
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}

		var top *paraBuilder
		if len(stack) > 0 {
			top = stack[len(stack)-1]
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "p" {
				stack = append(stack, &paraBuilder{})
				continue
			}
			if top == nil {
				continue
			}
			switch t.Name.Local {
			case "pPr":
				top.inPPr = true
			case "pStyle":
				if top.inPPr {
					top.style = resolve(attr(t, "val"))
				}
			case "r":
				if !top.inPPr {
					top.cur = &runBuilder{}
				}
			case "rPr":
				top.inRPr = true
			}
			run := top.cur
			if run == nil || top.inPPr {
				continue
			}
			switch t.Name.Local {
			case "b":
				if top.inRPr {
					run.run.Bold = toggle(t)
				}
			case "u":
				if top.inRPr {
					run.run.Underline = !strings.EqualFold(attr(t, "val"), "none")
				}
			case "color":
				if top.inRPr {
					if c, ok := parser.ParseRGB(attr(t, "val")); ok {
						run.run.Color = &c
					}
				}
			case "rStyle":
				if top.inRPr {
					run.run.StyleName = resolve(attr(t, "val"))
				}
			case "t":
				top.inText = true
			case "tab":
				run.text.WriteString("\t")
			case "br", "cr":
				run.text.WriteString("\n")
			}

		case xml.EndElement:
			if top == nil {
				continue
			}
			switch t.Name.Local {
			case "p":
				top.endRun()
				stack = stack[:len(stack)-1]
				out = append(out, top.paragraph())
			case "pPr":
				top.inPPr = false
			case "rPr":
				top.inRPr = false
			case "t":
				top.inText = false
			case "r":
				top.endRun()
			}

		case xml.CharData:
			if top != nil && top.inText && top.cur != nil {
				top.cur.text.Write(t)
			}
		}
	}
}
