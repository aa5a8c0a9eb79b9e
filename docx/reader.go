package docx

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/schema/soo/wml"

	"github.com/tsawler/docshift/layout"
	"github.com/tsawler/docshift/model"
)

// blockSpacing is the synthetic vertical distance between consecutive
// body blocks. DOCX is flow content without positions; spacing the
// blocks out keeps the page's Y-ordering invariant meaningful.
const blockSpacing = 20.0

var headingStylePattern = regexp.MustCompile(`(?i)heading\s*(\d)`)

// Reader extracts Word documents.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a reader logging to slog.Default().
func NewReader() *Reader {
	return &Reader{logger: slog.Default()}
}

// Read parses the DOCX file at path into a single-page document. Word
// sources carry no fixed pagination; the emitter repaginates.
func (r *Reader) Read(path string) (*model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read docx %s: %w", path, err)
	}

	wordDoc, err := document.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx %s: %w", path, err)
	}
	defer wordDoc.Close()

	doc := model.NewDocument()
	page := &model.Page{Width: 612, Height: 792}

	var y float64

	// Body blocks are walked through the raw XML so paragraphs and
	// tables keep their source interleaving; the high-level accessors
	// return them grouped by kind.
	pMap := make(map[*wml.CT_P]document.Paragraph)
	for _, p := range wordDoc.Paragraphs() {
		pMap[p.X()] = p
	}
	tMap := make(map[*wml.CT_Tbl]document.Table)
	for _, t := range wordDoc.Tables() {
		tMap[t.X()] = t
	}

	body := wordDoc.X().Body
	if body != nil {
		for _, bl := range body.EG_BlockLevelElts {
			for _, c := range bl.EG_ContentBlockContent {
				for _, cp := range c.P {
					if par, ok := pMap[cp]; ok {
						if block := r.convertParagraph(par, y); block != nil {
							page.AddElement(block)
							y += blockSpacing
						}
					}
				}
				for _, ct := range c.Tbl {
					if tbl, ok := tMap[ct]; ok {
						if table := r.convertTable(tbl, y); table != nil {
							page.AddElement(table)
							y += blockSpacing
						}
					}
				}
			}
		}
	}

	for _, img := range wordDoc.Images {
		data, err := os.ReadFile(img.Path())
		if err != nil {
			r.logger.Warn("embedded image skipped", "error", err)
			continue
		}
		page.AddElement(&model.Image{
			Data:   data,
			Format: imageFormat(img.Format()),
			BBox:   model.BBox{Y0: y, Y1: y + blockSpacing},
		})
		y += blockSpacing
	}

	page.SortByPosition()
	doc.AddPage(page)
	return doc, nil
}

// convertParagraph maps one Word paragraph to a text block, or nil when
// the paragraph is empty.
func (r *Reader) convertParagraph(par document.Paragraph, y float64) *model.TextBlock {
	runs := r.convertRuns(par)
	if len(runs) == 0 {
		return nil
	}

	block := &model.TextBlock{
		Runs: runs,
		BBox: model.BBox{X0: 0, Y0: y, X1: 612, Y1: y + blockSpacing},
		Role: model.RoleParagraph,
	}

	style := par.Style()
	if m := headingStylePattern.FindStringSubmatch(style); m != nil {
		block.Role = model.RoleHeading
		block.Level = int(m[1][0] - '0')
		if block.Level < 1 || block.Level > 6 {
			block.Level = 1
		}
	} else if strings.EqualFold(style, "Title") {
		block.Role = model.RoleHeading
		block.Level = 1
	} else if strings.Contains(strings.ToLower(style), "listparagraph") {
		block.Role = model.RoleListItem
	}
	return block
}

// convertRuns maps a paragraph's runs, using the explicit style flags
// Word provides.
func (r *Reader) convertRuns(par document.Paragraph) []model.TextRun {
	var runs []model.TextRun
	for _, run := range par.Runs() {
		text := run.Text()
		if text == "" {
			continue
		}
		props := run.Properties()
		style := layout.Classify("", 0, &layout.Flags{
			Bold:   props.IsBold(),
			Italic: props.IsItalic(),
		})
		runs = append(runs, model.TextRun{Text: text, Style: style})
	}
	return runs
}

// convertTable maps one Word table, padding ragged rows.
func (r *Reader) convertTable(tbl document.Table, y float64) *model.Table {
	table := &model.Table{
		BBox: model.BBox{X0: 0, Y0: y, X1: 612, Y1: y + blockSpacing},
	}
	for _, row := range tbl.Rows() {
		var cells []model.Cell
		for _, cell := range row.Cells() {
			var runs []model.TextRun
			for _, par := range cell.Paragraphs() {
				runs = append(runs, r.convertRuns(par)...)
			}
			cells = append(cells, model.Cell{Runs: runs})
		}
		table.Rows = append(table.Rows, cells)
	}
	if len(table.Rows) == 0 {
		return nil
	}
	table.Normalize()
	return table
}

func imageFormat(ext string) model.ImageFormat {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png":
		return model.ImageFormatPNG
	case "jpg", "jpeg":
		return model.ImageFormatJPEG
	case "gif":
		return model.ImageFormatGIF
	case "tif", "tiff":
		return model.ImageFormatTIFF
	default:
		return model.ImageFormatUnknown
	}
}
