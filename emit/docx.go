package emit

import (
	"fmt"
	"log/slog"

	"github.com/unidoc/unioffice/color"
	"github.com/unidoc/unioffice/common"
	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/schema/soo/wml"

	"github.com/tsawler/docshift/model"
)

// listIndentPerLevel is the extra start indent applied per list depth.
const listIndentPerLevel = 0.25 * measurement.Inch

// DOCXEmitter renders a document as a Word file. Headings map to the
// built-in Heading styles, list items to ListBullet/ListNumber, and
// tables carry the shared decoration rules as cell shading.
type DOCXEmitter struct {
	logger *slog.Logger
}

// NewDOCXEmitter creates a DOCX emitter logging to slog.Default().
func NewDOCXEmitter() *DOCXEmitter {
	return &DOCXEmitter{logger: slog.Default()}
}

// EmitFile renders the document and writes a .docx file to outPath.
func (e *DOCXEmitter) EmitFile(doc *model.Document, outPath string) error {
	word := document.New()
	defer word.Close()

	if doc.Metadata.Title != "" {
		word.CoreProperties.SetTitle(doc.Metadata.Title)
	}
	if doc.Metadata.Author != "" {
		word.CoreProperties.SetAuthor(doc.Metadata.Author)
	}

	e.applyPageSetup(word, doc.Setup)

	for i, page := range doc.Pages {
		if i > 0 {
			// Page boundaries from the source survive as explicit breaks.
			para := word.AddParagraph()
			para.Properties().AddSection(wml.ST_SectionMarkNextPage)
		}
		for _, el := range page.Elements {
			switch v := el.(type) {
			case *model.TextBlock:
				e.addTextBlock(word, v)
			case *model.Table:
				e.addTable(word, v)
			case *model.Image:
				e.addImage(word, v)
			case *model.Rule:
				e.addRule(word)
			}
		}
	}

	if err := word.SaveToFile(outPath); err != nil {
		return fmt.Errorf("save docx: %w", err)
	}
	return nil
}

func (e *DOCXEmitter) applyPageSetup(word *document.Document, setup model.PageSetup) {
	w, h := setup.Dimensions()
	orientation := wml.ST_PageOrientationPortrait
	if setup.Landscape {
		orientation = wml.ST_PageOrientationLandscape
	}
	section := word.BodySection()
	section.SetPageSizeAndOrientation(
		measurement.Distance(w)*measurement.Point,
		measurement.Distance(h)*measurement.Point,
		orientation,
	)
}

func (e *DOCXEmitter) addTextBlock(word *document.Document, block *model.TextBlock) {
	para := word.AddParagraph()

	switch block.Role {
	case model.RoleHeading:
		level := block.Level
		if level < 1 {
			level = 1
		}
		if level > 6 {
			level = 6
		}
		para.SetStyle(fmt.Sprintf("Heading%d", level))
	case model.RoleListItem:
		if block.Ordered {
			para.SetStyle("ListNumber")
		} else {
			para.SetStyle("ListBullet")
		}
		if block.Depth > 0 {
			para.Properties().SetStartIndent(measurement.Distance(block.Depth) * listIndentPerLevel)
		}
	}

	if len(block.Runs) > 0 && block.Runs[0].Style.Align != model.AlignLeft {
		para.Properties().SetAlignment(wordAlignment(block.Runs[0].Style.Align))
	}

	for _, run := range block.Runs {
		e.addRun(para, run)
	}
}

func (e *DOCXEmitter) addRun(para document.Paragraph, run model.TextRun) {
	r := para.AddRun()
	r.AddText(run.Text)

	props := r.Properties()
	s := run.Style
	if s.Bold {
		props.SetBold(true)
	}
	if s.Italic {
		props.SetItalic(true)
	}
	if s.Underline {
		props.SetUnderline(wml.ST_UnderlineSingle, color.Auto)
	}
	if s.Strikethrough {
		props.SetStrikeThrough(true)
	}
	if s.FontSizePt > 0 {
		props.SetSize(measurement.Distance(s.FontSizePt) * measurement.Point)
	}
	if s.Foreground != nil {
		props.SetColor(color.RGB(s.Foreground.R, s.Foreground.G, s.Foreground.B))
	}
}

func (e *DOCXEmitter) addTable(word *document.Document, t *model.Table) {
	deco := DecorateTable(t)

	tbl := word.AddTable()
	tbl.Properties().SetWidthPercent(100)
	borders := tbl.Properties().Borders()
	borders.SetAll(wml.ST_BorderSingle, color.RGB(0xCC, 0xCC, 0xCC), 0.5*measurement.Point)

	for i, row := range t.Rows {
		tr := tbl.AddRow()
		for j, cell := range row {
			tc := tr.AddCell()
			d := deco[i][j]
			if d.Fill != nil {
				tc.Properties().SetShading(wml.ST_ShdSolid, color.RGB(d.Fill.R, d.Fill.G, d.Fill.B), color.Auto)
			}

			para := tc.AddParagraph()
			if len(cell.Runs) == 0 {
				continue
			}
			for _, run := range cell.Runs {
				styled := run
				if d.Bold {
					styled.Style.Bold = true
				}
				if d.TextColor != nil {
					fg := *d.TextColor
					styled.Style.Foreground = &fg
				}
				e.addRun(para, styled)
			}
		}
	}
	// Space after the table so following text does not glue to it.
	word.AddParagraph()
}

func (e *DOCXEmitter) addImage(word *document.Document, img *model.Image) {
	if len(img.Data) == 0 {
		return
	}
	ref, err := common.ImageFromBytes(img.Data)
	if err != nil {
		e.logger.Warn("image skipped", "error", err)
		return
	}
	iref, err := word.AddImage(ref)
	if err != nil {
		e.logger.Warn("image skipped", "error", err)
		return
	}

	para := word.AddParagraph()
	inline, err := para.AddRun().AddDrawingInline(iref)
	if err != nil {
		e.logger.Warn("image skipped", "error", err)
		return
	}
	if w, h := img.BBox.Width(), img.BBox.Height(); w > 0 && h > 0 {
		inline.SetSize(
			measurement.Distance(w)*measurement.Point,
			measurement.Distance(h)*measurement.Point,
		)
	}
}

// addRule approximates a horizontal rule with a bottom-bordered empty
// paragraph.
func (e *DOCXEmitter) addRule(word *document.Document) {
	para := word.AddParagraph()
	para.Borders().SetBottom(wml.ST_BorderSingle, color.RGB(0xAA, 0xAA, 0xAA), 0.75*measurement.Point)
}

func wordAlignment(a model.Alignment) wml.ST_Jc {
	switch a {
	case model.AlignCenter:
		return wml.ST_JcCenter
	case model.AlignRight:
		return wml.ST_JcRight
	case model.AlignJustify:
		return wml.ST_JcBoth
	default:
		return wml.ST_JcLeft
	}
}
