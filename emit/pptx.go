package emit

import (
	"archive/zip"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tsawler/docshift/model"
)

// emuPerPoint converts points to OOXML EMU coordinates.
const emuPerPoint = 12700

// PPTXEmitter renders a document as a PowerPoint file, one slide per
// page. Parts are generated directly as Office Open XML: text blocks
// become positioned text boxes, tables become graphic frames, and images
// become pictures backed by media parts.
type PPTXEmitter struct {
	logger *slog.Logger
}

// NewPPTXEmitter creates a PPTX emitter logging to slog.Default().
func NewPPTXEmitter() *PPTXEmitter {
	return &PPTXEmitter{logger: slog.Default()}
}

// EmitFile renders the document and writes a .pptx file to outPath.
func (e *PPTXEmitter) EmitFile(doc *model.Document, outPath string) error {
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create pptx: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	slideW, slideH := slideSize(doc)
	mediaExts := map[string]bool{}

	var slides []string
	for _, page := range doc.Pages {
		xml, media := e.buildSlide(page, len(slides)+1)
		slides = append(slides, xml)

		relXML := slideRelsXML(media)
		if err := writePart(zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", len(slides)), relXML); err != nil {
			return err
		}
		for _, m := range media {
			mediaExts[m.ext] = true
			if err := writeBinaryPart(zw, "ppt/media/"+m.name, m.data); err != nil {
				return err
			}
		}
	}

	parts := map[string]string{
		"[Content_Types].xml":                    contentTypesXML(len(slides), mediaExts),
		"_rels/.rels":                            rootRelsXML,
		"docProps/core.xml":                      corePropsXML(doc.Metadata),
		"docProps/app.xml":                       appPropsXML(len(slides)),
		"ppt/presentation.xml":                   presentationXML(len(slides), slideW, slideH),
		"ppt/_rels/presentation.xml.rels":        presentationRelsXML(len(slides)),
		"ppt/slideMasters/slideMaster1.xml":      slideMasterXML,
		"ppt/slideMasters/_rels/slideMaster1.xml.rels": slideMasterRelsXML,
		"ppt/slideLayouts/slideLayout1.xml":      slideLayoutXML,
		"ppt/slideLayouts/_rels/slideLayout1.xml.rels": slideLayoutRelsXML,
		"ppt/theme/theme1.xml":                   themeXML,
	}
	for name, content := range parts {
		if err := writePart(zw, name, content); err != nil {
			return err
		}
	}
	for i, slide := range slides {
		if err := writePart(zw, fmt.Sprintf("ppt/slides/slide%d.xml", i+1), slide); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize pptx: %w", err)
	}
	return nil
}

// mediaRef ties an image on a slide to its relationship ID and media
// part.
type mediaRef struct {
	relID string
	name  string
	ext   string
	data  []byte
}

// buildSlide renders one page into slide XML plus its media parts.
func (e *PPTXEmitter) buildSlide(page *model.Page, slideNum int) (string, []mediaRef) {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	sb.WriteString(`<p:cSld><p:spTree>`)
	sb.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	sb.WriteString(`<p:grpSpPr/>`)

	var media []mediaRef
	shapeID := 2
	for _, el := range page.Elements {
		switch v := el.(type) {
		case *model.TextBlock:
			e.writeTextShape(&sb, v, shapeID, page)
		case *model.Table:
			e.writeTableFrame(&sb, v, shapeID)
		case *model.Image:
			if len(v.Data) == 0 {
				continue
			}
			ref := mediaRef{
				relID: fmt.Sprintf("rId%d", len(media)+2),
				name:  fmt.Sprintf("image%d_%d.%s", slideNum, len(media)+1, imageExt(v.Format)),
				ext:   imageExt(v.Format),
				data:  v.Data,
			}
			media = append(media, ref)
			e.writePicture(&sb, v, shapeID, ref.relID)
		}
		shapeID++
	}

	sb.WriteString(`</p:spTree></p:cSld>`)
	sb.WriteString(`<p:clrMapOvr><a:overrideClrMapping bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/></p:clrMapOvr>`)
	sb.WriteString(`</p:sld>`)
	return sb.String(), media
}

func (e *PPTXEmitter) writeTextShape(sb *strings.Builder, block *model.TextBlock, id int, page *model.Page) {
	bbox := shapeBBox(block.BBox, page)
	fmt.Fprintf(sb, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, id, id)
	writeXfrm(sb, bbox)
	sb.WriteString(`<p:txBody><a:bodyPr wrap="square"><a:normAutofit/></a:bodyPr>`)

	sb.WriteString(`<a:p>`)
	writeParagraphProps(sb, block)
	for _, run := range block.Runs {
		writeRun(sb, run, block.Role == model.RoleHeading)
	}
	sb.WriteString(`</a:p>`)

	sb.WriteString(`</p:txBody></p:sp>`)
}

func writeParagraphProps(sb *strings.Builder, block *model.TextBlock) {
	if block.Role != model.RoleListItem {
		sb.WriteString(`<a:pPr><a:buNone/></a:pPr>`)
		return
	}
	fmt.Fprintf(sb, `<a:pPr lvl="%d">`, block.Depth)
	if block.Ordered {
		sb.WriteString(`<a:buAutoNum type="arabicPeriod"/>`)
	} else {
		sb.WriteString(`<a:buChar char="•"/>`)
	}
	sb.WriteString(`</a:pPr>`)
}

func writeRun(sb *strings.Builder, run model.TextRun, heading bool) {
	s := run.Style
	size := s.FontSizePt
	if size <= 0 {
		size = 12
	}

	fmt.Fprintf(sb, `<a:r><a:rPr lang="en-US" sz="%d"`, int(size*100))
	if s.Bold || heading {
		sb.WriteString(` b="1"`)
	}
	if s.Italic {
		sb.WriteString(` i="1"`)
	}
	if s.Underline {
		sb.WriteString(` u="sng"`)
	}
	if s.Strikethrough {
		sb.WriteString(` strike="sngStrike"`)
	}
	sb.WriteString(`>`)
	if s.Foreground != nil {
		fmt.Fprintf(sb, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, s.Foreground.Hex())
	}
	sb.WriteString(`</a:rPr>`)
	fmt.Fprintf(sb, `<a:t>%s</a:t></a:r>`, xmlEscape(run.Text))
}

func (e *PPTXEmitter) writeTableFrame(sb *strings.Builder, t *model.Table, id int) {
	deco := DecorateTable(t)
	widths := ColumnWidths(t, t.BBox.Width())

	fmt.Fprintf(sb, `<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="Table %d"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>`, id, id)
	fmt.Fprintf(sb, `<p:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></p:xfrm>`,
		emu(t.BBox.X0), emu(t.BBox.Y0), emu(t.BBox.Width()), emu(t.BBox.Height()))
	sb.WriteString(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table">`)
	sb.WriteString(`<a:tbl><a:tblPr firstRow="1" bandRow="1"/><a:tblGrid>`)
	for _, w := range widths {
		fmt.Fprintf(sb, `<a:gridCol w="%d"/>`, emu(w))
	}
	sb.WriteString(`</a:tblGrid>`)

	rowHeight := emu(20)
	for i, row := range t.Rows {
		fmt.Fprintf(sb, `<a:tr h="%d">`, rowHeight)
		for j, cell := range row {
			sb.WriteString(`<a:tc><a:txBody><a:bodyPr/><a:p>`)
			for _, run := range cell.Runs {
				styled := run
				d := deco[i][j]
				if d.Bold {
					styled.Style.Bold = true
				}
				if d.TextColor != nil {
					fg := *d.TextColor
					styled.Style.Foreground = &fg
				}
				writeRun(sb, styled, false)
			}
			sb.WriteString(`</a:p></a:txBody>`)
			if fill := deco[i][j].Fill; fill != nil {
				fmt.Fprintf(sb, `<a:tcPr><a:solidFill><a:srgbClr val="%s"/></a:solidFill></a:tcPr>`, fill.Hex())
			} else {
				sb.WriteString(`<a:tcPr/>`)
			}
			sb.WriteString(`</a:tc>`)
		}
		sb.WriteString(`</a:tr>`)
	}
	sb.WriteString(`</a:tbl></a:graphicData></a:graphic></p:graphicFrame>`)
}

func (e *PPTXEmitter) writePicture(sb *strings.Builder, img *model.Image, id int, relID string) {
	fmt.Fprintf(sb, `<p:pic><p:nvPicPr><p:cNvPr id="%d" name="Picture %d"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>`, id, id)
	fmt.Fprintf(sb, `<p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`, relID)
	fmt.Fprintf(sb, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`,
		emu(img.BBox.X0), emu(img.BBox.Y0), emu(img.BBox.Width()), emu(img.BBox.Height()))
}

// shapeBBox pads a degenerate text bbox so PowerPoint gives the box
// visible extent.
func shapeBBox(b model.BBox, page *model.Page) model.BBox {
	if b.Width() <= 0 {
		b.X1 = b.X0 + page.Width*0.9
	}
	if b.Height() <= 0 {
		b.Y1 = b.Y0 + 24
	}
	return b
}

func writeXfrm(sb *strings.Builder, b model.BBox) {
	fmt.Fprintf(sb, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`,
		emu(b.X0), emu(b.Y0), emu(b.Width()), emu(b.Height()))
}

func emu(points float64) int {
	return int(points * emuPerPoint)
}

func imageExt(f model.ImageFormat) string {
	switch f {
	case model.ImageFormatJPEG:
		return "jpeg"
	case model.ImageFormatGIF:
		return "gif"
	case model.ImageFormatTIFF:
		return "tiff"
	default:
		return "png"
	}
}

// slideSize takes the deck dimensions from the first page, defaulting to
// a 10x7.5 inch slide.
func slideSize(doc *model.Document) (w, h float64) {
	if len(doc.Pages) > 0 && doc.Pages[0].Width > 0 && doc.Pages[0].Height > 0 {
		return doc.Pages[0].Width, doc.Pages[0].Height
	}
	return 720, 540
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\r\n"

func contentTypesXML(slideCount int, mediaExts map[string]bool) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	sb.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	sb.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	for ext := range mediaExts {
		contentType := "image/" + ext
		fmt.Fprintf(&sb, `<Default Extension="%s" ContentType="%s"/>`, ext, contentType)
	}
	sb.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	sb.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	sb.WriteString(`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`)
	sb.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	sb.WriteString(`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>`)
	sb.WriteString(`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>`)
	for i := 1; i <= slideCount; i++ {
		fmt.Fprintf(&sb, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i)
	}
	sb.WriteString(`</Types>`)
	return sb.String()
}

const rootRelsXML = xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
	`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties" Target="docProps/app.xml"/>` +
	`</Relationships>`

func presentationXML(slideCount int, w, h float64) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	sb.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	sb.WriteString(`<p:sldIdLst>`)
	for i := 1; i <= slideCount; i++ {
		fmt.Fprintf(&sb, `<p:sldId id="%d" r:id="rId%d"/>`, 255+i, i+1)
	}
	sb.WriteString(`</p:sldIdLst>`)
	fmt.Fprintf(&sb, `<p:sldSz cx="%d" cy="%d"/>`, emu(w), emu(h))
	sb.WriteString(`<p:notesSz cx="6858000" cy="9144000"/>`)
	sb.WriteString(`</p:presentation>`)
	return sb.String()
}

func presentationRelsXML(slideCount int) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	sb.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>`)
	for i := 1; i <= slideCount; i++ {
		fmt.Fprintf(&sb, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, i+1, i)
	}
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

func slideRelsXML(media []mediaRef) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	sb.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>`)
	for _, m := range media {
		fmt.Fprintf(&sb, `<Relationship Id="%s" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="../media/%s"/>`, m.relID, m.name)
	}
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

const slideMasterXML = xmlHeader + `<p:sldMaster xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
	`<p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/></p:spTree></p:cSld>` +
	`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
	`</p:sldMaster>`

const slideMasterRelsXML = xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="../theme/theme1.xml"/>` +
	`</Relationships>`

const slideLayoutXML = xmlHeader + `<p:sldLayout xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" type="blank">` +
	`<p:cSld name="Blank"><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/></p:spTree></p:cSld>` +
	`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
	`</p:sldLayout>`

const slideLayoutRelsXML = xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="../slideMasters/slideMaster1.xml"/>` +
	`</Relationships>`

const themeXML = xmlHeader + `<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Office">` +
	`<a:themeElements>` +
	`<a:clrScheme name="Office">` +
	`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1><a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>` +
	`<a:dk2><a:srgbClr val="44546A"/></a:dk2><a:lt2><a:srgbClr val="E7E6E6"/></a:lt2>` +
	`<a:accent1><a:srgbClr val="4472C4"/></a:accent1><a:accent2><a:srgbClr val="ED7D31"/></a:accent2>` +
	`<a:accent3><a:srgbClr val="A5A5A5"/></a:accent3><a:accent4><a:srgbClr val="FFC000"/></a:accent4>` +
	`<a:accent5><a:srgbClr val="5B9BD5"/></a:accent5><a:accent6><a:srgbClr val="70AD47"/></a:accent6>` +
	`<a:hlink><a:srgbClr val="0563C1"/></a:hlink><a:folHlink><a:srgbClr val="954F72"/></a:folHlink>` +
	`</a:clrScheme>` +
	`<a:fontScheme name="Office"><a:majorFont><a:latin typeface="Calibri Light"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>` +
	`<a:minorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont></a:fontScheme>` +
	`<a:fmtScheme name="Office">` +
	`<a:fillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:fillStyleLst>` +
	`<a:lnStyleLst><a:ln><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln></a:lnStyleLst>` +
	`<a:effectStyleLst><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle></a:effectStyleLst>` +
	`<a:bgFillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:bgFillStyleLst>` +
	`</a:fmtScheme>` +
	`</a:themeElements>` +
	`</a:theme>`

func corePropsXML(meta model.Metadata) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">`)
	if meta.Title != "" {
		fmt.Fprintf(&sb, `<dc:title>%s</dc:title>`, xmlEscape(meta.Title))
	}
	if meta.Subject != "" {
		fmt.Fprintf(&sb, `<dc:subject>%s</dc:subject>`, xmlEscape(meta.Subject))
	}
	if meta.Author != "" {
		fmt.Fprintf(&sb, `<dc:creator>%s</dc:creator>`, xmlEscape(meta.Author))
	}
	sb.WriteString(`</cp:coreProperties>`)
	return sb.String()
}

func appPropsXML(slideCount int) string {
	return xmlHeader + `<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">` +
		fmt.Sprintf(`<Slides>%d</Slides>`, slideCount) +
		`<Application>docshift</Application>` +
		`</Properties>`
}

func writePart(zw *zip.Writer, name, content string) error {
	return writeBinaryPart(zw, name, []byte(content))
}

func writeBinaryPart(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create part %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write part %s: %w", name, err)
	}
	return nil
}

func xmlEscape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return r.Replace(s)
}
