package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/tsawler/docshift/layout"
	"github.com/tsawler/docshift/model"
)

// Reader extracts PowerPoint presentations.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a reader logging to slog.Default().
func NewReader() *Reader {
	return &Reader{logger: slog.Default()}
}

// Read parses the PPTX file at path, one page per slide. Shape positions
// are converted from EMUs to points so slide geometry carries through to
// the model.
func (r *Reader) Read(filename string) (*model.Document, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("open pptx %s: %w", filename, err)
	}
	defer zr.Close()

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}
	if files["ppt/presentation.xml"] == nil {
		return nil, fmt.Errorf("%s is not a presentation: missing ppt/presentation.xml", filename)
	}

	doc := model.NewDocument()
	r.readCoreProperties(files, doc)

	slideW, slideH := r.slideSize(files)

	var slidePaths []string
	for name := range files {
		if strings.HasPrefix(name, "ppt/slides/slide") && strings.HasSuffix(name, ".xml") &&
			!strings.Contains(name, "_rels") {
			slidePaths = append(slidePaths, name)
		}
	}
	if len(slidePaths) == 0 {
		return nil, fmt.Errorf("no slides in %s", filename)
	}
	sort.Slice(slidePaths, func(i, j int) bool {
		return slideNumber(slidePaths[i]) < slideNumber(slidePaths[j])
	})

	for _, slidePath := range slidePaths {
		page, err := r.readSlide(files, slidePath, slideW, slideH)
		if err != nil {
			r.logger.Warn("slide skipped", "slide", slidePath, "error", err)
			continue
		}
		doc.AddPage(page)
	}

	if doc.PageCount() == 0 {
		return nil, fmt.Errorf("no readable slides in %s", filename)
	}
	return doc, nil
}

// readSlide parses one slide part into a page.
func (r *Reader) readSlide(files map[string]*zip.File, slidePath string, w, h float64) (*model.Page, error) {
	data, err := readZipFile(files, slidePath)
	if err != nil {
		return nil, err
	}
	var slide slideXML
	if err := xml.Unmarshal(data, &slide); err != nil {
		return nil, fmt.Errorf("parse %s: %w", slidePath, err)
	}

	rels := r.slideRelationships(files, slidePath)
	page := &model.Page{Name: path.Base(slidePath), Width: w, Height: h}

	for _, sp := range slide.CSld.SpTree.Sp {
		r.addShapeText(page, sp)
	}
	for _, frame := range slide.CSld.SpTree.GraphicFrame {
		if frame.Graphic.GraphicData.Tbl != nil {
			r.addTable(page, frame)
		}
	}
	for _, pic := range slide.CSld.SpTree.Pic {
		r.addPicture(files, page, pic, rels, slidePath)
	}

	page.SortByPosition()
	return page, nil
}

// addShapeText converts a shape's text body into one block per
// paragraph. Title placeholders become level-1 headings; bullet and
// numbering properties become list items.
func (r *Reader) addShapeText(page *model.Page, sp spXML) {
	if sp.TxBody == nil {
		return
	}

	bbox := xfrmBBox(sp.SpPr.Xfrm)
	isTitle := false
	if ph := sp.NvSpPr.NvPr.Ph; ph != nil {
		isTitle = ph.Type == "title" || ph.Type == "ctrTitle"
	}

	lineHeight := 20.0
	for i, para := range sp.TxBody.P {
		runs := convertRuns(para.R)
		if len(runs) == 0 {
			continue
		}
		block := &model.TextBlock{
			Runs: runs,
			BBox: model.BBox{
				X0: bbox.X0,
				Y0: bbox.Y0 + float64(i)*lineHeight,
				X1: bbox.X1,
				Y1: bbox.Y0 + float64(i+1)*lineHeight,
			},
			Role: model.RoleParagraph,
		}

		switch {
		case isTitle:
			block.Role = model.RoleHeading
			block.Level = 1
		case para.PPr != nil && para.PPr.BuAutoNum != nil:
			block.Role = model.RoleListItem
			block.Ordered = true
			block.Depth = para.PPr.Lvl
		case para.PPr != nil && para.PPr.BuChar != nil:
			block.Role = model.RoleListItem
			block.Depth = para.PPr.Lvl
		}
		page.AddElement(block)
	}
}

// addTable converts a graphic-frame table.
func (r *Reader) addTable(page *model.Page, frame graphicFrameXML) {
	table := &model.Table{BBox: xfrmBBox(frame.Xfrm)}
	for _, tr := range frame.Graphic.GraphicData.Tbl.Tr {
		var cells []model.Cell
		for _, tc := range tr.Tc {
			cell := model.Cell{}
			if tc.TxBody != nil {
				for _, p := range tc.TxBody.P {
					cell.Runs = append(cell.Runs, convertRuns(p.R)...)
				}
			}
			if len(cell.Runs) > 0 {
				cell.Style = cell.Runs[0].Style
			}
			cells = append(cells, cell)
		}
		if len(cells) > 0 {
			table.Rows = append(table.Rows, cells)
		}
	}
	if len(table.Rows) == 0 {
		return
	}
	table.Normalize()
	page.AddElement(table)
}

// addPicture resolves a picture's relationship to its media part and
// copies the bytes into the model.
func (r *Reader) addPicture(files map[string]*zip.File, page *model.Page, pic picXML, rels map[string]string, slidePath string) {
	target, ok := rels[pic.BlipFill.Blip.Embed]
	if !ok {
		return
	}
	// Targets are relative to the slide part, e.g. "../media/image1.png".
	mediaPath := path.Join(path.Dir(slidePath), target)
	data, err := readZipFile(files, mediaPath)
	if err != nil {
		r.logger.Warn("picture skipped", "media", mediaPath, "error", err)
		return
	}
	page.AddElement(&model.Image{
		Data:   data,
		Format: formatFromName(mediaPath),
		BBox:   xfrmBBox(pic.SpPr.Xfrm),
	})
}

// slideRelationships parses the slide's .rels part into an ID → target
// map.
func (r *Reader) slideRelationships(files map[string]*zip.File, slidePath string) map[string]string {
	relPath := path.Join(path.Dir(slidePath), "_rels", path.Base(slidePath)+".rels")
	out := make(map[string]string)

	data, err := readZipFile(files, relPath)
	if err != nil {
		return out
	}
	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		return out
	}
	for _, rel := range rels.Relationship {
		out[rel.ID] = rel.Target
	}
	return out
}

// slideSize reads the presentation's slide dimensions in points,
// defaulting to 10x7.5 inches.
func (r *Reader) slideSize(files map[string]*zip.File) (w, h float64) {
	data, err := readZipFile(files, "ppt/presentation.xml")
	if err != nil {
		return 720, 540
	}
	var pres presentationXML
	if err := xml.Unmarshal(data, &pres); err != nil || pres.SlideSz == nil {
		return 720, 540
	}
	w = float64(pres.SlideSz.Cx) / emuPerPoint
	h = float64(pres.SlideSz.Cy) / emuPerPoint
	if w <= 0 || h <= 0 {
		return 720, 540
	}
	return w, h
}

func (r *Reader) readCoreProperties(files map[string]*zip.File, doc *model.Document) {
	data, err := readZipFile(files, "docProps/core.xml")
	if err != nil {
		return
	}
	var props corePropertiesXML
	if err := xml.Unmarshal(data, &props); err != nil {
		return
	}
	doc.Metadata.Title = props.Title
	doc.Metadata.Subject = props.Subject
	doc.Metadata.Author = props.Creator
}

// convertRuns maps slide text runs with their explicit style flags.
func convertRuns(rs []rXML) []model.TextRun {
	var runs []model.TextRun
	for _, run := range rs {
		if run.T == "" {
			continue
		}
		flags := layout.Flags{}
		size := 0.0
		if run.RPr != nil {
			flags.Bold = run.RPr.B != nil && *run.RPr.B == 1
			flags.Italic = run.RPr.I != nil && *run.RPr.I == 1
			flags.Underline = run.RPr.U != "" && run.RPr.U != "none"
			size = float64(run.RPr.Sz) / 100
		}
		runs = append(runs, model.TextRun{
			Text:  run.T,
			Style: layout.Classify("", size, &flags),
		})
	}
	return runs
}

// xfrmBBox converts an EMU transform to a point bounding box, zero when
// absent.
func xfrmBBox(x *xfrmXML) model.BBox {
	if x == nil {
		return model.BBox{}
	}
	x0 := float64(x.Off.X) / emuPerPoint
	y0 := float64(x.Off.Y) / emuPerPoint
	return model.BBox{
		X0: x0,
		Y0: y0,
		X1: x0 + float64(x.Ext.Cx)/emuPerPoint,
		Y1: y0 + float64(x.Ext.Cy)/emuPerPoint,
	}
}

func readZipFile(files map[string]*zip.File, name string) ([]byte, error) {
	f, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func slideNumber(p string) int {
	name := strings.TrimPrefix(p, "ppt/slides/slide")
	name = strings.TrimSuffix(name, ".xml")
	var num int
	fmt.Sscanf(name, "%d", &num)
	return num
}

func formatFromName(name string) model.ImageFormat {
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return model.ImageFormatPNG
	case ".jpg", ".jpeg":
		return model.ImageFormatJPEG
	case ".gif":
		return model.ImageFormatGIF
	case ".tif", ".tiff":
		return model.ImageFormatTIFF
	default:
		return model.ImageFormatUnknown
	}
}
