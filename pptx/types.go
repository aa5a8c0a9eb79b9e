// Package pptx parses PPTX (Office Open XML Presentation) files into the
// document model.
package pptx

import "encoding/xml"

// emuPerPoint converts OOXML EMU coordinates to points.
const emuPerPoint = 12700

// presentationXML represents ppt/presentation.xml.
type presentationXML struct {
	XMLName xml.Name    `xml:"presentation"`
	SlideSz *slideSzXML `xml:"sldSz"`
}

type slideSzXML struct {
	Cx int `xml:"cx,attr"` // width in EMUs
	Cy int `xml:"cy,attr"` // height in EMUs
}

// slideXML represents a ppt/slides/slide*.xml file.
type slideXML struct {
	XMLName xml.Name `xml:"sld"`
	CSld    cSldXML  `xml:"cSld"`
}

type cSldXML struct {
	SpTree spTreeXML `xml:"spTree"`
}

type spTreeXML struct {
	Sp           []spXML           `xml:"sp"`
	Pic          []picXML          `xml:"pic"`
	GraphicFrame []graphicFrameXML `xml:"graphicFrame"`
}

type spXML struct {
	NvSpPr nvSpPrXML  `xml:"nvSpPr"`
	SpPr   spPrXML    `xml:"spPr"`
	TxBody *txBodyXML `xml:"txBody"`
}

type nvSpPrXML struct {
	NvPr nvPrXML `xml:"nvPr"`
}

type nvPrXML struct {
	Ph *phXML `xml:"ph"`
}

type phXML struct {
	Type string `xml:"type,attr"` // title, ctrTitle, subTitle, body
}

type spPrXML struct {
	Xfrm *xfrmXML `xml:"xfrm"`
}

type xfrmXML struct {
	Off offXML `xml:"off"`
	Ext extXML `xml:"ext"`
}

type offXML struct {
	X int `xml:"x,attr"`
	Y int `xml:"y,attr"`
}

type extXML struct {
	Cx int `xml:"cx,attr"`
	Cy int `xml:"cy,attr"`
}

type txBodyXML struct {
	P []pXML `xml:"p"`
}

type pXML struct {
	PPr *pPrXML `xml:"pPr"`
	R   []rXML  `xml:"r"`
}

type pPrXML struct {
	Lvl       int            `xml:"lvl,attr"`
	BuNone    *struct{}      `xml:"buNone"`
	BuChar    *buCharXML     `xml:"buChar"`
	BuAutoNum *buAutoNumXML  `xml:"buAutoNum"`
}

type buCharXML struct {
	Char string `xml:"char,attr"`
}

type buAutoNumXML struct {
	Type string `xml:"type,attr"`
}

type rXML struct {
	RPr *rPrXML `xml:"rPr"`
	T   string  `xml:"t"`
}

type rPrXML struct {
	Sz int    `xml:"sz,attr"` // hundredths of a point
	B  *int   `xml:"b,attr"`
	I  *int   `xml:"i,attr"`
	U  string `xml:"u,attr"`
}

type picXML struct {
	BlipFill blipFillXML `xml:"blipFill"`
	SpPr     spPrXML     `xml:"spPr"`
}

type blipFillXML struct {
	Blip blipXML `xml:"blip"`
}

type blipXML struct {
	Embed string `xml:"embed,attr"` // r:embed relationship ID
}

type graphicFrameXML struct {
	Xfrm    *xfrmXML   `xml:"xfrm"`
	Graphic graphicXML `xml:"graphic"`
}

type graphicXML struct {
	GraphicData graphicDataXML `xml:"graphicData"`
}

type graphicDataXML struct {
	Tbl *tblXML `xml:"tbl"`
}

type tblXML struct {
	Tr []trXML `xml:"tr"`
}

type trXML struct {
	Tc []tcXML `xml:"tc"`
}

type tcXML struct {
	TxBody *txBodyXML `xml:"txBody"`
}

// relationshipsXML represents .rels files.
type relationshipsXML struct {
	XMLName      xml.Name          `xml:"Relationships"`
	Relationship []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// corePropertiesXML represents docProps/core.xml.
type corePropertiesXML struct {
	XMLName xml.Name `xml:"coreProperties"`
	Title   string   `xml:"title"`
	Subject string   `xml:"subject"`
	Creator string   `xml:"creator"`
}
