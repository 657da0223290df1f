package mets

import (
	"strings"

	"github.com/beevik/etree"
	corpus "github.com/pulibrary/corpus-generator"
)

// Area points at one text block of one ALTO page.
type Area struct {
	FileID  string
	BlockID string
}

// Article is one ARTICLE node of a structure document. Articles of the same
// issue share their Document and, through it, the parsed pages.
type Article struct {
	node *etree.Element
	doc  *Document
}

// Title returns the node's LABEL, or nil if the node has none.
func (a *Article) Title() *string {
	attr := a.node.SelectAttr("LABEL")
	if attr == nil {
		return nil
	}
	title := attr.Value
	return &title
}

// Date returns the date of the owning document.
func (a *Article) Date() (*string, error) {
	return a.doc.Date()
}

// Areas returns the article's area pointers in document order.
func (a *Article) Areas() []Area {
	nodes := descendants(a.node, func(e *etree.Element) bool { return e.Tag == "area" })
	areas := make([]Area, 0, len(nodes))
	for _, n := range nodes {
		areas = append(areas, Area{
			FileID:  n.SelectAttrValue("FILEID", ""),
			BlockID: n.SelectAttrValue("BEGIN", ""),
		})
	}
	return areas
}

// Text resolves the article's areas and joins the block texts with single
// spaces. Areas naming an undeclared file or a missing block are skipped, so
// an article with no resolvable area yields "". Errors reading the document
// or one of its pages are returned.
func (a *Article) Text() (string, error) {
	pages, err := a.doc.Pages()
	if err != nil {
		return "", err
	}

	var content []string
	for _, area := range a.Areas() {
		page, ok := pages[area.FileID]
		if !ok {
			continue
		}
		text, ok, err := page.Block(area.BlockID)
		if err != nil {
			return "", err
		} else if !ok {
			continue
		}
		content = append(content, text)
	}
	return strings.Join(content, " "), nil
}

// Metadata returns the article's title and date.
func (a *Article) Metadata() (corpus.Meta, error) {
	date, err := a.Date()
	if err != nil {
		return corpus.Meta{}, err
	}
	return corpus.Meta{Title: a.Title(), Date: date}, nil
}

// Record returns the article as an output record.
func (a *Article) Record() (*corpus.Record, error) {
	text, err := a.Text()
	if err != nil {
		return nil, err
	}
	meta, err := a.Metadata()
	if err != nil {
		return nil, err
	}
	return &corpus.Record{Text: text, Meta: meta}, nil
}
