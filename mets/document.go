// Package mets resolves METS structure documents into articles.
//
// A Document exposes the logical article nodes, the issue date and the ALTO
// pages declared in the document's file section. Issue and Article build on
// a shared Document so that every page is parsed at most once per issue.
package mets

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/beevik/etree"
	corpus "github.com/pulibrary/corpus-generator"
	"github.com/pulibrary/corpus-generator/alto"
	"golang.org/x/net/html/charset"
)

// Namespaces under which FLocat link references are looked up, in order.
// The second is an incorrect xlink URI found in part of the collection.
var linkNamespaces = []string{
	"http://www.w3.org/1999/xlink",
	"http://www.w3.org/TR/xlink",
}

// Candidate locations of the issue date, in order. The first matches
// documents carrying a single MODS record; the second matches documents
// with per-article records, where the date sits in the issue record.
var dateLocations = []etree.Path{
	etree.MustCompilePath("./dmdSec/mdWrap/xmlData/mods/originInfo/dateIssued"),
	etree.MustCompilePath("./dmdSec[@ID='issueModsBib']//dateIssued"),
}

// pageGroupID identifies the file group listing the ALTO pages.
const pageGroupID = "ALTOGRP"

// Document is one METS structure document. Each accessor parses on first
// use and caches its result, including any error.
type Document struct {
	path string

	root     func() (*etree.Element, error)
	articles func() ([]*etree.Element, error)
	date     func() (*string, error)
	pages    func() (map[string]*alto.Page, error)
}

// NewDocument returns a Document backed by the file at path.
func NewDocument(path string) *Document {
	d := &Document{path: path}
	d.root = sync.OnceValues(d.parse)
	d.articles = sync.OnceValues(d.findArticles)
	d.date = sync.OnceValues(d.findDate)
	d.pages = sync.OnceValues(d.resolvePages)
	return d
}

// Path returns the file path backing the document.
func (d *Document) Path() string {
	return d.path
}

// Articles returns the ARTICLE nodes of the logical structure map in
// document order.
func (d *Document) Articles() ([]*etree.Element, error) {
	return d.articles()
}

// Date returns the issue date, or nil if the document carries none.
func (d *Document) Date() (*string, error) {
	return d.date()
}

// Pages returns the document's ALTO pages keyed by file ID.
// Returns EUNRESOLVED if any declared page has no usable link reference.
func (d *Document) Pages() (map[string]*alto.Page, error) {
	return d.pages()
}

func (d *Document) parse() (*etree.Element, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromFile(d.path); err != nil {
		return nil, corpus.WrapError(corpus.EACCESS, err, "reading structure document %s", d.path)
	}
	root := doc.Root()
	if root == nil {
		return nil, corpus.Errorf(corpus.EACCESS, "reading structure document %s: no root element", d.path)
	}
	return root, nil
}

func (d *Document) findArticles() ([]*etree.Element, error) {
	root, err := d.root()
	if err != nil {
		return nil, err
	}

	var articles []*etree.Element
	for _, structMap := range root.SelectElements("structMap") {
		if structMap.SelectAttrValue("TYPE", "") != "LOGICAL" {
			continue
		}
		articles = append(articles, descendants(structMap, isArticle)...)
	}
	return articles, nil
}

func (d *Document) findDate() (*string, error) {
	root, err := d.root()
	if err != nil {
		return nil, err
	}

	for _, location := range dateLocations {
		for _, e := range root.FindElementsPath(location) {
			if date := strings.TrimSpace(e.Text()); date != "" {
				return &date, nil
			}
		}
	}
	return nil, nil
}

func (d *Document) resolvePages() (map[string]*alto.Page, error) {
	root, err := d.root()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(d.path)
	pages := make(map[string]*alto.Page)
	for _, file := range root.FindElements("//fileGrp[@ID='" + pageGroupID + "']/file") {
		id := file.SelectAttrValue("ID", "")
		href, ok := linkReference(file)
		if !ok {
			return nil, corpus.Errorf(corpus.EUNRESOLVED, "reference not found for file %q in %s", id, d.path)
		}
		path, err := localPath(dir, href)
		if err != nil {
			return nil, corpus.WrapError(corpus.EUNRESOLVED, err, "file %q in %s", id, d.path)
		}
		pages[id] = alto.NewPage(path)
	}
	return pages, nil
}

// linkReference returns the href of the file's first FLocat, trying each
// link namespace in turn.
func linkReference(file *etree.Element) (string, bool) {
	locations := file.SelectElements("FLocat")
	for _, ns := range linkNamespaces {
		for _, loc := range locations {
			for _, attr := range loc.Attr {
				if attr.Key == "href" && attr.NamespaceURI() == ns {
					return attr.Value, true
				}
			}
		}
	}
	return "", false
}

// localPath maps a link reference onto dir. The collection encodes page
// locations as malformed file URLs, e.g. "file:///Princetonian-ALTO/x.xml";
// only the last two segments (subdirectory and file name) are meaningful.
func localPath(dir, href string) (string, error) {
	var segments []string
	for _, s := range strings.Split(href, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) < 2 {
		return "", corpus.Errorf(corpus.EUNRESOLVED, "malformed reference %q", href)
	}
	n := len(segments)
	return filepath.Join(dir, segments[n-2], segments[n-1]), nil
}

func isArticle(e *etree.Element) bool {
	return e.Tag == "div" && e.SelectAttrValue("TYPE", "") == "ARTICLE"
}

// descendants returns the descendants of e accepted by match, in document
// order. etree paths visit elements breadth-first, which would reorder
// nodes found at different depths.
func descendants(e *etree.Element, match func(*etree.Element) bool) []*etree.Element {
	var found []*etree.Element
	var visit func(*etree.Element)
	visit = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			if match(child) {
				found = append(found, child)
			}
			visit(child)
		}
	}
	visit(e)
	return found
}
