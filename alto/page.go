// Package alto reads ALTO page files, the per-page OCR output referenced by
// an issue's METS structure document.
//
// Elements are matched by local name: the older files in the collection are
// not namespaced while newer ones declare the ALTO namespace as default.
package alto

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/beevik/etree"
	corpus "github.com/pulibrary/corpus-generator"
	"golang.org/x/net/html/charset"
)

// Hyphenation roles carried by the SUBS_TYPE attribute of a String token.
const (
	hyphenFirstPart  = "HypPart1"
	hyphenSecondPart = "HypPart2"
)

// Page is one ALTO page file. The file is parsed on first access and the
// result, including any error, is kept for the lifetime of the Page.
type Page struct {
	path   string
	blocks func() (map[string]string, error)
}

// NewPage returns a Page backed by the file at path. Nothing is read until
// the page's blocks are requested.
func NewPage(path string) *Page {
	p := &Page{path: path}
	p.blocks = sync.OnceValues(p.parse)
	return p
}

// Path returns the file path backing the page.
func (p *Page) Path() string {
	return p.path
}

// FileID returns the trailing underscore-separated token of the file name,
// e.g. "ALTO00001" for "Princetonian_1968-05-06_v92_n061_0001_ALTO00001.xml".
func (p *Page) FileID() string {
	stem := strings.TrimSuffix(filepath.Base(p.path), filepath.Ext(p.path))
	if i := strings.LastIndexByte(stem, '_'); i >= 0 {
		return stem[i+1:]
	}
	return stem
}

// Blocks returns the reconstructed text of every text block, keyed by block ID.
// Returns EACCESS if the file is missing or is not well-formed XML.
func (p *Page) Blocks() (map[string]string, error) {
	return p.blocks()
}

// Block returns the text of the block with the given ID. A block that does
// not exist on the page is reported with ok == false and a nil error; err is
// only set when the page itself cannot be read.
func (p *Page) Block(id string) (text string, ok bool, err error) {
	blocks, err := p.blocks()
	if err != nil {
		return "", false, err
	}
	text, ok = blocks[id]
	return text, ok, nil
}

func (p *Page) parse() (map[string]string, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromFile(p.path); err != nil {
		return nil, corpus.WrapError(corpus.EACCESS, err, "reading page %s", p.path)
	}
	if doc.Root() == nil {
		return nil, corpus.Errorf(corpus.EACCESS, "reading page %s: no root element", p.path)
	}

	blocks := make(map[string]string)
	for _, block := range doc.FindElements("//TextBlock") {
		id := block.SelectAttr("ID")
		if id == nil {
			continue
		}
		blocks[id.Value] = blockText(block)
	}
	return blocks, nil
}

// blockText joins the block's lines with single spaces.
func blockText(block *etree.Element) string {
	var lines []string
	for _, line := range block.SelectElements("TextLine") {
		lines = append(lines, lineText(line))
	}
	return strings.Join(lines, " ")
}

// lineText rebuilds one line from its tokens. A word split across lines is
// emitted whole by its first part; the second part contributes nothing.
// Unknown tokens are ignored.
func lineText(line *etree.Element) string {
	var b strings.Builder
	for _, token := range line.ChildElements() {
		switch token.Tag {
		case "SP":
			b.WriteByte(' ')
		case "HYP":
		case "String":
			switch token.SelectAttrValue("SUBS_TYPE", "") {
			case hyphenFirstPart:
				b.WriteString(token.SelectAttrValue("SUBS_CONTENT", ""))
			case hyphenSecondPart:
			default:
				b.WriteString(token.SelectAttrValue("CONTENT", ""))
			}
		}
	}
	return b.String()
}
