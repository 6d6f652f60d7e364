package lsp

import (
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"quill/internal/source"
)

type document struct {
	uri     protocol.DocumentUri
	version protocol.Integer
	text    []byte
}

// documents holds the text of open buffers, keyed by URI.
type documents struct {
	mu   sync.Mutex
	docs map[protocol.DocumentUri]*document
}

func newDocuments() *documents {
	return &documents{docs: make(map[protocol.DocumentUri]*document)}
}

func (d *documents) open(uri protocol.DocumentUri, version protocol.Integer, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.docs[uri] = &document{uri: uri, version: version, text: []byte(text)}
}

func (d *documents) close(uri protocol.DocumentUri) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.docs, uri)
}

// snapshot returns a copy of the buffer so parsing can run without the lock.
func (d *documents) snapshot(uri protocol.DocumentUri) (document, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc, ok := d.docs[uri]
	if !ok {
		return document{}, false
	}
	out := *doc
	out.text = append([]byte(nil), doc.text...)
	return out, true
}

// apply applies content changes in order. Whole-document events replace the
// text, ranged events splice it using UTF-16 positions.
func (d *documents) apply(uri protocol.DocumentUri, version protocol.Integer, changes []any) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc, ok := d.docs[uri]
	if !ok {
		return false
	}
	for _, ch := range changes {
		switch c := ch.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			doc.text = []byte(c.Text)
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				doc.text = []byte(c.Text)
				continue
			}
			doc.text = splice(doc.text, *c.Range, c.Text)
		}
	}
	doc.version = version
	return true
}

func splice(text []byte, r protocol.Range, repl string) []byte {
	lineIdx := source.LineIndex(text)
	start := offsetForPosition(text, lineIdx, r.Start)
	end := offsetForPosition(text, lineIdx, r.End)
	if end < start {
		start, end = end, start
	}
	out := make([]byte, 0, len(text)-int(end-start)+len(repl))
	out = append(out, text[:start]...)
	out = append(out, repl...)
	return append(out, text[end:]...)
}
