package lsp

import (
	"sort"
	"unicode/utf8"

	"fortio.org/safecast"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"quill/internal/source"
)

const maxUint32 = ^uint32(0)

func safeUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return maxUint32
	}
	return v
}

// utf16Len is the number of UTF-16 code units of r; invalid bytes count as one.
func utf16Len(r rune) uint32 {
	if r > 0xFFFF {
		return 2
	}
	return 1
}

// lineBounds returns the byte range of 0-based line, without its '\n'.
func lineBounds(content []byte, lineIdx []uint32, line uint32) (start, end uint32) {
	contentLen := safeUint32(len(content))
	if line > 0 {
		start = lineIdx[line-1] + 1
	}
	end = contentLen
	if int(line) < len(lineIdx) {
		end = lineIdx[line]
	}
	return start, end
}

// offsetForPosition maps an LSP position (0-based line, UTF-16 character) to a
// byte offset in content. Positions past the end of a line clamp to its end.
func offsetForPosition(content []byte, lineIdx []uint32, pos protocol.Position) uint32 {
	if int(pos.Line) > len(lineIdx) {
		return safeUint32(len(content))
	}
	lineStart, lineEnd := lineBounds(content, lineIdx, pos.Line)
	var units uint32
	off := lineStart
	for off < lineEnd && units < pos.Character {
		r, size := utf8.DecodeRune(content[off:lineEnd])
		need := utf16Len(r)
		if units+need > pos.Character {
			break
		}
		units += need
		off += safeUint32(size)
	}
	return off
}

// positionForOffset is the inverse of offsetForPosition.
func positionForOffset(content []byte, lineIdx []uint32, offset uint32) protocol.Position {
	contentLen := safeUint32(len(content))
	if offset > contentLen {
		offset = contentLen
	}
	line := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= offset })
	lineStart, _ := lineBounds(content, lineIdx, safeUint32(line))
	var units uint32
	for off := lineStart; off < offset; {
		r, size := utf8.DecodeRune(content[off:offset])
		units += utf16Len(r)
		off += safeUint32(size)
	}
	return protocol.Position{Line: safeUint32(line), Character: units}
}

// rangeForSpan converts a span of file into an LSP range.
func rangeForSpan(file *source.File, span source.Span) protocol.Range {
	if file == nil {
		return protocol.Range{}
	}
	return protocol.Range{
		Start: positionForOffset(file.Content, file.LineIdx, span.Start.Offset),
		End:   positionForOffset(file.Content, file.LineIdx, span.End.Offset),
	}
}
