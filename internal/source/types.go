package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual marks files added from memory (tests, stdin, LSP buffers).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	// FileHasCRLF is informational only: content is kept verbatim and the lexer
	// counts "\r\n" as a single newline.
	FileHasCRLF
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	// LineIdx holds byte offsets of every '\n'.
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags

	text string
}

// Text returns the content as an immutable string. Tokens slice into it, so
// the conversion happens once per file.
func (f *File) Text() string {
	return f.text
}
