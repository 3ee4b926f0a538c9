package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
)

type (
	// FileID uniquely identifies a file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a file.
	FileFlags uint8
)

const (
	// FileVirtual marks content added from memory (tests, stdin).
	FileVirtual FileFlags = 1 << iota
	// FileSyntaxDump marks a JSON syntax-tree dump rather than PHP source.
	FileSyntaxDump
)

// File is one input of a run. Content is whatever was read from disk: PHP
// source or a syntax-tree dump.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Hash    [32]byte
	Flags   FileFlags

	lines []uint32 // offsets of '\n'
}

// FileSet owns every file loaded during one run.
type FileSet struct {
	files []File
	index map[string]FileID
}

func NewFileSet() *FileSet {
	return &FileSet{index: make(map[string]FileID)}
}

// Add stores content under path and returns a fresh id, even when the path
// was added before; lookups by path see the latest version.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("source: file count overflow: %w", err))
	}
	id := FileID(n)
	norm := filepath.ToSlash(filepath.Clean(path))
	if strings.EqualFold(filepath.Ext(norm), ".json") {
		flags |= FileSyntaxDump
	}
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    norm,
		Content: content,
		Hash:    sha256.Sum256(content),
		Flags:   flags,
		lines:   lineIndex(content),
	})
	fs.index[norm] = id
	return id
}

// Load reads path from disk.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return fs.Add(path, content, 0), nil
}

func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get returns nil for an unknown id.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

func (fs *FileSet) Lookup(path string) (*File, bool) {
	id, ok := fs.index[filepath.ToSlash(filepath.Clean(path))]
	if !ok {
		return nil, false
	}
	return &fs.files[id], true
}

func (fs *FileSet) Len() int { return len(fs.files) }

// Line returns the text of the 1-based line n without its newline, or "" when
// n is out of range.
func (f *File) Line(n uint32) string {
	if n == 0 {
		return ""
	}
	idx := int(n) - 1
	if idx > len(f.lines) {
		return ""
	}
	start := 0
	if idx > 0 {
		start = int(f.lines[idx-1]) + 1
	}
	end := len(f.Content)
	if idx < len(f.lines) {
		end = int(f.lines[idx])
	}
	if start > end {
		return ""
	}
	return strings.TrimSuffix(string(f.Content[start:end]), "\r")
}

// LineCount is the number of lines, counting a trailing unterminated one.
func (f *File) LineCount() int {
	if len(f.Content) == 0 {
		return 0
	}
	if f.Content[len(f.Content)-1] == '\n' {
		return len(f.lines)
	}
	return len(f.lines) + 1
}

func lineIndex(content []byte) []uint32 {
	var out []uint32
	for i, b := range content {
		if b == '\n' {
			off, err := safecast.Conv[uint32](i)
			if err != nil {
				panic(fmt.Errorf("source: file too large: %w", err))
			}
			out = append(out, off)
		}
	}
	return out
}
