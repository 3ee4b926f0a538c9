package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"phpflow/internal/config"
	"phpflow/internal/diag"
	"phpflow/internal/source"
)

// Bump when Payload or any analysis result changes.
const cacheSchemaVersion uint16 = 1

// Digest is a SHA-256 cache key.
type Digest [32]byte

// DiskCache stores per-file diagnostics keyed by content and settings.
// Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedNote is a Note with the file left implicit.
type CachedNote struct {
	Line    uint32
	EndLine uint32
	Msg     string
}

// CachedDiagnostic is a Diagnostic with the file left implicit; file ids
// differ between runs.
type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Line     uint32
	EndLine  uint32
	Notes    []CachedNote
}

// Payload is what one cache entry holds.
type Payload struct {
	Schema      uint16
	Path        string
	Diagnostics []CachedDiagnostic
}

// OpenDiskCache opens $XDG_CACHE_HOME/<app>, falling back to ~/.cache/<app>.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "files", hexKey[:2], hexKey+".mp")
}

// Put writes payload atomically.
func (c *DiskCache) Put(key Digest, payload *Payload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the payload for key. Entries from another schema are misses.
func (c *DiskCache) Get(key Digest, out *Payload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("driver: corrupt cache entry: %w", err)
	}
	return out.Schema == cacheSchemaVersion, nil
}

// DropAll removes every entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// settings is the part of the configuration that changes results.
type settings struct {
	Schema          uint16
	Undefined       bool
	DeadCode        bool
	MaybeUndefined  bool
	IgnoreVariables []string
	Command         []string
}

// cacheKey hashes the schema, the analysis settings and every content
// blob the result depends on.
func cacheKey(cfg config.Config, contents ...[]byte) (Digest, error) {
	s, err := msgpack.Marshal(settings{
		Schema:          cacheSchemaVersion,
		Undefined:       cfg.Analysis.Undefined,
		DeadCode:        cfg.Analysis.DeadCode,
		MaybeUndefined:  cfg.Analysis.MaybeUndefined,
		IgnoreVariables: cfg.Analysis.IgnoreVariables,
		Command:         cfg.Frontend.Command,
	})
	if err != nil {
		return Digest{}, err
	}
	h := sha256.New()
	_, _ = h.Write(s)
	for _, c := range contents {
		sum := sha256.Sum256(c)
		_, _ = h.Write(sum[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out, nil
}

func toPayload(path string, items []diag.Diagnostic) *Payload {
	p := &Payload{Schema: cacheSchemaVersion, Path: path, Diagnostics: make([]CachedDiagnostic, len(items))}
	for i, d := range items {
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Line:     d.Primary.Line,
			EndLine:  d.Primary.EndLine,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Line: n.Span.Line, EndLine: n.Span.EndLine, Msg: n.Msg})
		}
		p.Diagnostics[i] = cd
	}
	return p
}

func fromPayload(p *Payload, file source.FileID, bag *diag.Bag) {
	for _, cd := range p.Diagnostics {
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code),
			source.Span{File: file, Line: cd.Line, EndLine: cd.EndLine}, cd.Message)
		for _, n := range cd.Notes {
			d = d.WithNote(source.Span{File: file, Line: n.Line, EndLine: n.EndLine}, n.Msg)
		}
		bag.Add(d)
	}
}
