// Package preview renders the content of the selected file for the preview
// pane: highlighted text, a block-character image or a hex dump.
package preview

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-enry/go-enry/v2"
)

// Mode is how a file is previewed.
type Mode int

const (
	Text Mode = iota
	Image
	Binary
)

func (m Mode) String() string {
	switch m {
	case Image:
		return "image"
	case Binary:
		return "binary"
	default:
		return "text"
	}
}

const (
	DefaultMaxBytes = 256 * 1024
	sniffLen        = 8000
	binaryDumpLen   = 512
)

// Options controls rendering.
type Options struct {
	// MaxBytes caps how much of a text file is read.
	MaxBytes int64
	// Width and Height are the size of the preview box in cells.
	Width  int
	Height int
	// Style is a chroma style name.
	Style string
	// Hash adds the SHA-256 of the file to Info.
	Hash bool
}

// Info describes the previewed file.
type Info struct {
	Size     int64
	ModTime  time.Time
	MIME     string
	Language string
	SHA256   string
}

// Result is a rendered preview. Err is set when the content could not be
// shown; Body is empty in that case.
type Result struct {
	Path      string
	Mode      Mode
	Body      string
	Info      Info
	Truncated bool
	Err       error
}

var imageExts = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
}

// ModeFor picks the preview mode from the file name and its first bytes.
func ModeFor(path string, head []byte) Mode {
	if _, ok := imageExts[strings.ToLower(filepath.Ext(path))]; ok {
		return Image
	}
	if enry.IsBinary(head) {
		return Binary
	}
	return Text
}

// Render previews path. It never panics on bad input; failures end up in
// Result.Err.
func Render(path string, opts Options) Result {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	res := Result{Path: path}

	st, err := os.Stat(path)
	if err != nil {
		res.Err = err
		return res
	}
	if st.IsDir() {
		res.Err = fmt.Errorf("%s is a directory", path)
		return res
	}
	res.Info = Info{
		Size:    st.Size(),
		ModTime: st.ModTime(),
		MIME:    DetectMIME(filepath.Ext(path)),
	}

	head, err := readHead(path, sniffLen)
	if err != nil {
		res.Err = err
		return res
	}
	res.Mode = ModeFor(path, head)
	if res.Mode != Image {
		res.Info.Language = enry.GetLanguage(filepath.Base(path), head)
	}
	if opts.Hash {
		res.Info.SHA256 = HashFile(path)
	}

	switch res.Mode {
	case Image:
		res.Body, res.Err = renderImage(path, opts.Width, opts.Height)
	case Binary:
		res.Body = hexDump(head)
		res.Truncated = st.Size() > int64(min(len(head), binaryDumpLen))
	default:
		res.Body, res.Truncated, res.Err = renderText(path, opts)
	}
	if res.Err != nil {
		res.Body = ""
	}
	return res
}

func readHead(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:read], nil
}

// DetectMIME maps an extension to a MIME type.
func DetectMIME(ext string) string {
	if ext == ".msg" {
		return "application/vnd.ms-outlook"
	}
	mt := mime.TypeByExtension(ext)
	if mt != "" {
		return mt
	}
	return "application/octet-stream"
}

// HashFile returns the hex SHA-256 of the file, or "" if it cannot be read.
func HashFile(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return ""
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
