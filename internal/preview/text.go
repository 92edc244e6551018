package preview

import (
	"bytes"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const (
	DefaultStyle = "catppuccin-mocha"
	tabWidth     = 4
)

func renderText(path string, opts Options) (string, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", false, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, opts.MaxBytes+1))
	if err != nil {
		return "", false, err
	}
	truncated := int64(len(data)) > opts.MaxBytes
	if truncated {
		data = data[:opts.MaxBytes]
	}

	text := strings.ReplaceAll(string(data), "\t", strings.Repeat(" ", tabWidth))
	text = strings.ReplaceAll(text, "\r\n", "\n")

	out, err := Highlight(filepath.Base(path), text, opts.Style)
	if err != nil {
		// Highlighting is cosmetic; show the raw text instead.
		return text, truncated, nil
	}
	return out, truncated, nil
}

// Highlight colours text for a 256-colour terminal. The lexer is chosen from
// the file name first, then by analysing the content.
func Highlight(filename, text, styleName string) (string, error) {
	lexer := lexers.Match(filename)
	if lexer == nil {
		lexer = lexers.Analyse(text)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	if styleName == "" {
		styleName = DefaultStyle
	}
	style := styles.Get(styleName)

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, it); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func hexDump(b []byte) string {
	if len(b) > binaryDumpLen {
		b = b[:binaryDumpLen]
	}
	return hex.Dump(b)
}
