package convert

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"

	"reflow/archive"
)

type srcEncoding int

const (
	encUnknown srcEncoding = iota
	encUTF8
	encUTF16BigEndian
	encUTF16LittleEndian
	encUTF32BigEndian
	encUTF32LittleEndian
)

type docKind int

const (
	docNone docKind = iota
	docHTML
	docXHTML
)

func (k docKind) String() string {
	switch k {
	case docHTML:
		return "html"
	case docXHTML:
		return "xhtml"
	}
	return "none"
}

// sniffLen is how much of the file is examined to detect its type.
const sniffLen = 1024

var (
	typeHTML  = filetype.NewType("html", "text/html")
	typeXHTML = filetype.NewType("xhtml", "application/xhtml+xml")
)

func init() {
	// xhtml goes first: html matcher would accept it as well
	filetype.AddMatcher(typeXHTML, matchXHTML)
	filetype.AddMatcher(typeHTML, matchHTML)
}

func lowerHead(buf []byte) []byte {
	return bytes.ToLower(bytes.TrimLeft(buf, " \t\r\n"))
}

func matchXHTML(buf []byte) bool {
	head := lowerHead(buf)
	if !bytes.HasPrefix(head, []byte("<?xml")) {
		return false
	}
	return bytes.Contains(head, []byte("<html")) || bytes.Contains(head, []byte("<body"))
}

func matchHTML(buf []byte) bool {
	head := lowerHead(buf)
	return bytes.HasPrefix(head, []byte("<!doctype html")) ||
		bytes.HasPrefix(head, []byte("<html")) ||
		bytes.Contains(head, []byte("<body"))
}

func isUTF8BOM3(buf []byte) bool {
	return buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF
}

func isUTF16BigEndianBOM2(buf []byte) bool {
	return buf[0] == 0xFE && buf[1] == 0xFF
}

func isUTF16LittleEndianBOM2(buf []byte) bool {
	return buf[0] == 0xFF && buf[1] == 0xFE
}

func isUTF32BigEndianBOM4(buf []byte) bool {
	return buf[0] == 0x00 && buf[1] == 0x00 && buf[2] == 0xFE && buf[3] == 0xFF
}

func isUTF32LittleEndianBOM4(buf []byte) bool {
	return buf[0] == 0xFF && buf[1] == 0xFE && buf[2] == 0x00 && buf[3] == 0x00
}

// detectUTF looks for byte order mark. UTF-32LE must be checked before
// UTF-16LE, they share first two bytes.
func detectUTF(buf []byte) srcEncoding {
	switch {
	case len(buf) >= 4 && isUTF32BigEndianBOM4(buf):
		return encUTF32BigEndian
	case len(buf) >= 4 && isUTF32LittleEndianBOM4(buf):
		return encUTF32LittleEndian
	case len(buf) >= 3 && isUTF8BOM3(buf):
		return encUTF8
	case len(buf) >= 2 && isUTF16BigEndianBOM2(buf):
		return encUTF16BigEndian
	case len(buf) >= 2 && isUTF16LittleEndianBOM2(buf):
		return encUTF16LittleEndian
	}
	return encUnknown
}

func decoderFor(enc srcEncoding) transform.Transformer {
	switch enc {
	case encUnknown:
		return transform.Nop
	case encUTF8:
		return unicode.UTF8BOM.NewDecoder()
	case encUTF16BigEndian:
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
	case encUTF16LittleEndian:
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
	case encUTF32BigEndian:
		return utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM).NewDecoder()
	case encUTF32LittleEndian:
		return utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM).NewDecoder()
	}
	// this should never happen
	panic(fmt.Sprintf("unexpected source encoding %d", enc))
}

// selectReader returns reader producing UTF-8 for documents with byte order
// mark, other documents are returned as is.
func selectReader(r io.Reader, enc srcEncoding) io.Reader {
	if enc == encUnknown {
		return r
	}
	return transform.NewReader(r, decoderFor(enc))
}

// detectDocument recognizes document by its first bytes, file extension is
// used when content is inconclusive.
func detectDocument(name string, head []byte) (docKind, srcEncoding) {
	enc := detectUTF(head)
	if enc != encUnknown {
		// keep whole code units so decoder does not complain
		head = head[:len(head)&^3]
		if decoded, _, err := transform.Bytes(decoderFor(enc), head); err == nil {
			head = decoded
		}
	}

	kind, _ := filetype.Match(head)
	switch kind {
	case typeXHTML:
		return docXHTML, enc
	case typeHTML:
		return docHTML, enc
	case types.Unknown:
		switch strings.ToLower(filepath.Ext(name)) {
		case ".xhtml", ".xht":
			return docXHTML, enc
		case ".html", ".htm":
			return docHTML, enc
		}
	}
	return docNone, enc
}

func readHead(r io.Reader) ([]byte, error) {
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

func isArchiveFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head, err := readHead(f)
	if err != nil {
		return false, err
	}
	return filetype.Is(head, "zip"), nil
}

func isDocumentFile(path string) (docKind, srcEncoding, error) {
	f, err := os.Open(path)
	if err != nil {
		return docNone, encUnknown, err
	}
	defer f.Close()

	head, err := readHead(f)
	if err != nil {
		return docNone, encUnknown, err
	}
	kind, enc := detectDocument(path, head)
	return kind, enc, nil
}

func isDocumentInArchive(f *archive.File) (docKind, srcEncoding, error) {
	r, err := f.Open()
	if err != nil {
		return docNone, encUnknown, err
	}
	defer r.Close()

	head, err := readHead(r)
	if err != nil {
		return docNone, encUnknown, err
	}
	kind, enc := detectDocument(f.FileHeader.Name, head)
	return kind, enc, nil
}
