package ingest

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// decodeArchive opens a ZIP upload, finds the first member with a
// supported tabular extension and decodes it recursively. Fails with
// ErrNoArchiveMember when nothing inside is readable.
func (d *Decoder) decodeArchive(filename string, data []byte, opts Options) (*RawTable, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &DecodeError{Format: "zip", Err: err}
	}

	for _, member := range reader.File {
		if member.FileInfo().IsDir() {
			continue
		}
		base := filepath.Base(member.Name)
		if strings.HasPrefix(base, ".") {
			continue // resource forks and hidden files
		}
		if !supportedMember(member.Name) {
			continue
		}

		rc, err := member.Open()
		if err != nil {
			return nil, &DecodeError{Format: "zip", Err: err}
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, &DecodeError{Format: "zip", Err: err}
		}

		table, err := d.Decode(member.Name, content, opts)
		if err != nil {
			return nil, err
		}
		table.Source = filename
		table.Warn("decoded archive member %q", member.Name)
		return table, nil
	}

	return nil, ErrNoArchiveMember
}

func supportedMember(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, supported := range tabularExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}
