package batch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StdinPath reads one document from standard input.
const StdinPath = "-"

// Document is one plain-text résumé.
type Document struct {
	ID   string
	Path string
	Text string
}

// LoadDocuments reads the given files and every .txt file directly inside the
// given directories. Directory entries are read in name order. A document is
// identified by its file name unless another document shares that name, in
// which case both carry their cleaned path. A file reached twice is read once.
func LoadDocuments(paths []string, stdin io.Reader) ([]Document, error) {
	docs, err := loadDocuments(paths, stdin)
	if err != nil {
		return nil, err
	}
	return uniqueIDs(docs), nil
}

func loadDocuments(paths []string, stdin io.Reader) ([]Document, error) {
	var docs []Document
	for _, path := range paths {
		if path == StdinPath {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return nil, fmt.Errorf("read document from stdin: %w", err)
			}
			docs = append(docs, Document{ID: uuid.NewString(), Path: StdinPath, Text: string(data)})
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		if !info.IsDir() {
			doc, err := readDocument(path)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("read directory %s: %w", path, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
				continue
			}
			doc, err := readDocument(filepath.Join(path, entry.Name()))
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func readDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read document: %w", err)
	}

	id := filepath.Base(path)
	if id == "" || id == "." {
		id = uuid.NewString()
	}
	return Document{ID: id, Path: path, Text: string(data)}, nil
}

func uniqueIDs(docs []Document) []Document {
	seen := make(map[string]bool, len(docs))
	names := make(map[string]int, len(docs))
	out := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if doc.Path != StdinPath {
			doc.Path = filepath.Clean(doc.Path)
			if seen[doc.Path] {
				continue
			}
			seen[doc.Path] = true
		}
		names[doc.ID]++
		out = append(out, doc)
	}

	for i := range out {
		if out[i].Path != StdinPath && names[out[i].ID] > 1 {
			out[i].ID = out[i].Path
		}
	}
	return out
}
