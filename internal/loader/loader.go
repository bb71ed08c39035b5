// ABOUTME: Document loader for PDF and TXT files
// ABOUTME: PDF text is pulled from content streams via pdfcpu, best-effort
package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"

	"github.com/harper/audit-assistant/internal/models"
)

// LoadError is a per-document failure. Batch ingestion logs it and moves on.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// FileLoader loads PDF and TXT files into Documents.
type FileLoader struct{}

// NewFileLoader creates a FileLoader.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load reads one file and returns a Document with a path-derived ID.
func (l *FileLoader) Load(path string) (models.Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return models.Document{}, &LoadError{Path: path, Err: err}
		}
		return models.NewDocument(path, strings.TrimSpace(string(data))), nil

	case ".pdf":
		text, err := extractPDFText(path)
		if err != nil {
			return models.Document{}, &LoadError{Path: path, Err: err}
		}
		return models.NewDocument(path, text), nil

	default:
		return models.Document{}, &LoadError{Path: path, Err: fmt.Errorf("unsupported file type %q", filepath.Ext(path))}
	}
}

// ListSupported returns the supported files in a directory, sorted so
// batch ingestion order is deterministic.
func (l *FileLoader) ListSupported(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".pdf", ".txt":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// textShowOp matches literal-string text-show operators (Tj / TJ arrays)
// in a decoded PDF content stream.
var textShowOp = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)\s*(?:Tj|TJ)`)

// pdfEscapes maps PDF literal-string escapes to their characters.
var pdfEscapes = strings.NewReplacer(
	`\n`, "\n", `\r`, "\r", `\t`, "\t",
	`\(`, "(", `\)`, ")", `\\`, `\`,
)

// extractPDFText pulls text from every page's content stream. This handles
// the simple, uncompressed-font PDFs audit teams actually upload; scanned
// PDFs yield no text and fail with an explicit error.
func extractPDFText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	ctx, err := api.ReadValidateAndOptimize(f, api.LoadConfiguration())
	if err != nil {
		return "", fmt.Errorf("failed to parse PDF: %w", err)
	}

	var text strings.Builder
	for page := 1; page <= ctx.PageCount; page++ {
		r, err := pdfcpu.ExtractPageContent(ctx, page)
		if err != nil {
			return "", fmt.Errorf("failed to extract page %d: %w", page, err)
		}
		if r == nil {
			continue
		}
		content, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d content: %w", page, err)
		}

		for _, match := range textShowOp.FindAllSubmatch(content, -1) {
			text.WriteString(pdfEscapes.Replace(string(match[1])))
			text.WriteString(" ")
		}
		text.WriteString("\n")
	}

	out := strings.TrimSpace(text.String())
	if out == "" {
		return "", fmt.Errorf("no extractable text (scanned or image-only PDF?)")
	}
	return out, nil
}
