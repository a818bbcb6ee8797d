package service

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExportService renders archive content into downloadable documents.
type ExportService struct {
	archive *ArchiveService
}

func NewExportService(archive *ArchiveService) *ExportService {
	return &ExportService{archive: archive}
}

// ArchiveJSON serializes the full archive. Returns the document and its
// download filename.
func (s *ExportService) ArchiveJSON() ([]byte, string, error) {
	data, err := json.MarshalIndent(s.archive.List(), "", "  ")
	if err != nil {
		return nil, "", err
	}
	return data, "trace_archive.json", nil
}

// ResultJSON serializes a single archived result.
func (s *ExportService) ResultJSON(id string) ([]byte, string, error) {
	res, ok := s.archive.Get(id)
	if !ok {
		return nil, "", fmt.Errorf("result %s not archived", id)
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("trace_extract_%s.json", id), nil
}

// ResultMarkdown renders a single archived result as a Markdown bullet
// list, one "name (category): note" line per tool.
func (s *ExportService) ResultMarkdown(id string) ([]byte, string, error) {
	res, ok := s.archive.Get(id)
	if !ok {
		return nil, "", fmt.Errorf("result %s not archived", id)
	}

	var b strings.Builder
	title := "Extracted Tools"
	if res.Video != nil && res.Video.Title != "" {
		title = res.Video.Title
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	for _, tool := range res.Tools {
		note := ""
		if len(tool.Notes) > 0 {
			note = tool.Notes[0]
		}
		fmt.Fprintf(&b, "- %s (%s): %s\n", tool.Name, tool.Category, note)
	}

	return []byte(b.String()), fmt.Sprintf("trace_extract_%s.md", id), nil
}
