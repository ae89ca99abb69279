package service

import (
	"context"
	"io"
	"strings"

	"docchat/internal/extractor"
	"docchat/internal/model"
	"docchat/internal/storage"
)

// DocumentReport records the per-document outcome of context assembly. A
// failed fetch or parse excludes only that document; the report keeps the
// failure visible instead of letting it vanish.
type DocumentReport struct {
	Filename  string `json:"filename"`
	Extracted bool   `json:"extracted"`
	Error     string `json:"error,omitempty"`
}

// assembleContext fetches and extracts every attached document in stored
// order and joins the texts with a blank line. Assembly itself never fails;
// a single bad upload must not block answering. No size bound is enforced.
func assembleContext(ctx context.Context, store storage.Storage, docs []model.Document) (string, []DocumentReport) {
	parts := make([]string, 0, len(docs))
	reports := make([]DocumentReport, 0, len(docs))

	for _, doc := range docs {
		report := DocumentReport{Filename: doc.Filename}

		data, err := fetchBlob(ctx, store, doc.StorageKey)
		if err != nil {
			report.Error = "fetch: " + err.Error()
			reports = append(reports, report)
			continue
		}

		text, err := extractor.Extract(data, doc.Type)
		if err != nil {
			report.Error = "extract: " + err.Error()
			reports = append(reports, report)
			continue
		}

		report.Extracted = true
		reports = append(reports, report)
		parts = append(parts, text)
	}

	return strings.Join(parts, "\n\n"), reports
}

func fetchBlob(ctx context.Context, store storage.Storage, key string) ([]byte, error) {
	rc, _, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
