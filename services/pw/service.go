// Package pw is the PenPencil extraction pipeline: paginated batch
// listing, subject tree traversal, and per-content-type normalization
// into one newline-delimited text file.
package pw

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"sdvext-backend/lib/extract"
	"sdvext-backend/lib/scrapers/penpencil"
	"sdvext-backend/lib/telemetry"

	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("sdvext.services.pw")

// Hard page caps. The upstream has no documented end-of-data signal
// besides an empty page, so these bound the traversal if it keeps
// returning data forever. Hitting one is logged and flagged on the
// report, not treated as an error.
const (
	maxBatchPages   = 10
	maxContentPages = 30
)

type Options struct {
	// OutputDir is where extraction artifacts are written. Concurrent
	// extractions of the same batch and content type race on the same
	// filename; last writer wins, matching upstream semantics.
	OutputDir string
}

type Service struct {
	client  *penpencil.Client
	options Options
}

func NewService(client *penpencil.Client, options Options) Service {
	return Service{
		client:  client,
		options: options,
	}
}

// ListBatches pages through my-batches until the first empty page or
// the hard cap. An unauthorized page aborts the whole listing and
// discards batches collected on earlier pages; any other failed page
// stops pagination and keeps what was collected.
func (s Service) ListBatches(ctx context.Context, token string) ([]penpencil.Batch, error) {
	ctx, span := tracer.Start(ctx, "ListBatches")
	defer span.End()

	var all []penpencil.Batch
	for page := 1; ; page++ {
		if page > maxBatchPages {
			slog.WarnContext(ctx, "reached page limit fetching batches", "limit", maxBatchPages)
			break
		}

		batches, err := s.client.MyBatches(ctx, token, page)
		if errors.Is(err, extract.ErrTokenRejected) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to fetch batch page, stopping", "page", page, "err", err)
			break
		}
		if len(batches) == 0 {
			break
		}
		all = append(all, batches...)
	}
	return all, nil
}

// Extract walks every subject of the batch sequentially, paging its
// content list until exhausted or capped, normalizing each record per
// the content type, and writes the result to
// PW_<batch_id>_<content_type>.txt.
func (s Service) Extract(ctx context.Context, token, batchID string, contentType ContentType) (string, extract.Report, error) {
	ctx, span := tracer.Start(ctx, "Extract")
	defer span.End()

	var report extract.Report

	subjects, err := s.client.BatchSubjects(ctx, token, batchID)
	if errors.Is(err, extract.ErrTokenRejected) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", report, err
	}
	if err != nil {
		// other subject listing failures are not fatal by themselves,
		// the traversal just has nothing to walk
		slog.ErrorContext(ctx, "failed to fetch subjects", "batch", batchID, "err", err)
		subjects = nil
	}
	if len(subjects) == 0 {
		slog.WarnContext(ctx, "no subjects found", "batch", batchID)
		return "", report, extract.ErrNoContent
	}
	slog.InfoContext(ctx, "processing subjects", "batch", batchID, "count", len(subjects), "content_type", contentType)

	var buf extract.Buffer
	for _, subject := range subjects {
		buf.Header(subject.Name)

		for page := 1; ; page++ {
			if page > maxContentPages {
				slog.WarnContext(ctx, "reached page limit for subject", "subject", subject.Name, "limit", maxContentPages)
				report.Truncated = true
				break
			}

			items, err := s.client.SubjectContents(ctx, token, batchID, subject.ID, string(contentType), page)
			if err != nil {
				slog.ErrorContext(ctx, "failed to fetch content page, stopping subject", "subject", subject.Name, "page", page, "err", err)
				break
			}
			if len(items) == 0 {
				break
			}

			for _, item := range items {
				pairs := normalize(contentType, item)
				if len(pairs) == 0 {
					report.Skipped(itemLabel(item))
					continue
				}
				for _, pair := range pairs {
					buf.Line(pair.Label, pair.URL)
				}
				report.Emitted(itemLabel(item))
			}
		}
	}

	if buf.Empty() {
		slog.WarnContext(ctx, "no content extracted", "batch", batchID, "content_type", contentType)
		return "", report, extract.ErrNoContent
	}

	path, err := extract.WriteFile(s.options.OutputDir, FileName(batchID, contentType), &buf)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", report, err
	}
	return path, report, nil
}

func itemLabel(item penpencil.Content) string {
	if item.Topic != "" {
		return item.Topic
	}
	if len(item.HomeworkIDs) > 0 {
		return item.HomeworkIDs[0].Topic
	}
	return "(untitled)"
}

func FileName(batchID string, contentType ContentType) string {
	return fmt.Sprintf("PW_%s_%s.txt", batchID, contentType)
}
