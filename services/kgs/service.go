// Package kgs is the KGS extraction pipeline: credential resolution,
// course listing, and flattening a batch's lesson tree into one
// newline-delimited text file of "label: url" lines.
package kgs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"sdvext-backend/lib/extract"
	scraper "sdvext-backend/lib/scrapers/kgs"
	"sdvext-backend/lib/telemetry"

	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("sdvext.services.kgs")

// credentials arrive as either "<phone>*<password>" or a bare token
const credentialSeparator = "*"

type Options struct {
	// OutputDir is where extraction artifacts are written. Concurrent
	// extractions of the same batch race on the same filename; last
	// writer wins, matching upstream semantics.
	OutputDir string
}

type Service struct {
	client  *scraper.Client
	options Options
}

func NewService(client *scraper.Client, options Options) Service {
	return Service{
		client:  client,
		options: options,
	}
}

// ResolveToken turns a raw credential into a bearer token. A credential
// containing the separator is split once into phone/password and
// exchanged via the login endpoint; anything else is already a token
// and triggers no network call.
func (s Service) ResolveToken(ctx context.Context, credential string) (string, error) {
	phone, password, found := strings.Cut(credential, credentialSeparator)
	if !found {
		return credential, nil
	}
	return s.client.LoginPhonePassword(ctx, phone, password)
}

func (s Service) ListBatches(ctx context.Context, credential string) ([]scraper.Course, error) {
	ctx, span := tracer.Start(ctx, "ListBatches")
	defer span.End()

	token, err := s.ResolveToken(ctx, credential)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	courses, err := s.client.Courses(ctx, token)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return courses, nil
}

// Extract walks every lesson of the batch, collects its videos, and
// writes them as "name: url" lines to KGS_<batch_id>.txt. A lesson
// whose detail fetch fails is logged and skipped; traversal continues.
func (s Service) Extract(ctx context.Context, credential, batchID string) (string, extract.Report, error) {
	ctx, span := tracer.Start(ctx, "Extract")
	defer span.End()

	var report extract.Report

	token, err := s.ResolveToken(ctx, credential)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", report, err
	}

	lessons, err := s.client.Lessons(ctx, token, batchID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", report, fmt.Errorf("fetch lessons: %w", err)
	}
	slog.InfoContext(ctx, "processing lessons", "batch", batchID, "count", len(lessons))

	var buf extract.Buffer
	for _, lesson := range lessons {
		videos, err := s.client.LessonVideos(ctx, token, lesson.ID.String())
		if err != nil {
			slog.ErrorContext(ctx, "failed to fetch lesson, skipping", "lesson", lesson.ID, "err", err)
			report.FetchFailed(lesson.ID.String(), err)
			continue
		}

		emitted := false
		for _, video := range videos {
			if video.VideoURL == "" {
				continue
			}
			name := video.Name
			if name == "" {
				name = "Untitled"
			}
			buf.Line(strings.ReplaceAll(name, ":", " "), video.VideoURL)
			emitted = true
		}
		if emitted {
			report.Emitted(lesson.ID.String())
		} else {
			report.Skipped(lesson.ID.String())
		}
	}

	if buf.Empty() {
		slog.WarnContext(ctx, "no content extracted", "batch", batchID)
		return "", report, extract.ErrNoContent
	}

	path, err := extract.WriteFile(s.options.OutputDir, FileName(batchID), &buf)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", report, err
	}
	return path, report, nil
}

func FileName(batchID string) string {
	return fmt.Sprintf("KGS_%s.txt", batchID)
}
