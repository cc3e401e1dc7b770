package pw

import (
	"fmt"
	"strings"

	"sdvext-backend/lib/scrapers/penpencil"
)

// ContentType selects which of the four record shapes applies to a
// subject's content list. The set is closed: ParseContentType rejects
// anything else before a single network call is made.
type ContentType string

const (
	ContentExercisesNotesVideos ContentType = "exercises-notes-videos"
	ContentNotes                ContentType = "notes"
	ContentDppNotes             ContentType = "DppNotes"
	ContentDppSolution          ContentType = "DppSolution"
)

func ParseContentType(tag string) (ContentType, error) {
	switch ContentType(tag) {
	case ContentExercisesNotesVideos, ContentNotes, ContentDppNotes, ContentDppSolution:
		return ContentType(tag), nil
	}
	return "", fmt.Errorf("unknown content type %q", tag)
}

// Pair is one extracted label/url line.
type Pair struct {
	Label string
	URL   string
}

// normalize maps one fetched record onto zero or more pairs. It never
// fails: records missing the structures their content type expects
// yield zero pairs and the traversal moves on.
func normalize(contentType ContentType, item penpencil.Content) []Pair {
	switch contentType {
	case ContentExercisesNotesVideos:
		return extractTopicURL(item, item.URL)
	case ContentNotes:
		return extractFirstHomework(item)
	case ContentDppNotes:
		return extractEveryHomework(item)
	case ContentDppSolution:
		return extractTopicURL(item, rewriteSolutionURL(item.URL))
	}
	return nil
}

func extractTopicURL(item penpencil.Content, url string) []Pair {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	return []Pair{{Label: topicOrUntitled(item.Topic), URL: url}}
}

// the first homework's first attachment
func extractFirstHomework(item penpencil.Content) []Pair {
	if len(item.HomeworkIDs) == 0 {
		return nil
	}
	homework := item.HomeworkIDs[0]
	if len(homework.AttachmentIDs) == 0 {
		return nil
	}
	attachment := homework.AttachmentIDs[0]
	return []Pair{{
		Label: topicOrUntitled(homework.Topic),
		URL:   attachment.BaseURL + attachment.Key,
	}}
}

// one pair per homework entry, each taking its first attachment
func extractEveryHomework(item penpencil.Content) []Pair {
	var pairs []Pair
	for _, homework := range item.HomeworkIDs {
		if len(homework.AttachmentIDs) == 0 {
			continue
		}
		attachment := homework.AttachmentIDs[0]
		pairs = append(pairs, Pair{
			Label: topicOrUntitled(homework.Topic),
			URL:   attachment.BaseURL + attachment.Key,
		})
	}
	return pairs
}

// rewriteSolutionURL swaps the playback CDN host token and the mpd
// manifest extension for their m3u8 equivalents. Both are unconditional
// substring replacements, not path-aware rewrites, and apply anywhere
// in the url, matching the upstream app.
func rewriteSolutionURL(url string) string {
	url = strings.ReplaceAll(url, "d1d34p8vz63oiq", "d26g5bnklkwsh4")
	url = strings.ReplaceAll(url, "mpd", "m3u8")
	return url
}

func topicOrUntitled(topic string) string {
	if topic == "" {
		return "Untitled"
	}
	return topic
}
