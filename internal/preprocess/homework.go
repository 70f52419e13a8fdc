package preprocess

import (
	"context"
	"net/url"
	"strings"
)

// runHomework normalizes every homework block: text fragments are joined,
// each link's true destination is resolved, and links that duplicate an
// attachment are dropped.
func (p *Pipeline) runHomework(ctx context.Context, raw *RawSchedule) error {
	for _, day := range raw.Days {
		for _, lesson := range day.Lessons {
			hw := lesson.Homework
			if hw == nil {
				continue
			}

			hw.Text = combineFragments(hw.Fragments)

			for _, link := range hw.Links {
				original, destination, err := resolveLink(link.URL)
				if err != nil {
					return err
				}
				link.OriginalURL = original
				link.DestinationURL = destination
			}

			hw.Links = dropAttachmentDuplicates(hw.Links, hw.Files)
		}
	}
	return nil
}

// combineFragments joins non-empty text fragments with single spaces.
func combineFragments(fragments []string) string {
	cleaned := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if trimmed := strings.TrimSpace(f); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, " ")
}

// resolveLink determines a link's true destination.
//
// The portal wraps external resources (uzdevumi.lv and friends) in an OAuth
// redirect carrying the real address in the destination_uri query parameter.
// Portal-internal attachment paths have no external destination. Anything
// else passes through, defaulted to https when the scheme is missing.
func resolveLink(rawURL string) (original, destination string, err error) {
	if rawURL == "" {
		return "", "", stageErr("homework", "empty link URL", rawURL)
	}

	if strings.Contains(rawURL, "RemoteApp") && strings.Contains(rawURL, "destination_uri") {
		parsed, err := url.Parse(rawURL)
		if err != nil {
			return rawURL, "", nil // unparsable wrapper, keep the original only
		}
		dest := parsed.Query().Get("destination_uri")
		if dest == "" {
			return rawURL, "", nil
		}
		return rawURL, ensureScheme(dest), nil
	}

	if strings.HasPrefix(rawURL, "/Attachment/Get/") {
		return rawURL, "", nil
	}

	clean := ensureScheme(rawURL)
	parsed, parseErr := url.Parse(clean)
	if parseErr != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", "", stageErr("homework", "invalid link URL", rawURL)
	}
	return rawURL, clean, nil
}

func ensureScheme(rawURL string) string {
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return rawURL
	}
	return "https://" + rawURL
}

// dropAttachmentDuplicates removes links whose effective URL is already
// present among the homework files, so the same document is not reported
// twice as both a link and a named attachment.
func dropAttachmentDuplicates(links []*RawLink, files []*RawFile) []*RawLink {
	if len(links) == 0 || len(files) == 0 {
		return links
	}

	fileURLs := make(map[string]bool, len(files))
	for _, f := range files {
		if f.URL != "" {
			fileURLs[f.URL] = true
		}
	}

	kept := links[:0]
	for _, link := range links {
		effective := link.DestinationURL
		if effective == "" {
			effective = link.OriginalURL
		}
		if effective != "" && !fileURLs[effective] {
			kept = append(kept, link)
		}
	}
	return kept
}
