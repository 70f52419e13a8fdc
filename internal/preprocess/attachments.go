package preprocess

import (
	"context"
	"net/url"
	"path"
	"strings"
)

// filenameParams are query parameter names commonly carrying a filename.
var filenameParams = []string{"filename", "file", "name", "download"}

// runAttachments finishes attachment handling: every file reference gets a
// filename (inferred from the URL when the source omitted one) and an
// absolute URL, and homework attachments are lifted into the week-level
// flat list annotated with their owning lesson.
func (p *Pipeline) runAttachments(ctx context.Context, raw *RawSchedule) error {
	var flat []*RawOwnedFile

	for _, day := range raw.Days {
		for _, lesson := range day.Lessons {
			for _, f := range lesson.TopicFiles {
				p.normalizeFile(f)
			}
			if lesson.Homework == nil {
				continue
			}
			for _, f := range lesson.Homework.Files {
				p.normalizeFile(f)
				flat = append(flat, &RawOwnedFile{
					RawFile:     *f,
					Day:         day,
					Subject:     lesson.Subject,
					LessonIndex: lesson.Index,
				})
			}
		}
	}

	raw.Attachments = flat
	return nil
}

// normalizeFile fills in a missing filename and absolutizes the URL.
func (p *Pipeline) normalizeFile(f *RawFile) {
	if f.Filename == "" {
		f.Filename = inferFilename(f.URL)
	}
	f.URL = absolutizeURL(p.opts.BaseURL, f.URL)
}

// inferFilename derives a filename from a URL: a filename-like query
// parameter first, then the last path segment, then a generic fallback
// that keeps the extension when one is visible.
func inferFilename(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "link"
	}

	query := parsed.Query()
	for _, param := range filenameParams {
		if v := query.Get(param); v != "" {
			return v
		}
	}

	if tail := path.Base(strings.TrimRight(parsed.Path, "/")); tail != "" && tail != "." && tail != "/" {
		return tail
	}

	if ext := path.Ext(parsed.Path); ext != "" {
		return "link" + ext
	}
	return "link"
}

// absolutizeURL resolves a portal-relative URL against the base URL.
// Absolute URLs pass through untouched.
func absolutizeURL(baseURL, rawURL string) string {
	if baseURL == "" || rawURL == "" || !strings.HasPrefix(rawURL, "/") {
		return rawURL
	}
	return strings.TrimRight(baseURL, "/") + rawURL
}
