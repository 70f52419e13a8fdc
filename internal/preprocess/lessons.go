package preprocess

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// unnumberedToken is rendered by the portal for lessons outside the regular
// numbering, e.g. class hours and consultations.
const unnumberedToken = "·"

var (
	parentheticalRe = regexp.MustCompile(`\s*\([^()]*\)`)
	trailingRoomRe  = regexp.MustCompile(`(\d{2,3})$`)
)

// knownRoomCodes are non-numeric room designators used by the school
// (sporta zāle, mazā zāle, aktu zāle, peldbaseina zāle).
var knownRoomCodes = []string{"sz", "mz", "az", "pz"}

// runLessons normalizes every lesson row: the number token becomes an
// integer index, subject and room are separated, topic text is cleaned and
// topic links are folded into the homework block. Lessons are re-sorted by
// index at the end. A row that cannot be interpreted fails the run.
func (p *Pipeline) runLessons(ctx context.Context, raw *RawSchedule) error {
	for _, day := range raw.Days {
		usedIndices := make(map[int]bool)

		// First pass: parse explicit number tokens and clean fields.
		for _, lesson := range day.Lessons {
			index, err := cleanLessonIndex(lesson.NumberText)
			if err != nil {
				return err
			}
			lesson.Index = index
			if index > 0 {
				usedIndices[index] = true
			}

			if name, room := cleanSubject(lesson.Subject); name != "" {
				lesson.Subject = name
				if room != "" && lesson.Room == "" {
					lesson.Room = room
				}
			}
			lesson.Topic = cleanTopic(lesson.Topic)

			if len(lesson.TopicLinks) > 0 {
				if lesson.Homework == nil {
					lesson.Homework = &RawHomework{}
				}
				lesson.Homework.Links = append(lesson.Homework.Links, lesson.TopicLinks...)
				lesson.TopicLinks = nil
			}
		}

		// Second pass: unnumbered lessons take the next free index in
		// encounter order, never colliding with an explicit one.
		nextIndex := 1
		for _, lesson := range day.Lessons {
			if lesson.Index == 0 {
				for usedIndices[nextIndex] {
					nextIndex++
				}
				lesson.Index = nextIndex
				usedIndices[nextIndex] = true
			}
			if lesson.Index+1 > nextIndex+1 {
				nextIndex = lesson.Index + 1
			} else {
				nextIndex++
			}
		}

		sortLessonsByIndex(day.Lessons)
	}
	return nil
}

// cleanLessonIndex converts a scraped number token into an index.
// The unnumbered token yields 0, to be assigned in the second pass.
func cleanLessonIndex(number string) (int, error) {
	trimmed := strings.TrimSpace(number)
	if trimmed == "" {
		return 0, stageErr("lessons", "empty lesson number", number)
	}
	if trimmed == unnumberedToken {
		return 0, nil
	}

	var digits strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, stageErr("lessons", "invalid lesson number format", number)
	}

	index, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, stageErrWrap("lessons", "invalid lesson number format", number, err)
	}
	return index, nil
}

// cleanSubject strips parentheticals from a combined subject string and
// separates a trailing room designator: two or three trailing digits, or one
// of the known room codes.
func cleanSubject(subject string) (name, room string) {
	if subject == "" {
		return "", ""
	}

	for strings.Contains(subject, "(") {
		stripped := parentheticalRe.ReplaceAllString(subject, "")
		if stripped == subject {
			break // unbalanced parenthesis, nothing more to remove
		}
		subject = stripped
	}
	subject = strings.TrimSpace(subject)

	if m := trailingRoomRe.FindString(subject); m != "" {
		return strings.TrimSpace(subject[:len(subject)-len(m)]), m
	}

	lower := strings.ToLower(subject)
	for _, code := range knownRoomCodes {
		if strings.HasSuffix(lower, code) {
			return strings.TrimSpace(subject[:len(subject)-len(code)]), code
		}
	}

	return subject, ""
}

// cleanTopic collapses newlines and repeated whitespace into single spaces.
func cleanTopic(topic string) string {
	return strings.Join(strings.Fields(topic), " ")
}

func sortLessonsByIndex(lessons []*RawLesson) {
	sort.SliceStable(lessons, func(i, j int) bool {
		return lessons[i].Index < lessons[j].Index
	})
}
