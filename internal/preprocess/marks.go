package preprocess

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// letterMarks maps the portal's competence letters onto the 1-10 scale:
// S (sācis apgūt), T (turpina apgūt), A (apguvis), P (apguvis padziļināti).
var letterMarks = map[string]int{
	"S": 3,
	"T": 5,
	"A": 7,
	"P": 10,
}

// runMarks converts the heterogeneous score tokens of every lesson into a
// single averaged mark on the 1-10 scale. A lesson with no convertible
// tokens ends up with no mark at all. A token that is neither a percentage,
// a letter, a number in range nor the not-completed marker fails the run.
func (p *Pipeline) runMarks(ctx context.Context, raw *RawSchedule) error {
	for _, day := range raw.Days {
		for _, lesson := range day.Lessons {
			if len(lesson.MarkTexts) == 0 {
				lesson.Mark = nil
				continue
			}
			mark, err := averageMark(lesson.MarkTexts)
			if err != nil {
				return stageErrWrap("marks",
					fmt.Sprintf("failed to process marks for lesson %q", lesson.Subject),
					strings.Join(lesson.MarkTexts, ", "), err)
			}
			lesson.Mark = mark
		}
	}
	return nil
}

// averageMark converts each token and returns the rounded arithmetic mean,
// or nil when no token survives conversion.
func averageMark(tokens []string) (*int, error) {
	converted := make([]int, 0, len(tokens))
	for _, token := range tokens {
		value, ok, err := convertMark(token)
		if err != nil {
			return nil, err
		}
		if ok {
			converted = append(converted, value)
		}
	}
	if len(converted) == 0 {
		return nil, nil
	}

	sum := 0
	for _, v := range converted {
		sum += v
	}
	average := int(math.Round(float64(sum) / float64(len(converted))))
	return &average, nil
}

// convertMark converts a single score token to the 1-10 scale. The second
// return value is false for the not-completed marker, which carries no score.
func convertMark(token string) (int, bool, error) {
	mark := strings.ToUpper(strings.TrimSpace(token))

	if mark == "NC" {
		return 0, false, nil
	}
	if mark == "" {
		return 0, false, stageErr("marks", "empty mark token", token)
	}

	// Percentage: divided by ten and rounded half up. Decimal commas are
	// the portal's locale convention.
	if strings.Contains(mark, "%") {
		numeric := strings.ReplaceAll(strings.ReplaceAll(mark, "%", ""), ",", ".")
		percentage, err := strconv.ParseFloat(numeric, 64)
		if err != nil {
			return 0, false, stageErrWrap("marks", "unconvertible percentage mark", token, err)
		}
		return int(percentage/10 + 0.5), true, nil
	}

	if value, ok := letterMarks[mark]; ok {
		return value, true, nil
	}

	numeric, err := strconv.ParseFloat(strings.ReplaceAll(mark, ",", "."), 64)
	if err != nil {
		return 0, false, stageErrWrap("marks", "unconvertible mark token", token, err)
	}
	if numeric < 1 || numeric > 10 {
		return 0, false, stageErr("marks", "numeric mark outside valid range 1-10", token)
	}
	return int(math.Round(numeric)), true, nil
}
