package parse

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"lab-attendance-backend/internal/model"
)

// ErrUnknownValue is returned when a label matches none of the known values.
var ErrUnknownValue = errors.New("unknown value")

var spaceRe = regexp.MustCompile(`\s+`)

// normalize folds case and collapses whitespace so that user-typed labels
// such as " m.sc  data analytics" still match.
func normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.ToLower(s)
}

var (
	programmeAliases = map[string]model.Programme{
		"dataanalytics":         model.DataAnalytics,
		"informationtechnology": model.InformationTechnology,
		"cybersecurity":         model.CyberSecurity,
		"aiml":                  model.AIML,
		// Labels written by the old form page.
		"m,sc information technology": model.InformationTechnology,
		"information technology":      model.InformationTechnology,
	}
	yearAliases = map[string]model.Year{
		"1": model.YearI,
		"2": model.YearII,
		"3": model.YearIII,
	}
	purposeAliases = map[string]model.Purpose{
		"labpractical": model.LabPractical,
		"projectwork":  model.ProjectWork,
	}
)

func init() {
	for _, p := range model.Programmes {
		programmeAliases[normalize(string(p))] = p
	}
	for _, y := range model.Years {
		yearAliases[normalize(string(y))] = y
	}
	for _, p := range model.Purposes {
		purposeAliases[normalize(string(p))] = p
	}
}

// Programme maps a label or enum code to a programme.
func Programme(raw string) (model.Programme, error) {
	if p, ok := programmeAliases[normalize(raw)]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: programme %q", ErrUnknownValue, raw)
}

// Year maps a roman or arabic year to a year of study.
func Year(raw string) (model.Year, error) {
	if y, ok := yearAliases[normalize(raw)]; ok {
		return y, nil
	}
	return "", fmt.Errorf("%w: year %q", ErrUnknownValue, raw)
}

// Purpose maps a label or enum code to a visit purpose.
func Purpose(raw string) (model.Purpose, error) {
	if p, ok := purposeAliases[normalize(raw)]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: purpose %q", ErrUnknownValue, raw)
}
