// Package report turns a stored insight record into an ordered list of
// sections and renders them as a downloadable PDF.
package report

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/BerylCAtieno/resume-insights-api/internal/models"
)

const (
	ReportTitle     = "Resume Insights Report"
	TimestampLayout = "2006-01-02 15:04:05"
)

type SectionKind string

const (
	SectionHeader   SectionKind = "header"
	SectionKeywords SectionKind = "keywords"
	SectionScores   SectionKind = "scores"
	SectionSummary  SectionKind = "summary"
	SectionList     SectionKind = "list"
	SectionVerdict  SectionKind = "verdict"
)

// Section is one block of the report. Lines are paragraphs; Bullets are
// rendered as a bulleted list after them.
type Section struct {
	Kind    SectionKind
	Title   string
	Lines   []string
	Bullets []string
}

// Project builds the report sections for rec. Optional fields that are
// missing are skipped; key projects are never included.
func Project(rec *models.InsightRecord) []Section {
	sections := []Section{{
		Kind:  SectionHeader,
		Title: ReportTitle,
		Lines: []string{
			"Document ID: " + rec.ID,
			"Filename: " + rec.Filename,
			"Uploaded At: " + rec.UploadTime.Format(TimestampLayout),
		},
	}}

	switch rec.Insights.Kind {
	case models.KindFallback:
		if f := rec.Insights.Fallback; f != nil {
			sections = append(sections, Section{
				Kind:    SectionKeywords,
				Title:   "Keyword Highlights",
				Lines:   []string{f.Note},
				Bullets: f.TopKeywords,
			})
		}
	case models.KindStructured:
		if s := rec.Insights.Structured; s != nil {
			sections = append(sections, projectStructured(s)...)
		}
	}

	return sections
}

func projectStructured(s *models.StructuredInsight) []Section {
	var sections []Section

	if s.Scores != nil {
		lines := make([]string, 0, len(s.Scores))
		for _, score := range s.Scores {
			lines = append(lines, fmt.Sprintf("%s: %d", humanize(score.Name), score.Value))
		}
		sections = append(sections, Section{Kind: SectionScores, Title: "Evaluation Scores", Lines: lines})
	}

	if s.Summary != nil {
		sections = append(sections, Section{Kind: SectionSummary, Title: "Candidate Summary", Lines: []string{*s.Summary}})
	}

	lists := []struct {
		title string
		items []string
	}{
		{"Key Technical Skills", s.TechnicalSkills},
		{"Work Experience Highlights", s.WorkExperience},
		{"Academic Achievements", s.AcademicAchievements},
		{"Recommendations", s.Recommendations},
	}
	for _, l := range lists {
		if len(l.items) == 0 {
			continue
		}
		sections = append(sections, Section{Kind: SectionList, Title: l.title, Bullets: l.items})
	}

	if s.Verdict != nil {
		sections = append(sections, Section{Kind: SectionVerdict, Title: "Final Verdict", Lines: []string{*s.Verdict}})
	}

	return sections
}

// humanize turns "keyword_optimization" into "Keyword Optimization". Each run
// of letters starts upper case and continues lower case.
func humanize(name string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range strings.ReplaceAll(name, "_", " ") {
		switch {
		case unicode.IsLetter(r) && !prevLetter:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}

// Filename is the attachment name for rec's report.
func Filename(rec *models.InsightRecord) string {
	return "resume_report_" + rec.Filename + ".pdf"
}
