package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FallbackNote marks an insight produced without the completion service.
const FallbackNote = "No structured summary generated"

type InsightKind string

const (
	KindStructured InsightKind = "structured"
	KindFallback   InsightKind = "fallback"
)

var ErrInvalidInsight = errors.New("invalid insight payload")

// Score is one rubric dimension and its value.
type Score struct {
	Name  string
	Value int
}

// Scores keeps rubric dimensions in the order the model returned them.
// A nil Scores means the field was absent; an empty non-nil one means "{}".
type Scores []Score

func (s Scores) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, score := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(score.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", score.Value)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON never rejects well-formed JSON. Values that are neither
// numbers nor numeric strings are skipped, and a non-object yields nil.
func (s *Scores) UnmarshalJSON(data []byte) error {
	scores, err := decodeScores(data)
	if err != nil {
		return err
	}
	*s = scores
	return nil
}

func decodeScores(data []byte) (Scores, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	out := Scores{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("scores: %s: %w", name, err)
		}
		if value, ok := scoreValue(raw); ok {
			out = append(out, Score{Name: name, Value: value})
		}
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return out, nil
}

// scoreValue accepts a JSON number or a numeric string such as "80" or
// "80%", rounded and clamped to the int32 range.
func scoreValue(raw json.RawMessage) (int, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, false
	}

	var text string
	switch x := v.(type) {
	case json.Number:
		text = x.String()
	case string:
		text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(x), "%"))
	default:
		return 0, false
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}

	return clampScore(math.Round(f)), true
}

func clampScore(f float64) int {
	switch {
	case f > math.MaxInt32:
		return math.MaxInt32
	case f < math.MinInt32:
		return math.MinInt32
	}
	return int(f)
}

// Get returns the value of the named dimension.
func (s Scores) Get(name string) (int, bool) {
	for _, score := range s {
		if score.Name == name {
			return score.Value, true
		}
	}
	return 0, false
}

// StructuredInsight is the evaluation parsed from the completion service.
// Fields are nil when the model left them out.
type StructuredInsight struct {
	Scores               Scores   `json:"scores"`
	Summary              *string  `json:"summary"`
	TechnicalSkills      []string `json:"technical_skills"`
	WorkExperience       []string `json:"work_experience"`
	KeyProjects          []string `json:"key_projects"`
	AcademicAchievements []string `json:"academic_achievements"`
	Recommendations      []string `json:"recommendations"`
	Verdict              *string  `json:"verdict"`
}

// IsEmpty reports whether no known field was present.
func (s *StructuredInsight) IsEmpty() bool {
	return s.Scores == nil &&
		s.Summary == nil &&
		s.TechnicalSkills == nil &&
		s.WorkExperience == nil &&
		s.KeyProjects == nil &&
		s.AcademicAchievements == nil &&
		s.Recommendations == nil &&
		s.Verdict == nil
}

type rawStructuredInsight struct {
	Scores               json.RawMessage `json:"scores"`
	Summary              json.RawMessage `json:"summary"`
	TechnicalSkills      json.RawMessage `json:"technical_skills"`
	WorkExperience       json.RawMessage `json:"work_experience"`
	KeyProjects          json.RawMessage `json:"key_projects"`
	AcademicAchievements json.RawMessage `json:"academic_achievements"`
	Recommendations      json.RawMessage `json:"recommendations"`
	Verdict              json.RawMessage `json:"verdict"`
}

// UnmarshalJSON accepts any well-formed object. Fields of an unexpected type
// are coerced to text: a bare value in a list field becomes a one-item list,
// non-string items and non-string summaries keep their JSON text, and null
// means absent.
func (s *StructuredInsight) UnmarshalJSON(data []byte) error {
	var raw rawStructuredInsight
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	scores, err := decodeScores(raw.Scores)
	if err != nil {
		return err
	}

	*s = StructuredInsight{
		Scores:               scores,
		Summary:              textPtr(raw.Summary),
		TechnicalSkills:      textList(raw.TechnicalSkills),
		WorkExperience:       textList(raw.WorkExperience),
		KeyProjects:          textList(raw.KeyProjects),
		AcademicAchievements: textList(raw.AcademicAchievements),
		Recommendations:      textList(raw.Recommendations),
		Verdict:              textPtr(raw.Verdict),
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func textValue(raw json.RawMessage) (string, bool) {
	if isNull(raw) {
		return "", false
	}
	raw = bytes.TrimSpace(raw)

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s, true
		}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw), true
	}
	return buf.String(), true
}

func textPtr(raw json.RawMessage) *string {
	text, ok := textValue(raw)
	if !ok {
		return nil
	}
	return &text
}

func textList(raw json.RawMessage) []string {
	if isNull(raw) {
		return nil
	}
	raw = bytes.TrimSpace(raw)

	if raw[0] != '[' {
		text, _ := textValue(raw)
		return []string{text}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if text, ok := textValue(item); ok {
			out = append(out, text)
		}
	}
	return out
}

// FallbackInsight is the degraded payload built from keyword frequencies.
type FallbackInsight struct {
	Note        string   `json:"fallback"`
	TopKeywords []string `json:"top_keywords"`
}

// Insight holds exactly one of Structured or Fallback, selected by Kind.
type Insight struct {
	Kind       InsightKind
	Structured *StructuredInsight
	Fallback   *FallbackInsight
}

func NewStructuredInsight(s *StructuredInsight) Insight {
	return Insight{Kind: KindStructured, Structured: s}
}

func NewFallbackInsight(keywords []string) Insight {
	if keywords == nil {
		keywords = []string{}
	}
	return Insight{
		Kind:     KindFallback,
		Fallback: &FallbackInsight{Note: FallbackNote, TopKeywords: keywords},
	}
}

func (i Insight) Validate() error {
	switch i.Kind {
	case KindStructured:
		if i.Structured == nil || i.Fallback != nil {
			return fmt.Errorf("%w: structured insight must carry only a structured payload", ErrInvalidInsight)
		}
	case KindFallback:
		if i.Fallback == nil || i.Structured != nil {
			return fmt.Errorf("%w: fallback insight must carry only a fallback payload", ErrInvalidInsight)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidInsight, i.Kind)
	}
	return nil
}

type structuredEnvelope struct {
	Kind InsightKind `json:"kind"`
	*StructuredInsight
}

type fallbackEnvelope struct {
	Kind InsightKind `json:"kind"`
	*FallbackInsight
}

// MarshalJSON writes the payload flat with a "kind" discriminator.
func (i Insight) MarshalJSON() ([]byte, error) {
	if err := i.Validate(); err != nil {
		return nil, err
	}
	if i.Kind == KindStructured {
		return marshalNoEscape(structuredEnvelope{Kind: i.Kind, StructuredInsight: i.Structured})
	}
	return marshalNoEscape(fallbackEnvelope{Kind: i.Kind, FallbackInsight: i.Fallback})
}

// UnmarshalJSON accepts blobs with or without "kind"; without it, the
// presence of a "fallback" key selects the fallback variant.
func (i *Insight) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	kind := KindStructured
	if raw, ok := fields["kind"]; ok {
		if err := json.Unmarshal(raw, &kind); err != nil {
			return fmt.Errorf("%w: kind: %v", ErrInvalidInsight, err)
		}
	} else if _, ok := fields["fallback"]; ok {
		kind = KindFallback
	}

	switch kind {
	case KindStructured:
		var s StructuredInsight
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*i = NewStructuredInsight(&s)
	case KindFallback:
		var f FallbackInsight
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		if f.TopKeywords == nil {
			f.TopKeywords = []string{}
		}
		*i = Insight{Kind: KindFallback, Fallback: &f}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidInsight, kind)
	}

	return nil
}

// EncodeInsight serializes an insight for storage. HTML characters are kept
// as-is so the stored blob can be searched for the text users see.
func EncodeInsight(i Insight) (string, error) {
	b, err := marshalNoEscape(i)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func DecodeInsight(blob string) (Insight, error) {
	var i Insight
	if err := json.Unmarshal([]byte(blob), &i); err != nil {
		return Insight{}, err
	}
	return i, nil
}

// InsightRecord is a persisted analysis of one uploaded document.
type InsightRecord struct {
	ID         string    `json:"doc_id"`
	Filename   string    `json:"filename"`
	UploadTime time.Time `json:"time"`
	Insights   Insight   `json:"insights"`
}

type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// ParseSortOrder maps "asc" to ascending and everything else to descending.
func ParseSortOrder(s string) SortOrder {
	if s == string(SortAscending) {
		return SortAscending
	}
	return SortDescending
}

// ListQuery filters and orders InsightRecord listings.
type ListQuery struct {
	Search string
	Sort   SortOrder
}
