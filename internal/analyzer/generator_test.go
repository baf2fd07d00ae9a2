package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/resume-insights-api/internal/utils"
)

type stubCompleter struct {
	reply string
	err   error
	panic bool
	calls []CompletionRequest
}

func (s *stubCompleter) Complete(_ context.Context, req CompletionRequest) (string, error) {
	s.calls = append(s.calls, req)
	if s.panic {
		panic("client exploded")
	}
	return s.reply, s.err
}

func TestGenerator_Generate(t *testing.T) {
	tests := []struct {
		name      string
		completer *stubCompleter
		wantErr   bool
		check     func(t *testing.T, g *stubCompleter)
	}{
		{
			name: "prose wrapped object",
			completer: &stubCompleter{
				reply: "Sure! {\"scores\":{\"relevance\":80},\"summary\":\"Solid.\",\"verdict\":\"Hire\"} Thanks.",
			},
		},
		{
			name:      "no braces",
			completer: &stubCompleter{reply: "I am unable to help with that."},
			wantErr:   true,
		},
		{
			name:      "malformed object",
			completer: &stubCompleter{reply: `{"summary": "cut off`},
			wantErr:   true,
		},
		{
			name:      "empty object",
			completer: &stubCompleter{reply: `{}`},
			wantErr:   true,
		},
		{
			name:      "transport error",
			completer: &stubCompleter{err: errors.New("connection refused")},
			wantErr:   true,
		},
		{
			name:      "client panic",
			completer: &stubCompleter{panic: true},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(tt.completer, utils.NopLogger())

			insight, err := g.Generate(context.Background(), "Jane Doe\nGo engineer")

			require.Len(t, tt.completer.calls, 1)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrAnalysisUnavailable)
				assert.Nil(t, insight)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, insight)
		})
	}
}

func TestGenerator_PartialObjectIsAccepted(t *testing.T) {
	completer := &stubCompleter{reply: `{"summary":"Only this."}`}
	g := NewGenerator(completer, utils.NopLogger())

	insight, err := g.Generate(context.Background(), "resume")
	require.NoError(t, err)

	assert.Equal(t, "Only this.", *insight.Summary)
	assert.Nil(t, insight.Scores)
	assert.Nil(t, insight.TechnicalSkills)
}

func TestGenerator_RequestParameters(t *testing.T) {
	completer := &stubCompleter{reply: `{"verdict":"Average"}`}

	_, err := NewGenerator(completer, utils.NopLogger()).Generate(context.Background(), "RESUME-BODY-MARKER")
	require.NoError(t, err)

	req := completer.calls[0]
	assert.Equal(t, DefaultMaxTokens, req.MaxTokens)
	assert.InDelta(t, DefaultTemperature, req.Temperature, 0.0001)
	assert.Contains(t, req.Prompt, "RESUME-BODY-MARKER")

	completer.calls = nil
	_, err = NewGenerator(completer, utils.NopLogger(), WithMaxTokens(300), WithTemperature(0.7)).
		Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, 300, completer.calls[0].MaxTokens)
	assert.InDelta(t, 0.7, completer.calls[0].Temperature, 0.0001)
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("Worked at Acme on <payments>")

	assert.Contains(t, prompt, "Worked at Acme on <payments>")
	for _, key := range []string{
		`"scores"`, `"summary"`, `"technical_skills"`, `"work_experience"`,
		`"key_projects"`, `"academic_achievements"`, `"recommendations"`, `"verdict"`,
	} {
		assert.Contains(t, prompt, key)
	}
}
