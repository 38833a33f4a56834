package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/scry-tutor/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	resp *genai.GenerateContentResponse
	err  error

	gotModel    string
	gotContents []*genai.Content
	gotConfig   *genai.GenerateContentConfig
	gotDeadline bool
}

func (f *fakeModels) GenerateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.gotModel = model
	f.gotContents = contents
	f.gotConfig = config
	_, f.gotDeadline = ctx.Deadline()
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: genai.RoleModel}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: content, FinishReason: genai.FinishReasonStop}},
	}
}

func TestNewProviderValidation(t *testing.T) {
	t.Parallel()

	_, err := NewProvider(context.Background(), Config{Model: "gemini-2.0-flash"}, nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = newProvider(&fakeModels{}, Config{APIKey: "k"}, nil)
	assert.ErrorIs(t, err, ErrMissingModel)

	_, err = newProvider(nil, Config{Model: "m"}, nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestProviderGenerate(t *testing.T) {
	t.Parallel()

	fake := &fakeModels{resp: textResponse(`{"title": `, `"Greetings"}`)}
	p, err := newProvider(fake, Config{Model: "gemini-2.0-flash", RequestTimeout: time.Minute}, nil)
	require.NoError(t, err)
	assert.Equal(t, "gemini", p.Name())

	params := generation.Params{Temperature: 0.4, TopK: 20, TopP: 0.9, MaxOutputTokens: 2048}
	text, err := p.Generate(context.Background(), "write a lesson", params)
	require.NoError(t, err)
	assert.Equal(t, `{"title": "Greetings"}`, text)

	assert.Equal(t, "gemini-2.0-flash", fake.gotModel)
	require.Len(t, fake.gotContents, 1)
	assert.Equal(t, "write a lesson", fake.gotContents[0].Parts[0].Text)
	require.NotNil(t, fake.gotConfig.Temperature)
	assert.InDelta(t, 0.4, *fake.gotConfig.Temperature, 0.0001)
	require.NotNil(t, fake.gotConfig.TopK)
	assert.InDelta(t, 20, *fake.gotConfig.TopK, 0.0001)
	assert.Equal(t, int32(2048), fake.gotConfig.MaxOutputTokens)
	assert.True(t, fake.gotDeadline, "request timeout must bound the call")
}

func TestProviderGenerateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fake *fakeModels
		want error
	}{
		{
			name: "sdk error is wrapped",
			fake: &fakeModels{err: errors.New("Error 503, Message: The model is overloaded")},
		},
		{
			name: "prompt blocked",
			fake: &fakeModels{resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
			}},
			want: generation.ErrContentBlocked,
		},
		{
			name: "candidate blocked",
			fake: &fakeModels{resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
			}},
			want: generation.ErrContentBlocked,
		},
		{
			name: "no candidates",
			fake: &fakeModels{resp: &genai.GenerateContentResponse{}},
			want: generation.ErrEmptyResponse,
		},
		{
			name: "blank text",
			fake: &fakeModels{resp: textResponse("  ", "\n")},
			want: generation.ErrEmptyResponse,
		},
		{
			name: "nil response",
			fake: &fakeModels{},
			want: generation.ErrEmptyResponse,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := newProvider(tt.fake, Config{Model: "m"}, nil)
			require.NoError(t, err)

			_, err = p.Generate(context.Background(), "prompt", generation.DefaultParams())
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			} else {
				assert.ErrorIs(t, err, tt.fake.err)
				assert.True(t, generation.IsRetryable(err))
			}
		})
	}
}
