package jsonrepair

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_ValidJSONIsUnchanged(t *testing.T) {
	t.Parallel()

	original := map[string]any{
		"title":      "Meeting the family",
		"difficulty": float64(2),
		"vocabulary": []any{"hello", "family"},
		"exercises": []any{
			map[string]any{"type": "vocabulary", "content": map[string]any{"note": `a "quoted" word, with comma`}},
		},
		"homework": nil,
	}
	raw, err := json.Marshal(original)
	require.NoError(t, err)

	decoded, err := Decode(string(raw))
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecode_Repairs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  map[string]any
	}{
		{
			name:  "trailing comma before closers",
			input: `{"title": "Greetings", "skills": ["speaking", "listening",],}`,
			want: map[string]any{
				"title":  "Greetings",
				"skills": []any{"speaking", "listening"},
			},
		},
		{
			name:  "unescaped quote inside string value",
			input: `{"title": "He said "hi" to me", "difficulty": 1}`,
			want: map[string]any{
				"title":      `He said "hi" to me`,
				"difficulty": float64(1),
			},
		},
		{
			name:  "missing comma between adjacent objects",
			input: `{"items": [{"word": "hello"} {"word": "family"}]}`,
			want: map[string]any{
				"items": []any{
					map[string]any{"word": "hello"},
					map[string]any{"word": "family"},
				},
			},
		},
		{
			name:  "raw newline inside string value",
			input: "{\"text\": \"line one\nline two\"}",
			want:  map[string]any{"text": "line one\nline two"},
		},
		{
			name:  "missing comma between lines",
			input: "{\"a\": \"x\"\n\"b\": 2\n\"c\": true}",
			want:  map[string]any{"a": "x", "b": float64(2), "c": true},
		},
		{
			name:  "missing comma after value containing braces",
			input: "{\"a\": \"set {x}\"\n\"b\": 1}",
			want:  map[string]any{"a": "set {x}", "b": float64(1)},
		},
		{
			name:  "missing comma on the same line",
			input: `{"a": "use {x} {y}" "b": 1,}`,
			want:  map[string]any{"a": "use {x} {y}", "b": float64(1)},
		},
		{
			name:  "bracket text inside values is preserved",
			input: `{"a": "x}{y] [z" "b": "w}\n\"c\"" "c": [1 2], "d": "e, ]"}`,
			want: map[string]any{
				"a": "x}{y] [z",
				"b": "w}\n\"c\"",
				"c": []any{float64(1), float64(2)},
				"d": "e, ]",
			},
		},
		{
			name:  "markdown fenced response with prose",
			input: "Here is your lesson:\n```json\n{\"title\": \"Food\"}\n```\nEnjoy!",
			want:  map[string]any{"title": "Food"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Decode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFixCommas(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		insert bool
		want   string
	}{
		{"trailing comma dropped", `{"a": [1, 2, ], }`, false, `{"a": [1, 2 ] }`},
		{"comma inside string kept", `{"a": "x, ]"}`, false, `{"a": "x, ]"}`},
		{"no insertion without flag", `{"a": 1 "b": 2}`, false, `{"a": 1 "b": 2}`},
		{"inserted after closing quote", "{\"a\": \"}{\"\n\"b\": 2}", true, "{\"a\": \"}{\",\n\"b\": 2}"},
		{"inserted between objects", `[{} {}]`, true, `[{}, {}]`},
		{"inserted between keywords", `[true null]`, true, `[true, null]`},
		{"escaped quote does not end string", `{"a": "say \"{}\" now" "b": 1}`, true, `{"a": "say \"{}\" now", "b": 1}`},
		{"numbers left intact", `{"a": -1.5e3}`, true, `{"a": -1.5e3}`},
		{"non-ascii outside strings left intact", "{\"a\": 1 é}", true, "{\"a\": 1 é}"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, fixCommas(tt.input, tt.insert))
		})
	}
}

func TestDecode_NoJSON(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "no braces here", "} backwards {"} {
		_, err := Decode(input)
		require.Error(t, err, "input %q", input)
		assert.True(t, errors.Is(err, ErrNoJSON), "input %q: expected ErrNoJSON, got %v", input, err)

		var decodeErr *DecodeError
		require.True(t, errors.As(err, &decodeErr))
		assert.Equal(t, "extract", decodeErr.Stage)
	}
}

func TestDecode_UnrecoverableReportsWindow(t *testing.T) {
	t.Parallel()

	_, err := Decode(`{"title": ::: "broken"}`)
	require.Error(t, err)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, "structural", decodeErr.Stage)
	assert.Greater(t, decodeErr.Offset, int64(0))
	assert.Contains(t, decodeErr.Window, ":::")

	var syntaxErr *json.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr), "expected underlying syntax error")
}

func TestDecodeInto(t *testing.T) {
	t.Parallel()

	type lesson struct {
		Title      string   `json:"title"`
		Difficulty int      `json:"difficulty"`
		Vocabulary []string `json:"vocabulary"`
	}

	var got lesson
	err := DecodeInto(`Sure! {"title": "Family", "difficulty": 1, "vocabulary": ["mother", "father",]}`, &got)
	require.NoError(t, err)
	assert.Equal(t, lesson{Title: "Family", Difficulty: 1, Vocabulary: []string{"mother", "father"}}, got)

	err = DecodeInto(`{"title": 5}`, &got)
	require.Error(t, err)
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, "bind", decodeErr.Stage)
}

func TestWindow(t *testing.T) {
	t.Parallel()

	text := make([]byte, 500)
	for i := range text {
		text[i] = 'x'
	}
	assert.Len(t, window(string(text), 250), 2*windowRadius)
	assert.Len(t, window(string(text), 10), 10+windowRadius)
	assert.Len(t, window(string(text), 9999), windowRadius)
	assert.Empty(t, window("", 3))
}
