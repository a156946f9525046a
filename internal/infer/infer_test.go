package infer

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"fwlens/internal/config"
	"fwlens/pkg/schema"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    []schema.Spec
		wantErr error
	}{
		{
			name: "array of fields",
			text: `[{"name":"ID","length":5},{"name":" Name ","length":15},{"name":"Date","length":8}]`,
			want: []schema.Spec{{Name: "ID", Length: 5}, {Name: "Name", Length: 15}, {Name: "Date", Length: 8}},
		},
		{
			name: "large lengths are accepted as-is",
			text: "\n [{\"name\":\"Blob\",\"length\":4096}] \n",
			want: []schema.Spec{{Name: "Blob", Length: 4096}},
		},
		{name: "blank", text: "  ", wantErr: ErrEmptyResponse},
		{name: "empty array", text: "[]", wantErr: ErrEmptyResponse},
		{name: "not json", text: "ID is 5 chars", wantErr: ErrMalformedResponse},
		{name: "object instead of array", text: `{"name":"ID","length":5}`, wantErr: ErrMalformedResponse},
		{name: "missing length", text: `[{"name":"ID"}]`, wantErr: ErrInvalidSpec},
		{name: "zero length", text: `[{"name":"ID","length":0}]`, wantErr: ErrInvalidSpec},
		{name: "missing name", text: `[{"length":3}]`, wantErr: ErrInvalidSpec},
		{name: "blank name", text: `[{"name":"  ","length":3}]`, wantErr: ErrInvalidSpec},
		{name: "fractional length", text: `[{"name":"ID","length":2.5}]`, wantErr: ErrMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResponse(tt.text)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildPromptEmbedsInput(t *testing.T) {
	p := BuildPrompt("12345John Doe  2023")
	assert.Contains(t, p, "\"\"\"\n12345John Doe  2023\n\"\"\"")
	assert.Contains(t, p, `"name" (string) and "length" (integer)`)
}

func TestStatic(t *testing.T) {
	s := &Static{Specs: []schema.Spec{{Name: "ID", Length: 5}}}

	got, err := s.InferSchema(context.Background(), "id is five")
	require.NoError(t, err)
	assert.Equal(t, []schema.Spec{{Name: "ID", Length: 5}}, got)

	_, err = s.InferSchema(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyPrompt)

	boom := errors.New("boom")
	s.Err = boom
	_, err = s.InferSchema(context.Background(), "x")
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.InferSchema(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, []string{"id is five", "   ", "x", "x"}, s.Calls())
}

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), GeminiOptions{APIKey: " "}, nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestGeminiInferSchema(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"[{\"name\":\"ID\",\"length\":5},{\"name\":\"Name\",\"length\":10}]"}]}}]}`)
	}))
	defer srv.Close()

	g, err := NewGemini(context.Background(), GeminiOptions{APIKey: "test-key", BaseURL: srv.URL + "/"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "gemini:"+DefaultModel, g.Name())

	specs, err := g.InferSchema(context.Background(), "ID is 5 chars, Name is 10")
	require.NoError(t, err)
	assert.Equal(t, []schema.Spec{{Name: "ID", Length: 5}, {Name: "Name", Length: 10}}, specs)

	assert.True(t, strings.HasSuffix(gotPath, DefaultModel+":generateContent"), "path %q", gotPath)
	assert.Contains(t, gotBody, "ID is 5 chars, Name is 10")
	assert.Contains(t, gotBody, "application/json")
}

func TestGeminiSurfacesUpstreamErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)
	}))
	defer srv.Close()

	g, err := NewGemini(context.Background(), GeminiOptions{APIKey: "bad", BaseURL: srv.URL + "/"}, nil)
	require.NoError(t, err)

	specs, err := g.InferSchema(context.Background(), "ID is 5 chars")
	assert.Error(t, err)
	assert.Nil(t, specs)

	_, err = g.InferSchema(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestNewFromConfig(t *testing.T) {
	_, err := New(context.Background(), config.InferenceConfig{Provider: "gemini"}, nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = New(context.Background(), config.InferenceConfig{Provider: "openai", APIKey: "k"}, nil)
	assert.ErrorContains(t, err, "unknown inference provider")

	inf, err := New(context.Background(), config.InferenceConfig{Provider: "gemini", APIKey: "k"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	g, ok := inf.(*Gemini)
	require.True(t, ok)
	assert.Equal(t, DefaultModel, g.model)
}
