package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/shai-sense/internal/domain"
)

func TestChat_OpenAIFormat(t *testing.T) {
	t.Setenv("SHAI_TEST_KEY", "sk-test")

	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  git push -u origin main \n"}}]}`))
	}))
	defer srv.Close()

	client, err := NewFactory(time.Second).ForModel(domain.ModelDefinition{
		Name:       "gpt",
		Endpoint:   srv.URL,
		AuthEnvVar: "SHAI_TEST_KEY",
		ModelID:    "gpt-4o-mini",
	})
	require.NoError(t, err)

	resp, err := client.Chat(context.Background(), "be terse", "fix it")
	require.NoError(t, err)
	assert.Equal(t, "git push -u origin main", resp.Content)

	assert.Equal(t, "gpt-4o-mini", got["model"])
	assert.EqualValues(t, domain.DefaultMaxTokens, got["max_tokens"])
	msgs := got["messages"].([]interface{})
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]interface{})["role"])
	assert.Equal(t, "fix it", msgs[1].(map[string]interface{})["content"])
}

func TestChat_AnthropicFormat(t *testing.T) {
	t.Setenv("SHAI_TEST_KEY", "ak")

	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ak", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"ls -la"}]}`))
	}))
	defer srv.Close()

	client, err := NewFactory(0).ForModel(domain.ModelDefinition{
		Name:       "claude",
		Endpoint:   srv.URL,
		AuthEnvVar: "SHAI_TEST_KEY",
		Prompt:     []domain.PromptMessage{{Role: "system", Content: "You run on macOS."}},
		APIFormat: domain.APIFormat{
			AuthHeaderName:    "x-api-key",
			SystemMessageMode: domain.SystemMessageModeSeparate,
			ContentWrapper:    domain.ContentWrapperAnthropic,
			ResponseJSONPath:  domain.AnthropicResponsePath,
			ExtraHeaders:      map[string]string{"anthropic-version": "2023-06-01"},
		},
	})
	require.NoError(t, err)

	resp, err := client.Chat(context.Background(), "be terse", "list files")
	require.NoError(t, err)
	assert.Equal(t, "ls -la", resp.Content)

	assert.Equal(t, "You run on macOS.\n\nbe terse", got["system"])
	msgs := got["messages"].([]interface{})
	require.Len(t, msgs, 1)
	content := msgs[0].(map[string]interface{})["content"].([]interface{})
	assert.Equal(t, "list files", content[0].(map[string]interface{})["text"])
}

func TestChat_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := NewFactory(time.Second).ForModel(domain.ModelDefinition{Name: "local", Endpoint: srv.URL})
	require.NoError(t, err)
	_, err = client.Chat(context.Background(), "", "x")
	assert.ErrorContains(t, err, "HTTP 503")

	missingKey, err := NewFactory(time.Second).ForModel(domain.ModelDefinition{Name: "k", Endpoint: srv.URL, AuthEnvVar: "SHAI_TEST_UNSET_KEY"})
	require.NoError(t, err)
	_, err = missingKey.Chat(context.Background(), "", "x")
	assert.ErrorContains(t, err, "SHAI_TEST_UNSET_KEY")

	_, err = NewFactory(0).ForModel(domain.ModelDefinition{Name: "nowhere"})
	assert.Error(t, err)
}

func TestChat_HonoursContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client, err := NewFactory(5 * time.Second).ForModel(domain.ModelDefinition{Name: "slow", Endpoint: srv.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.Chat(ctx, "", "x")
	assert.Error(t, err)
}

func TestExtractJSONPath(t *testing.T) {
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"a":{"b":[{"c":"deep"}, 3]}, "n": 1}`), &data))

	got, err := extractJSONPath(data, "a.b[0].c")
	require.NoError(t, err)
	assert.Equal(t, "deep", got)

	for _, bad := range []string{"a.b[5].c", "a.b[1]", "n.x", "missing", "a.b[x]", "a.b[0", ""} {
		_, err := extractJSONPath(data, bad)
		assert.Error(t, err, bad)
	}
}
