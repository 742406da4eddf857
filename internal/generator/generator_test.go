package generator_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nbenliogludev/go-testcase-generator/internal/browser"
	"github.com/nbenliogludev/go-testcase-generator/internal/config"
	"github.com/nbenliogludev/go-testcase-generator/internal/extract"
	"github.com/nbenliogludev/go-testcase-generator/internal/generator"
	"github.com/nbenliogludev/go-testcase-generator/internal/llm"
	"github.com/nbenliogludev/go-testcase-generator/internal/mocks"
)

const loginResponse = "Here is the test case:\n```json\n" +
	`{"steps": ["Open the login page", "Enter a valid username", "Enter a valid password", "Click login and verify the dashboard"],` +
	` "code": "public class LoginTest {\n    @Test\n    public void login() {}\n}"}` +
	"\n```\nLet me know if you need changes."

func promptContaining(parts ...string) interface{} {
	return mock.MatchedBy(func(p llm.Prompt) bool {
		for _, part := range parts {
			if !strings.Contains(p.User, part) {
				return false
			}
		}
		return true
	})
}

func TestGenerate_LoginScenario(t *testing.T) {
	client := mocks.NewMockLLMClient(t)
	client.On("Complete", mock.Anything, promptContaining("Test login with valid credentials", "TestNG")).
		Return(loginResponse, nil).Once()

	g := generator.New(client, nil, zaptest.NewLogger(t))
	res, err := g.Generate(context.Background(), generator.Request{Description: "Test login with valid credentials"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Open the login page",
		"Enter a valid username",
		"Enter a valid password",
		"Click login and verify the dashboard",
	}, res.Steps)
	assert.Contains(t, res.Code, "public class LoginTest")
}

func TestGenerate_BlankDescription(t *testing.T) {
	for _, desc := range []string{"", "   ", "\n\t"} {
		client := mocks.NewMockLLMClient(t)

		_, err := generator.New(client, nil, nil).Generate(context.Background(), generator.Request{Description: desc})

		var validationErr *generator.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "Description is required", validationErr.Error())
		client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	}
}

func TestGenerate_InvalidURL(t *testing.T) {
	client := mocks.NewMockLLMClient(t)

	_, err := generator.New(client, nil, nil).Generate(context.Background(), generator.Request{
		Description: "Test search",
		URL:         "not a url",
	})

	var validationErr *generator.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "url", validationErr.Field)
	client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func countingServer(t *testing.T, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func chatResponse(t *testing.T, content string) string {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   config.DefaultOpenAIModel,
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	})
	require.NoError(t, err)
	return string(b)
}

func testConfig(baseURL, key string) *config.Config {
	return &config.Config{
		LLMProvider:    config.ProviderOpenAI,
		LLMAPIKey:      key,
		LLMBaseURL:     baseURL,
		LLMTemperature: 0.3,
		LLMTimeout:     5 * time.Second,
	}
}

func TestGenerate_MissingCredential(t *testing.T) {
	srv, hits := countingServer(t, chatResponse(t, loginResponse))

	g := generator.NewFromConfig(context.Background(), testConfig(srv.URL, ""), nil, zaptest.NewLogger(t))

	for _, desc := range []string{"Test login with valid credentials", ""} {
		_, err := g.Generate(context.Background(), generator.Request{Description: desc})

		var configErr *generator.ConfigurationError
		require.ErrorAs(t, err, &configErr)
		assert.Equal(t, "GROQ_API_KEY is not set", configErr.Error())
	}
	assert.Zero(t, atomic.LoadInt32(hits))
}

func TestGenerate_ThroughOpenAICompatibleProvider(t *testing.T) {
	srv, hits := countingServer(t, chatResponse(t, loginResponse))

	g := generator.NewFromConfig(context.Background(), testConfig(srv.URL, "test-key"), nil, zaptest.NewLogger(t))
	res, err := g.Generate(context.Background(), generator.Request{Description: "Test login with valid credentials"})
	require.NoError(t, err)

	assert.Len(t, res.Steps, 4)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestGenerate_UpstreamErrorPropagates(t *testing.T) {
	client := mocks.NewMockLLMClient(t)
	client.On("Complete", mock.Anything, mock.Anything).
		Return("", &llm.UpstreamError{Provider: "openai", StatusCode: 429, Body: "rate limited"}).Once()

	_, err := generator.New(client, nil, nil).Generate(context.Background(), generator.Request{Description: "x"})

	var upstream *llm.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, 429, upstream.StatusCode)
	assert.Equal(t, "rate limited", upstream.Body)
}

func TestGenerate_ExtractionFailure(t *testing.T) {
	client := mocks.NewMockLLMClient(t)
	client.On("Complete", mock.Anything, mock.Anything).Return("Sorry, I cannot help with that.", nil).Once()

	_, err := generator.New(client, nil, nil).Generate(context.Background(), generator.Request{Description: "x"})

	var formatErr *generator.ResponseFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "Sorry, I cannot help with that.", formatErr.Raw)

	var extractionErr *extract.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "Sorry, I cannot help with that.", extractionErr.Raw)
}

func TestGenerate_SchemaFailure(t *testing.T) {
	client := mocks.NewMockLLMClient(t)
	client.On("Complete", mock.Anything, mock.Anything).Return(`{"steps": [], "code": "class A {}"}`, nil).Once()

	_, err := generator.New(client, nil, nil).Generate(context.Background(), generator.Request{Description: "x"})

	var schemaErr *extract.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{extract.FieldSteps}, schemaErr.Missing)
	assert.Equal(t, "class A {}", schemaErr.Parsed["code"])
}

func TestGenerate_PageContext(t *testing.T) {
	pages := mocks.NewMockSnapshotter(t)
	pages.On("Snapshot", mock.Anything, "https://example.com/login").Return(&browser.PageSnapshot{
		URL:   "https://example.com/login",
		Title: "Sign in",
		Tree:  "<input kind=\"input\" id=\"username\">\n<button label=\"Log in\" kind=\"button\">\n",
	}, nil).Once()

	client := mocks.NewMockLLMClient(t)
	client.On("Complete", mock.Anything, promptContaining(
		"The test starts at https://example.com/login",
		`id="username"`,
		`"Sign in"`,
	)).Return(loginResponse, nil).Once()

	g := generator.New(client, nil, nil, generator.WithSnapshotter(pages))
	_, err := g.Generate(context.Background(), generator.Request{
		Description: "Test login with valid credentials",
		URL:         "https://example.com/login",
	})
	require.NoError(t, err)
}

func TestGenerate_PageSnapshotFailureIsNotFatal(t *testing.T) {
	pages := mocks.NewMockSnapshotter(t)
	pages.On("Snapshot", mock.Anything, "https://example.com").Return(nil, errors.New("navigation timeout")).Once()

	client := mocks.NewMockLLMClient(t)
	client.On("Complete", mock.Anything, mock.MatchedBy(func(p llm.Prompt) bool {
		return strings.Contains(p.User, "https://example.com") && !strings.Contains(p.User, "Interactive elements")
	})).Return(loginResponse, nil).Once()

	g := generator.New(client, nil, nil, generator.WithSnapshotter(pages))
	res, err := g.Generate(context.Background(), generator.Request{Description: "Test login", URL: "https://example.com"})
	require.NoError(t, err)
	assert.Len(t, res.Steps, 4)
}
