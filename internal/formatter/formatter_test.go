package formatter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func failing(err error) Formatter {
	return FormatterFunc(func(context.Context, string) (string, error) {
		return "", err
	})
}

func TestDecodeEscapes(t *testing.T) {
	got := DecodeEscapes(`  class A {\n\tString s = \"x\";\n}  `)
	assert.Equal(t, "class A {\n\tString s = \"x\";\n}", got)
}

func TestDecodeEscapes_KeepsRealSource(t *testing.T) {
	src := "class A {\n    String s = \"a\\nb\";\n}"

	assert.Equal(t, src, DecodeEscapes("\n"+src+"\n"))
}

func TestHeuristic(t *testing.T) {
	got := Heuristic("class A {\n  void b(){} \n}")

	assert.Equal(t, "class A {\n  void b(){\n}\n}", got)
	assert.Contains(t, got, "void b()")
}

func TestHeuristic_Statements(t *testing.T) {
	got := Heuristic("int a = 1; int b = 2; if (a < b) { a = b; }")

	assert.Equal(t, "int a = 1;\nint b = 2;\nif (a < b) {\na = b;\n}", got)
}

func TestChain_AllEnginesFail(t *testing.T) {
	chain := NewChain(failing(errors.New("local down")), failing(errors.New("remote down")), zap.NewNop())

	out := chain.Format(context.Background(), `class A {\n  void b(){} \n}`)

	assert.Equal(t, StageHeuristic, out.Stage)
	assert.True(t, out.Degraded())
	assert.NotEmpty(t, out.Code)
	assert.Contains(t, out.Code, "class A {\n")
	assert.Contains(t, out.Code, "void b()")
	assert.NotContains(t, out.Code, `\n`)
}

func TestChain_LocalWinsAndSeesDecodedInput(t *testing.T) {
	var seen string
	local := FormatterFunc(func(_ context.Context, code string) (string, error) {
		seen = code
		return "formatted", nil
	})
	var remoteCalls int32
	remote := FormatterFunc(func(context.Context, string) (string, error) {
		atomic.AddInt32(&remoteCalls, 1)
		return "remote", nil
	})

	out := NewChain(local, remote, nil).Format(context.Background(), `class A {\n}`)

	assert.Equal(t, Output{Code: "formatted", Stage: StageLocal}, out)
	assert.Equal(t, "class A {\n}", seen)
	assert.Zero(t, atomic.LoadInt32(&remoteCalls))
}

func TestChain_EmptyLocalOutputFallsThrough(t *testing.T) {
	local := FormatterFunc(func(context.Context, string) (string, error) { return "  ", nil })
	remote := FormatterFunc(func(context.Context, string) (string, error) { return "remote", nil })

	out := NewChain(local, remote, nil).Format(context.Background(), "class A {}")

	assert.Equal(t, StageRemote, out.Stage)
	assert.Equal(t, "remote", out.Code)
}

func TestChain_PanickingEngineIsContained(t *testing.T) {
	local := FormatterFunc(func(context.Context, string) (string, error) { panic("boom") })

	out := NewChain(local, nil, nil).Format(context.Background(), "int a = 1;")

	assert.Equal(t, StageHeuristic, out.Stage)
	assert.Equal(t, "int a = 1;", out.Code)
}

func TestChain_EmptyInput(t *testing.T) {
	out := NewChain(NewJavaFormatter(), nil, nil).Format(context.Background(), "   ")

	assert.Equal(t, StageNone, out.Stage)
	assert.Empty(t, out.Code)
}

func TestChain_RealLocalEngine(t *testing.T) {
	out := NewChain(NewJavaFormatter(), nil, nil).Format(context.Background(), `public class A{void b(){int x=1;}}`)

	assert.Equal(t, StageLocal, out.Stage)
	assert.Equal(t, "public class A {\n    void b() {\n        int x = 1;\n    }\n}\n", out.Code)
}

func TestChain_StringEscapesSurvive(t *testing.T) {
	in := `public class LoginTest {
    public void login() {
        driver.findElement(By.xpath("//button[text()=\"Log in\"]")).click();
        System.out.println("a\nb");
    }
}`

	out := NewChain(NewJavaFormatter(), nil, nil).Format(context.Background(), in)

	assert.Equal(t, StageLocal, out.Stage)
	assert.Equal(t, in+"\n", out.Code)
	assert.Contains(t, out.Code, `By.xpath("//button[text()=\"Log in\"]")`)
	assert.Contains(t, out.Code, `println("a\nb")`)
}

func TestChain_SingleLineEscapesSurvive(t *testing.T) {
	in := `driver.findElement(By.xpath("//button[text()=\"Log in\"]")).click();`

	out := NewChain(NewJavaFormatter(), nil, nil).Format(context.Background(), "class A{void b(){"+in+"}}")

	assert.Equal(t, StageLocal, out.Stage)
	assert.Contains(t, out.Code, in)
}

func TestChain_InvalidJavaUsesRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req remoteRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}
		assert.Equal(t, "class A { void b( {", req.Code)
		_ = json.NewEncoder(w).Encode(remoteResponse{Formatted: "remote formatted"})
	}))
	defer srv.Close()

	chain := NewChain(NewJavaFormatter(), NewRemoteFormatter(srv.URL, time.Second), zap.NewNop())
	out := chain.Format(context.Background(), "class A { void b( {")

	assert.Equal(t, StageRemote, out.Stage)
	assert.Equal(t, "remote formatted", out.Code)
}

func TestRemoteFormatter_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		}},
		{"bad json", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		}},
		{"empty formatted", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"formatted":""}`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewRemoteFormatter(srv.URL, time.Second).Format(context.Background(), "class A {}")
			assert.Error(t, err)
		})
	}
}

func TestRemoteFormatter_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewRemoteFormatter(url, time.Second).Format(context.Background(), "class A {}")
	assert.Error(t, err)
}
