package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/models"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/config"
)

// fakeCompletionServer answers every chat completion with the given content.
func fakeCompletionServer(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, "upstream error", status)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}))
}

func aiConfig(baseURL string) config.AIConfig {
	return config.AIConfig{BaseURL: baseURL + "/v1", APIKey: "test-key", Model: "gpt-4o-mini"}
}

func TestGraderParsesVerdict(t *testing.T) {
	verdict := `{"result":"To'g'ri","errors":"","solution":"fmt.Println(\"salom\")","explanation":"Oddiy chiqarish","mistakePatterns":[],"grade":92,"cognitiveImpact":7,"marketabilityBoost":5}`
	srv := fakeCompletionServer(t, verdict, http.StatusOK)
	defer srv.Close()

	g := NewGrader(aiConfig(srv.URL), zap.NewNop())
	assessment, err := g.Grade(context.Background(),
		models.CourseTask{ID: "t1", CourseID: "c1", Title: "Salom dunyo"}, `fmt.Println("salom")`)
	require.NoError(t, err)
	assert.Equal(t, 92, assessment.Grade)
	assert.Equal(t, "To'g'ri", assessment.Result)
	assert.Equal(t, 7, assessment.CognitiveImpact)
}

func TestGraderClampsGrade(t *testing.T) {
	srv := fakeCompletionServer(t, `{"result":"ok","grade":140}`, http.StatusOK)
	defer srv.Close()

	g := NewGrader(aiConfig(srv.URL), zap.NewNop())
	assessment, err := g.Grade(context.Background(), models.CourseTask{ID: "t1", CourseID: "c1"}, "x")
	require.NoError(t, err)
	assert.Equal(t, 100, assessment.Grade)
}

func TestGraderErrorsOnUpstreamFailure(t *testing.T) {
	srv := fakeCompletionServer(t, "", http.StatusBadGateway)
	defer srv.Close()

	g := NewGrader(aiConfig(srv.URL), zap.NewNop())
	_, err := g.Grade(context.Background(), models.CourseTask{ID: "t1", CourseID: "c1"}, "x")
	require.Error(t, err)

	fallback := Fallback()
	assert.Zero(t, fallback.Grade)
	assert.Equal(t, FallbackApology, fallback.Result)
}

func TestGraderErrorsOnUnparseableVerdict(t *testing.T) {
	srv := fakeCompletionServer(t, "this is not json", http.StatusOK)
	defer srv.Close()

	g := NewGrader(aiConfig(srv.URL), zap.NewNop())
	_, err := g.Grade(context.Background(), models.CourseTask{ID: "t1", CourseID: "c1"}, "x")
	require.Error(t, err)
}
