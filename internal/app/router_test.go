package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lingua_edu_backend/internal/config"
	"lingua_edu_backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	cfg := &config.Config{
		Server:    config.ServerConfig{Mode: gin.TestMode},
		JWT:       config.JWTConfig{Secret: "router-test-secret", ExpireTime: time.Hour},
		RateLimit: config.RateLimitConfig{MaxRequests: 1000, WindowMinutes: 1},
		Quiz:      config.QuizConfig{DefaultRandomSize: 10, PoolLessonLimit: 100},
		Progress:  config.ProgressConfig{Timezone: "UTC", MaxStreakDays: 365},
	}
	a, err := Build(cfg, db, nil)
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	return &testServer{t: t, db: db, router: a.Router}
}

func (s *testServer) do(method, path, token string, body any) (int, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			if err := json.NewEncoder(&buf).Encode(b); err != nil {
				s.t.Fatalf("encode body: %v", err)
			}
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w.Code, env
}

func (s *testServer) register(username string) string {
	s.t.Helper()
	code, env := s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "Passw0rd!",
	})
	if code != http.StatusCreated {
		s.t.Fatalf("register: %d %s", code, env.Message)
	}
	var data struct {
		Access string `json:"access"`
	}
	_ = json.Unmarshal(env.Data, &data)
	if data.Access == "" {
		s.t.Fatalf("register returned no token")
	}
	return data.Access
}

func TestAuthRoutes(t *testing.T) {
	s := newTestServer(t)
	s.register("ana")

	if code, _ := s.do(http.MethodPost, "/api/auth/register", "", gin.H{"username": "ana", "password": "Passw0rd!"}); code != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", code)
	}
	if code, _ := s.do(http.MethodPost, "/api/auth/register", "", gin.H{"username": "bob", "password": "weak"}); code != http.StatusBadRequest {
		t.Fatalf("weak password: expected 400, got %d", code)
	}
	if code, _ := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"username": "ana", "password": "nope"}); code != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", code)
	}

	code, env := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"username": "ana", "password": "Passw0rd!"})
	if code != http.StatusOK {
		t.Fatalf("login: %d %s", code, env.Message)
	}
	var data struct {
		Access string          `json:"access"`
		User   json.RawMessage `json:"user"`
	}
	_ = json.Unmarshal(env.Data, &data)
	if bytes.Contains(data.User, []byte("password")) {
		t.Fatalf("user payload must not expose the password hash: %s", data.User)
	}

	if code, _ := s.do(http.MethodGet, "/api/me", data.Access, nil); code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", code)
	}
	if code, _ := s.do(http.MethodGet, "/api/me", "", nil); code != http.StatusUnauthorized {
		t.Fatalf("me without token: expected 401, got %d", code)
	}
	if code, _ := s.do(http.MethodGet, "/api/me", "garbage", nil); code != http.StatusUnauthorized {
		t.Fatalf("me with bad token: expected 401, got %d", code)
	}
}

func TestQuizAndProgressRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.register("mara")
	cat := testutil.SeedCategory(t, s.db, "basics")
	lesson := testutil.SeedLesson(t, s.db, cat.ID, "Lesson 1", []map[string]any{
		{"type": "mcq", "options": []any{"There", "It"}, "correct_index": 0},
		{"type": "fill", "answer": "ok"},
	})

	code, env := s.do(http.MethodPost, "/api/quiz/attempt", token, fmt.Sprintf(`{
		"lesson_id": %d,
		"answers": [
			{"question_id": 1, "selected": {"index": 0}},
			{"question_id": 2, "selected": {"text": "OK"}}
		]
	}`, lesson.ID))
	if code != http.StatusOK {
		t.Fatalf("attempt: %d %s", code, env.Message)
	}
	var result struct {
		ScorePct int `json:"score_pct"`
		XPDelta  int `json:"xp_delta"`
		Results  []struct {
			QuestionID int  `json:"question_id"`
			IsCorrect  bool `json:"is_correct"`
		} `json:"results"`
	}
	_ = json.Unmarshal(env.Data, &result)
	if result.ScorePct != 100 || result.XPDelta != 20 || len(result.Results) != 2 {
		t.Fatalf("unexpected attempt result %s", env.Data)
	}

	if code, _ := s.do(http.MethodPost, "/api/quiz/attempt", token, fmt.Sprintf(`{"lesson_id": %d, "answers": "x"}`, lesson.ID)); code != http.StatusBadRequest {
		t.Fatalf("non-array answers: expected 400, got %d", code)
	}
	if code, _ := s.do(http.MethodPost, "/api/quiz/attempt", token, `{"lesson_id": 9999, "answers": []}`); code != http.StatusNotFound {
		t.Fatalf("unknown lesson: expected 404, got %d", code)
	}
	if code, _ := s.do(http.MethodPost, "/api/quiz/attempt", "", `{"lesson_id": 1, "answers": []}`); code != http.StatusUnauthorized {
		t.Fatalf("anonymous attempt: expected 401, got %d", code)
	}

	code, env = s.do(http.MethodGet, "/api/me/summary", token, nil)
	if code != http.StatusOK {
		t.Fatalf("summary: %d %s", code, env.Message)
	}
	var summary map[string]any
	_ = json.Unmarshal(env.Data, &summary)
	if summary["completedLessons"] != float64(1) || summary["xp"] != float64(20) || summary["username"] != "mara" {
		t.Fatalf("unexpected summary %s", env.Data)
	}

	code, env = s.do(http.MethodPost, "/api/progress", token, fmt.Sprintf(`{"lesson_id": %d, "percent": "50"}`, lesson.ID))
	if code != http.StatusOK {
		t.Fatalf("progress: %d %s", code, env.Message)
	}
	var progress struct {
		OK      bool `json:"ok"`
		Percent int  `json:"percent"`
	}
	_ = json.Unmarshal(env.Data, &progress)
	if !progress.OK || progress.Percent != 100 {
		t.Fatalf("progress must keep the best score, got %s", env.Data)
	}
	if code, _ := s.do(http.MethodPost, "/api/progress", token, fmt.Sprintf(`{"lesson_id": %d, "percent": 150}`, lesson.ID)); code != http.StatusBadRequest {
		t.Fatalf("out of range percent: expected 400, got %d", code)
	}
	if code, _ := s.do(http.MethodPost, "/api/progress", token, `{"lesson_id": 9999, "percent": 10}`); code != http.StatusNotFound {
		t.Fatalf("unknown lesson progress: expected 404, got %d", code)
	}
}

func TestRandomQuizRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.register("ion")
	cat := testutil.SeedCategory(t, s.db, "rooms")
	lesson := testutil.SeedLesson(t, s.db, cat.ID, "Kitchen", []map[string]any{
		{"type": "tf", "correct": true},
		{"type": "fill", "answer": "ok"},
	})

	for _, q := range []string{"size=abc", "size=0", "category_id=x"} {
		if code, _ := s.do(http.MethodGet, "/api/quiz/random?"+q, token, nil); code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, code)
		}
	}

	code, env := s.do(http.MethodGet, fmt.Sprintf("/api/quiz/random?category_id=%d", cat.ID), token, nil)
	if code != http.StatusOK {
		t.Fatalf("random: %d %s", code, env.Message)
	}
	var quiz struct {
		Items []map[string]any `json:"items"`
	}
	_ = json.Unmarshal(env.Data, &quiz)
	if len(quiz.Items) != 2 {
		t.Fatalf("expected the whole pool of 2, got %s", env.Data)
	}

	code, env = s.do(http.MethodPost, "/api/quiz/random/attempt", token, fmt.Sprintf(`{"answers": [
		{"qid": 1, "lesson_id": %d, "item_index": 1, "selected": {"value": true}},
		{"qid": 2, "lesson_id": %d, "item_index": 2, "selected": {"text": "nope"}}
	]}`, lesson.ID, lesson.ID))
	if code != http.StatusOK {
		t.Fatalf("random attempt: %d %s", code, env.Message)
	}
	var result struct {
		ScorePct int `json:"score_pct"`
		XPDelta  int `json:"xp_delta"`
	}
	_ = json.Unmarshal(env.Data, &result)
	if result.ScorePct != 50 || result.XPDelta != 10 {
		t.Fatalf("unexpected random result %s", env.Data)
	}

	if code, _ := s.do(http.MethodPost, "/api/quiz/random/attempt", token, `{"answers": []}`); code != http.StatusBadRequest {
		t.Fatalf("empty random answers: expected 400, got %d", code)
	}
}

func TestCatalogAndHealthRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.register("eva")
	cat := testutil.SeedCategory(t, s.db, "rooms")
	lesson := testutil.SeedLesson(t, s.db, cat.ID, "Kitchen", nil)

	if code, _ := s.do(http.MethodGet, "/api/health", "", nil); code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", code)
	}

	code, env := s.do(http.MethodGet, "/api/categories", token, nil)
	if code != http.StatusOK || !bytes.Contains(env.Data, []byte(`"slug":"rooms"`)) {
		t.Fatalf("categories: %d %s", code, env.Data)
	}
	if code, _ := s.do(http.MethodGet, "/api/categories/missing", token, nil); code != http.StatusNotFound {
		t.Fatalf("missing category: expected 404, got %d", code)
	}
	code, env = s.do(http.MethodGet, "/api/categories/rooms/lessons", token, nil)
	if code != http.StatusOK || !bytes.Contains(env.Data, []byte(`"title":"Kitchen"`)) {
		t.Fatalf("lessons: %d %s", code, env.Data)
	}
	if code, _ := s.do(http.MethodGet, fmt.Sprintf("/api/lessons/%d", lesson.ID), token, nil); code != http.StatusOK {
		t.Fatalf("lesson: expected 200, got %d", code)
	}
	if code, _ := s.do(http.MethodGet, "/api/lessons/abc", token, nil); code != http.StatusBadRequest {
		t.Fatalf("bad lesson id: expected 400, got %d", code)
	}
}
