package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/asethi/tutorhub/internal/i18n"
	"github.com/asethi/tutorhub/internal/llm"
	"github.com/asethi/tutorhub/internal/model"
	"github.com/asethi/tutorhub/internal/scoring"
	"github.com/asethi/tutorhub/internal/store"
	"github.com/asethi/tutorhub/internal/testgen"
	"github.com/asethi/tutorhub/internal/tutor"
)

// newTestServer wires the full stack over an in-memory store and canned
// completions.
func newTestServer(t *testing.T, replies ...llm.MockReply) (*httptest.Server, *store.Store) {
	t.Helper()
	if err := i18n.Init("en"); err != nil {
		t.Fatalf("i18n.Init: %v", err)
	}
	s, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	gateway := tutor.NewGateway(llm.NewMockClient(replies...))
	svc := tutor.NewService(s, gateway, 14)
	composer := testgen.NewComposer(svc, gateway, s, testgen.DefaultHistoryLimit, testgen.DefaultMinHistory)

	r := chi.NewRouter()
	r.Use(i18n.Middleware("en"))
	New(s, svc, composer).Routes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, s
}

// postJSON sends body to path and decodes the response into dst when
// dst is non-nil.
func postJSON(t *testing.T, srv *httptest.Server, path string, body, dst any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if dst != nil {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			t.Fatalf("decode %s response: %v", path, err)
		}
	}
	return resp
}

func seedTurns(t *testing.T, s *store.Store, studentID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		role := model.RoleStudent
		if i%2 == 1 {
			role = model.RoleTutor
		}
		turn := model.Turn{
			Role:      role,
			Text:      fmt.Sprintf("turn %d", i),
			Timestamp: fmt.Sprintf("2025-03-01T10:00:%02d.000000Z", i),
		}
		if err := s.AppendTurn(studentID, turn); err != nil {
			t.Fatalf("AppendTurn: %v", err)
		}
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out map[string]bool
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out["ok"] {
		t.Errorf("body = %v, want ok=true", out)
	}
}

func TestChatExchange(t *testing.T) {
	srv, s := newTestServer(t, llm.MockReply{Text: "Plants use sunlight to make food."})

	var out map[string]string
	resp := postJSON(t, srv, "/chat", map[string]string{
		"studentId": "alice",
		"message":   "What is photosynthesis?",
	}, &out)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if out["reply"] != "Plants use sunlight to make food." {
		t.Errorf("reply = %q", out["reply"])
	}

	turns, err := s.AllTurns("alice")
	if err != nil {
		t.Fatalf("AllTurns: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("recorded %d turns, want 2", len(turns))
	}
	if turns[0].Role != model.RoleStudent || turns[0].Text != "What is photosynthesis?" {
		t.Errorf("first turn = %+v", turns[0])
	}
	if turns[1].Role != model.RoleTutor || turns[1].Text != "Plants use sunlight to make food." {
		t.Errorf("second turn = %+v", turns[1])
	}
}

func TestChatGenerationFault(t *testing.T) {
	srv, s := newTestServer(t, llm.MockReply{Err: fmt.Errorf("model overloaded")})

	var out map[string]string
	resp := postJSON(t, srv, "/chat", map[string]string{
		"studentId": "alice",
		"message":   "Hi!",
	}, &out)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(out["reply"], "model overloaded") {
		t.Errorf("reply = %q, want embedded fault", out["reply"])
	}

	n, err := s.CountTurns("alice")
	if err != nil {
		t.Fatalf("CountTurns: %v", err)
	}
	if n != 2 {
		t.Errorf("recorded %d turns, want 2", n)
	}
}

func TestChatValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []struct {
		name    string
		body    any
		wantErr string
	}{
		{"missing student", map[string]string{"message": "hi"}, "studentId is required"},
		{"blank student", map[string]string{"studentId": "  ", "message": "hi"}, "studentId is required"},
		{"missing message", map[string]string{"studentId": "alice"}, "message is required"},
		{"blank message", map[string]string{"studentId": "alice", "message": "\n "}, "message is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out map[string]string
			resp := postJSON(t, srv, "/chat", tc.body, &out)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			if out["error"] != tc.wantErr {
				t.Errorf("error = %q, want %q", out["error"], tc.wantErr)
			}
		})
	}
}

func TestChatRejectsMalformedBody(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/chat", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("POST /chat: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

type testResponse struct {
	TestID    string           `json:"testId"`
	Questions []model.Question `json:"questions"`
}

func TestGenerateTestFallback(t *testing.T) {
	srv, s := newTestServer(t)
	seedTurns(t, s, "bob", 2)

	var out testResponse
	resp := postJSON(t, srv, "/generate_test", map[string]string{"studentId": "bob"}, &out)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if out.TestID == "" {
		t.Error("testId is empty")
	}
	if !reflect.DeepEqual(out.Questions, testgen.FallbackQuestions()) {
		t.Error("questions do not match the fallback template")
	}

	stored, err := s.TestByID("bob", out.TestID)
	if err != nil {
		t.Fatalf("TestByID: %v", err)
	}
	if stored == nil {
		t.Fatal("test was not persisted")
	}
	if stored.Completed {
		t.Error("fresh test is marked completed")
	}
}

func TestGenerateTestSynthesized(t *testing.T) {
	questions := testgen.FallbackQuestions()
	questions[0].Question = "What is 9 + 4?"
	questions[0].Options = []string{"11", "12", "13", "14"}
	questions[0].Answer = "13"
	reply, err := json.Marshal(map[string]any{"questions": questions})
	if err != nil {
		t.Fatalf("marshal reply: %v", err)
	}

	srv, s := newTestServer(t, llm.MockReply{Text: string(reply)})
	seedTurns(t, s, "bob", 6)

	var out testResponse
	resp := postJSON(t, srv, "/generate_test", map[string]string{"studentId": "bob"}, &out)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if len(out.Questions) != 14 {
		t.Fatalf("got %d questions, want 14", len(out.Questions))
	}
	if out.Questions[0].Question != "What is 9 + 4?" {
		t.Errorf("first question = %q, want synthesized one", out.Questions[0].Question)
	}
}

func TestGenerateTestValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	var out map[string]string
	resp := postJSON(t, srv, "/generate_test", map[string]string{}, &out)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if out["error"] != "studentId is required" {
		t.Errorf("error = %q", out["error"])
	}
}

func createTest(t *testing.T, s *store.Store, studentID string, questions []model.Question) string {
	t.Helper()
	test := model.Test{
		ID:        "t-1",
		StudentID: studentID,
		CreatedAt: model.NowISO(),
		Questions: questions,
	}
	if err := s.CreateTest(test); err != nil {
		t.Fatalf("CreateTest: %v", err)
	}
	return test.ID
}

func TestSubmitTest(t *testing.T) {
	srv, s := newTestServer(t)
	testID := createTest(t, s, "carol", []model.Question{
		{Type: model.TypeMultipleChoice, Subject: "Math", Question: "2+2?", Options: []string{"3", "4", "5", "6"}, Answer: "4"},
		{Type: model.TypeMultipleChoice, Subject: "Math", Question: "3x3?", Options: []string{"6", "9", "12", "15"}, Answer: "9"},
	})

	answers := []model.SubmittedAnswer{
		{Type: model.TypeMultipleChoice, Subject: "Math", Answer: "4", StudentAnswer: "4"},
		{Type: model.TypeMultipleChoice, Subject: "Math", Answer: "9", StudentAnswer: "6"},
	}
	var out struct {
		Message       string                         `json:"message"`
		Score         *string                        `json:"score"`
		SubjectScores map[string]*model.SubjectScore `json:"subjectScores"`
	}
	resp := postJSON(t, srv, "/submit_test", map[string]any{
		"studentId": "carol",
		"testId":    testID,
		"answers":   answers,
	}, &out)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if out.Message != "✅ Test submitted" {
		t.Errorf("message = %q", out.Message)
	}
	if out.Score == nil || *out.Score != "1/2" {
		t.Errorf("score = %v, want 1/2", out.Score)
	}
	math := out.SubjectScores["Math"]
	if math == nil || math.Correct != 1 || math.Total != 2 {
		t.Errorf("Math breakdown = %+v, want 1/2", math)
	}

	stored, err := s.TestByID("carol", testID)
	if err != nil {
		t.Fatalf("TestByID: %v", err)
	}
	if !stored.Completed {
		t.Error("test not marked completed")
	}
	if stored.Score == nil || *stored.Score != "1/2" {
		t.Errorf("stored score = %v", stored.Score)
	}
	if len(stored.StudentAnswers) != 2 {
		t.Errorf("stored %d answers, want 2", len(stored.StudentAnswers))
	}
}

func TestSubmitTestResubmission(t *testing.T) {
	srv, s := newTestServer(t)
	testID := createTest(t, s, "carol", []model.Question{
		{Type: model.TypeMultipleChoice, Subject: "Math", Question: "2+2?", Options: []string{"3", "4", "5", "6"}, Answer: "4"},
	})

	right := []model.SubmittedAnswer{{Type: model.TypeMultipleChoice, Subject: "Math", Answer: "4", StudentAnswer: "4"}}
	wrong := []model.SubmittedAnswer{{Type: model.TypeMultipleChoice, Subject: "Math", Answer: "4", StudentAnswer: "3"}}

	postJSON(t, srv, "/submit_test", map[string]any{"studentId": "carol", "testId": testID, "answers": right}, nil)
	var out struct {
		Score *string `json:"score"`
	}
	resp := postJSON(t, srv, "/submit_test", map[string]any{"studentId": "carol", "testId": testID, "answers": wrong}, &out)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if out.Score == nil || *out.Score != "0/1" {
		t.Errorf("score = %v, want 0/1 after resubmission", out.Score)
	}

	stored, err := s.TestByID("carol", testID)
	if err != nil {
		t.Fatalf("TestByID: %v", err)
	}
	if stored.Score == nil || *stored.Score != "0/1" {
		t.Errorf("stored score = %v, want latest submission", stored.Score)
	}
}

func TestSubmitTestUnknown(t *testing.T) {
	srv, _ := newTestServer(t)

	var out map[string]string
	resp := postJSON(t, srv, "/submit_test", map[string]any{
		"studentId": "carol",
		"testId":    "missing",
		"answers":   []model.SubmittedAnswer{},
	}, &out)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if out["error"] != "test not found" {
		t.Errorf("error = %q", out["error"])
	}
}

func TestSubmitTestForeignStudent(t *testing.T) {
	srv, s := newTestServer(t)
	testID := createTest(t, s, "carol", []model.Question{
		{Type: model.TypeMultipleChoice, Subject: "Math", Question: "2+2?", Options: []string{"3", "4", "5", "6"}, Answer: "4"},
	})

	resp := postJSON(t, srv, "/submit_test", map[string]any{
		"studentId": "mallory",
		"testId":    testID,
		"answers":   []model.SubmittedAnswer{},
	}, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for another student's test", resp.StatusCode)
	}
}

func TestSubmitTestValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	var out map[string]string
	resp := postJSON(t, srv, "/submit_test", map[string]any{"studentId": "carol"}, &out)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if out["error"] != "studentId and testId are required" {
		t.Errorf("error = %q", out["error"])
	}
}

func TestGetTestsEmpty(t *testing.T) {
	srv, _ := newTestServer(t)

	var out map[string]any
	resp := postJSON(t, srv, "/get_tests", map[string]string{"studentId": "dave"}, &out)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	tests, ok := out["tests"].([]any)
	if !ok {
		t.Fatalf("tests field = %T, want array", out["tests"])
	}
	if len(tests) != 0 {
		t.Errorf("got %d tests, want 0", len(tests))
	}
}

func TestGetTestsListsAscending(t *testing.T) {
	srv, s := newTestServer(t)
	questions := []model.Question{
		{Type: model.TypeMultipleChoice, Subject: "Math", Question: "2+2?", Options: []string{"3", "4", "5", "6"}, Answer: "4"},
	}
	for i, id := range []string{"t-old", "t-new"} {
		test := model.Test{
			ID:        id,
			StudentID: "dave",
			CreatedAt: fmt.Sprintf("2025-03-0%dT09:00:00.000000Z", i+1),
			Questions: questions,
		}
		if err := s.CreateTest(test); err != nil {
			t.Fatalf("CreateTest: %v", err)
		}
	}
	score, breakdown := scoring.Score([]model.SubmittedAnswer{
		{Type: model.TypeMultipleChoice, Subject: "Math", Answer: "4", StudentAnswer: "4"},
	})
	if err := s.CompleteTest("dave", "t-old", score, nil, breakdown); err != nil {
		t.Fatalf("CompleteTest: %v", err)
	}

	var out struct {
		Tests []model.Test `json:"tests"`
	}
	resp := postJSON(t, srv, "/get_tests", map[string]string{"studentId": "dave"}, &out)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if len(out.Tests) != 2 {
		t.Fatalf("got %d tests, want 2", len(out.Tests))
	}
	if out.Tests[0].ID != "t-old" || out.Tests[1].ID != "t-new" {
		t.Errorf("order = %s, %s; want oldest first", out.Tests[0].ID, out.Tests[1].ID)
	}
	if !out.Tests[0].Completed || out.Tests[0].Score == nil || *out.Tests[0].Score != "1/1" {
		t.Errorf("completed test = %+v", out.Tests[0])
	}
	if out.Tests[1].Completed {
		t.Error("fresh test reported as completed")
	}
}
