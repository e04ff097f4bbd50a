package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chatstream-backend/internal/llm"
	"chatstream-backend/internal/middleware"
	"chatstream-backend/internal/models"
	"chatstream-backend/internal/relay"
	"chatstream-backend/internal/repo"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type fakeConversations struct {
	owner    uuid.UUID
	existing map[uuid.UUID]bool
	created  int
}

func (f *fakeConversations) CreateConversation(userUUID uuid.UUID, title string) (models.Conversation, error) {
	f.created++
	conversation := models.Conversation{UUID: uuid.New(), UserUUID: userUUID, Title: title}
	f.existing[conversation.UUID] = true
	return conversation, nil
}

func (f *fakeConversations) GetConversationForUser(convUUID uuid.UUID, userUUID uuid.UUID) (models.Conversation, error) {
	if userUUID != f.owner || !f.existing[convUUID] {
		return models.Conversation{}, repo.ErrConversationNotFound
	}
	return models.Conversation{UUID: convUUID, UserUUID: userUUID}, nil
}

func (f *fakeConversations) ResolveOrCreate(userUUID uuid.UUID, convUUID uuid.UUID, fallbackTitle string) (uuid.UUID, error) {
	if convUUID == uuid.Nil {
		conversation, err := f.CreateConversation(userUUID, repo.TruncateTitle(fallbackTitle))
		return conversation.UUID, err
	}
	conversation, err := f.GetConversationForUser(convUUID, userUUID)
	if err != nil {
		return uuid.Nil, err
	}
	return conversation.UUID, nil
}

func (f *fakeConversations) GetConversationsByUser(_ uuid.UUID, _ int, _ int) ([]models.Conversation, int64, error) {
	return nil, 0, nil
}

type fakeMessages struct {
	roles    []models.Role
	contents []string
}

func (f *fakeMessages) AppendMessage(_ uuid.UUID, role models.Role, content string, _ map[string]interface{}) (uuid.UUID, error) {
	f.roles = append(f.roles, role)
	f.contents = append(f.contents, content)
	return uuid.New(), nil
}

func (f *fakeMessages) GetMessagesByConversation(_ uuid.UUID, _ int, _ int) ([]models.Message, int64, error) {
	return nil, 0, nil
}

type stubGen struct {
	fragments []string
	closed    int
}

func (g *stubGen) Stream(_ context.Context, _ string, _ string, onFragment func(string) error) error {
	for _, fragment := range g.fragments {
		if err := onFragment(fragment); err != nil {
			return err
		}
	}
	return nil
}

func (g *stubGen) Close() error {
	g.closed++
	return nil
}

type streamFixture struct {
	app           *fiber.App
	conversations *fakeConversations
	messages      *fakeMessages
	gen           *stubGen
	factoryCalls  int
	user          models.User
}

func newStreamFixture(t *testing.T) *streamFixture {
	t.Helper()

	f := &streamFixture{
		user: models.User{UUID: uuid.New(), Email: "alice@example.com"},
		gen:  &stubGen{fragments: []string{"Hel", "lo"}},
	}
	f.conversations = &fakeConversations{owner: f.user.UUID, existing: map[uuid.UUID]bool{}}
	f.messages = &fakeMessages{}

	factory := func(_ context.Context, _ string, _ string, _ float64) (llm.StreamClient, error) {
		f.factoryCalls++
		return f.gen, nil
	}

	handler := NewStreamHandler(f.conversations, f.messages, factory, relay.New(f.messages, time.Second))

	f.app = fiber.New()
	f.app.Post("/chat/stream", func(c *fiber.Ctx) error {
		c.Locals(middleware.UserLocalKey, f.user)
		return handler.StreamAsk(c)
	})
	return f
}

func (f *streamFixture) post(t *testing.T, body string) (int, string) {
	t.Helper()

	req := httptest.NewRequest("POST", "/chat/stream", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test err: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body err: %v", err)
	}
	return resp.StatusCode, string(raw)
}

func TestStreamAskEmptyMessage(t *testing.T) {
	f := newStreamFixture(t)

	status, _ := f.post(t, `{"message": "   "}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if f.factoryCalls != 0 {
		t.Fatal("provider created for an invalid request")
	}
}

func TestStreamAskTemperatureOutOfRange(t *testing.T) {
	f := newStreamFixture(t)

	status, _ := f.post(t, `{"message": "hi", "temperature": 1.5}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	// rejected before any upstream call
	if f.factoryCalls != 0 {
		t.Fatal("provider created despite out-of-range temperature")
	}
	if len(f.messages.roles) != 0 {
		t.Fatal("message stored despite out-of-range temperature")
	}
}

func TestStreamAskForeignConversationNotFound(t *testing.T) {
	f := newStreamFixture(t)

	status, _ := f.post(t, `{"message": "hi", "conversation_id": "`+uuid.NewString()+`"}`)
	if status != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
	if f.factoryCalls != 0 {
		t.Fatal("provider created for an unresolvable conversation")
	}
}

func TestStreamAskStreamsAndPersists(t *testing.T) {
	f := newStreamFixture(t)

	status, body := f.post(t, `{"message": "say hello"}`)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	if !strings.Contains(body, `data: {"data":"Hel"}`) || !strings.Contains(body, `data: {"data":"lo"}`) {
		t.Fatalf("fragments missing from stream: %q", body)
	}
	if !strings.Contains(body, "data: [DONE]") {
		t.Fatalf("sentinel missing from stream: %q", body)
	}

	if f.conversations.created != 1 {
		t.Fatalf("conversations created = %d, want 1", f.conversations.created)
	}
	if len(f.messages.roles) != 2 {
		t.Fatalf("stored %d messages, want user + assistant", len(f.messages.roles))
	}
	if f.messages.roles[0] != models.RoleUser || f.messages.contents[0] != "say hello" {
		t.Fatalf("user message stored wrong: %v %v", f.messages.roles[0], f.messages.contents[0])
	}
	if f.messages.roles[1] != models.RoleAssistant || f.messages.contents[1] != "Hello" {
		t.Fatalf("assistant message stored wrong: %v %v", f.messages.roles[1], f.messages.contents[1])
	}
	if f.gen.closed != 1 {
		t.Fatalf("provider closed %d times, want 1", f.gen.closed)
	}
}

func TestStreamAskExistingConversationNotDuplicated(t *testing.T) {
	f := newStreamFixture(t)
	convUUID := uuid.New()
	f.conversations.existing[convUUID] = true

	for i := 0; i < 2; i++ {
		status, _ := f.post(t, `{"message": "hi", "conversation_id": "`+convUUID.String()+`"}`)
		if status != fiber.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
	}

	if f.conversations.created != 0 {
		t.Fatalf("existing conversation duplicated %d times", f.conversations.created)
	}
}
