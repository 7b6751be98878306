package ws

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ZelenyMartin/quiz-server/internal/app"
	"github.com/ZelenyMartin/quiz-server/internal/domain"
	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T) (*app.Session, *httptest.Server) {
	t.Helper()
	quiz := domain.Quiz{
		Name: "T",
		Questions: []domain.Question{
			{
				Text: "2+2?",
				Options: []domain.Option{
					{Answer: "3", Correct: false},
					{Answer: "4", Correct: true},
				},
			},
		},
	}

	session := app.NewSession(quiz, io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go session.Run(ctx)

	mux := http.NewServeMux()
	NewHandler(session).Register(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return session, server
}

func dial(t *testing.T, server *httptest.Server, playerID string) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/register/" + playerID
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) domain.Message {
	t.Helper()
	var msg domain.Message
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	return msg
}

func TestRegisterAnswerAndQuizEnd(t *testing.T) {
	session, server := newTestServer(t)
	conn := dial(t, server, "p1")

	// Greeting: quiz name, then the join prompt.
	if msg := readMessage(t, conn); msg.Type != domain.MessageInfo || msg.Text != "T" {
		t.Fatalf("expected quiz name, got %+v", msg)
	}
	if msg := readMessage(t, conn); msg.Type != domain.MessageInfo {
		t.Fatalf("expected join prompt, got %+v", msg)
	}

	if err := session.Send(app.Start{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if msg := readMessage(t, conn); msg.Type != domain.MessageInfo {
		t.Fatalf("expected start notice, got %+v", msg)
	}

	if err := session.Send(app.Advance{}); err != nil {
		t.Fatalf("advance: %v", err)
	}
	q := readMessage(t, conn)
	if q.Type != domain.MessageQuestion || q.Text != "2+2?" {
		t.Fatalf("expected question, got %+v", q)
	}
	if len(q.Options) != 2 || q.Options[0] != "3" || q.Options[1] != "4" {
		t.Fatalf("unexpected options %v", q.Options)
	}

	if err := conn.WriteJSON(map[string]string{"answer": "4"}); err != nil {
		t.Fatalf("write answer: %v", err)
	}
	if msg := readMessage(t, conn); msg.Type != domain.MessageAck {
		t.Fatalf("expected ack, got %+v", msg)
	}

	// Give the answer time to land before reading the scoreboard.
	deadline := time.Now().Add(2 * time.Second)
	for {
		scores := session.Registry().Scores()
		if len(scores) == 1 && scores[0].Points == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("score never reached 1: %+v", scores)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := session.Send(app.Advance{}); err != nil {
		t.Fatalf("final advance: %v", err)
	}

	sawEnd := false
	for {
		var msg domain.Message
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&msg); err != nil {
			break // server closed the connection
		}
		if msg.Type == domain.MessageEnd {
			sawEnd = true
		}
	}
	if !sawEnd {
		t.Fatalf("never received end message before close")
	}
}

func TestStrayMessagesAreIgnored(t *testing.T) {
	session, server := newTestServer(t)
	conn := dial(t, server, "p1")
	readMessage(t, conn) // name
	readMessage(t, conn) // prompt

	// No window is open; these must neither error nor close the connection.
	if err := conn.WriteMessage(websocket.TextMessage, []byte("hello there")); err != nil {
		t.Fatalf("write stray: %v", err)
	}
	if err := conn.WriteJSON(map[string]string{"answer": "4"}); err != nil {
		t.Fatalf("write out-of-window answer: %v", err)
	}

	if err := session.Send(app.Start{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if msg := readMessage(t, conn); msg.Type != domain.MessageInfo {
		t.Fatalf("connection unusable after stray messages: %+v", msg)
	}
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	_, server := newTestServer(t)
	first := dial(t, server, "p1")
	readMessage(t, first) // name
	readMessage(t, first) // prompt

	second := dial(t, server, "p1")
	msg := readMessage(t, second)
	if msg.Type != domain.MessageInfo || msg.Text == "T" {
		t.Fatalf("expected registration failure notice, got %+v", msg)
	}
}

func TestDisconnectRemovesPlayer(t *testing.T) {
	session, server := newTestServer(t)
	conn := dial(t, server, "p1")
	readMessage(t, conn)
	readMessage(t, conn)

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for session.Registry().Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("player still registered after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
