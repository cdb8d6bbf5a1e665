package router

import (
	"testing"

	tg "github.com/emarket/adminbot/core/telegram"
	"github.com/emarket/adminbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

const adminChat = int64(42)

type fakeContext struct {
	tele.Context

	chat *tele.Chat
	text string
	cb   *tele.Callback

	kv        map[string]any
	sent      []string
	responded bool
}

func newFakeContext(chatID int64) *fakeContext {
	return &fakeContext{chat: &tele.Chat{ID: chatID}}
}

func (f *fakeContext) Chat() *tele.Chat   { return f.chat }
func (f *fakeContext) Sender() *tele.User { return &tele.User{ID: f.chat.ID} }
func (f *fakeContext) Text() string       { return f.text }

func (f *fakeContext) Update() tele.Update {
	return tele.Update{Callback: f.cb}
}

func (f *fakeContext) Callback() *tele.Callback { return f.cb }

func (f *fakeContext) Message() *tele.Message {
	return &tele.Message{Text: f.text, Chat: f.chat}
}

func (f *fakeContext) Get(key string) any { return f.kv[key] }

func (f *fakeContext) Set(key string, value any) {
	if f.kv == nil {
		f.kv = make(map[string]any)
	}
	f.kv[key] = value
}

func (f *fakeContext) Send(what interface{}, _ ...interface{}) error {
	if s, ok := what.(string); ok {
		f.sent = append(f.sent, s)
	}
	return nil
}

func (f *fakeContext) Respond(_ ...*tele.CallbackResponse) error {
	f.responded = true
	return nil
}

func TestCallbackRouteAcksThenDropsUnauthorized(t *testing.T) {
	reg := tg.NewRegistry()
	called := false
	_ = reg.RegisterCallback("confirm", func(c tele.Context) error {
		called = true
		return nil
	})

	route := CallbackRoute(reg, CallbackOptions{AdminChatID: adminChat})

	c := newFakeContext(99)
	c.cb = &tele.Callback{Data: "confirm:EM-1"}
	if err := route.Handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !c.responded {
		t.Fatal("unauthorized callback was not acknowledged")
	}
	if called {
		t.Fatal("unauthorized callback reached the handler")
	}
	if len(c.sent) != 0 {
		t.Fatalf("unauthorized callback produced output: %v", c.sent)
	}
}

func TestCallbackRouteDispatchesByAction(t *testing.T) {
	reg := tg.NewRegistry()
	var gotAction string
	_ = reg.RegisterCallback("confirm", func(c tele.Context) error {
		gotAction = "confirm"
		return nil
	})

	route := CallbackRoute(reg, CallbackOptions{AdminChatID: adminChat})

	c := newFakeContext(adminChat)
	c.cb = &tele.Callback{Data: "confirm:EM-1"}
	if err := route.Handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !c.responded {
		t.Fatal("callback was not acknowledged")
	}
	if gotAction != "confirm" {
		t.Fatalf("dispatched action = %q", gotAction)
	}
}

func TestCallbackRouteUnknownAction(t *testing.T) {
	reg := tg.NewRegistry()
	route := CallbackRoute(reg, CallbackOptions{AdminChatID: adminChat})

	c := newFakeContext(adminChat)
	c.cb = &tele.Callback{Data: "explode:EM-1"}
	if err := route.Handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(c.sent) != 1 || c.sent[0] != "Unknown action." {
		t.Fatalf("unknown action reply = %v", c.sent)
	}
}

func TestTextRouteDropsNonAdminSilently(t *testing.T) {
	reg := tg.NewRegistry()
	fallbackCalled := false
	reg.SetTextFallback(func(c tele.Context) error {
		fallbackCalled = true
		return nil
	})

	routes := TextRoutes(reg, TextOptions{AdminChatID: adminChat})

	c := newFakeContext(99)
	c.text = "hello there"
	if err := routes[0].Handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if fallbackCalled {
		t.Fatal("non-admin text reached the fallback")
	}
	if len(c.sent) != 0 {
		t.Fatalf("non-admin text produced output: %v", c.sent)
	}
}

func TestTextRouteMatchesCommandToken(t *testing.T) {
	reg := tg.NewRegistry()
	ran := false
	reg.RegisterCommand("/ping", commands.Command{
		Handler:     func(c tele.Context) error { ran = true; return nil },
		Description: "ping",
	})

	routes := TextRoutes(reg, TextOptions{AdminChatID: adminChat})

	c := newFakeContext(adminChat)
	c.text = "/ping extra args"
	if err := routes[0].Handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !ran {
		t.Fatal("command token did not route to its handler")
	}
}

func TestTextRoutePlainTextNeverMatchesCommand(t *testing.T) {
	reg := tg.NewRegistry()
	commandRan := false
	reg.RegisterCommand("/reply", commands.Command{
		Handler:     func(c tele.Context) error { commandRan = true; return nil },
		Description: "reply",
		Aliases:     []string{"/send"},
	})
	reg.RegisterCommand("/pending", commands.Command{
		Handler:     func(c tele.Context) error { commandRan = true; return nil },
		Description: "pending",
	})
	var fallbackGot []string
	reg.SetTextFallback(func(c tele.Context) error {
		fallbackGot = append(fallbackGot, c.Text())
		return nil
	})

	routes := TextRoutes(reg, TextOptions{AdminChatID: adminChat})

	// first words collide with a command alias and a command name
	for _, text := range []string{
		"send me your shipping address please",
		"pending payment received",
	} {
		c := newFakeContext(adminChat)
		c.text = text
		if err := routes[0].Handler(c); err != nil {
			t.Fatalf("handler(%q): %v", text, err)
		}
	}

	if commandRan {
		t.Fatal("plain text was dispatched as a command")
	}
	if len(fallbackGot) != 2 {
		t.Fatalf("fallback received %v, want both plain messages", fallbackGot)
	}
}

func TestTextRouteIgnoresUnknownSlash(t *testing.T) {
	reg := tg.NewRegistry()
	fallbackCalled := false
	reg.SetTextFallback(func(c tele.Context) error {
		fallbackCalled = true
		return nil
	})

	routes := TextRoutes(reg, TextOptions{AdminChatID: adminChat})

	c := newFakeContext(adminChat)
	c.text = "/definitely_not_a_command"
	if err := routes[0].Handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if fallbackCalled {
		t.Fatal("unknown slash text reached the fallback")
	}
}

func TestTextRouteFallsBack(t *testing.T) {
	reg := tg.NewRegistry()
	var got string
	reg.SetTextFallback(func(c tele.Context) error {
		got = c.Text()
		return nil
	})

	routes := TextRoutes(reg, TextOptions{AdminChatID: adminChat})

	c := newFakeContext(adminChat)
	c.text = "plain reply body"
	if err := routes[0].Handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if got != "plain reply body" {
		t.Fatalf("fallback received %q", got)
	}
}

func TestNormalizeHandlerName(t *testing.T) {
	cases := map[string]string{
		"/Approve":   "approve",
		"  ":         "unknown",
		"reply init": "reply_init",
		"view":       "view",
	}
	for in, want := range cases {
		if got := normalizeHandlerName(in); got != want {
			t.Errorf("normalizeHandlerName(%q) = %q, want %q", in, got, want)
		}
	}
}
