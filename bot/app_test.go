package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	coreconfig "github.com/emarket/adminbot/core/config"
	"github.com/emarket/adminbot/orders"

	tele "gopkg.in/telebot.v4"
)

// fakeContext implements the slice of tele.Context the handlers touch.
// Everything else panics via the embedded nil interface, which is what we
// want: it flags an untested dependency immediately.
type fakeContext struct {
	tele.Context

	chat    *tele.Chat
	text    string
	payload string
	replyTo *tele.Message
	cb      *tele.Callback

	kv   map[string]any
	sent []string
}

func newFakeContext(chatID int64, text string) *fakeContext {
	return &fakeContext{
		chat: &tele.Chat{ID: chatID},
		text: text,
	}
}

func (f *fakeContext) Chat() *tele.Chat    { return f.chat }
func (f *fakeContext) Sender() *tele.User  { return &tele.User{ID: f.chat.ID} }
func (f *fakeContext) Text() string        { return f.text }
func (f *fakeContext) Update() tele.Update { return tele.Update{} }

func (f *fakeContext) Callback() *tele.Callback { return f.cb }

func (f *fakeContext) Message() *tele.Message {
	return &tele.Message{Text: f.text, Payload: f.payload, Chat: f.chat, ReplyTo: f.replyTo}
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

func (f *fakeContext) Respond(_ ...*tele.CallbackResponse) error { return nil }

func (f *fakeContext) lastSent(t *testing.T) string {
	t.Helper()
	if len(f.sent) == 0 {
		t.Fatal("handler sent nothing")
	}
	return f.sent[len(f.sent)-1]
}

// fakeStore keeps orders in a map and mirrors the SQL store's semantics.
type fakeStore struct {
	orders  map[string]*orders.Order
	replies []string
	filters []orders.Filter
	listErr error
}

func newFakeStore(seed ...*orders.Order) *fakeStore {
	s := &fakeStore{orders: make(map[string]*orders.Order)}
	for _, o := range seed {
		s.orders[o.Number] = o
	}
	return s
}

func (s *fakeStore) FindByNumber(_ context.Context, number string) (*orders.Order, error) {
	o, ok := s.orders[number]
	if !ok {
		return nil, orders.ErrNotFound
	}
	return o, nil
}

func (s *fakeStore) SetStatus(_ context.Context, number string, status orders.Status) (*orders.Order, error) {
	o, ok := s.orders[number]
	if !ok {
		return nil, orders.ErrNotFound
	}
	o.Status = status
	return o, nil
}

func (s *fakeStore) SetArchived(_ context.Context, number string, archived bool) (*orders.Order, error) {
	o, ok := s.orders[number]
	if !ok {
		return nil, orders.ErrNotFound
	}
	o.IsArchived = archived
	return o, nil
}

func (s *fakeStore) DeleteArchived(_ context.Context, number string) error {
	o, ok := s.orders[number]
	if !ok || !o.IsArchived {
		return orders.ErrNotFound
	}
	delete(s.orders, number)
	return nil
}

func (s *fakeStore) AppendAdminReply(_ context.Context, number, text string) (*orders.Order, error) {
	o, ok := s.orders[number]
	if !ok {
		return nil, orders.ErrNotFound
	}
	o.Messages = append(o.Messages, orders.Message{Sender: orders.SenderAdmin, Body: text})
	o.HasUnread = false
	s.replies = append(s.replies, number+"|"+text)
	return o, nil
}

func (s *fakeStore) List(_ context.Context, f orders.Filter) ([]orders.Order, error) {
	s.filters = append(s.filters, f)
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []orders.Order
	for _, o := range s.orders {
		out = append(out, *o)
	}
	return out, nil
}

func newTestApp(store OrderStore) *App {
	cfg := &coreconfig.Config{}
	cfg.Telegram.AdminChatID = 42
	cfg.Telegram.MessageLimit = coreconfig.DefaultMessageLimit
	return New(cfg, store)
}

func TestBeginReplyThenFreeTextConsumesIntent(t *testing.T) {
	store := newFakeStore(&orders.Order{Number: "EM-1", ProductName: "Widget"})
	app := newTestApp(store)

	c := newFakeContext(42, "")
	if err := app.beginReply(c, "EM-1"); err != nil {
		t.Fatalf("beginReply: %v", err)
	}
	if got := c.lastSent(t); !strings.Contains(got, "EM-1") || !strings.Contains(got, "/cancel_reply") {
		t.Fatalf("prompt missing order or cancel hint: %q", got)
	}

	c2 := newFakeContext(42, "shipping today")
	if err := app.handleFreeText(c2); err != nil {
		t.Fatalf("handleFreeText: %v", err)
	}
	if len(store.replies) != 1 || store.replies[0] != "EM-1|shipping today" {
		t.Fatalf("recorded replies = %v", store.replies)
	}
	if got := c2.lastSent(t); !strings.Contains(got, "Reply sent to EM-1") {
		t.Fatalf("missing confirmation: %q", got)
	}

	// intent is gone, further text is a no-op
	c3 := newFakeContext(42, "second message")
	if err := app.handleFreeText(c3); err != nil {
		t.Fatalf("handleFreeText after consume: %v", err)
	}
	if len(store.replies) != 1 {
		t.Fatalf("consumed intent replayed: %v", store.replies)
	}
	if len(c3.sent) != 0 {
		t.Fatalf("no-op text produced output: %v", c3.sent)
	}
}

func TestFreeTextIgnoresRepliesAndCommands(t *testing.T) {
	store := newFakeStore(&orders.Order{Number: "EM-1"})
	app := newTestApp(store)
	app.intents.Begin(42, "EM-1")

	reply := newFakeContext(42, "quoted answer")
	reply.replyTo = &tele.Message{Text: "earlier"}
	if err := app.handleFreeText(reply); err != nil {
		t.Fatalf("handleFreeText(reply-to): %v", err)
	}

	slash := newFakeContext(42, "/unknown_cmd")
	if err := app.handleFreeText(slash); err != nil {
		t.Fatalf("handleFreeText(slash): %v", err)
	}

	if len(store.replies) != 0 {
		t.Fatalf("ignored text recorded replies: %v", store.replies)
	}
	if _, ok := app.intents.Peek(42); !ok {
		t.Fatal("ignored text consumed the intent")
	}
}

func TestCancelReply(t *testing.T) {
	app := newTestApp(newFakeStore())

	c := newFakeContext(42, "/cancel_reply")
	if err := app.handleCancelReply(c); err != nil {
		t.Fatalf("handleCancelReply: %v", err)
	}
	if got := c.lastSent(t); got != "No reply in progress." {
		t.Fatalf("cancel with nothing pending = %q", got)
	}

	app.intents.Begin(42, "EM-7")
	c2 := newFakeContext(42, "/cancel_reply")
	if err := app.handleCancelReply(c2); err != nil {
		t.Fatalf("handleCancelReply: %v", err)
	}
	if got := c2.lastSent(t); !strings.Contains(got, "EM-7") || !strings.Contains(got, "cancelled") {
		t.Fatalf("cancel confirmation = %q", got)
	}
	if _, ok := app.intents.Peek(42); ok {
		t.Fatal("intent survived cancel")
	}
}

func TestApproveIdempotent(t *testing.T) {
	store := newFakeStore(&orders.Order{Number: "EM-AB12CD", Status: orders.StatusPending})
	app := newTestApp(store)

	for i := 0; i < 2; i++ {
		c := newFakeContext(42, "/approve em-ab12cd")
		c.payload = "em-ab12cd"
		if err := app.handleApprove(c); err != nil {
			t.Fatalf("handleApprove #%d: %v", i+1, err)
		}
		got := c.lastSent(t)
		if !strings.Contains(got, "EM-AB12CD") || !strings.Contains(got, "Completed") {
			t.Fatalf("confirmation #%d = %q", i+1, got)
		}
	}
	if store.orders["EM-AB12CD"].Status != orders.StatusCompleted {
		t.Fatalf("status = %s", store.orders["EM-AB12CD"].Status)
	}
}

func TestDeleteArchivedGuard(t *testing.T) {
	store := newFakeStore(&orders.Order{Number: "EM-1"})
	app := newTestApp(store)

	c := newFakeContext(42, "/del_archived EM-1")
	c.payload = "EM-1"
	if err := app.handleDelArchived(c); err != nil {
		t.Fatalf("handleDelArchived: %v", err)
	}
	if got := c.lastSent(t); got != "No archived order EM-1." {
		t.Fatalf("unarchived delete = %q", got)
	}
	if _, ok := store.orders["EM-1"]; !ok {
		t.Fatal("unarchived order was deleted")
	}

	store.orders["EM-1"].IsArchived = true
	c2 := newFakeContext(42, "/del_archived EM-1")
	c2.payload = "EM-1"
	if err := app.handleDelArchived(c2); err != nil {
		t.Fatalf("handleDelArchived: %v", err)
	}
	if got := c2.lastSent(t); !strings.Contains(got, "EM-1 deleted") {
		t.Fatalf("archived delete = %q", got)
	}
	if _, ok := store.orders["EM-1"]; ok {
		t.Fatal("archived order survived delete")
	}
}

func TestPendingEmptyList(t *testing.T) {
	app := newTestApp(newFakeStore())

	c := newFakeContext(42, "/pending")
	if err := app.handlePending(c); err != nil {
		t.Fatalf("handlePending: %v", err)
	}
	if got := c.lastSent(t); got != "No matching orders." {
		t.Fatalf("empty pending list = %q", got)
	}
}

func TestSearchPassesTermThrough(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(store)

	c := newFakeContext(42, "/search widget pro")
	c.payload = "widget pro"
	if err := app.handleSearch(c); err != nil {
		t.Fatalf("handleSearch: %v", err)
	}
	if len(store.filters) != 1 || store.filters[0].Search != "widget pro" {
		t.Fatalf("filters = %+v", store.filters)
	}
}

func TestRecentArgument(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(store)

	c := newFakeContext(42, "/recent")
	if err := app.handleRecent(c); err != nil {
		t.Fatalf("handleRecent: %v", err)
	}
	if len(store.filters) != 1 || store.filters[0].Limit != defaultRecentLimit {
		t.Fatalf("default filters = %+v", store.filters)
	}

	c2 := newFakeContext(42, "/recent 3")
	c2.payload = "3"
	if err := app.handleRecent(c2); err != nil {
		t.Fatalf("handleRecent(3): %v", err)
	}
	if store.filters[1].Limit != 3 {
		t.Fatalf("explicit limit filters = %+v", store.filters)
	}

	c3 := newFakeContext(42, "/recent nope")
	c3.payload = "nope"
	if err := app.handleRecent(c3); err != nil {
		t.Fatalf("handleRecent(nope): %v", err)
	}
	if got := c3.lastSent(t); !strings.HasPrefix(got, "Usage:") {
		t.Fatalf("bad argument reply = %q", got)
	}
}

func TestViewNotFound(t *testing.T) {
	app := newTestApp(newFakeStore())

	c := newFakeContext(42, "/view EM-404")
	c.payload = "EM-404"
	if err := app.handleView(c); err != nil {
		t.Fatalf("handleView: %v", err)
	}
	if got := c.lastSent(t); got != "Order EM-404 not found." {
		t.Fatalf("not-found reply = %q", got)
	}
}

func TestReplyUsageHints(t *testing.T) {
	app := newTestApp(newFakeStore())

	for _, text := range []string{"/reply", "/reply EM-1", "/reply nonsense hello"} {
		c := newFakeContext(42, text)
		if parts := strings.SplitN(text, " ", 2); len(parts) == 2 {
			c.payload = parts[1]
		}
		if err := app.handleReply(c); err != nil {
			t.Fatalf("handleReply(%q): %v", text, err)
		}
		if got := c.lastSent(t); !strings.HasPrefix(got, "Usage:") {
			t.Fatalf("handleReply(%q) = %q, want usage hint", text, got)
		}
	}
}

func TestCallbackPayloadNormalized(t *testing.T) {
	store := newFakeStore(&orders.Order{Number: "EM-9", Status: orders.StatusPending})
	app := newTestApp(store)

	c := newFakeContext(42, "")
	c.cb = &tele.Callback{Data: "confirm:em-9"}

	h := app.withOrderNumber(app.approve)
	if err := h(c); err != nil {
		t.Fatalf("callback handler: %v", err)
	}
	if store.orders["EM-9"].Status != orders.StatusCompleted {
		t.Fatalf("status = %s", store.orders["EM-9"].Status)
	}
}

func TestCallbackMalformedPayload(t *testing.T) {
	app := newTestApp(newFakeStore())

	c := newFakeContext(42, "")
	c.cb = &tele.Callback{Data: "confirm:not-an-order"}

	h := app.withOrderNumber(app.approve)
	if err := h(c); err != nil {
		t.Fatalf("callback handler: %v", err)
	}
	if got := c.lastSent(t); got != "Unknown action." {
		t.Fatalf("malformed payload reply = %q", got)
	}
}

func TestStoreFailureReportsGenerically(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("connection refused")
	app := newTestApp(store)

	c := newFakeContext(42, "/pending")
	if err := app.handlePending(c); err != nil {
		t.Fatalf("handlePending: %v", err)
	}
	got := c.lastSent(t)
	if strings.Contains(got, "connection refused") {
		t.Fatalf("store error leaked to operator: %q", got)
	}
	if !strings.Contains(got, "went wrong") {
		t.Fatalf("missing generic failure reply: %q", got)
	}
}

func TestBuildRegistryWiring(t *testing.T) {
	app := newTestApp(newFakeStore())
	reg := app.BuildRegistry()

	for _, cmd := range []string{
		"/start", "/help", "/admin_login", "/view", "/approve", "/reject",
		"/archive", "/unarchive", "/del_archived", "/reply", "/cancel_reply",
		"/pending", "/unread", "/recent", "/search",
	} {
		if _, ok := reg.Commands()[cmd]; !ok {
			t.Errorf("command %s not registered", cmd)
		}
	}

	for _, action := range []string{
		ActionConfirm, ActionCancelOrder, ActionArchive, ActionView, ActionReplyInit,
	} {
		if _, ok := reg.GetCallback(action); !ok {
			t.Errorf("callback %s not registered", action)
		}
	}

	if _, cmd, ok := reg.LookupCommand("/send EM-1 hi"); !ok || cmd.Handler == nil {
		t.Error("alias /send not resolvable")
	}
	if reg.TextFallback() == nil {
		t.Error("text fallback not set")
	}

	nf := reg.CallbackNotFound()
	if nf == nil {
		t.Fatal("callback not-found fallback not set")
	}
	c := newFakeContext(42, "")
	if err := nf(c); err != nil {
		t.Fatalf("not-found fallback: %v", err)
	}
	if got := c.lastSent(t); got != "Unknown action." {
		t.Fatalf("not-found fallback reply = %q", got)
	}
}
