package telegram

import (
	"testing"

	"github.com/emarket/adminbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func TestLookupCommand(t *testing.T) {
	reg := NewRegistry()
	handler := func(c tele.Context) error { return nil }
	reg.RegisterCommand("/reply", commands.Command{
		Handler:     handler,
		Description: "reply",
		Aliases:     []string{"/send"},
	})

	cases := []struct {
		name    string
		text    string
		wantKey string
		wantOK  bool
	}{
		{name: "exact", text: "/reply EM-1 hello", wantKey: "/reply", wantOK: true},
		{name: "alias", text: "/send EM-1 hello", wantKey: "/reply", wantOK: true},
		{name: "bare command token", text: "/reply", wantKey: "/reply", wantOK: true},
		{name: "plain word matching command", text: "reply coming soon", wantOK: false},
		{name: "plain word matching alias", text: "send me the address", wantOK: false},
		{name: "unknown command", text: "/nope", wantOK: false},
		{name: "empty", text: "", wantOK: false},
		{name: "whitespace", text: "   ", wantOK: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, cmd, ok := reg.LookupCommand(tc.text)
			if ok != tc.wantOK {
				t.Fatalf("LookupCommand(%q) ok = %v, want %v", tc.text, ok, tc.wantOK)
			}
			if !tc.wantOK {
				return
			}
			if key != tc.wantKey {
				t.Fatalf("LookupCommand(%q) key = %q, want %q", tc.text, key, tc.wantKey)
			}
			if cmd.Handler == nil {
				t.Fatalf("LookupCommand(%q) returned nil handler", tc.text)
			}
		})
	}
}
