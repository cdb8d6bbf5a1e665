package callbacks

import "testing"

func TestEncodeDecode(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		action  string
		payload string
	}{
		{name: "actionWithPayload", data: "confirm:EM-AB12CD", action: "confirm", payload: "EM-AB12CD"},
		{name: "actionOnly", data: "noop", action: "noop", payload: ""},
		{name: "telebotPrefixed", data: "\fview:EM-1", action: "view", payload: "EM-1"},
		{name: "empty", data: "", action: "", payload: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, payload := Decode(tt.data)
			if action != tt.action || payload != tt.payload {
				t.Fatalf("Decode(%q) = (%q, %q), want (%q, %q)", tt.data, action, payload, tt.action, tt.payload)
			}
		})
	}

	if got := Encode("reply_init", "EM-X1"); got != "reply_init:EM-X1" {
		t.Fatalf("Encode = %q", got)
	}
	if got := Encode("noop", ""); got != "noop" {
		t.Fatalf("Encode with empty payload = %q", got)
	}
}
