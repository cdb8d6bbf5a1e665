// Package callbacks encodes and decodes inline button payloads.
// Callback data is "action:payload", colon-delimited, two fields.
package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Sep separates the action from its payload in callback data.
const Sep = ":"

// Encode builds callback data for an inline button.
func Encode(action, payload string) string {
	if payload == "" {
		return action
	}
	return action + Sep + payload
}

// Decode splits callback data into action and payload (payload may be empty).
// Telebot prefixes data sent through its markup helpers with "\f"; both raw
// and prefixed forms are accepted.
func Decode(data string) (string, string) {
	raw := strings.TrimPrefix(data, "\f")
	parts := strings.SplitN(raw, Sep, 2)
	action := strings.TrimSpace(parts[0])
	payload := ""
	if len(parts) == 2 {
		payload = strings.TrimSpace(parts[1])
	}
	return action, payload
}

// FromContext decodes the callback attached to the given update, if any.
func FromContext(c tele.Context) (string, string, bool) {
	cb := c.Callback()
	if cb == nil {
		return "", "", false
	}
	action, payload := Decode(cb.Data)
	return action, payload, true
}
