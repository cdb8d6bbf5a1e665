package middleware

import tele "gopkg.in/telebot.v4"

// AdminOptions defines how admin-only checks should behave.
type AdminOptions struct {
	AdminChatID int64
	OnReject    tele.HandlerFunc
}

// AdminOnlyMiddleware ensures that only the configured operator chat can
// invoke downstream handlers. Unauthorized updates are dropped silently
// unless OnReject is provided.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if !Authorized(c, opts.AdminChatID) {
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}

// Authorized reports whether the update originates from the operator chat.
// A zero admin id means access control is disabled (useful in tests).
func Authorized(c tele.Context, adminChatID int64) bool {
	if adminChatID == 0 {
		return true
	}
	chat := c.Chat()
	return chat != nil && chat.ID == adminChatID
}
