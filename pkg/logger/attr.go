package logger

import (
	"log/slog"
)

// Error records err under "error". A nil error yields an empty Attr, which
// slog drops, so callers can pass errors unconditionally.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the user identifier under "user_id". nil and "" are dropped.
func UserID(id any) slog.Attr {
	if id == nil || id == "" {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// RequestID records the request identifier under "request_id".
func RequestID(id string) slog.Attr {
	return slog.String("request_id", id)
}

// Provider records how a session was authenticated ("credentials", "google", ...).
func Provider(name string) slog.Attr {
	return slog.String("auth_provider", name)
}

// Reason records the internal cause of a rejection. It is for logs only; clients
// get a uniform message.
func Reason(reason string) slog.Attr {
	return slog.String("reason", reason)
}

// State records a two-factor state name.
func State(state string) slog.Attr {
	return slog.String("two_factor_state", state)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}
