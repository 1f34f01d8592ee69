// Package flash carries a one-shot status message across a redirect in a
// short-lived cookie.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const (
	CookieName = "couponhub_flash"
	maxAge     = 60
)

type Kind string

const (
	Success Kind = "success"
	Danger  Kind = "danger"
)

type Message struct {
	Kind Kind   `json:"k"`
	Text string `json:"t"`
}

// Set queues a message for the next rendered page, replacing any queued one.
func Set(w http.ResponseWriter, kind Kind, text string) {
	raw, err := json.Marshal(Message{Kind: kind, Text: text})
	if err != nil {
		return
	}
	http.SetCookie(w, cookie(base64.RawURLEncoding.EncodeToString(raw), maxAge))
}

// Pop returns the queued message, if any, and expires the cookie.
func Pop(w http.ResponseWriter, r *http.Request) (Message, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return Message{}, false
	}
	http.SetCookie(w, cookie("", -1))

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return Message{}, false
	}
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Text == "" {
		return Message{}, false
	}
	if msg.Kind != Success {
		msg.Kind = Danger
	}
	return msg, true
}

func cookie(value string, age int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   age,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
