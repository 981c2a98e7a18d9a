package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/goliatone/go-formpage/pkg/notify"
)

const flashCookie = "formpage_flash"

// setFlash keeps msg for the page the client is redirected to.
func setFlash(w http.ResponseWriter, msg notify.Message) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.URLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// useFlash reads the pending notification, if any, and expires the cookie.
func useFlash(w http.ResponseWriter, r *http.Request) *notify.Message {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1, Expires: time.Unix(1, 0)})

	raw, err := base64.URLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var msg notify.Message
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Text == "" {
		return nil
	}
	return &msg
}
