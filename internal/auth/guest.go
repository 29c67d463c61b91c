package auth

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const guestCookie = "nz_guest_id"

// GuestHandler mints (or re-issues for a returning browser) an anonymous
// guest identity. There are no accounts; the guest id only scopes a
// browser's sessions and history.
func GuestHandler(a *AuthService) http.HandlerFunc {
	type out struct {
		AccessToken string `json:"access_token"`
		GuestID     string `json:"guest_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		// Reuse the identity this browser already has.
		if c, err := r.Cookie(guestCookie); err == nil && strings.HasPrefix(c.Value, "guest|") {
			tok, err := a.IssueJWT(c.Value)
			if err == nil {
				setGuestCookie(w, c.Value)
				_ = json.NewEncoder(w).Encode(out{AccessToken: tok, GuestID: c.Value})
				return
			}
		}

		guestID := "guest|" + strconv.FormatInt(time.Now().UnixNano(), 36)
		tok, err := a.IssueJWT(guestID)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		setGuestCookie(w, guestID)
		_ = json.NewEncoder(w).Encode(out{AccessToken: tok, GuestID: guestID})
	}
}

func setGuestCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     guestCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(30 * 24 * time.Hour),
	})
}
