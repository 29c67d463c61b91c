package http

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/netzero-prep/netzero-quiz/internal/bank"
)

// ReloadBankHandler re-reads the bank file and swaps it in atomically,
// so corrections applied by bankctl take effect without a restart. The
// admin password arrives in X-Admin-Password and is checked against the
// bcrypt hash from config; an empty hash disables the endpoint.
func ReloadBankHandler(holder *bank.Holder, path, adminPassHash string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if adminPassHash == "" {
			http.Error(w, "admin endpoint disabled", http.StatusForbidden)
			return
		}
		pass := r.Header.Get("X-Admin-Password")
		if bcrypt.CompareHashAndPassword([]byte(adminPassHash), []byte(pass)) != nil {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		n, err := holder.Reload(path)
		if err != nil {
			http.Error(w, "reload failed: "+err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]interface{}{"reloaded": true, "questions": n})
	}
}
