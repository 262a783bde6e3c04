package middleware

import (
	"context"
	"net/http"
	"strings"
)

// VoterTokenHeader carries the token issued by a successful PIN verification.
const VoterTokenHeader = "X-Voter-Token"

const voterTokenKey contextKey = "voter_token"

// VoterToken requires a non-empty X-Voter-Token header. The token itself is
// checked against the voter record by the ballot service.
func VoterToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimSpace(r.Header.Get(VoterTokenHeader))
		if tok == "" {
			writeJSONError(w, http.StatusUnauthorized, "AUTH_ERROR", "missing voter token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), voterTokenKey, tok)))
	})
}

// VoterTokenFromContext returns the token stored by VoterToken.
func VoterTokenFromContext(ctx context.Context) (string, bool) {
	tok, ok := ctx.Value(voterTokenKey).(string)
	return tok, ok && tok != ""
}
