package handler

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"

	"stockfolio/backend/internal/model"
)

type userKey struct{}

// currentUser returns the authenticated user placed in the context by the
// auth guard. Only call it from guarded routes.
func currentUser(r *http.Request) *model.User {
	user, _ := r.Context().Value(userKey{}).(*model.User)
	return user
}

// authenticate verifies the access token from the accessToken cookie or the
// Authorization header, resolves the user it names, and attaches the user to
// the request context. Any failure stops the request with a 401.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := ""
		if cookie, err := r.Cookie("accessToken"); err == nil {
			tokenString = cookie.Value
		}
		if tokenString == "" {
			tokenString = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		}
		if tokenString == "" {
			writeJSON(w, http.StatusUnauthorized, nil, "unauthorized request: token missing")
			return
		}

		claims, err := h.tokens.VerifyAccess(tokenString)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, nil, "invalid or expired access token")
			return
		}

		user, err := h.userSvc.GetUser(r.Context(), claims.Subject)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, nil, "invalid access token: user does not exist")
			return
		}

		ctx := context.WithValue(r.Context(), userKey{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// compressBrotli encodes response bodies with brotli when the client accepts
// it. JSON payloads like the catalog listing shrink considerably.
func compressBrotli(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "br") {
			next.ServeHTTP(w, r)
			return
		}

		bw := brotli.NewWriter(w)
		defer bw.Close()

		w.Header().Set("Content-Encoding", "br")
		w.Header().Add("Vary", "Accept-Encoding")
		next.ServeHTTP(&brotliResponseWriter{ResponseWriter: w, writer: bw}, r)
	})
}

type brotliResponseWriter struct {
	http.ResponseWriter
	writer io.Writer
}

func (w *brotliResponseWriter) WriteHeader(status int) {
	// Length refers to the uncompressed body.
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(status)
}

func (w *brotliResponseWriter) Write(p []byte) (int, error) {
	return w.writer.Write(p)
}
