package cart

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func requestWithCookie(value string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	if value != "" {
		r.AddCookie(&http.Cookie{Name: sessionCookie, Value: value})
	}
	return r
}

func TestSessionIDKeepsValidCookie(t *testing.T) {
	id := uuid.NewString()
	w := httptest.NewRecorder()

	if got := SessionID(w, requestWithCookie(id)); got != id {
		t.Errorf("SessionID = %q, want cookie value %q", got, id)
	}
}

func TestSessionIDMintsWhenAbsent(t *testing.T) {
	w := httptest.NewRecorder()

	got := SessionID(w, requestWithCookie(""))
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("minted id %q is not a UUID: %v", got, err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != got {
		t.Errorf("minted id %q was not set as the session cookie", got)
	}
}

// Session ids name storage slots (file paths, Redis keys), so a tampered
// cookie must never be used as-is.
func TestSessionIDRejectsMalformedCookie(t *testing.T) {
	hostile := []string{
		"../../../../tmp/evil",
		"..",
		"cart/../../secrets",
		"a b c",
		"{12345678-1234-1234-1234-123456789abc}", // non-canonical UUID form
		"urn:uuid:12345678-1234-1234-1234-123456789abc",
	}

	for _, value := range hostile {
		w := httptest.NewRecorder()

		got := SessionID(w, requestWithCookie(value))
		if got == value {
			t.Errorf("SessionID accepted tampered cookie %q", value)
			continue
		}
		if parsed, err := uuid.Parse(got); err != nil || parsed.String() != got {
			t.Errorf("replacement id %q for cookie %q is not a canonical UUID", got, value)
		}
		if len(w.Result().Cookies()) != 1 {
			t.Errorf("tampered cookie %q was not replaced with a fresh one", value)
		}
	}
}
