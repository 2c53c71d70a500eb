package handler

import (
	_ "embed"
	"net/http"
)

//go:embed static/pin-setup.html
var pinSetupPage []byte

// PINSetupPage serves the page behind the PIN setup link. The page takes
// phone and token from its own query string and posts the PIN to
// /registrations/{phone}/pin.
func PINSetupPage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.WriteHeader(http.StatusOK)
	w.Write(pinSetupPage)
}
