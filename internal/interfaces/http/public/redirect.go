package public

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/hykleas/Review-Guard/internal/interfaces/http/common"
)

// deferredRedirectHandler serves the web fallback as a plain 302 so clients
// without script support still reach the review page.
func (h *Handler) deferredRedirectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		link := strings.TrimSpace(r.URL.Query().Get("link"))
		parsed, err := url.Parse(link)
		if link == "" || err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			common.WriteError(h.logger, w, http.StatusBadRequest, "link must be an absolute http(s) URL")
			return
		}
		http.Redirect(w, r, parsed.String(), http.StatusFound)
	}
}
