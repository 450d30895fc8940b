package public

import (
	"net/url"
	"strings"
	"time"

	adminapp "github.com/hykleas/Review-Guard/internal/admin/application"
)

var (
	timeZero  time.Time
	pagingAll = adminapp.Paging{Page: 1, Limit: 100}
)

func dispatchEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
