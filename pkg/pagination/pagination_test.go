package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	return FromContext(e.NewContext(req, rec))
}

func TestFromContext(t *testing.T) {
	cases := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", DefaultLimit, 0},
		{"limit=5&offset=10", 5, 10},
		{"limit=500", MaxLimit, 0},
		{"limit=-1&offset=-3", DefaultLimit, 0},
	}
	for _, tc := range cases {
		p := paramsFor(t, tc.query)
		if p.Limit != tc.wantLimit || p.Offset != tc.wantOffset {
			t.Errorf("FromContext(%q) = %+v, want limit=%d offset=%d", tc.query, p, tc.wantLimit, tc.wantOffset)
		}
	}
}

func TestResponseHasMore(t *testing.T) {
	resp := NewResponse([]int{1, 2, 3}, 10, 3, 0)
	if !resp.HasMore {
		t.Error("HasMore = false, want true")
	}
	resp = NewResponse([]int{1}, 4, 3, 3)
	if resp.HasMore {
		t.Error("HasMore = true, want false")
	}
}

func TestSQL(t *testing.T) {
	p := Params{Limit: 25, Offset: 50}
	if got := p.SQL(); got != "LIMIT 25 OFFSET 50" {
		t.Errorf("SQL() = %q", got)
	}
	if p.NextOffset() != 75 {
		t.Errorf("NextOffset() = %d, want 75", p.NextOffset())
	}
}
