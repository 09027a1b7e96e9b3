package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newContext(t *testing.T, target string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestFromContext_Defaults(t *testing.T) {
	p := FromContext(newContext(t, "/"))

	if p.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, p.Limit)
	}
	if p.Offset != 0 {
		t.Errorf("expected default offset 0, got %d", p.Offset)
	}
}

func TestFromContext_CustomValues(t *testing.T) {
	p := FromContext(newContext(t, "/?limit=20&offset=10"))

	if p.Limit != 20 {
		t.Errorf("expected limit 20, got %d", p.Limit)
	}
	if p.Offset != 10 {
		t.Errorf("expected offset 10, got %d", p.Offset)
	}
}

func TestFromContext_MaxLimit(t *testing.T) {
	p := FromContext(newContext(t, "/?limit=99999"))

	if p.Limit != MaxLimit {
		t.Errorf("expected limit clamped to %d, got %d", MaxLimit, p.Limit)
	}
}

func TestFromContext_NegativeOffset(t *testing.T) {
	p := FromContext(newContext(t, "/?offset=-3"))

	if p.Offset != 0 {
		t.Errorf("expected offset 0, got %d", p.Offset)
	}
}

func TestSlice(t *testing.T) {
	cases := []struct {
		name    string
		p       Params
		total   int
		lo, hi  int
	}{
		{"within bounds", Params{Limit: 10, Offset: 0}, 25, 0, 10},
		{"last partial page", Params{Limit: 10, Offset: 20}, 25, 20, 25},
		{"offset past end", Params{Limit: 10, Offset: 40}, 25, 25, 25},
		{"empty set", Params{Limit: 10, Offset: 0}, 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lo, hi := tc.p.Slice(tc.total)
			if lo != tc.lo || hi != tc.hi {
				t.Errorf("expected [%d,%d), got [%d,%d)", tc.lo, tc.hi, lo, hi)
			}
		})
	}
}

func TestNewResponse_HasMore(t *testing.T) {
	r := NewResponse(nil, 100, 10, 0)
	if !r.HasMore {
		t.Error("expected has_more true")
	}

	r = NewResponse(nil, 100, 10, 95)
	if r.HasMore {
		t.Error("expected has_more false")
	}
}
