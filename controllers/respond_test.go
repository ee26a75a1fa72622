package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"myanmar-travel/services"

	"github.com/gin-gonic/gin"
)

func TestErrorCode(t *testing.T) {
	cases := map[error]string{
		services.ErrNotFound:          "error.notFound",
		services.ErrInsufficientSeats: "error.insufficientSeats",
		services.ErrHotelMismatch:     "error.hotelNotInDestination",
		services.ErrDuplicate:         "error.duplicate",
	}
	for err, want := range cases {
		if got := errorCode(err); got != want {
			t.Fatalf("errorCode(%v) = %s, want %s", err, got, want)
		}
	}
}

func TestRespondErrorWrapped(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	respondError(c, fmt.Errorf("%w: seat 1A", services.ErrSeatTaken))
	if w.Code != http.StatusConflict || !strings.Contains(w.Body.String(), `"code":"error.seatTaken"`) {
		t.Fatalf("wrapped sentinel: %d %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "seat 1A") {
		t.Fatalf("message should carry detail: %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	respondError(c, errors.New("disk on fire"))
	if w.Code != http.StatusInternalServerError || strings.Contains(w.Body.String(), "disk") {
		t.Fatalf("internal errors must not leak: %d %s", w.Code, w.Body.String())
	}
}

func TestParseLatLng(t *testing.T) {
	if lat, lng, ok := parseLatLng(" 21.96 , 96.09 "); !ok || lat != 21.96 || lng != 96.09 {
		t.Fatalf("valid pair: %v %v %v", lat, lng, ok)
	}
	for _, raw := range []string{"", "21.96", "a,b", "91,0", "0,181", "1,2,3"} {
		if _, _, ok := parseLatLng(raw); ok {
			t.Fatalf("%q should be rejected", raw)
		}
	}
}

func TestQueryDate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x?date=2026-11-07", nil)
	d, ok := queryDate(c, "date")
	if !ok || d.Format("2006-01-02") != "2026-11-07" {
		t.Fatalf("queryDate: %v %v", d, ok)
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x?date=tomorrow", nil)
	if _, ok := queryDate(c, "date"); ok || w.Code != http.StatusBadRequest {
		t.Fatalf("bad date accepted: %d", w.Code)
	}
}
