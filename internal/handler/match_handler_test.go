package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coomunity/marketplace-backend/internal/model"
	"github.com/coomunity/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type stubMatchService struct {
	match *model.Match
	err   error
}

func (s *stubMatchService) Get(ctx context.Context, matchID, uid string) (*model.Match, error) {
	return s.match, s.err
}

func (s *stubMatchService) Confirm(ctx context.Context, matchID, uid string, role model.MatchRole) (*model.Match, error) {
	return s.match, s.err
}

func (s *stubMatchService) ListByUser(ctx context.Context, uid string) ([]model.Match, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []model.Match{*s.match}, nil
}

func (s *stubMatchService) ListMessages(ctx context.Context, matchID, uid string) ([]model.MatchMessage, error) {
	return nil, s.err
}

func (s *stubMatchService) SendMessage(ctx context.Context, matchID, uid, body string) (*model.MatchMessage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.MatchMessage{MatchID: matchID, SenderUID: uid, Body: body}, nil
}

func matchRequest(t *testing.T, uid, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/matches/m1/confirm", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("m1")
	if uid != "" {
		c.Set("uid", uid)
	}
	return c, rec
}

func TestConfirmStatusMapping(t *testing.T) {
	ok := &model.Match{ID: "m1", ItemID: 1, BuyerUID: "u1", SellerUID: "u2", Status: model.MatchStatusPending}

	cases := []struct {
		name     string
		uid      string
		svc      *stubMatchService
		wantCode int
	}{
		{"success", "u1", &stubMatchService{match: ok}, http.StatusOK},
		{"missing uid", "", &stubMatchService{match: ok}, http.StatusUnauthorized},
		{"not found", "u1", &stubMatchService{err: service.ErrNotFound}, http.StatusNotFound},
		{"forbidden", "u3", &stubMatchService{err: service.ErrForbidden}, http.StatusForbidden},
		{"bad role", "u1", &stubMatchService{err: service.ErrInvalidRole}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewMatchHandler(tc.svc)
			c, rec := matchRequest(t, tc.uid, `{"role":"buyer"}`)
			if err := h.Confirm(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("status=%d want %d body=%s", rec.Code, tc.wantCode, rec.Body.String())
			}
		})
	}
}

func TestConfirmResponseShape(t *testing.T) {
	m := &model.Match{
		ID:             "m1",
		ItemID:         7,
		BuyerUID:       "u1",
		SellerUID:      "u2",
		BuyerConfirmed: true,
		Status:         model.MatchStatusPending,
	}
	h := NewMatchHandler(&stubMatchService{match: m})
	c, rec := matchRequest(t, "u1", `{"role":"buyer"}`)
	if err := h.Confirm(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp MatchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.MatchID != "m1" || !resp.BuyerConfirmed || resp.SellerConfirmed || resp.Status != "PENDING" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSendMessageCreated(t *testing.T) {
	h := NewMatchHandler(&stubMatchService{})
	c, rec := matchRequest(t, "u1", `{"body":"hola"}`)
	if err := h.SendMessage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d want 201", rec.Code)
	}
	var msg model.MatchMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.SenderUID != "u1" || msg.Body != "hola" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestListMessagesEmptyIsArray(t *testing.T) {
	h := NewMatchHandler(&stubMatchService{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/matches/m1/messages", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("m1")
	c.Set("uid", "u1")
	if err := h.ListMessages(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Fatalf("body=%q want []", body)
	}
}

func TestErrorEnvelope(t *testing.T) {
	h := NewMatchHandler(&stubMatchService{err: service.ErrForbidden})
	c, rec := matchRequest(t, "u3", `{"role":"buyer"}`)
	if err := h.Confirm(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != "forbidden" || resp.Error.Message == "" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}
