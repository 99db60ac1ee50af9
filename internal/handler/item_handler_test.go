package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coomunity/marketplace-backend/internal/model"
	"github.com/coomunity/marketplace-backend/internal/repository"
	"github.com/coomunity/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type stubItemService struct {
	item        *model.Item
	ownedErr    error
	setImageErr error
	setImageTo  string
}

func (s *stubItemService) Create(ctx context.Context, sellerUID string, in service.ItemInput) (*model.Item, error) {
	return s.item, nil
}

func (s *stubItemService) Get(ctx context.Context, id uint64) (*model.Item, error) {
	return s.item, nil
}

func (s *stubItemService) Search(ctx context.Context, q repository.ItemSearch) ([]model.Item, int64, error) {
	return nil, 0, nil
}

func (s *stubItemService) ListBySeller(ctx context.Context, sellerUID string) ([]model.Item, error) {
	return nil, nil
}

func (s *stubItemService) Update(ctx context.Context, id uint64, sellerUID string, in service.ItemInput) (*model.Item, error) {
	return s.item, nil
}

func (s *stubItemService) Delete(ctx context.Context, id uint64, sellerUID string) error {
	return nil
}

func (s *stubItemService) Stats(ctx context.Context) (*repository.ItemStats, error) {
	return &repository.ItemStats{}, nil
}

func (s *stubItemService) EnsureOwned(ctx context.Context, id uint64, sellerUID string) error {
	return s.ownedErr
}

func (s *stubItemService) SetImageURL(ctx context.Context, id uint64, sellerUID, imageURL string) (*model.Item, error) {
	if s.setImageErr != nil {
		return nil, s.setImageErr
	}
	s.setImageTo = imageURL
	item := *s.item
	item.ImageURL = &imageURL
	return &item, nil
}

type recordingUploader struct {
	calls int
	url   string
	err   error
}

func (u *recordingUploader) Upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error) {
	u.calls++
	if u.err != nil {
		return "", u.err
	}
	return u.url, nil
}

func uploadRequest(t *testing.T, uid string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "photo.jpg")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := fw.Write([]byte("jpegdata")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/items/7/image", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("7")
	if uid != "" {
		c.Set("uid", uid)
	}
	return c, rec
}

func TestUploadImageChecksOwnerBeforeWriting(t *testing.T) {
	cases := []struct {
		name     string
		ownedErr error
		wantCode int
	}{
		{"non owner", service.ErrForbidden, http.StatusForbidden},
		{"missing item", service.ErrNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uploader := &recordingUploader{url: "https://example.com/x"}
			h := NewItemHandler(&stubItemService{ownedErr: tc.ownedErr}, uploader)
			c, rec := uploadRequest(t, "stranger")
			if err := h.UploadImage(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("status=%d want %d body=%s", rec.Code, tc.wantCode, rec.Body.String())
			}
			if uploader.calls != 0 {
				t.Fatalf("storage written %d times before the owner check", uploader.calls)
			}
		})
	}
}

func TestUploadImageOwnerSucceeds(t *testing.T) {
	uploader := &recordingUploader{url: "https://example.com/items/7/photo.jpg"}
	svc := &stubItemService{item: &model.Item{ID: 7, SellerUID: "seller-1", Status: model.ItemStatusActive}}
	h := NewItemHandler(svc, uploader)
	c, rec := uploadRequest(t, "seller-1")
	if err := h.UploadImage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want 200 body=%s", rec.Code, rec.Body.String())
	}
	if uploader.calls != 1 {
		t.Fatalf("upload calls=%d want 1", uploader.calls)
	}
	if svc.setImageTo != uploader.url {
		t.Fatalf("stored url=%q want %q", svc.setImageTo, uploader.url)
	}
}

func TestUploadImageWithoutStorage(t *testing.T) {
	h := NewItemHandler(&stubItemService{}, nil)
	c, rec := uploadRequest(t, "seller-1")
	if err := h.UploadImage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d want 503", rec.Code)
	}
}
