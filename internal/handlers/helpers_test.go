package handlers

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/alexedwards/scs/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/logger"

	"cocktailbar/internal/bar"
	"cocktailbar/internal/db"
	"cocktailbar/internal/notify"
	"cocktailbar/internal/uploads"
	"cocktailbar/models"
)

const testPassword = "shaken-not-stirred"

var handlerSeq atomic.Int64

type stubSender struct {
	err error
}

func (s stubSender) Send(context.Context, string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "SM-test", nil
}

type testEnv struct {
	h     *Handler
	sm    *scs.SessionManager
	store *db.Store
	files *uploads.Store
}

type envOptions struct {
	sender         notify.Sender
	number         string
	publicBaseURL  string
	maxUploadBytes int64
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()

	database, err := db.OpenMemory(t.Name()+"_"+strconv.FormatInt(handlerSeq.Add(1), 10), logger.Silent)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := db.AutoMigrate(database); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})

	files, err := uploads.New(filepath.Join(t.TempDir(), "uploads"), uploads.DefaultMaxBytes)
	if err != nil {
		t.Fatalf("uploads: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	store := db.NewStore(database)
	dispatcher := notify.NewDispatcherWithSender(opts.sender, opts.number)
	sm := scs.New()
	maxUpload := files.MaxBytes()
	if opts.maxUploadBytes > 0 {
		maxUpload = opts.maxUploadBytes
	}
	h, err := New(Dependencies{
		Sessions:          sm,
		Service:           bar.NewService(store, files, dispatcher, bar.Options{}),
		AdminPasswordHash: hash,
		PublicBaseURL:     opts.publicBaseURL,
		MaxUploadBytes:    maxUpload,
	})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return &testEnv{h: h, sm: sm, store: store, files: files}
}

// serve runs handler behind the session middleware, forwarding cookies.
func (e *testEnv) serve(handler http.Handler, req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	e.sm.LoadAndSave(handler).ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) login(t *testing.T) []*http.Cookie {
	t.Helper()
	rr := e.serve(http.HandlerFunc(e.h.Login), formRequest(http.MethodPost, "/admin/login", url.Values{"password": {testPassword}}))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected login to redirect, got %d", rr.Code)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected session cookie after login")
	}
	return cookies
}

func (e *testEnv) seedCocktail(t *testing.T, name string) *models.Cocktail {
	t.Helper()
	cocktail := &models.Cocktail{Name: name, Ingredients: "ice"}
	if _, err := e.store.CreateCocktail(context.Background(), cocktail); err != nil {
		t.Fatalf("seed cocktail: %v", err)
	}
	return cocktail
}

func (e *testEnv) uploadedFiles(t *testing.T) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(e.files.Dir())
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	return entries
}

func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

type filePart struct {
	name        string
	contentType string
	data        []byte
}

func multipartRequest(t *testing.T, target string, values map[string]string, file *filePart) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range values {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="`+file.name+`"`)
		h.Set("Content-Type", file.contentType)
		part, err := writer.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(file.data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func pngPart(t *testing.T) *filePart {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 3))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return &filePart{name: "photo.png", contentType: "image/png", data: buf.Bytes()}
}

func location(t *testing.T, rr *httptest.ResponseRecorder) *url.URL {
	t.Helper()
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 redirect, got %d: %s", rr.Code, rr.Body.String())
	}
	loc, err := url.Parse(rr.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	return loc
}

var errBoom = errors.New("boom")
