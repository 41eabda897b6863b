package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"docvault/config"
	apimiddleware "docvault/internal/delivery/api/middleware"
	"docvault/internal/delivery/api/router"
	"docvault/internal/delivery/api/router/handler"
	deliverycontext "docvault/internal/delivery/context"
	"docvault/internal/infra/auth"
	blobstore "docvault/internal/infra/blob"
	"docvault/internal/infra/persistence/gormdb"
	"docvault/internal/infra/pubsub"
	"docvault/internal/infra/qrcode"
	"docvault/internal/infra/session"
	"docvault/internal/usecase/impl"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
	Meta struct {
		RequestID string `json:"request_id"`
	} `json:"meta"`
}

type testServer struct {
	t    *testing.T
	echo *echo.Echo
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:    config.DriverSQLite,
			SQLiteDSN: fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString()),
		},
		Storage: config.StorageConfig{BucketURL: "mem://", MaxUploadBytes: 1 << 20},
		Auth: &config.AuthConfig{
			BcryptCost:    bcrypt.MinCost,
			SessionTTL:    time.Hour,
			SweepInterval: time.Minute,
			CookieName:    "docvault_session",
		},
		QRCode: &config.QRCodeConfig{
			Size:                 128,
			ErrorCorrectionLevel: "M",
			BaseURL:              "https://docs.example.com",
			CacheSize:            8,
		},
		Profile: &config.ProfileConfig{SupportedLanguages: config.DefaultSupportedLanguages()},
	}
	cfg.HTTP.MaxRequestBodySize = "4M"
	cfg.SecretKey.Session = "test-session-secret"

	return cfg
}

// newTestServer wires the routed echo instance over SQLite in memory and a memblob bucket.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := newTestConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := gormdb.Open(cfg, logger)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gormdb.Migrate(context.Background(), sqlDB, cfg.Database.Driver, logger))

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })
	blobs := blobstore.NewBucketStore(bucket)

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)
	hasher := auth.NewBcryptHasherWithRules(bcrypt.MinCost, auth.PasswordRules{MinLength: 1, MaxLength: 72})
	publisher := pubsub.NewNoopPublisher(logger)

	userRepo := gormdb.NewUserRepository(db)
	documentRepo := gormdb.NewDocumentRepository(db)
	locks := impl.NewUserLocks()

	policy := impl.NewAccessPolicy(userRepo, documentRepo, logger)
	sessions := impl.NewSessionService(userRepo, session.NewMemoryStore(), hasher, tokens, cfg, logger)
	profiles := impl.NewProfileService(userRepo, qrcode.New(cfg), qrcode.NewCache(cfg), cfg, logger)
	documents := impl.NewDocumentService(userRepo, documentRepo, blobs, policy, publisher, locks, cfg, logger)
	accounts := impl.NewAccountService(impl.AccountServiceParams{
		TxManager:    gormdb.NewTransactionManager(db),
		UserRepo:     userRepo,
		DocumentRepo: documentRepo,
		Blobs:        blobs,
		Hasher:       hasher,
		Policy:       policy,
		Sessions:     sessions,
		Profiles:     profiles,
		Publisher:    publisher,
		Locks:        locks,
		Config:       cfg,
		Logger:       logger,
	})

	authMiddleware := apimiddleware.NewAuthMiddleware(sessions, cfg)
	e := NewEcho(cfg, logger, router.RouterParams{
		AccountHandler: handler.NewAccountHandler(handler.AccountHandlerParams{
			AccountUC:      accounts,
			SessionUC:      sessions,
			AuthMiddleware: authMiddleware,
		}),
		DocumentHandler: handler.NewDocumentHandler(handler.DocumentHandlerParams{
			DocumentUC: documents,
			Config:     cfg,
		}),
		ProfileHandler: handler.NewProfileHandler(profiles),
		AuthMiddleware: authMiddleware,
	})

	return &testServer{t: t, echo: e}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	return rec
}

func (s *testServer) doJSON(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	return s.do(req)
}

func (s *testServer) register(username, password string) handler.UserResponse {
	s.t.Helper()

	rec := s.doJSON(http.MethodPost, "/auth/register", "", map[string]any{
		"username": username,
		"password": password,
		"name":     strings.ToUpper(username[:1]) + username[1:],
		"age":      33,
		"gender":   "female",
		"phone":    "555-0100",
		"govt_id":  "GOV-" + username,
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	var user handler.UserResponse
	decodeData(s.t, rec, &user)

	return user
}

func (s *testServer) login(username, password string) string {
	s.t.Helper()

	rec := s.doJSON(http.MethodPost, "/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	var out handler.LoginResponse
	decodeData(s.t, rec, &out)
	require.NotEmpty(s.t, out.Token)

	return out.Token
}

func (s *testServer) upload(token, title, filename, content, date string) *httptest.ResponseRecorder {
	s.t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(s.t, writer.WriteField("title", title))
	if date != "" {
		require.NoError(s.t, writer.WriteField("date", date))
	}
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(s.t, err)
	_, err = part.Write([]byte(content))
	require.NoError(s.t, err)
	require.NoError(s.t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)

	return s.do(req)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())

	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	env := decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()

	assert.Equal(t, status, rec.Code, rec.Body.String())
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, code, env.Error.Code)
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRequestIDIsPropagated(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set(deliverycontext.HeaderXRequestID, "req-123")
	rec := s.do(req)

	assert.Equal(t, "req-123", rec.Header().Get(deliverycontext.HeaderXRequestID))
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "req-123", env.Meta.RequestID)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, rec.Header().Get(deliverycontext.HeaderXRequestID))
}

func TestRegister(t *testing.T) {
	s := newTestServer(t)

	user := s.register("alice", "pw")
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "english", user.Language)
	assert.Equal(t, "GOV-alice", user.GovtID)

	t.Run("response never carries the password hash", func(t *testing.T) {
		rec := s.doJSON(http.MethodPost, "/auth/register", "", map[string]any{"username": "dora", "password": "pw", "name": "Dora"})
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.NotContains(t, strings.ToLower(rec.Body.String()), "hash")
		assert.NotContains(t, rec.Body.String(), "$2a$")
	})

	t.Run("duplicate username", func(t *testing.T) {
		rec := s.doJSON(http.MethodPost, "/auth/register", "", map[string]any{"username": "alice", "password": "other", "name": "Alice"})
		assertErrorCode(t, rec, http.StatusConflict, "USERNAME_TAKEN")
	})

	t.Run("fields longer than their columns", func(t *testing.T) {
		tests := []struct {
			field string
			value string
		}{
			{field: "name", value: strings.Repeat("n", 121)},
			{field: "gender", value: strings.Repeat("g", 11)},
			{field: "phone", value: strings.Repeat("5", 21)},
			{field: "govt_id", value: strings.Repeat("X", 51)},
		}
		for _, tt := range tests {
			body := map[string]any{"username": "frank", "password": "pw", "name": "Frank"}
			body[tt.field] = tt.value

			rec := s.doJSON(http.MethodPost, "/auth/register", "", body)
			assertErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_FAILED")
			env := decodeEnvelope(t, rec)
			assert.Contains(t, string(env.Error.Details), `"field":"`+tt.field+`"`)
		}

		body := map[string]any{
			"username": "frank", "password": "pw", "name": strings.Repeat("n", 120),
			"gender": strings.Repeat("g", 10), "phone": strings.Repeat("5", 20), "govt_id": strings.Repeat("X", 50),
		}
		rec := s.doJSON(http.MethodPost, "/auth/register", "", body)
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("missing fields report details", func(t *testing.T) {
		rec := s.doJSON(http.MethodPost, "/auth/register", "", map[string]any{"username": "erin"})
		assertErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_FAILED")

		env := decodeEnvelope(t, rec)
		assert.Contains(t, string(env.Error.Details), `"field":"password"`)
		assert.Contains(t, string(env.Error.Details), `"field":"name"`)
	})

	t.Run("unsupported language", func(t *testing.T) {
		rec := s.doJSON(http.MethodPost, "/auth/register", "", map[string]any{
			"username": "fred", "password": "pw", "name": "Fred", "language": "klingon",
		})
		assertErrorCode(t, rec, http.StatusBadRequest, "UNSUPPORTED_LANGUAGE")
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader("{"))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		assertErrorCode(t, s.do(req), http.StatusBadRequest, "INVALID_INPUT")
	})
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	s.register("alice", "pw")

	t.Run("wrong password sets no cookie", func(t *testing.T) {
		rec := s.doJSON(http.MethodPost, "/auth/login", "", map[string]string{"username": "alice", "password": "nope"})
		assertErrorCode(t, rec, http.StatusUnauthorized, "INVALID_CREDENTIALS")
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("unknown user looks the same", func(t *testing.T) {
		rec := s.doJSON(http.MethodPost, "/auth/login", "", map[string]string{"username": "nobody", "password": "pw"})
		assertErrorCode(t, rec, http.StatusUnauthorized, "INVALID_CREDENTIALS")
	})

	t.Run("success sets an HttpOnly session cookie", func(t *testing.T) {
		rec := s.doJSON(http.MethodPost, "/auth/login", "", map[string]string{"username": "alice", "password": "pw"})
		require.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "docvault_session", cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
		assert.NotEmpty(t, cookies[0].Value)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.AddCookie(cookies[0])
		meRec := s.do(req)
		require.Equal(t, http.StatusOK, meRec.Code)

		var me handler.UserResponse
		decodeData(t, meRec, &me)
		assert.Equal(t, "alice", me.Username)
	})
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/me"},
		{http.MethodPut, "/api/v1/me/language"},
		{http.MethodGet, "/api/v1/me/qr"},
		{http.MethodDelete, "/api/v1/me"},
		{http.MethodGet, "/api/v1/documents"},
		{http.MethodPost, "/api/v1/documents"},
		{http.MethodGet, "/api/v1/files/" + uuid.NewString() + "/x.pdf"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := s.doJSON(tc.method, tc.path, "", nil)
			assertErrorCode(t, rec, http.StatusUnauthorized, "UNAUTHENTICATED")
		})
	}

	t.Run("garbage token", func(t *testing.T) {
		rec := s.doJSON(http.MethodGet, "/api/v1/me", "not-a-token", nil)
		assertErrorCode(t, rec, http.StatusUnauthorized, "UNAUTHENTICATED")
	})
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)
	s.register("alice", "pw")
	token := s.login("alice", "pw")

	rec := s.doJSON(http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)

	rec = s.doJSON(http.MethodGet, "/api/v1/me", token, nil)
	assertErrorCode(t, rec, http.StatusUnauthorized, "UNAUTHENTICATED")

	// Idempotent, with or without a token.
	assert.Equal(t, http.StatusOK, s.doJSON(http.MethodPost, "/auth/logout", token, nil).Code)
	assert.Equal(t, http.StatusOK, s.doJSON(http.MethodPost, "/auth/logout", "", nil).Code)
}

func TestUpdateLanguage(t *testing.T) {
	s := newTestServer(t)
	s.register("alice", "pw")
	token := s.login("alice", "pw")

	rec := s.doJSON(http.MethodPut, "/api/v1/me/language", token, map[string]string{"language": "Hindi"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var me handler.UserResponse
	decodeData(t, rec, &me)
	assert.Equal(t, "hindi", me.Language)

	rec = s.doJSON(http.MethodPut, "/api/v1/me/language", token, map[string]string{"language": "klingon"})
	assertErrorCode(t, rec, http.StatusBadRequest, "UNSUPPORTED_LANGUAGE")

	rec = s.doJSON(http.MethodPut, "/api/v1/me/language", token, map[string]string{})
	assertErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_FAILED")
}

func TestProfileQRAndPublicProfile(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice", "pw")
	token := s.login("alice", "pw")

	rec := s.doJSON(http.MethodGet, "/api/v1/me/qr", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
	assert.Equal(t, "https://docs.example.com/profiles/"+alice.ID, rec.Header().Get("X-Profile-Link"))

	rec = s.doJSON(http.MethodGet, "/profiles/"+alice.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var fields map[string]any
	decodeData(t, rec, &fields)
	assert.Equal(t, alice.ID, fields["id"])
	assert.Equal(t, "Alice", fields["name"])
	assert.Equal(t, "english", fields["language"])
	assert.Contains(t, fields, "member_since")
	for _, hidden := range []string{"username", "age", "gender", "phone", "govt_id"} {
		assert.NotContains(t, fields, hidden)
	}
	assert.NotContains(t, rec.Body.String(), "GOV-alice")

	assertErrorCode(t, s.doJSON(http.MethodGet, "/profiles/"+uuid.NewString(), "", nil), http.StatusNotFound, "USER_NOT_FOUND")
	assertErrorCode(t, s.doJSON(http.MethodGet, "/profiles/not-a-uuid", "", nil), http.StatusNotFound, "USER_NOT_FOUND")
}

func TestDocumentLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.register("alice", "pw")
	token := s.login("alice", "pw")

	rec := s.upload(token, "ID Card", "id card.pdf", "PDF-DATA", "2024-01-01")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var doc handler.DocumentResponse
	decodeData(t, rec, &doc)
	assert.Equal(t, "ID Card", doc.Title)
	assert.Equal(t, "2024-01-01", doc.UploadDate)
	assert.Equal(t, int64(len("PDF-DATA")), doc.SizeBytes)
	assert.True(t, strings.HasSuffix(doc.StoredName, ".pdf"))

	rec = s.doJSON(http.MethodGet, "/api/v1/documents", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var docs []handler.DocumentResponse
	decodeData(t, rec, &docs)
	require.Len(t, docs, 1)
	assert.Equal(t, doc.ID, docs[0].ID)

	rec = s.doJSON(http.MethodGet, "/api/v1/documents/"+doc.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.doJSON(http.MethodGet, "/api/v1/documents/"+doc.ID+"/content", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PDF-DATA", rec.Body.String())
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attachment")

	rec = s.doJSON(http.MethodGet, "/api/v1/files/"+doc.StoredName, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PDF-DATA", rec.Body.String())

	rec = s.doJSON(http.MethodDelete, "/api/v1/documents/"+doc.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assertErrorCode(t, s.doJSON(http.MethodGet, "/api/v1/documents/"+doc.ID, token, nil), http.StatusNotFound, "DOCUMENT_NOT_FOUND")
	assertErrorCode(t, s.doJSON(http.MethodGet, "/api/v1/files/"+doc.StoredName, token, nil), http.StatusNotFound, "DOCUMENT_NOT_FOUND")
	assertErrorCode(t, s.doJSON(http.MethodGet, "/api/v1/documents/not-a-uuid", token, nil), http.StatusNotFound, "DOCUMENT_NOT_FOUND")
}

func TestUploadRejections(t *testing.T) {
	s := newTestServer(t)
	s.register("alice", "pw")
	token := s.login("alice", "pw")

	assertErrorCode(t, s.upload(token, "Empty", "empty.txt", "", ""), http.StatusBadRequest, "EMPTY_UPLOAD")
	assertErrorCode(t, s.upload(token, "Escape", "..", "x", ""), http.StatusBadRequest, "INVALID_FILENAME")
	assertErrorCode(t, s.upload(token, "", "a.txt", "x", ""), http.StatusBadRequest, "VALIDATION_FAILED")
	assertErrorCode(t, s.upload(token, "Bad date", "a.txt", "x", "01/02/2024"), http.StatusBadRequest, "VALIDATION_FAILED")
	assertErrorCode(t, s.upload(token, strings.Repeat("t", 201), "a.txt", "x", ""), http.StatusBadRequest, "VALIDATION_FAILED")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", strings.NewReader("title=no+file"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	assertErrorCode(t, s.do(req), http.StatusBadRequest, "VALIDATION_FAILED")

	rec := s.doJSON(http.MethodGet, "/api/v1/documents", token, nil)
	var docs []handler.DocumentResponse
	decodeData(t, rec, &docs)
	assert.Empty(t, docs)
}

func TestForeignDocumentsAreForbidden(t *testing.T) {
	s := newTestServer(t)
	s.register("bob", "pw-b")
	s.register("carol", "pw-c")
	bobToken := s.login("bob", "pw-b")
	carolToken := s.login("carol", "pw-c")

	rec := s.upload(bobToken, "Passport", "passport.pdf", "BOB-PASSPORT", "2024-02-02")
	require.Equal(t, http.StatusCreated, rec.Code)
	var doc handler.DocumentResponse
	decodeData(t, rec, &doc)

	assertErrorCode(t, s.doJSON(http.MethodGet, "/api/v1/documents/"+doc.ID, carolToken, nil), http.StatusForbidden, "FORBIDDEN")
	assertErrorCode(t, s.doJSON(http.MethodGet, "/api/v1/documents/"+doc.ID+"/content", carolToken, nil), http.StatusForbidden, "FORBIDDEN")
	assertErrorCode(t, s.doJSON(http.MethodGet, "/api/v1/files/"+doc.StoredName, carolToken, nil), http.StatusForbidden, "FORBIDDEN")
	assertErrorCode(t, s.doJSON(http.MethodDelete, "/api/v1/documents/"+doc.ID, carolToken, nil), http.StatusForbidden, "FORBIDDEN")

	rec = s.doJSON(http.MethodGet, "/api/v1/files/"+doc.StoredName, carolToken, nil)
	assert.NotContains(t, rec.Body.String(), "BOB-PASSPORT")
	env := decodeEnvelope(t, rec)
	assert.Empty(t, env.Error.Details)

	var carolDocs []handler.DocumentResponse
	decodeData(t, s.doJSON(http.MethodGet, "/api/v1/documents", carolToken, nil), &carolDocs)
	assert.Empty(t, carolDocs)

	// Bob still has it.
	rec = s.doJSON(http.MethodGet, "/api/v1/documents/"+doc.ID+"/content", bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "BOB-PASSPORT", rec.Body.String())
}

func TestDeleteAccount(t *testing.T) {
	s := newTestServer(t)
	s.register("alice", "pw")
	token := s.login("alice", "pw")
	otherToken := s.login("alice", "pw")

	rec := s.upload(token, "ID Card", "id.pdf", "PDF-DATA", "2024-01-01")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.doJSON(http.MethodDelete, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out handler.DeleteAccountResponse
	decodeData(t, rec, &out)
	assert.Equal(t, 1, out.DocumentsRemoved)
	assert.Zero(t, out.BlobsMissing)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)

	assertErrorCode(t, s.doJSON(http.MethodGet, "/api/v1/me", token, nil), http.StatusUnauthorized, "UNAUTHENTICATED")
	assertErrorCode(t, s.doJSON(http.MethodGet, "/api/v1/me", otherToken, nil), http.StatusUnauthorized, "UNAUTHENTICATED")

	rec = s.doJSON(http.MethodPost, "/auth/login", "", map[string]string{"username": "alice", "password": "pw"})
	assertErrorCode(t, rec, http.StatusUnauthorized, "INVALID_CREDENTIALS")

	// The username is free again.
	s.register("alice", "new-pw")
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	assertErrorCode(t, s.doJSON(http.MethodGet, "/nowhere", "", nil), http.StatusNotFound, "HTTP_ERROR")
}
