package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raymond9734/support-protocol-desk/internal/clock"
	"github.com/Raymond9734/support-protocol-desk/internal/service"
	"github.com/Raymond9734/support-protocol-desk/internal/store"
)

type testServer struct {
	handler http.Handler
	token   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := clock.Fixed(time.Date(2024, time.March, 5, 14, 0, 0, 0, time.Local))
	kv := store.NewMemoryStore(now)

	settings := service.NewSettingsService(kv, service.SettingsDefaults{
		DefaultPhone: "+5511910251959",
		Models:       []string{"Axios 16", "Atrium 12"},
	}, logger)
	settings.Load(context.Background())

	composerCfg := service.ComposerConfig{Brand: "Duonn Sound", ChannelName: "SAC", Locale: "en-US"}
	templateSvc := service.NewTemplateService()
	validator := service.NewValidator()
	handoffs := service.NewHandoffService(nil, nil, logger)
	sessions := service.NewSessionService(kv, now, time.Hour, logger)

	router := NewRouter(RouterConfig{
		Health:   NewHealthHandler(nil, kv, nil, logger),
		Sessions: NewSessionHandler(sessions, logger),
		Protocols: NewProtocolHandler(
			service.NewProtocolService(settings, service.NewMessageComposer(composerCfg, templateSvc), handoffs, validator, now, logger),
			service.NewExportService("pt-BR", logger),
			logger,
		),
		QuickMessages:  NewQuickMessageHandler(service.NewQuickMessageService(settings, composerCfg, templateSvc, handoffs, validator, logger), logger),
		Settings:       NewSettingsHandler(settings, logger),
		Notes:          NewNoteHandler(service.NewNoteService(kv, now, logger), logger),
		Handoffs:       NewHandoffHandler(handoffs, logger),
		SessionService: sessions,
		AllowedOrigins: []string{"http://localhost:5173"},
		Logger:         logger,
	})

	srv := &testServer{handler: router}

	rec := srv.do(t, http.MethodPost, "/users", `{"username":"maria","password":"segredo1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodPost, "/sessions", `{"username":"maria","password":"segredo1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var login service.LoginResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	srv.token = login.Token

	return srv
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set(SessionHeader, s.token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

const validIntake = `{
	"customer_name": "Ana Souza",
	"customer_phone": "+55 (11) 91234-5678",
	"purchase_date": "2024-02-03",
	"store_name": "Loja Central",
	"console_model": "Axios 16",
	"defect_description": "Canal 3 sem audio",
	"warranty_status": "in_warranty",
	"customer_type": "end_consumer"
}`

func TestRouter_SubmitProtocol(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/protocols", `{"intake":`+validIntake+`}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "551191234567805032024", body["protocol_id"])
	assert.Equal(t, "technical_assistance", body["triage"])
	assert.Equal(t, "will be sent to technical assistance", body["triage_text"])
	assert.True(t, strings.HasPrefix(body["url"].(string), "https://wa.me/5511910251959?text="))
}

func TestRouter_SubmitProtocolErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"malformed json", `{"intake":`, http.StatusBadRequest, "INVALID_JSON"},
		{"missing fields", `{"intake":{"customer_type":"retailer"}}`, http.StatusBadRequest, "INVALID_INPUT"},
		{
			"short alternate phone",
			`{"intake":` + validIntake + `,"destination":{"mode":"alternate","phone":"123"}}`,
			http.StatusBadRequest, "INVALID_INPUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodPost, "/protocols", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
		})
	}
}

func TestRouter_RequiresSession(t *testing.T) {
	srv := newTestServer(t)
	srv.token = ""

	for _, path := range []string{"/notes", "/settings/models", "/handoffs", "/quick-messages/templates"} {
		rec := srv.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, rec).Code)
	}

	// registration closes once an account exists
	rec := srv.do(t, http.MethodPost, "/users", `{"username":"intruso","password":"segredo1"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Logout(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodDelete, "/sessions", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodGet, "/notes", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_Models(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/settings/models", `{"name":" PRISMA 480 "}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"models":["Axios 16","Atrium 12","PRISMA 480"]}`, rec.Body.String())

	rec = srv.do(t, http.MethodPost, "/settings/models", `{"name":"Axios 16"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(t, http.MethodPut, "/settings/models/1", `{"name":"Atrium 12 MK2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"models":["Axios 16","Atrium 12 MK2","PRISMA 480"]}`, rec.Body.String())

	rec = srv.do(t, http.MethodDelete, "/settings/models/0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"models":["Atrium 12 MK2","PRISMA 480"]}`, rec.Body.String())

	rec = srv.do(t, http.MethodDelete, "/settings/models/9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodDelete, "/settings/models/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// the removed model now gets repaired in drafts
	rec = srv.do(t, http.MethodPost, "/protocols/draft", validIntake)
	require.Equal(t, http.StatusOK, rec.Code)
	var draft service.DraftResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &draft))
	assert.True(t, draft.ModelRepaired)
	assert.Equal(t, "Atrium 12 MK2", draft.Intake.ConsoleModel)
}

func TestRouter_PhoneSettings(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/settings/phone", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var phoneResp PhoneResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &phoneResp))
	assert.Equal(t, "+5511910251959", phoneResp.Phone)
	assert.Equal(t, "+55 11 91025-1959", phoneResp.Display)

	rec = srv.do(t, http.MethodPut, "/settings/phone", `{"phone":"123"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPut, "/settings/phone", `{"phone":"(21) 99999-8888"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPost, "/quick-messages", `{"text":"oi"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://wa.me/5521999998888?text=oi")
}

func TestRouter_DisplayModeAndNotice(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPut, "/settings/display-mode", `{"mode":"dark"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"mode":"dark"}`, rec.Body.String())

	rec = srv.do(t, http.MethodPut, "/settings/display-mode", `{"mode":"neon"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPut, "/settings/notice", `{"notice":"Firmware 2.1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/settings/notice", "")
	assert.JSONEq(t, `{"notice":"Firmware 2.1"}`, rec.Body.String())
}

func TestRouter_Notes(t *testing.T) {
	srv := newTestServer(t)

	var ids []string
	for i := 0; i < 3; i++ {
		rec := srv.do(t, http.MethodPost, "/notes", `{"text":"nota","priority":"high"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var note struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &note))
		ids = append(ids, note.ID)
	}

	rec := srv.do(t, http.MethodPost, "/notes", `{"text":"quarta"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(t, http.MethodPut, "/notes/"+ids[1], `{"text":"editada"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodDelete, "/notes/"+ids[0], "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodGet, "/notes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Slots []*struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Slots, 3)
	assert.Nil(t, list.Slots[0])
	assert.Equal(t, "editada", list.Slots[1].Text)
}

func TestRouter_Export(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/protocols/export?format=csv", validIntake)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="cadastro_ana_souza.csv"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\ufeffNome,Telefone")))

	rec = srv.do(t, http.MethodPost, "/protocols/export?format=xlsx", validIntake)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ContentTypeXLSX, rec.Header().Get("Content-Type"))

	rec = srv.do(t, http.MethodPost, "/protocols/export", `{"store_name":"Loja"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_QuickTemplatesAndHandoffs(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/quick-messages/templates", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), service.QuickVersionStatus)

	rec = srv.do(t, http.MethodPost, "/quick-messages", `{"template_id":"good_morning","destination":{"mode":"alternate","phone":"+55 11 91234-5678"}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "https://wa.me/5511912345678?text=Good%20morning!")

	rec = srv.do(t, http.MethodGet, "/handoffs?page=1&page_size=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_count":0`)

	rec = srv.do(t, http.MethodGet, "/handoffs?flow=sms", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, "/handoffs/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/handoffs/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSMiddleware(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/protocols", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), SessionHeader)

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := RecoveryMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", decodeError(t, rec).Code)
}
