package progress

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"skillstream-backend/config"
	"skillstream-backend/controllers/authentication"
	"skillstream-backend/models/courses"
	"skillstream-backend/models/users"
	"skillstream-backend/services"
)

// testServer собирает маршруты так же, как main, но поверх sqlite в памяти.
func testServer(t *testing.T) (*mux.Router, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&users.User{},
		&courses.Module{},
		&courses.Video{},
		&courses.VideoProgress{},
	))

	cfg := &config.Config{JWTSecret: []byte("test-secret"), TokenTTL: time.Hour}
	accounts := services.NewAccountService(db)
	tokens := services.NewTokenService(cfg)
	progressSvc := services.NewProgressService(db)

	r := mux.NewRouter()
	r.HandleFunc("/api/register", func(w http.ResponseWriter, req *http.Request) {
		authentication.Register(w, req, accounts)
	}).Methods(http.MethodPost)
	r.HandleFunc("/api/login", func(w http.ResponseWriter, req *http.Request) {
		authentication.Login(w, req, accounts, tokens)
	}).Methods(http.MethodPost)
	r.HandleFunc("/api/progress", authentication.AuthMiddleware(tokens, func(w http.ResponseWriter, req *http.Request) {
		GetProgress(w, req, progressSvc)
	})).Methods(http.MethodGet)
	r.HandleFunc("/api/watched-videos", authentication.AuthMiddleware(tokens, func(w http.ResponseWriter, req *http.Request) {
		GetWatchedVideos(w, req, progressSvc)
	})).Methods(http.MethodGet)
	r.HandleFunc("/api/update-progress", authentication.AuthMiddleware(tokens, func(w http.ResponseWriter, req *http.Request) {
		UpdateProgress(w, req, progressSvc)
	})).Methods(http.MethodPost)
	r.HandleFunc("/api/current-module", authentication.AuthMiddleware(tokens, func(w http.ResponseWriter, req *http.Request) {
		GetCurrentModule(w, req, progressSvc)
	})).Methods(http.MethodGet)
	r.HandleFunc("/api/next-module", authentication.AuthMiddleware(tokens, func(w http.ResponseWriter, req *http.Request) {
		GetNextModule(w, req, progressSvc)
	})).Methods(http.MethodGet)

	return r, db
}

func seedCatalog(t *testing.T, db *gorm.DB, serial, videoCount int) courses.Module {
	t.Helper()

	module := courses.Module{Title: "module", SerialNumber: serial}
	require.NoError(t, db.Create(&module).Error)

	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < videoCount; i++ {
		video := courses.Video{
			ModuleID:  module.ID,
			Title:     "video",
			URL:       "https://videos.example/v",
			Duration:  300,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&video).Error)
		module.Videos = append(module.Videos, video)
	}
	return module
}

func doJSON(t *testing.T, r *mux.Router, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, r *mux.Router) string {
	t.Helper()

	rec := doJSON(t, r, http.MethodPost, "/api/register", "",
		`{"username":"alice","email":"a@x.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/api/login", "",
		`{"email":"a@x.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestProgressScenarioFreshUser(t *testing.T) {
	r, db := testServer(t)
	seedCatalog(t, db, 1, 4)

	token := registerAndLogin(t, r)

	rec := doJSON(t, r, http.MethodGet, "/api/progress", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary services.ProgressSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, float64(0), summary.ProgressPercentage)
	assert.Equal(t, int64(0), summary.VideosCompleted)
	assert.Equal(t, int64(4), summary.TotalVideos)
}

func TestProgressRequiresAuth(t *testing.T) {
	r, _ := testServer(t)

	for _, target := range []string{
		"/api/progress",
		"/api/watched-videos",
		"/api/current-module",
		"/api/next-module?currentSerialNumber=1",
	} {
		rec := doJSON(t, r, http.MethodGet, target, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
	}

	rec := doJSON(t, r, http.MethodPost, "/api/update-progress", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCurrentModuleNotFound(t *testing.T) {
	r, db := testServer(t)
	seedCatalog(t, db, 1, 2)

	token := registerAndLogin(t, r)

	rec := doJSON(t, r, http.MethodGet, "/api/current-module", token, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No current progress found")
}

func TestCurrentModuleFlow(t *testing.T) {
	r, db := testServer(t)
	module := seedCatalog(t, db, 1, 2)

	token := registerAndLogin(t, r)

	// Зачисляемся через next-module с серийного номера 0
	rec := doJSON(t, r, http.MethodGet, "/api/next-module?currentSerialNumber=0", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/current-module", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		CurrentModule courses.Module        `json:"currentModule"`
		VideoProgress courses.VideoProgress `json:"videoProgress"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, module.ID, resp.CurrentModule.ID)
	assert.Equal(t, module.Videos[0].ID, resp.VideoProgress.VideoID)
	assert.False(t, resp.VideoProgress.Completed)
}

func TestUpdateProgressSkipRejected(t *testing.T) {
	r, db := testServer(t)
	module := seedCatalog(t, db, 1, 2)

	token := registerAndLogin(t, r)

	rec := doJSON(t, r, http.MethodGet, "/api/next-module?currentSerialNumber=0", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Попытка обновить не текущее видео
	body := `{"videoId":"` + module.Videos[1].ID.String() + `","lastPosition":10,"completed":true}`
	rec = doJSON(t, r, http.MethodPost, "/api/update-progress", token, body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "You cannot skip to this video")

	// Текущая запись осталась нетронутой
	var stored courses.VideoProgress
	require.NoError(t, db.First(&stored, "video_id = ?", module.Videos[0].ID).Error)
	assert.False(t, stored.Completed)
	assert.Equal(t, float64(0), stored.LastPosition)
}

func TestUpdateProgressCurrentVideo(t *testing.T) {
	r, db := testServer(t)
	module := seedCatalog(t, db, 1, 2)

	token := registerAndLogin(t, r)

	rec := doJSON(t, r, http.MethodGet, "/api/next-module?currentSerialNumber=0", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := `{"videoId":"` + module.Videos[0].ID.String() + `","lastPosition":295,"completed":true}`
	rec = doJSON(t, r, http.MethodPost, "/api/update-progress", token, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message  string                `json:"message"`
		Progress courses.VideoProgress `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Progress updated successfully", resp.Message)
	assert.True(t, resp.Progress.Completed)
	require.NotNil(t, resp.Progress.CompletedAt)
	assert.Equal(t, float64(295), resp.Progress.LastPosition)
}

func TestUpdateProgressValidation(t *testing.T) {
	r, _ := testServer(t)
	token := registerAndLogin(t, r)

	rec := doJSON(t, r, http.MethodPost, "/api/update-progress", token,
		`{"videoId":"not-a-uuid","lastPosition":-1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error []services.FieldError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Error, 3)
}

func TestNextModuleNotFoundAtCatalogEnd(t *testing.T) {
	r, db := testServer(t)
	seedCatalog(t, db, 1, 2)

	token := registerAndLogin(t, r)

	rec := doJSON(t, r, http.MethodGet, "/api/next-module?currentSerialNumber=1", token, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No next module found")
}

func TestNextModuleBadSerialNumber(t *testing.T) {
	r, _ := testServer(t)
	token := registerAndLogin(t, r)

	rec := doJSON(t, r, http.MethodGet, "/api/next-module?currentSerialNumber=abc", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWatchedVideosEndpoint(t *testing.T) {
	r, db := testServer(t)
	module := seedCatalog(t, db, 1, 2)

	token := registerAndLogin(t, r)

	rec := doJSON(t, r, http.MethodGet, "/api/next-module?currentSerialNumber=0", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := `{"videoId":"` + module.Videos[0].ID.String() + `","lastPosition":300,"completed":true}`
	rec = doJSON(t, r, http.MethodPost, "/api/update-progress", token, body)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/watched-videos", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var watched []courses.VideoProgress
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &watched))
	require.Len(t, watched, 1)
	assert.Equal(t, module.Videos[0].ID, watched[0].VideoID)
	require.NotNil(t, watched[0].Video)
}
