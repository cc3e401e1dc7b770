package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"sdvext-backend/lib/scrapers/kgs"
	"sdvext-backend/lib/scrapers/penpencil"
	"sdvext-backend/lib/telemetry"
	kgssvc "sdvext-backend/services/kgs"
	pwsvc "sdvext-backend/services/pw"

	"github.com/stretchr/testify/require"
)

// setup stands up fake upstreams for both platforms and returns a mux
// with the api registered against them.
func setup(t *testing.T) *http.ServeMux {
	kgsMux := http.NewServeMux()
	kgsMux.HandleFunc("/api/login-with-password", func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("phone") != "9999999999" || r.FormValue("password") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"token":"tok123"}`)
	})
	kgsMux.HandleFunc("/api/user/v2/courses", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":7,"title":"SSC Foundation"}]`)
	})
	kgsMux.HandleFunc("/api/user/courses/7/v2-lessons", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":1,"name":"Lesson One"}]`)
	})
	kgsMux.HandleFunc("/api/user/courses/empty/v2-lessons", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	kgsMux.HandleFunc("/api/lessons/1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"videos":[{"name":"Intro","video_url":"https://cdn/v1.m3u8"}]}`)
	})
	kgsUpstream := httptest.NewServer(kgsMux)
	t.Cleanup(kgsUpstream.Close)

	pwMux := http.NewServeMux()
	pwMux.HandleFunc("/v3/batches/my-batches", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("authorization") != "Bearer goodtoken" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, `{"data":[{"_id":"b1","name":"Lakshya JEE","feeId":{"total":4999}}]}`)
			return
		}
		fmt.Fprint(w, `{"data":[]}`)
	})
	pwMux.HandleFunc("/v3/batches/b1/details", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("authorization") != "Bearer goodtoken" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"data":{"subjects":[{"_id":"s1","subject":"Physics"}]}}`)
	})
	pwMux.HandleFunc("/v3/batches/empty/details", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"subjects":[]}}`)
	})
	pwMux.HandleFunc("/v2/batches/b1/subject/s1/contents", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, `{"data":[{"topic":"Kinematics","url":"https://cdn/k1.m3u8"}]}`)
			return
		}
		fmt.Fprint(w, `{"data":[]}`)
	})
	pwUpstream := httptest.NewServer(pwMux)
	t.Cleanup(pwUpstream.Close)

	dir := t.TempDir()
	service := NewService(
		kgssvc.NewService(kgs.NewClient(kgsUpstream.URL), kgssvc.Options{OutputDir: dir}),
		pwsvc.NewService(penpencil.NewClient(pwUpstream.URL), pwsvc.Options{OutputDir: dir}),
	)

	mux := http.NewServeMux()
	service.Register(mux)
	return mux
}

func get(mux *http.ServeMux, url string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestHealth(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/httpapi")
	defer cleanup()
	mux := setup(t)

	rec := get(mux, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"healthy","message":"Server is running"}`, rec.Body.String())

	rec = get(mux, "/nope")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestKgsBatches(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/httpapi")
	defer cleanup()
	mux := setup(t)

	rec := get(mux, "/kgs/get_batches")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Credentials are required", errorMessage(t, rec))

	rec = get(mux, "/kgs/get_batches?credentials=9999999999*wrong")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Login failed", errorMessage(t, rec))

	rec = get(mux, "/kgs/get_batches?credentials=9999999999*secret")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"batches":[{"batch_id":7,"batch_name":"SSC Foundation"}]}`, rec.Body.String())
}

func TestKgsExtract(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/httpapi")
	defer cleanup()
	mux := setup(t)

	rec := get(mux, "/kgs/extract?credentials=tok123")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(mux, "/kgs/extract?credentials=9999999999*wrong&batch_id=7")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Login failed", errorMessage(t, rec))

	rec = get(mux, "/kgs/extract?credentials=tok123&batch_id=empty")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "No content found or extraction failed", errorMessage(t, rec))

	rec = get(mux, "/kgs/extract?credentials=tok123&batch_id=7")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, `attachment; filename="KGS_7.txt"`, rec.Header().Get("Content-Disposition"))
	require.Equal(t, "Intro: https://cdn/v1.m3u8\n", rec.Body.String())
}

func TestPwBatches(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/httpapi")
	defer cleanup()
	mux := setup(t)

	rec := get(mux, "/pw/get_batches")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Authentication code is required", errorMessage(t, rec))

	rec = get(mux, "/pw/get_batches?auth_code=expired")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid or expired token", errorMessage(t, rec))

	rec = get(mux, "/pw/get_batches?auth_code=goodtoken")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"batches":[{"batch_id":"b1","batch_name":"Lakshya JEE","price":"4999"}]}`, rec.Body.String())
}

func TestPwExtract(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/httpapi")
	defer cleanup()
	mux := setup(t)

	rec := get(mux, "/pw/extract?auth_code=goodtoken&batch_id=b1")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(mux, "/pw/extract?auth_code=goodtoken&batch_id=b1&content_type=videos")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, `unknown content type "videos"`, errorMessage(t, rec))

	rec = get(mux, "/pw/extract?auth_code=expired&batch_id=b1&content_type=exercises-notes-videos")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid or expired token", errorMessage(t, rec))

	rec = get(mux, "/pw/extract?auth_code=goodtoken&batch_id=empty&content_type=exercises-notes-videos")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(mux, "/pw/extract?auth_code=goodtoken&batch_id=b1&content_type=exercises-notes-videos")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t,
		`attachment; filename="PW_b1_exercises-notes-videos.txt"`,
		rec.Header().Get("Content-Disposition"))
	require.Equal(t,
		"\n\n=== Subject: Physics ===\n\nKinematics: https://cdn/k1.m3u8\n",
		rec.Body.String())
}
