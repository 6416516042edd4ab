package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streetpaws/internal/platform/config"
	"streetpaws/internal/router"
)

var publicIDRe = regexp.MustCompile(`^SP-\d{4}-\d{6}$`)

type testServer struct {
	*httptest.Server
	uploadDir string
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()
	h, err := router.NewRouter(context.Background(), router.Options{
		Config: config.Config{
			UploadDir:     dir,
			PublicBaseURL: "http://streetpaws.test",
		},
	})
	require.NoError(t, err)

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return &testServer{Server: ts, uploadDir: dir}
}

func TestHTTP_EndToEnd_AnimalLifecycle(t *testing.T) {
	ts := newServer(t)

	// 1) Alta de dos animales: IDs públicos con formato y distintos
	first := createAnimal(t, ts.URL, map[string]any{
		"species":           "Dog",
		"breed":             "Indie",
		"area":              "Koramangala",
		"foundLocation":     "5th Block park",
		"vaccinationStatus": "complete",
		"animalId":          "SP-1999-000001", // lo asigna el servidor
	})
	second := createAnimal(t, ts.URL, map[string]any{"species": "cat"})

	firstPublic := first["animalId"].(string)
	assert.Regexp(t, publicIDRe, firstPublic)
	assert.Regexp(t, publicIDRe, second["animalId"].(string))
	assert.NotEqual(t, firstPublic, second["animalId"])
	assert.NotEqual(t, "SP-1999-000001", firstPublic)
	assert.Equal(t, "dog", first["species"])
	assert.Equal(t, "http://streetpaws.test/animal/"+firstPublic, first["qrCode"])
	assert.Nil(t, second["breed"])

	id := int64(first["id"].(float64))
	path := fmt.Sprintf("/api/animals/%d", id)

	// 2) PATCH parcial: solo cambia lo enviado
	{
		st, body := doReq(t, ts.URL, http.MethodPatch, path, map[string]any{
			"area":     "Indiranagar",
			"animalId": "SP-2000-999999",
		})
		require.Equal(t, http.StatusOK, st, string(body))

		var got map[string]any
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, "Indiranagar", got["area"])
		assert.Equal(t, "Indie", got["breed"])
		assert.Equal(t, "5th Block park", got["foundLocation"])
		assert.Equal(t, firstPublic, got["animalId"])
		assert.Equal(t, first["registeredAt"], got["registeredAt"])
	}

	// 3) null limpia un campo opcional
	{
		st, body := doReq(t, ts.URL, http.MethodPatch, path, map[string]any{"breed": nil})
		require.Equal(t, http.StatusOK, st, string(body))
		var got map[string]any
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Nil(t, got["breed"])
		assert.Equal(t, "Indiranagar", got["area"])
	}

	// 4) Lookup por ID público (lo que lleva el QR)
	{
		st, body := doReq(t, ts.URL, http.MethodGet, "/api/animals/lookup/"+firstPublic, nil)
		require.Equal(t, http.StatusOK, st, string(body))
		assert.Contains(t, string(body), fmt.Sprintf(`"id":%d`, id))
	}

	// 5) Vacunas
	{
		st, body := doReq(t, ts.URL, http.MethodPost, path+"/vaccinations", map[string]any{
			"vaccineName":     "Rabies",
			"vaccinationDate": "2025-02-10",
			"veterinarian":    "Dr. Rao",
		})
		require.Equal(t, http.StatusCreated, st, string(body))

		st, body = doReq(t, ts.URL, http.MethodGet, path+"/vaccinations", nil)
		require.Equal(t, http.StatusOK, st)
		var list []map[string]any
		require.NoError(t, json.Unmarshal(body, &list))
		require.Len(t, list, 1)
		assert.Equal(t, "Rabies", list[0]["vaccineName"])
		assert.Nil(t, list[0]["nextDueDate"])
	}

	// 6) Stats
	{
		st, body := doReq(t, ts.URL, http.MethodGet, "/api/stats", nil)
		require.Equal(t, http.StatusOK, st)
		assert.JSONEq(t, `{"registeredAnimals":2,"vaccinated":1,"qrCodes":2,"helplines":5}`, string(body))
	}

	// 7) Delete en cascada
	{
		st, _ := doReq(t, ts.URL, http.MethodDelete, path, nil)
		require.Equal(t, http.StatusNoContent, st)

		st, _ = doReq(t, ts.URL, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, st)
		st, _ = doReq(t, ts.URL, http.MethodGet, "/api/animals/lookup/"+firstPublic, nil)
		assert.Equal(t, http.StatusNotFound, st)
		st, _ = doReq(t, ts.URL, http.MethodGet, path+"/vaccinations", nil)
		assert.Equal(t, http.StatusNotFound, st)
		st, _ = doReq(t, ts.URL, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusNotFound, st)
	}

	// 8) Un animal nuevo nunca reutiliza el ID público del borrado
	third := createAnimal(t, ts.URL, map[string]any{"species": "bird"})
	assert.NotEqual(t, firstPublic, third["animalId"])
}

func TestHTTP_CreateAnimal_Validation(t *testing.T) {
	ts := newServer(t)

	st, body := doReq(t, ts.URL, http.MethodPost, "/api/animals", map[string]any{"breed": "x"})
	require.Equal(t, http.StatusBadRequest, st)
	assert.Contains(t, string(body), `"field":"species"`)

	st, body = doReq(t, ts.URL, http.MethodPost, "/api/animals", map[string]any{
		"species": "dog",
		"size":    "huge",
	})
	require.Equal(t, http.StatusBadRequest, st)
	assert.Contains(t, string(body), `"field":"size"`)

	st, body = doReq(t, ts.URL, http.MethodPost, "/api/animals", map[string]any{
		"species":  "dog",
		"photoUrl": "/uploads/animal-1-missing.png",
	})
	require.Equal(t, http.StatusBadRequest, st)
	assert.Contains(t, string(body), "Photo file does not exist")

	st, _ = doReq(t, ts.URL, http.MethodGet, "/api/animals/abc", nil)
	assert.Equal(t, http.StatusNotFound, st)
}

func TestHTTP_Search(t *testing.T) {
	ts := newServer(t)

	createAnimal(t, ts.URL, map[string]any{"species": "dog", "area": "Koramangala", "healthStatus": "injured"})
	createAnimal(t, ts.URL, map[string]any{"species": "cat", "area": "Koramangala"})
	createAnimal(t, ts.URL, map[string]any{"species": "dog", "area": "Whitefield", "breed": "Labrador"})

	cases := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"?q=koram", 2},
		{"?q=LABRA", 1},
		{"?species=dog", 2},
		{"?q=koramangala&species=dog", 1},
		{"?healthStatus=injured", 1},
		{"?area=Whitefield", 1},
		{"?q=100%25", 0},
	}
	for _, tc := range cases {
		st, body := doReq(t, ts.URL, http.MethodGet, "/api/animals/search"+tc.query, nil)
		require.Equal(t, http.StatusOK, st, tc.query)
		var list []map[string]any
		require.NoError(t, json.Unmarshal(body, &list))
		assert.Len(t, list, tc.want, tc.query)
	}
}

func TestHTTP_UploadAndPhotoLifecycle(t *testing.T) {
	ts := newServer(t)

	// extensión fuera de la allow-list
	st, body := upload(t, ts.URL, "notes.txt", "text/plain", []byte("hello"))
	require.Equal(t, http.StatusBadRequest, st)
	assert.Contains(t, string(body), "Only image files are allowed")

	// sin archivo
	st, _ = doReq(t, ts.URL, http.MethodPost, "/api/upload", nil)
	assert.Equal(t, http.StatusBadRequest, st)

	st, body = upload(t, ts.URL, "paw.png", "image/png", tinyPNG(t))
	require.Equal(t, http.StatusOK, st, string(body))

	var up map[string]string
	require.NoError(t, json.Unmarshal(body, &up))
	photoURL := up["photoUrl"]
	assert.Regexp(t, `^/uploads/animal-\d+-[0-9a-z]+\.png$`, photoURL)

	// se sirve como estático
	resp, err := http.Get(ts.URL + photoURL)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))

	// el directorio no se lista
	st, body = doReq(t, ts.URL, http.MethodGet, "/uploads/", nil)
	assert.Equal(t, http.StatusNotFound, st)
	assert.NotContains(t, string(body), strings.TrimPrefix(photoURL, "/uploads/"))

	a := createAnimal(t, ts.URL, map[string]any{"species": "dog", "photoUrl": photoURL})
	assert.Equal(t, photoURL, a["photoUrl"])

	onDisk := filepath.Join(ts.uploadDir, strings.TrimPrefix(photoURL, "/uploads/"))
	require.FileExists(t, onDisk)

	st, _ = doReq(t, ts.URL, http.MethodDelete, fmt.Sprintf("/api/animals/%d", int64(a["id"].(float64))), nil)
	require.Equal(t, http.StatusNoContent, st)
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))
}

func TestHTTP_QRAndTag(t *testing.T) {
	ts := newServer(t)
	a := createAnimal(t, ts.URL, map[string]any{"species": "cat", "area": "Jayanagar"})
	path := fmt.Sprintf("/api/animals/%d", int64(a["id"].(float64)))

	resp, err := http.Get(ts.URL + path + "/qr.png")
	require.NoError(t, err)
	data, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	_, err = png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	st, body := doReq(t, ts.URL, http.MethodGet, path+"/tag", nil)
	require.Equal(t, http.StatusOK, st)
	html := string(body)
	assert.Contains(t, html, a["animalId"].(string))
	assert.Contains(t, html, "Cat")
	assert.Contains(t, html, "Jayanagar")

	st, _ = doReq(t, ts.URL, http.MethodGet, "/api/animals/999/qr.png", nil)
	assert.Equal(t, http.StatusNotFound, st)
}

func TestHTTP_Export(t *testing.T) {
	ts := newServer(t)
	createAnimal(t, ts.URL, map[string]any{"species": "dog"})

	resp, err := http.Get(ts.URL + "/api/animals/export.xlsx")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "streetpaws-animals.xlsx")

	data, _ := io.ReadAll(resp.Body)
	// xlsx es un zip
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}

func TestHTTP_HelplinesSeededOnce(t *testing.T) {
	ts := newServer(t)

	st, body := doReq(t, ts.URL, http.MethodGet, "/api/helplines", nil)
	require.Equal(t, http.StatusOK, st)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 5)
	assert.NotEmpty(t, list[0]["phone"])
}

func TestHTTP_UnknownAPIRedirectsToRoot(t *testing.T) {
	ts := newServer(t)

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}

	resp, err := client.Get(ts.URL + "/api/unknown/thing")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp, err = client.Get(ts.URL + "/not-api")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// método no soportado en una ruta /api conocida: mismo redirect
	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/animals/1", nil)
	require.NoError(t, err)
	resp, err = client.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	// fuera de /api sigue siendo 405
	resp, err = client.Post(ts.URL+"/health", "text/plain", nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHTTP_HealthAndMetrics(t *testing.T) {
	ts := newServer(t)

	st, body := doReq(t, ts.URL, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, st)
	assert.Equal(t, "ok", string(body))

	st, body = doReq(t, ts.URL, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, st)
	var rep map[string]any
	require.NoError(t, json.Unmarshal(body, &rep))
	assert.Equal(t, "healthy", rep["status"])
	assert.Equal(t, true, rep["uploads"].(map[string]any)["directoryExists"])

	st, body = doReq(t, ts.URL, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, st)
	assert.Contains(t, string(body), "streetpaws_http_requests_total")
}

func createAnimal(t *testing.T, baseURL string, payload map[string]any) map[string]any {
	t.Helper()
	st, body := doReq(t, baseURL, http.MethodPost, "/api/animals", payload)
	require.Equal(t, http.StatusCreated, st, string(body))

	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func upload(t *testing.T, baseURL, filename, contentType string, data []byte) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(baseURL+"/api/upload", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, body
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func doReq(t *testing.T, baseURL, method, path string, body any) (int, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}
