package routes

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"image"
	"image/color"
	_ "image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/showcase/internal/config"
	"github.com/phambaophuc/showcase/internal/http/handlers"
	"github.com/phambaophuc/showcase/internal/services/dataurl"
	"github.com/phambaophuc/showcase/internal/services/events"
	"github.com/phambaophuc/showcase/internal/services/processor"
	"github.com/phambaophuc/showcase/internal/services/showcase"
	"github.com/phambaophuc/showcase/internal/services/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success  bool            `json:"success"`
	Data     json.RawMessage `json:"data"`
	Error    string          `json:"error"`
	Redirect string          `json:"redirect"`
}

type showcaseData struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	BeforeImage   string `json:"beforeImage"`
	AfterImage    string `json:"afterImage"`
	Date          string `json:"date"`
	CategoryLabel string `json:"categoryLabel"`
	ShowcasePath  string `json:"showcasePath"`
}

func testConfig() *config.Config {
	return &config.Config{
		Store:     config.StoreConfig{Backend: config.BackendMemory},
		Image:     config.ImageConfig{MaxFileSize: 1 << 20, AllowedTypes: config.DefaultAllowedTypes},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"*"}},
		RateLimit: config.RateLimitConfig{CreatePerMinute: 600},
	}
}

func newTestEngine(t *testing.T) (*gin.Engine, *storage.MemoryNamespace) {
	t.Helper()

	cfg := testConfig()
	logger := zap.NewNop()
	ns := storage.NewMemoryNamespace(0)
	store := storage.NewRecordStore(ns, cfg.Store.Backend, 0, logger)

	svc := showcase.NewService(
		processor.NewValidator(cfg.Image.MaxFileSize, cfg.Image.AllowedTypes),
		processor.NewImageProcessor(),
		dataurl.NewEncoder(5*time.Second),
		store,
		showcase.DefaultPolicy(),
		logger,
	)

	var queue *events.QueueService
	handler := handlers.NewShowcaseHandler(svc, store, queue, logger, cfg)
	return NewRouter(handler, logger, cfg).SetupRoutes(), ns
}

type filePart struct {
	field    string
	filename string
	mimeType string
	data     []byte
}

func jpegBytes(t *testing.T, width, height int) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	img := imaging.New(width, height, color.NRGBA{R: 90, G: 160, B: 60, A: 255})
	require.NoError(t, imaging.Encode(buf, img, imaging.JPEG))
	return buf.Bytes()
}

// oversizedPNG is a header-only PNG declaring width x height RGBA pixels.
func oversizedPNG(width, height uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], width)
	binary.BigEndian.PutUint32(ihdr[4:], height)
	ihdr[8], ihdr[9] = 8, 6

	chunk := append([]byte("IHDR"), ihdr...)
	buf := bytes.NewBufferString("\x89PNG\r\n\x1a\n")
	binary.Write(buf, binary.BigEndian, uint32(len(ihdr)))
	buf.Write(chunk)
	binary.Write(buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func multipartRequest(t *testing.T, fields map[string]string, files ...filePart) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.filename))
		h.Set("Content-Type", f.mimeType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/showcases", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func validForm() map[string]string {
	return map[string]string{"name": "Joe's Diner", "type": "restaurant"}
}

func validFiles(t *testing.T) []filePart {
	return []filePart{
		{"before", "before.jpg", "image/jpeg", jpegBytes(t, 640, 480)},
		{"after", "after.jpg", "image/jpeg", jpegBytes(t, 640, 480)},
	}
}

func TestCreateAndRetrieveShowcase(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := serve(engine, multipartRequest(t, validForm(), validFiles(t)...))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	env := decode(t, w)
	require.True(t, env.Success)
	var created showcaseData
	require.NoError(t, json.Unmarshal(env.Data, &created))

	assert.Len(t, created.ID, 26)
	assert.Equal(t, "Joe's Diner", created.Name)
	assert.Equal(t, "restaurant", created.Type)
	assert.Equal(t, "Restaurant & Food Service", created.CategoryLabel)
	assert.Equal(t, "/showcase/"+created.ID, created.ShowcasePath)
	assert.Equal(t, "/api/v1/showcases/"+created.ID, w.Header().Get("Location"))

	w = serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/showcases/"+created.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var loaded showcaseData
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &loaded))
	assert.Equal(t, created, loaded)

	w = serve(engine, httptest.NewRequest(http.MethodGet, created.ShowcasePath, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/showcases/"+created.ID+"/images/before", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=joe-s-diner-before.jpg", w.Header().Get("Content-Disposition"))

	img, format, err := image.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 640, img.Bounds().Dx())
}

func TestMissingShowcaseRedirectsHome(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/showcases/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decode(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "/", env.Redirect)

	w = serve(engine, httptest.NewRequest(http.MethodGet, "/showcase/nope", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/showcases/nope/images/after", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateShowcase_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]string
		files   func(t *testing.T) []filePart
		status  int
		message string
	}{
		{
			name:    "missing after image",
			fields:  validForm(),
			files:   func(t *testing.T) []filePart { return validFiles(t)[:1] },
			status:  http.StatusBadRequest,
			message: "Please fill in all fields and upload both images",
		},
		{
			name:    "unknown category",
			fields:  map[string]string{"name": "Joe's Diner", "type": "bakery"},
			files:   validFiles,
			status:  http.StatusBadRequest,
			message: "Please choose a business type from the list",
		},
		{
			name:   "oversized image",
			fields: validForm(),
			files: func(t *testing.T) []filePart {
				files := validFiles(t)
				files[1].data = bytes.Repeat([]byte{0xff}, 3<<19) // 1.5MB
				return files
			},
			status:  http.StatusRequestEntityTooLarge,
			message: "Image file is too large. Please use images smaller than 10MB.",
		},
		{
			name:   "gif is not allowed",
			fields: validForm(),
			files: func(t *testing.T) []filePart {
				files := validFiles(t)
				files[0].mimeType = "image/gif"
				return files
			},
			status: http.StatusUnsupportedMediaType,
		},
		{
			name:   "text file",
			fields: validForm(),
			files: func(t *testing.T) []filePart {
				files := validFiles(t)
				files[0].mimeType = "text/plain"
				return files
			},
			status:  http.StatusBadRequest,
			message: "Please select valid image files only.",
		},
		{
			name:   "raster too large to decode",
			fields: validForm(),
			files: func(t *testing.T) []filePart {
				files := validFiles(t)
				files[0] = filePart{"before", "huge.png", "image/png", oversizedPNG(40000, 40000)}
				return files
			},
			status:  http.StatusUnprocessableEntity,
			message: "Unable to read image file. Please try a different image or format (JPG, PNG).",
		},
		{
			name:   "corrupt jpeg",
			fields: validForm(),
			files: func(t *testing.T) []filePart {
				files := validFiles(t)
				files[1].data = []byte("definitely not a jpeg")
				return files
			},
			status:  http.StatusUnprocessableEntity,
			message: "Unable to read image file. Please try a different image or format (JPG, PNG).",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, ns := newTestEngine(t)

			w := serve(engine, multipartRequest(t, tt.fields, tt.files(t)...))
			assert.Equal(t, tt.status, w.Code, w.Body.String())

			env := decode(t, w)
			assert.False(t, env.Success)
			if tt.message != "" {
				assert.Equal(t, tt.message, env.Error)
			}
			assert.Zero(t, ns.Len(), "nothing may be stored")
		})
	}
}

func TestCreateShowcase_RequiresMultipart(t *testing.T) {
	engine, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/showcases", bytes.NewBufferString(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusUnsupportedMediaType, serve(engine, req).Code)
}

func TestDownloadImage_BadSlot(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/showcases/abc/images/middle", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCategoriesHealthAndRoot(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var categories []map[string]string
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &categories))
	require.Len(t, categories, 8)
	assert.Equal(t, "restaurant", categories[0]["value"])

	w = serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var health struct {
		Status       string            `json:"status"`
		StoreBackend string            `json:"store_backend"`
		Components   map[string]string `json:"components"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "memory", health.StoreBackend)
	assert.Equal(t, "healthy", health.Components["store"])
	assert.Equal(t, "not configured", health.Components["events"])

	w = serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
