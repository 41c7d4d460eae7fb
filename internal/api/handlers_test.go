package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockinsight/internal/model"
	"stockinsight/internal/pipeline"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	handler := NewHandler(pipeline.New(pipeline.DefaultOptions(), nil), nil)
	handler.RegisterRoutes(router.Group("/api"))
	return router
}

func uploadRequest(t *testing.T, path, filename, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestAnalyze_CSVUpload(t *testing.T) {
	t.Parallel()

	csv := "Produk,Kategori,Harga,Qty,Total\n" +
		"Kaos Polos,Atasan,50.000,120,6.000.000\n" +
		"Kemeja Flanel,Atasan,150.000,15,2.250.000\n" +
		"Jaket Jeans,Outerwear,250.000,3,750.000\n"

	router := newTestRouter(t)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "/api/analyze", "penjualan.csv", csv))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report model.AnalysisReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))

	assert.True(t, report.HasQuantity)
	assert.Equal(t, 3, report.Summary.ProductCount)
	assert.Equal(t, float64(9000000), report.Summary.TotalRevenue)
	require.NotNil(t, report.Summary.TotalUnits)
	assert.Equal(t, 138, *report.Summary.TotalUnits)
	assert.NotEmpty(t, report.Recommendations)
	assert.NotEmpty(t, report.ID)
}

func TestAnalyze_MissingFile(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyze_EmptyFileIs422(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "/api/analyze", "kosong.csv", "Produk,Harga\n"))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"no_data"`)
}

func TestAnalyze_UnmappableColumnsIs422(t *testing.T) {
	t.Parallel()

	csv := "Tanggal,Channel\n2024-01-15,Tokopedia\n2024-01-16,Shopee\n"

	router := newTestRouter(t)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "/api/analyze", "channel.csv", csv))

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body struct {
		Kind            string   `json:"kind"`
		MissingRole     string   `json:"missingRole"`
		ExaminedHeaders []string `json:"examinedHeaders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unresolved_column", body.Kind)
	assert.Equal(t, "product", body.MissingRole)
	assert.Contains(t, body.ExaminedHeaders, "Tanggal")
}

func TestAnalyze_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "/api/analyze", "laporan.pdf", "%PDF-1.4"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeStream_EmitsEventsAndReport(t *testing.T) {
	t.Parallel()

	csv := "Produk,Harga,Qty\nKaos Polos,50.000,12\nJaket Jeans,250.000,3\n"

	router := newTestRouter(t)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "/api/analyze/stream", "penjualan.csv", csv))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	var events []pipeline.ProgressEvent
	for _, line := range strings.Split(w.Body.String(), "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev pipeline.ProgressEvent
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev))
		events = append(events, ev)
	}

	require.NotEmpty(t, events)
	assert.Equal(t, "start", events[0].Type)
	last := events[len(events)-1]
	require.Equal(t, "done", last.Type)
	require.NotNil(t, last.Report)
	assert.Equal(t, 2, last.Report.Summary.ProductCount)
}

func TestAnalyzeStream_ErrorEvent(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "/api/analyze/stream", "kosong.csv", "Produk,Harga\n"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"error"`)
}
