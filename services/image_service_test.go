package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-hub/utils"
)

// fileHeader builds a *multipart.FileHeader the way gin hands it over.
func fileHeader(t *testing.T, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="photo.png"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestCloudinaryUpload(t *testing.T) {
	var gotFields map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/demo/image/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotFields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotFields[k] = v[0]
		}
		assert.Len(t, r.MultipartForm.File["file"], 1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"secure_url":"https://res.cloudinary.com/demo/image/upload/v1/dishes/abc.png"}`)
	}))
	defer server.Close()

	up := newCloudinaryUploader(CloudinaryConfig{
		CloudName: "demo", APIKey: "key", APISecret: "secret", BaseURL: server.URL,
	}, server.Client())
	up.now = func() time.Time { return time.Unix(1700000000, 0) }

	url, err := up.Upload(context.Background(), "dishes", fileHeader(t, "image/png", []byte("png-bytes")))
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/v1/dishes/abc.png", url)

	assert.Equal(t, "key", gotFields["api_key"])
	assert.Equal(t, "dishes", gotFields["folder"])
	assert.Equal(t, "1700000000", gotFields["timestamp"])
	assert.Equal(t, up.sign("dishes", gotFields["public_id"], 1700000000), gotFields["signature"])
}

func TestCloudinaryUploadRejects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"Invalid Signature"}}`)
	}))
	defer server.Close()

	cfg := CloudinaryConfig{CloudName: "demo", APIKey: "key", APISecret: "secret", BaseURL: server.URL}
	up := newCloudinaryUploader(cfg, server.Client())
	ctx := context.Background()

	_, err := up.Upload(ctx, "dishes", nil)
	assert.True(t, utils.HasStatus(err, http.StatusBadRequest))

	_, err = up.Upload(ctx, "dishes", fileHeader(t, "application/pdf", []byte("%PDF")))
	assert.True(t, utils.HasStatus(err, http.StatusBadRequest))

	big := fileHeader(t, "image/jpeg", []byte("jpg"))
	big.Size = maxImageSize + 1
	_, err = up.Upload(ctx, "dishes", big)
	assert.True(t, utils.HasStatus(err, http.StatusBadRequest))

	_, err = up.Upload(ctx, "dishes", fileHeader(t, "image/webp", []byte("webp")))
	assert.True(t, utils.HasStatus(err, http.StatusBadGateway))
	assert.Contains(t, err.Error(), "Invalid Signature")

	unconfigured := newCloudinaryUploader(CloudinaryConfig{BaseURL: server.URL}, server.Client())
	_, err = unconfigured.Upload(ctx, "dishes", fileHeader(t, "image/png", []byte("png")))
	assert.True(t, utils.HasStatus(err, http.StatusServiceUnavailable))
}
