package services

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/yeremiapane/restaurant-hub/config"
	"github.com/yeremiapane/restaurant-hub/utils"
)

const maxImageSize = 5 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// ImageUploader stores an uploaded image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, folder string, file *multipart.FileHeader) (string, error)
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	BaseURL   string
}

type cloudinaryUploader struct {
	config     CloudinaryConfig
	httpClient *http.Client
	now        func() time.Time
}

func NewCloudinaryUploader(cfg *config.Config) ImageUploader {
	return newCloudinaryUploader(CloudinaryConfig{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		BaseURL:   cfg.CloudinaryAPIURL,
	}, &http.Client{Timeout: 30 * time.Second})
}

func newCloudinaryUploader(cfg CloudinaryConfig, client *http.Client) *cloudinaryUploader {
	return &cloudinaryUploader{config: cfg, httpClient: client, now: time.Now}
}

func (c *cloudinaryUploader) validateConfig() error {
	if c.config.CloudName == "" || c.config.APIKey == "" || c.config.APISecret == "" {
		return utils.NewAppError(http.StatusServiceUnavailable, "image upload is not configured")
	}
	return nil
}

// sign builds the upload signature over the alphabetically sorted
// parameters, as the Cloudinary API expects.
func (c *cloudinaryUploader) sign(folder, publicID string, timestamp int64) string {
	payload := fmt.Sprintf("folder=%s&public_id=%s&timestamp=%d%s", folder, publicID, timestamp, c.config.APISecret)
	sum := sha1.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}

func (c *cloudinaryUploader) Upload(ctx context.Context, folder string, file *multipart.FileHeader) (string, error) {
	if err := c.validateConfig(); err != nil {
		return "", err
	}
	if file == nil {
		return "", utils.NewValidationError("image file is required")
	}
	if file.Size > maxImageSize {
		return "", utils.NewValidationError("image exceeds 5MB")
	}
	if !allowedImageTypes[file.Header.Get("Content-Type")] {
		return "", utils.NewValidationError("image must be jpeg, png or webp")
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	publicID := uuid.NewString()
	timestamp := c.now().Unix()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fields := map[string]string{
		"api_key":   c.config.APIKey,
		"folder":    folder,
		"public_id": publicID,
		"timestamp": strconv.FormatInt(timestamp, 10),
		"signature": c.sign(folder, publicID, timestamp),
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return "", err
		}
	}
	part, err := w.CreateFormFile("file", file.Filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, src); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s/image/upload", c.config.BaseURL, c.config.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", utils.WrapAppError(http.StatusBadGateway, "image upload failed", err)
	}
	defer resp.Body.Close()

	var result struct {
		SecureURL string `json:"secure_url"`
		Error     *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", utils.WrapAppError(http.StatusBadGateway, "image upload failed", err)
	}
	if resp.StatusCode != http.StatusOK || result.SecureURL == "" {
		msg := resp.Status
		if result.Error != nil {
			msg = result.Error.Message
		}
		return "", utils.WrapAppError(http.StatusBadGateway, "image upload failed", fmt.Errorf("cloudinary: %s", msg))
	}

	utils.InfoLogger.WithField("public_id", publicID).Info("image uploaded")
	return result.SecureURL, nil
}
