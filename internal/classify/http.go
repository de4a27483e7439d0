package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// HTTPClassifier calls an external inference service exposing POST /cv and POST /nlp
type HTTPClassifier struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClassifier creates a classifier for the inference service at baseURL
func NewHTTPClassifier(baseURL string) *HTTPClassifier {
	return &HTTPClassifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// ClassifyImage uploads the photo to /cv
func (h *HTTPClassifier) ClassifyImage(ctx context.Context, img ImageInput) (CVResult, error) {
	f, err := os.Open(img.Path)
	if err != nil {
		return CVResult{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("photo", filepath.Base(img.Path))
	if err != nil {
		return CVResult{}, fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return CVResult{}, fmt.Errorf("failed to copy image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return CVResult{}, fmt.Errorf("failed to close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/cv", &body)
	if err != nil {
		return CVResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var res CVResult
	if err := h.do(req, &res); err != nil {
		return CVResult{}, fmt.Errorf("cv request failed: %w", err)
	}
	if res.Label == "" {
		return CVResult{}, fmt.Errorf("cv response has no label")
	}
	return res, nil
}

// AnalyzeText posts the text to /nlp
func (h *HTTPClassifier) AnalyzeText(ctx context.Context, text, lang string) (NLPResult, error) {
	payload, err := json.Marshal(map[string]string{"text": text, "lang": lang})
	if err != nil {
		return NLPResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/nlp", bytes.NewReader(payload))
	if err != nil {
		return NLPResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var res NLPResult
	if err := h.do(req, &res); err != nil {
		return NLPResult{}, fmt.Errorf("nlp request failed: %w", err)
	}
	if res.Category == "" {
		return NLPResult{}, fmt.Errorf("nlp response has no category")
	}
	return res, nil
}

func (h *HTTPClassifier) do(req *http.Request, out interface{}) error {
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
