// Package recognition defines the boundary to the external gear recognition
// service, which turns a screenshot into raw text fields. Interpreting those
// fields into typed gear is the gear package's job; this package never parses
// stat vocabulary itself.
package recognition

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"
)

// RawGear is the recognizer's reading of a single gear screenshot: the slot
// and set labels, the main stat line, and the four substat lines, all as
// unparsed text.
type RawGear struct {
	Slot     string
	Set      string
	MainStat string
	Substats [4]string
}

// Recognizer extracts a RawGear from a gear screenshot on disk.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (RawGear, error)
}

// HTTPRecognizer calls a recognition service over HTTP: the image bytes are
// posted to /recognize and the reply is a JSON object with slot, set,
// main_stat, and substats fields.
type HTTPRecognizer struct {
	baseURL string
	http    *http.Client
}

// NewHTTPRecognizer returns a recognizer backed by the service at baseURL.
//
// Precondition: baseURL is non-empty; timeout > 0.
func NewHTTPRecognizer(baseURL string, timeout time.Duration) *HTTPRecognizer {
	return &HTTPRecognizer{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Recognize posts the image at imagePath to the service and decodes the
// reply.
//
// Postcondition: on success every RawGear field carries the service's text,
// which may still fail gear parsing downstream.
func (r *HTTPRecognizer) Recognize(ctx context.Context, imagePath string) (RawGear, error) {
	img, err := os.ReadFile(imagePath)
	if err != nil {
		return RawGear{}, fmt.Errorf("reading image %q: %w", imagePath, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/recognize", bytes.NewReader(img))
	if err != nil {
		return RawGear{}, fmt.Errorf("building recognize request: %w", err)
	}
	req.Header.Set("Content-Type", contentType(imagePath))

	resp, err := r.http.Do(req)
	if err != nil {
		return RawGear{}, fmt.Errorf("recognizing %q: %w", imagePath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return RawGear{}, fmt.Errorf("recognizing %q: unexpected status %s", imagePath, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return RawGear{}, fmt.Errorf("reading recognition reply for %q: %w", imagePath, err)
	}

	raw := RawGear{
		Slot:     gjson.GetBytes(body, "slot").String(),
		Set:      gjson.GetBytes(body, "set").String(),
		MainStat: gjson.GetBytes(body, "main_stat").String(),
	}
	subs := gjson.GetBytes(body, "substats").Array()
	for i := 0; i < len(subs) && i < len(raw.Substats); i++ {
		raw.Substats[i] = subs[i].String()
	}
	return raw, nil
}

func contentType(path string) string {
	switch filepath.Ext(path) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
