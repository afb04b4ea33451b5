package assembler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/example/audiodrama/internal/audio"
)

// HTTPSynthesizer posts each chunk to a pocket-tts style HTTP server
// (POST /tts with {"text","voice"}, WAV bytes back).
type HTTPSynthesizer struct {
	BaseURL string
	Voices  map[string]string
	Client  *http.Client
}

func (h *HTTPSynthesizer) Synthesize(ctx context.Context, content, voiceID string) ([]float32, error) {
	v := voiceID
	if mapped, ok := h.Voices[voiceID]; ok {
		v = mapped
	}

	body, err := json.Marshal(map[string]string{"text": content, "voice": v})
	if err != nil {
		return nil, err
	}

	url := strings.TrimRight(h.BaseURL, "/") + "/tts"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("tts server returned %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return audio.DecodeWAV(data)
}
