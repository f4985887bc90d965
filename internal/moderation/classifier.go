// internal/moderation/classifier.go
package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// UnavailableMessage is shown when the classifier cannot be reached.
const UnavailableMessage = "Unable to check content. Please try again later."

// Details is the classifier's own breakdown; passed through untouched.
type Details struct {
	Confidence      string   `json:"confidence,omitempty"`
	FlagReason      string   `json:"flag_reason,omitempty"`
	FoundBadwords   []string `json:"found_badwords,omitempty"`
	HasBadword      bool     `json:"has_badword,omitempty"`
	IsFlagged       bool     `json:"is_flagged,omitempty"`
	IsSpam          bool     `json:"is_spam,omitempty"`
	SpamProbability float64  `json:"spam_probability,omitempty"`
}

type Result struct {
	Allowed bool     `json:"allowed"`
	Message string   `json:"message,omitempty"`
	Details *Details `json:"result,omitempty"`
	Success *bool    `json:"success,omitempty"`
}

func unavailable() Result {
	ok := false
	return Result{Allowed: false, Message: UnavailableMessage, Success: &ok}
}

// Classifier asks an external text classifier whether user content may be
// published. Any failure to get an answer rejects the content.
type Classifier struct {
	url    string
	client *http.Client
}

func NewClassifier(url string, client *http.Client) *Classifier {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &Classifier{url: url, client: client}
}

func (c *Classifier) Check(ctx context.Context, text string) Result {
	res, err := c.classify(ctx, text)
	if err != nil {
		slog.WarnContext(ctx, "content classifier unavailable", "err", err)
		return unavailable()
	}
	return res
}

func (c *Classifier) classify(ctx context.Context, text string) (Result, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return Result{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return Result{}, fmt.Errorf("classifier status %d", resp.StatusCode)
	}

	var out Result
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return Result{}, fmt.Errorf("decode classifier response: %w", err)
	}
	return out, nil
}
