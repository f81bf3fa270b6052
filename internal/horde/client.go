package horde

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Arslanmonuahmad/tiplu/internal/config"
	"github.com/Arslanmonuahmad/tiplu/internal/models"
)

// fallbackReplies are returned when every model is exhausted. The gateway
// never surfaces an error to its caller.
var fallbackReplies = []string{
	"Baby, thoda connection issue ho raha hai... try again? 🥺💕",
	"Jaan, technical problem aa rahi hai... message phir se send karo? 😘💖",
}

// Client talks to the AI Horde asynchronous text-generation API: submit a
// request, then poll its status until done, walking a fallback list of models.
type Client struct {
	apiKey       string
	baseURL      string
	botName      string
	models       []string
	pollInterval time.Duration
	pollAttempts int
	httpClient   *http.Client
	log          *slog.Logger
}

func NewClient(cfg config.Config, log *slog.Logger) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:       cfg.HordeAPIKey,
		baseURL:      strings.TrimRight(cfg.HordeBaseURL, "/"),
		botName:      cfg.BotName,
		models:       cfg.HordeModels,
		pollInterval: cfg.HordePollInterval,
		pollAttempts: cfg.HordePollAttempts,
		httpClient:   &http.Client{Timeout: timeout},
		log:          log,
	}
}

// Chat generates a mood-conditioned reply to userMessage. It tries each model
// in order; output that fails the sanity filter counts as a miss. When all
// models are exhausted a canned reply is returned with fallback=true.
func (c *Client) Chat(ctx context.Context, userMessage string, user *models.User) (string, bool) {
	mood := user.ChatMood
	if mood == "" {
		mood = models.MoodNormal
	}
	mctx := analyzeMessage(userMessage)
	prompt := fmt.Sprintf("%s\n\nPrevious context: This is an ongoing conversation between %s and the user.\n\nUser: %s\n%s:",
		buildPrompt(c.botName, mood, mctx), c.botName, userMessage, c.botName)

	for i, model := range c.models {
		if ctx.Err() != nil {
			break
		}
		c.log.Info("trying horde model", "model", model, "attempt", i+1, "total", len(c.models))

		requestID, err := c.submit(ctx, model, prompt, mood, mctx)
		if err != nil {
			c.log.Error("horde submit failed", "model", model, "err", err)
			continue
		}

		raw, err := c.poll(ctx, requestID)
		if err != nil {
			c.log.Error("horde poll failed", "model", model, "request_id", requestID, "err", err)
			continue
		}

		cleaned, ok := sanitizeReply(raw, c.botName)
		if !ok {
			c.log.Info("horde reply rejected by filter", "model", model)
			continue
		}
		return cleaned, false
	}

	return fallbackReplies[rand.Intn(len(fallbackReplies))], true
}

type generateRequest struct {
	Prompt         string         `json:"prompt"`
	Params         generateParams `json:"params"`
	TrustedWorkers bool           `json:"trusted_workers"`
	SlowWorkers    bool           `json:"slow_workers"`
	Models         []string       `json:"models"`
}

type generateParams struct {
	MaxContextLength int      `json:"max_context_length"`
	MaxLength        int      `json:"max_length"`
	RepPen           float64  `json:"rep_pen"`
	RepPenRange      int      `json:"rep_pen_range"`
	RepPenSlope      float64  `json:"rep_pen_slope"`
	Temperature      float64  `json:"temperature"`
	TFS              float64  `json:"tfs"`
	TopA             float64  `json:"top_a"`
	TopK             int      `json:"top_k"`
	TopP             float64  `json:"top_p"`
	Typical          float64  `json:"typical"`
	SamplerOrder     []int    `json:"sampler_order"`
	StopSequence     []string `json:"stop_sequence"`
}

func (c *Client) submit(ctx context.Context, model, prompt string, mood models.ChatMood, mctx messageContext) (string, error) {
	payload := generateRequest{
		Prompt: prompt,
		Params: generateParams{
			MaxContextLength: 4096,
			MaxLength:        responseLength(mctx),
			RepPen:           1.2,
			RepPenRange:      2048,
			RepPenSlope:      0.7,
			Temperature:      temperature(mood, mctx),
			TFS:              0.97,
			TopA:             0.0,
			TopK:             60,
			TopP:             0.95,
			Typical:          1.0,
			SamplerOrder:     []int{6, 0, 1, 3, 4, 2, 5},
			StopSequence:     []string{"User:", "\nUser:", "\n\nUser:", "Human:", "\nHuman:", "\n\n"},
		},
		TrustedWorkers: false,
		SlowWorkers:    true,
		Models:         []string{model},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v2/generate/text/async", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Client-Agent", c.botName+"Bot:2.0:go")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("post horde: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("horde error: status=%d body=%s", resp.StatusCode, truncateBody(rawBody))
	}

	var submitResp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rawBody, &submitResp); err != nil {
		return "", fmt.Errorf("decode submit response: %w (body=%s)", err, truncateBody(rawBody))
	}
	if submitResp.ID == "" {
		return "", fmt.Errorf("empty request id in response")
	}
	return submitResp.ID, nil
}

// poll checks the request status at a fixed interval up to the attempt cap.
// A faulted request or an exhausted cap is an error; the caller moves on to
// the next model.
func (c *Client) poll(ctx context.Context, requestID string) (string, error) {
	statusURL := c.baseURL + "/api/v2/generate/text/status/" + url.PathEscape(requestID)

	for attempt := 0; attempt < c.pollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
		if err != nil {
			return "", fmt.Errorf("new request: %w", err)
		}
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.log.Error("horde status check failed", "request_id", requestID, "err", err)
			continue
		}

		rawBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return "", fmt.Errorf("read status body: %w", err)
		}
		if resp.StatusCode >= 300 {
			return "", fmt.Errorf("horde status error: status=%d body=%s", resp.StatusCode, truncateBody(rawBody))
		}

		var statusResp struct {
			Done        bool `json:"done"`
			Faulted     bool `json:"faulted"`
			Generations []struct {
				Text string `json:"text"`
			} `json:"generations"`
		}
		if err := json.Unmarshal(rawBody, &statusResp); err != nil {
			return "", fmt.Errorf("decode status response: %w (body=%s)", err, truncateBody(rawBody))
		}

		if statusResp.Faulted {
			return "", fmt.Errorf("request %s faulted", requestID)
		}
		if statusResp.Done {
			if len(statusResp.Generations) == 0 || statusResp.Generations[0].Text == "" {
				return "", fmt.Errorf("request %s done with no generations", requestID)
			}
			return statusResp.Generations[0].Text, nil
		}
	}

	return "", fmt.Errorf("request %s timed out after %d attempts", requestID, c.pollAttempts)
}

func truncateBody(body []byte) string {
	const limit = 512
	s := strings.TrimSpace(string(body))
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "…"
}
