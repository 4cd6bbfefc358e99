package captcha

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

const apiBaseURL = "http://2captcha.com"

// Solver submits reCAPTCHA challenges to the 2Captcha HTTP API and polls for
// the answer token. A Solver with an empty key is valid and always disabled.
type Solver struct {
	apiKey string
	client *resty.Client
}

type apiResponse struct {
	Status  int    `json:"status"`
	Request string `json:"request"`
}

// NewSolver builds a solver for the given API key. An empty key disables it.
func NewSolver(apiKey string) *Solver {
	client := resty.New()
	client.SetBaseURL(apiBaseURL)
	client.SetTimeout(30 * time.Second)
	return &Solver{apiKey: apiKey, client: client}
}

// Enabled reports whether an API key was configured.
func (s *Solver) Enabled() bool {
	return s != nil && s.apiKey != ""
}

// SolveRecaptcha submits the sitekey/page pair and polls until 2Captcha
// returns a response token or the context expires.
func (s *Solver) SolveRecaptcha(ctx context.Context, siteKey, pageURL string) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("no captcha API key configured")
	}

	var submitted apiResponse
	_, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":       s.apiKey,
			"method":    "userrecaptcha",
			"googlekey": siteKey,
			"pageurl":   pageURL,
			"json":      "1",
		}).
		SetResult(&submitted).
		Get("/in.php")
	if err != nil {
		return "", fmt.Errorf("captcha submit failed: %w", err)
	}
	if submitted.Status != 1 {
		return "", fmt.Errorf("captcha submit rejected: %s", submitted.Request)
	}
	taskID := submitted.Request
	log.Printf("Captcha task submitted to 2Captcha (task %s), polling for result...", taskID)

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	deadline := time.Now().Add(2 * time.Minute)

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		var polled apiResponse
		_, err := s.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"key":    s.apiKey,
				"action": "get",
				"id":     taskID,
				"json":   "1",
			}).
			SetResult(&polled).
			Get("/res.php")
		if err != nil {
			return "", fmt.Errorf("captcha poll failed: %w", err)
		}
		if polled.Status == 1 {
			return polled.Request, nil
		}
		if polled.Request != "CAPCHA_NOT_READY" {
			return "", fmt.Errorf("captcha solve failed: %s", polled.Request)
		}
	}

	return "", fmt.Errorf("captcha solve timed out for task %s", taskID)
}
