package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"sms-rental-be/internal/dto"
	"sms-rental-be/pkg/poller"
)

// Watches one activation through the running API exactly the way the
// frontend does, printing every status transition. Useful when
// debugging a provider that never delivers.
func main() {
	baseURL := flag.String("base-url", "http://localhost:3000", "API base URL")
	token := flag.String("token", "", "bearer token")
	activationId := flag.String("id", "", "provider activation id to watch")
	interval := flag.Duration("interval", poller.DefaultInterval, "poll interval")
	flag.Parse()

	if *token == "" || *activationId == "" {
		log.Fatal("Error: -token and -id are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := &http.Client{Timeout: 10 * time.Second}
	endpoint := fmt.Sprintf("%s/api/sms/check/%s", *baseURL, *activationId)

	poll := func(ctx context.Context) (poller.Result, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return poller.Result{}, err
		}
		req.Header.Set("Authorization", "Bearer "+*token)

		resp, err := client.Do(req)
		if err != nil {
			return poller.Result{}, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return poller.Result{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		var body struct {
			Data dto.PollResponse `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return poller.Result{}, err
		}

		return poller.Result{
			Terminal: body.Data.Status == "success" || body.Data.Status == "cancelled",
			Status:   body.Data.Status,
			Code:     body.Data.Code,
		}, nil
	}

	res, err := poller.Loop(ctx, poll, poller.Options{
		Interval: *interval,
		OnResult: func(r poller.Result) {
			log.Printf("status=%s code=%q", r.Status, r.Code)
		},
	})
	if err != nil {
		log.Fatal("Watch aborted:", err)
	}
	log.Printf("Finished: status=%s code=%q", res.Status, res.Code)
}
