package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
)

var (
	seedCount int
	seedURL   string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate sample tickets against a running API (load-testing utility)",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedCount, "count", 20, "number of tickets to create")
	seedCmd.Flags().StringVar(&seedURL, "url", "http://localhost:8000", "base URL of the running API")
}

var sampleCategories = []string{"password_reset", "vpn_access", "hardware", "software", "network", "email_issues", "access_rights", "other"}

var samplePriorities = []string{"low", "medium", "high", "critical"}

var sampleSources = []string{"chatbot", "email", "glpi", "solman", "manual", "phone"}

var sampleAssignees = []string{"alice@company.com", "bob@company.com", "charlie@company.com", "diana@company.com", ""}

var sampleTitles = []string{
	"Login issues with the new update",
	"Payment processing failed",
	"Feature suggestion: dark mode",
	"Database connection timeout",
	"Mobile app crashing on startup",
	"Password reset not working",
	"Invoice download problem",
	"UI alignment issues on dashboard",
}

var sampleDescriptions = []string{
	"I'm unable to login with my credentials after the latest update. Getting authentication error.",
	"When trying to process payment, the system returns an internal server error.",
	"It would be great to have a dark mode option for better nighttime usage.",
	"The application frequently times out when connecting to the database during peak hours.",
	"The mobile app crashes immediately after splash screen on iOS 16.5.",
	"Password reset emails are not being received by users.",
	"Downloaded invoices are corrupted and cannot be opened.",
	"The dashboard elements are misaligned on 4K monitor resolutions.",
}

func generateSampleTicket(i int) map[string]any {
	return map[string]any{
		"title":           sampleTitles[rand.Intn(len(sampleTitles))],
		"description":     sampleDescriptions[rand.Intn(len(sampleDescriptions))],
		"category":        sampleCategories[rand.Intn(len(sampleCategories))],
		"priority":        samplePriorities[rand.Intn(len(samplePriorities))],
		"source":          sampleSources[rand.Intn(len(sampleSources))],
		"requester_email": fmt.Sprintf("user%d@company.com", i+1),
		"requester_name":  fmt.Sprintf("Sample User %d", i+1),
		"assigned_to":     sampleAssignees[rand.Intn(len(sampleAssignees))],
		"tags":            []string{"sample", "seeded"},
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	endpoint := seedURL + "/api/v1/ticket/"

	var created, failed atomic.Int64
	// Batches of 10 concurrent requests, the way a browser load test would.
	const batchSize = 10
	for start := 0; start < seedCount; start += batchSize {
		end := start + batchSize
		if end > seedCount {
			end = seedCount
		}
		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if err := postTicket(client, endpoint, generateSampleTicket(i)); err != nil {
					failed.Add(1)
					log.Printf("seed: ticket %d: %v", i+1, err)
					return
				}
				created.Add(1)
			}(i)
		}
		wg.Wait()
		log.Printf("seed: %d/%d created", created.Load(), seedCount)
	}
	log.Printf("seed: done, created=%d failed=%d", created.Load(), failed.Load())
	return nil
}

func postTicket(client *http.Client, endpoint string, ticket map[string]any) error {
	body, err := json.Marshal(ticket)
	if err != nil {
		return err
	}
	resp, err := client.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}
