// simulation drives one full collaboration round against a running server:
// reset the forge, post contributions through the chat endpoint, trigger the
// webhook pipeline, and poll until the synthesis lands.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"forge-ai-be/pkg/client"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

const forgeId = "simulation-forge"

type apiDriver struct {
	baseURL    string
	serviceKey string
	http       *http.Client
}

func (d *apiDriver) post(path string, payload any) ([]byte, int, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(http.MethodPost, d.baseURL+path, body)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.serviceKey)

	resp, err := d.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	return raw, resp.StatusCode, err
}

func (d *apiDriver) chat(roleId, message string, isQuestion bool) error {
	_, status, err := d.post("/api/chat", map[string]any{
		"forge_id":    forgeId,
		"role_id":     roleId,
		"message":     message,
		"is_question": isQuestion,
	})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("chat returned %d", status)
	}
	return nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	serviceKey := os.Getenv("FORGE_AI_API_KEY")
	if serviceKey == "" {
		color.Red("❌ FORGE_AI_API_KEY is not set")
		os.Exit(1)
	}

	driver := &apiDriver{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		http:       &http.Client{Timeout: 30 * time.Second},
	}
	api := client.New(baseURL, serviceKey)
	ctx := context.Background()

	color.Cyan("🔄 Resetting forge %s...", forgeId)
	if _, status, err := driver.post("/api/state/reset", map[string]string{"forge_id": forgeId}); err != nil || status != http.StatusOK {
		color.Red("❌ Reset failed (status %d): %v", status, err)
		os.Exit(1)
	}

	color.Cyan("💬 Posting contributions...")
	contributions := []struct {
		roleId  string
		message string
	}{
		{"1", "I think the MVP should focus on a single core workflow: capture an idea, refine it, share it."},
		{"2", "Agreed. We should also decide early whether mobile is in scope for the first release."},
	}
	for _, c := range contributions {
		if err := driver.chat(c.roleId, c.message, false); err != nil {
			color.Red("❌ Chat failed: %v", err)
			os.Exit(1)
		}
	}

	state, err := api.GetState(ctx, forgeId)
	if err != nil {
		color.Red("❌ State fetch failed: %v", err)
		os.Exit(1)
	}
	if len(state.Contributions) == 0 {
		color.Red("❌ No contributions recorded")
		os.Exit(1)
	}
	latest := state.Contributions[len(state.Contributions)-1]
	color.Green("✅ %d contributions recorded", len(state.Contributions))

	color.Cyan("📣 Triggering webhook for contribution %s...", latest.Id)
	raw, status, err := driver.post("/api/webhook/process-contribution", map[string]string{
		"forgeId":           forgeId,
		"newContributionId": latest.Id,
	})
	if err != nil || status != http.StatusAccepted {
		color.Red("❌ Webhook returned %d: %s (%v)", status, string(raw), err)
		os.Exit(1)
	}
	color.Green("✅ Webhook accepted (202)")

	color.Cyan("⏳ Waiting for synthesis...")
	synthesis, err := api.WaitForSynthesis(ctx, forgeId, len(state.Syntheses))
	if err != nil {
		color.Yellow("⚠️  No synthesis produced: %v", err)
		color.Yellow("   Triage may have chosen LOG_ONLY or ANSWER_DIRECTLY for this contribution.")
	} else {
		color.Green("✅ Synthesis %s created", synthesis.Id)
		color.White("   %s", synthesis.Content)
	}

	color.Cyan("❓ Asking a question through chat...")
	if err := driver.chat("1", "What should I prioritize first based on our discussion?", true); err != nil {
		color.Red("❌ Question chat failed: %v", err)
		os.Exit(1)
	}

	final, err := api.GetState(ctx, forgeId)
	if err != nil {
		color.Red("❌ Final state fetch failed: %v", err)
		os.Exit(1)
	}
	color.Green("🎉 Simulation complete: %d contributions, %d syntheses, %d role chats",
		len(final.Contributions), len(final.Syntheses), len(final.RoleChats))
}
