package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/coomunity/marketplace-backend/internal/model"
	"github.com/coomunity/marketplace-backend/internal/reqctx"
	"google.golang.org/genai"
)

// AssistantClient answers buyer questions about a marketplace item using
// Gemini, grounded on the listing's own fields.
type AssistantClient struct {
	model      string
	httpClient *http.Client
}

func NewAssistantClient(httpClient *http.Client) *AssistantClient {
	model := os.Getenv("GEMINI_ASSISTANT_MODEL")
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &AssistantClient{model: model, httpClient: httpClient}
}

const assistantPrompt = `You are a helpful shopping assistant for a community marketplace.
Answer the buyer's question using only the listing data provided.
Be concise. If the question cannot be answered from the listing, say so
and suggest asking the seller directly in the match chat.
Do not invent details about condition, availability, or shipping.`

// Ask calls Gemini with the listing context and the buyer's question.
func (c *AssistantClient) Ask(ctx context.Context, item *model.Item, question string) (string, error) {
	rid := reqctx.RID(ctx)
	itemID := reqctx.ItemID(ctx)
	start := time.Now()

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		log.Printf("[ask] rid=%s item=%d stage=client_init err=%v", rid, itemID, err)
		return "", err
	}

	listing := fmt.Sprintf("Title: %s\nDescription: %s\nType: %s\nPrice: %d %s\nLocation: %s\nTags: %s",
		item.Title, item.Description, item.ItemType, item.PriceUnits, item.Currency, item.Location,
		strings.Join(item.Tags, ", "))

	parts := []*genai.Part{
		genai.NewPartFromText(assistantPrompt),
		genai.NewPartFromText("Listing:\n" + listing),
		genai.NewPartFromText("Question: " + question),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	temp := float32(0.5)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}

	log.Printf("[ask] rid=%s item=%d stage=gemini_start model=%s", rid, itemID, c.model)
	res, err := client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		log.Printf("[ask] rid=%s item=%d stage=gemini_fail model=%s err=%v", rid, itemID, c.model, err)
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	answer := strings.TrimSpace(res.Text())
	if answer == "" {
		log.Printf("[ask] rid=%s item=%d stage=empty_answer totalMs=%d", rid, itemID, time.Since(start).Milliseconds())
		return "", errors.New("empty answer")
	}
	log.Printf("[ask] rid=%s item=%d stage=done len=%d totalMs=%d", rid, itemID, len(answer), time.Since(start).Milliseconds())
	return answer, nil
}
