package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"concierge/models"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient implements LLMClient over the Gemini chat-completion API
// with the three booking functions declared as tools. Function-calling mode
// is automatic: the model decides whether to call a function or reply.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(apiKey, modelName string) *GeminiClient {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		panic(fmt.Sprintf("failed to create Gemini client: %v", err))
	}
	if modelName == "" {
		modelName = "models/gemini-1.5-pro"
	}
	return &GeminiClient{client: client, modelName: modelName}
}

func (g *GeminiClient) Complete(ctx context.Context, system string, turns []models.Turn) (*ModelReply, error) {
	if len(turns) == 0 {
		return nil, fmt.Errorf("gemini: empty transcript")
	}

	model := g.client.GenerativeModel(g.modelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	model.Tools = []*genai.Tool{bookingTools()}

	history, last, err := toContents(turns)
	if err != nil {
		return nil, err
	}

	session := model.StartChat()
	session.History = history

	resp, err := session.SendMessage(ctx, last...)
	if err != nil {
		return nil, fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	reply := &ModelReply{}
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			sb.WriteString(string(p))
		case genai.FunctionCall:
			// One function call per turn is assumed; keep the first.
			if reply.Call == nil {
				reply.Call = &models.FunctionCall{Name: p.Name, Args: p.Args}
			}
		}
	}
	reply.Text = sb.String()
	return reply, nil
}

// toContents maps the transcript onto Gemini chat contents, returning the
// history and the parts to send for the final turn.
func toContents(turns []models.Turn) ([]*genai.Content, []genai.Part, error) {
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		part, role, err := toPart(t)
		if err != nil {
			return nil, nil, err
		}
		contents = append(contents, &genai.Content{Role: role, Parts: []genai.Part{part}})
	}

	last := contents[len(contents)-1]
	return contents[:len(contents)-1], last.Parts, nil
}

func toPart(t models.Turn) (genai.Part, string, error) {
	switch t.Role {
	case models.RoleUser:
		return genai.Text(t.Content), "user", nil
	case models.RoleAssistant:
		return genai.Text(t.Content), "model", nil
	case models.RoleFunction:
		var result map[string]any
		if err := json.Unmarshal([]byte(t.Content), &result); err != nil {
			return nil, "", fmt.Errorf("gemini: malformed function result: %w", err)
		}
		return genai.FunctionResponse{Name: t.Name, Response: result}, "function", nil
	default:
		return nil, "", fmt.Errorf("gemini: unknown turn role %q", t.Role)
	}
}

func bookingTools() *genai.Tool {
	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        FnGetRooms,
				Description: "List the currently available hotel rooms with their prices.",
			},
			{
				Name:        FnBookRoom,
				Description: "Book a room for the guest. Returns the booking ID, dates, and total amount.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"roomId":   {Type: genai.TypeString, Description: "Identifier of the room to book"},
						"fullName": {Type: genai.TypeString, Description: "Guest's full name"},
						"email":    {Type: genai.TypeString, Description: "Guest's contact email"},
						"nights":   {Type: genai.TypeInteger, Description: "Number of nights to stay"},
					},
					Required: []string{"roomId", "fullName", "email", "nights"},
				},
			},
			{
				Name:        FnProcessPayment,
				Description: "Settle payment for an existing booking.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"bookingId": {Type: genai.TypeString, Description: "Booking to pay for"},
						"amount":    {Type: genai.TypeNumber, Description: "Amount to settle"},
						"method": {
							Type:        genai.TypeString,
							Description: "Payment method",
							Enum:        []string{models.MethodCreditCard, models.MethodDebitCard, models.MethodPaypal},
						},
					},
					Required: []string{"bookingId", "amount", "method"},
				},
			},
		},
	}
}
