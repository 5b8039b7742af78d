package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"obak-storefront/internal/domain"
)

type catalogReader interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// Message is one turn of the assistant conversation. Role is "user" or
// "model".
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Service answers shopper questions through a generative model grounded in
// the live catalog: products and categories are fetched fresh and embedded
// into the system instruction so the model answers only from store data.
type Service struct {
	catalog catalogReader
	baseURL string
	apiKey  string
	model   string
	httpc   *http.Client
	logger  *log.Logger
}

func New(catalog catalogReader, baseURL, apiKey, model string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		catalog: catalog,
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpc:   &http.Client{Timeout: 60 * time.Second},
		logger:  logger,
	}
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *generateContent  `json:"system_instruction,omitempty"`
	Contents          []generateContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

// Chat sends the conversation plus the new message and returns the model
// reply text.
func (s *Service) Chat(ctx context.Context, history []Message, message string) (string, error) {
	instruction, err := s.systemInstruction(ctx)
	if err != nil {
		return "", err
	}

	contents := make([]generateContent, 0, len(history)+1)
	for _, m := range history {
		contents = append(contents, generateContent{Role: m.Role, Parts: []generatePart{{Text: m.Text}}})
	}
	contents = append(contents, generateContent{Role: "user", Parts: []generatePart{{Text: message}}})

	body, err := json.Marshal(generateRequest{
		SystemInstruction: &generateContent{Parts: []generatePart{{Text: instruction}}},
		Contents:          contents,
	})
	if err != nil {
		return "", fmt.Errorf("assistant: encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("assistant: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant: call model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return "", fmt.Errorf("assistant: model returned status %d: %s", resp.StatusCode, bytes.TrimSpace(text))
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("assistant: decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("assistant: empty model response")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

func (s *Service) systemInstruction(ctx context.Context) (string, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return "", fmt.Errorf("assistant: load products: %w", err)
	}
	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return "", fmt.Errorf("assistant: load categories: %w", err)
	}

	productJSON, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return "", fmt.Errorf("assistant: encode products: %w", err)
	}
	categoryJSON, err := json.MarshalIndent(categories, "", "  ")
	if err != nil {
		return "", fmt.Errorf("assistant: encode categories: %w", err)
	}

	return fmt.Sprintf(`أنت مساعد ذكي وودود لشركة "OBAK" المتخصصة في بيع منتجات التشطيبات. مهمتك مساعدة العملاء في اختيار المنتجات بناءً على البيانات المقدمة فقط. أجب باللغة العربية عن الأسئلة المتعلقة بالمنتجات، الأسعار، الفئات، الميزات، أكثر المنتجات مبيعًا، والمنتجات المتوفرة. لا تبتكر بيانات جديدة. كن موجزًا ومفيدًا.

بيانات المنتجات:
%s

بيانات الفئات:
%s

لتحديد أكثر المنتجات مبيعًا، رتب المنتجات حسب حقل "sales" بترتيب تنازلي. إذا سُئلت عن المنتجات المتوفرة، ركز على المنتجات التي تحتوي على "in_stock: true". قدم الإجابات بشكل واضح ومنظم، مع استخدام قوائم أو جداول إذا لزم الأمر.`, productJSON, categoryJSON), nil
}
