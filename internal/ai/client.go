package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/crescieperdi/portal-interno/internal/config"
	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Nomes das funções serverless expostas pela plataforma de IA
const (
	FnDetectDuplicateIdeas = "detect-duplicate-ideas"
	FnMuralAnonymize       = "mural-anonymize"
	FnMuralValidate        = "mural-ai-validate"
	FnGenerateQuiz         = "generate-quiz-questions"
	FnQuizFeedback         = "quiz-ai-feedback"
	FnGirabotUniversal     = "girabot-universal"
	FnFeedEngagement       = "analyze-feed-engagement"
	FnFeedWeeklySummary    = "feed-weekly-summary"
	FnFeedRecommend        = "feed-recommend-related"
	FnGirabotReports       = "girabot-reports"
)

// ErrUnavailable indica que a chamada à função de IA falhou; o chamador
// decide o fallback (texto estático, status pendente, etc.)
var ErrUnavailable = errors.New("ai function unavailable")

var fallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "portal_ai_fallbacks_total",
	Help: "Chamadas de função de IA que degradaram para o caminho de fallback.",
}, []string{"function"})

// Client é o cliente HTTP único para as funções de IA do portal.
// Sem retry e sem backoff: falha degrada para o fallback do chamador.
type Client struct {
	baseURL string
	apiKey  string
	enabled bool
	client  *http.Client
	logger  *zap.Logger
}

func New(cfg config.AIConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		enabled: cfg.Enabled,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// call executa POST {base}/functions/v1/{fn} com corpo e resposta JSON
func (c *Client) call(ctx context.Context, fn string, reqBody, out any) error {
	if !c.enabled {
		fallbacks.WithLabelValues(fn).Inc()
		return ErrUnavailable
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", fn, err)
	}

	url := fmt.Sprintf("%s/functions/v1/%s", c.baseURL, fn)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", fn, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("função de IA inacessível", zap.String("function", fn), zap.Error(err))
		fallbacks.WithLabelValues(fn).Inc()
		return ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("função de IA retornou erro",
			zap.String("function", fn),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		fallbacks.WithLabelValues(fn).Inc()
		return ErrUnavailable
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Warn("resposta de IA inválida", zap.String("function", fn), zap.Error(err))
		fallbacks.WithLabelValues(fn).Inc()
		return ErrUnavailable
	}

	return nil
}

// Anonymize remove nomes, CPF/CNPJ e cidade do texto de uma publicação do Mural
func (c *Client) Anonymize(ctx context.Context, text string) (string, error) {
	var out struct {
		Text string `json:"text"`
	}
	req := map[string]string{"text": text}
	if err := c.call(ctx, FnMuralAnonymize, req, &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

// MuralVerdict é o resultado da classificação de qualidade de uma publicação
type MuralVerdict struct {
	Verdict    string `json:"verdict"`
	Reason     string `json:"reason"`
	Confidence int    `json:"confidence"`
}

// ValidateMural classifica uma publicação em approved/rejected/review.
// O threshold de confiança é aplicado pela própria função, não aqui.
func (c *Client) ValidateMural(ctx context.Context, text string, confidenceThreshold int) (*MuralVerdict, error) {
	var out MuralVerdict
	req := map[string]any{"text": text, "confidence_threshold": confidenceThreshold}
	if err := c.call(ctx, FnMuralValidate, req, &out); err != nil {
		return nil, err
	}
	switch out.Verdict {
	case models.AIVerdictApproved, models.AIVerdictRejected, models.AIVerdictReview:
		return &out, nil
	default:
		c.logger.Warn("veredito de IA desconhecido", zap.String("verdict", out.Verdict))
		fallbacks.WithLabelValues(FnMuralValidate).Inc()
		return nil, ErrUnavailable
	}
}

// DetectDuplicateIdeas retorna um parecer consultivo sobre ideias semelhantes.
// O resultado nunca bloqueia a transição para votação.
func (c *Client) DetectDuplicateIdeas(ctx context.Context, title, description string) (string, error) {
	var out struct {
		Summary string `json:"summary"`
	}
	req := map[string]string{"title": title, "description": description}
	if err := c.call(ctx, FnDetectDuplicateIdeas, req, &out); err != nil {
		return "", err
	}
	return out.Summary, nil
}

// GenerateQuizQuestions gera questões de quiz para um tópico de treinamento
func (c *Client) GenerateQuizQuestions(ctx context.Context, topic string, count int) ([]models.QuizQuestion, error) {
	var out struct {
		Questions []models.QuizQuestion `json:"questions"`
	}
	req := map[string]any{"topic": topic, "count": count}
	if err := c.call(ctx, FnGenerateQuiz, req, &out); err != nil {
		return nil, err
	}
	return out.Questions, nil
}

// QuizFeedback pede um feedback personalizado para uma tentativa de quiz
func (c *Client) QuizFeedback(ctx context.Context, topic string, score, total int, wrongQuestions []string) (string, error) {
	var out struct {
		Feedback string `json:"feedback"`
	}
	req := map[string]any{
		"topic":           topic,
		"score":           score,
		"total":           total,
		"wrong_questions": wrongQuestions,
	}
	if err := c.call(ctx, FnQuizFeedback, req, &out); err != nil {
		return "", err
	}
	return out.Feedback, nil
}

// Chat envia uma mensagem ao GiraBot com o transcript da sessão
func (c *Client) Chat(ctx context.Context, module, systemPrompt string, messages []models.ChatMessage) (string, error) {
	var out struct {
		Reply string `json:"reply"`
	}
	req := map[string]any{
		"module":        module,
		"system_prompt": systemPrompt,
		"messages":      messages,
	}
	if err := c.call(ctx, FnGirabotUniversal, req, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}

// AnalyzeFeedEngagement analisa o engajamento de publicações do feed
func (c *Client) AnalyzeFeedEngagement(ctx context.Context, posts []models.FeedPost) (string, error) {
	var out struct {
		Analysis string `json:"analysis"`
	}
	req := map[string]any{"posts": posts}
	if err := c.call(ctx, FnFeedEngagement, req, &out); err != nil {
		return "", err
	}
	return out.Analysis, nil
}

// WeeklyFeedSummary gera o resumo semanal do feed
func (c *Client) WeeklyFeedSummary(ctx context.Context, posts []models.FeedPost) (string, error) {
	var out struct {
		Summary string `json:"summary"`
	}
	req := map[string]any{"posts": posts}
	if err := c.call(ctx, FnFeedWeeklySummary, req, &out); err != nil {
		return "", err
	}
	return out.Summary, nil
}

// RecommendRelated sugere publicações relacionadas a um post do feed
func (c *Client) RecommendRelated(ctx context.Context, postID int64) ([]int64, error) {
	var out struct {
		PostIDs []int64 `json:"post_ids"`
	}
	req := map[string]any{"post_id": postID}
	if err := c.call(ctx, FnFeedRecommend, req, &out); err != nil {
		return nil, err
	}
	return out.PostIDs, nil
}

// GenerateReport gera um relatório do GiraBot (uso, dúvidas frequentes, etc.)
func (c *Client) GenerateReport(ctx context.Context, kind string) (string, error) {
	var out struct {
		Content string `json:"content"`
	}
	req := map[string]string{"kind": kind}
	if err := c.call(ctx, FnGirabotReports, req, &out); err != nil {
		return "", err
	}
	return out.Content, nil
}
