package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/paperplanes/pm-tool/internal/models"
	"github.com/sashabaranov/go-openai"
)

// GeneratedCode is the structured result of project-code generation.
type GeneratedCode struct {
	ProjectCode  string `json:"project_code"`
	Number       int    `json:"number"`
	Abbreviation string `json:"abbreviation"`
	Slug         string `json:"slug"`
}

// CodeGenerator produces project codes from a client name and the last
// used sequence number.
type CodeGenerator interface {
	GenerateProjectCode(ctx context.Context, clientName string, lastNumber int) (*GeneratedCode, error)
}

// ContractExtractor turns raw contract text into the structured payload.
type ContractExtractor interface {
	ExtractContractData(ctx context.Context, contractText string) (*models.ExtractedData, error)
}

// DocumentGenerator produces the Adminscale and PERT planning documents.
type DocumentGenerator interface {
	GenerateAdminscale(ctx context.Context, project *models.Project, data *models.ExtractedData) (string, error)
	GeneratePERT(ctx context.Context, project *models.Project, data *models.ExtractedData) (string, error)
}

// AIService implements all three collaborator roles on top of a single
// chat-completion client.
type AIService struct {
	client *openai.Client
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

func (s *AIService) complete(ctx context.Context, system, prompt string, temperature float32) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("OpenAI client not initialized")
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: system,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: temperature,
		},
	)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}

// GenerateProjectCode asks the model for the next project code. The
// response must parse as the GeneratedCode JSON shape or the call fails;
// uniqueness is the caller's responsibility.
func (s *AIService) GenerateProjectCode(ctx context.Context, clientName string, lastNumber int) (*GeneratedCode, error) {
	prompt := fmt.Sprintf(`Последний используемый project code: %d. Название клиента: %s.

Сгенерируй новый project code в формате XXXX.AAA.client-slug, где:
- XXXX — порядковый номер (инкремент от %d)
- AAA — трехбуквенная аббревиатура названия клиента (UPPERCASE, кириллица или латиница)
- client-slug — slug названия клиента (lowercase с дефисами)

Верни JSON:
{
  "project_code": "XXXX.AAA.client-slug",
  "number": XXXX,
  "abbreviation": "AAA",
  "slug": "client-slug"
}`, lastNumber, clientName, lastNumber)

	content, err := s.complete(ctx,
		"Ты — система генерации project codes для консалтингового агентства Paper Planes. Отвечай ТОЛЬКО валидным JSON, без лишнего текста.",
		prompt, 0.3)
	if err != nil {
		return nil, err
	}

	var code GeneratedCode
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &code); err != nil {
		return nil, fmt.Errorf("failed to parse code generation response: %w (response: %s)", err, content)
	}

	return &code, nil
}

// ExtractContractData extracts the structured payload from contract text.
// Malformed model output surfaces as an extraction failure, never as a
// silent partial result.
func (s *AIService) ExtractContractData(ctx context.Context, contractText string) (*models.ExtractedData, error) {
	prompt := fmt.Sprintf(`Ты — эксперт по анализу консалтинговых договоров. Извлеки ТОЧНЫЕ данные из договора:

1. ФИНАНСЫ (budget): total — итоговая стоимость договора; vat_included — "с НДС" true / "без НДС" false; vat_rate — ставка НДС; currency — валюта (обычно RUB).
2. ЭТАПЫ ОПЛАТЫ (payment_stages): ВСЕ этапы с точными суммами, stage_number по порядку, description и trigger (условие оплаты).
3. СРОКИ (duration): weeks, start_date и end_date в формате YYYY-MM-DD.
4. РЕЗУЛЬТАТЫ РАБОТЫ (deliverables): КАЖДЫЙ пункт ТЗ с number, title, description и suggested_methodologies (коды БПМ/БПА).
5. МЕТОДОЛОГИИ (methodologies): упомянутые методы исследования — code, name, quantity (например, число интервью), details.
6. confidence_score: 90-100 — все данные найдены четко; 70-89 — большинство; 50-69 — часть отсутствует; <50 — много неясностей.

ТЕКСТ ДОГОВОРА:
%s

ВЕРНИ ТОЛЬКО ВАЛИДНЫЙ JSON:
{
  "budget": {"total": 1500000, "currency": "RUB", "vat_included": true, "vat_rate": 20},
  "payment_stages": [{"stage_number": 1, "amount": 500000, "description": "Аванс", "trigger": "Подписание договора"}],
  "duration": {"weeks": 12, "start_date": "2025-01-15", "end_date": "2025-04-15"},
  "deliverables": [{"number": "3.1", "title": "Анализ рынка", "description": "...", "suggested_methodologies": ["БПМ4", "БПМ2"]}],
  "methodologies": [{"code": "БПМ2", "name": "Интервью с клиентами", "quantity": 20, "details": "..."}],
  "confidence_score": 95
}`, contractText)

	content, err := s.complete(ctx,
		"Ты — эксперт по анализу консалтинговых договоров Paper Planes. Извлекаешь структурированные данные. Отвечай ТОЛЬКО валидным JSON. ОБЯЗАТЕЛЬНО извлеки ВСЕ пункты ТЗ и ВСЕ этапы оплаты из договора.",
		prompt, 0)
	if err != nil {
		return nil, err
	}

	var data models.ExtractedData
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &data); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w (response: %s)", err, content)
	}

	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("extraction payload failed shape validation: %w", err)
	}

	return &data, nil
}

// GenerateAdminscale produces the adminscale planning document as
// markdown. Output is free text; only non-emptiness is checked.
func (s *AIService) GenerateAdminscale(ctx context.Context, project *models.Project, data *models.ExtractedData) (string, error) {
	var deliverables strings.Builder
	for _, d := range data.Deliverables {
		fmt.Fprintf(&deliverables, "- %s. %s: %s\n", d.Number, d.Title, d.Description)
	}
	var methodologies strings.Builder
	for _, m := range data.Methodologies {
		fmt.Fprintf(&methodologies, "- %s (%s): %s\n", m.Code, m.Name, m.Details)
	}

	groupName := "Левая"
	if project.Group == models.GroupRight {
		groupName = "Правая"
	}

	prompt := fmt.Sprintf(`Сгенерируй админшкалу (administrative scale) для консалтингового проекта.

**ИНФОРМАЦИЯ О ПРОЕКТЕ:**
- Project Code: %s
- Название: %s
- Клиент: %s
- Группа: %s
- Даты: %s - %s
- Бюджет: %.0f %s
- Длительность: %d недель

**РЕЗУЛЬТАТЫ РАБОТЫ (ИЗ ДОГОВОРА):**
%s
**МЕТОДОЛОГИИ:**
%s
**NOTES FROM SALES:**
%s

**PROJECT SPECIFICS:**
%s

Структура документа: ВХОД (Entry: клиент, отрасль, факты, ресурсы, риски), ЦЕЛЬ (measurable goal с датой и порогом), ЗАМЫСЕЛ (3-5 sub-goals из deliverables), ПЛАН (5 этапов: Setup, Discover, Define, Develop, Deliver), ЗАДАЧИ, ЦКП (deliverables), СТАТИСТИКИ (таблица метрик).

Сгенерируй ПОЛНОСТЬЮ заполненный markdown без placeholder'ов. Верни ТОЛЬКО markdown-текст.`,
		project.ProjectCode, project.Name, project.Client, groupName,
		project.StartDate.Format("2006-01-02"), project.EndDate.Format("2006-01-02"),
		data.Budget.Total, data.Budget.Currency, data.Duration.Weeks,
		deliverables.String(), methodologies.String(),
		orDefault(project.SalesNotes, "Не указано"),
		orDefault(project.ProjectSpecifics, "Не указано"))

	content, err := s.complete(ctx,
		"Ты — эксперт по управлению проектами Paper Planes. Генерируешь детальные админшкалы. Отвечай ТОЛЬКО markdown-текстом документа.",
		prompt, 0.3)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("empty adminscale response")
	}
	return content, nil
}

// GeneratePERT produces a markdown task hierarchy importable into xMind.
func (s *AIService) GeneratePERT(ctx context.Context, project *models.Project, data *models.ExtractedData) (string, error) {
	var deliverables strings.Builder
	for _, d := range data.Deliverables {
		fmt.Fprintf(&deliverables, "- %s. %s\n", d.Number, d.Title)
	}

	prompt := fmt.Sprintf(`Создай PERT-диаграмму (структуру задач) для проекта в формате Markdown с иерархией заголовков.

**ПРОЕКТ:** %s
**КЛИЕНТ:** %s
**DELIVERABLES:**
%s
**ДЛИТЕЛЬНОСТЬ:** %d недель

Создай детальную структуру задач по 5 этапам (Setup, Discover, Define, Develop, Deliver): ## для этапов, ### для задач, #### для подзадач. Для КАЖДОГО deliverable — отдельная ветка задач в соответствующих этапах.

Первый заголовок: # %s - PERT

Верни ТОЛЬКО markdown иерархию без пояснений.`,
		project.Name, project.Client, deliverables.String(), data.Duration.Weeks, project.ProjectCode)

	content, err := s.complete(ctx,
		"Ты — эксперт по планированию проектов Paper Planes. Создаёшь детальные PERT-диаграммы. Отвечай ТОЛЬКО markdown-иерархией.",
		prompt, 0.3)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("empty PERT response")
	}
	return content, nil
}

// stripCodeFence removes a surrounding markdown code fence the model
// sometimes wraps JSON in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
