// Package oracle calls the external consistency service: an LLM asked to
// comment on the semantic coherence of a job description. Its output is
// advisory text only; it never blocks workflow transitions, and any failure
// degrades to a fixed fallback string instead of an error.
package oracle

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"jobline/internal/domain"
	"jobline/internal/mission"
)

// Fallback advisories. Callers treat these like any other oracle answer.
const (
	FallbackNoCredential = "No se pudo conectar con el Asistente de Plan Organizacional para la validación avanzada (Falta API Key)."
	FallbackUnavailable  = "Error al conectar con el servicio de validación inteligente."
	FallbackEmpty        = "No se pudo generar el análisis."
)

// Client produces one advisory for a prompt.
type Client interface {
	Advise(ctx context.Context, prompt string) (string, error)
}

// OpenAIClient is the production Client.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient reads OPENAI_API_KEY from the environment. A missing key
// returns an error; the checker maps it to the credential fallback. An empty
// model falls back to OPENAI_MODEL, then to gpt-4o-mini.
func NewOpenAIClient(model string) (*OpenAIClient, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}
	if model == "" {
		model = os.Getenv("OPENAI_MODEL")
	}
	if model == "" {
		model = "gpt-4o-mini"
		slog.Warn("no oracle model configured, defaulting to gpt-4o-mini")
	}
	return &OpenAIClient{client: openai.NewClient(apiKey), model: model}, nil
}

// Advise runs a single chat completion.
func (o *OpenAIClient) Advise(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		slog.Error("consistency oracle call failed", "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("oracle returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// BuildPrompt serializes the document snapshot for the oracle: title, level,
// mission text, dimensions, responsibilities as "action object para result"
// lines, and the required profile.
func BuildPrompt(job *domain.JobDescription) string {
	var lines []string
	for _, r := range job.Responsibilities {
		lines = append(lines, fmt.Sprintf("- %s %s para %s", r.Action1, r.Object, r.Result))
	}
	missionText := mission.Preview(job.MissionGuide, job.MissionResult, job.MissionAction, job.MissionObject)
	experience := "No"
	if job.Profile.ExperienceRequired {
		experience = "Sí"
	}
	return fmt.Sprintf(`Actúa como un Consultor Senior experto en Metodología de Plan Organizacional y Diseño Organizacional.
Analiza la siguiente descripción de puesto y detecta incoherencias estructurales o de nivel.

INFORMACIÓN DEL PUESTO:
Título: %s
Nivel Jerárquico Declarado: %s
Misión: %s

DIMENSIONES:
- Personal: %s (Directos: %s)
- Presupuesto Op: %s
- Alcance: %s

RESPONSABILIDADES:
%s

PERFIL REQUERIDO:
- Escolaridad: %s
- Experiencia: %s

REGLAS DE VALIDACIÓN:
1. COHERENCIA DE NIVEL: Si es Operacional, no debe tener verbos como 'Dirigir' o 'Planificar Estrategia', ni presupuestos masivos. Si es Estratégico, la misión debe ser de impacto amplio.
2. ESTRUCTURA DE RESPONSABILIDADES: Verifica que sigan la estructura QUÉ + CÓMO + PARA QUÉ.
3. ALINEACIÓN PERFIL-PUESTO: Si el puesto es de alto nivel, la escolaridad y experiencia deben ser acordes.

Responde brevemente (máximo 100 palabras) con un tono profesional y constructivo.
Si todo parece correcto, indica: "La descripción es consistente y sólida."`,
		job.Title, job.Level, missionText,
		job.TotalPersonnel, job.SubordinatesDirect, job.BudgetOperating, job.ManagementScope,
		strings.Join(lines, "\n"),
		job.Profile.Education, experience)
}
