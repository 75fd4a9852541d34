package openai

import (
	"fmt"
	"strings"

	"github.com/careclear/prescreen-dashboard/backend/internal/domain/entities"
)

const questionSummarySystemPrompt = `You are an assistant for an aesthetics clinic reviewing pre-screening questionnaire results. You are given one question and the counts of each answer clients gave. Write 2-3 short sentences for clinic staff: name the dominant answer, call out any answers that need clinical attention (allergies, medications, pregnancy, medical conditions), and note anything unusual about the spread. Plain prose only, no markdown, no lists, no medical advice to clients.`

func buildQuestionSummaryUserPrompt(insight *entities.QuestionInsight) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Question: %s\n", insight.Question)
	fmt.Fprintf(&sb, "Total answered: %d\n", insight.Answered)
	sb.WriteString("Answers:\n")
	for _, bucket := range insight.Distribution {
		fmt.Fprintf(&sb, "- %q: %d\n", bucket.Answer, bucket.Count)
	}
	return sb.String()
}
