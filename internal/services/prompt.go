package services

import (
	"fmt"
	"strings"
)

// skillSynonyms are spellings the model must treat as the same skill.
var skillSynonyms = [][2]string{
	{"React", "React.js"},
	{"AWS", "Amazon Web Services"},
	{"Kubernetes", "K8s"},
	{"JavaScript", "JS"},
	{"PostgreSQL", "Postgres"},
	{"Node.js", "Node"},
	{"GCP", "Google Cloud Platform"},
}

const screeningSystemPrompt = `You are a Senior Technical Recruiter with 20 years of experience.
You evaluate candidates strictly and objectively.
You must return ONLY valid JSON. No explanations or extra text.`

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildScreeningMessages creates the system and user messages for scoring a
// résumé against a job description.
func (pb *PromptBuilder) BuildScreeningMessages(resume, jobDescription string) []Message {
	return []Message{
		{Role: RoleSystem, Content: screeningSystemPrompt},
		{Role: RoleUser, Content: pb.BuildScreeningPrompt(resume, jobDescription)},
	}
}

func (pb *PromptBuilder) BuildScreeningPrompt(resume, jobDescription string) string {
	return fmt.Sprintf(`JOB DESCRIPTION:
%s

CANDIDATE RESUME:
%s

TASK:
Analyze the resume against the job description. Be strict but fair.
Treat these as the same skill:
%s

Return ONLY valid JSON in the following structure:
{
  "candidate_name": "string",
  "match_score": <integer 0-100>,
  "key_strengths": ["string", "string", "string"],
  "missing_critical_skills": ["string"],
  "recommendation": "Interview" or "Reject",
  "reasoning": "2 sentences max"
}`, jobDescription, resume, formatSynonyms())
}

func formatSynonyms() string {
	lines := make([]string, 0, len(skillSynonyms))
	for _, pair := range skillSynonyms {
		lines = append(lines, fmt.Sprintf("- %q matches %q", pair[0], pair[1]))
	}
	return strings.Join(lines, "\n")
}
