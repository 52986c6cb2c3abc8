package tailor

import "fmt"

const systemPrompt = `You are an expert resume writer and career coach. You rewrite resumes so they match a specific job description, without fabricating experience, employers, or dates. You respond with a single JSON object and nothing else.`

const outputSchema = `{
  "resume": {
    "name": "string",
    "title": "string",
    "summary": "string",
    "contact": {"email": "string", "phone": "string", "location": "string"},
    "skills": ["string"],
    "experience": [{"company": "string", "role": "string", "period": "string", "bullets": ["string"]}],
    "education": [{"institution": "string", "degree": "string", "period": "string"}]
  },
  "coverLetter": "string",
  "followUpEmail": "string"
}`

// buildUserPrompt assembles the tailoring instruction for one request.
func buildUserPrompt(jobDescription, resumeText string) string {
	return fmt.Sprintf(`Tailor the resume below to the job description. Keep every claim truthful to the original resume; reorder, reword, and emphasize to match the role. Also write a short cover letter and a brief follow-up email for this application.

Respond with exactly one JSON object matching this schema, no markdown fences, no commentary:

%s

JOB DESCRIPTION:
%s

RESUME:
%s`, outputSchema, jobDescription, resumeText)
}
