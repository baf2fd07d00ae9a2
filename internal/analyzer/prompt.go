package analyzer

import "fmt"

// BuildPrompt embeds the resume text in the evaluation rubric and asks for a
// JSON object in the StructuredInsight shape.
func BuildPrompt(resumeText string) string {
	return fmt.Sprintf(`You are an ATS-style resume evaluator. Analyze the following resume text and return a structured JSON response.

Resume Evaluation Rubric (0-100 per category)
1. Relevance - Alignment with target role.
2. Keyword Optimization - Use of industry-specific keywords and ATS phrasing.
3. Formatting & Presentation - Layout, readability, and ATS-friendliness.
4. Achievements & Qualifications - Measurable impact, certifications, degrees.
5. Brevity & Clarity - Conciseness and clarity.

Final Weighted Score
- Relevance and Achievements count double.
- Provide an overall score (0-100).

Additional Insights
- Concise summary of the candidate (2-3 sentences).
- Key technical skills (list).
- Work experience highlights (list).
- Key projects (list).
- Academic achievements (list).

Recommendations
- 3-5 actionable suggestions to improve the resume.

Final Verdict
- Classify as Strong, Average, or Weak.

Resume Text:
%s

Return JSON strictly in this format:
{
  "scores": {
    "relevance": <int>,
    "keyword_optimization": <int>,
    "formatting_presentation": <int>,
    "achievements_qualifications": <int>,
    "brevity_clarity": <int>,
    "final_score": <int>
  },
  "summary": "<2-3 sentence candidate summary>",
  "technical_skills": ["skill1", "skill2"],
  "work_experience": ["highlight1", "highlight2"],
  "key_projects": ["project1", "project2"],
  "academic_achievements": ["achievement1", "achievement2"],
  "recommendations": ["tip1", "tip2", "tip3"],
  "verdict": "Strong | Average | Weak"
}`, resumeText)
}
