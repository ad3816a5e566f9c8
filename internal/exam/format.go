package exam

import (
	"fmt"
	"sort"
	"strings"

	"study-rag/internal/models"
)

// FormatExam renders the exam as markdown, questions only.
func FormatExam(exam *models.Exam) string {
	var out strings.Builder
	fmt.Fprintf(&out, "# %s\n\n", exam.Title)
	fmt.Fprintf(&out, "**Instructions:** %s\n\n", exam.Instructions)
	fmt.Fprintf(&out, "**Total Questions:** %d\n\n", exam.TotalQuestions)
	out.WriteString(strings.Repeat("=", 50) + "\n\n")

	num := 1
	for _, section := range exam.Sections {
		fmt.Fprintf(&out, "## %s\n\n*%s*\n\n", section.Title, section.Instructions)
		switch section.Type {
		case models.MultipleChoice:
			for _, q := range section.MultipleChoice {
				fmt.Fprintf(&out, "**Question %d:** %s\n", num, q.Question)
				for _, key := range choiceKeys(q.Choices) {
					fmt.Fprintf(&out, "  %s) %s\n", key, q.Choices[key])
				}
				out.WriteString("\n")
				num++
			}
		case models.TrueFalse:
			for _, q := range section.TrueFalse {
				fmt.Fprintf(&out, "**Question %d:** %s (True/False)\n\n", num, q.Statement)
				num++
			}
		case models.ShortAnswer:
			for _, q := range section.ShortAnswer {
				fmt.Fprintf(&out, "**Question %d:** %s\n_____________________\n\n", num, q.Question)
				num++
			}
		case models.Essay:
			for _, q := range section.Essay {
				fmt.Fprintf(&out, "**Question %d:** %s\n", num, q.Question)
				if q.Guidance != "" {
					fmt.Fprintf(&out, "*Guidance: %s*\n", q.Guidance)
				}
				out.WriteString("\n")
				num++
			}
		}
		out.WriteString(strings.Repeat("-", 30) + "\n\n")
	}
	return out.String()
}

// FormatAnswerKey renders the exam with correct answers and
// explanations.
func FormatAnswerKey(exam *models.Exam) string {
	var out strings.Builder
	fmt.Fprintf(&out, "# %s - Answer Key\n\n", exam.Title)
	fmt.Fprintf(&out, "**Total Questions:** %d\n\n", exam.TotalQuestions)
	out.WriteString(strings.Repeat("=", 50) + "\n\n")

	num := 1
	for _, section := range exam.Sections {
		fmt.Fprintf(&out, "## %s - Answers\n\n", section.Title)
		switch section.Type {
		case models.MultipleChoice:
			for _, q := range section.MultipleChoice {
				fmt.Fprintf(&out, "**Question %d:** %s\n", num, q.Question)
				for _, key := range choiceKeys(q.Choices) {
					if key == q.CorrectAnswer {
						fmt.Fprintf(&out, "  **%s) %s** <- CORRECT\n", key, q.Choices[key])
					} else {
						fmt.Fprintf(&out, "  %s) %s\n", key, q.Choices[key])
					}
				}
				if q.Explanation != "" {
					fmt.Fprintf(&out, "**Explanation:** %s\n", q.Explanation)
				}
				out.WriteString("\n")
				num++
			}
		case models.TrueFalse:
			for _, q := range section.TrueFalse {
				correct := "False"
				if q.CorrectAnswer {
					correct = "True"
				}
				fmt.Fprintf(&out, "**Question %d:** %s\n**Correct Answer:** %s\n", num, q.Statement, correct)
				if q.Explanation != "" {
					fmt.Fprintf(&out, "**Explanation:** %s\n", q.Explanation)
				}
				out.WriteString("\n")
				num++
			}
		case models.ShortAnswer:
			for _, q := range section.ShortAnswer {
				fmt.Fprintf(&out, "**Question %d:** %s\n", num, q.Question)
				if q.Answer != "" {
					fmt.Fprintf(&out, "**Sample Answer:** %s\n", q.Answer)
				}
				if q.KeyPoints != "" {
					fmt.Fprintf(&out, "**Key Points:** %s\n", q.KeyPoints)
				}
				out.WriteString("\n")
				num++
			}
		case models.Essay:
			for _, q := range section.Essay {
				fmt.Fprintf(&out, "**Question %d:** %s\n", num, q.Question)
				if q.KeyPoints != "" {
					fmt.Fprintf(&out, "**Key Points to Address:** %s\n", q.KeyPoints)
				}
				if q.Guidance != "" {
					fmt.Fprintf(&out, "**Guidance:** %s\n", q.Guidance)
				}
				out.WriteString("\n")
				num++
			}
		}
		out.WriteString(strings.Repeat("-", 30) + "\n\n")
	}
	return out.String()
}

func choiceKeys(choices map[string]string) []string {
	keys := make([]string, 0, len(choices))
	for key := range choices {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
