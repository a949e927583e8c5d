package app

import "roit-learning-service/internal/domain"

// ScoreAnswers compares each answer with the question's correct label.
// Unanswered and wrong questions contribute zero; there is no negative marking.
func ScoreAnswers(questions []domain.Question, answers map[string]domain.OptionLabel, timeTaken int) domain.ResultSummary {
	correct := 0
	for _, q := range questions {
		if selected, ok := answers[q.ID]; ok && selected == q.CorrectAnswer {
			correct++
		}
	}

	score := correct * domain.MarksPerQuestion
	totalMarks := len(questions) * domain.MarksPerQuestion
	percentage := 0.0
	if totalMarks > 0 {
		percentage = float64(score*100) / float64(totalMarks)
	}

	return domain.ResultSummary{
		Score:          score,
		TotalMarks:     totalMarks,
		CorrectAnswers: correct,
		TotalQuestions: len(questions),
		Percentage:     percentage,
		TimeTaken:      timeTaken,
	}
}
