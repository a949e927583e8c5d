package cli

import (
	"time"

	"roit-learning-service/internal/domain"
)

// sampleQuestions backs the in-memory question bank when no database is configured.
func sampleQuestions() []domain.Question {
	now := time.Now()
	q := func(id, subject, chapter, prompt string, options [4]string, correct domain.OptionLabel, explanation string) domain.Question {
		return domain.Question{
			ID:            id,
			Category:      domain.CategoryMCQTests,
			Class:         10,
			Subject:       subject,
			Chapter:       chapter,
			Prompt:        prompt,
			Options:       options,
			CorrectAnswer: correct,
			Explanation:   explanation,
			Difficulty:    domain.DifficultyEasy,
			CreatedAt:     now,
		}
	}
	return []domain.Question{
		q("sample-1", "Physics", "Electricity", "What is the SI unit of electric current?",
			[4]string{"Volt", "Ampere", "Ohm", "Watt"}, domain.OptionB, "Current is measured in ampere."),
		q("sample-2", "Physics", "Light", "Which mirror is used as a rear-view mirror in vehicles?",
			[4]string{"Plane", "Concave", "Convex", "Cylindrical"}, domain.OptionC, "A convex mirror gives a wider field of view."),
		q("sample-3", "Chemistry", "Acids, Bases and Salts", "What is the pH of pure water at 25°C?",
			[4]string{"0", "7", "14", "1"}, domain.OptionB, "Pure water is neutral."),
		q("sample-4", "Chemistry", "Metals and Non-metals", "Which metal is liquid at room temperature?",
			[4]string{"Mercury", "Sodium", "Iron", "Zinc"}, domain.OptionA, ""),
		q("sample-5", "Mathematics", "Quadratic Equations", "The roots of x² - 5x + 6 = 0 are",
			[4]string{"1 and 6", "-2 and -3", "2 and 3", "5 and 6"}, domain.OptionC, "(x-2)(x-3) = 0"),
		q("sample-6", "Mathematics", "Trigonometry", "sin²θ + cos²θ equals",
			[4]string{"0", "2", "tan θ", "1"}, domain.OptionD, "Pythagorean identity."),
	}
}

func sampleContent() []domain.Content {
	now := time.Now()
	return []domain.Content{
		{
			ID:          "sample-notes-1",
			Category:    domain.CategoryNotes,
			Class:       10,
			Subject:     "Physics",
			Chapter:     "Electricity",
			Title:       "Electricity: chapter notes",
			Description: "Ohm's law, resistance and power.",
			FileURL:     "https://example.com/files/electricity-notes.pdf",
			FileType:    "pdf",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:        "sample-formulas-1",
			Category:  domain.CategoryFormulas,
			Class:     10,
			Subject:   "Mathematics",
			Chapter:   "Trigonometry",
			Title:     "Trigonometry formula sheet",
			FileURL:   "https://example.com/files/trig-formulas.pdf",
			FileType:  "pdf",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}
