package services

import (
	"math"
	"strings"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/models"
)

// Grade is the outcome of grading one submission
type Grade struct {
	TotalScore     int
	MaxScore       int
	Percentage     float64
	Passed         bool
	PendingReviews int
	Outcomes       []models.QuestionOutcome
	Answers        []*models.AttemptAnswer // rows to persist, one per submitted answer
}

// questionGrader scores one answered question. It returns whether the answer is correct
// and whether it waits for manual review.
type questionGrader func(question *models.Question, answer *models.AnswerInput) (correct bool, pendingReview bool)

var questionGraders = map[models.QuestionType]questionGrader{
	models.QuestionSingleChoice: gradeSingleChoice,
	models.QuestionFreeText:     gradeFreeText,
}

// Any option flagged correct counts
func gradeSingleChoice(question *models.Question, answer *models.AnswerInput) (bool, bool) {
	if answer.SelectedOptionID == nil {
		return false, false
	}
	option, ok := question.Option(*answer.SelectedOptionID)
	return ok && option.IsCorrect, false
}

// Free text is never auto-scored
func gradeFreeText(_ *models.Question, answer *models.AnswerInput) (bool, bool) {
	return false, answer.TextAnswer != nil && strings.TrimSpace(*answer.TextAnswer) != ""
}

// ValidateAnswerReferences rejects answers that do not fit the attempt's question set
func ValidateAnswerReferences(snapshot []models.QuestionRef, quiz *models.Quiz, answers []models.AnswerInput) error {
	inSnapshot := make(map[uint]bool, len(snapshot))
	for _, ref := range snapshot {
		inSnapshot[ref.QuestionID] = true
	}

	seen := make(map[uint]bool, len(answers))
	for i := range answers {
		answer := &answers[i]

		if !inSnapshot[answer.QuestionID] {
			return NewAnswerReferenceError(answer.QuestionID, nil, "question is not part of this attempt")
		}
		if seen[answer.QuestionID] {
			return NewAnswerReferenceError(answer.QuestionID, nil, "question answered more than once")
		}
		seen[answer.QuestionID] = true

		question, ok := quiz.Question(answer.QuestionID)
		if !ok {
			return NewAnswerReferenceError(answer.QuestionID, nil, "question no longer exists")
		}

		switch question.Type {
		case models.QuestionSingleChoice:
			if answer.TextAnswer != nil {
				return NewAnswerReferenceError(answer.QuestionID, nil, "text answer given for a single-choice question")
			}
			if answer.SelectedOptionID != nil {
				if _, ok := question.Option(*answer.SelectedOptionID); !ok {
					return NewAnswerReferenceError(answer.QuestionID, answer.SelectedOptionID, "option does not belong to the question")
				}
			}
		case models.QuestionFreeText:
			if answer.SelectedOptionID != nil {
				return NewAnswerReferenceError(answer.QuestionID, answer.SelectedOptionID, "option given for a free-text question")
			}
		}
	}
	return nil
}

// GradeAttempt grades every question of the snapshot against the submitted answers.
// Unanswered questions score 0 and there is no partial credit.
func GradeAttempt(snapshot []models.QuestionRef, quiz *models.Quiz, answers []models.AnswerInput) (*Grade, error) {
	if err := ValidateAnswerReferences(snapshot, quiz, answers); err != nil {
		return nil, err
	}

	byQuestion := make(map[uint]*models.AnswerInput, len(answers))
	for i := range answers {
		byQuestion[answers[i].QuestionID] = &answers[i]
	}

	grade := &Grade{
		Outcomes: make([]models.QuestionOutcome, 0, len(snapshot)),
		Answers:  make([]*models.AttemptAnswer, 0, len(answers)),
	}

	for _, ref := range snapshot {
		grade.MaxScore += ref.Points
		outcome := models.QuestionOutcome{QuestionID: ref.QuestionID, Points: ref.Points}

		answer, answered := byQuestion[ref.QuestionID]
		question, exists := quiz.Question(ref.QuestionID)
		if !answered || !exists {
			grade.Outcomes = append(grade.Outcomes, outcome)
			continue
		}

		var correct, pending bool
		if grader, ok := questionGraders[question.Type]; ok {
			correct, pending = grader(question, answer)
		}

		outcome.Answered = true
		outcome.SelectedOptionID = answer.SelectedOptionID
		outcome.TextAnswer = answer.TextAnswer
		outcome.IsCorrect = correct
		outcome.PendingReview = pending
		if correct {
			outcome.PointsAwarded = ref.Points
		}

		grade.TotalScore += outcome.PointsAwarded
		if pending {
			grade.PendingReviews++
		}
		grade.Outcomes = append(grade.Outcomes, outcome)
		grade.Answers = append(grade.Answers, &models.AttemptAnswer{
			QuestionID:       ref.QuestionID,
			SelectedOptionID: answer.SelectedOptionID,
			TextAnswer:       answer.TextAnswer,
			IsCorrect:        correct,
			PointsAwarded:    outcome.PointsAwarded,
			PendingReview:    pending,
		})
	}

	grade.Percentage = Percentage(grade.TotalScore, grade.MaxScore)
	grade.Passed = grade.Percentage >= quiz.PassingPercentage
	return grade, nil
}

// Percentage returns score/max*100 rounded to 2 decimals, 0 when max is 0
func Percentage(score, maxScore int) float64 {
	if maxScore <= 0 {
		return 0
	}
	return math.Round(float64(score)/float64(maxScore)*100*100) / 100
}

// OutcomesFromAnswers rebuilds the per-question breakdown of a stored attempt
func OutcomesFromAnswers(snapshot []models.QuestionRef, answers []*models.AttemptAnswer) []models.QuestionOutcome {
	byQuestion := make(map[uint]*models.AttemptAnswer, len(answers))
	for _, answer := range answers {
		byQuestion[answer.QuestionID] = answer
	}

	outcomes := make([]models.QuestionOutcome, 0, len(snapshot))
	for _, ref := range snapshot {
		outcome := models.QuestionOutcome{QuestionID: ref.QuestionID, Points: ref.Points}
		if answer, ok := byQuestion[ref.QuestionID]; ok {
			outcome.Answered = true
			outcome.SelectedOptionID = answer.SelectedOptionID
			outcome.TextAnswer = answer.TextAnswer
			outcome.IsCorrect = answer.IsCorrect
			outcome.PointsAwarded = answer.PointsAwarded
			outcome.PendingReview = answer.PendingReview
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func snapshotOf(quiz *models.Quiz) []models.QuestionRef {
	refs := make([]models.QuestionRef, len(quiz.Questions))
	for i, q := range quiz.Questions {
		refs[i] = models.QuestionRef{QuestionID: q.ID, Points: q.Points}
	}
	return refs
}
