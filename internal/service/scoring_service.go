package service

import (
	"math"

	"github.com/lshigami/Ocelots/config"
	"github.com/lshigami/Ocelots/internal/model"
)

// UnansweredIndex is the sentinel for a question the learner never answered.
const UnansweredIndex = -1

// ScoreResult is the outcome of scoring one submission against a course's
// answer key.
type ScoreResult struct {
	CorrectCount   int
	TotalQuestions int
	Score          int // 0-100, round-half-up percentage
	Passed         bool
	Details        []model.AnswerDetail
}

type ScoringService interface {
	Score(questions []model.Question, answers []int) (*ScoreResult, error)
	PassThreshold() int
}

type scoringService struct {
	passThreshold int
}

func NewScoringService(cfg *config.Config) ScoringService {
	return &scoringService{passThreshold: cfg.Scoring.PassThresholdPercent}
}

func (s *scoringService) PassThreshold() int {
	return s.passThreshold
}

// Score maps a submitted answer array onto a percentage score and pass/fail
// verdict. The answers slice must be exactly as long as the question list; an
// index of -1 (or anything outside 0-3) counts as unanswered and therefore
// incorrect. The percentage uses round-half-up, so 2/3 scores 67, not 66.
func (s *scoringService) Score(questions []model.Question, answers []int) (*ScoreResult, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	if len(answers) != len(questions) {
		return nil, ErrAnswerCountMismatch
	}

	result := &ScoreResult{
		TotalQuestions: len(questions),
		Details:        make([]model.AnswerDetail, len(questions)),
	}
	for i, q := range questions {
		selected := answers[i]
		if selected < 0 || selected >= model.OptionCount {
			selected = UnansweredIndex
		}
		correct := selected != UnansweredIndex && selected == q.CorrectAnswerIndex
		if correct {
			result.CorrectCount++
		}
		result.Details[i] = model.AnswerDetail{
			QuestionID:     q.ID,
			SelectedAnswer: selected,
			IsCorrect:      correct,
		}
	}

	result.Score = int(math.Round(float64(result.CorrectCount) / float64(result.TotalQuestions) * 100))
	result.Passed = result.Score >= s.passThreshold
	return result, nil
}
