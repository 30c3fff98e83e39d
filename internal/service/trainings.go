package service

import (
	"context"
	"strings"

	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/crescieperdi/portal-interno/internal/repository"
	"go.uber.org/zap"
)

// Feedback substituto quando nem a IA nem o texto pré-autorado estão disponíveis
const defaultQuizFeedback = "Quiz concluído. Revise o material do treinamento para reforçar os pontos em que errou."

// TrainingStore é o acesso a dados de treinamentos e quizzes
type TrainingStore interface {
	CreateTraining(ctx context.Context, training models.Training) (*models.Training, error)
	GetTraining(ctx context.Context, id int64) (*models.Training, error)
	ListTrainings(ctx context.Context, categoryID int64) ([]models.Training, error)
	ListTrainingCategories(ctx context.Context) ([]models.TrainingCategory, error)
	CreateQuizAttempt(ctx context.Context, attempt models.QuizAttempt) (*models.QuizAttempt, error)
	ListQuizAttempts(ctx context.Context, trainingID, userID int64) ([]models.QuizAttempt, error)
}

// QuizAI são as funções de IA dos quizzes
type QuizAI interface {
	GenerateQuizQuestions(ctx context.Context, topic string, count int) ([]models.QuizQuestion, error)
	QuizFeedback(ctx context.Context, topic string, score, total int, wrongQuestions []string) (string, error)
}

// TrainingService entrega treinamentos e corrige tentativas de quiz
type TrainingService struct {
	store  TrainingStore
	ai     QuizAI
	logger *zap.Logger
}

func NewTrainingService(store TrainingStore, aiClient QuizAI, logger *zap.Logger) *TrainingService {
	return &TrainingService{store: store, ai: aiClient, logger: logger}
}

// Create registra um treinamento; sem questões informadas, tenta gerá-las por IA
func (s *TrainingService) Create(ctx context.Context, training models.Training, generateQuiz bool, quizSize int) (*models.Training, error) {
	if training.Title == "" {
		return nil, repository.ErrInvalidInput
	}

	if generateQuiz && len(training.Questions) == 0 {
		questions, err := s.ai.GenerateQuizQuestions(ctx, training.Title, quizSize)
		if err != nil {
			// Geração é conveniência; o treinamento é criado sem quiz
			s.logger.Warn("geração de quiz indisponível; treinamento criado sem questões",
				zap.String("title", training.Title))
		} else {
			training.Questions = questions
		}
	}

	return s.store.CreateTraining(ctx, training)
}

// Get busca um treinamento pelo id
func (s *TrainingService) Get(ctx context.Context, id int64) (*models.Training, error) {
	return s.store.GetTraining(ctx, id)
}

// List lista treinamentos, opcionalmente por categoria
func (s *TrainingService) List(ctx context.Context, categoryID int64) ([]models.Training, error) {
	return s.store.ListTrainings(ctx, categoryID)
}

// Categories lista as categorias de treinamento
func (s *TrainingService) Categories(ctx context.Context) ([]models.TrainingCategory, error) {
	return s.store.ListTrainingCategories(ctx)
}

// SubmitAttempt corrige a tentativa localmente e pede feedback à IA;
// em falha, cai para o feedback estático pré-autorado das questões erradas.
func (s *TrainingService) SubmitAttempt(ctx context.Context, trainingID, userID int64, answers []int) (*models.QuizAttempt, error) {
	training, err := s.store.GetTraining(ctx, trainingID)
	if err != nil {
		return nil, err
	}
	if len(training.Questions) == 0 || len(answers) != len(training.Questions) {
		return nil, repository.ErrInvalidInput
	}

	score := 0
	var wrongQuestions []string
	var staticFeedback []string
	for i, question := range training.Questions {
		if answers[i] == question.CorrectOption {
			score++
			continue
		}
		wrongQuestions = append(wrongQuestions, question.Text)
		if question.StaticFeedback != "" {
			staticFeedback = append(staticFeedback, question.StaticFeedback)
		}
	}

	feedback, err := s.ai.QuizFeedback(ctx, training.Title, score, len(training.Questions), wrongQuestions)
	if err != nil {
		if len(staticFeedback) > 0 {
			feedback = strings.Join(staticFeedback, " ")
		} else {
			feedback = defaultQuizFeedback
		}
	}

	return s.store.CreateQuizAttempt(ctx, models.QuizAttempt{
		TrainingID: trainingID,
		UserID:     userID,
		Answers:    answers,
		Score:      score,
		Feedback:   feedback,
	})
}

// Attempts lista as tentativas de um usuário em um treinamento
func (s *TrainingService) Attempts(ctx context.Context, trainingID, userID int64) ([]models.QuizAttempt, error) {
	return s.store.ListQuizAttempts(ctx, trainingID, userID)
}
