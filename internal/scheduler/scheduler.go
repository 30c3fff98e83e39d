package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/crescieperdi/portal-interno/internal/repository"
	"go.uber.org/zap"
)

// Store é o acesso a dados do sweep periódico
type Store interface {
	ListExpiredVotings(ctx context.Context) ([]models.Idea, error)
	ListProfilesByRole(ctx context.Context, role string) ([]models.Profile, error)
	CreateNotification(ctx context.Context, notif models.Notification) error
	GetSetting(ctx context.Context, key, def string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Summarizer publica o resumo semanal do feed
type Summarizer interface {
	WeeklySummary(ctx context.Context) (*models.FeedPost, error)
}

// Scheduler roda as tarefas periódicas do portal: sinaliza votações vencidas
// aos curadores (sem decidir por eles) e dispara o resumo semanal do feed.
type Scheduler struct {
	store       Store
	feed        Summarizer
	logger      *zap.Logger
	interval    time.Duration
	lastSummary time.Time
}

func New(store Store, feed Summarizer, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		store:    store,
		feed:     feed,
		logger:   logger,
		interval: interval,
	}
}

// Run executa o loop de sweep até o contexto ser cancelado
func (s *Scheduler) Run(ctx context.Context) {
	s.restoreLastSummary(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("scheduler iniciado", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler encerrado")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	s.notifyExpiredVotings(ctx)

	if time.Since(s.lastSummary) >= 7*24*time.Hour {
		if _, err := s.feed.WeeklySummary(ctx); err != nil {
			s.logger.Warn("falha ao gerar resumo semanal do feed", zap.Error(err))
		} else {
			s.markSummaryDone(ctx, time.Now())
		}
	}
}

// restoreLastSummary recupera o marcador persistido do último resumo semanal,
// para que redeploys mais frequentes que a semana não zerem a contagem.
func (s *Scheduler) restoreLastSummary(ctx context.Context) {
	raw, err := s.store.GetSetting(ctx, repository.SettingFeedLastSummary, "")
	if err != nil {
		s.logger.Warn("falha ao ler marcador do resumo semanal", zap.Error(err))
	}
	if raw != "" {
		if last, parseErr := time.Parse(time.RFC3339, raw); parseErr == nil {
			s.lastSummary = last
			return
		}
	}
	s.markSummaryDone(ctx, time.Now())
}

// markSummaryDone grava o marcador do resumo; falha de persistência só degrada
// o comportamento entre redeploys
func (s *Scheduler) markSummaryDone(ctx context.Context, at time.Time) {
	s.lastSummary = at
	if err := s.store.SetSetting(ctx, repository.SettingFeedLastSummary, at.Format(time.RFC3339)); err != nil {
		s.logger.Warn("falha ao persistir marcador do resumo semanal", zap.Error(err))
	}
}

// notifyExpiredVotings avisa os curadores sobre votações vencidas.
// A decisão aprovada/recusada continua sendo do curador.
func (s *Scheduler) notifyExpiredVotings(ctx context.Context) {
	ideas, err := s.store.ListExpiredVotings(ctx)
	if err != nil {
		s.logger.Error("falha ao listar votações vencidas", zap.Error(err))
		return
	}
	if len(ideas) == 0 {
		return
	}

	curators, err := s.store.ListProfilesByRole(ctx, models.RoleAdmin)
	if err != nil {
		s.logger.Error("falha ao listar curadores", zap.Error(err))
		return
	}

	for _, idea := range ideas {
		for _, curator := range curators {
			notif := models.Notification{
				UserID:      curator.ID,
				ReferenceID: &idea.ID,
				Type:        models.NotificationVotacaoEncerrada,
				Message: fmt.Sprintf("A votação da ideia %s terminou (%d votos). Registre a curadoria.",
					idea.Code, idea.TotalVotes),
			}
			if err := s.store.CreateNotification(ctx, notif); err != nil {
				s.logger.Warn("falha ao notificar curador",
					zap.Int64("curator_id", curator.ID), zap.Error(err))
			}
		}
		s.logger.Info("votação vencida sinalizada",
			zap.Int64("idea_id", idea.ID),
			zap.Int("total_votes", idea.TotalVotes))
	}
}
