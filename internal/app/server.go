package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Freeeeeet/attendance_bot/internal/model"
	"github.com/Freeeeeet/attendance_bot/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthChecker хранилища, умеющие проверять соединение (redis, postgres)
type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// StatusServer HTTP-сервер только для чтения: метрики, healthz и сводка
type StatusServer struct {
	srv    *http.Server
	logger *zap.Logger
}

// NewStatusServer собирает роутер. health может быть nil (файл и память всегда доступны)
func NewStatusServer(
	addr string,
	tracker *service.TrackerService,
	metrics *Metrics,
	health HealthChecker,
	logger *zap.Logger,
) *StatusServer {
	return &StatusServer{
		srv: &http.Server{
			Addr:         addr,
			Handler:      NewRouter(tracker, metrics, health),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// NewRouter маршруты статус-сервера
func NewRouter(tracker *service.TrackerService, metrics *Metrics, health HealthChecker) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	r.GET("/healthz", func(c *gin.Context) {
		storageHealthy := health == nil || health.Healthy(c.Request.Context())
		status := http.StatusOK
		if !storageHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "storage": storageHealthy})
	})

	r.GET("/api/dashboard", func(c *gin.Context) {
		d := tracker.Dashboard()
		c.JSON(http.StatusOK, gin.H{
			"stats":        d.Stats,
			"presentToday": d.PresentToday,
			"expiring":     viewsJSON(d.Expiring),
		})
	})

	r.GET("/api/subscriptions", func(c *gin.Context) {
		status := model.SubscriptionStatus(c.Query("status"))
		c.JSON(http.StatusOK, gin.H{"subscriptions": viewsJSON(tracker.Subscriptions(status))})
	})

	return r
}

// Start запускает сервер в горутине
func (s *StatusServer) Start() {
	go func() {
		s.logger.Info("Starting status server", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Status server error", zap.Error(err))
		}
	}()
}

// Shutdown даёт текущим запросам завершиться
func (s *StatusServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func viewsJSON(views []service.StudentView) []gin.H {
	out := make([]gin.H, 0, len(views))
	for _, v := range views {
		out = append(out, gin.H{
			"id":           v.ID,
			"fullName":     v.FullName,
			"course":       v.Course,
			"subscription": v.Subscription,
			"status":       v.Status,
			"classesLeft":  v.ClassesLeft,
			"daysLeft":     v.DaysLeft,
		})
	}
	return out
}
