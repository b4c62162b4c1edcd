package v1

import (
	"time"

	"talent-match/internal/config"
	"talent-match/internal/database"
	"talent-match/internal/delivery/http/handler"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/oracle"
	"talent-match/internal/pkg/jwt"
	"talent-match/internal/repository"
	"talent-match/internal/usecase"
	"talent-match/internal/ws"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// Deps carries the shared infrastructure the v1 routes are wired against.
type Deps struct {
	Config config.Config
	DB     database.DB
	Cache  usecase.MatchCache
	Hub    *ws.Hub
	Scorer oracle.Scorer
	Log    *zap.Logger
}

func Register(r fiber.Router, d Deps) {
	if r == nil {
		return
	}

	jwtSvc := jwt.NewHMACService(d.Config.JWT.AccessSecret, time.Hour)
	authMw := middleware.NewAuthMiddleware(jwtSvc)

	candRepo := repository.NewPostgresCandidateRepository(d.DB)
	jdRepo := repository.NewPostgresJobDescriptionRepository(d.DB)
	resultRepo := repository.NewPostgresMatchResultRepository(d.DB)
	analyticsRepo := repository.NewPostgresAnalyticsRepository(d.DB)

	notifier := ws.NewNotifier(d.Hub)

	candUC := usecase.NewCandidateUsecase(candRepo, d.Cache, d.Log)
	jdUC := usecase.NewJobDescriptionUsecase(jdRepo, d.Cache, d.Log)
	analyticsUC := usecase.NewAnalyticsUsecase(analyticsRepo, d.Log)
	matchUC := usecase.NewMatchingUsecase(
		candRepo,
		jdRepo,
		resultRepo,
		d.Scorer,
		d.Cache,
		notifier,
		d.Log,
		d.Config.Oracle.MaxInFlight,
		d.Config.Redis.TTL,
	)

	protected := r.Group("", authMw.Middleware())

	handler.NewCandidateHandler(candUC).RegisterRoutes(protected)
	handler.NewJobDescriptionHandler(jdUC).RegisterRoutes(protected)
	handler.NewMatchHandler(matchUC).RegisterRoutes(protected)
	handler.NewAnalyticsHandler(analyticsUC).RegisterRoutes(protected)
}
