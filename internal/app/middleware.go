package app

import (
	"github.com/maulerrr/jinaq-backend/internal/logger"
	"github.com/maulerrr/jinaq-backend/internal/middleware"
)

type Middleware struct {
	Auth *middleware.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, s Services) Middleware {
	return Middleware{
		Auth: middleware.NewAuthMiddleware(log, s.Auth),
	}
}
