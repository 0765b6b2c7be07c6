package middleware

import (
	"franca/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// AuthMiddleware ensures the settings row exists for every update and
// keeps unauthorized users out of the button surface. Text updates pass
// through so the password flow in the text handler can run.
func AuthMiddleware(authService *service.AuthService, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}
			userID := sender.ID

			if err := authService.EnsureUserExists(userID); err != nil {
				logger.Error("Failed to ensure user exists in middleware", zap.Error(err))
				return c.Send("Da ist etwas schiefgelaufen. Versuch es später noch einmal.")
			}

			authorized, err := authService.IsAuthorized(userID)
			if err != nil {
				logger.Error("Failed to check authorization in middleware", zap.Error(err))
				return c.Send("Da ist etwas schiefgelaufen. Versuch es später noch einmal.")
			}

			// Unauthorized button taps (e.g. from an old keyboard) get the
			// password prompt instead of the handler.
			if !authorized && c.Callback() != nil {
				c.Respond()
				return c.Send("Salut! 🥖 Dieser Bot ist privat. Kennst du das Passwort, dann schick es mir:")
			}

			return next(c)
		}
	}
}
