package http

import (
	"context"
	stderrors "errors"
	"net/http"

	"scan-dashboard/internal/common/errors"
	"scan-dashboard/internal/common/logger"
	"scan-dashboard/internal/common/metrics"
	"scan-dashboard/internal/models"
)

// refresh exchanges the stored refresh token for a new session and returns
// the new access token. stale is the token that was rejected.
//
// Concurrent callers share one exchange. A caller arriving after another
// refresh already replaced stale reuses the stored token without a second
// exchange. On failure the store is cleared.
func (c *Client) refresh(ctx context.Context, stale string) (string, error) {
	// detached so one caller giving up does not fail the others sharing the call
	sharedCtx := context.WithoutCancel(ctx)

	v, err, shared := c.refreshes.Do("refresh", func() (interface{}, error) {
		if current := c.accessToken(sharedCtx); current != "" && current != stale {
			return current, nil
		}
		return c.exchangeRefreshToken(sharedCtx)
	})
	if shared {
		metrics.TokenRefreshTotal.WithLabelValues("shared").Inc()
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) exchangeRefreshToken(ctx context.Context) (string, error) {
	session, err := c.store.Get(ctx)
	if err != nil || session.Tokens.RefreshToken == "" {
		metrics.TokenRefreshTotal.WithLabelValues("no_refresh_token").Inc()
		return "", c.failRefresh(ctx, "no refresh token stored", err)
	}

	resp, err := c.send(ctx, RequestOptions{
		Endpoint: c.refreshPath,
		Method:   http.MethodPost,
		Body:     models.RefreshRequest{RefreshToken: session.Tokens.RefreshToken},
		Timeout:  c.timeout,
	}, "")
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("failure").Inc()
		return "", c.failRefresh(ctx, "refresh request could not be built", err)
	}
	if !resp.Success {
		metrics.TokenRefreshTotal.WithLabelValues("failure").Inc()
		return "", c.failRefresh(ctx, resp.Message, resp.Err())
	}

	var payload models.SessionPayload
	found, err := resp.DecodeField("session", &payload)
	if err != nil || !found || payload.AccessToken == "" {
		metrics.TokenRefreshTotal.WithLabelValues("failure").Inc()
		return "", c.failRefresh(ctx, "refresh response carried no session", err)
	}

	tokens := payload.Tokens(c.now())
	if tokens.RefreshToken == "" {
		// servers that do not rotate refresh tokens omit it
		tokens.RefreshToken = session.Tokens.RefreshToken
	}
	next := session.WithTokens(tokens)
	var user models.User
	if ok, _ := resp.DecodeField("user", &user); ok && user.Email != "" {
		next.User = user
	}

	if err := c.store.Set(ctx, next); err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("failure").Inc()
		return "", c.failRefresh(ctx, "refreshed session could not be stored", err)
	}

	metrics.TokenRefreshTotal.WithLabelValues("success").Inc()
	c.log.Info("Access token refreshed", map[string]interface{}{
		"access_token": logger.Redact(tokens.AccessToken),
		"expires_at":   tokens.ExpiresAt,
	})
	return tokens.AccessToken, nil
}

// failRefresh purges local credentials and builds the terminal error.
func (c *Client) failRefresh(ctx context.Context, reason string, cause error) error {
	if cause != nil && stderrors.Is(cause, errors.ErrSessionNotFound) {
		cause = nil
	}
	if err := c.store.Clear(ctx); err != nil {
		c.log.Error("Failed to clear session after refresh failure", map[string]interface{}{
			"error": err.Error(),
		})
	}
	c.log.Warn("Token refresh failed, session cleared", map[string]interface{}{
		"reason": reason,
	})
	return errors.NewAuthenticationFailedError(reason, cause)
}
