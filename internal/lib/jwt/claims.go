// Package jwt подписывает значение сессионной cookie.
//
// В cookie хранится не сама сессия, а JWT с идентификатором серверной сессии (sid),
// подписанный секретом приложения. Подделать sid без секрета нельзя.
package jwt

import "github.com/golang-jwt/jwt/v5"

// SessionClaims описывает данные, хранящиеся в токене сессионной cookie.
type SessionClaims struct {
	SessionID            string `json:"sid"` // Идентификатор серверной сессии
	jwt.RegisteredClaims        // ExpiresAt, IssuedAt
}
