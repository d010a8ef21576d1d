// Package jwt implementa a geração e a validação dos tokens JWT usados
// pela plataforma, com claims de username, papel e UID do usuário.
package jwt

import (
	"time"
)

// Maker descreve a interface de emissão e validação de tokens.
type Maker interface {
	// GenerateToken emite um token para o username com o papel e o UID informados.
	GenerateToken(username, role, userUID string) (string, error)
	// ParseToken valida o token e devolve as claims extraídas.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl implementa Maker com assinatura HS256 por chave secreta.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker cria um MakerImpl com a chave secreta e o TTL informados.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
