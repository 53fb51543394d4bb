package auth

import (
	"github.com/fieldops/fieldops-pos/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	OperatorID string
	TerminalID string
	Role       enums.OperatorRole
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to POS terminals.
type AccessTokenClaims struct {
	OperatorID string             `json:"operator_id"`
	TerminalID string             `json:"terminal_id"`
	Role       enums.OperatorRole `json:"role"`
	jwt.RegisteredClaims
}
