package auth

import (
	"time"

	"github.com/polkiloo/catering/internal/domain/model"
)

// Strategy turns bearer tokens into verified caller identities.
type Strategy interface {
	IssueToken(identity model.Identity) (string, error)
	ParseToken(token string) (model.Identity, error)
	Name() string
}

type Options struct {
	TTL    time.Duration
	Issuer string
}
