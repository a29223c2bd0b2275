package domain

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Validate rejects a join with any missing required field before the
// registry is touched. No system message is generated for a bad join.
func (p *JoinPayload) Validate() error {
	return validate.Struct(p)
}

func (p *ChatMessagePayload) Validate() error {
	return validate.Struct(p)
}

func (p *PrivateMessagePayload) Validate() error {
	return validate.Struct(p)
}
