package ai

import (
	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog"

	"scam-honeypot/internal/domain/ports/adapter"
)

var _ adapter.TokenCounter = (*TiktokenCounter)(nil)

// TiktokenCounter counts prompt tokens with a BPE encoding. When the encoding
// cannot be loaded it falls back to a four-bytes-per-token estimate.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

func NewTokenCounter(encoding string, logger *zerolog.Logger) *TiktokenCounter {
	if encoding == "" {
		encoding = "cl100k_base"
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		if logger != nil {
			logger.Warn().Err(err).Str("encoding", encoding).Msg("tiktoken encoding unavailable, using estimate")
		}
		return &TiktokenCounter{}
	}
	return &TiktokenCounter{enc: enc}
}

func (c *TiktokenCounter) Count(text string) int {
	if c.enc == nil {
		return (len(text) + 3) / 4
	}
	return len(c.enc.Encode(text, nil, nil))
}
