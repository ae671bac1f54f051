package parser

import (
	"github.com/vrules/valet/internal/diagnostics"
	"github.com/vrules/valet/internal/token"
)

func parseErrorTok(tok token.Token, format string, args ...interface{}) error {
	return diagnostics.ParseError(tok, format, args...)
}
