package socket

import "github.com/rs/zerolog"

// Logger is where socket reports frame-level structural errors (unknown
// opcode, magic mismatch, truncated frame) at Warn/Error. It defaults to
// discarding everything; a host application can redirect it without this
// package ever mutating a global logger itself.
var Logger = zerolog.Nop()
