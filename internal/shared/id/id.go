// Package id provides prefixed ULID generation for log correlation.
//
// Conversation identifiers come from the backend; the IDs minted here
// are purely client-local, tagging turns, connections and API requests
// so that log lines for one operation can be grepped together.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// TurnID identifies one user-message-to-completion cycle.
type TurnID string

// ConnID identifies one WebSocket connection attempt.
type ConnID string

// RequestID identifies one read-API request.
type RequestID string

const (
	turnPrefix = "turn"
	connPrefix = "conn"
	reqPrefix  = "req"
)

// Generator generates ULIDs with optional prefixes.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator with cryptographically secure entropy.
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewTurnID generates a new turn ID.
func NewTurnID() TurnID {
	return TurnID(Default().GenerateWithPrefix(turnPrefix))
}

// NewConnID generates a new connection ID.
func NewConnID() ConnID {
	return ConnID(Default().GenerateWithPrefix(connPrefix))
}

// NewRequestID generates a new request ID.
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(reqPrefix))
}

func (id TurnID) String() string    { return string(id) }
func (id ConnID) String() string    { return string(id) }
func (id RequestID) String() string { return string(id) }
