package lifecycle

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/taxportal/filing-engine/internal/domain"
)

// AckIssuer generates acknowledgment numbers for filings that reach FILED
// without one supplied by the filing portal.
type AckIssuer interface {
	Issue(kind domain.Kind) string
}

// SnowflakeIssuer issues time-ordered acknowledgment numbers such as
// "ITR-1790512345678901234".
type SnowflakeIssuer struct {
	node *snowflake.Node
}

// NewSnowflakeIssuer creates an issuer for the given node id (0-1023).
func NewSnowflakeIssuer(nodeID int64) (*SnowflakeIssuer, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("creating snowflake node %d: %w", nodeID, err)
	}
	return &SnowflakeIssuer{node: node}, nil
}

// Issue returns a new acknowledgment number for kind.
func (s *SnowflakeIssuer) Issue(kind domain.Kind) string {
	return fmt.Sprintf("%s-%s", kind, s.node.Generate().String())
}
