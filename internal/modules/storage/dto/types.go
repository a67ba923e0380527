package dto

import "fmt"

// Partition names a storage area. Session data lives only as long as one daemon run;
// sync data persists across runs.
type Partition string

const (
	Session Partition = "session"
	Sync    Partition = "sync"
)

func (p Partition) Validate() error {
	switch p {
	case Session, Sync:
		return nil
	default:
		return fmt.Errorf("unknown storage partition %q", string(p))
	}
}
