package interfaces

import (
	"context"

	usertypes "github.com/goliatone/go-users/pkg/types"
)

// ActivityRecord mirrors the go-users activity record contract.
type ActivityRecord = usertypes.ActivityRecord

// ActivitySink receives activity records for console mutations. go-users sinks
// satisfy it directly.
type ActivitySink interface {
	Log(ctx context.Context, record ActivityRecord) error
}
