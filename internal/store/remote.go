package store

import (
	"context"
	"fmt"
	"time"
)

// Remote drivers accepted by DialRemote.
const (
	DriverNone  = "none"
	DriverMongo = "mongo"
	DriverRedis = "redis"
)

// RemoteOptions selects and configures the remote backend.
type RemoteOptions struct {
	Driver     string
	URI        string
	Database   string
	Collection string
	Namespace  string
	Timeout    time.Duration
}

// DialRemote resolves the remote backend once at startup. It returns a nil
// Backend when no remote is configured. The returned close function is
// always safe to call.
func DialRemote(ctx context.Context, opts RemoteOptions) (Backend, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch opts.Driver {
	case "", DriverNone:
		return nil, noop, nil

	case DriverMongo:
		m, disconnect, err := DialMongo(ctx, opts.URI, opts.Database, opts.Collection, opts.Timeout)
		if err != nil {
			return nil, noop, err
		}
		return m, disconnect, nil

	case DriverRedis:
		r, err := DialRedis(opts.URI, opts.Namespace, opts.Timeout)
		if err != nil {
			return nil, noop, err
		}
		return r, func(context.Context) error { return r.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("unknown remote driver %q", opts.Driver)
	}
}
