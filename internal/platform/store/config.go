package store

import "time"

// Config selects and configures the backends Open connects
type Config struct {
	AppName string // postgres application_name and clickhouse client tag

	PG PGConfig
	CH CHConfig
}

type PGConfig struct {
	Enabled  bool
	URL      string
	MaxConns int32

	LogSQL      bool // log every statement, not only slow ones
	SlowQueryMs int  // statements at or over this log at warn; 0 logs none as slow

	ConnectRetries int           // boot pings, default 20
	PingTimeout    time.Duration // per boot ping, default 3s
}

type CHConfig struct {
	Enabled bool
	URL     string
	Role    string // reported to the server, e.g. "api"
}
