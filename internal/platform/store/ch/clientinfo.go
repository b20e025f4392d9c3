package ch

import (
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// BuildClientInfo names this process in system.query_log: app tag first, then role,
// go version, short commit and host
func BuildClientInfo(role, tag string) clickhouse.ClientInfo {
	host, _ := os.Hostname()
	product := func(name, version string) struct{ Name, Version string } {
		return struct{ Name, Version string }{name, strings.TrimSpace(version)}
	}
	return clickhouse.ClientInfo{Products: []struct{ Name, Version string }{
		product("ksefconnect", tag),
		product("role", role),
		product("go", runtime.Version()),
		product("commit", commit()),
		product("host", host),
	}}
}

func commit() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return "unknown"
}
