package xform

import (
	"net"
	"strconv"
)

// Stringish is satisfied by string and by named string types, so that
// OneOf can return a caller's enum type rather than a plain string.
type Stringish interface {
	~string
}

// HostPort is a network address split into its parts.
type HostPort struct {
	Host string
	Port uint16
}

// String joins the parts back, bracketing IPv6 hosts.
func (hp HostPort) String() string {
	return net.JoinHostPort(hp.Host, strconv.FormatUint(uint64(hp.Port), 10))
}

// MarshalText makes HostPort encode as "host:port" in JSON and YAML.
func (hp HostPort) MarshalText() ([]byte, error) {
	return []byte(hp.String()), nil
}
