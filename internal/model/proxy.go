package model

// Proxy is the normalized node representation produced by decoding one link.
// Option blocks are pointers so that "absent" stays distinguishable from
// "present but empty" (e.g. reality short-id may be an explicit empty string).
type Proxy struct {
	Name   string `validate:"required"`
	Type   string `validate:"required,oneof=vless vmess trojan ss"`
	Server string `validate:"required"`
	Port   int    `validate:"min=1,max=65535"`

	// UDP relay is enabled for vless/vmess/trojan nodes; ss is left to the
	// client default.
	UDP bool

	// vless / vmess
	UUID        string
	AlterID     int
	Cipher      string
	Network     string
	TLS         bool
	Encryption  string
	Flow        string
	ServerName  string
	Fingerprint string

	// trojan
	Password string
	SNI      string

	WS      *WSOptions
	GRPC    *GRPCOptions
	Reality *RealityOptions
}

// WSOptions mirrors Clash ws-opts. Host goes into the Host header.
type WSOptions struct {
	Path string
	Host string
}

type GRPCOptions struct {
	ServiceName string
}

type RealityOptions struct {
	PublicKey string
	ShortID   string
}
