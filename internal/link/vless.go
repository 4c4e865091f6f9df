package link

import (
	"net/url"

	"github.com/John-Robertt/submerge-go/internal/model"
)

// decodeVLESS parses an authority-form vless:// URI:
//
//	vless://<uuid>@<host>:<port>?type=ws&security=tls&...#name
func decodeVLESS(line string) (model.Proxy, error) {
	rest, name, err := cutFragment(line, "VLESS_Node")
	if err != nil {
		return model.Proxy{}, err
	}

	u, err := url.Parse(rest)
	if err != nil {
		return model.Proxy{}, newParseError("LINK_PARSE_ERROR", "vless 链接不是合法 URI", line, err)
	}
	port, err := parsePort(u.Port())
	if err != nil {
		return model.Proxy{}, newParseError("LINK_PARSE_ERROR", "vless 端口不合法", line, err)
	}

	q := u.Query()
	security := q.Get("security")

	p := model.Proxy{
		Name:       name,
		Type:       "vless",
		Server:     u.Hostname(),
		Port:       port,
		UDP:        true,
		UUID:       u.User.Username(),
		Network:    orDefault(q.Get("type"), "tcp"),
		TLS:        security == "tls" || security == "reality",
		Encryption: orDefault(q.Get("encryption"), "none"),
		Flow:       q.Get("flow"),
	}

	// The "host" parameter doubles as SNI and as the ws Host header; it wins
	// over "sni", which wins over the server address.
	wsHost := q.Get("host")
	if p.TLS {
		p.ServerName = firstNonEmpty(wsHost, q.Get("sni"), p.Server)
	}
	p.Fingerprint = q.Get("fp")

	if security == "reality" {
		p.Reality = &model.RealityOptions{
			PublicKey: q.Get("pbk"),
			ShortID:   q.Get("sid"),
		}
	}

	switch p.Network {
	case "ws":
		p.WS = &model.WSOptions{
			Path: orDefault(q.Get("path"), "/"),
			Host: firstNonEmpty(wsHost, p.Server),
		}
	case "grpc":
		p.GRPC = &model.GRPCOptions{ServiceName: q.Get("serviceName")}
	}

	return finalize(p, line)
}
