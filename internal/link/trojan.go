package link

import (
	"net/url"

	"github.com/John-Robertt/submerge-go/internal/model"
)

// decodeTrojan parses trojan://<password>@<host>:<port>?sni=...#name.
func decodeTrojan(line string) (model.Proxy, error) {
	rest, name, err := cutFragment(line, "Trojan_Node")
	if err != nil {
		return model.Proxy{}, err
	}

	u, err := url.Parse(rest)
	if err != nil {
		return model.Proxy{}, newParseError("LINK_PARSE_ERROR", "trojan 链接不是合法 URI", line, err)
	}
	port, err := parsePort(u.Port())
	if err != nil {
		return model.Proxy{}, newParseError("LINK_PARSE_ERROR", "trojan 端口不合法", line, err)
	}

	p := model.Proxy{
		Name:     name,
		Type:     "trojan",
		Server:   u.Hostname(),
		Port:     port,
		UDP:      true,
		Password: u.User.Username(),
		SNI:      orDefault(u.Query().Get("sni"), u.Hostname()),
	}
	return finalize(p, line)
}
