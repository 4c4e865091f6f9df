package merge

import (
	"gopkg.in/yaml.v3"

	"github.com/John-Robertt/submerge-go/internal/model"
)

// proxyNode renders one proxy record as a Clash proxy mapping. Key order
// follows the conventional Clash layout per protocol; optional blocks are
// emitted only when the decoder populated them.
func proxyNode(p model.Proxy) *yaml.Node {
	m := newMapping()
	mapPut(m, "name", strNode(p.Name))
	mapPut(m, "type", strNode(p.Type))
	mapPut(m, "server", strNode(p.Server))
	mapPut(m, "port", intNode(p.Port))

	switch p.Type {
	case "vless":
		mapPut(m, "udp", boolNode(p.UDP))
		mapPut(m, "uuid", strNode(p.UUID))
		mapPut(m, "network", strNode(p.Network))
		mapPut(m, "tls", boolNode(p.TLS))
		mapPut(m, "encryption", strNode(p.Encryption))
		if p.Flow != "" {
			mapPut(m, "flow", strNode(p.Flow))
		}
		if p.ServerName != "" {
			mapPut(m, "servername", strNode(p.ServerName))
		}
		if p.Fingerprint != "" {
			mapPut(m, "client-fingerprint", strNode(p.Fingerprint))
		}
		if p.Reality != nil {
			r := newMapping()
			mapPut(r, "public-key", strNode(p.Reality.PublicKey))
			mapPut(r, "short-id", strNode(p.Reality.ShortID))
			mapPut(m, "reality-opts", r)
		}
		putTransportOpts(m, p)
	case "vmess":
		mapPut(m, "uuid", strNode(p.UUID))
		mapPut(m, "alterId", intNode(p.AlterID))
		mapPut(m, "cipher", strNode(p.Cipher))
		mapPut(m, "udp", boolNode(p.UDP))
		mapPut(m, "network", strNode(p.Network))
		mapPut(m, "tls", boolNode(p.TLS))
		if p.ServerName != "" {
			mapPut(m, "servername", strNode(p.ServerName))
		}
		putTransportOpts(m, p)
	case "trojan":
		mapPut(m, "password", strNode(p.Password))
		mapPut(m, "udp", boolNode(p.UDP))
		mapPut(m, "sni", strNode(p.SNI))
	case "ss":
		mapPut(m, "cipher", strNode(p.Cipher))
		mapPut(m, "password", strNode(p.Password))
	}
	return m
}

func putTransportOpts(m *yaml.Node, p model.Proxy) {
	if p.WS != nil {
		headers := newMapping()
		mapPut(headers, "Host", strNode(p.WS.Host))
		ws := newMapping()
		mapPut(ws, "path", strNode(p.WS.Path))
		mapPut(ws, "headers", headers)
		mapPut(m, "ws-opts", ws)
	}
	if p.GRPC != nil {
		g := newMapping()
		mapPut(g, "grpc-service-name", strNode(p.GRPC.ServiceName))
		mapPut(m, "grpc-opts", g)
	}
}
