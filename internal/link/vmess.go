package link

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/John-Robertt/submerge-go/internal/model"
	"github.com/John-Robertt/submerge-go/internal/sub"
)

// vmessJSON is the v2rayN share format: the whole payload after vmess:// is
// base64-encoded JSON.
type vmessJSON struct {
	PS   string  `json:"ps"`
	Add  string  `json:"add"`
	Port flexInt `json:"port"`
	ID   string  `json:"id"`
	Aid  flexInt `json:"aid"`
	Scy  string  `json:"scy"`
	Net  string  `json:"net"`
	TLS  string  `json:"tls"`
	SNI  string  `json:"sni"`
	Path string  `json:"path"`
	Host string  `json:"host"`
}

// flexInt tolerates both number and string encodings; generators disagree on
// which one port/aid use.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*n = flexInt(v)
	return nil
}

func decodeVMess(line string) (model.Proxy, error) {
	_, payload, _ := strings.Cut(line, "://")

	raw, err := sub.DecodeBase64Loose(payload)
	if err != nil {
		// Some subscription servers percent-encode the padding.
		if unescaped, uerr := url.PathUnescape(payload); uerr == nil {
			raw, err = sub.DecodeBase64Loose(unescaped)
		}
	}
	if err != nil {
		return model.Proxy{}, newParseError("LINK_PARSE_ERROR", "vmess base64 解码失败", line, err)
	}
	if !utf8.Valid(raw) {
		return model.Proxy{}, newParseError("LINK_PARSE_ERROR", "vmess 解码结果不是合法 UTF-8", line, nil)
	}

	var v vmessJSON
	if err := json.Unmarshal(raw, &v); err != nil {
		return model.Proxy{}, newParseError("LINK_PARSE_ERROR", "vmess JSON 解析失败", line, err)
	}
	if v.Port < 1 || v.Port > 65535 {
		return model.Proxy{}, newParseError("LINK_PARSE_ERROR", "vmess 端口不合法", line, nil)
	}

	p := model.Proxy{
		Name:    orDefault(strings.TrimSpace(v.PS), "VMess_Node"),
		Type:    "vmess",
		Server:  v.Add,
		Port:    int(v.Port),
		UDP:     true,
		UUID:    v.ID,
		AlterID: int(v.Aid),
		Cipher:  orDefault(v.Scy, "auto"),
		Network: orDefault(v.Net, "tcp"),
		TLS:     v.TLS == "tls",
	}

	if p.TLS {
		p.ServerName = firstNonEmpty(v.SNI, v.Add)
	}

	switch p.Network {
	case "ws":
		p.WS = &model.WSOptions{
			Path: orDefault(v.Path, "/"),
			Host: firstNonEmpty(v.Host, v.Add),
		}
	case "grpc":
		// v2rayN reuses the path field for the grpc service name.
		p.GRPC = &model.GRPCOptions{ServiceName: v.Path}
	}

	return finalize(p, line)
}
