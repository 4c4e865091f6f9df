package link

import (
	"strings"
	"unicode/utf8"

	"github.com/John-Robertt/submerge-go/internal/model"
	"github.com/John-Robertt/submerge-go/internal/sub"
)

// decodeSS parses a SIP002 ss:// URI. Two layouts exist in the wild:
//
//	(a) ss://<b64(method:password)>@<host>:<port>#name
//	(b) ss://<b64(method:password@host:port)>#name
//
// Layout is detected by the presence of "@" in the undecoded remainder; the
// base64 alphabet never contains "@", so a literal one always belongs to
// layout (a).
func decodeSS(line string) (model.Proxy, error) {
	rest, name, err := cutFragment(line, "SS_Node")
	if err != nil {
		return model.Proxy{}, err
	}
	_, rest, _ = strings.Cut(rest, "://")
	if rest == "" {
		return model.Proxy{}, newParseError("LINK_PARSE_ERROR", "ss:// 后缺少内容", line, nil)
	}

	var method, password, hostPort string
	if userB64, hostPart, ok := strings.Cut(rest, "@"); ok {
		if userB64 == "" || hostPart == "" {
			return model.Proxy{}, newParseError("LINK_PARSE_ERROR", "ss 链接格式不合法", line, nil)
		}
		method, password, err = decodeMethodPassword(userB64)
		if err != nil {
			return model.Proxy{}, newParseError("LINK_PARSE_ERROR", "ss userinfo base64 解码失败", line, err)
		}
		hostPort = trimHostPortTail(hostPart)
	} else {
		decoded, err := decodeUTF8Base64(rest)
		if err != nil {
			return model.Proxy{}, newParseError("LINK_PARSE_ERROR", "ss base64 解码失败", line, err)
		}
		// Passwords may contain "@"; the host:port part never does.
		at := strings.LastIndex(decoded, "@")
		if at < 0 {
			return model.Proxy{}, newParseError("LINK_PARSE_ERROR", "ss 解码结果缺少 @ 分隔符", line, nil)
		}
		method, password, err = splitMethodPassword(decoded[:at])
		if err != nil {
			return model.Proxy{}, newParseError("LINK_PARSE_ERROR", "ss 解码结果缺少 cipher:password", line, err)
		}
		hostPort = trimHostPortTail(decoded[at+1:])
	}

	server, port, err := parseHostPort(hostPort)
	if err != nil {
		return model.Proxy{}, newParseError("LINK_PARSE_ERROR", "ss 服务器地址或端口不合法", line, err)
	}

	p := model.Proxy{
		Name:     name,
		Type:     "ss",
		Server:   server,
		Port:     port,
		Cipher:   method,
		Password: password,
	}
	return finalize(p, line)
}

// trimHostPortTail drops an optional path/query after host:port
// (e.g. "host:8388/?plugin=..." as emitted by some SIP002 generators).
func trimHostPortTail(s string) string {
	if i := strings.IndexAny(s, "/?"); i >= 0 {
		return s[:i]
	}
	return s
}

func decodeMethodPassword(userB64 string) (string, string, error) {
	decoded, err := decodeUTF8Base64(userB64)
	if err != nil {
		return "", "", err
	}
	return splitMethodPassword(decoded)
}

func splitMethodPassword(cred string) (string, string, error) {
	method, password, ok := strings.Cut(cred, ":")
	if !ok || method == "" || password == "" {
		return "", "", errMissingCred
	}
	if strings.ContainsAny(method, "\r\n\x00") || strings.ContainsAny(password, "\r\n\x00") {
		return "", "", errCredControlChars
	}
	return method, password, nil
}

func decodeUTF8Base64(s string) (string, error) {
	b, err := sub.DecodeBase64Loose(s)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errNotUTF8
	}
	return string(b), nil
}
