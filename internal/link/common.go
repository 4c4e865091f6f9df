package link

import (
	"errors"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/John-Robertt/submerge-go/internal/model"
)

var (
	errMissingCred      = errors.New("missing method:password")
	errCredControlChars = errors.New("control chars in method/password")
	errNotUTF8          = errors.New("decoded result is not valid utf-8")
)

// cutFragment splits off the #fragment as the display name. The fragment is
// percent-decoded; when absent or empty the protocol placeholder is used.
func cutFragment(line string, placeholder string) (rest string, name string, err error) {
	rest, frag, hasFrag := strings.Cut(line, "#")
	name = placeholder
	if hasFrag {
		decoded, err := url.PathUnescape(frag)
		if err != nil {
			return "", "", newParseError("LINK_PARSE_ERROR", "节点名称 URL 解码失败", line, err)
		}
		decoded = strings.TrimSpace(decoded)
		if strings.ContainsAny(decoded, "\r\n\x00") {
			return "", "", newParseError("LINK_PARSE_ERROR", "节点名称包含非法控制字符", line, nil)
		}
		if decoded != "" {
			name = decoded
		}
	}
	return rest, name, nil
}

func parsePort(s string) (int, error) {
	if strings.TrimSpace(s) == "" {
		return 0, errors.New("missing port")
	}
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if port < 1 || port > 65535 {
		return 0, errors.New("port out of range")
	}
	return port, nil
}

func parseHostPort(s string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return "", 0, err
	}
	host = strings.TrimSpace(host)
	if host == "" {
		return "", 0, errors.New("empty host")
	}
	port, err := parsePort(portStr)
	if err != nil {
		return "", 0, err
	}
	return host, port, nil
}

// finalize applies the record invariant before a proxy leaves a decoder.
func finalize(p model.Proxy, line string) (model.Proxy, error) {
	if err := model.ValidateProxy(p); err != nil {
		return model.Proxy{}, newParseError("LINK_PARSE_ERROR", "节点字段不满足约束", line, err)
	}
	return p, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func truncateSnippet(s string, max int) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "")
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func newParseError(code, message, line string, cause error) error {
	return &ParseError{
		AppError: model.AppError{
			Code:    code,
			Message: message,
			Stage:   "parse_link",
			Snippet: truncateSnippet(line, 200),
		},
		Cause: cause,
	}
}
