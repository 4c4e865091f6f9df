// Package link decodes individual proxy share links (vless/vmess/trojan/ss)
// into normalized model.Proxy records.
package link

import (
	"errors"
	"fmt"
	"strings"

	"github.com/John-Robertt/submerge-go/internal/logging"
	"github.com/John-Robertt/submerge-go/internal/model"
	"github.com/sirupsen/logrus"
)

type ParseError struct {
	AppError model.AppError
	Cause    error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.AppError.Code, e.AppError.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.AppError.Code, e.AppError.Message, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// ErrUnsupportedScheme marks a well-formed link whose scheme has no decoder.
// It is a skip signal, not a diagnostic.
var ErrUnsupportedScheme = errors.New("unsupported link scheme")

type decoder func(line string) (model.Proxy, error)

var decoders = map[string]decoder{
	"vless":  decodeVLESS,
	"vmess":  decodeVMess,
	"trojan": decodeTrojan,
	"ss":     decodeSS,
}

// Parse converts one link into a proxy record.
//
// A link without "://" fails with LINK_INVALID_FORMAT; a scheme outside the
// four supported ones returns ErrUnsupportedScheme. Both are per-link
// conditions the caller is expected to skip, never fatal for a batch.
func Parse(line string) (model.Proxy, error) {
	scheme, _, ok := strings.Cut(line, "://")
	if !ok {
		return model.Proxy{}, newParseError("LINK_INVALID_FORMAT", "链接缺少 :// 分隔符", line, nil)
	}
	dec, ok := decoders[strings.ToLower(scheme)]
	if !ok {
		return model.Proxy{}, ErrUnsupportedScheme
	}
	return dec(line)
}

// ParseBatch converts a list of links, preserving input order. Links that
// fail to parse are logged and skipped; the batch itself never fails. The
// caller decides whether an empty result is an error.
func ParseBatch(source string, lines []string) []model.Proxy {
	out := make([]model.Proxy, 0, len(lines))
	for i, line := range lines {
		p, err := Parse(line)
		if err != nil {
			fields := logrus.Fields{
				"source": source,
				"line":   i + 1,
				"link":   truncateSnippet(line, 200),
			}
			if errors.Is(err, ErrUnsupportedScheme) {
				logging.Log.WithFields(fields).Debug("跳过不支持的协议")
			} else {
				logging.Log.WithError(err).WithFields(fields).Warn("跳过无法解析的链接")
			}
			continue
		}
		out = append(out, p)
	}
	return out
}
