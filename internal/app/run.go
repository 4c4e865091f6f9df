// Package app wires one CLI invocation end to end: read subscription, decode
// links, parse records, load the configuration, merge (or split), write out.
package app

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/John-Robertt/submerge-go/internal/document"
	"github.com/John-Robertt/submerge-go/internal/link"
	"github.com/John-Robertt/submerge-go/internal/logging"
	"github.com/John-Robertt/submerge-go/internal/merge"
	"github.com/John-Robertt/submerge-go/internal/model"
	"github.com/John-Robertt/submerge-go/internal/sub"
)

type Options struct {
	// Subscription is either a path to a payload file or the payload itself.
	Subscription string
	// ConfigPath points at the existing Clash configuration to merge into.
	ConfigPath string
	// OutputPath overrides the default "<base>_merged<ext>" destination.
	OutputPath string
	// SplitDir switches to single-node mode: one config file per proxy,
	// written into this directory.
	SplitDir string

	AddToSpeedtest bool
	AddToManual    bool
}

type RunError struct {
	AppError model.AppError
	Cause    error
}

func (e *RunError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.AppError.Code, e.AppError.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.AppError.Code, e.AppError.Message, e.Cause)
}

func (e *RunError) Unwrap() error { return e.Cause }

// Run executes one invocation and returns the written file paths in order.
func Run(opt Options) ([]string, error) {
	payload, source, err := readSubscriptionInput(opt.Subscription)
	if err != nil {
		return nil, err
	}

	links := sub.DecodeLinks(payload)
	if len(links) == 0 {
		return nil, &RunError{AppError: model.AppError{
			Code:    "NO_VALID_LINKS",
			Message: "订阅中没有找到任何链接",
			Stage:   "parse_sub",
			Source:  source,
		}}
	}

	proxies := link.ParseBatch(source, links)
	if len(proxies) == 0 {
		return nil, &RunError{AppError: model.AppError{
			Code:    "NO_SUPPORTED_PROXIES",
			Message: "订阅链接均无法转换为支持的节点",
			Stage:   "parse_link",
			Source:  source,
			Hint:    "supported: vless:// vmess:// trojan:// ss://",
		}}
	}
	logging.Log.WithFields(logrus.Fields{
		"links":   len(links),
		"proxies": len(proxies),
		"skipped": len(links) - len(proxies),
	}).Info("订阅解析完成")

	cfgData, err := os.ReadFile(opt.ConfigPath)
	if err != nil {
		return nil, &RunError{
			AppError: model.AppError{
				Code:    "IO_ERROR",
				Message: "读取配置文件失败",
				Stage:   "load_config",
				Source:  opt.ConfigPath,
			},
			Cause: err,
		}
	}

	if opt.SplitDir != "" {
		return runSplit(opt, cfgData, proxies)
	}
	return runMerge(opt, cfgData, proxies)
}

func runMerge(opt Options, cfgData []byte, proxies []model.Proxy) ([]string, error) {
	doc, err := document.Load(opt.ConfigPath, cfgData)
	if err != nil {
		return nil, err
	}

	if err := merge.Merge(doc, proxies, merge.Options{
		AddToSpeedtest: opt.AddToSpeedtest,
		AddToManual:    opt.AddToManual,
	}); err != nil {
		return nil, err
	}

	out, err := doc.Encode()
	if err != nil {
		return nil, err
	}

	dest := DeriveOutputPath(opt.ConfigPath, opt.OutputPath)
	if err := writeFileAtomic(dest, out); err != nil {
		return nil, err
	}
	logging.Log.WithField("path", dest).Info("合并配置已写入")
	return []string{dest}, nil
}

func runSplit(opt Options, template []byte, proxies []model.Proxy) ([]string, error) {
	docs, err := merge.SplitPerProxy(opt.ConfigPath, template, proxies)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opt.SplitDir, 0o755); err != nil {
		return nil, &RunError{
			AppError: model.AppError{
				Code:    "IO_ERROR",
				Message: "创建输出目录失败",
				Stage:   "write_output",
				Source:  opt.SplitDir,
			},
			Cause: err,
		}
	}

	paths := make([]string, 0, len(docs))
	for i, doc := range docs {
		out, err := doc.Encode()
		if err != nil {
			return nil, err
		}
		dest := uniquePath(splitFilePath(opt.SplitDir, proxies[i].Name, i))
		if err := writeFileAtomic(dest, out); err != nil {
			return nil, err
		}
		paths = append(paths, dest)
	}
	logging.Log.WithField("files", len(paths)).Info("独立配置已生成")
	return paths, nil
}

func readSubscriptionInput(pathOrData string) (payload string, source string, err error) {
	info, statErr := os.Stat(pathOrData)
	if statErr != nil || info.IsDir() {
		return pathOrData, "inline", nil
	}
	b, err := os.ReadFile(pathOrData)
	if err != nil {
		return "", "", &RunError{
			AppError: model.AppError{
				Code:    "IO_ERROR",
				Message: "读取订阅文件失败",
				Stage:   "parse_sub",
				Source:  pathOrData,
			},
			Cause: err,
		}
	}
	return string(b), pathOrData, nil
}
