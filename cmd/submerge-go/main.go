package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/John-Robertt/submerge-go/internal/app"
	"github.com/John-Robertt/submerge-go/internal/document"
	"github.com/John-Robertt/submerge-go/internal/link"
	"github.com/John-Robertt/submerge-go/internal/logging"
	"github.com/John-Robertt/submerge-go/internal/model"
)

func main() {
	pflag.StringP("output", "o", "", "合并结果输出路径（默认在原文件名后加 _merged）")
	pflag.Bool("speedtest", false, "将新节点加入所有 url-test/fallback/load-balance 策略组")
	pflag.Bool("manual", false, "将新节点加入所有 select 策略组")
	pflag.String("split-dir", "", "为每个节点生成独立配置文件的输出目录（替代合并模式）")
	pflag.String("log-level", "info", "日志等级（debug/info/warn/error）")
	pflag.Usage = usage
	pflag.Parse()

	v := viper.New()
	_ = v.BindPFlags(pflag.CommandLine)
	v.SetEnvPrefix("SUBMERGE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	logging.SetLevel(v.GetString("log-level"))

	args := pflag.Args()
	if len(args) != 2 {
		usage()
		os.Exit(2)
	}

	paths, err := app.Run(app.Options{
		Subscription:   args[0],
		ConfigPath:     args[1],
		OutputPath:     v.GetString("output"),
		SplitDir:       v.GetString("split-dir"),
		AddToSpeedtest: v.GetBool("speedtest"),
		AddToManual:    v.GetBool("manual"),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, diagnostic(err))
		os.Exit(1)
	}
	for _, p := range paths {
		fmt.Printf("已写入配置：%s\n", p)
	}
}

// diagnostic renders any pipeline error as a one-line stderr message with
// enough context (code, source, line, snippet, hint) to remediate.
func diagnostic(err error) string {
	ae, ok := appErrorOf(err)
	if !ok {
		return fmt.Sprintf("错误：%v", err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "错误 [%s] %s", ae.Code, ae.Message)
	if ae.Source != "" {
		fmt.Fprintf(&b, "（来源：%s", ae.Source)
		if ae.Line > 0 {
			fmt.Fprintf(&b, "，第 %d 行", ae.Line)
		}
		b.WriteString("）")
	}
	if ae.Snippet != "" {
		fmt.Fprintf(&b, "：%s", ae.Snippet)
	}
	if ae.Hint != "" {
		fmt.Fprintf(&b, "（%s）", ae.Hint)
	}
	return b.String()
}

func appErrorOf(err error) (model.AppError, bool) {
	var re *app.RunError
	if errors.As(err, &re) {
		return re.AppError, true
	}
	var de *document.DocError
	if errors.As(err, &de) {
		return de.AppError, true
	}
	var pe *link.ParseError
	if errors.As(err, &pe) {
		return pe.AppError, true
	}
	return model.AppError{}, false
}

func usage() {
	fmt.Fprintf(os.Stderr, "用法：%s [flags] <订阅文件或内容> <Clash 配置文件>\n\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "flags：")
	pflag.PrintDefaults()
}
