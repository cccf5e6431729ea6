package util

import (
	"fmt"
	"os/exec"
	"runtime"
)

// LocalURL 本机访问地址
func LocalURL(port int) string {
	return fmt.Sprintf("http://localhost:%d", port)
}

// browserCommand 各平台打开 URL 的首选命令
func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "windows":
		// rundll32 调用 url.dll，Windows 7 上比 cmd /c start 稳定
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	case "darwin":
		return "open", []string{url}
	default:
		return "xdg-open", []string{url}
	}
}

// fallbackCommands 首选命令失败后依次尝试的命令
func fallbackCommands(goos, url string) [][]string {
	switch goos {
	case "windows":
		return [][]string{{"explorer", url}}
	case "linux":
		var cmds [][]string
		for _, browser := range []string{"google-chrome", "firefox", "chromium-browser", "sensible-browser"} {
			cmds = append(cmds, []string{browser, url})
		}
		return cmds
	}
	return nil
}

// OpenBrowser 打开默认浏览器
func OpenBrowser(url string) error {
	name, args := browserCommand(runtime.GOOS, url)
	return exec.Command(name, args...).Start()
}

// OpenBrowserWithFallback 主要方式失败时尝试备选命令
func OpenBrowserWithFallback(url string) error {
	err := OpenBrowser(url)
	if err == nil {
		return nil
	}
	for _, cmd := range fallbackCommands(runtime.GOOS, url) {
		if exec.Command(cmd[0], cmd[1:]...).Start() == nil {
			return nil
		}
	}
	return err
}
