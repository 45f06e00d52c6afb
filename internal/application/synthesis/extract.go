// Package synthesis 将提示词与参数集合成 OpenSCAD 源码
package synthesis

import (
	"regexp"
	"strings"
)

var codeBlockRe = regexp.MustCompile("(?s)```(?:openscad)?(.*?)```")

// 补全输出中叙述性段落的行首词
var narrativeOpenerRe = regexp.MustCompile(`^(Here's|This|The|I've|I'll|I|As you|Now|Note:)`)

// ExtractCode 从补全输出中剥离说明文字，只留下代码
// 优先取围栏代码块；没有围栏时退回逐行启发式过滤
func ExtractCode(text string) string {
	blocks := codeBlockRe.FindAllStringSubmatch(text, -1)
	if len(blocks) > 0 {
		parts := make([]string, 0, len(blocks))
		for _, block := range blocks {
			parts = append(parts, strings.TrimSpace(block[1]))
		}
		return strings.Join(parts, "\n\n")
	}

	var codeLines []string
	inCode := false
	for _, line := range strings.Split(text, "\n") {
		if narrativeOpenerRe.MatchString(line) {
			continue
		}
		if strings.ContainsAny(line, "(){}=") || strings.Contains(line, "//") {
			inCode = true
			codeLines = append(codeLines, line)
		} else if inCode && strings.TrimSpace(line) != "" {
			// 进入代码段后保留后续非空行
			codeLines = append(codeLines, line)
		}
	}

	return strings.TrimSpace(strings.Join(codeLines, "\n"))
}
